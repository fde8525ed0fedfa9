package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rateLimitPruneOlderThan time.Duration

var rateLimitPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete rate limit windows older than a cutoff",
	Long: `Delete rate limit windows whose window start is older than the cutoff.

Expired windows never influence admission decisions, so pruning is purely
a housekeeping operation to keep the store small.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rateLimitPruneOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive, got %s", rateLimitPruneOlderThan)
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		cutoff := time.Now().UTC().Add(-rateLimitPruneOlderThan)
		deleted, err := db.PruneRateWindows(cmd.Context(), cutoff)
		if err != nil {
			return err
		}

		fmt.Printf("Pruned %d rate limit window(s) older than %s\n", deleted, cutoff.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rateLimitPruneCmd.Flags().DurationVar(&rateLimitPruneOlderThan, "older-than", 24*time.Hour, "Delete windows with a start older than this duration")
}
