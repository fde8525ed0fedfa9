package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mealdesk/mealdesk/internal/core/store"
	"github.com/mealdesk/mealdesk/internal/output"
)

var (
	rateLimitResetAll     bool
	rateLimitResetSubject string
	rateLimitResetPrefix  string
	rateLimitResetYes     bool
	rateLimitResetDryRun  bool
	rateLimitResetOutput  string
)

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset persisted rate limit windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(rateLimitResetOutput)
		if err != nil {
			return err
		}

		query := store.RateWindowQuery{
			All:     rateLimitResetAll,
			Subject: strings.TrimSpace(rateLimitResetSubject),
			Prefix:  strings.TrimSpace(rateLimitResetPrefix),
		}
		if err := query.Validate(); err != nil {
			return err
		}

		if query.All && !rateLimitResetYes && !rateLimitResetDryRun {
			return errors.New("--all requires --yes (or use --dry-run)")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		matched, err := db.CountRateWindows(cmd.Context(), query)
		if err != nil {
			return err
		}

		if rateLimitResetDryRun {
			return writeRateLimitResetResult(format, os.Stdout, matched, 0, true)
		}

		deleted, err := db.ResetRateWindows(cmd.Context(), query)
		if err != nil {
			return err
		}

		return writeRateLimitResetResult(format, os.Stdout, matched, deleted, false)
	},
}

func writeRateLimitResetResult(format output.Format, w io.Writer, matched int, deleted int64, dryRun bool) error {
	result := map[string]any{
		"matched": matched,
		"deleted": deleted,
		"dry_run": dryRun,
	}

	if format == output.FormatJSON {
		rendered, err := output.MarshalIndented(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, rendered)
		return err
	}

	if dryRun {
		_, err := fmt.Fprintf(w, "Would delete %d rate limit window(s)\n", matched)
		return err
	}
	_, err := fmt.Fprintf(w, "Deleted %d/%d rate limit window(s)\n", deleted, matched)
	return err
}

func init() {
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetAll, "all", false, "Reset all subjects")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetSubject, "subject", "", "Reset a single subject (exact match)")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetPrefix, "prefix", "", "Reset subjects with matching prefix")
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetYes, "yes", false, "Confirm destructive reset")
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetDryRun, "dry-run", false, "Show what would be deleted")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetOutput, "output-format", string(output.FormatTable), "Output format: table|json")
}
