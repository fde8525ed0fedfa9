package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mealdesk/mealdesk/internal/core/store"
	"github.com/mealdesk/mealdesk/internal/output"
)

var (
	rateLimitListOutput  string
	rateLimitListAll     bool
	rateLimitListSubject string
	rateLimitListPrefix  string
)

var rateLimitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted rate limit windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(rateLimitListOutput)
		if err != nil {
			return err
		}

		query := store.RateWindowQuery{
			All:     rateLimitListAll,
			Subject: strings.TrimSpace(rateLimitListSubject),
			Prefix:  strings.TrimSpace(rateLimitListPrefix),
		}
		if !query.All && query.Subject == "" && query.Prefix == "" {
			query.All = true
		}
		if err := query.Validate(); err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		windows, err := db.ListRateWindows(cmd.Context(), query)
		if err != nil {
			return err
		}

		if format == output.FormatJSON {
			rendered, err := output.MarshalIndented(windows)
			if err != nil {
				return err
			}
			fmt.Println(rendered)
			return nil
		}

		if len(windows) == 0 {
			fmt.Println("(no stored rate limit windows)")
			return nil
		}

		fmt.Println(output.FormatRateWindows(windows))
		return nil
	},
}

func init() {
	rateLimitListCmd.Flags().StringVar(&rateLimitListOutput, "output-format", string(output.FormatTable), "Output format: table|json")
	rateLimitListCmd.Flags().BoolVar(&rateLimitListAll, "all", false, "List all subjects")
	rateLimitListCmd.Flags().StringVar(&rateLimitListSubject, "subject", "", "List a single subject (exact match)")
	rateLimitListCmd.Flags().StringVar(&rateLimitListPrefix, "prefix", "", "List subjects with matching prefix")
}
