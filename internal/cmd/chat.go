package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mealdesk/mealdesk/internal/config"
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/output"
)

var (
	chatSubject      string
	chatConversation string
	chatAgent        string
	chatContext      string
	chatOutput       string
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a single chat message through the orchestrator",
	Long: `Send a single chat message through the full request pipeline:
admission, rate limiting, intent classification, and the selected agent.

The message runs against the configured model provider, so MEALDESK_AILINK_API_KEY
(or ailink.api_key) must be set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(chatOutput)
		if err != nil {
			return err
		}

		cfg := config.GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}

		var contextSlice json.RawMessage
		if trimmed := strings.TrimSpace(chatContext); trimmed != "" {
			if !json.Valid([]byte(trimmed)) {
				return fmt.Errorf("--context must be valid JSON")
			}
			contextSlice = json.RawMessage(trimmed)
		}

		conversationID := strings.TrimSpace(chatConversation)
		if conversationID == "" {
			conversationID = uuid.New().String()
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		zlog, err := newZapLogger(cfg.Logging.Level)
		if err != nil {
			return err
		}

		orch, err := buildOrchestrator(cfg, db, zlog)
		if err != nil {
			return err
		}

		req := core.ChatRequest{
			SubjectID:        strings.TrimSpace(chatSubject),
			ConversationID:   conversationID,
			Message:          strings.Join(args, " "),
			HintedAgent:      strings.TrimSpace(chatAgent),
			AntiForgeryToken: cfg.Server.AntiForgeryToken,
			ContextSlice:     contextSlice,
		}

		outcome, err := orch.Handle(cmd.Context(), req)
		if err != nil {
			return err
		}

		if format == output.FormatJSON {
			rendered, err := output.MarshalIndented(outcome)
			if err != nil {
				return err
			}
			fmt.Println(rendered)
			return nil
		}

		fmt.Println(output.FormatOutcome(outcome))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatSubject, "subject", "cli", "Subject identifier for rate limiting")
	chatCmd.Flags().StringVar(&chatConversation, "conversation", "", "Conversation identifier (random if omitted)")
	chatCmd.Flags().StringVar(&chatAgent, "agent", "", "Agent hint: recipe|planning|nutrition|shopping")
	chatCmd.Flags().StringVar(&chatContext, "context", "", "User context slice as raw JSON")
	chatCmd.Flags().StringVar(&chatOutput, "output-format", string(output.FormatTable), "Output format: table|json")
}
