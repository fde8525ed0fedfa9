package output

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mealdesk/mealdesk/internal/core"
)

// FormatRateWindows renders persisted rate windows as an ASCII table.
func FormatRateWindows(windows []core.RateWindow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Subject", "Window Start", "Count"})

	for _, w := range windows {
		t.AppendRow(table.Row{
			w.SubjectID,
			w.WindowStart.UTC().Format(time.RFC3339),
			w.Count,
		})
	}

	if len(windows) > 0 {
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d window(s)", len(windows))})
	}

	return t.Render()
}

// FormatOutcome renders an orchestration outcome as a two-column table.
func FormatOutcome(outcome *core.Outcome) string {
	if outcome == nil {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendRow(table.Row{"Outcome", string(outcome.Status)})

	if outcome.Result != nil {
		t.AppendRow(table.Row{"Agent", string(outcome.Result.Agent)})
		t.AppendRow(table.Row{"Reply", outcome.Result.Reply})
		if outcome.Result.Action.Type != core.ActionNone {
			t.AppendRow(table.Row{"Action", fmt.Sprintf("%s %s", outcome.Result.Action.Type, outcome.Result.Action.Entity)})
		}
	}
	if outcome.Reason != "" {
		t.AppendRow(table.Row{"Reason", outcome.Reason})
	}
	if outcome.RetryAfterSeconds > 0 {
		t.AppendRow(table.Row{"Retry After", fmt.Sprintf("%ds", outcome.RetryAfterSeconds)})
	}
	if outcome.Retryable {
		t.AppendRow(table.Row{"Retryable", "yes"})
	}

	return t.Render()
}
