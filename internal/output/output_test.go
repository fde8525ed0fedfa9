package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/core"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func TestFormatRateWindows(t *testing.T) {
	windows := []core.RateWindow{
		{SubjectID: "user-1", WindowStart: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Count: 7},
		{SubjectID: "user-2", WindowStart: time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC), Count: 2},
	}

	rendered := FormatRateWindows(windows)
	require.Contains(t, rendered, "user-1")
	require.Contains(t, rendered, "2026-03-01T12:00:00Z")
	require.Contains(t, rendered, "2 window(s)")
}

func TestFormatOutcome(t *testing.T) {
	outcome := &core.Outcome{
		Status: core.OutcomeSucceeded,
		Result: &core.AgentResult{
			Agent: core.AgentShopping,
			Reply: "Added milk to your list.",
			Action: core.Action{
				Type:   core.ActionUpdateEntity,
				Entity: "shopping_list",
			},
		},
	}

	rendered := FormatOutcome(outcome)
	require.Contains(t, rendered, "succeeded")
	require.Contains(t, rendered, "shopping")
	require.Contains(t, rendered, "update_entity shopping_list")

	denied := &core.Outcome{
		Status:            core.OutcomeRateLimited,
		Reason:            "rate limit exceeded",
		RetryAfterSeconds: 30,
		Retryable:         true,
	}
	rendered = FormatOutcome(denied)
	require.Contains(t, rendered, "rate_limited")
	require.Contains(t, rendered, "30s")
	require.Empty(t, FormatOutcome(nil))
}
