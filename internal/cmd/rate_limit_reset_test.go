package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/output"
)

func TestWriteRateLimitResetResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRateLimitResetResult(output.FormatTable, &buf, 3, 0, true))
	require.Contains(t, buf.String(), "Would delete 3")

	buf.Reset()
	require.NoError(t, writeRateLimitResetResult(output.FormatTable, &buf, 3, 3, false))
	require.Contains(t, buf.String(), "Deleted 3/3")

	buf.Reset()
	require.NoError(t, writeRateLimitResetResult(output.FormatJSON, &buf, 2, 1, false))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Equal(t, float64(2), result["matched"])
	require.Equal(t, float64(1), result["deleted"])
	require.Equal(t, false, result["dry_run"])
}
