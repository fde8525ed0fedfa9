package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAgentKind(t *testing.T) {
	kind, err := ParseAgentKind(" Planning ")
	require.NoError(t, err)
	require.Equal(t, AgentPlanning, kind)

	_, err = ParseAgentKind("sommelier")
	require.Error(t, err)

	_, err = ParseAgentKind("")
	require.Error(t, err)
}

func TestAgentKindsClosed(t *testing.T) {
	kinds := AgentKinds()
	require.Len(t, kinds, 4)
	for _, kind := range kinds {
		require.True(t, kind.Valid())
	}
}

func TestParseActionType(t *testing.T) {
	action, err := ParseActionType("")
	require.NoError(t, err)
	require.Equal(t, ActionNone, action)

	action, err = ParseActionType("Create_Entity")
	require.NoError(t, err)
	require.Equal(t, ActionCreateEntity, action)

	_, err = ParseActionType("delete_everything")
	require.Error(t, err)
}
