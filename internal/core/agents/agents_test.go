package agents

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/ailink/driver"
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

type cannedChat struct {
	text     string
	err      error
	lastSlug string
	lastMsg  string
	lastCtx  json.RawMessage
}

func (c *cannedChat) Chat(ctx context.Context, promptSlug string, message string, contextSlice json.RawMessage) (string, error) {
	c.lastSlug = promptSlug
	c.lastMsg = message
	c.lastCtx = contextSlice
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

func TestAllCoversEveryKind(t *testing.T) {
	handlers := All(&cannedChat{})
	require.Len(t, handlers, len(core.AgentKinds()))
	for _, kind := range core.AgentKinds() {
		agent := handlers[kind]
		require.NotNil(t, agent)
		require.Equal(t, kind, agent.Kind())
	}
}

func TestAgentHandleParsesStructuredReply(t *testing.T) {
	chat := &cannedChat{text: `{"reply":"Added milk.","action":{"type":"update_entity","entity":"shopping_list","payload":{"items":[{"name":"milk","quantity":"1"}]}}}`}
	agent := NewShopping(chat)

	result, err := agent.Handle(context.Background(), engine.AgentRequest{
		Message:        "add milk to the list",
		ConversationID: "conv-1",
		Context:        []byte(`{"lists":[]}`),
	})
	require.NoError(t, err)
	require.Equal(t, core.AgentShopping, result.Agent)
	require.Equal(t, "Added milk.", result.Reply)
	require.Equal(t, core.ActionUpdateEntity, result.Action.Type)
	require.Equal(t, "shopping_list", result.Action.Entity)
	require.NotEmpty(t, result.Action.Payload)

	require.Equal(t, "shopping-chat", chat.lastSlug)
	require.Equal(t, "add milk to the list", chat.lastMsg)
	require.Equal(t, json.RawMessage(`{"lists":[]}`), chat.lastCtx)
}

func TestAgentHandleDefaultsToNoAction(t *testing.T) {
	chat := &cannedChat{text: `{"reply":"About 110 calories per slice."}`}
	agent := NewNutrition(chat)

	result, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "calories in a slice of bread?"})
	require.NoError(t, err)
	require.Equal(t, core.ActionNone, result.Action.Type)
	require.Empty(t, result.Action.Entity)
}

func TestAgentHandleStripsCodeFences(t *testing.T) {
	chat := &cannedChat{text: "```json\n{\"reply\":\"ok\"}\n```"}
	agent := NewRecipe(chat)

	result, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, "ok", result.Reply)
}

func TestAgentHandleMalformedCompletion(t *testing.T) {
	chat := &cannedChat{text: "Sure! Here is your plan: buy milk"}
	agent := NewPlanning(chat)

	_, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "plan my week"})
	require.Error(t, err)

	var upstream *engine.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.False(t, upstream.Retryable)
}

func TestAgentHandleClassifiesProviderErrors(t *testing.T) {
	chat := &cannedChat{err: &driver.ProviderError{Provider: "openai", StatusCode: 503, Message: "overloaded"}}
	agent := NewRecipe(chat)

	_, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "hi"})

	var upstream *engine.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.True(t, upstream.Retryable)
}

func TestAgentHandleClassifiesTransportErrors(t *testing.T) {
	chat := &cannedChat{err: &url.Error{Op: "Post", URL: "https://api.example", Err: errors.New("connection refused")}}
	agent := NewRecipe(chat)

	_, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "hi"})

	var upstream *engine.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.True(t, upstream.Retryable)
}

func TestAgentHandlePassesThroughDeadline(t *testing.T) {
	chat := &cannedChat{err: context.DeadlineExceeded}
	agent := NewRecipe(chat)

	_, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "hi"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAgentHandleSurfacesUnknownErrors(t *testing.T) {
	chat := &cannedChat{err: errors.New("prompt registry corrupted")}
	agent := NewRecipe(chat)

	_, err := agent.Handle(context.Background(), engine.AgentRequest{Message: "hi"})
	require.Error(t, err)

	var upstream *engine.UpstreamError
	require.False(t, errors.As(err, &upstream))
}
