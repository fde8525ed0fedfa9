package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

type memoryRateStore struct {
	counts map[string]int
}

func (m *memoryRateStore) AcquireRateSlot(ctx context.Context, subjectID string, windowStart time.Time, quota int) (int, bool, error) {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	key := subjectID + windowStart.UTC().String()
	if m.counts[key] >= quota {
		return 0, false, nil
	}
	m.counts[key]++
	return m.counts[key], true, nil
}

type echoAgent struct {
	kind core.AgentKind
	err  error
}

func (e *echoAgent) Kind() core.AgentKind { return e.kind }

func (e *echoAgent) Handle(ctx context.Context, req engine.AgentRequest) (*core.AgentResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &core.AgentResult{
		Agent:  e.kind,
		Reply:  "done: " + req.Message,
		Action: core.Action{Type: core.ActionNone},
	}, nil
}

func newChatHandler(quota int, agentErr error) *ChatHandler {
	agents := make(map[core.AgentKind]engine.Agent)
	for _, kind := range core.AgentKinds() {
		agents[kind] = &echoAgent{kind: kind, err: agentErr}
	}

	return &ChatHandler{
		Orchestrator: &engine.Orchestrator{
			Gate:    &engine.Gate{ExpectedToken: "sentinel", MaxMessageLen: 4000},
			Limiter: &engine.Limiter{Store: &memoryRateStore{}, Quota: quota, Window: time.Minute},
			Agents:  agents,
		},
	}
}

func postChat(t *testing.T, handler *ChatHandler, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func chatBody(message string) core.ChatRequest {
	return core.ChatRequest{
		SubjectID:        "u1",
		ConversationID:   "conv-1",
		Message:          message,
		AntiForgeryToken: "sentinel",
	}
}

func TestChatHandlerSucceeds(t *testing.T) {
	handler := newChatHandler(5, nil)

	rec := postChat(t, handler, chatBody("plan my week"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "succeeded", resp.Outcome)
	require.Equal(t, "planning", resp.Agent)
	require.Equal(t, "done: plan my week", resp.Reply)
	require.NotNil(t, resp.Action)
}

func TestChatHandlerRejectsBadToken(t *testing.T) {
	handler := newChatHandler(5, nil)

	body := chatBody("hello")
	body.AntiForgeryToken = "forged"
	rec := postChat(t, handler, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "rejected", resp.Outcome)
	require.Equal(t, "missing_token", resp.Reason)
}

func TestChatHandlerRateLimits(t *testing.T) {
	handler := newChatHandler(1, nil)

	rec := postChat(t, handler, chatBody("first"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postChat(t, handler, chatBody("second"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "rate_limited", resp.Outcome)
	require.Greater(t, resp.RetryAfterSeconds, 0)
}

func TestChatHandlerMapsTimeout(t *testing.T) {
	handler := newChatHandler(5, context.DeadlineExceeded)

	rec := postChat(t, handler, chatBody("slow"))
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "timed_out", resp.Outcome)
	require.True(t, resp.Retryable)
}

func TestChatHandlerMapsUpstreamFailure(t *testing.T) {
	handler := newChatHandler(5, &engine.UpstreamError{Reason: "status 503", Retryable: true})

	rec := postChat(t, handler, chatBody("hello"))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "upstream_failed", resp.Outcome)
	require.True(t, resp.Retryable)
	require.NotContains(t, resp.Reason, "503")
}

func TestChatHandlerRejectsMalformedBody(t *testing.T) {
	handler := newChatHandler(5, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
