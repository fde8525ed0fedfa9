package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
	apperrors "github.com/mealdesk/mealdesk/internal/errors"
	"github.com/mealdesk/mealdesk/internal/metrics"
)

// ChatResponse is the wire form of an orchestration outcome.
type ChatResponse struct {
	Outcome           string       `json:"outcome"`
	Agent             string       `json:"agent,omitempty"`
	Reply             string       `json:"reply,omitempty"`
	Action            *core.Action `json:"action,omitempty"`
	Reason            string       `json:"reason,omitempty"`
	RetryAfterSeconds int          `json:"retry_after_seconds,omitempty"`
	Retryable         bool         `json:"retryable,omitempty"`
}

// ChatHandler serves POST /v1/chat, the single entry point for
// conversational turns.
type ChatHandler struct {
	Orchestrator *engine.Orchestrator
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Orchestrator == nil {
		respondWithError(w, r, apperrors.NewInternalError("chat handler is not configured"))
		return
	}

	var req core.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.NewInvalidInputError("request body must be valid JSON"))
		return
	}

	outcome, err := h.Orchestrator.Handle(r.Context(), req)
	if err != nil {
		// Internal defect: detail is logged by the error responder,
		// the caller gets a generic message.
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "chat request failed"))
		return
	}

	writeOutcome(w, outcome)
}

func writeOutcome(w http.ResponseWriter, outcome *core.Outcome) {
	response := ChatResponse{
		Outcome:           string(outcome.Status),
		Reason:            outcome.Reason,
		RetryAfterSeconds: outcome.RetryAfterSeconds,
		Retryable:         outcome.Retryable,
	}
	if outcome.Result != nil {
		response.Agent = string(outcome.Result.Agent)
		response.Reply = outcome.Result.Reply
		action := outcome.Result.Action
		response.Action = &action
	}

	status := http.StatusOK
	switch outcome.Status {
	case core.OutcomeRejected:
		status = http.StatusBadRequest
	case core.OutcomeRateLimited:
		status = http.StatusTooManyRequests
		if outcome.RetryAfterSeconds > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(outcome.RetryAfterSeconds))
		}
	case core.OutcomeTimedOut:
		status = http.StatusGatewayTimeout
	case core.OutcomeUpstreamFailed:
		status = http.StatusBadGateway
	}

	if status >= 400 {
		metrics.RecordErrorByEndpoint("/v1/chat", string(outcome.Status))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
