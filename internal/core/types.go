// Package core defines the shared domain types for the MealDesk
// conversational assistant: agent identities, chat requests, agent
// results, and orchestration outcomes.
package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AgentKind identifies one of the fixed set of specialized agents.
type AgentKind string

const (
	AgentRecipe    AgentKind = "recipe"
	AgentPlanning  AgentKind = "planning"
	AgentNutrition AgentKind = "nutrition"
	AgentShopping  AgentKind = "shopping"
)

// AgentKinds lists every supported agent in stable order.
func AgentKinds() []AgentKind {
	return []AgentKind{AgentRecipe, AgentPlanning, AgentNutrition, AgentShopping}
}

// ParseAgentKind normalizes and validates an agent identifier.
func ParseAgentKind(value string) (AgentKind, error) {
	normalized := AgentKind(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case AgentRecipe, AgentPlanning, AgentNutrition, AgentShopping:
		return normalized, nil
	default:
		return "", fmt.Errorf("unknown agent kind: %s", value)
	}
}

// Valid reports whether the kind is a member of the closed enumeration.
func (k AgentKind) Valid() bool {
	_, err := ParseAgentKind(string(k))
	return err == nil
}

// ChatRequest is a single conversational turn submitted by a caller.
// ContextSlice is opaque user context passed through to the selected
// agent; the core never interprets it.
type ChatRequest struct {
	SubjectID        string          `json:"subject_id"`
	ConversationID   string          `json:"conversation_id"`
	Message          string          `json:"message"`
	HintedAgent      string          `json:"hinted_agent,omitempty"`
	AntiForgeryToken string          `json:"anti_forgery_token"`
	ContextSlice     json.RawMessage `json:"user_context,omitempty"`
}

// ActionType tags the structured action variant emitted by an agent.
type ActionType string

const (
	ActionNone         ActionType = "none"
	ActionCreateEntity ActionType = "create_entity"
	ActionUpdateEntity ActionType = "update_entity"
	ActionQueryResult  ActionType = "query_result"
)

// ParseActionType validates an action tag, defaulting to none for
// blank input.
func ParseActionType(value string) (ActionType, error) {
	normalized := ActionType(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return ActionNone, nil
	case ActionNone, ActionCreateEntity, ActionUpdateEntity, ActionQueryResult:
		return normalized, nil
	default:
		return "", fmt.Errorf("unknown action type: %s", value)
	}
}

// Action is the structured side of an agent reply. Payload shape is
// owned by the emitting agent; the orchestrator only sees the envelope.
type Action struct {
	Type    ActionType      `json:"type"`
	Entity  string          `json:"entity,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AgentResult is the common envelope every agent emits.
type AgentResult struct {
	Agent  AgentKind `json:"agent"`
	Action Action    `json:"action"`
	Reply  string    `json:"reply"`
}

// OutcomeStatus is the terminal state of one orchestrated request.
type OutcomeStatus string

const (
	OutcomeSucceeded      OutcomeStatus = "succeeded"
	OutcomeRejected       OutcomeStatus = "rejected"
	OutcomeRateLimited    OutcomeStatus = "rate_limited"
	OutcomeTimedOut       OutcomeStatus = "timed_out"
	OutcomeUpstreamFailed OutcomeStatus = "upstream_failed"
)

// Outcome is the discriminated result of a request lifecycle. Exactly
// one terminal status is set; the accompanying fields depend on it:
// Result for succeeded, Reason for rejected/upstream_failed,
// RetryAfterSeconds for rate_limited, Retryable for upstream_failed.
type Outcome struct {
	Status            OutcomeStatus `json:"outcome"`
	Result            *AgentResult  `json:"result,omitempty"`
	Reason            string        `json:"reason,omitempty"`
	RetryAfterSeconds int           `json:"retry_after_seconds,omitempty"`
	Retryable         bool          `json:"retryable,omitempty"`
}

// RateWindow is one persisted fixed-window counter row. WindowStart is
// always the floor of request time to the configured window size.
type RateWindow struct {
	SubjectID   string    `json:"subject_id"`
	WindowStart time.Time `json:"window_start"`
	Count       int       `json:"count"`
}
