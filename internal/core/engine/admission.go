// Package engine implements the request lifecycle for MealDesk chat
// turns: admission, rate limiting, intent classification, and dispatch
// to the specialized agents.
package engine

import (
	"strings"

	"github.com/mealdesk/mealdesk/internal/core"
)

// Rejection reason codes. Callers branch on these, so they are part of
// the API surface and never collapse into a generic failure.
const (
	RejectMissingToken        = "missing_token"
	RejectEmptyMessage        = "empty_message"
	RejectMessageTooLong      = "message_too_long"
	RejectInvalidConversation = "invalid_conversation"
)

// Rejection describes why a request was refused at the door.
type Rejection struct {
	Code    string
	Message string
}

// Gate validates request shape and the anti-forgery token before any
// downstream resource is touched. It has no side effects.
type Gate struct {
	ExpectedToken string
	MaxMessageLen int
}

// Admit checks the request and returns nil when it may proceed.
func (g *Gate) Admit(req core.ChatRequest) *Rejection {
	if g == nil {
		return &Rejection{Code: RejectMissingToken, Message: "admission gate is not configured"}
	}

	token := strings.TrimSpace(req.AntiForgeryToken)
	if token == "" || token != g.ExpectedToken {
		return &Rejection{Code: RejectMissingToken, Message: "anti-forgery token missing or invalid"}
	}

	if strings.TrimSpace(req.Message) == "" {
		return &Rejection{Code: RejectEmptyMessage, Message: "message is required"}
	}

	maxLen := g.MaxMessageLen
	if maxLen > 0 && len(req.Message) > maxLen {
		return &Rejection{Code: RejectMessageTooLong, Message: "message exceeds maximum length"}
	}

	if strings.TrimSpace(req.ConversationID) == "" {
		return &Rejection{Code: RejectInvalidConversation, Message: "conversation id is required"}
	}

	return nil
}
