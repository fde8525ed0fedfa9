// Package agents implements the four specialized MealDesk handlers.
// Each agent pairs an identity with a prompt and parses the model's
// structured reply into the common result envelope. Agents hold no
// state across calls.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mealdesk/mealdesk/internal/ailink/driver"
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

// ChatService is the upstream completion dependency.
type ChatService interface {
	Chat(ctx context.Context, promptSlug string, message string, contextSlice json.RawMessage) (string, error)
}

// chatAgent is the shared implementation behind every agent kind.
type chatAgent struct {
	kind core.AgentKind
	slug string
	ai   ChatService
}

func (a *chatAgent) Kind() core.AgentKind {
	return a.kind
}

func (a *chatAgent) Handle(ctx context.Context, req engine.AgentRequest) (*core.AgentResult, error) {
	if a == nil || a.ai == nil {
		return nil, errors.New("agent is not configured")
	}

	text, err := a.ai.Chat(ctx, a.slug, req.Message, req.Context)
	if err != nil {
		return nil, classifyUpstream(err)
	}

	return parseReply(a.kind, text)
}

// All builds the full agent set keyed by kind.
func All(ai ChatService) map[core.AgentKind]engine.Agent {
	return map[core.AgentKind]engine.Agent{
		core.AgentRecipe:    NewRecipe(ai),
		core.AgentPlanning:  NewPlanning(ai),
		core.AgentNutrition: NewNutrition(ai),
		core.AgentShopping:  NewShopping(ai),
	}
}

type modelReply struct {
	Reply  string `json:"reply"`
	Action struct {
		Type    string          `json:"type"`
		Entity  string          `json:"entity"`
		Payload json.RawMessage `json:"payload"`
	} `json:"action"`
}

// parseReply decodes the model's JSON envelope. Output that does not
// match the contract counts as an upstream failure, not an internal
// defect, and is never worth an automatic retry.
func parseReply(kind core.AgentKind, text string) (*core.AgentResult, error) {
	var reply modelReply
	if err := json.Unmarshal([]byte(stripFences(text)), &reply); err != nil {
		return nil, &engine.UpstreamError{Reason: fmt.Sprintf("malformed completion: %v", err)}
	}

	if strings.TrimSpace(reply.Reply) == "" {
		return nil, &engine.UpstreamError{Reason: "completion missing reply text"}
	}

	actionType, err := core.ParseActionType(reply.Action.Type)
	if err != nil {
		return nil, &engine.UpstreamError{Reason: fmt.Sprintf("malformed completion: %v", err)}
	}

	result := &core.AgentResult{
		Agent: kind,
		Reply: reply.Reply,
		Action: core.Action{
			Type: actionType,
		},
	}
	if actionType != core.ActionNone {
		result.Action.Entity = reply.Action.Entity
		result.Action.Payload = reply.Action.Payload
	}

	return result, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// classifyUpstream maps transport-level failures onto the orchestrator
// taxonomy. Deadline expiry passes through untouched so the caller can
// detect it; anything unrecognized surfaces as an internal defect.
func classifyUpstream(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var provErr *driver.ProviderError
	if errors.As(err, &provErr) {
		return &engine.UpstreamError{Reason: provErr.Error(), Retryable: provErr.Retryable()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &engine.UpstreamError{Reason: urlErr.Error(), Retryable: true}
	}

	return err
}
