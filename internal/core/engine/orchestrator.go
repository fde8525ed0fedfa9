package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/metrics"
)

// AgentRequest is the slice of a chat turn an agent sees. Context is
// opaque caller state passed through untouched.
type AgentRequest struct {
	Message        string
	ConversationID string
	Context        json.RawMessage
}

// Agent is the shared capability contract for the specialized
// handlers. Implementations are stateless across calls; all continuity
// rides in the request.
type Agent interface {
	Kind() core.AgentKind
	Handle(ctx context.Context, req AgentRequest) (*core.AgentResult, error)
}

// UpstreamError marks a failure of the model service behind an agent.
// Retryable distinguishes transient faults from ones the caller cannot
// fix by trying again.
type UpstreamError struct {
	Reason    string
	Retryable bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure: %s", e.Reason)
}

// Orchestrator runs one chat turn through its full lifecycle: admit,
// acquire a rate slot, classify, dispatch, and fold the agent's result
// into a typed outcome. Steps run strictly in order and the first
// failure short-circuits the rest.
type Orchestrator struct {
	Gate    *Gate
	Limiter *Limiter
	Agents  map[core.AgentKind]Agent
	Logger  *zap.Logger
}

// Handle processes a single request. The returned error is reserved
// for internal defects; every expected failure mode comes back as a
// terminal outcome instead.
func (o *Orchestrator) Handle(ctx context.Context, req core.ChatRequest) (*core.Outcome, error) {
	if o == nil || o.Gate == nil || o.Limiter == nil {
		return nil, errors.New("orchestrator is not configured")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if rejection := o.Gate.Admit(req); rejection != nil {
		o.log().Info("request rejected",
			zap.String("subject", req.SubjectID),
			zap.String("reason", rejection.Code),
		)
		metrics.RecordOutcome("", string(core.OutcomeRejected))
		return &core.Outcome{
			Status: core.OutcomeRejected,
			Reason: rejection.Code,
		}, nil
	}

	decision, err := o.Limiter.TryAcquire(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("rate limit acquisition: %w", err)
	}
	if !decision.Allowed {
		metrics.RecordRateLimited()
		return &core.Outcome{
			Status:            core.OutcomeRateLimited,
			RetryAfterSeconds: decision.RetryAfterSeconds(),
		}, nil
	}

	agentKind := Classify(req.Message, req.HintedAgent)
	agent := o.Agents[agentKind]
	if agent == nil {
		return nil, fmt.Errorf("no handler registered for agent %s", agentKind)
	}

	// Quota is already consumed at this point. A failed upstream call
	// never refunds the slot; budget accounting stays predictable.
	result, err := agent.Handle(ctx, AgentRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		Context:        req.ContextSlice,
	})

	switch {
	case err == nil:
		metrics.RecordOutcome(string(agentKind), string(core.OutcomeSucceeded))
		return &core.Outcome{
			Status: core.OutcomeSucceeded,
			Result: result,
		}, nil

	case errors.Is(err, context.DeadlineExceeded):
		o.log().Warn("agent call timed out",
			zap.String("agent", string(agentKind)),
			zap.String("subject", req.SubjectID),
		)
		metrics.RecordOutcome(string(agentKind), string(core.OutcomeTimedOut))
		return &core.Outcome{
			Status:    core.OutcomeTimedOut,
			Reason:    "the assistant took too long to respond, try again",
			Retryable: true,
		}, nil

	default:
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			// Detail stays in the logs; the caller sees a generic message.
			o.log().Warn("agent call failed upstream",
				zap.String("agent", string(agentKind)),
				zap.String("subject", req.SubjectID),
				zap.String("detail", upstream.Reason),
				zap.Bool("retryable", upstream.Retryable),
			)
			metrics.RecordOutcome(string(agentKind), string(core.OutcomeUpstreamFailed))
			return &core.Outcome{
				Status:    core.OutcomeUpstreamFailed,
				Reason:    "the assistant could not process this request, try again",
				Retryable: upstream.Retryable,
			}, nil
		}
		return nil, fmt.Errorf("agent %s: %w", agentKind, err)
	}
}

func (o *Orchestrator) log() *zap.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
