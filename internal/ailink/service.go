package ailink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mealdesk/mealdesk/internal/ailink/driver"
	"github.com/mealdesk/mealdesk/internal/ailink/prompt"
	"github.com/mealdesk/mealdesk/internal/config"
	"github.com/mealdesk/mealdesk/internal/metrics"
)

// Service issues one completion per call under a hard deadline. The
// deadline is enforced here with context cancellation, and there is no
// retry at this layer: a retry would silently double the effective
// deadline the caller signed up for.
type Service struct {
	Driver      driver.Driver
	Prompts     prompt.Registry
	Model       string
	MaxTokens   int
	CallTimeout time.Duration
	Temperature *float64
}

// NewService wires a service from configuration and a prompt registry.
func NewService(cfg config.AILinkConfig, prompts prompt.Registry) (*Service, error) {
	drv, err := NewDriver(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		Driver:      drv,
		Prompts:     prompts,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		CallTimeout: cfg.CallTimeout,
	}, nil
}

// Chat runs one prompt-driven completion. contextSlice is opaque user
// state appended to the user turn for the model to consult.
func (s *Service) Chat(ctx context.Context, promptSlug string, message string, contextSlice json.RawMessage) (string, error) {
	if s == nil || s.Driver == nil {
		return "", errors.New("ailink service is not configured")
	}

	promptDef, err := s.Prompts.Get(promptSlug)
	if err != nil {
		return "", err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if s.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CallTimeout)
		defer cancel()
	}

	userTurn := message
	if len(contextSlice) > 0 {
		userTurn = fmt.Sprintf("%s\n\nContext:\n%s", message, string(contextSlice))
	}

	req := &driver.Request{
		Model:       s.Model,
		System:      promptDef.Config.SystemTemplate,
		Messages:    []driver.Message{{Role: "user", Content: userTurn}},
		Temperature: s.Temperature,
		PromptSlug:  promptSlug,
	}
	if s.MaxTokens > 0 {
		maxTokens := s.MaxTokens
		req.MaxTokens = &maxTokens
	}
	if s.Driver.Capabilities().SupportsJSONMode {
		req.ResponseFormat = &driver.ResponseFormat{Type: "json_object"}
	}

	start := time.Now()
	resp, err := s.Driver.Complete(ctx, req)
	latency := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordUpstreamCall(s.Driver.Name(), "success", latency)
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordUpstreamCall(s.Driver.Name(), "timeout", latency)
	default:
		metrics.RecordUpstreamCall(s.Driver.Name(), "error", latency)
	}
	if err != nil {
		return "", fmt.Errorf("complete chat: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &driver.ProviderError{Provider: s.Driver.Name(), Message: "empty completion"}
	}

	return text, nil
}
