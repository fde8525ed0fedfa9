package cmd

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mealdesk/mealdesk/internal/ailink"
	"github.com/mealdesk/mealdesk/internal/ailink/prompt"
	"github.com/mealdesk/mealdesk/internal/config"
	"github.com/mealdesk/mealdesk/internal/core/agents"
	"github.com/mealdesk/mealdesk/internal/core/engine"
	"github.com/mealdesk/mealdesk/internal/core/store"
)

// buildOrchestrator assembles the request pipeline from configuration:
// admission gate, persistent rate limiter, and the agent roster backed
// by the configured model provider.
func buildOrchestrator(cfg *config.Config, db *store.Store, logger *zap.Logger) (*engine.Orchestrator, error) {
	if strings.TrimSpace(cfg.Server.AntiForgeryToken) == "" {
		return nil, fmt.Errorf("server.anti_forgery_token must be configured")
	}

	registry, err := prompt.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	ai, err := ailink.NewService(cfg.AILink, registry)
	if err != nil {
		return nil, fmt.Errorf("initialize ailink: %w", err)
	}

	return &engine.Orchestrator{
		Gate: &engine.Gate{
			ExpectedToken: cfg.Server.AntiForgeryToken,
			MaxMessageLen: cfg.Limits.MaxMessageLength,
		},
		Limiter: &engine.Limiter{
			Store:  db,
			Quota:  cfg.Limits.Quota,
			Window: cfg.Limits.Window,
		},
		Agents: agents.All(ai),
		Logger: logger,
	}, nil
}

// newZapLogger builds a production zap logger honoring the configured
// log level. Used for components that take a *zap.Logger directly.
func newZapLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}
