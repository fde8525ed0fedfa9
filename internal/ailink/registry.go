// Package ailink connects the agents to their completion provider. It
// owns driver selection and the hard per-call deadline.
package ailink

import (
	"fmt"
	"strings"

	"github.com/mealdesk/mealdesk/internal/ailink/driver"
	"github.com/mealdesk/mealdesk/internal/ailink/driver/anthropic"
	"github.com/mealdesk/mealdesk/internal/ailink/driver/openai"
	"github.com/mealdesk/mealdesk/internal/config"
)

// NewDriver resolves the configured provider to a driver instance.
func NewDriver(cfg config.AILinkConfig) (driver.Driver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		return openai.NewClient(cfg.BaseURL, cfg.APIKey), nil
	case "anthropic":
		return anthropic.NewClient(cfg.BaseURL, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported ailink provider: %s", cfg.Provider)
	}
}
