package agents

import (
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

// NewPlanning builds and revises meal plans.
func NewPlanning(ai ChatService) engine.Agent {
	return &chatAgent{kind: core.AgentPlanning, slug: "planning-chat", ai: ai}
}
