package agents

import (
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

// NewNutrition estimates nutrition facts and answers dietary questions.
func NewNutrition(ai ChatService) engine.Agent {
	return &chatAgent{kind: core.AgentNutrition, slug: "nutrition-chat", ai: ai}
}
