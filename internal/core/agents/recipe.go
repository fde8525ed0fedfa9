package agents

import (
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

// NewRecipe answers cooking questions and drafts recipes.
func NewRecipe(ai ChatService) engine.Agent {
	return &chatAgent{kind: core.AgentRecipe, slug: "recipe-chat", ai: ai}
}
