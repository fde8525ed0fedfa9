package agents

import (
	"github.com/mealdesk/mealdesk/internal/core"
	"github.com/mealdesk/mealdesk/internal/core/engine"
)

// NewShopping maintains grocery and shopping lists.
func NewShopping(ai ChatService) engine.Agent {
	return &chatAgent{kind: core.AgentShopping, slug: "shopping-chat", ai: ai}
}
