package engine

import (
	"strings"

	"github.com/mealdesk/mealdesk/internal/core"
)

// classifierRule maps keywords to an agent. Rules are evaluated in
// order and the first match wins, so classification is reproducible
// without consulting the upstream model.
type classifierRule struct {
	Agent    core.AgentKind
	Keywords []string
}

var classifierRules = []classifierRule{
	{Agent: core.AgentNutrition, Keywords: []string{"nutrition", "calorie", "macro", "protein", "vitamin", "healthy"}},
	{Agent: core.AgentShopping, Keywords: []string{"shopping", "grocery", "groceries", "buy", "list", "store"}},
	{Agent: core.AgentPlanning, Keywords: []string{"plan", "week", "schedule", "menu", "prep"}},
}

// Classify maps a message and an optional caller hint to an agent. It
// is total: an explicit valid hint always wins, keyword rules apply
// next, and anything else falls through to the recipe agent.
func Classify(message string, hintedAgent string) core.AgentKind {
	if hint, err := core.ParseAgentKind(hintedAgent); err == nil {
		return hint
	}

	lowered := strings.ToLower(message)
	for _, rule := range classifierRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Agent
			}
		}
	}

	return core.AgentRecipe
}
