package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mealdesk/mealdesk/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		hint     string
		expected core.AgentKind
	}{
		{"CalorieQuestion", "What's the calorie count of this?", "", core.AgentNutrition},
		{"ShoppingList", "add milk to the list", "", core.AgentShopping},
		{"EmptyWithHint", "", "planning", core.AgentPlanning},
		{"WeeklyPlan", "plan my week", "", core.AgentPlanning},
		{"GroceryRun", "what groceries do I need", "", core.AgentShopping},
		{"DefaultRecipe", "how long does risotto take", "", core.AgentRecipe},
		{"HintBeatsKeywords", "What's the calorie count of this?", "recipe", core.AgentRecipe},
		{"InvalidHintFallsThrough", "plan my week", "sommelier", core.AgentPlanning},
		{"HintCaseInsensitive", "", " Nutrition ", core.AgentNutrition},
		{"EmptyEverything", "", "", core.AgentRecipe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Classify(tt.message, tt.hint))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Nutrition rules are evaluated before shopping, so a message
	// matching both resolves to nutrition deterministically.
	require.Equal(t, core.AgentNutrition, Classify("calories in my grocery haul", ""))
}
