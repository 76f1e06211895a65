package aiinsights

import "testing"

func TestRunDetectsBakingDishMissingLeavening(t *testing.T) {
	notes := Run("Chocolate Cake", "Mix flour, sugar, butter, and eggs. Bake at 180C for 30 minutes.", nil, nil, 4)
	if notes.DishType != "baking" {
		t.Fatalf("expected dish type baking, got %q", notes.DishType)
	}
	foundMissingLeavening := false
	for _, f := range notes.Findings {
		if f == "no leavening agent (yeast, baking soda, baking powder) detected" {
			foundMissingLeavening = true
		}
	}
	if !foundMissingLeavening {
		t.Fatalf("expected missing-leavening finding, got %v", notes.Findings)
	}
}

func TestRunNoFindingsForWellFormedBakingRecipe(t *testing.T) {
	notes := Run("Banana Bread", "Combine flour, sugar, butter, eggs, and baking soda. Preheat oven and bake at 180C.", nil, nil, 4)
	if len(notes.Findings) != 0 {
		t.Fatalf("expected no findings for complete recipe, got %v", notes.Findings)
	}
}

func TestRunFlagsRawMeatWithoutCookingStep(t *testing.T) {
	notes := Run("Tartare", "Dice raw beef and mix with onion and capers. Serve immediately.", nil, nil, 2)
	found := false
	for _, f := range notes.Findings {
		if f == "references raw meat or fish with no cooking step in the instructions" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected raw-meat safety finding, got %v", notes.Findings)
	}
}

func TestRunFlagsRawEggAlways(t *testing.T) {
	notes := Run("Tiramisu", "Whisk raw eggs with sugar and mascarpone.", nil, nil, 3)
	found := false
	for _, f := range notes.Findings {
		if f == "contains raw egg — flag as a safety consideration for vulnerable consumers" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected raw-egg finding, got %v", notes.Findings)
	}
}

func TestRunFlagsNonPositivePrepTime(t *testing.T) {
	zero := 0
	notes := Run("Soup", "Simmer the stock for an hour.", &zero, nil, 2)
	found := false
	for _, f := range notes.Findings {
		if f == "prep time is zero or negative, which is not realistic" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected prep-time finding, got %v", notes.Findings)
	}
}

func TestRunNonBakingDishSkipsBakingChecks(t *testing.T) {
	notes := Run("Caesar Salad", "Toss lettuce with dressing and croutons.", nil, nil, 2)
	if notes.DishType != "general" {
		t.Fatalf("expected dish type general, got %q", notes.DishType)
	}
	if len(notes.Findings) != 0 {
		t.Fatalf("expected no findings for a simple salad, got %v", notes.Findings)
	}
}
