package aiinsights

import "strings"

// bakingKeywords detects the dish types whose pre-validation rules apply:
// anything that rises in an oven needs a binder, a base, a leavening agent,
// and a thermal step, or the recipe is very likely broken.
var bakingKeywords = []string{
	"cake", "bread", "cookie", "cookies", "muffin", "pastry", "dough", "biscuit", "pie crust", "croissant",
}

var binderKeywords = []string{"egg", "eggs", "yolk", "flour", "xanthan", "gelatin"}
var baseKeywords = []string{"flour", "sugar", "butter", "oil"}
var leaveningKeywords = []string{"yeast", "baking soda", "baking powder", "bicarbonate"}
var thermalKeywords = []string{"bake", "oven", "preheat", "°c", "°f", "degrees", "broil"}

var rawMeatKeywords = []string{"raw chicken", "raw pork", "raw beef", "raw meat", "raw fish", "undercooked"}
var rawEggKeywords = []string{"raw egg", "raw eggs"}
var cookedIndicators = []string{"cook", "cooked", "bake", "baked", "fry", "fried", "grill", "grilled", "boil", "boiled", "roast", "roasted", "simmer"}

// Notes is the set of findings the synchronous, no-external-calls
// pre-validation pass produces for one recipe. It feeds the LLM prompt as
// conditioning context (llm.InsightsRequest.PreValidationNotes) and is also
// merged into the final validation warnings so a finding never disappears
// just because the model didn't repeat it.
type Notes struct {
	DishType string
	Findings []string
}

// Run performs the rule-based pre-validation pass: dish-type detection from
// name keywords, binder/base/leavening/thermal-step presence checks for
// baking dishes, raw-meat/raw-egg safety flags, and unrealistic-time
// heuristics.
func Run(name, instructions string, prepMinutes, cookMinutes *int, stepCount int) Notes {
	lowerName := strings.ToLower(name)
	lowerInstr := strings.ToLower(instructions)
	combined := lowerName + " " + lowerInstr

	notes := Notes{DishType: "general"}

	if containsAny(lowerName, bakingKeywords) {
		notes.DishType = "baking"
		if !containsAny(combined, binderKeywords) {
			notes.Findings = append(notes.Findings, "no binder ingredient (egg, flour, gelatin) detected for a baked dish")
		}
		if !containsAny(combined, baseKeywords) {
			notes.Findings = append(notes.Findings, "no base ingredient (flour, sugar, butter, oil) detected for a baked dish")
		}
		if !containsAny(combined, leaveningKeywords) {
			notes.Findings = append(notes.Findings, "no leavening agent (yeast, baking soda, baking powder) detected")
		}
		if !containsAny(combined, thermalKeywords) {
			notes.Findings = append(notes.Findings, "no thermal step (bake, oven, preheat) found in the instructions")
		}
	}

	if containsAny(combined, rawMeatKeywords) && !containsAny(combined, cookedIndicators) {
		notes.Findings = append(notes.Findings, "references raw meat or fish with no cooking step in the instructions")
	}
	if containsAny(combined, rawEggKeywords) {
		notes.Findings = append(notes.Findings, "contains raw egg — flag as a safety consideration for vulnerable consumers")
	}

	if prepMinutes != nil && *prepMinutes <= 0 {
		notes.Findings = append(notes.Findings, "prep time is zero or negative, which is not realistic")
	}
	if cookMinutes != nil && *cookMinutes <= 0 && notes.DishType == "baking" {
		notes.Findings = append(notes.Findings, "cook time is zero or negative for a dish that requires baking")
	}
	if stepCount > 0 && cookMinutes != nil && *cookMinutes > 0 && *cookMinutes < stepCount {
		notes.Findings = append(notes.Findings, "cook time is implausibly short relative to the number of steps described")
	}

	return notes
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
