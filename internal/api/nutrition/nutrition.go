package nutrition

import "github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"

const (
	richProteinGrams  = 15
	richCalciumMg     = 200
	richIronMg        = 2
	commentProtein    = "This meal is rich in protein."
	commentCalcium    = "This meal contains plenty of calcium."
	commentIron       = "This meal is rich in iron."
	commentNoneDetect = "No food was detected. Please try again with another photo."
)

// Aggregate sums the rows of every label. Unknown labels add nothing and
// repeated labels are counted each time.
func Aggregate(t *Table, labels []string) types.NutrientTotals {
	var totals types.NutrientTotals
	for _, label := range labels {
		if row, ok := t.Lookup(label); ok {
			totals.Add(row)
		}
	}
	return totals
}

// Analyze builds the per-dish breakdown, the totals and the nutrient remarks.
func Analyze(t *Table, detections []types.Detection) types.MealAnalysis {
	analysis := types.MealAnalysis{
		Dishes:   make([]types.Dish, 0, len(detections)),
		Comments: []string{},
	}
	for _, d := range detections {
		dish := types.Dish{Name: d.ClassName, Confidence: d.Confidence}
		if row, ok := t.Lookup(d.ClassName); ok {
			dish.Nutrition = &row
			analysis.Totals.Add(row)
		}
		analysis.Dishes = append(analysis.Dishes, dish)
	}
	analysis.Comments = Comments(analysis.Totals)
	return analysis
}

func Comments(totals types.NutrientTotals) []string {
	comments := []string{}
	if totals.Protein > richProteinGrams {
		comments = append(comments, commentProtein)
	}
	if totals.Calcium > richCalciumMg {
		comments = append(comments, commentCalcium)
	}
	if totals.Iron > richIronMg {
		comments = append(comments, commentIron)
	}
	return comments
}
