package types

// NutritionRow is one food of the static lookup table. Values are per 100 g/ml.
type NutritionRow struct {
	Food     string  `json:"food"`
	Calories float64 `json:"calories"` // kcal
	Protein  float64 `json:"protein"`  // g
	Carbs    float64 `json:"carbs"`    // g
	Fat      float64 `json:"fat"`      // g
	Calcium  float64 `json:"calcium"`  // mg
	Iron     float64 `json:"iron"`     // mg
}

// NutrientTotals is the sum of the rows matched by a set of labels.
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calcium  float64 `json:"calcium"`
	Iron     float64 `json:"iron"`
}

// Add accumulates a row into the totals.
func (t *NutrientTotals) Add(row NutritionRow) {
	t.Calories += row.Calories
	t.Protein += row.Protein
	t.Carbs += row.Carbs
	t.Fat += row.Fat
	t.Calcium += row.Calcium
	t.Iron += row.Iron
}

// Dish is a detected item with its table row, if any.
type Dish struct {
	Name       string        `json:"name"`
	Confidence float64       `json:"confidence"`
	Nutrition  *NutritionRow `json:"nutrition,omitempty"`
}

type MealAnalysis struct {
	Dishes   []Dish         `json:"dishes"`
	Totals   NutrientTotals `json:"totals"`
	Comments []string       `json:"comments"`
}

type NutrientTotalsRequest struct {
	Labels []string `json:"labels" example:"tofu,rice"`
}
