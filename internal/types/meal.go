package types

import "time"

// MealType is one of the four daily meal slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// MealEntry is one row of the meal calendar. Entries are append-only.
type MealEntry struct {
	Date     time.Time `json:"date"`
	Meal     MealType  `json:"meal" example:"lunch"`
	Calories float64   `json:"calories" example:"540"`
	Protein  float64   `json:"protein" example:"28"`
	Carbs    float64   `json:"carbs" example:"70"`
	Fat      float64   `json:"fat" example:"14"`
}

type CreateMealRequest struct {
	Date     string   `json:"date" example:"2025-03-14"` // YYYY-MM-DD, defaults to today.
	Meal     MealType `json:"meal" example:"lunch"`
	Calories float64  `json:"calories" example:"540"`
	Protein  float64  `json:"protein" example:"28"`
	Carbs    float64  `json:"carbs" example:"70"`
	Fat      float64  `json:"fat" example:"14"`
}

// DailySummary sums all entries of one day.
type DailySummary struct {
	Date     string  `json:"date" example:"2025-03-14"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type MealRecommendations struct {
	AvgCalories float64  `json:"avg_calories"`
	AvgProtein  float64  `json:"avg_protein"`
	AvgCarbs    float64  `json:"avg_carbs"`
	AvgFat      float64  `json:"avg_fat"`
	Advice      []string `json:"advice"`
}
