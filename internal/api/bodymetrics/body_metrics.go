package bodymetrics

import (
	"fmt"
	"math"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// Activity multipliers applied to the BMR.
var activityFactors = map[types.ActivityLevel]float64{
	types.ActivityLow:      1.2,
	types.ActivityModerate: 1.55,
	types.ActivityHigh:     1.9,
}

const defaultActivityFactor = 1.55

// CalculateBMI returns weight / height² with height in meters.
func CalculateBMI(weightKg, heightM float64) (float64, error) {
	if weightKg <= 0 || heightM <= 0 {
		return 0, fmt.Errorf("weight and height must be positive: %w", types.ErrInvalidInput)
	}
	return weightKg / (heightM * heightM), nil
}

// InterpretBMI buckets a BMI value. The same cut-offs apply to both genders.
func InterpretBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// CalculateBMR uses the Mifflin-St Jeor equation (kcal/day).
func CalculateBMR(gender types.Gender, weightKg, heightCm float64, age int) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || age < 0 {
		return 0, fmt.Errorf("weight, height and age must be positive: %w", types.ErrInvalidInput)
	}
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case types.GenderMale:
		return base + 5, nil
	case types.GenderFemale:
		return base - 161, nil
	default:
		return 0, fmt.Errorf("invalid gender %q, use 'male' or 'female': %w", gender, types.ErrInvalidInput)
	}
}

// ActivityFactor returns the multiplier for a level; unknown levels count as moderate.
func ActivityFactor(level types.ActivityLevel) float64 {
	if f, ok := activityFactors[level]; ok {
		return f
	}
	return defaultActivityFactor
}

// DailyNeeds is the total daily energy expenditure, rounded to two decimals.
func DailyNeeds(p types.BodyProfile) (float64, error) {
	bmr, err := CalculateBMR(p.Gender, p.WeightKg, p.HeightCm, p.Age)
	if err != nil {
		return 0, err
	}
	return roundTo(bmr*ActivityFactor(p.ActivityLevel), 2), nil
}

// Recommend splits the daily calories into macro ranges:
// carbs 50-60% and protein 15-25% at 4 kcal/g, fat 20-30% at 9 kcal/g.
func Recommend(p types.BodyProfile) (types.NutrientRecommendation, error) {
	bmr, err := CalculateBMR(p.Gender, p.WeightKg, p.HeightCm, p.Age)
	if err != nil {
		return types.NutrientRecommendation{}, err
	}
	total := roundTo(bmr*ActivityFactor(p.ActivityLevel), 2)

	return types.NutrientRecommendation{
		BMR:      bmr,
		Calories: total,
		Carbs:    gramsRange(total, 0.50, 0.60, 4),
		Protein:  gramsRange(total, 0.15, 0.25, 4),
		Fat:      gramsRange(total, 0.20, 0.30, 9),
	}, nil
}

func gramsRange(kcal, minShare, maxShare, kcalPerGram float64) types.Range {
	return types.Range{
		Min: math.RoundToEven(kcal * minShare / kcalPerGram),
		Max: math.RoundToEven(kcal * maxShare / kcalPerGram),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
