package types

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

type BMIRequest struct {
	WeightKg float64 `json:"weight_kg" example:"70"`
	HeightM  float64 `json:"height_m" example:"1.75"`
}

type BMIResponse struct {
	BMI            float64 `json:"bmi" example:"22.86"`
	Interpretation string  `json:"interpretation" example:"normal"`
}

// BodyProfile is the input of the energy and macro calculations.
type BodyProfile struct {
	Gender        Gender        `json:"gender" example:"male"`
	WeightKg      float64       `json:"weight_kg" example:"70"`
	HeightCm      float64       `json:"height_cm" example:"175"`
	Age           int           `json:"age" example:"30"`
	ActivityLevel ActivityLevel `json:"activity_level,omitempty" example:"moderate"`
}

// Range is an inclusive grams range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type NutrientRecommendation struct {
	BMR      float64 `json:"bmr"`
	Calories float64 `json:"calories"`
	Carbs    Range   `json:"carbs"`
	Protein  Range   `json:"protein"`
	Fat      Range   `json:"fat"`
}
