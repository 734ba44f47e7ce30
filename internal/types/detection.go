package types

// Detection is one predicted food item. BBox is x1, y1, x2, y2 in pixels.
type Detection struct {
	BBox       [4]float64 `json:"bbox"`
	Class      int        `json:"class" example:"3"`
	ClassName  string     `json:"class_name" example:"tofu"`
	Confidence float64    `json:"confidence" example:"0.87"`
}

// PredictResponse is the body returned by POST /predict.
type PredictResponse struct {
	Status     string      `json:"status" example:"success"`
	Detections []Detection `json:"detections"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
