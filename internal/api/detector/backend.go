package detector

import (
	"context"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// Backend runs the external detection model on one image.
// Backends return raw detections; thresholding and class resolution happen in the service.
// A Class of -1 means the backend does not know class ids.
type Backend interface {
	Name() string
	Detect(ctx context.Context, img Image) ([]types.Detection, error)
}

func clampBox(b [4]float64, width, height int) [4]float64 {
	if width <= 0 || height <= 0 {
		return b
	}
	w, h := float64(width), float64(height)
	clamp := func(v, max float64) float64 {
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	}
	return [4]float64{clamp(b[0], w), clamp(b[1], h), clamp(b[2], w), clamp(b[3], h)}
}
