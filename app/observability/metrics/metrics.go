package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PredictRequestsTotal     metric.Int64Counter
	DetectionsTotal          metric.Int64Counter
	DetectionDurationSeconds metric.Float64Histogram
	LLMDurationSeconds       metric.Float64Histogram
	ChatErrorsTotal          metric.Int64Counter
	MealEntriesTotal         metric.Int64Counter
	IndexChunksTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		appMetrics = newAppMetrics(otel.GetMeterProvider().Meter("VeganDietAssistant"))
		log.Println("Application metrics instruments initialized.")
	})
}

func newAppMetrics(meter metric.Meter) *AppMetrics {
	var err error
	m := &AppMetrics{}

	m.PredictRequestsTotal, err = meter.Int64Counter(
		"predict_requests_total",
		metric.WithDescription("Total number of food detection requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create predict_requests_total: %v", err)
	}

	m.DetectionsTotal, err = meter.Int64Counter(
		"detections_total",
		metric.WithDescription("Total number of detections returned above the confidence threshold"),
		metric.WithUnit("{detection}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create detections_total: %v", err)
	}

	m.DetectionDurationSeconds, err = meter.Float64Histogram(
		"detection_duration_seconds",
		metric.WithDescription("Duration of detector backend calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create detection_duration_seconds: %v", err)
	}

	m.LLMDurationSeconds, err = meter.Float64Histogram(
		"llm_duration_seconds",
		metric.WithDescription("Duration of hosted LLM calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create llm_duration_seconds: %v", err)
	}

	m.ChatErrorsTotal, err = meter.Int64Counter(
		"chat_errors_total",
		metric.WithDescription("Total number of chat answers replaced by an error message"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create chat_errors_total: %v", err)
	}

	m.MealEntriesTotal, err = meter.Int64Counter(
		"meal_entries_total",
		metric.WithDescription("Total number of meal entries appended"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create meal_entries_total: %v", err)
	}

	m.IndexChunksTotal, err = meter.Int64Counter(
		"index_chunks_total",
		metric.WithDescription("Total number of document chunks embedded into the vector index"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create index_chunks_total: %v", err)
	}
	return m
}

// Get returns the globally initialized AppMetrics instance.
// When InitAppMetrics was never called (tests, scripts) it returns no-op instruments.
func Get() *AppMetrics {
	once.Do(func() {
		appMetrics = newAppMetrics(noop.NewMeterProvider().Meter("noop"))
	})
	return appMetrics
}
