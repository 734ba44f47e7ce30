package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/bodymetrics"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/chat"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/detector"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/meals"
	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/api/nutrition"
)

// Config contains the handlers and middleware the router mounts.
type Config struct {
	DetectorHandler    *detector.HandlerImpl
	NutritionHandler   *nutrition.HandlerImpl
	BodyHandler        *bodymetrics.HandlerImpl
	MealsHandler       *meals.HandlerImpl
	ChatHandler        *chat.HandlerImpl
	SessionMiddleware  func(http.Handler) http.Handler
	RateLimitPerMinute int
}

// SetupRouter builds the application routes. Server-wide middleware (request id,
// logging, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimitPerMinute > 0 {
		limit = httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute)
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Detector endpoints live at the root, matching the model server's paths.
	r.Get("/health", cfg.DetectorHandler.Health)
	r.With(limit).Post("/predict", cfg.DetectorHandler.Predict)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/nutrition", func(r chi.Router) {
			r.Post("/totals", cfg.NutritionHandler.Totals)
			r.With(limit).Post("/analyze", cfg.NutritionHandler.Analyze)
			r.Get("/foods/{name}", cfg.NutritionHandler.Food)
		})

		r.Route("/body", func(r chi.Router) {
			r.Post("/bmi", cfg.BodyHandler.CalculateBMI)
			r.Post("/needs", cfg.BodyHandler.DailyNeeds)
		})

		r.Route("/meals", func(r chi.Router) {
			r.Post("/", cfg.MealsHandler.AddMeal)
			r.Get("/", cfg.MealsHandler.ListMeals)
			r.Get("/summary", cfg.MealsHandler.Summary)
			r.Get("/recommendations", cfg.MealsHandler.Recommendations)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(limit)
			r.Post("/sessions", cfg.ChatHandler.CreateSession)
			r.Group(func(r chi.Router) {
				r.Use(cfg.SessionMiddleware)
				r.Get("/messages", cfg.ChatHandler.GetMessages)
				r.Post("/messages", cfg.ChatHandler.Ask)
				r.Post("/messages/stream", cfg.ChatHandler.AskStream)
			})
		})
	})

	return r
}
