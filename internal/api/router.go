package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ChrisJamesShevlin/snooker/internal/metrics"
)

// NewRouter assembles the HTTP API. The stream handler is mounted when
// non-nil so the router works without a websocket hub in tests.
func NewRouter(handler *Handler, stream http.Handler, allowedOrigins []string, baseLogger *logrus.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(baseLogger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// The request timeout covers the JSON endpoints only. The
		// stream route holds its connection open indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Route("/players", func(r chi.Router) {
				r.Post("/", handler.CreatePlayer)
				r.Get("/", handler.ListPlayers)
				r.Get("/{playerID}", handler.GetPlayer)
				r.Put("/{playerID}/season", handler.UpdateSeasonStats)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Post("/", handler.CreateMatch)
				r.Get("/", handler.ListMatches)
				r.Get("/{matchID}", handler.GetMatch)
				r.Put("/{matchID}/score", handler.UpdateScore)
				r.Post("/{matchID}/evaluate", handler.EvaluateMatch)
				r.Get("/{matchID}/evaluations", handler.GetEvaluations)
			})

			r.Post("/quotes", handler.Quote)

			r.Route("/tips", func(r chi.Router) {
				r.Get("/", handler.GetTips)
				r.Put("/{tipID}/status", handler.UpdateTipStatus)
			})
		})

		if stream != nil {
			r.Handle("/stream", stream)
		}
	})

	return r
}

// requestLogger logs one structured line per completed request
func requestLogger(baseLogger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			baseLogger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
				"request_id":  middleware.GetReqID(r.Context()),
			}).Info("Request completed")
		})
	}
}
