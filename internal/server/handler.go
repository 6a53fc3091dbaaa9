package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type handlers struct {
	// Objects
	history  HistoryLoader
	statuses StatusGetter
	notifier ResolutionNotifier
	logger   zerolog.Logger
}

func newHandler(rootURL string, logger zerolog.Logger,
	history HistoryLoader, statuses StatusGetter,
	notifier ResolutionNotifier) http.Handler {
	handlers := &handlers{
		history:  history,
		statuses: statuses,
		notifier: notifier,
		logger:   logger,
	}

	router := chi.NewRouter()

	router.Use(middleware.CleanPath, requestLogger(logger))

	router.Post(rootURL+"/slack/interactions", handlers.interactions)
	router.Get(rootURL+"/api/v1/history", handlers.getHistory)
	router.Get(rootURL+"/api/v1/zones", handlers.getZones)

	return router
}

func requestLogger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("http_request")
		})
	}
}
