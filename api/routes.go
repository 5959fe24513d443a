package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marquee/handlers"
	"marquee/utils/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Catalog   *handlers.CatalogHandler
	Search    *handlers.SearchHandler
	Watchlist *handlers.WatchlistHandler
	Health    *handlers.HealthHandler
	Tasks     *handlers.ScheduledTasksHandler
	Settings  *handlers.SettingsHandler
}

// Options configures the middleware stack.
type Options struct {
	CORSOrigins string // comma separated; empty or "*" allows any origin
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	// Streams, when set, ends every open event stream once it is done.
	// Other requests are unaffected so they can drain on shutdown.
	Streams context.Context
}

// corsMiddleware handles CORS for API routes
func corsMiddleware(origins string) mux.MiddlewareFunc {
	allowed := map[string]bool{}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	allowAll := len(allowed) == 0 || allowed["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code. It forwards Flush so event
// streams keep working behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// instrument records request duration and access logs.
func instrument(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.RequestsInFlight.Inc()
			defer metrics.RequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := routeTemplate(r)
			elapsed := time.Since(start)
			metrics.RequestDuration.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", rec.status,
				"duration", elapsed,
				"request_id", r.Header.Get(requestIDHeader),
			)
		})
	}
}

// boundTo ends the request context of h when stop is done.
func boundTo(stop context.Context, h http.HandlerFunc) http.HandlerFunc {
	if stop == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		unregister := context.AfterFunc(stop, cancel)
		defer unregister()
		h(w, r.WithContext(ctx))
	}
}

// Register mounts API endpoints onto the provided router.
func Register(r *mux.Router, h Handlers, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(requestIDMiddleware)

	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware(opts.CORSOrigins))
	api.Use(instrument(logger))

	// Catalog
	api.HandleFunc("/categories", h.Catalog.Categories).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/featured", h.Catalog.Featured).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/content/{id}", h.Catalog.Details).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/movies", h.Catalog.Movies).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/series", h.Catalog.Series).Methods(http.MethodGet, http.MethodOptions)

	// Static paths are registered before {page}
	api.HandleFunc("/pages/current", h.Catalog.CurrentPage).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/pages/stream", boundTo(opts.Streams, h.Catalog.PageStream)).Methods(http.MethodGet)
	api.HandleFunc("/pages/{page}", h.Catalog.Page).Methods(http.MethodGet, http.MethodOptions)

	// Search
	api.HandleFunc("/search", h.Search.Search).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/search/query", h.Search.SetQuery).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/search/results", h.Search.Results).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/search/results/stream", boundTo(opts.Streams, h.Search.ResultsStream)).Methods(http.MethodGet)

	// Watchlist
	api.HandleFunc("/watchlist/stream", boundTo(opts.Streams, h.Watchlist.Stream)).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/toggle", h.Watchlist.Toggle).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/watchlist", h.Watchlist.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/watchlist", h.Watchlist.Add).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/{id}", h.Watchlist.Contains).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/watchlist/{id}", h.Watchlist.Remove).Methods(http.MethodDelete)

	// Admin
	if h.Tasks != nil {
		api.HandleFunc("/tasks", h.Tasks.ListTasks).Methods(http.MethodGet, http.MethodOptions)
		api.HandleFunc("/tasks/{name}/run", h.Tasks.RunTask).Methods(http.MethodPost, http.MethodOptions)
	}
	if h.Settings != nil {
		api.HandleFunc("/settings", h.Settings.GetSettings).Methods(http.MethodGet, http.MethodOptions)
	}
}
