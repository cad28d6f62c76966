// Package httpserver exposes the task API over HTTP+JSON.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	users   *services.UserService
	tasks   *services.TaskService
	logger  logging.Logger
	metrics *metrics
	limiter *authLimiter
	origins []string
	router  http.Handler
}

// NewHTTPServer builds the router. Metrics are registered on reg, which is
// also what /metrics serves.
func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService, ts *services.TaskService, reg *prometheus.Registry) *HTTPServer {
	s := &HTTPServer{
		address: cfg.EndpointAddr,
		users:   us,
		tasks:   ts,
		logger:  l.With("module", "http_server"),
		metrics: newMetrics(reg),
		limiter: newAuthLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		origins: cfg.AllowedOrigins,
	}
	s.router = s.routes(reg)
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) routes(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", common.AuthorizationHeaderName, common.RequestIDHeaderName},
		ExposedHeaders: []string{common.RequestIDHeaderName},
		MaxAge:         300,
	}))
	r.Use(s.requestLogger)
	r.Use(s.metrics.middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/auth", func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/register", s.register)
		r.Post("/login", s.login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.accessTokenMiddleware)

		r.Get("/users/", s.listUsers)
		r.Get("/users/current-user", s.currentUser)

		r.Get("/tasks/", s.listTasks)
		r.Post("/tasks/", s.createTask)
		r.Put("/tasks/{id}", s.updateTask)
		r.Delete("/tasks/{id}", s.deleteTask)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
