package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

type ctxKey string

const userKey ctxKey = "user"

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		s.logger.Info(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.code(),
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"size", sw.bytes,
			"req_id", chimw.GetReqID(r.Context()),
		)
	})
}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of request durations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// middleware labels by route pattern rather than raw path so task ids do not
// create a series each.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(sw.code()),
		}
		m.requests.With(labels).Inc()
		m.duration.With(labels).Observe(time.Since(start).Seconds())
	})
}

type authLimiter struct {
	l *rate.Limiter
}

// newAuthLimiter returns a token bucket; rps <= 0 disables limiting.
func newAuthLimiter(rps float64, burst int) *authLimiter {
	if rps <= 0 {
		return &authLimiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &authLimiter{l: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (a *authLimiter) middleware(next http.Handler) http.Handler {
	if a.l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.l.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		retry := 1
		if lim := float64(a.l.Limit()); lim > 0 && lim < 1 {
			retry = int(1 / lim)
		}
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		writeMsg(w, http.StatusTooManyRequests, "Too many requests")
	})
}

// accessTokenMiddleware resolves the bearer token to a user and stores it in
// the request context.
func (s *HTTPServer) accessTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeMsg(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		user, err := s.users.Authenticate(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrTokenExpired):
			writeMsg(w, http.StatusUnauthorized, "Token expired")
			return
		case errors.Is(err, common.ErrInvalidToken):
			writeMsg(w, http.StatusUnprocessableEntity, "Invalid token: "+tokenReason(err))
			return
		case errors.Is(err, common.ErrNotFound):
			writeMsg(w, http.StatusUnauthorized, "Error loading the user")
			return
		default:
			s.internalError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// tokenReason returns the innermost cause of a token error.
func tokenReason(err error) string {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := j.Unwrap(); len(errs) > 0 {
			return errs[len(errs)-1].Error()
		}
	}
	return err.Error()
}
