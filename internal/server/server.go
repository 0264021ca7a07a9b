package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/lotto/internal/handler"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/metrics"
	"github.com/osse101/lotto/internal/sse"
)

// Config holds the listener settings
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
}

// Deps are the services the routes are bound to. Fulfiller may be nil when
// the pool talks to an external coordinator.
type Deps struct {
	Health    handler.HealthChecker
	Service   lotto.Service
	Fulfiller handler.ManualFulfiller
	Hub       *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(cfg Config, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, deps),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter builds the middleware stack and routes.
// Chi middleware executes in order defined (outermost to innermost).
func NewRouter(cfg Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Health))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	pool := handler.NewPoolHandler(deps.Service)
	admin := handler.NewAdminHandler(deps.Service)
	oracle := handler.NewVRFHandler(deps.Fulfiller)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pool", func(r chi.Router) {
			r.Get("/", pool.HandleGetPool)
			r.Post("/enter", pool.HandleEnter)
			r.Get("/players", pool.HandleGetPlayerCount)
			r.Get("/players/{index}", pool.HandleGetPlayer)
		})

		r.Get("/upkeep", pool.HandleCheckUpkeep)
		r.Post("/upkeep", pool.HandlePerformUpkeep)

		r.Route("/vrf", func(r chi.Router) {
			r.Post("/callback", pool.HandleVRFCallback)
			r.Post("/fulfill/{requestID}", oracle.HandleFulfill)
		})

		r.Get("/draws", pool.HandleListDraws)
		r.Get("/draws/{requestID}", pool.HandleGetDraw)
		r.Get("/accounts/{address}", pool.HandleGetAccount)

		if deps.Hub != nil {
			r.Get("/events", sse.Handler(deps.Hub))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Post("/draw/reset", admin.HandleResetDraw)
			r.Post("/accounts/{address}/policy", admin.HandleSetPaymentPolicy)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps the event stream working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start listens until Stop is called
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
