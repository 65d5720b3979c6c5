package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/PrizeKiosk_Go/internal/handler"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/metrics"
	"github.com/osse101/PrizeKiosk_Go/internal/sse"
)

// Services are the handler dependencies mounted under /api/v1
type Services struct {
	Stock     handler.StockService
	Evaluator handler.Evaluator
	Play      handler.PlayResolver
	Catalog   handler.CatalogReloader
	Health    []handler.HealthChecker
	Display   *sse.Hub // optional event stream for kiosk displays
}

// Server is the kiosk's admin and play API
type Server struct {
	httpServer *http.Server
}

// NewServer builds the router and middleware stack listening on addr
func NewServer(addr, apiKey string, trustedProxies []string, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(apiKey, trustedProxies, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter returns the fully wired handler
func NewRouter(apiKey string, trustedProxies []string, svc Services) http.Handler {
	r := chi.NewRouter()

	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Health...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		stockHandler := handler.NewStockHandler(svc.Stock)
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", stockHandler.HandleReport)
			r.Post("/reset-today", stockHandler.HandleResetToday)
			r.Post("/emit-low", stockHandler.HandleEmitLowStock)
			r.Put("/low-threshold", stockHandler.HandleSetThreshold)

			r.Route("/{itemID}", func(r chi.Router) {
				r.Post("/topup", stockHandler.HandleTopUp)
				r.Post("/decrement", stockHandler.HandleDecrement)
				r.Put("/today", stockHandler.HandleSetToday)
				r.Put("/campaign", stockHandler.HandleSetCampaign)
			})
		})
		r.Get("/bands", stockHandler.HandleBands)

		playHandler := handler.NewPlayHandler(svc.Evaluator, svc.Play)
		r.Post("/evaluate", playHandler.HandleEvaluate)
		r.Post("/play", playHandler.HandlePlay)

		r.Post("/catalog/reload", handler.HandleReloadCatalog(svc.Catalog))

		if svc.Display != nil {
			r.Get("/events", sse.Handler(svc.Display))
		}
	})

	return r
}

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

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// loggingMiddleware tags the request context with a request ID and logs each
// request with secrets redacted. Probe and scrape paths are not logged.
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

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

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

// Start serves until Stop is called. It returns nil after a graceful stop.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
