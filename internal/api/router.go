package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/b3dash/internal/api/handlers"
	"github.com/wonny/b3dash/pkg/logger"
	"github.com/wonny/b3dash/pkg/metrics"
)

// Handlers groups the endpoint handlers mounted by the router
type Handlers struct {
	Tickers *handlers.TickerHandler
	Stocks  *handlers.StockHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, rec *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	if rec != nil {
		r.Handle("/metrics", rec.Handler()).Methods("GET")
	}

	// 서브라우터는 메서드 불일치를 404로 돌려주므로 전체 경로로 등록
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Ticker list
	r.HandleFunc("/api/tickers", h.Tickers.GetTickers).Methods("GET")
	r.HandleFunc("/api/tickers/refresh", h.Tickers.RefreshTickers).Methods("POST")

	// Per-ticker data
	r.HandleFunc("/api/stocks/{symbol}/history", h.Stocks.GetHistory).Methods("GET")
	r.HandleFunc("/api/stocks/{symbol}/summary", h.Stocks.GetSummary).Methods("GET")
	r.HandleFunc("/api/stocks/{symbol}/fundamentals", h.Stocks.GetFundamentals).Methods("GET")
	r.HandleFunc("/api/stocks/{symbol}/chart.png", h.Stocks.GetChart).Methods("GET")

	r.Use(loggingMiddleware(log, rec))
	r.Use(recoveryMiddleware(log))

	return r
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "b3dash-api",
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests and records their latency
func loggingMiddleware(log *logger.Logger, rec *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			duration := time.Since(start)
			rec.ObserveHTTP(r.Method, route, sw.status, duration)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   sw.status,
				"duration": duration,
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
