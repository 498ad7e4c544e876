// Package api provides HTTP handlers for the ApexVelocity path-optimizer
// REST API.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/solver"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

var logger *zap.Logger

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apexvelocity_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apexvelocity_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	solveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apexvelocity_solve_duration_seconds",
			Help:    "Path optimizer solve() duration",
			Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.5},
		},
	)

	solveStationsProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apexvelocity_solve_stations",
			Help:    "Number of input reference points per solve() call (not the optimization station count)",
			Buckets: []float64{5, 10, 20, 50, 100, 200},
		},
	)

	solveFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apexvelocity_solve_failures_total",
			Help: "Total solve() calls that returned a failure, by kind",
		},
		[]string{"failure"},
	)
)

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// APIKey represents a single API key configuration entry.
type APIKey struct {
	Name      string `yaml:"name"`
	Hash      string `yaml:"hash"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute
}

// AuthConfig is loaded from config/auth.yaml.
type AuthConfig struct {
	APIKeys      []APIKey `yaml:"api_keys"`
	AdminKeys    []APIKey `yaml:"admin_keys"`
	AuthDisabled bool     `yaml:"auth_disabled"`
}

// AuthMiddleware holds API keys and rate limiters.
type AuthMiddleware struct {
	keys     []*APIKey
	limiters map[string]*rate.Limiter
	disabled bool
}

// statusRecorder wraps an http.ResponseWriter and records the final status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// NewAuthMiddleware loads API key configuration from the given path.
// If the file is missing or invalid, auth is effectively disabled but
// the server will still start.
func NewAuthMiddleware(configPath string) *AuthMiddleware {
	mw := &AuthMiddleware{
		keys:     []*APIKey{},
		limiters: map[string]*rate.Limiter{},
		disabled: true,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("auth_config_not_found",
				zap.String("path", configPath),
				zap.Error(err),
			)
		}
		return mw
	}

	var cfg AuthConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if logger != nil {
			logger.Error("auth_config_unmarshal_error",
				zap.String("path", configPath),
				zap.Error(err),
			)
		}
		return mw
	}

	for i := range cfg.APIKeys {
		key := cfg.APIKeys[i]
		mw.keys = append(mw.keys, &key)
		if key.RateLimit > 0 {
			limit := rate.Every(time.Minute / time.Duration(key.RateLimit))
			mw.limiters[key.Name] = rate.NewLimiter(limit, key.RateLimit)
		}
	}

	for i := range cfg.AdminKeys {
		key := cfg.AdminKeys[i]
		mw.keys = append(mw.keys, &key)
	}

	mw.disabled = cfg.AuthDisabled

	if logger != nil {
		logger.Info("auth_config_loaded",
			zap.Int("api_keys", len(cfg.APIKeys)),
			zap.Int("admin_keys", len(cfg.AdminKeys)),
			zap.Bool("auth_disabled", cfg.AuthDisabled),
		)
	}

	return mw
}

// PointXY is a reference point in world coordinates.
type PointXY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PoseXYZ is a pose: position plus heading in radians.
type PoseXYZ struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HeadingRad float64 `json:"heading_rad"`
	Curvature float64 `json:"curvature,omitempty"`
}

// CircleObstacleDTO is a circular obstacle in the plan request's map.
type CircleObstacleDTO struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius_m"`
}

// MapExtent bounds the obstacle field; zero-value means unbounded/free.
type MapExtent struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// PlanRequest is the request body for POST /v1/plan.
type PlanRequest struct {
	Reference []PointXY           `json:"reference"`
	Start     PoseXYZ             `json:"start"`
	End       PoseXYZ             `json:"end"`
	Vehicle   string              `json:"vehicle"`
	Map       MapExtent           `json:"map"`
	Obstacles []CircleObstacleDTO `json:"obstacles"`
}

// StateDTO is one point of the returned dense path.
type StateDTO struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HeadingRad float64 `json:"heading_rad"`
	ArcLengthM float64 `json:"s_m"`
	Curvature float64 `json:"curvature,omitempty"`
}

// PlanResponse is the response from POST /v1/plan.
type PlanResponse struct {
	Path         []StateDTO `json:"path"`
	SmoothedPath []StateDTO `json:"smoothed_path"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds the API handlers, worker pool, and solve-rate guard.
type Handler struct {
	workerPool   chan struct{}
	solveLimiter *rate.Limiter
	configMu     sync.RWMutex
	auth         *AuthMiddleware
}

// NewHandler creates a new API handler with a worker pool, a per-process
// solve-rate guard, and optional auth.
func NewHandler(maxWorkers int, configDir string) *Handler {
	h := &Handler{
		workerPool: make(chan struct{}, maxWorkers),
		// Distinct from the per-API-key limiter in AuthMiddleware: this one
		// bounds the aggregate rate of /v1/plan calls across all callers,
		// independent of the workerPool's concurrency cap.
		solveLimiter: rate.NewLimiter(rate.Limit(10*maxWorkers), 2*maxWorkers),
	}

	authConfigPath := configDir + "/auth.yaml"
	h.auth = NewAuthMiddleware(authConfigPath)

	return h
}

// AuthMiddleware returns the auth middleware function. If auth is disabled
// or not configured, this returns a no-op middleware.
func (h *Handler) AuthMiddleware() func(http.Handler) http.Handler {
	if h.auth == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return h.auth.Middleware
}

func (h *Handler) acquireWorker() {
	h.workerPool <- struct{}{}
}

func (h *Handler) releaseWorker() {
	<-h.workerPool
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		if logger != nil {
			logger.Error("encode_response_error", zap.Error(err))
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	if logger != nil {
		logger.Warn("request_error",
			zap.Int("status", status),
			zap.String("message", message),
		)
	}
	writeJSON(w, status, ErrorResponse{Error: message})
}

// LoggingMiddleware logs structured request information for each HTTP call.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		rec := &statusRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		if logger != nil {
			logger.Info("incoming_request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}

		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		if logger != nil {
			logger.Info("request_completed",
				zap.String("request_id", requestID),
				zap.Duration("duration_ms", duration),
				zap.Int("status", rec.status),
			)
		}

		method := r.Method
		path := r.URL.Path
		statusLabel := fmt.Sprintf("%d", rec.status)

		httpRequestsTotal.WithLabelValues(method, path, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// SecurityHeadersMiddleware adds common security headers to HTTP responses.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// MetricsHandler exposes Prometheus metrics on /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Middleware enforces API key authentication and per-key rate limiting.
func (auth *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth == nil || auth.disabled || os.Getenv("AUTH_DISABLED") == "true" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing API token")
			return
		}

		var matchedKey *APIKey
		for _, key := range auth.keys {
			if bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(token)) == nil {
				matchedKey = key
				break
			}
		}

		if matchedKey == nil {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		if limiter, ok := auth.limiters[matchedKey.Name]; ok {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// HandleConfigReload handles POST /v1/config/reload
func (h *Handler) HandleConfigReload(w http.ResponseWriter, r *http.Request) {
	h.configMu.Lock()
	defer h.configMu.Unlock()

	if err := solver.ReloadConfig(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload config: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "config reloaded"})
}

// HandleRateLimit returns basic rate limit information for the current API key.
func (h *Handler) HandleRateLimit(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.auth.disabled || os.Getenv("AUTH_DISABLED") == "true" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "auth_disabled"})
		return
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusUnauthorized, "Missing Authorization header")
		return
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Missing API token")
		return
	}

	var matchedKey *APIKey
	for _, key := range h.auth.keys {
		if bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(token)) == nil {
			matchedKey = key
			break
		}
	}

	if matchedKey == nil {
		writeError(w, http.StatusForbidden, "Invalid API key")
		return
	}

	resp := map[string]interface{}{
		"key":                   matchedKey.Name,
		"rate_limit_per_minute": matchedKey.RateLimit,
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePlan handles POST /v1/plan: computes a smooth, collision-free path
// from req.Start to req.End along req.Reference.
//
// @Summary      Plan an Ackermann-feasible path
// @Tags         planning
// @Accept       json
// @Produce      json
// @Param        request body PlanRequest true "plan request"
// @Success      200 {object} PlanResponse
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /v1/plan [post]
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if len(req.Reference) < 2 {
		writeError(w, http.StatusBadRequest, "Need at least 2 reference points")
		return
	}

	if err := h.solveLimiter.Wait(r.Context()); err != nil {
		writeError(w, http.StatusTooManyRequests, "Solve rate limit exceeded")
		return
	}

	solveID := uuid.New().String()
	w.Header().Set("X-Solve-Id", solveID)
	solveLogger := logger
	if solveLogger != nil {
		solveLogger = solveLogger.With(zap.String("solve_id", solveID))
	}

	h.acquireWorker()
	defer h.releaseWorker()

	refPoints := make([]solver.Point, len(req.Reference))
	for i, p := range req.Reference {
		refPoints[i] = solver.Point{X: p.X, Y: p.Y}
	}

	obstacles := make([]solver.CircleObstacle, len(req.Obstacles))
	for i, o := range req.Obstacles {
		obstacles[i] = solver.CircleObstacle{X: o.X, Y: o.Y, RadiusM: o.Radius}
	}

	start := time.Now()
	result, err := solver.Plan(
		req.Vehicle,
		refPoints,
		solver.StartState{X: req.Start.X, Y: req.Start.Y, HeadingRad: req.Start.HeadingRad, Curvature: req.Start.Curvature},
		solver.EndState{X: req.End.X, Y: req.End.Y, HeadingRad: req.End.HeadingRad},
		req.Map.MinX, req.Map.MinY, req.Map.MaxX, req.Map.MaxY,
		obstacles,
		solveLogger,
	)
	solveDuration.Observe(time.Since(start).Seconds())
	solveStationsProcessed.Observe(float64(len(refPoints)))

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !result.Success {
		solveFailuresTotal.WithLabelValues(result.ErrorMessage).Inc()
		writeError(w, http.StatusUnprocessableEntity, "Planning failed: "+result.ErrorMessage)
		return
	}

	resp := PlanResponse{
		Path:         toStateDTOs(result.Path),
		SmoothedPath: toStateDTOs(result.SmoothedPath),
	}
	writeJSON(w, http.StatusOK, resp)
}

func toStateDTOs(states []geom.State) []StateDTO {
	dtos := make([]StateDTO, len(states))
	for i, s := range states {
		dtos[i] = StateDTO{
			X:          s.X,
			Y:          s.Y,
			HeadingRad: s.Z,
			ArcLengthM: s.S,
			Curvature:  s.K,
		}
	}
	return dtos
}

// HandleHealth handles GET /health
//
// @Summary  Health check
// @Tags     ops
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /health [get]
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
