package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/app"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/models"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/monitoring"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/security"
)

// maxBatchSize bounds the number of texts accepted by /classify/batch
const maxBatchSize = 1000

// Server provides the REST API over the spam detector
type Server struct {
	app        *app.SpamDetectorApp
	config     ServerConfig
	router     chi.Router
	keyManager *security.APIKeyManager
	exporter   *monitoring.MetricsExporter
	httpServer *http.Server
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Port         int                   `yaml:"port"`
	Host         string                `yaml:"host"`
	EnableCORS   bool                  `yaml:"enable_cors"`
	ReadTimeout  time.Duration         `yaml:"read_timeout"`
	WriteTimeout time.Duration         `yaml:"write_timeout"`
	MaxBodyBytes int64                 `yaml:"max_body_bytes"`
	EnableAuth   bool                  `yaml:"enable_auth"`
	Security     security.APIKeyConfig `yaml:"security"`
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type contextKey string

const apiKeyContextKey contextKey = "api_key"

// NewServer creates a new API server
func NewServer(spamApp *app.SpamDetectorApp, config ServerConfig) *Server {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 30 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 30 * time.Second
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 10 << 20
	}

	securityConfig := config.Security
	if (securityConfig == security.APIKeyConfig{}) {
		securityConfig = security.DefaultAPIKeyConfig()
	}
	securityConfig.RequireAuth = config.EnableAuth

	server := &Server{
		app:        spamApp,
		config:     config,
		router:     chi.NewRouter(),
		keyManager: security.NewAPIKeyManager(securityConfig),
		exporter:   monitoring.NewMetricsExporter(spamApp.Metrics()),
	}

	server.setupRoutes()
	return server
}

// KeyManager returns the API key manager
func (s *Server) KeyManager() *security.APIKeyManager {
	return s.keyManager
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.config.WriteTimeout))

	if s.config.EnableCORS {
		s.router.Use(s.corsMiddleware)
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.config.EnableAuth {
				r.Use(s.authMiddleware(security.PermissionRead))
			}
			r.Get("/stats", s.handleStats)
			r.Get("/metrics", s.handleMetrics)
			r.Get("/history", s.handleHistory)
		})

		r.Group(func(r chi.Router) {
			if s.config.EnableAuth {
				r.Use(s.authMiddleware(security.PermissionClassify))
			}
			r.Use(s.limitBody)
			r.Post("/classify", s.handleClassify)
			r.Post("/classify/batch", s.handleClassifyBatch)
			r.Post("/classify/eml", s.handleClassifyEML)
		})
	})

	s.router.Get("/", s.handleDashboard)
	s.router.Get("/dashboard", s.handleDashboard)
}

// Start starts the API server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	log.Printf("Starting API server on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler methods

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.app.Health(r.Context())

	status := http.StatusOK
	if health.Status == monitoring.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, APIResponse{
		Success:   status == http.StatusOK,
		Data:      health,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"statistics": s.app.Statistics(),
	}
	if s.config.EnableAuth {
		data["api_keys"] = s.keyManager.GetKeyStats()
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" {
		s.writeJSON(w, http.StatusOK, APIResponse{
			Success:   true,
			Data:      s.exporter.ExportJSON(),
			Timestamp: time.Now(),
		})
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.exporter.ExportPrometheus()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      s.app.History(limit),
		Timestamp: time.Now(),
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req models.ClassificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	s.writeClassification(w, s.app.CheckText(req.Text))
}

func (s *Server) handleClassifyBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if len(req.Texts) == 0 {
		s.writeError(w, http.StatusBadRequest, "No texts provided")
		return
	}
	if len(req.Texts) > maxBatchSize {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Batch too large: %d > %d", len(req.Texts), maxBatchSize))
		return
	}

	results, err := s.app.CheckTexts(r.Context(), req.Texts)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      models.NewBatchResponse(results),
		Timestamp: time.Now(),
	})
}

func (s *Server) handleClassifyEML(w http.ResponseWriter, r *http.Request) {
	result, err := s.app.CheckEML(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		status := http.StatusUnprocessableEntity
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeJSON(w, status, APIResponse{
			Success:   false,
			Data:      result,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	s.writeClassification(w, result)
}

// writeClassification maps a result status to an HTTP status. Blank input
// is a normal outcome, not a client error.
func (s *Server) writeClassification(w http.ResponseWriter, c *models.Classification) {
	if c.Status == classifier.StatusError.String() {
		s.writeJSON(w, http.StatusInternalServerError, APIResponse{
			Success:   false,
			Data:      c,
			Error:     c.Error,
			Timestamp: time.Now(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      c,
		Timestamp: time.Now(),
	})
}

// Middleware

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			validatedKey, err := s.keyManager.ValidateAPIKey(security.KeyFromRequest(r))
			if err != nil {
				log.Printf("Authentication failed from %s: %v", r.RemoteAddr, err)
				s.writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !validatedKey.HasPermission(permission) {
				s.writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyContextKey, validatedKey)

			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// Utility methods

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         8080,
		Host:         "localhost",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MaxBodyBytes: 10 << 20,
		EnableAuth:   false,
		Security:     security.DefaultAPIKeyConfig(),
	}
}
