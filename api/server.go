// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloud-quote/adapters/profile"
	"cloud-quote/adapters/storage"
	"cloud-quote/core/engine"
	"cloud-quote/internal/logging"
)

const requestIDKey = "request_id"

// Options configures the server
type Options struct {
	// Version is reported by /health and /version
	Version string

	// Mode is the gin mode, release when empty
	Mode string

	// CurrencyRate applies to quotes that do not set one
	CurrencyRate decimal.Decimal

	// History records saved quote recomputes, memory when nil
	History storage.Store
}

// Server is the API server
type Server struct {
	engine  *engine.Engine
	store   *profile.Store
	router  *gin.Engine
	options Options
	logger  *zap.Logger
}

// NewServer creates a server over an engine and a profile store
func NewServer(eng *engine.Engine, store *profile.Store, options Options) *Server {
	if options.Mode == "" {
		options.Mode = gin.ReleaseMode
	}
	if options.History == nil {
		options.History = storage.NewMemoryStore()
	}
	gin.SetMode(options.Mode)

	s := &Server{
		engine:  eng,
		store:   store,
		router:  gin.New(),
		options: options,
		logger:  logging.Named("api"),
	}
	s.router.Use(gin.Recovery(), s.requestID(), s.accessLog())
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/version", s.handleVersion)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/lookup", s.handleLookup)

		v1.POST("/quotes", s.handleSaveQuote)
		v1.POST("/quotes/recompute", s.handleRecompute)
		v1.GET("/quotes/:id", s.handleGetQuote)
		v1.POST("/quotes/:id/recompute", s.handleRecomputeSaved)
		v1.DELETE("/quotes/:id", s.handleDeleteQuote)
		v1.GET("/quotes/:id/history", s.handleHistory)
		v1.GET("/quotes/:id/compare", s.handleCompare)

		v1.GET("/usages", s.handleListUsages)
		v1.POST("/usages", s.handleCreateUsage)
		v1.PUT("/usages/:id", s.handleUpdateUsage)
		v1.DELETE("/usages/:id", s.handleDeleteUsage)

		v1.GET("/budgets", s.handleListBudgets)
		v1.POST("/budgets", s.handleCreateBudget)
		v1.DELETE("/budgets/:id", s.handleDeleteBudget)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.options.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":     s.options.Version,
		"engine":      "cloud-quote",
		"api_version": "v1",
	})
}

// requestID tags every request with an id, reusing the caller's when given
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String(requestIDKey, c.GetString(requestIDKey)),
		)
	}
}

func (s *Server) metadata(c *gin.Context, input interface{}, start time.Time) *ResponseMetadata {
	return &ResponseMetadata{
		RequestID:     c.GetString(requestIDKey),
		InputHash:     computeInputHash(input),
		EngineVersion: s.options.Version,
		DurationMs:    time.Since(start).Milliseconds(),
	}
}

func computeInputHash(input interface{}) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
