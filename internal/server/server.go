// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seoscope/seoscope/internal/common"
	"github.com/seoscope/seoscope/models"
	"github.com/seoscope/seoscope/pkg/db"
	"github.com/seoscope/seoscope/pkg/pipeline"
)

type Server struct {
	store  *db.DB
	runner *pipeline.Runner
	logger *slog.Logger
}

func New(store *db.DB, runner *pipeline.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, runner: runner, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/analyses", s.createAnalysis)
		api.GET("/analyses", s.listAnalyses)
		api.GET("/analyses/:id", s.getAnalysis)
		api.POST("/analyses/:id/refresh", s.refreshAnalysis)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", "addr", addr)
	return s.Router().Run(addr)
}

func (s *Server) createAnalysis(c *gin.Context) {
	var request struct {
		Keyword string `json:"keyword" binding:"required"`
		URL     string `json:"url"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	targetURL := common.SanitizeURL(request.URL)
	if targetURL != "" && !common.ValidateURL(targetURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is not a valid http(s) URL"})
		return
	}

	id, err := s.store.CreateAnalysis(request.Keyword, targetURL)
	if err != nil {
		s.logger.Error("Failed to create analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create analysis"})
		return
	}

	go s.runAnalysis(id)

	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": models.StatusPending})
}

func (s *Server) getAnalysis(c *gin.Context) {
	analysis, err := s.store.GetAnalysis(c.Param("id"))
	if err != nil {
		s.logger.Error("Failed to load analysis", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (s *Server) listAnalyses(c *gin.Context) {
	analyses, err := s.store.ListAnalyses(50)
	if err != nil {
		s.logger.Error("Failed to list analyses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analyses"})
		return
	}
	if analyses == nil {
		analyses = []models.Analysis{}
	}

	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

func (s *Server) refreshAnalysis(c *gin.Context) {
	id := c.Param("id")

	analysis, err := s.store.GetAnalysis(id)
	if err != nil {
		s.logger.Error("Failed to load analysis", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	if analysis.Status == models.StatusProcessing {
		c.JSON(http.StatusConflict, gin.H{"error": "analysis already in progress"})
		return
	}

	if err := s.runner.Invalidate(id); err != nil {
		s.logger.Error("Failed to invalidate cached analysis", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate cached analysis"})
		return
	}

	go s.runAnalysis(id)

	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": models.StatusPending})
}

// runAnalysis drives one analysis in the background. Errors are already
// persisted on the record by the runner; here they are only logged.
func (s *Server) runAnalysis(id string) {
	if err := s.runner.Run(context.Background(), id); err != nil {
		s.logger.Error("Background analysis failed", "id", id, "error", err)
	}
}
