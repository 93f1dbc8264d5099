package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Aidin1998/taskapi/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// handleHealth reports liveness; it never touches the database
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   "API is running",
		Timestamp: models.FormatTimestamp(s.opts.Now()),
	})
}

// handleReady reports whether the database answers a ping
func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.tasksSvc.Ping(ctx); err != nil {
		s.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
