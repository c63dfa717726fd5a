package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/database"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports process liveness and database reachability.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	dbStatus := "connected"
	if err := database.Ping(ctx, h.db); err != nil {
		_ = c.Error(err)
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"message":  "TaskFlow API is running",
		"dbStatus": dbStatus,
	})
}

// Root serves a short banner.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "TaskFlow API is running")
}
