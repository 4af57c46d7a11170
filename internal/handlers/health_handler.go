package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/database"
	"genricycle/internal/middlewares"
)

type HealthHandler struct {
	engine database.Engine
}

func NewHealthHandler(engine database.Engine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// Health handles GET /healthz. It round-trips a trivial statement so an
// unreachable engine reports 503.
func (h *HealthHandler) Health(c *gin.Context) {
	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Database unavailable")
		return
	}
	if _, err := conn.QueryRow(c.Request.Context(), "SELECT 1 AS ok"); err != nil {
		fail(c, err, "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "engine": h.engine})
}
