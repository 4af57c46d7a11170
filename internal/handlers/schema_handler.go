package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/database"
	"genricycle/internal/middlewares"
	"genricycle/internal/responses"
	"genricycle/internal/services"
)

type SchemaHandler struct {
	backend database.Backend
}

func NewSchemaHandler(backend database.Backend) *SchemaHandler {
	return &SchemaHandler{backend: backend}
}

func (h *SchemaHandler) service(c *gin.Context) (*services.SchemaService, bool) {
	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Database unavailable")
		return nil, false
	}
	return services.NewSchemaService(h.backend, conn), true
}

// Summary handles GET /api/db/summary
func (h *SchemaHandler) Summary(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}
	report, err := svc.Summary(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to describe database")
		return
	}
	c.JSON(http.StatusOK, report)
}

// VisualizeSchema handles GET /api/db/diagram
func (h *SchemaHandler) VisualizeSchema(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}
	diagram, err := svc.VisualizeSchema(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to generate schema visualization")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"mermaid": diagram}, "Schema visualization generated successfully")
}
