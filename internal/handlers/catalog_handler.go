package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/middlewares"
	"genricycle/internal/services"
)

// CatalogHandler serves the reference data. Responses are bare JSON arrays,
// which is what the storefront consumes.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func listHandler[T any](list func(*services.CatalogService, context.Context) ([]T, error), message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := middlewares.Conn(c)
		if err != nil {
			fail(c, err, message)
			return
		}
		items, err := list(services.NewCatalogService(conn), c.Request.Context())
		if err != nil {
			fail(c, err, message)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// Medicines handles GET /api/medicines
func (h *CatalogHandler) Medicines(c *gin.Context) {
	listHandler((*services.CatalogService).Medicines, "Failed to load medicines")(c)
}

// Categories handles GET /api/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	listHandler((*services.CatalogService).Categories, "Failed to load categories")(c)
}

// Doctors handles GET /api/doctors
func (h *CatalogHandler) Doctors(c *gin.Context) {
	listHandler((*services.CatalogService).Doctors, "Failed to load doctors")(c)
}

// LabTests handles GET /api/lab-tests
func (h *CatalogHandler) LabTests(c *gin.Context) {
	listHandler((*services.CatalogService).LabTests, "Failed to load lab tests")(c)
}
