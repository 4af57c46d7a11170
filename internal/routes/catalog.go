package routes

import (
	"github.com/gin-gonic/gin"

	"genricycle/internal/handlers"
)

type CatalogRoutes struct {
	handler *handlers.CatalogHandler
}

func NewCatalogRoutes(handler *handlers.CatalogHandler) *CatalogRoutes {
	return &CatalogRoutes{handler: handler}
}

func (r *CatalogRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/medicines", r.handler.Medicines)
	router.GET("/categories", r.handler.Categories)
	router.GET("/doctors", r.handler.Doctors)
	router.GET("/lab-tests", r.handler.LabTests)
}
