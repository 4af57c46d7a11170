package routes

import (
	"github.com/gin-gonic/gin"

	"genricycle/internal/handlers"
)

type SchemaRoutes struct {
	handler *handlers.SchemaHandler
}

func NewSchemaRoutes(handler *handlers.SchemaHandler) *SchemaRoutes {
	return &SchemaRoutes{handler: handler}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	db := router.Group("/db")
	{
		db.GET("/summary", r.handler.Summary)
		db.GET("/diagram", r.handler.VisualizeSchema)
	}
}
