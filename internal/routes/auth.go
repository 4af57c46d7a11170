package routes

import (
	"github.com/gin-gonic/gin"

	"genricycle/internal/handlers"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
}

func NewAuthRoutes(handler *handlers.AuthHandler) *AuthRoutes {
	return &AuthRoutes{handler: handler}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/signup", r.handler.Signup)
	router.POST("/login", r.handler.Login)
}
