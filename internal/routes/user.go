package routes

import (
	"github.com/gin-gonic/gin"

	"genricycle/internal/handlers"
)

type UserRoutes struct {
	userHandler *handlers.UserHandler
}

func NewUserRoutes(userHandler *handlers.UserHandler) *UserRoutes {
	return &UserRoutes{userHandler: userHandler}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.GET("", r.userHandler.GetUser)
		user.POST("", r.userHandler.UpsertUser)
		user.DELETE("", r.userHandler.DeleteUser)
	}
}
