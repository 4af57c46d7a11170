package routes

import (
	"github.com/gin-gonic/gin"

	"genricycle/internal/handlers"
)

type OrderRoutes struct {
	handler *handlers.OrderHandler
}

func NewOrderRoutes(handler *handlers.OrderHandler) *OrderRoutes {
	return &OrderRoutes{handler: handler}
}

func (r *OrderRoutes) RegisterRoutes(router *gin.RouterGroup) {
	addresses := router.Group("/addresses")
	{
		addresses.GET("", r.handler.ListAddresses)
		addresses.POST("", r.handler.AddAddress)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", r.handler.ListOrders)
		orders.POST("", r.handler.PlaceOrder)
	}
}
