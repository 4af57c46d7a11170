package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/middlewares"
	"genricycle/internal/services"
)

type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

func (h *OrderHandler) service(c *gin.Context) (*services.OrderService, bool) {
	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Database unavailable")
		return nil, false
	}
	return services.NewOrderService(conn), true
}

// ListAddresses handles GET /api/addresses?email=
func (h *OrderHandler) ListAddresses(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, errEmailRequired, "Email is required")
		return
	}
	svc, ok := h.service(c)
	if !ok {
		return
	}
	addresses, err := svc.ListAddresses(c.Request.Context(), email)
	if err != nil {
		fail(c, err, "Failed to load addresses")
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// AddAddress handles POST /api/addresses
func (h *OrderHandler) AddAddress(c *gin.Context) {
	var req services.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request body")
		return
	}
	svc, ok := h.service(c)
	if !ok {
		return
	}
	addr, err := svc.AddAddress(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to save address")
		return
	}
	c.JSON(http.StatusCreated, addr)
}

// ListOrders handles GET /api/orders?email=
func (h *OrderHandler) ListOrders(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, errEmailRequired, "Email is required")
		return
	}
	svc, ok := h.service(c)
	if !ok {
		return
	}
	orders, err := svc.ListOrders(c.Request.Context(), email)
	if err != nil {
		fail(c, err, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// PlaceOrder handles POST /api/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request body")
		return
	}
	svc, ok := h.service(c)
	if !ok {
		return
	}
	order, err := svc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to place order")
		return
	}
	c.JSON(http.StatusCreated, order)
}
