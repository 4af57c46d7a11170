package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/middlewares"
	"genricycle/internal/services"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Please provide your name, email and password correctly")
		return
	}

	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Could not register user")
		return
	}
	user, err := services.NewUserService(conn).Signup(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Could not register user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created", "user": user})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid Format")
		return
	}

	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Failed to login")
		return
	}
	user, err := services.NewUserService(conn).Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to login")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "user": user})
}
