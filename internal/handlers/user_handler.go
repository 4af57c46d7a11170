package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/middlewares"
	"genricycle/internal/services"
)

var errEmailRequired = errors.New("email query param required")

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetUser handles GET /api/user?email=
func (h *UserHandler) GetUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, errEmailRequired, "Email is required")
		return
	}

	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Failed to retrieve user")
		return
	}
	user, err := services.NewUserService(conn).GetUser(c.Request.Context(), email)
	if err != nil {
		fail(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpsertUser handles POST /api/user
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req services.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request body")
		return
	}

	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Failed to save user")
		return
	}
	user, created, err := services.NewUserService(conn).Upsert(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to save user")
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"status": "created", "user": user})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "user": user})
}

// DeleteUser handles DELETE /api/user?email=
func (h *UserHandler) DeleteUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, errEmailRequired, "Email is required")
		return
	}

	conn, err := middlewares.Conn(c)
	if err != nil {
		fail(c, err, "Failed to delete user")
		return
	}
	if err := services.NewUserService(conn).DeleteUser(c.Request.Context(), email); err != nil {
		fail(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
