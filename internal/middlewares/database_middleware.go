package middlewares

import (
	"errors"

	"github.com/gin-gonic/gin"

	"genricycle/internal/database"
	"genricycle/internal/logger"
)

var errNoSession = errors.New("database session middleware is not installed")

// Database gives every request its own lazily opened session and releases
// it when the handler chain returns, whether it succeeded or not.
func Database(backend database.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := database.NewSession(backend)
		c.Request = c.Request.WithContext(database.WithSession(c.Request.Context(), session))

		defer func() {
			if err := session.Release(c.Request.Context()); err != nil {
				logger.Warn("Failed to release database session", "path", c.Request.URL.Path, "error", err)
			}
		}()

		c.Next()
	}
}

// Conn returns the request's connection, opening it on first use.
func Conn(c *gin.Context) (database.Conn, error) {
	session, ok := database.FromContext(c.Request.Context())
	if !ok {
		return nil, errNoSession
	}
	return session.Acquire(c.Request.Context())
}
