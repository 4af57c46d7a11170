package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"genricycle/internal/database"
	"genricycle/internal/responses"
	"genricycle/internal/services"
)

// fail maps service and storage errors onto the JSON error envelope.
func fail(c *gin.Context, err error, message string) {
	var connErr *database.ConnectionError
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, database.ErrNoRows):
		responses.Fail(c, http.StatusNotFound, responses.CodeNotFound, err, message)
	case errors.Is(err, services.ErrUserExists), database.IsUniqueViolation(err):
		responses.Fail(c, http.StatusConflict, responses.CodeConflict, err, message)
	case errors.Is(err, services.ErrInvalidCredentials):
		responses.Fail(c, http.StatusUnauthorized, responses.CodeUnauthorized, err, message)
	case errors.Is(err, services.ErrMedicineNotFound), database.IsForeignKeyViolation(err):
		responses.Fail(c, http.StatusBadRequest, responses.CodeValidation, err, message)
	case errors.As(err, &connErr):
		_ = c.Error(err)
		responses.Fail(c, http.StatusServiceUnavailable, responses.CodeInternal, err, "Database unavailable")
	default:
		_ = c.Error(err)
		responses.Fail(c, http.StatusInternalServerError, responses.CodeInternal, err, message)
	}
}

func badRequest(c *gin.Context, err error, message string) {
	responses.Fail(c, http.StatusBadRequest, responses.CodeValidation, err, message)
}
