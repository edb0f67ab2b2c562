package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// writeError maps domain errors to status codes. Anything unknown is a 500
// with a generic message.
func writeError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status, message = http.StatusNotFound, "session not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusConflict, "action not allowed in the current state"
	case errors.Is(err, domain.ErrInvalidGoal):
		status, message = http.StatusBadRequest, "invalid relationship goal"
	case errors.Is(err, domain.ErrInvalidPhoto):
		status, message = http.StatusBadRequest, "invalid photo"
	case errors.Is(err, domain.ErrNothingToExport):
		status, message = http.StatusNotFound, "no data to export"
	case errors.Is(err, domain.ErrAdminDisabled):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrShuttingDown):
		status, message = http.StatusServiceUnavailable, "service is shutting down"
	case errors.Is(err, domain.ErrPaymentsDisabled):
		status, message = http.StatusServiceUnavailable, "payments are not configured"
	case errors.Is(err, domain.ErrInvalidSignature):
		status, message = http.StatusBadRequest, "invalid signature"
	}

	c.JSON(status, ErrorResponse{Error: message})
}
