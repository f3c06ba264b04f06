package handler

import (
	"errors"
	"net/http"

	"todo/internal/logger"
	"todo/internal/middleware"
	"todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps service errors to HTTP responses. Unexpected errors are
// logged and reported with the generic fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	if ve, ok := service.IsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: "The given data was invalid.",
			Errors:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	default:
		_ = c.Error(err)
		logger.Error(fallback, err,
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// currentUser reads the authenticated user id and writes 401 when it is missing.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + label + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}
