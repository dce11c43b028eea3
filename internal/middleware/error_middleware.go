package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/logger"
)

// errorMapping is one row of the error to response table
type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

// checked in order; the first match wins
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrInvalidTransition, http.StatusUnprocessableEntity, dto.ErrorCodeInvalidTransition, "Invalid status transition"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "The resource was changed by another request"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Bad request"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token format"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := m.fallback
			if m.status != http.StatusUnauthorized {
				message = apperrors.MessageOf(err, plainMessage(err, m.fallback))
			}
			c.JSON(m.status, dto.NewAPIErrorResponse(dto.NewErrorDetail(m.code, message)))
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewAPIErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

// plainMessage returns the text of the domain error wrapped in err, such as
// "appointment resource not found", or fallback
func plainMessage(err error, fallback string) string {
	for _, known := range []error{
		apperrors.ErrUserNotFound,
		apperrors.ErrAppointmentNotFound,
		apperrors.ErrProjectNotFound,
		apperrors.ErrNotificationNotFound,
		apperrors.ErrProjectArchived,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return fallback
}
