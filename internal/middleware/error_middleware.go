package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// HandleAPIError maps err to a status and an ErrorResponse. Server-side
// failures are logged with their cause and answered with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)
	if status < http.StatusInternalServerError {
		detail.WithSeverity(dto.ErrorSeverityWarning)
	}

	lgr := logger.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		lgr.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Request failed")
	} else {
		lgr.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrUploadRejected):
		return http.StatusBadRequest, publicDetail(err, dto.ErrorCodeUploadRejected, "Upload rejected")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrInvalidServiceType, apperrors.ErrInvalidServiceDetail):
		return http.StatusBadRequest, publicDetail(err, dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, publicDetail(err, dto.ErrorCodeBadRequest, "Bad request")
	case apperrors.Is(err, apperrors.ErrWeakPassword, auth.ErrPasswordTooShort, auth.ErrPasswordTooLong):
		return http.StatusBadRequest, publicDetail(err, dto.ErrorCodeWeakPassword, "Password does not meet requirements")
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Username already exists")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, "Conflict")
	case apperrors.Is(err, apperrors.ErrEnrollmentFailed, apperrors.ErrReenrollmentFailed, apperrors.ErrTransactionFailed):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "The operation could not be completed").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// publicDetail uses the client-safe message and field of a CustomError when present
func publicDetail(err error, code dto.ErrorCode, fallback string) *dto.ErrorDetail {
	detail := dto.NewErrorDetail(code, fallback)
	if msg, ok := apperrors.PublicMessage(err); ok {
		detail.Message = msg
	}

	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		if field, ok := ce.Details["field"].(string); ok {
			detail.WithField(field)
		}
	}
	return detail
}
