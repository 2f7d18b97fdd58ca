package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// HandleAPIError maps domain errors to HTTP status codes and error details
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error while serving request")
	}
	c.JSON(status, dto.NewFailureResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	code := apperrors.CodeOf(err)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
		if code != "" {
			detail = detail.WithDetails(map[string]string{"reason": code})
		}
		return http.StatusNotFound, detail
	case errors.Is(err, apperrors.ErrDuplicateKey):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrHasDependents):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeHasDependents, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		detail := dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())
		if code != "" {
			detail = detail.WithDetails(map[string]string{"reason": code})
		}
		return http.StatusConflict, detail
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
