package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/logger"
	"github.com/yigit/hostelpg/internal/pkg/validation"
)

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// errorCodeFor picks the most specific client error code for err
func errorCodeFor(err error, kind apperrors.Kind) dto.ErrorCode {
	switch {
	case apperrors.Is(err, apperrors.ErrNoRoomsAvailable, apperrors.ErrNoSpotsAvailable, apperrors.ErrAvailabilityExhausted):
		return dto.ErrorCodeNoAvailability
	case errors.Is(err, apperrors.ErrBookingAlreadyProcessed):
		return dto.ErrorCodeAlreadyProcessed
	case apperrors.Is(err, apperrors.ErrStudentIDExists, apperrors.ErrEmailAlreadyExists, apperrors.ErrFavoriteExists, apperrors.ErrAdminAlreadyExists):
		return dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrTokenExpired):
		return dto.ErrorCodeExpiredToken
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked):
		return dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrTokenMissing):
		return dto.ErrorCodeTokenNotFound
	}

	switch kind {
	case apperrors.KindNotFound:
		return dto.ErrorCodeResourceNotFound
	case apperrors.KindValidation:
		return dto.ErrorCodeValidationFailed
	case apperrors.KindConflict:
		return dto.ErrorCodeConflict
	case apperrors.KindUnauthorized:
		return dto.ErrorCodeInvalidCredentials
	case apperrors.KindForbidden:
		return dto.ErrorCodeForbidden
	default:
		return dto.ErrorCodeInternalServer
	}
}

// HandleAPIError writes the error envelope for err. Internal causes are logged, never returned.
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := StatusFor(kind)

	errorDetail := dto.NewErrorDetail(errorCodeFor(err, kind), apperrors.PublicMessage(err))

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && len(custom.Details) > 0 {
		if field, ok := custom.Details["field"].(string); ok {
			errorDetail = errorDetail.WithField(field)
		}
		errorDetail = errorDetail.WithDetails(custom.Details)
	}

	if kind == apperrors.KindInternal {
		errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(ContextRequestID)).
			Msg("Request failed")
	} else {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("Request rejected")
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

// HandleBindingError answers a request whose body or query failed to bind
func HandleBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	fields := dto.NewValidationErrors()
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields.AddError(fe.Field(), validation.FieldMessage(fe))
		}
	}

	if fields.HasErrors() {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fields.Errors[0].Message).
			WithField(fields.Errors[0].Field).
			WithDetails(fields.Errors)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
