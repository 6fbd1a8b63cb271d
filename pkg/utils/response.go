package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearguard/pkg/apperrors"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Fields  interface{} `json:"fields,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// sentinelStatus maps plumbing sentinels to their HTTP status.
var sentinelStatus = map[error]int{
	apperrors.ErrInvalidSigningMethod:    http.StatusUnauthorized,
	apperrors.ErrInvalidToken:            http.StatusUnauthorized,
	apperrors.ErrTokenExpired:            http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:       http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:        http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:         http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:       http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:      http.StatusUnauthorized,
	apperrors.ErrUnauthorized:            http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
}

// ErrorResponse is the single place an error becomes an HTTP reply.
func ErrorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := err.Error()
	var fields interface{}

	var appErr *apperrors.AppError
	var valErr *apperrors.ValidationError
	var cascadeErr *apperrors.CascadeError
	var httpErr *echo.HTTPError
	var bindErrs validator.ValidationErrors

	switch {
	case errors.As(err, &valErr):
		code = http.StatusBadRequest
		message = valErr.Error()
		fields = valErr.Fields
	case errors.As(err, &cascadeErr):
		code = http.StatusInternalServerError
		message = cascadeErr.Error()
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &bindErrs):
		code = http.StatusBadRequest
		fieldMap := make(map[string]string, len(bindErrs))
		for _, fe := range bindErrs {
			fieldMap[fe.Field()] = fe.Tag()
		}
		message = "validation failed"
		fields = fieldMap
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	default:
		for sentinel, status := range sentinelStatus {
			if errors.Is(err, sentinel) {
				code = status
				message = sentinel.Error()
				break
			}
		}
	}

	return ctx.JSON(code, &HTTPResponse{
		Status:  false,
		Message: message,
		Fields:  fields,
	})
}
