package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearguard/pkg/apperrors"
)

func doErrorResponse(t *testing.T, err error) (*httptest.ResponseRecorder, HTTPResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, ErrorResponse(ctx, err))

	var body HTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestErrorResponseStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperrors.NewValidationError(map[string]string{"subject": "required"}), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("equipment"), http.StatusNotFound},
		{"forbidden", apperrors.NewForbiddenError("admin"), http.StatusForbidden},
		{"invalid transition", apperrors.NewInvalidTransitionError("new", "repaired"), http.StatusConflict},
		{"inactive equipment", apperrors.NewInactiveEquipmentError(7), http.StatusConflict},
		{"cascade", apperrors.NewCascadeError(1, 2, errors.New("boom")), http.StatusInternalServerError},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"unknown", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doErrorResponse(t, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.False(t, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorResponseCarriesValidationFields(t *testing.T) {
	_, body := doErrorResponse(t, apperrors.NewValidationError(map[string]string{
		"scheduled_date": "required for preventive requests",
		"priority":       "must be low, medium, high or critical",
	}))

	fields, ok := body.Fields.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "scheduled_date")
	assert.Contains(t, fields, "priority")
}

func TestSuccessResponseEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, SuccessResponse(ctx, map[string]int{"id": 1}, "created", http.StatusCreated))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body HTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Status)
	assert.Equal(t, "created", body.Message)
	assert.NotNil(t, body.Body)
}
