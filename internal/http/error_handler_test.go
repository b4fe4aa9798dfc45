package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	apperrors "studio-service/pkg/errors"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", apperrors.Validation("title is required"), http.StatusBadRequest, "title is required"},
		{"not found", apperrors.NotFound("project not found"), http.StatusNotFound, "project not found"},
		{"forbidden", apperrors.Forbidden("not a project member"), http.StatusForbidden, "not a project member"},
		{"unauthorized", apperrors.Unauthorized("missing actor"), http.StatusUnauthorized, "missing actor"},
		{"conflict", apperrors.Conflict("already assigned"), http.StatusConflict, "already assigned"},
		{"invalid state", apperrors.InvalidState("brief is not a draft"), http.StatusConflict, "brief is not a draft"},
		{"wrapped conflict", fmt.Errorf("insert: %w", apperrors.Conflict("duplicate")), http.StatusConflict, "duplicate"},
		{"external service", apperrors.ExternalService("upload failed", errors.New("s3: timeout")), http.StatusBadGateway, msgExternalService},
		{"echo error", echo.NewHTTPError(http.StatusUnsupportedMediaType, "json only"), http.StatusUnsupportedMediaType, "json only"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, msgInternalServerError},
		{"internal app error", apperrors.InternalServer("db broke", errors.New("boom")), http.StatusInternalServerError, msgInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			CustomHTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.Equal(t, "unknown", body["request_id"])
		})
	}
}

func TestCustomHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusAccepted, "done"))

	CustomHTTPErrorHandler(apperrors.NotFound("late"), c)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
