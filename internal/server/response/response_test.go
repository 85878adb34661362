package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"status":"healthy"},"error":null}`, w.Body.String())

	w = httptest.NewRecorder()
	Created(w, []int{1})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TEST_ERROR", resp.Error.Code)
	assert.Equal(t, "Additional details", resp.Error.Details)
}

func TestInternalErrorHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("database password is hunter2"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "validation",
			err:    errors.NewValidationError("image", nil, "image is required"),
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "wrapped validation",
			err:    fmt.Errorf("scan: %w", errors.NewValidationError("strategy", "x", "unknown strategy")),
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "not found",
			err:    errors.NewNotFoundError("scan", "abc"),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "already exists",
			err:    errors.WrapResource("create", "round", "r1", errors.ErrAlreadyExists),
			status: http.StatusConflict,
			code:   "CONFLICT",
		},
		{
			name:   "collaborator",
			err:    errors.NewCollaboratorError("extractor", "extract", errors.New("quota exhausted")),
			status: http.StatusBadGateway,
			code:   "COLLABORATOR_UNAVAILABLE",
		},
		{
			name:   "collaborator timeout",
			err:    errors.NewCollaboratorError("extractor", "extract", errors.ErrTimeout),
			status: http.StatusGatewayTimeout,
			code:   "TIMEOUT",
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Nil(t, resp.Data)
		})
	}
}
