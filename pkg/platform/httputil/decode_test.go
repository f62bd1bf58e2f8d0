package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	"github.com/martirspe/complaints-book-pro/pkg/requestcontext"
)

type navigateRequest struct {
	Step int `json:"step"`
}

type preparedRequest struct {
	Field      string `json:"field"`
	normalized bool
}

func (r *preparedRequest) Normalize() {
	r.Field = strings.TrimSpace(r.Field)
	r.normalized = true
}

func (r *preparedRequest) Validate() error {
	if r.Field == "" {
		return errors.New("field is required")
	}
	return nil
}

type domainValidatedRequest struct {
	Code string `json:"code"`
}

func (r *domainValidatedRequest) Validate() error {
	return dErrors.New(dErrors.CodeBadRequest, "bad code")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("successful decode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"step":3}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[navigateRequest](w, req, logger)

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, 3, result.Step)
	})

	t.Run("invalid JSON writes bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{nope`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[navigateRequest](w, req, logger)

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("trailing data after the object is refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"step":3}{"step":4}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[navigateRequest](w, req, logger)

		assert.False(t, ok)
		assert.Equal(t, "invalid request body", decodeError(t, w).Description)
	})

	t.Run("body over the JSON cap names the size problem", func(t *testing.T) {
		body := `{"step":3,"pad":"` + strings.Repeat("a", MaxBodySize) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[navigateRequest](w, req, logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "request body too large", decodeError(t, w).Description)
	})

	t.Run("failures are logged with the request id from the context", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{nope`))
		req = req.WithContext(requestcontext.WithRequestID(req.Context(), "req-42"))

		_, ok := DecodeJSON[navigateRequest](httptest.NewRecorder(), req, logger)

		assert.False(t, ok)
		assert.Contains(t, logs.String(), "request_id=req-42")
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("normalizes before validating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"field":"  minor  "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[preparedRequest](w, req, logger)

		require.True(t, ok)
		assert.Equal(t, "minor", result.Field)
		assert.True(t, result.normalized)
	})

	t.Run("plain validation error maps to validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"field":"   "}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[preparedRequest](w, req, logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "validation_error", body.Error)
		assert.Equal(t, "field is required", body.Description)
	})

	t.Run("domain error code is preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"code":"x"}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[domainValidatedRequest](w, req, logger)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad code", decodeError(t, w).Description)
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{dErrors.New(dErrors.CodeVerificationFailed, "captcha"), http.StatusForbidden, "verification_failed"},
		{dErrors.New(dErrors.CodeRejected, "email: invalid"), http.StatusUnprocessableEntity, "claim_rejected"},
		{dErrors.New(dErrors.CodeStepBlocked, "blocked"), http.StatusConflict, "step_blocked"},
		{dErrors.New(dErrors.CodeSessionExpired, "gone"), http.StatusNotFound, "session_expired"},
		{dErrors.New(dErrors.CodeSubmissionFailed, "x"), http.StatusBadGateway, "backend_unavailable"},
		{errors.New("raw transport detail"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotContains(t, w.Body.String(), "raw transport detail")
		})
	}
}
