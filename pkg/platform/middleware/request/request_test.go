package request

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martirspe/complaints-book-pro/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	capture := func(header string) (string, *httptest.ResponseRecorder) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = requestcontext.RequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/forms/abc", nil)
		if header != "" {
			req.Header.Set("X-Request-ID", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return captured, w
	}

	t.Run("generates a uuid when absent", func(t *testing.T) {
		id, w := capture("")
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps a safe client id", func(t *testing.T) {
		id, _ := capture("claim-form.step_2")
		assert.Equal(t, "claim-form.step_2", id)
	})

	t.Run("replaces unsafe client ids", func(t *testing.T) {
		for _, bad := range []string{"abc\ninjected", "a b", "<script>", strings.Repeat("a", MaxRequestIDLength+1)} {
			id, _ := capture(bad)
			assert.NotEqual(t, bad, id)
			assert.Len(t, id, 36)
		}
	})

	t.Run("accepts id at max length", func(t *testing.T) {
		exact := strings.Repeat("b", MaxRequestIDLength)
		id, _ := capture(exact)
		assert.Equal(t, exact, id)
	})
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/forms/x/submit", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/tenants/acme/forms", nil)
	req.RemoteAddr = "190.12.33.47:5555"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":201`)
	assert.Contains(t, out, `"path":"/tenants/acme/forms"`)
	assert.NotContains(t, out, "190.12.33.47")

	buf.Reset()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Empty(t, buf.String())
}

type latencyRecorder struct {
	endpoints []string
}

func (l *latencyRecorder) ObserveEndpointLatency(endpoint string, _ float64) {
	l.endpoints = append(l.endpoints, endpoint)
}

func TestLatency(t *testing.T) {
	rec := &latencyRecorder{}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Latency(rec, func(*http.Request) string { return "/forms/{id}" })(ok).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/forms/123", nil))
	Latency(rec, nil)(ok).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/calling-codes", nil))

	assert.Equal(t, []string{"/forms/{id}", "/calling-codes"}, rec.endpoints)
}
