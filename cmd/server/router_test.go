package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/handler"
	"github.com/martirspe/complaints-book-pro/internal/claim/handler/mocks"
	"github.com/martirspe/complaints-book-pro/internal/claim/session"
	"github.com/martirspe/complaints-book-pro/internal/platform/config"
	"github.com/martirspe/complaints-book-pro/internal/platform/health"
)

type latencyRecorder struct {
	mu        sync.Mutex
	endpoints []string
}

func (l *latencyRecorder) ObserveEndpointLatency(endpoint string, _ float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endpoints = append(l.endpoints, endpoint)
}

func newTestRouter(t *testing.T, cfg config.Server) (http.Handler, *mocks.MockService, *latencyRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	forms := mocks.NewMockService(ctrl)
	rec := &latencyRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router, err := NewRouter(RouterDeps{
		Config:  cfg,
		Forms:   handler.New(forms, logger),
		Health:  health.New("test"),
		Metrics: rec,
		Logger:  logger,
	})
	require.NoError(t, err)
	return router, forms, rec
}

func TestRouterServesProbesAndMetrics(t *testing.T) {
	router, _, rec := newTestRouter(t, config.Server{})

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.Empty(t, rec.endpoints, "probes are not part of the API latency histogram")
}

func TestRouterRoutesForms(t *testing.T) {
	router, forms, rec := newTestRouter(t, config.Server{})
	forms.EXPECT().State(gomock.Any(), "abc").Return(session.State{ID: "abc", Step: 1}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forms/abc", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"id":"abc"`)
	require.Len(t, rec.endpoints, 1)
	assert.True(t, strings.HasPrefix(rec.endpoints[0], "/forms/{id}"), rec.endpoints[0])
}

func TestRouterRejectsOversizedBodies(t *testing.T) {
	router, _, _ := newTestRouter(t, config.Server{})

	body := `{"field":"firstName","value":"` + strings.Repeat("a", int(handler.MaxUploadSize)) + `"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/forms/abc/events", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterAcceptsAttachmentBatchOverPolicy(t *testing.T) {
	router, forms, _ := newTestRouter(t, config.Server{})
	forms.EXPECT().AddAttachments(gomock.Any(), "abc", gomock.Any()).
		DoAndReturn(func(_ any, _ string, files []form.Attachment) (session.State, error) {
			assert.Len(t, files, 6)
			return session.State{ID: "abc"}, nil
		})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i := range 6 {
		part, err := mw.CreateFormFile("files", fmt.Sprintf("boleta-%d.pdf", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4\n" + strings.Repeat("0", 140*1024)))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/forms/abc/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterCORS(t *testing.T) {
	router, _, _ := newTestRouter(t, config.Server{AllowedOrigins: []string{"https://libro.example.pe"}})

	req := httptest.NewRequest(http.MethodOptions, "/tenants/acme/forms", nil)
	req.Header.Set("Origin", "https://libro.example.pe")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://libro.example.pe", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/tenants/acme/forms", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRejectsBadTrustedProxies(t *testing.T) {
	_, err := NewRouter(RouterDeps{
		Config: config.Server{TrustedProxies: []string{"not-a-cidr"}},
		Health: health.New("test"),
	})
	assert.Error(t, err)
}
