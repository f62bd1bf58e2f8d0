// Package backend is the HTTP client of the claims backend API: catalogs,
// customer and tutor records, public claims and locations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/martirspe/complaints-book-pro/internal/platform/tracer"
)

// TenantHeader carries the tenant slug on tenant-scoped calls.
const TenantHeader = "x-tenant"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// CallObserver records the outcome of one backend call.
type CallObserver interface {
	ObserveBackendCall(operation, result string, durationSeconds float64)
}

// Client calls the claims backend. It is safe for concurrent use; all sessions
// share one client and therefore one rate limiter and one catalog cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	catalogs   *cache.Cache
	loads      singleflight.Group
	observer   CallObserver
	tracer     tracer.Tracer
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit bounds outbound calls to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCatalogTTL sets how long catalogs are served from memory.
func WithCatalogTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.catalogs = cache.New(ttl, 2*ttl)
	}
}

func WithObserver(o CallObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		catalogs:   cache.New(10*time.Minute, 20*time.Minute),
		tracer:     tracer.NewNoop(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call is one backend request.
type call struct {
	op          string
	method      string
	path        string
	tenant      string
	body        io.Reader
	contentType string
	header      http.Header
}

func jsonCall(op, method, path, tenant string, payload any) (call, error) {
	c := call{op: op, method: method, path: path, tenant: tenant}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return c, newError(CategoryInternal, op, 0, "failed to marshal request", err)
		}
		c.body = bytes.NewReader(b)
		c.contentType = "application/json"
	}
	return c, nil
}

// do executes c and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanBackendCall, tracer.String(tracer.AttrOperation, cl.op))
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = string(CategoryOf(err))
			span.SetAttributes(tracer.String(tracer.AttrErrorCategory, result))
		}
		if c.observer != nil {
			c.observer.ObserveBackendCall(cl.op, result, time.Since(start).Seconds())
		}
		span.End(err)
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return newError(CategoryTimeout, cl.op, 0, "rate limiter wait aborted", err)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return newError(CategoryInternal, cl.op, 0, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.tenant != "" {
		req.Header.Set(TenantHeader, cl.tenant)
	}
	for k, vs := range cl.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return newError(CategoryTimeout, cl.op, 0, "request timeout", err)
		}
		return newError(CategoryOutage, cl.op, 0, "failed to execute request", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int(tracer.AttrStatus, resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return newError(CategoryOutage, cl.op, resp.StatusCode, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		be := classify(cl.op, resp.StatusCode, body)
		if be.Category != CategoryNotFound {
			c.logger.WarnContext(ctx, "backend call failed",
				"operation", cl.op,
				"status", resp.StatusCode,
				"category", be.Category,
			)
		}
		return be
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(CategoryBadData, cl.op, resp.StatusCode, "failed to parse response", err)
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Ping checks that the backend answers. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	cl, _ := jsonCall("ping", http.MethodGet, "/api/document_types", "", nil)
	if err := c.do(ctx, cl, nil); err != nil {
		return fmt.Errorf("backend not ready: %w", err)
	}
	return nil
}
