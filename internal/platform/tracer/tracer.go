// Package tracer is the tracing abstraction used by the submission pipeline.
//
// Services depend on the Tracer interface; main wires the OpenTelemetry
// adapter and tests use the no-op tracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span and marks it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanSubmit, tracer.String(tracer.AttrTenant, tenant))
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashDocument returns a short SHA-256 prefix of a document number so spans of
// one claimant can be correlated without exposing the number.
func HashDocument(number string) string {
	if number == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(number))
	return hex.EncodeToString(sum[:8])
}

// Span names.
const (
	SpanSubmit        = "claim.submit"
	SpanVerification  = "claim.verification"
	SpanResolvePerson = "claim.resolve_person"
	SpanCreateClaim   = "claim.create"
	SpanBackendCall   = "backend.call"
)

// Attribute keys.
const (
	AttrTenant        = "tenant"
	AttrPersonKind    = "person.kind"
	AttrDocument      = "person.document_hash"
	AttrCreated       = "person.created"
	AttrAttachments   = "claim.attachments"
	AttrMinor         = "claim.minor"
	AttrOperation     = "backend.operation"
	AttrStatus        = "http.status_code"
	AttrCacheHit      = "cache.hit"
	AttrIdempotency   = "claim.idempotency_key"
	AttrErrorCategory = "error.category"
)

// Event names.
const (
	EventPersonFound   = "person.found"
	EventPersonCreated = "person.created"
)
