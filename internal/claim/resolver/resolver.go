package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/platform/tracer"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	"github.com/martirspe/complaints-book-pro/pkg/platform/circuit"
	"github.com/martirspe/complaints-book-pro/pkg/platform/privacy"
)

// MsgLookupsPaused is the error of lookups refused by an open breaker.
const MsgLookupsPaused = "person lookups paused"

// PersonStore is the part of the backend the resolver needs.
type PersonStore interface {
	FindPerson(ctx context.Context, tenant string, kind backend.PersonKind, number string) (backend.Person, error)
	CreatePerson(ctx context.Context, tenant string, kind backend.PersonKind, p backend.Person) (backend.Person, error)
}

// Metrics is implemented by *metrics.Metrics.
type Metrics interface {
	IncrementPersonLookup(kind, outcome string)
	IncrementPersonCreate(kind string)
}

// Resolver turns the identity typed into a form into a backend record id.
type Resolver struct {
	store   PersonStore
	flights singleflight.Group
	metrics Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
	breaker *circuit.Breaker
}

type Option func(*Resolver)

func WithMetrics(m Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithBreaker guards the live lookups behind b. Submissions always reach the
// backend; only as-you-type lookups are shed while the circuit is open.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Resolver) {
		r.breaker = b
	}
}

func New(store PersonStore, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns a LookupFunc bound to tenant and kind, for a Watcher.
func (r *Resolver) Lookup(tenant string, kind backend.PersonKind) LookupFunc {
	return func(ctx context.Context, number string) (backend.Person, error) {
		if r.breaker != nil && !r.breaker.Allow() {
			if r.metrics != nil {
				r.metrics.IncrementPersonLookup(string(kind), "circuit_open")
			}
			return backend.Person{}, dErrors.New(dErrors.CodeUnavailable, MsgLookupsPaused)
		}
		p, err := r.store.FindPerson(ctx, tenant, kind, number)
		if r.breaker != nil {
			r.breaker.Record(outcome(err))
		}
		r.countLookup(kind, err)
		return p, err
	}
}

// outcome judges a lookup for the breaker: any answer from the backend,
// including not-found, shows it is up.
func outcome(err error) circuit.Outcome {
	if err == nil {
		return circuit.Success
	}
	if errors.Is(err, context.Canceled) {
		return circuit.Ignored
	}
	switch backend.CategoryOf(err) {
	case backend.CategoryNotFound, backend.CategoryRejected, backend.CategoryConflict, backend.CategoryBadRequest:
		return circuit.Success
	}
	return circuit.Failure
}

// ResolveOrCreate returns the record registered under p's document number,
// creating it from p when the backend has none. Concurrent calls for the
// same tenant, kind and number share one pipeline, so a number is created at
// most once. Any lookup failure other than not-found aborts without creating.
func (r *Resolver) ResolveOrCreate(ctx context.Context, tenant string, kind backend.PersonKind, p backend.Person) (person backend.Person, err error) {
	number := strings.TrimSpace(p.DocumentNumber.String())
	key := tenant + "|" + string(kind) + "|" + number

	ctx, span := r.tracer.Start(ctx, tracer.SpanResolvePerson,
		tracer.String(tracer.AttrTenant, tenant),
		tracer.String(tracer.AttrPersonKind, string(kind)),
		tracer.String(tracer.AttrDocument, tracer.HashDocument(number)),
	)
	defer func() { span.End(err) }()

	v, err, shared := r.flights.Do(key, func() (any, error) {
		return r.resolve(ctx, tenant, kind, number, p, span)
	})
	if err != nil {
		return backend.Person{}, err
	}
	if shared {
		r.logger.DebugContext(ctx, "person resolution shared", "tenant", tenant, "kind", kind)
	}
	return v.(backend.Person), nil
}

func (r *Resolver) resolve(ctx context.Context, tenant string, kind backend.PersonKind, number string, p backend.Person, span tracer.Span) (backend.Person, error) {
	found, err := r.store.FindPerson(ctx, tenant, kind, number)
	r.countLookup(kind, err)
	if err == nil {
		span.AddEvent(tracer.EventPersonFound)
		span.SetAttributes(tracer.Bool(tracer.AttrCreated, false))
		return found, nil
	}
	if !backend.IsNotFound(err) {
		return backend.Person{}, err
	}

	p.ID = 0
	p.DocumentNumber = backend.DocumentNumber(number)
	created, err := r.store.CreatePerson(ctx, tenant, kind, p)
	if err != nil {
		r.logger.WarnContext(ctx, "person create failed",
			"tenant", tenant,
			"kind", kind,
			"document", privacy.MaskDocument(number),
			"category", backend.CategoryOf(err),
		)
		return backend.Person{}, err
	}
	if r.metrics != nil {
		r.metrics.IncrementPersonCreate(string(kind))
	}
	span.AddEvent(tracer.EventPersonCreated)
	span.SetAttributes(tracer.Bool(tracer.AttrCreated, true))
	r.logger.InfoContext(ctx, "person created",
		"tenant", tenant,
		"kind", kind,
		"id", created.ID,
		"document", privacy.MaskDocument(number),
	)
	return created, nil
}

func (r *Resolver) countLookup(kind backend.PersonKind, err error) {
	if r.metrics == nil {
		return
	}
	outcome := "found"
	switch {
	case err == nil:
	case backend.IsNotFound(err):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	r.metrics.IncrementPersonLookup(string(kind), outcome)
}
