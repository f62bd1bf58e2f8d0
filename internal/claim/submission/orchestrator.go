// Package submission turns a completed claim draft into a backend claim:
// verification token, full validation, person resolution, multipart payload
// and outcome classification.
package submission

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/platform/tracer"
	"github.com/martirspe/complaints-book-pro/internal/verification"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	"github.com/martirspe/complaints-book-pro/pkg/platform/privacy"
	"github.com/martirspe/complaints-book-pro/pkg/requestcontext"
)

// ClaimStore creates and tracks public claims.
type ClaimStore interface {
	CreateClaim(ctx context.Context, tenant string, req backend.ClaimRequest) (backend.Receipt, error)
	TrackClaim(ctx context.Context, tenant, code string) (backend.Tracking, error)
}

// PersonResolver is satisfied by *resolver.Resolver.
type PersonResolver interface {
	ResolveOrCreate(ctx context.Context, tenant string, kind backend.PersonKind, p backend.Person) (backend.Person, error)
}

// Metrics is implemented by *metrics.Metrics.
type Metrics interface {
	IncrementClaimsSubmitted(tenant string)
	IncrementSubmissionErrors(code string)
	ObserveSubmitLatency(durationSeconds float64)
}

// Outcome is the result of a submission attempt.
type Outcome struct {
	Receipt        backend.Receipt
	Message        string
	IdempotencyKey string
	// Draft is the submitted draft, with every field touched when validation failed.
	Draft form.Draft
}

type Orchestrator struct {
	claims  ClaimStore
	persons PersonResolver
	issuer  verification.TokenSource
	metrics Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
	newKey  func() string
	timeNow func() time.Time
}

type Option func(*Orchestrator)

// WithIssuer makes every submission request its token from a remote issuer
// instead of using the token supplied with the draft.
func WithIssuer(ts verification.TokenSource) Option {
	return func(o *Orchestrator) {
		o.issuer = ts
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithKeyGenerator replaces the idempotency key generator (for testing).
func WithKeyGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newKey = fn
	}
}

func New(claims ClaimStore, persons PersonResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		claims:  claims,
		persons: persons,
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
		newKey:  func() string { return uuid.NewString() },
		timeNow: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit runs the submission pipeline for one draft snapshot. Every failure
// is a domain error whose message can be shown to the user as is; the draft
// is never modified, except that a validation failure returns it with all
// fields touched in Outcome.Draft.
func (o *Orchestrator) Submit(ctx context.Context, tenant string, snap Snapshot, types []catalog.DocumentType) (out Outcome, err error) {
	start := o.timeNow()
	ctx, span := o.tracer.Start(ctx, tracer.SpanSubmit,
		tracer.String(tracer.AttrTenant, tenant),
		tracer.Bool(tracer.AttrMinor, snap.Draft.Minor),
		tracer.Int(tracer.AttrAttachments, len(snap.Draft.Attachments)),
	)
	defer func() {
		span.End(err)
		o.record(tenant, err, start)
	}()

	out.Draft = snap.Draft

	token, err := o.token(ctx, snap.Draft)
	if err != nil {
		o.logger.WarnContext(ctx, "verification token unavailable",
			"tenant", tenant,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return out, dErrors.Wrap(err, dErrors.CodeVerificationFailed, verification.MsgFailed)
	}

	draft := snap.Draft.Clone()
	draft.Recaptcha = token
	if !form.ValidDraft(draft, types) {
		out.Draft = form.TouchAll(snap.Draft)
		return out, dErrors.New(dErrors.CodeValidation, MsgIncomplete)
	}

	refs, err := o.resolvePersons(ctx, tenant, draft)
	if err != nil {
		return out, classify(err)
	}

	key := o.newKey()
	out.IdempotencyKey = key
	span.SetAttributes(tracer.String(tracer.AttrIdempotency, key))

	req := BuildRequest(Snapshot{Draft: draft, Location: snap.Location}, refs, key)
	receipt, err := o.create(ctx, tenant, req)
	if err != nil {
		o.logger.WarnContext(ctx, "claim submission failed",
			"tenant", tenant,
			"idempotency_key", key,
			"category", backend.CategoryOf(err),
		)
		return out, classify(err)
	}

	out.Receipt = receipt
	out.Message = receipt.Message
	if out.Message == "" {
		out.Message = MsgSubmitted
	}
	o.logger.InfoContext(ctx, "claim submitted",
		"tenant", tenant,
		"code", receipt.Code,
		"idempotency_key", key,
		"device", requestcontext.Device(ctx),
		"document", privacy.MaskDocument(draft.Value(draft.SubjectNumberField())),
		"email", privacy.MaskEmail(draft.Value(form.FieldEmail)),
	)
	return out, nil
}

func (o *Orchestrator) token(ctx context.Context, d form.Draft) (tok string, err error) {
	ctx, span := o.tracer.Start(ctx, tracer.SpanVerification)
	defer func() { span.End(err) }()

	var ts verification.TokenSource = verification.Supplied(d.Recaptcha)
	if o.issuer != nil {
		ts = o.issuer
	}
	return ts.Token(ctx, verification.ActionClaimSubmit)
}

// resolvePersons resolves the subject and, for minors, the guardian
// concurrently. Both must succeed.
func (o *Orchestrator) resolvePersons(ctx context.Context, tenant string, d form.Draft) (References, error) {
	var refs References
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := o.persons.ResolveOrCreate(gctx, tenant, backend.KindCustomer, subjectPerson(d))
		if err != nil {
			return err
		}
		refs.CustomerID = p.ID
		return nil
	})
	if d.Minor {
		g.Go(func() error {
			p, err := o.persons.ResolveOrCreate(gctx, tenant, backend.KindTutor, guardianPerson(d))
			if err != nil {
				return err
			}
			refs.TutorID = p.ID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return References{}, err
	}
	return refs, nil
}

func (o *Orchestrator) create(ctx context.Context, tenant string, req backend.ClaimRequest) (r backend.Receipt, err error) {
	ctx, span := o.tracer.Start(ctx, tracer.SpanCreateClaim, tracer.String(tracer.AttrTenant, tenant))
	defer func() { span.End(err) }()
	return o.claims.CreateClaim(ctx, tenant, req)
}

func (o *Orchestrator) record(tenant string, err error, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.ObserveSubmitLatency(o.timeNow().Sub(start).Seconds())
	if err != nil {
		o.metrics.IncrementSubmissionErrors(string(dErrors.CodeOf(err)))
		return
	}
	o.metrics.IncrementClaimsSubmitted(tenant)
}

// classify turns a resolution or creation failure into a domain error whose
// message is the user-facing one.
func classify(err error) error {
	code := dErrors.CodeSubmissionFailed
	if be, ok := backend.AsError(err); ok {
		switch be.Category {
		case backend.CategoryRejected:
			code = dErrors.CodeRejected
		case backend.CategoryConflict:
			code = dErrors.CodeConflict
		case backend.CategoryTimeout:
			code = dErrors.CodeTimeout
		}
	}
	return &dErrors.Error{Code: code, Message: UserMessage(err), Err: err}
}
