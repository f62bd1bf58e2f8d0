package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
	"github.com/martirspe/complaints-book-pro/internal/claim/resolver"
	"github.com/martirspe/complaints-book-pro/internal/claim/submission"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	psync "github.com/martirspe/complaints-book-pro/pkg/platform/sync"
	"github.com/martirspe/complaints-book-pro/pkg/validation"
)

const (
	MsgSessionExpired       = "La sesión del formulario expiró. Por favor vuelve a empezar."
	MsgCatalogsFailed       = "No pudimos cargar los datos. Por favor recarga la página."
	MsgSubmitInProgress     = "Tu reclamo ya se está enviando"
	MsgUnknownLocation      = "Selecciona una ubicación de la lista"
	MsgInvalidTenant        = "tenant must be a lowercase slug"
	MsgLocationSearchFailed = "No pudimos buscar ubicaciones"
)

// Backend is the part of the backend client sessions use directly.
type Backend interface {
	Catalogs(ctx context.Context) (catalog.Catalogs, error)
	SearchLocations(ctx context.Context, term string) ([]ranking.Location, error)
}

// Lookups yields the lookup function behind a document-number watcher.
type Lookups interface {
	Lookup(tenant string, kind backend.PersonKind) resolver.LookupFunc
}

// Submitter is satisfied by *submission.Orchestrator.
type Submitter interface {
	Submit(ctx context.Context, tenant string, snap submission.Snapshot, types []catalog.DocumentType) (submission.Outcome, error)
	Track(ctx context.Context, tenant, code string) (backend.Tracking, error)
}

// Metrics is implemented by *metrics.Metrics.
type Metrics interface {
	IncrementActiveSessions()
	DecrementActiveSessions()
	IncrementSessionsCreated(tenant string)
	IncrementStepsBlocked(step string)
	IncrementSearchQueries(kind string)
}

// Direction moves the stepper relative to the current step.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Navigation is either an absolute step or a direction.
type Navigation struct {
	Step      int       `json:"step" validate:"omitempty,min=1,max=4"`
	Direction Direction `json:"direction" validate:"omitempty,oneof=next prev"`
}

// SubmitResult is the answer to a successful submission.
type SubmitResult struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	IdempotencyKey string `json:"idempotencyKey"`
	State          State  `json:"state"`
}

// Service owns every open session.
type Service struct {
	backend   Backend
	lookups   Lookups
	submitter Submitter
	sessions  *cache.Cache
	locks     *psync.ShardedMutex
	metrics   Metrics
	logger    *slog.Logger
	debounce  time.Duration
	timing    Timing
	ttl       time.Duration
	newID     func() string
	now       func() time.Time
}

type Option func(*Service)

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDebounce sets the document-number lookup debounce.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		s.debounce = d
	}
}

// WithSearchDebounce sets the debounce windows advertised to the browser for
// location and calling-code searches.
func WithSearchDebounce(location, callingCode time.Duration) Option {
	return func(s *Service) {
		s.timing = Timing{
			LocationDebounceMs:    location.Milliseconds(),
			CallingCodeDebounceMs: callingCode.Milliseconds(),
		}
	}
}

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithIDGenerator replaces the session id generator (for testing).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(b Backend, lookups Lookups, submitter Submitter, opts ...Option) *Service {
	s := &Service{
		backend:   b,
		lookups:   lookups,
		submitter: submitter,
		locks:     psync.NewShardedMutex(psync.DefaultShards),
		logger:    slog.Default(),
		debounce:  resolver.DefaultDebounce,
		timing:    Timing{LocationDebounceMs: 400, CallingCodeDebounceMs: 200},
		ttl:       30 * time.Minute,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = cache.New(s.ttl, s.ttl/2)
	s.sessions.OnEvicted(func(_ string, v any) {
		if sess, ok := v.(*Session); ok {
			sess.close()
		}
		if s.metrics != nil {
			s.metrics.DecrementActiveSessions()
		}
	})
	return s
}

// Create opens a session for tenant with freshly loaded catalogs.
func (s *Service) Create(ctx context.Context, tenant string) (State, error) {
	tenant = strings.TrimSpace(tenant)
	if !validation.IsTenantSlug(tenant) {
		return State{}, dErrors.New(dErrors.CodeBadRequest, MsgInvalidTenant)
	}

	cats, err := s.backend.Catalogs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load catalogs", "tenant", tenant, "error", err)
		return State{}, dErrors.Wrap(err, dErrors.CodeUnavailable, MsgCatalogsFailed)
	}

	// Lookups outlive the request that created the session.
	lookupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &Session{
		ID:        s.newID(),
		Tenant:    tenant,
		Catalogs:  cats,
		CreatedAt: s.now(),
		draft:     form.New(cats),
		stepper:   form.NewStepper(),
		timing:    s.timing,
		cancel:    cancel,
	}
	sess.watchers = map[form.Target]*resolver.Watcher{
		form.TargetSubject:  s.newWatcher(lookupCtx, sess, form.TargetSubject, backend.KindCustomer),
		form.TargetGuardian: s.newWatcher(lookupCtx, sess, form.TargetGuardian, backend.KindTutor),
	}

	s.sessions.SetDefault(sess.ID, sess)
	if s.metrics != nil {
		s.metrics.IncrementActiveSessions()
		s.metrics.IncrementSessionsCreated(tenant)
	}
	s.logger.InfoContext(ctx, "form session created", "session_id", sess.ID, "tenant", tenant)

	return psync.WithResult(s.locks, sess.ID, func() (State, error) {
		return sess.state(), nil
	})
}

func (s *Service) newWatcher(ctx context.Context, sess *Session, target form.Target, kind backend.PersonKind) *resolver.Watcher {
	found, failed := MsgSubjectFound, MsgSubjectLookupFailed
	if target == form.TargetGuardian {
		found, failed = MsgGuardianFound, MsgGuardianLookupFailed
	}

	var w *resolver.Watcher
	w = resolver.NewWatcher(ctx, s.lookups.Lookup(sess.Tenant, kind),
		resolver.WithDebounce(s.debounce),
		resolver.OnFound(func(res resolver.Result) {
			s.locks.With(sess.ID, func() {
				if sess.draft.Value(sess.draft.NumberField(target)) != res.Number || !w.Commit(res) {
					return
				}
				sess.draft = form.AutoFill(sess.draft, target, res.Person)
				sess.notify(NoticeSuccess, found)
			})
		}),
		resolver.OnError(func(gen uint64, err error) {
			s.locks.With(sess.ID, func() {
				if !w.Current(gen) {
					return
				}
				sess.notify(NoticeWarning, failed)
			})
			s.logger.Warn("document lookup failed",
				"session_id", sess.ID,
				"target", target,
				"category", backend.CategoryOf(err),
			)
		}),
	)
	return w
}

// withSession runs fn on the live session id under its lock and refreshes
// the session's expiry.
func (s *Service) withSession(id string, fn func(*Session) error) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	v, ok := s.sessions.Get(id)
	if !ok {
		return dErrors.New(dErrors.CodeSessionExpired, MsgSessionExpired)
	}
	sess := v.(*Session)
	if err := fn(sess); err != nil {
		return err
	}
	s.sessions.SetDefault(id, sess)
	return nil
}

// State returns the session view.
func (s *Service) State(_ context.Context, id string) (State, error) {
	var st State
	err := s.withSession(id, func(sess *Session) error {
		st = sess.state()
		return nil
	})
	return st, err
}

// Apply feeds one user event to the draft.
func (s *Service) Apply(_ context.Context, id string, e form.Event) (State, error) {
	var st State
	err := s.withSession(id, func(sess *Session) error {
		next, effects, err := form.Reduce(sess.draft, e, sess.Catalogs)
		if err != nil {
			return err
		}
		sess.draft = next
		sess.apply(effects)
		if e.Kind == form.EventSet && (e.Field == form.FieldDistrict || e.Field == form.FieldProvince) {
			sess.location = nil
		}
		st = sess.state()
		return nil
	})
	return st, err
}

// Navigate moves the stepper. A refused forward move touches the current
// step's fields and reports CodeStepBlocked with the session state left as is.
func (s *Service) Navigate(ctx context.Context, id string, nav Navigation) (State, error) {
	if err := validation.Validate(nav); err != nil {
		return State{}, err
	}
	if nav.Step == 0 && nav.Direction == "" {
		return State{}, dErrors.New(dErrors.CodeBadRequest, "step or direction is required")
	}

	var st State
	err := s.withSession(id, func(sess *Session) error {
		from := sess.stepper.Current()
		var (
			next form.Draft
			err  error
		)
		switch {
		case nav.Direction == DirectionPrev:
			sess.stepper.Prev()
			next = sess.draft
		case nav.Direction == DirectionNext:
			next, err = sess.stepper.Next(sess.draft, sess.types())
		default:
			next, err = sess.stepper.GoTo(form.Step(nav.Step), sess.draft, sess.types())
		}
		sess.draft = next
		if from != sess.stepper.Current() {
			sess.invalidateLookups()
		}
		if err != nil {
			if !dErrors.HasCode(err, dErrors.CodeStepBlocked) {
				return err
			}
			if s.metrics != nil {
				s.metrics.IncrementStepsBlocked(from.String())
			}
			sess.notify(NoticeWarning, err.Error())
			st = sess.state()
			return err
		}
		st = sess.state()
		return nil
	})
	if dErrors.HasCode(err, dErrors.CodeStepBlocked) {
		s.logger.DebugContext(ctx, "navigation blocked", "session_id", id, "step", nav.Step, "direction", nav.Direction)
		return st, err
	}
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// AddAttachments adds files to the draft. Rejected files produce warnings;
// a full draft is an error.
func (s *Service) AddAttachments(_ context.Context, id string, files []form.Attachment) (State, error) {
	var st State
	err := s.withSession(id, func(sess *Session) error {
		next, warnings, err := form.AddAttachments(sess.draft, files)
		for _, w := range warnings {
			sess.notify(NoticeWarning, w)
		}
		if err != nil {
			st = sess.state()
			return err
		}
		sess.draft = next
		st = sess.state()
		return nil
	})
	return st, err
}

func (s *Service) RemoveAttachment(_ context.Context, id string, index int) (State, error) {
	var st State
	err := s.withSession(id, func(sess *Session) error {
		next, err := form.RemoveAttachment(sess.draft, index)
		if err != nil {
			return err
		}
		sess.draft = next
		st = sess.state()
		return nil
	})
	return st, err
}

// SearchLocations ranks backend locations matching term. Terms shorter than
// ranking.MinTermLength return nothing without calling the backend. When a
// newer search starts before this one answers, the older results are returned
// to their caller but never replace the selectable list.
func (s *Service) SearchLocations(ctx context.Context, id string, term string) ([]ranking.Location, error) {
	var gen uint64
	err := s.withSession(id, func(sess *Session) error {
		sess.searchGen++
		gen = sess.searchGen
		if !ranking.SearchableTerm(term) {
			sess.locations = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ranking.SearchableTerm(term) {
		return []ranking.Location{}, nil
	}
	if s.metrics != nil {
		s.metrics.IncrementSearchQueries("location")
	}

	results, err := s.backend.SearchLocations(ctx, strings.TrimSpace(term))
	if err != nil {
		s.logger.WarnContext(ctx, "location search failed", "session_id", id, "category", backend.CategoryOf(err))
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, MsgLocationSearchFailed)
	}
	ranked := ranking.RankLocations(results, term)

	err = s.withSession(id, func(sess *Session) error {
		if sess.searchGen != gen {
			s.logger.DebugContext(ctx, "stale location results dropped", "session_id", id)
			return nil
		}
		sess.locations = ranked
		return nil
	})
	return ranked, err
}

// SelectLocation picks one of the last search results, filling district and
// province from it.
func (s *Service) SelectLocation(_ context.Context, id string, locationID int) (State, error) {
	var st State
	err := s.withSession(id, func(sess *Session) error {
		var picked *ranking.Location
		for i := range sess.locations {
			if sess.locations[i].ID == locationID {
				loc := sess.locations[i]
				picked = &loc
				break
			}
		}
		if picked == nil {
			return dErrors.New(dErrors.CodeNotFound, MsgUnknownLocation)
		}
		for _, e := range []form.Event{
			form.Set(form.FieldDistrict, picked.District),
			form.Set(form.FieldProvince, picked.Province),
		} {
			next, _, err := form.Reduce(sess.draft, e, sess.Catalogs)
			if err != nil {
				return err
			}
			sess.draft = next
		}
		sess.location = picked
		st = sess.state()
		return nil
	})
	return st, err
}

// CallingCodes ranks the static calling-code set; an empty term returns all.
func (s *Service) CallingCodes(term string) []ranking.CallingCode {
	if s.metrics != nil && strings.TrimSpace(term) != "" {
		s.metrics.IncrementSearchQueries("calling_code")
	}
	return ranking.RankCallingCodes(ranking.CallingCodes(), term)
}

// Submit sends the draft. Only one submission per session runs at a time;
// the session lock is not held while the backend is called. On success the
// session is reset to a pristine draft on step 1.
func (s *Service) Submit(ctx context.Context, id string, recaptcha string) (SubmitResult, error) {
	var (
		snap   submission.Snapshot
		tenant string
		types  []catalog.DocumentType
	)
	err := s.withSession(id, func(sess *Session) error {
		if sess.submitting {
			return dErrors.New(dErrors.CodeConflict, MsgSubmitInProgress)
		}
		sess.submitting = true
		d := sess.draft.Clone()
		d.Recaptcha = strings.TrimSpace(recaptcha)
		snap = submission.Snapshot{Draft: d, Location: sess.location}
		tenant = sess.Tenant
		types = sess.types()
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	out, subErr := s.submitter.Submit(ctx, tenant, snap, types)

	var res SubmitResult
	err = s.withSession(id, func(sess *Session) error {
		sess.submitting = false
		switch {
		case subErr == nil:
			sess.reset()
			sess.notify(NoticeSuccess, out.Message)
			res = SubmitResult{
				Code:           out.Receipt.Code,
				Message:        out.Message,
				IdempotencyKey: out.IdempotencyKey,
				State:          sess.state(),
			}
		case dErrors.HasCode(subErr, dErrors.CodeValidation):
			sess.draft = form.TouchAll(sess.draft)
			sess.notify(NoticeWarning, subErr.Error())
		default:
			sess.notify(NoticeError, subErr.Error())
		}
		return nil
	})
	if subErr != nil {
		s.logger.InfoContext(ctx, "submission refused",
			"session_id", id,
			"tenant", tenant,
			"code", dErrors.CodeOf(subErr),
		)
		return SubmitResult{}, subErr
	}
	if err != nil {
		// The claim was created but the session expired meanwhile.
		return SubmitResult{Code: out.Receipt.Code, Message: out.Message, IdempotencyKey: out.IdempotencyKey}, nil
	}
	return res, nil
}

// Track looks a claim up by its public code.
func (s *Service) Track(ctx context.Context, tenant, code string) (backend.Tracking, error) {
	if !validation.IsTenantSlug(tenant) {
		return backend.Tracking{}, dErrors.New(dErrors.CodeBadRequest, MsgInvalidTenant)
	}
	return s.submitter.Track(ctx, tenant, code)
}

// Close ends a session and stops its lookups.
func (s *Service) Close(_ context.Context, id string) error {
	if _, ok := s.sessions.Get(id); !ok {
		return dErrors.New(dErrors.CodeSessionExpired, MsgSessionExpired)
	}
	s.sessions.Delete(id)
	return nil
}

// Count is the number of live sessions.
func (s *Service) Count() int {
	return s.sessions.ItemCount()
}

// Stop ends every live session, cancelling pending lookups. Called on shutdown.
func (s *Service) Stop() {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}
