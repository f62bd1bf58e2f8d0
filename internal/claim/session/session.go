// Package session hosts claim-form sessions. A session is the single owner
// of one claim draft: every event, navigation, lookup result and submission
// is applied under the session's lock.
package session

import (
	"context"
	"time"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
	"github.com/martirspe/complaints-book-pro/internal/claim/resolver"
)

// Lookup warnings, shown when a document lookup fails for a reason other
// than not-found. The field stays editable.
const (
	MsgSubjectLookupFailed  = "No pudimos cargar los datos del cliente"
	MsgGuardianLookupFailed = "No pudimos cargar los datos del tutor"
	MsgSubjectFound         = "Cliente encontrado. Datos cargados automáticamente"
	MsgGuardianFound        = "Tutor encontrado. Datos cargados automáticamente"
)

// Session is one open claim form. All fields are guarded by the service's
// lock for ID.
type Session struct {
	ID        string
	Tenant    string
	Catalogs  catalog.Catalogs
	CreatedAt time.Time

	draft    form.Draft
	stepper  *form.Stepper
	watchers map[form.Target]*resolver.Watcher
	// location is the place picked from the last location search.
	location  *ranking.Location
	locations []ranking.Location
	// searchGen identifies the newest location search; older answers are dropped.
	searchGen uint64
	notices   []Notice
	timing    Timing

	submitting bool
	cancel     context.CancelFunc
}

// NoticeLevel mirrors the toast levels of the browser client.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message queued for the browser; notices are delivered once,
// with the next state read.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func (s *Session) notify(level NoticeLevel, msg string) {
	s.notices = append(s.notices, Notice{Level: level, Message: msg})
}

func (s *Session) types() []catalog.DocumentType {
	return s.Catalogs.DocumentTypes
}

// invalidateLookups drops pending lookups of every watcher.
func (s *Session) invalidateLookups() {
	for _, w := range s.watchers {
		w.Invalidate()
	}
}

// apply runs the effects the reducer asked for.
func (s *Session) apply(effects []form.Effect) {
	for _, e := range effects {
		w, ok := s.watchers[e.Target]
		if !ok {
			continue
		}
		switch e.Kind {
		case form.EffectCancelLookup:
			w.Invalidate()
		case form.EffectResetMemo:
			w.ResetMemo()
		case form.EffectObserve:
			w.Observe(e.Value, s.draft.DocumentRule(s.draft.NumberField(e.Target), s.types()))
		}
	}
}

// reset returns the session to a pristine draft on step 1.
func (s *Session) reset() {
	s.invalidateLookups()
	for _, w := range s.watchers {
		w.ResetMemo()
	}
	s.draft = form.New(s.Catalogs)
	s.stepper.Reset()
	s.location = nil
	s.locations = nil
	s.searchGen++
}

func (s *Session) close() {
	s.invalidateLookups()
	if s.cancel != nil {
		s.cancel()
	}
}

// Timing tells the browser how long to wait after a keystroke before it
// queries the search endpoints.
type Timing struct {
	LocationDebounceMs    int64 `json:"locationDebounceMs"`
	CallingCodeDebounceMs int64 `json:"callingCodeDebounceMs"`
}

// StepView describes one step of the wizard.
type StepView struct {
	Step      int    `json:"step"`
	Label     string `json:"label"`
	Valid     bool   `json:"valid"`
	Enterable bool   `json:"enterable"`
}

// DraftView is the browser-facing projection of a draft.
type DraftView struct {
	PersonType  form.PersonType       `json:"personType"`
	Minor       bool                  `json:"minor"`
	Receipt     bool                  `json:"receipt"`
	Money       bool                  `json:"money"`
	Confirm     bool                  `json:"confirm"`
	Values      map[form.Field]string `json:"values"`
	AutoFilled  map[form.Field]bool   `json:"autoFilled"`
	Attachments []form.Attachment     `json:"attachments"`
}

// State is everything the browser renders for a session.
type State struct {
	ID             string                `json:"id"`
	Tenant         string                `json:"tenant"`
	Step           int                   `json:"step"`
	StepLabel      string                `json:"stepLabel"`
	Progress       int                   `json:"progress"`
	Steps          []StepView            `json:"steps"`
	Draft          DraftView             `json:"draft"`
	Errors         map[form.Field]string `json:"errors"`
	Hints          map[form.Field]string `json:"hints"`
	Location       *ranking.Location     `json:"location,omitempty"`
	CurrencySymbol string                `json:"currencySymbol"`
	Submitting     bool                  `json:"submitting"`
	Notices        []Notice              `json:"notices,omitempty"`
	Catalogs       catalog.Catalogs      `json:"catalogs"`
	Timing         Timing                `json:"timing"`
}

// state builds the view and drains pending notices.
func (s *Session) state() State {
	d := s.draft
	types := s.types()

	steps := make([]StepView, 0, form.TotalSteps)
	for st := form.StepIdentity; st <= form.StepReview; st++ {
		steps = append(steps, StepView{
			Step:      int(st),
			Label:     st.Label(),
			Valid:     form.StepValid(st, d, types),
			Enterable: s.stepper.CanEnter(st, d, types),
		})
	}

	hints := map[form.Field]string{}
	for _, f := range []form.Field{form.FieldDocumentNumber, form.FieldTutorDocumentNumber, form.FieldLegalRepDocumentNumber} {
		hints[f] = d.DocumentRule(f, types).Hint
	}

	values := make(map[form.Field]string, len(d.Values))
	for k, v := range d.Values {
		values[k] = v
	}
	autoFilled := make(map[form.Field]bool, len(d.AutoFilled))
	for k, v := range d.AutoFilled {
		autoFilled[k] = v
	}

	notices := s.notices
	s.notices = nil

	return State{
		ID:        s.ID,
		Tenant:    s.Tenant,
		Step:      int(s.stepper.Current()),
		StepLabel: s.stepper.Current().Label(),
		Progress:  s.stepper.Progress(),
		Steps:     steps,
		Draft: DraftView{
			PersonType:  d.PersonType,
			Minor:       d.Minor,
			Receipt:     d.Receipt,
			Money:       d.Money,
			Confirm:     d.Confirm,
			Values:      values,
			AutoFilled:  autoFilled,
			Attachments: append([]form.Attachment(nil), d.Attachments...),
		},
		Errors:         form.Errors(d, types),
		Hints:          hints,
		Location:       s.location,
		CurrencySymbol: s.Catalogs.CurrencySymbol(d.Value(form.FieldCurrency)),
		Submitting:     s.submitting,
		Notices:        notices,
		Catalogs:       s.Catalogs,
		Timing:         s.timing,
	}
}
