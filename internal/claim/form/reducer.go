package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	s "github.com/martirspe/complaints-book-pro/pkg/string"
)

// EventKind is what the user did to a field.
type EventKind string

const (
	EventSet   EventKind = "set"
	EventTouch EventKind = "touch"
)

// Event is one user interaction with the draft.
type Event struct {
	Kind  EventKind `json:"kind" validate:"required,oneof=set touch"`
	Field Field     `json:"field" validate:"required"`
	Value string    `json:"value"`
}

func Set(f Field, value string) Event {
	return Event{Kind: EventSet, Field: f, Value: value}
}

func Touch(f Field) Event {
	return Event{Kind: EventTouch, Field: f}
}

// EffectKind is a side effect the owner of the draft must perform.
type EffectKind string

const (
	// EffectCancelLookup invalidates any pending lookup of the target.
	EffectCancelLookup EffectKind = "cancel_lookup"
	// EffectResetMemo forgets the last loaded number of the target.
	EffectResetMemo EffectKind = "reset_memo"
	// EffectObserve feeds a new document number to the target's watcher.
	EffectObserve EffectKind = "observe"
)

type Effect struct {
	Kind   EffectKind
	Target Target
	Value  string
}

func resetLookup(t Target) []Effect {
	return []Effect{
		{Kind: EffectCancelLookup, Target: t},
		{Kind: EffectResetMemo, Target: t},
	}
}

// Reduce applies e to d and returns the new draft with the effects the
// change implies. d is not modified.
func Reduce(d Draft, e Event, cats catalog.Catalogs) (Draft, []Effect, error) {
	f, ok := ParseField(string(e.Field))
	if !ok {
		return d, nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown field %q", e.Field))
	}

	switch e.Kind {
	case EventTouch:
		return TouchFields(d, f), nil, nil
	case EventSet:
		next := d.Clone()
		effects, err := next.set(f, e.Value, cats)
		if err != nil {
			return d, nil, err
		}
		return next, effects, nil
	default:
		return d, nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown event kind %q", e.Kind))
	}
}

func (d *Draft) set(f Field, value string, cats catalog.Catalogs) ([]Effect, error) {
	switch {
	case f == FieldPersonType:
		return d.setPersonType(PersonType(strings.TrimSpace(value)))
	case isToggle(f):
		b, err := parseToggle(value)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must be true or false", f))
		}
		return d.setToggle(f, b, cats), nil
	case f == FieldRecaptcha:
		d.Recaptcha = strings.TrimSpace(value)
		return nil, nil
	}

	if number, ok := numberFieldFor[f]; ok {
		return d.setDocumentType(f, number, strings.TrimSpace(value)), nil
	}
	if _, ok := typeFieldFor[f]; ok {
		v := d.DocumentRule(f, cats.DocumentTypes).Sanitize(value)
		d.setValue(f, v)
		if t, active := d.targetOf(f); active {
			return []Effect{{Kind: EffectObserve, Target: t, Value: v}}, nil
		}
		return nil, nil
	}

	switch f {
	case FieldCompanyDocument:
		v := s.DigitsOnly(value)
		if len(v) > CompanyDocumentLength {
			v = v[:CompanyDocumentLength]
		}
		d.setValue(f, v)
	case FieldPhone, FieldTutorPhone:
		d.setValue(f, s.GroupPhone(value))
	default:
		d.setValue(f, value)
	}
	return nil, nil
}

func (d *Draft) setValue(f Field, v string) {
	if v == "" {
		delete(d.Values, f)
	} else {
		d.Values[f] = v
	}
	delete(d.AutoFilled, f)
}

// setPersonType swaps the active identity set and clears the one being left.
func (d *Draft) setPersonType(pt PersonType) ([]Effect, error) {
	if !pt.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown person type %q", pt))
	}
	if pt == d.PersonType {
		return nil, nil
	}
	if d.PersonType == PersonLegal {
		d.clear(legalFields...)
	} else {
		d.clear(naturalFields...)
	}
	d.clearAutoFilled(FieldEmail, FieldPhone, FieldAddress)
	d.PersonType = pt
	return resetLookup(TargetSubject), nil
}

func (d *Draft) setToggle(f Field, on bool, cats catalog.Catalogs) []Effect {
	switch f {
	case FieldMinor:
		if d.Minor == on {
			return nil
		}
		d.Minor = on
		if !on {
			d.clear(guardianFields...)
			return resetLookup(TargetGuardian)
		}
	case FieldReceipt:
		d.Receipt = on
		if !on {
			d.clear(receiptFields...)
		}
	case FieldMoney:
		d.Money = on
		if !on {
			d.clear(moneyFields...)
		} else if d.Values[FieldCurrency] == "" {
			if cur := cats.DefaultCurrency(); cur != "" {
				d.Values[FieldCurrency] = cur
			}
		}
	case FieldConfirm:
		d.Confirm = on
	}
	return nil
}

// setDocumentType stores a new document type and invalidates everything
// derived from the previous one: the number, the names loaded for it, and
// contact fields that were auto-filled rather than typed.
func (d *Draft) setDocumentType(typeField, number Field, value string) []Effect {
	if d.Values[typeField] == value {
		return nil
	}
	d.setValue(typeField, value)
	d.clear(number)

	switch typeField {
	case FieldDocumentType:
		d.clear(FieldFirstName, FieldLastName)
		d.clearAutoFilled(FieldEmail, FieldPhone, FieldAddress)
	case FieldLegalRepDocumentType:
		d.clear(FieldLegalRepFirstName, FieldLegalRepLastName)
		d.clearAutoFilled(FieldEmail, FieldPhone, FieldAddress)
	case FieldTutorDocumentType:
		d.clear(FieldTutorFirstName, FieldTutorLastName)
		d.clearAutoFilled(FieldTutorEmail, FieldTutorPhone)
	}

	if t, active := d.targetOf(number); active {
		return resetLookup(t)
	}
	return nil
}

// targetOf reports which watcher observes the number field, and whether that
// field is currently active.
func (d Draft) targetOf(number Field) (Target, bool) {
	if number == FieldTutorDocumentNumber {
		return TargetGuardian, d.Minor
	}
	return TargetSubject, number == d.SubjectNumberField()
}

func parseToggle(v string) (bool, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "":
		return false, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}

// AutoFill writes a resolved person into the draft. It bypasses Reduce, so
// no effects are produced and the watcher is not re-triggered. Empty record
// fields leave the draft untouched.
func AutoFill(d Draft, t Target, p backend.Person) Draft {
	d = d.Clone()
	fill := func(f Field, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		d.Values[f] = v
		d.AutoFilled[f] = true
	}

	if t == TargetGuardian {
		fill(FieldTutorFirstName, p.FirstName)
		fill(FieldTutorLastName, p.LastName)
		fill(FieldTutorEmail, p.Email)
		fill(FieldTutorPhone, localPhone(p.Phone))
		return d
	}

	if d.PersonType == PersonLegal {
		fill(FieldLegalRepFirstName, p.FirstName)
		fill(FieldLegalRepLastName, p.LastName)
	} else {
		fill(FieldFirstName, p.FirstName)
		fill(FieldLastName, p.LastName)
	}
	fill(FieldEmail, p.Email)
	fill(FieldPhone, localPhone(p.Phone))
	fill(FieldAddress, p.Address)
	return d
}

// localPhone keeps the last nine digits, dropping a stored country prefix.
func localPhone(phone string) string {
	d := s.DigitsOnly(phone)
	if len(d) > PhoneDigits {
		d = d[len(d)-PhoneDigits:]
	}
	return s.GroupPhone(d)
}
