package handler

import (
	"strings"

	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/session"
	s "github.com/martirspe/complaints-book-pro/pkg/string"
	"github.com/martirspe/complaints-book-pro/pkg/validation"
)

// EventRequest is one field interaction sent by the browser.
type EventRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=set touch"`
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

func (r *EventRequest) Normalize() {
	s.TrimStrings(&r.Kind, &r.Field)
	if r.Kind == "" {
		r.Kind = string(form.EventSet)
	}
}

func (r *EventRequest) Validate() error {
	return validation.Validate(r)
}

func (r *EventRequest) Event() form.Event {
	return form.Event{Kind: form.EventKind(r.Kind), Field: form.Field(r.Field), Value: r.Value}
}

// NavigateRequest moves to an absolute step or in a direction.
type NavigateRequest struct {
	Step      int    `json:"step"`
	Direction string `json:"direction"`
}

func (r *NavigateRequest) Normalize() {
	r.Direction = strings.ToLower(strings.TrimSpace(r.Direction))
}

func (r *NavigateRequest) Navigation() session.Navigation {
	return session.Navigation{Step: r.Step, Direction: session.Direction(r.Direction)}
}

// SubmitRequest carries the human-verification token from the widget.
type SubmitRequest struct {
	Recaptcha string `json:"recaptcha"`
}

func (r *SubmitRequest) Normalize() {
	s.TrimStrings(&r.Recaptcha)
}

// SelectLocationRequest picks one of the last location search results.
type SelectLocationRequest struct {
	LocationID int `json:"locationId" validate:"required,min=1"`
}

func (r *SelectLocationRequest) Validate() error {
	return validation.Validate(r)
}
