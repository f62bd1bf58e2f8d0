package form

import (
	"fmt"
	"strconv"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

// Step is one of the four form sections.
type Step int

const (
	StepIdentity Step = iota + 1
	StepConsumption
	StepDetail
	StepReview
)

const TotalSteps = int(StepReview)

const (
	MsgPreviousStepsIncomplete = "Por favor completa los pasos anteriores primero"
	MsgStepIncomplete          = "Revisa los campos incompletos o incorrectos"
)

var stepLabels = map[Step]string{
	StepIdentity:    "Identificación",
	StepConsumption: "Consumo",
	StepDetail:      "Detalle del reclamo",
	StepReview:      "Revisión",
}

func (s Step) Valid() bool {
	return s >= StepIdentity && s <= StepReview
}

func (s Step) Label() string {
	return stepLabels[s]
}

func (s Step) String() string {
	return strconv.Itoa(int(s))
}

// StepFields lists the fields owned by step for the current toggles.
func StepFields(step Step, d Draft) []Field {
	var fields []Field
	switch step {
	case StepIdentity:
		if d.PersonType == PersonLegal {
			fields = append(fields, legalFields...)
		} else {
			fields = append(fields, naturalFields...)
		}
		if d.Minor {
			fields = append(fields, guardianFields...)
		}
		fields = append(fields, contactFields...)
	case StepConsumption:
		fields = append(fields, FieldGoodType, FieldGoodDescription)
		if d.Receipt {
			fields = append(fields, receiptFields...)
		}
		if d.Money {
			fields = append(fields, moneyFields...)
		}
	case StepDetail:
		fields = append(fields, FieldClaimType, FieldClaimDescription, FieldRequest)
	case StepReview:
		fields = append(fields, FieldConfirm)
	}
	return fields
}

// StepValid reports whether every field of step satisfies its active rules.
func StepValid(step Step, d Draft, types []catalog.DocumentType) bool {
	return Valid(d, types, StepFields(step, d)...)
}

// Stepper is the step state machine. Steps are derived from the draft; the
// only stored state is the current step.
type Stepper struct {
	current Step
}

func NewStepper() *Stepper {
	return &Stepper{current: StepIdentity}
}

func (st *Stepper) Current() Step {
	return st.current
}

// CanEnter reports whether navigation to step is allowed: backward always,
// forward only when every earlier step is valid.
func (st *Stepper) CanEnter(step Step, d Draft, types []catalog.DocumentType) bool {
	if !step.Valid() {
		return false
	}
	if step <= st.current {
		return true
	}
	return allValidBefore(step, d, types)
}

func allValidBefore(step Step, d Draft, types []catalog.DocumentType) bool {
	for i := StepIdentity; i < step; i++ {
		if !StepValid(i, d, types) {
			return false
		}
	}
	return true
}

// GoTo moves to step. A refused move returns the draft with the current
// step's fields touched and a CodeStepBlocked error; the step is unchanged.
func (st *Stepper) GoTo(step Step, d Draft, types []catalog.DocumentType) (Draft, error) {
	if !step.Valid() {
		return d, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("step must be between 1 and %d", TotalSteps))
	}
	if !st.CanEnter(step, d, types) {
		return TouchFields(d, StepFields(st.current, d)...), dErrors.New(dErrors.CodeStepBlocked, MsgPreviousStepsIncomplete)
	}
	st.current = step
	return d, nil
}

// Next advances one step when the current step is valid.
func (st *Stepper) Next(d Draft, types []catalog.DocumentType) (Draft, error) {
	if st.current == StepReview {
		return d, nil
	}
	if !StepValid(st.current, d, types) {
		return TouchFields(d, StepFields(st.current, d)...), dErrors.New(dErrors.CodeStepBlocked, MsgStepIncomplete)
	}
	st.current++
	return d, nil
}

// Prev moves back one step. It never fails.
func (st *Stepper) Prev() {
	if st.current > StepIdentity {
		st.current--
	}
}

// Reset returns to the first step.
func (st *Stepper) Reset() {
	st.current = StepIdentity
}

// Progress is the completion percentage shown in the progress bar.
func (st *Stepper) Progress() int {
	return int(st.current) * 100 / TotalSteps
}
