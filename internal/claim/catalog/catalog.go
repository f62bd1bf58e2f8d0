// Package catalog holds the document-number rules keyed by document type and
// the read-only catalog entries a claim form is built from.
package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	s "github.com/martirspe/complaints-book-pro/pkg/string"
)

var (
	digits       = regexp.MustCompile(`^[0-9]+$`)
	alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Rule constrains a document number. Lengths count characters.
type Rule struct {
	Min     int
	Max     int
	Pattern *regexp.Regexp
	Hint    string
}

// Violation names the first constraint a value fails. The names match the
// error keys the form reports to the browser.
type Violation string

const (
	NoViolation        Violation = ""
	ViolationMinLength Violation = "minlength"
	ViolationMaxLength Violation = "maxlength"
	ViolationPattern   Violation = "pattern"
)

// Generic applies to document types without a dedicated rule.
var Generic = Rule{Min: 6, Max: 20, Pattern: alphanumeric, Hint: "Número de documento"}

// Unselected applies while no document type (or an unknown id) is selected.
var Unselected = Rule{Min: 6, Max: 20, Pattern: alphanumeric, Hint: "Selecciona primero un tipo de documento"}

var rules = map[string]Rule{
	"DNI":                   {Min: 8, Max: 8, Pattern: digits, Hint: "DNI: exactamente 8 dígitos"},
	"CARNET DE EXTRANJERIA": {Min: 9, Max: 12, Pattern: digits, Hint: "Carnet de Extranjería: 9 a 12 dígitos"},
	"PASAPORTE":             {Min: 6, Max: 12, Pattern: alphanumeric, Hint: "Pasaporte: 6 a 12 caracteres (letras y números)"},
	"RUC":                   {Min: 11, Max: 11, Pattern: digits, Hint: "RUC: exactamente 11 dígitos"},
	"BREVETE":               {Min: 8, Max: 8, Pattern: digits, Hint: "Brevete: exactamente 8 dígitos"},
}

// RuleFor returns the rule for a document type name. Matching is exact on the
// trimmed, upper-cased name; anything else gets Generic.
func RuleFor(name string) Rule {
	if r, ok := rules[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return r
	}
	return Generic
}

// Names lists the document type names with a dedicated rule, sorted.
func Names() []string {
	return []string{"BREVETE", "CARNET DE EXTRANJERIA", "DNI", "PASAPORTE", "RUC"}
}

// Check reports the first violated constraint. Empty values pass: whether a
// number is required is decided by the form, not by the rule.
func (r Rule) Check(value string) Violation {
	if value == "" {
		return NoViolation
	}
	n := utf8.RuneCountInString(value)
	switch {
	case n < r.Min:
		return ViolationMinLength
	case n > r.Max:
		return ViolationMaxLength
	case r.Pattern != nil && !r.Pattern.MatchString(value):
		return ViolationPattern
	}
	return NoViolation
}

// Numeric reports whether the rule only admits digits.
func (r Rule) Numeric() bool {
	return r.Pattern == digits
}

// Sanitize strips characters the rule can never accept and truncates to Max.
func (r Rule) Sanitize(value string) string {
	value = strings.TrimSpace(value)
	if r.Numeric() {
		value = s.DigitsOnly(value)
	} else {
		value = s.AlphanumericOnly(value)
	}
	if r.Max > 0 && len(value) > r.Max {
		value = value[:r.Max]
	}
	return value
}

// Lookupable reports whether a number may be sent to the person lookup:
// it must satisfy the rule and, whatever the rule says, be made of digits
// only. Passport numbers with letters therefore never trigger a lookup.
func (r Rule) Lookupable(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return r.Check(value) == NoViolation && digits.MatchString(value)
}

// DocumentType is a backend-defined identity document category.
type DocumentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Resolve maps a selected document type id (as carried by the form) to its rule.
func Resolve(types []DocumentType, selected string) Rule {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return Unselected
	}
	id, err := strconv.Atoi(selected)
	if err != nil {
		return Unselected
	}
	for _, t := range types {
		if t.ID == id {
			return RuleFor(t.Name)
		}
	}
	return Unselected
}
