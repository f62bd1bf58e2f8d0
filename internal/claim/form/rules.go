package form

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	s "github.com/martirspe/complaints-book-pro/pkg/string"
	"github.com/martirspe/complaints-book-pro/pkg/validation"
)

const (
	PhoneDigits            = 9
	MinDistrictLength      = 3
	MinAddressLength       = 25
	MinNarrativeLength     = 100
	CompanyDocumentLength  = 11
	MaxReceiptNumberLength = 20
)

var (
	namePattern          = regexp.MustCompile(`^[a-zA-ZÀ-ÿñÑ]+(\s*[a-zA-ZÀ-ÿñÑ ]*)*[a-zA-ZÀ-ÿñÑ]+$`)
	emailPattern         = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,4}$`)
	digitsPattern        = regexp.MustCompile(`^[0-9]+$`)
	receiptNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	amountPattern        = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

	minClaimAmount = decimal.RequireFromString("0.01")
)

// ErrorKey names a failed validator.
type ErrorKey string

const (
	KeyRequired     ErrorKey = "required"
	KeyMinLength    ErrorKey = "minlength"
	KeyMaxLength    ErrorKey = "maxlength"
	KeyPattern      ErrorKey = "pattern"
	KeyEmail        ErrorKey = "email"
	KeyInvalidPhone ErrorKey = "invalidPhone"
	KeyMin          ErrorKey = "min"
)

// Validator is one check on a field value. Every validator except required
// accepts the empty value.
type Validator struct {
	Key ErrorKey
	// Length is the bound of minlength and maxlength validators.
	Length int
	valid  func(value string) bool
}

func (v Validator) Valid(value string) bool {
	return v.valid(value)
}

func required() Validator {
	return Validator{Key: KeyRequired, valid: func(v string) bool { return strings.TrimSpace(v) != "" }}
}

func requiredTrue() Validator {
	return Validator{Key: KeyRequired, valid: func(v string) bool { return v == "true" }}
}

func minLength(n int) Validator {
	return Validator{Key: KeyMinLength, Length: n, valid: func(v string) bool {
		return v == "" || utf8.RuneCountInString(v) >= n
	}}
}

func maxLength(n int) Validator {
	return Validator{Key: KeyMaxLength, Length: n, valid: func(v string) bool {
		return utf8.RuneCountInString(v) <= n
	}}
}

func pattern(re *regexp.Regexp) Validator {
	return Validator{Key: KeyPattern, valid: func(v string) bool {
		return v == "" || re == nil || re.MatchString(v)
	}}
}

func email() Validator {
	return Validator{Key: KeyEmail, valid: func(v string) bool {
		return v == "" || validation.IsEmail(v)
	}}
}

func phone() Validator {
	return Validator{Key: KeyInvalidPhone, valid: func(v string) bool {
		return v == "" || len(s.DigitsOnly(v)) == PhoneDigits
	}}
}

// minAmount rejects amounts below 0.01. Unparseable values are left to the
// pattern validator.
func minAmount() Validator {
	return Validator{Key: KeyMin, valid: func(v string) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return true
		}
		return d.GreaterThanOrEqual(minClaimAmount)
	}}
}

// documentNumber derives the number validators from the selected type's rule.
func documentNumber(r catalog.Rule) []Validator {
	return []Validator{
		required(),
		minLength(r.Min),
		maxLength(r.Max),
		pattern(r.Pattern),
	}
}

// RuleSet maps each active field to its validators, in evaluation order.
type RuleSet map[Field][]Validator

// Active reports whether f carries any validator.
func (rs RuleSet) Active(f Field) bool {
	return len(rs[f]) > 0
}

// Check returns the first validator value fails for f.
func (rs RuleSet) Check(f Field, value string) (Validator, bool) {
	for _, v := range rs[f] {
		if !v.Valid(value) {
			return v, false
		}
	}
	return Validator{}, true
}

// ActiveRules is the rule set implied by the draft's toggles and selections.
// It is a pure function: the same draft always yields the same rules.
func ActiveRules(d Draft, types []catalog.DocumentType) RuleSet {
	rs := RuleSet{
		FieldDistrict:         {required(), minLength(MinDistrictLength)},
		FieldAddress:          {required(), minLength(MinAddressLength)},
		FieldEmail:            {required(), email(), pattern(emailPattern)},
		FieldPhone:            {required(), phone()},
		FieldGoodType:         {required()},
		FieldGoodDescription:  {required(), minLength(MinNarrativeLength)},
		FieldClaimType:        {required()},
		FieldClaimDescription: {required(), minLength(MinNarrativeLength)},
		FieldRequest:          {required(), minLength(MinNarrativeLength)},
		FieldConfirm:          {requiredTrue()},
	}

	if d.PersonType == PersonLegal {
		rs[FieldCompanyDocument] = []Validator{
			required(),
			minLength(CompanyDocumentLength),
			maxLength(CompanyDocumentLength),
			pattern(digitsPattern),
		}
		rs[FieldCompanyName] = []Validator{required(), pattern(namePattern)}
		rs[FieldLegalRepDocumentType] = []Validator{required()}
		rs[FieldLegalRepDocumentNumber] = documentNumber(d.DocumentRule(FieldLegalRepDocumentNumber, types))
		rs[FieldLegalRepFirstName] = []Validator{required(), pattern(namePattern)}
		rs[FieldLegalRepLastName] = []Validator{required(), pattern(namePattern)}
	} else {
		rs[FieldDocumentType] = []Validator{required()}
		rs[FieldDocumentNumber] = documentNumber(d.DocumentRule(FieldDocumentNumber, types))
		rs[FieldFirstName] = []Validator{required(), pattern(namePattern)}
		rs[FieldLastName] = []Validator{required(), pattern(namePattern)}
	}

	if d.Minor {
		rs[FieldTutorDocumentType] = []Validator{required()}
		rs[FieldTutorDocumentNumber] = documentNumber(d.DocumentRule(FieldTutorDocumentNumber, types))
		rs[FieldTutorFirstName] = []Validator{required(), pattern(namePattern)}
		rs[FieldTutorLastName] = []Validator{required(), pattern(namePattern)}
		// Guardian contact data is optional but must be well formed.
		rs[FieldTutorEmail] = []Validator{email(), pattern(emailPattern)}
		rs[FieldTutorPhone] = []Validator{phone()}
	}

	if d.Receipt {
		rs[FieldReceiptType] = []Validator{required()}
		rs[FieldReceiptNumber] = []Validator{
			required(),
			minLength(1),
			maxLength(MaxReceiptNumberLength),
			pattern(receiptNumberPattern),
		}
	}

	if d.Money {
		rs[FieldClaimAmount] = []Validator{required(), minAmount(), pattern(amountPattern)}
		rs[FieldCurrency] = []Validator{required()}
	}
	return rs
}

// Problem is the first failing validator of a field.
type Problem struct {
	Field  Field    `json:"field"`
	Key    ErrorKey `json:"key"`
	Length int      `json:"-"`
}

// Problems lists every failing field of d in display order.
func Problems(d Draft, types []catalog.DocumentType) []Problem {
	rs := ActiveRules(d, types)
	return problems(d, rs, Fields)
}

func problems(d Draft, rs RuleSet, fields []Field) []Problem {
	var out []Problem
	for _, f := range fields {
		if v, ok := rs.Check(f, d.Value(f)); !ok {
			out = append(out, Problem{Field: f, Key: v.Key, Length: v.Length})
		}
	}
	return out
}

// Valid reports whether every given field satisfies its active rules.
func Valid(d Draft, types []catalog.DocumentType, fields ...Field) bool {
	rs := ActiveRules(d, types)
	return len(problems(d, rs, fields)) == 0
}

// ValidDraft reports whether the whole draft satisfies its active rules.
func ValidDraft(d Draft, types []catalog.DocumentType) bool {
	return Valid(d, types, Fields...)
}
