package form

import (
	"strconv"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
)

// Draft is the in-progress claim. It stores values and touched flags only;
// which rules apply is derived by ActiveRules. A Draft is treated as a value:
// Reduce and the other helpers return modified copies.
type Draft struct {
	PersonType PersonType `json:"person_type"`
	Minor      bool       `json:"minor"`
	Receipt    bool       `json:"receipt"`
	Money      bool       `json:"money"`
	Confirm    bool       `json:"confirm"`

	Values  map[Field]string `json:"values"`
	Touched map[Field]bool   `json:"touched"`
	// AutoFilled marks values written by a person lookup rather than typed.
	AutoFilled map[Field]bool `json:"auto_filled"`

	Attachments []Attachment `json:"attachments"`
	Recaptcha   string       `json:"-"`
}

// New returns a pristine draft with the catalog defaults selected.
func New(cats catalog.Catalogs) Draft {
	d := Draft{
		PersonType: PersonNatural,
		Values:     map[Field]string{},
		Touched:    map[Field]bool{},
		AutoFilled: map[Field]bool{},
	}
	if v := cats.DefaultConsumptionType(); v != "" {
		d.Values[FieldGoodType] = v
	}
	if v := cats.DefaultClaimType(); v != "" {
		d.Values[FieldClaimType] = v
	}
	return d
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	c := d
	c.Values = make(map[Field]string, len(d.Values))
	for k, v := range d.Values {
		c.Values[k] = v
	}
	c.Touched = make(map[Field]bool, len(d.Touched))
	for k, v := range d.Touched {
		c.Touched[k] = v
	}
	c.AutoFilled = make(map[Field]bool, len(d.AutoFilled))
	for k, v := range d.AutoFilled {
		c.AutoFilled[k] = v
	}
	c.Attachments = append([]Attachment(nil), d.Attachments...)
	return c
}

// Value returns the string form of any field, toggles included.
func (d Draft) Value(f Field) string {
	switch f {
	case FieldPersonType:
		return string(d.PersonType)
	case FieldMinor:
		return strconv.FormatBool(d.Minor)
	case FieldReceipt:
		return strconv.FormatBool(d.Receipt)
	case FieldMoney:
		return strconv.FormatBool(d.Money)
	case FieldConfirm:
		return strconv.FormatBool(d.Confirm)
	case FieldRecaptcha:
		return d.Recaptcha
	}
	return d.Values[f]
}

// IsTouched reports whether f was touched.
func (d Draft) IsTouched(f Field) bool {
	return d.Touched[f]
}

// SubjectNumberField is the document-number field identifying the subject:
// the natural person, or the legal representative of an organization.
func (d Draft) SubjectNumberField() Field {
	if d.PersonType == PersonLegal {
		return FieldLegalRepDocumentNumber
	}
	return FieldDocumentNumber
}

// SubjectTypeField is the document-type field paired with SubjectNumberField.
func (d Draft) SubjectTypeField() Field {
	return typeFieldFor[d.SubjectNumberField()]
}

// NumberField returns the document-number field observed for target.
func (d Draft) NumberField(t Target) Field {
	if t == TargetGuardian {
		return FieldTutorDocumentNumber
	}
	return d.SubjectNumberField()
}

// DocumentRule returns the catalog rule of the document type selected for
// the given number field.
func (d Draft) DocumentRule(number Field, types []catalog.DocumentType) catalog.Rule {
	return catalog.Resolve(types, d.Values[typeFieldFor[number]])
}

func (d *Draft) clear(fields ...Field) {
	for _, f := range fields {
		delete(d.Values, f)
		delete(d.Touched, f)
		delete(d.AutoFilled, f)
	}
}

func (d *Draft) clearAutoFilled(fields ...Field) {
	for _, f := range fields {
		if d.AutoFilled[f] {
			d.clear(f)
		}
	}
}

// TouchAll marks every field touched.
func TouchAll(d Draft) Draft {
	d = d.Clone()
	for _, f := range Fields {
		d.Touched[f] = true
	}
	return d
}

// TouchFields marks the given fields touched.
func TouchFields(d Draft, fields ...Field) Draft {
	d = d.Clone()
	for _, f := range fields {
		d.Touched[f] = true
	}
	return d
}
