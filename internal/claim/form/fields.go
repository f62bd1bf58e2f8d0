// Package form is the claim-form engine: the draft, the reducer that keeps
// its active rule set consistent with toggles and selections, the step state
// machine and the user-facing field messages. Nothing here performs I/O.
package form

// Field names a draft field. The names are the ones the browser sends.
type Field string

const (
	FieldPersonType Field = "personType"

	FieldDocumentType   Field = "documentType"
	FieldDocumentNumber Field = "documentNumber"
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"

	FieldMinor               Field = "minor"
	FieldTutorDocumentType   Field = "tutorDocumentType"
	FieldTutorDocumentNumber Field = "tutorDocumentNumber"
	FieldTutorFirstName      Field = "tutorFirstName"
	FieldTutorLastName       Field = "tutorLastName"
	FieldTutorEmail          Field = "tutorEmail"
	FieldTutorPhone          Field = "tutorPhone"

	FieldCompanyDocument        Field = "companyDocument"
	FieldCompanyName            Field = "companyName"
	FieldLegalRepDocumentType   Field = "legalRepDocumentType"
	FieldLegalRepDocumentNumber Field = "legalRepDocumentNumber"
	FieldLegalRepFirstName      Field = "legalRepFirstName"
	FieldLegalRepLastName       Field = "legalRepLastName"

	FieldDistrict Field = "district"
	FieldProvince Field = "province"
	FieldAddress  Field = "address"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"

	FieldGoodType        Field = "goodType"
	FieldGoodDescription Field = "goodDescription"
	FieldReceipt         Field = "receipt"
	FieldReceiptType     Field = "receiptType"
	FieldReceiptNumber   Field = "receiptNumber"
	FieldMoney           Field = "money"
	FieldCurrency        Field = "currency"
	FieldClaimAmount     Field = "claimAmount"

	FieldClaimType        Field = "claimType"
	FieldClaimDescription Field = "claimDescription"
	FieldRequest          Field = "request"

	FieldConfirm   Field = "confirm"
	FieldRecaptcha Field = "recaptcha"
)

// PersonType selects which identity set is active.
type PersonType string

const (
	PersonNatural PersonType = "natural"
	PersonLegal   PersonType = "legal"
)

func (p PersonType) IsValid() bool {
	return p == PersonNatural || p == PersonLegal
}

// Fields lists every field in display order.
var Fields = []Field{
	FieldPersonType,
	FieldDocumentType, FieldDocumentNumber, FieldFirstName, FieldLastName,
	FieldMinor,
	FieldTutorDocumentType, FieldTutorDocumentNumber, FieldTutorFirstName, FieldTutorLastName, FieldTutorEmail, FieldTutorPhone,
	FieldCompanyDocument, FieldCompanyName,
	FieldLegalRepDocumentType, FieldLegalRepDocumentNumber, FieldLegalRepFirstName, FieldLegalRepLastName,
	FieldDistrict, FieldProvince, FieldAddress, FieldEmail, FieldPhone,
	FieldGoodType, FieldGoodDescription, FieldReceipt, FieldReceiptType, FieldReceiptNumber,
	FieldMoney, FieldCurrency, FieldClaimAmount,
	FieldClaimType, FieldClaimDescription, FieldRequest,
	FieldConfirm, FieldRecaptcha,
}

var (
	naturalFields  = []Field{FieldDocumentType, FieldDocumentNumber, FieldFirstName, FieldLastName}
	legalFields    = []Field{FieldCompanyDocument, FieldCompanyName, FieldLegalRepDocumentType, FieldLegalRepDocumentNumber, FieldLegalRepFirstName, FieldLegalRepLastName}
	guardianFields = []Field{FieldTutorDocumentType, FieldTutorDocumentNumber, FieldTutorFirstName, FieldTutorLastName, FieldTutorEmail, FieldTutorPhone}
	contactFields  = []Field{FieldDistrict, FieldProvince, FieldAddress, FieldEmail, FieldPhone}
	receiptFields  = []Field{FieldReceiptType, FieldReceiptNumber}
	moneyFields    = []Field{FieldClaimAmount, FieldCurrency}
)

var known = func() map[Field]bool {
	m := make(map[Field]bool, len(Fields))
	for _, f := range Fields {
		m[f] = true
	}
	return m
}()

// ParseField returns the field named name.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	return f, known[f]
}

func isToggle(f Field) bool {
	switch f {
	case FieldMinor, FieldReceipt, FieldMoney, FieldConfirm:
		return true
	}
	return false
}

// numberFieldFor maps a document type field to the number field it governs.
var numberFieldFor = map[Field]Field{
	FieldDocumentType:         FieldDocumentNumber,
	FieldTutorDocumentType:    FieldTutorDocumentNumber,
	FieldLegalRepDocumentType: FieldLegalRepDocumentNumber,
}

// typeFieldFor is the inverse of numberFieldFor.
var typeFieldFor = map[Field]Field{
	FieldDocumentNumber:         FieldDocumentType,
	FieldTutorDocumentNumber:    FieldTutorDocumentType,
	FieldLegalRepDocumentNumber: FieldLegalRepDocumentType,
}

// Target identifies a person the form resolves against the backend.
type Target string

const (
	TargetSubject  Target = "subject"
	TargetGuardian Target = "guardian"
)
