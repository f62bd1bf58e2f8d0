package submission

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
	s "github.com/martirspe/complaints-book-pro/pkg/string"
)

// Payload keys of the public claim endpoint.
const (
	KeyPersonType        = "person_type"
	KeyIsYounger         = "is_younger"
	KeyClaimTypeID       = "claim_type_id"
	KeyConsumptionTypeID = "consumption_type_id"
	KeyDescription       = "description"
	KeyDetail            = "detail"
	KeyRequest           = "request"
	KeyRecaptcha         = "recaptcha"
	KeyEmail             = "email"
	KeyCelphone          = "celphone"
	KeyAddress           = "address"
	KeyLocationID        = "location_id"
	KeyDistrict          = "district"
	KeyProvince          = "province"
	KeyDepartment        = "department"
	KeyDocumentTypeID    = "document_type_id"
	KeyDocumentNumber    = "document_number"
	KeyFirstName         = "first_name"
	KeyLastName          = "last_name"
	KeyCompanyDocument   = "company_document"
	KeyCompanyName       = "company_name"
	KeyReceiptType       = "receipt_type"
	KeyReceiptNumber     = "receipt_number"
	KeyClaimedAmount     = "claimed_amount"
	KeyCurrencyID        = "currency_id"
	KeyTutorDocumentType = "document_type_id_tutor"
	KeyTutorDocument     = "document_number_tutor"
	KeyTutorFirstName    = "first_name_tutor"
	KeyTutorLastName     = "last_name_tutor"
	KeyCustomerID        = "customer_id"
	KeyTutorID           = "tutor_id"
)

// Snapshot is an immutable copy of a session taken at submit time.
type Snapshot struct {
	Draft form.Draft
	// Location is the place picked from the location search, if any.
	Location *ranking.Location
}

// References are the backend ids the claim points to.
type References struct {
	CustomerID int
	TutorID    int
}

type parts []backend.Part

// add appends a part unless its value is empty.
func (p *parts) add(name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*p = append(*p, backend.Part{Name: name, Value: value})
}

func (p *parts) addID(name string, id int) {
	if id > 0 {
		p.add(name, strconv.Itoa(id))
	}
}

// BuildRequest assembles the multipart claim. Empty values are omitted, never
// sent as empty strings.
func BuildRequest(snap Snapshot, refs References, idempotencyKey string) backend.ClaimRequest {
	d := snap.Draft
	var p parts

	p.add(KeyPersonType, string(d.PersonType))
	p.add(KeyIsYounger, strconv.FormatBool(d.Minor))
	p.add(KeyClaimTypeID, d.Value(form.FieldClaimType))
	p.add(KeyConsumptionTypeID, d.Value(form.FieldGoodType))
	p.add(KeyDescription, d.Value(form.FieldGoodDescription))
	p.add(KeyDetail, d.Value(form.FieldClaimDescription))
	p.add(KeyRequest, d.Value(form.FieldRequest))
	p.add(KeyRecaptcha, d.Recaptcha)
	p.add(KeyEmail, d.Value(form.FieldEmail))
	p.add(KeyCelphone, s.DigitsOnly(d.Value(form.FieldPhone)))
	p.add(KeyAddress, d.Value(form.FieldAddress))

	if loc := snap.Location; loc != nil {
		p.addID(KeyLocationID, loc.ID)
		p.add(KeyDistrict, loc.District)
		p.add(KeyProvince, loc.Province)
		p.add(KeyDepartment, loc.Department)
	} else {
		p.add(KeyDistrict, d.Value(form.FieldDistrict))
		p.add(KeyProvince, d.Value(form.FieldProvince))
	}

	if d.PersonType == form.PersonLegal {
		p.add(KeyDocumentTypeID, d.Value(form.FieldLegalRepDocumentType))
		p.add(KeyDocumentNumber, d.Value(form.FieldLegalRepDocumentNumber))
		p.add(KeyCompanyDocument, d.Value(form.FieldCompanyDocument))
		p.add(KeyFirstName, d.Value(form.FieldLegalRepFirstName))
		p.add(KeyLastName, d.Value(form.FieldLegalRepLastName))
		p.add(KeyCompanyName, d.Value(form.FieldCompanyName))
	} else {
		p.add(KeyDocumentTypeID, d.Value(form.FieldDocumentType))
		p.add(KeyDocumentNumber, d.Value(form.FieldDocumentNumber))
		p.add(KeyFirstName, d.Value(form.FieldFirstName))
		p.add(KeyLastName, d.Value(form.FieldLastName))
	}

	if d.Receipt {
		p.add(KeyReceiptType, d.Value(form.FieldReceiptType))
		p.add(KeyReceiptNumber, d.Value(form.FieldReceiptNumber))
	}

	if d.Money && d.Value(form.FieldClaimAmount) != "" && d.Value(form.FieldCurrency) != "" {
		p.add(KeyClaimedAmount, amount(d.Value(form.FieldClaimAmount)))
		p.add(KeyCurrencyID, d.Value(form.FieldCurrency))
	}

	if d.Minor {
		p.add(KeyTutorDocumentType, d.Value(form.FieldTutorDocumentType))
		p.add(KeyTutorDocument, d.Value(form.FieldTutorDocumentNumber))
		p.add(KeyTutorFirstName, d.Value(form.FieldTutorFirstName))
		p.add(KeyTutorLastName, d.Value(form.FieldTutorLastName))
	}

	p.addID(KeyCustomerID, refs.CustomerID)
	p.addID(KeyTutorID, refs.TutorID)

	files := make([]backend.File, 0, len(d.Attachments))
	for i, a := range d.Attachments {
		if i == form.MaxAttachments {
			break
		}
		files = append(files, backend.File{Name: a.Name, ContentType: a.ContentType, Data: a.Data})
	}

	return backend.ClaimRequest{Parts: p, Files: files, IdempotencyKey: idempotencyKey}
}

// amount renders a validated amount with two decimals.
func amount(v string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	return d.StringFixed(2)
}

// subjectPerson is the record resolved as the claim's customer: the natural
// person, or the legal representative of an organization.
func subjectPerson(d form.Draft) backend.Person {
	typeField, numberField := form.FieldDocumentType, form.FieldDocumentNumber
	first, last := form.FieldFirstName, form.FieldLastName
	if d.PersonType == form.PersonLegal {
		typeField, numberField = form.FieldLegalRepDocumentType, form.FieldLegalRepDocumentNumber
		first, last = form.FieldLegalRepFirstName, form.FieldLegalRepLastName
	}
	return backend.Person{
		DocumentTypeID: atoi(d.Value(typeField)),
		DocumentNumber: backend.DocumentNumber(strings.TrimSpace(d.Value(numberField))),
		FirstName:      d.Value(first),
		LastName:       d.Value(last),
		Email:          d.Value(form.FieldEmail),
		Phone:          s.DigitsOnly(d.Value(form.FieldPhone)),
		Address:        d.Value(form.FieldAddress),
		IsMinor:        d.Minor && d.PersonType == form.PersonNatural,
	}
}

func guardianPerson(d form.Draft) backend.Person {
	return backend.Person{
		DocumentTypeID: atoi(d.Value(form.FieldTutorDocumentType)),
		DocumentNumber: backend.DocumentNumber(strings.TrimSpace(d.Value(form.FieldTutorDocumentNumber))),
		FirstName:      d.Value(form.FieldTutorFirstName),
		LastName:       d.Value(form.FieldTutorLastName),
		Email:          d.Value(form.FieldTutorEmail),
		Phone:          s.DigitsOnly(d.Value(form.FieldTutorPhone)),
	}
}

func atoi(v string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n
}
