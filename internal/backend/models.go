package backend

import (
	"encoding/json"
	"strings"
)

// PersonKind selects the backend collection a person record lives in.
type PersonKind string

const (
	KindCustomer PersonKind = "customer"
	KindTutor    PersonKind = "tutor"
)

func (k PersonKind) collection() string {
	if k == KindTutor {
		return "tutors"
	}
	return "customers"
}

// Person is a customer or tutor record. The document number is the identity key.
type Person struct {
	ID             int            `json:"id,omitempty"`
	DocumentTypeID int            `json:"document_type_id"`
	DocumentNumber DocumentNumber `json:"document_number"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	IsMinor        bool           `json:"is_younger"`
}

// DocumentNumber is sent as a string and accepted as either a JSON string or
// number, since older backend versions store numeric document numbers.
type DocumentNumber string

func (n *DocumentNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = DocumentNumber(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = DocumentNumber(num.String())
	return nil
}

func (n DocumentNumber) String() string {
	return string(n)
}

// Part is one scalar field of a multipart claim payload.
type Part struct {
	Name  string
	Value string
}

// File is one attachment of a claim payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ClaimRequest is the multipart payload of a public claim submission.
type ClaimRequest struct {
	Parts          []Part
	Files          []File
	IdempotencyKey string
}

// Value returns the first part named name, or "".
func (r ClaimRequest) Value(name string) string {
	for _, p := range r.Parts {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// Receipt is the backend answer to an accepted claim.
type Receipt struct {
	ID      int    `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Tracking is the public status of a claim.
type Tracking struct {
	Code     string `json:"code"`
	Resolved bool   `json:"resolved"`
	Status   int    `json:"status"`
}

// StatusLabel is the user-facing status of a tracked claim.
func (t Tracking) StatusLabel() string {
	if t.Resolved {
		return "Resuelto"
	}
	return "En proceso"
}
