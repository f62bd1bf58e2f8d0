package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

// Category is the normalized failure taxonomy of backend calls. Callers decide
// what to show the user from the category and never from raw messages.
type Category string

const (
	CategoryNotFound       Category = "not_found"
	CategoryRejected       Category = "rejected" // 422 with a field/message list
	CategoryConflict       Category = "conflict"
	CategoryBadRequest     Category = "bad_request"
	CategoryAuthentication Category = "authentication"
	CategoryTimeout        Category = "timeout"
	CategoryOutage         Category = "outage"
	CategoryRateLimited    Category = "rate_limited"
	CategoryBadData        Category = "bad_data" // response body did not match the contract
	CategoryInternal       Category = "internal"
)

// FieldError is one entry of a 422 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified backend failure.
type Error struct {
	Category   Category
	Operation  string
	Status     int // 0 when no response was received
	Message    string
	Fields     []FieldError
	Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Category)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("backend %s [%s]: %s: %v", e.Operation, e.Category, msg, e.Underlying)
	}
	return fmt.Sprintf("backend %s [%s]: %s", e.Operation, e.Category, msg)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Code maps the category to the domain error code used by the transport layer.
func (e *Error) Code() dErrors.Code {
	switch e.Category {
	case CategoryNotFound:
		return dErrors.CodeNotFound
	case CategoryRejected:
		return dErrors.CodeRejected
	case CategoryConflict:
		return dErrors.CodeConflict
	case CategoryBadRequest:
		return dErrors.CodeBadRequest
	case CategoryTimeout:
		return dErrors.CodeTimeout
	default:
		return dErrors.CodeUnavailable
	}
}

func newError(category Category, op string, status int, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Operation:  op,
		Status:     status,
		Message:    message,
		Underlying: underlying,
	}
}

// AsError extracts a backend error from err's chain.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	be, ok := AsError(err)
	return ok && be.Category == CategoryNotFound
}

// CategoryOf returns err's category, CategoryInternal for foreign errors.
func CategoryOf(err error) Category {
	if be, ok := AsError(err); ok {
		return be.Category
	}
	return CategoryInternal
}

// errorBody is the error envelope of the backend API.
type errorBody struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Errors  []FieldError `json:"errors"`
}

// classify builds the error for a non-2xx response.
func classify(op string, status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	message := strings.TrimSpace(eb.Message)
	if message == "" {
		message = strings.TrimSpace(eb.Error)
	}

	var category Category
	switch {
	case status == http.StatusNotFound:
		category = CategoryNotFound
	case status == http.StatusUnprocessableEntity:
		category = CategoryRejected
	case status == http.StatusConflict:
		category = CategoryConflict
	case status == http.StatusBadRequest:
		category = CategoryBadRequest
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		category = CategoryAuthentication
	case status == http.StatusTooManyRequests:
		category = CategoryRateLimited
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		category = CategoryTimeout
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable:
		category = CategoryOutage
	default:
		category = CategoryInternal
	}

	e := newError(category, op, status, message, nil)
	e.Fields = eb.Errors
	return e
}
