package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// Only the domain message is exposed; wrapped causes stay in the logs.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error:       DomainCodeToHTTPCode(domainErr.Code),
			Description: domainErr.Message,
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeSessionExpired:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeAttachmentRejected:
		return http.StatusBadRequest
	case dErrors.CodeValidation, dErrors.CodeRejected:
		return http.StatusUnprocessableEntity
	case dErrors.CodeStepBlocked, dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeVerificationFailed:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable, dErrors.CodeSubmissionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the error string of the JSON envelope.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeSessionExpired:
		return "session_expired"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeRejected:
		return "claim_rejected"
	case dErrors.CodeAttachmentRejected:
		return "attachment_rejected"
	case dErrors.CodeStepBlocked:
		return "step_blocked"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeVerificationFailed:
		return "verification_failed"
	case dErrors.CodeTimeout:
		return "backend_timeout"
	case dErrors.CodeUnavailable, dErrors.CodeSubmissionFailed:
		return "backend_unavailable"
	default:
		return "internal_error"
	}
}
