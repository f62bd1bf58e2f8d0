package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	"github.com/martirspe/complaints-book-pro/pkg/requestcontext"
)

// MaxBodySize caps JSON request bodies. Attachments use their own limit.
const MaxBodySize = 64 * 1024

// DecodeJSON reads exactly one JSON value from the body into a T.
// On failure it logs with the request id, writes a bad request and returns
// nil, false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	var req T
	if err := decodeBody(w, r, &req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
		} else {
			WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		}
		return nil, false
	}
	return &req, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err := dec.Decode(target); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// Validatable is a claim DTO that checks its own fields, usually through
// pkg/validation struct tags.
type Validatable interface {
	Validate() error
}

// Normalizable is a claim DTO that trims and defaults its fields before validation.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes, then validates.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare decodes a form DTO such as an EventRequest and prepares it.
// Domain errors from Validate keep their code; any other error is reported as
// a validation error carrying its text.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}

	if err := PrepareRequest(req); err != nil {
		ctx := r.Context()
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if dErrors.CodeOf(err) != dErrors.CodeInternal {
			WriteError(w, err)
		} else {
			WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		}
		return nil, false
	}
	return req, true
}
