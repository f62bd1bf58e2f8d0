// Package handler exposes claim-form sessions over HTTP for the browser client.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
	"github.com/martirspe/complaints-book-pro/internal/claim/session"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	"github.com/martirspe/complaints-book-pro/pkg/platform/httputil"
	"github.com/martirspe/complaints-book-pro/pkg/requestcontext"
)

// MaxUploadSize caps one request body. Attachment parts are streamed, so a
// batch may carry more or larger files than the policy accepts and still get
// a warning per refused file instead of a failed request.
const MaxUploadSize = 8 << 20

const filesField = "files"

// Service defines the claim-form operations the handler needs.
type Service interface {
	Create(ctx context.Context, tenant string) (session.State, error)
	State(ctx context.Context, id string) (session.State, error)
	Apply(ctx context.Context, id string, e form.Event) (session.State, error)
	Navigate(ctx context.Context, id string, nav session.Navigation) (session.State, error)
	AddAttachments(ctx context.Context, id string, files []form.Attachment) (session.State, error)
	RemoveAttachment(ctx context.Context, id string, index int) (session.State, error)
	SearchLocations(ctx context.Context, id string, term string) ([]ranking.Location, error)
	SelectLocation(ctx context.Context, id string, locationID int) (session.State, error)
	CallingCodes(term string) []ranking.CallingCode
	Submit(ctx context.Context, id string, recaptcha string) (session.SubmitResult, error)
	Track(ctx context.Context, tenant, code string) (backend.Tracking, error)
	Close(ctx context.Context, id string) error
}

// Handler serves the claim-form endpoints.
type Handler struct {
	forms  Service
	logger *slog.Logger
}

func New(forms Service, logger *slog.Logger) *Handler {
	return &Handler{forms: forms, logger: logger}
}

// Register mounts the claim-form routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tenants/{tenant}/forms", h.HandleCreate)
	r.Get("/tenants/{tenant}/claims/{code}", h.HandleTrack)

	r.Route("/forms/{id}", func(r chi.Router) {
		r.Get("/", h.HandleState)
		r.Delete("/", h.HandleClose)
		r.Post("/events", h.HandleEvent)
		r.Post("/navigate", h.HandleNavigate)
		r.Post("/attachments", h.HandleAddAttachments)
		r.Delete("/attachments/{index}", h.HandleRemoveAttachment)
		r.Get("/locations", h.HandleSearchLocations)
		r.Post("/location", h.HandleSelectLocation)
		r.Post("/submit", h.HandleSubmit)
	})

	r.Get("/calling-codes", h.HandleCallingCodes)
}

// BlockedResponse is answered when a navigation is refused; the state carries
// the newly touched fields so the browser can show their errors.
type BlockedResponse struct {
	httputil.ErrorResponse
	State session.State `json:"state"`
}

// LocationsResponse lists ranked location search results.
type LocationsResponse struct {
	Locations []ranking.Location `json:"locations"`
}

// CallingCodesResponse lists ranked dial prefixes.
type CallingCodesResponse struct {
	CallingCodes []ranking.CallingCode `json:"callingCodes"`
	Default      string                `json:"default"`
}

// TrackingResponse is the public status of a claim.
type TrackingResponse struct {
	Code     string `json:"code"`
	Status   string `json:"status"`
	Resolved bool   `json:"resolved"`
}

// HandleCreate implements POST /tenants/{tenant}/forms.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := chi.URLParam(r, "tenant")
	ctx = requestcontext.WithTenant(ctx, tenant)

	st, err := h.forms.Create(ctx, tenant)
	if err != nil {
		h.fail(ctx, w, "failed to create form session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, st)
}

// HandleState implements GET /forms/{id}.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.forms.State(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "failed to read form session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleClose implements DELETE /forms/{id}.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.forms.Close(ctx, chi.URLParam(r, "id")); err != nil {
		h.fail(ctx, w, "failed to close form session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvent implements POST /forms/{id}/events.
//
// Input: { "kind": "set", "field": "documentNumber", "value": "12345678" }
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EventRequest](w, r, h.logger)
	if !ok {
		return
	}

	st, err := h.forms.Apply(ctx, chi.URLParam(r, "id"), req.Event())
	if err != nil {
		h.fail(ctx, w, "failed to apply form event", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleNavigate implements POST /forms/{id}/navigate.
//
// Input: { "step": 3 } or { "direction": "next" }
func (h *Handler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[NavigateRequest](w, r, h.logger)
	if !ok {
		return
	}

	st, err := h.forms.Navigate(ctx, chi.URLParam(r, "id"), req.Navigation())
	if dErrors.HasCode(err, dErrors.CodeStepBlocked) {
		httputil.WriteJSON(w, http.StatusConflict, BlockedResponse{
			ErrorResponse: httputil.ErrorResponse{
				Error:       httputil.DomainCodeToHTTPCode(dErrors.CodeStepBlocked),
				Description: dErrors.MessageOf(err, form.MsgPreviousStepsIncomplete),
			},
			State: st,
		})
		return
	}
	if err != nil {
		h.fail(ctx, w, "failed to navigate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleAddAttachments implements POST /forms/{id}/attachments with a
// multipart body whose files are sent under "files".
func (h *Handler) HandleAddAttachments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	files, err := readAttachments(r)
	if err != nil {
		h.fail(ctx, w, "failed to read attachments", err)
		return
	}
	if len(files) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no files in request"))
		return
	}

	st, err := h.forms.AddAttachments(ctx, chi.URLParam(r, "id"), files)
	if err != nil {
		h.fail(ctx, w, "failed to add attachments", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// readAttachments streams the "files" parts of a multipart body. Only the
// first form.MaxAttachments acceptable parts keep their data. Oversized and
// surplus parts are drained and keep just their name and real size, so the
// attachment policy refuses each one with its own warning.
func readAttachments(r *http.Request) ([]form.Attachment, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart body")
	}

	var files []form.Attachment
	kept := 0
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return files, nil
		}
		if err != nil {
			return nil, multipartError(err)
		}
		if part.FormName() != filesField || part.FileName() == "" {
			continue
		}
		a, err := readPart(part, kept < form.MaxAttachments)
		_ = part.Close()
		if err != nil {
			return nil, multipartError(err)
		}
		if a.Data != nil && form.CheckAttachment(a) == "" {
			kept++
		}
		files = append(files, a)
	}
}

// readPart reads at most one byte past the size limit and discards the rest.
// The content type is sniffed from the bytes, never taken from the part header.
func readPart(part *multipart.Part, keep bool) (form.Attachment, error) {
	head, err := io.ReadAll(io.LimitReader(part, form.MaxAttachmentSize+1))
	if err != nil {
		return form.Attachment{}, err
	}
	rest, err := io.Copy(io.Discard, part)
	if err != nil {
		return form.Attachment{}, err
	}

	a := form.Attachment{
		Name:        part.FileName(),
		Size:        int64(len(head)) + rest,
		ContentType: form.DetectContentType(head),
	}
	if keep && a.Size <= form.MaxAttachmentSize {
		a.Data = head
	}
	return a, nil
}

func multipartError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart body")
}

// HandleRemoveAttachment implements DELETE /forms/{id}/attachments/{index}.
func (h *Handler) HandleRemoveAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "attachment index must be a number"))
		return
	}

	st, err := h.forms.RemoveAttachment(ctx, chi.URLParam(r, "id"), index)
	if err != nil {
		h.fail(ctx, w, "failed to remove attachment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleSearchLocations implements GET /forms/{id}/locations?q=.
func (h *Handler) HandleSearchLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locations, err := h.forms.SearchLocations(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(ctx, w, "failed to search locations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LocationsResponse{Locations: locations})
}

// HandleSelectLocation implements POST /forms/{id}/location.
func (h *Handler) HandleSelectLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SelectLocationRequest](w, r, h.logger)
	if !ok {
		return
	}

	st, err := h.forms.SelectLocation(ctx, chi.URLParam(r, "id"), req.LocationID)
	if err != nil {
		h.fail(ctx, w, "failed to select location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

// HandleCallingCodes implements GET /calling-codes?q=.
func (h *Handler) HandleCallingCodes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CallingCodesResponse{
		CallingCodes: h.forms.CallingCodes(r.URL.Query().Get("q")),
		Default:      ranking.DefaultDial,
	})
}

// HandleSubmit implements POST /forms/{id}/submit.
//
// Input: { "recaptcha": "<token>" }
// Output: { "code": "REC-2026-000001", "message": "...", "idempotencyKey": "...", "state": {...} }
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.forms.Submit(ctx, chi.URLParam(r, "id"), req.Recaptcha)
	if err != nil {
		h.fail(ctx, w, "claim submission failed", err)
		return
	}
	h.logger.InfoContext(ctx, "claim submitted",
		"request_id", requestcontext.RequestID(ctx),
		"code", res.Code,
		"device", requestcontext.Device(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleTrack implements GET /tenants/{tenant}/claims/{code}.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := chi.URLParam(r, "tenant")
	ctx = requestcontext.WithTenant(ctx, tenant)

	t, err := h.forms.Track(ctx, tenant, chi.URLParam(r, "code"))
	if err != nil {
		h.fail(ctx, w, "failed to track claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TrackingResponse{
		Code:     t.Code,
		Status:   t.StatusLabel(),
		Resolved: t.Resolved,
	})
}

// fail logs err at a level matching its code and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"code", dErrors.CodeOf(err),
		"error", err,
	}
	if t := requestcontext.Tenant(ctx); t != "" {
		attrs = append(attrs, "tenant", t)
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		h.logger.WarnContext(ctx, msg, attrs...)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
		return
	case dErrors.CodeOf(err) == dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
