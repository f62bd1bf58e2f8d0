package submission

import (
	"context"
	"net/http"
	"strings"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
	"github.com/martirspe/complaints-book-pro/pkg/validation"
)

const (
	MsgCodeRequired   = "Este campo es obligatorio"
	MsgCodeFormat     = "Formato inválido. Usa REC-YYYY-###### o QUE-YYYY-######"
	MsgClaimNotFound  = "No encontramos un reclamo con ese código"
	MsgCodeRejected   = "El código no es válido. Ej: REC-2026-000001"
	MsgTrackingFailed = "Error al consultar el reclamo"
)

// Track looks up the public status of a claim by its code, e.g.
// REC-2026-000001. The code is upper-cased before validation.
func (o *Orchestrator) Track(ctx context.Context, tenant, code string) (backend.Tracking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch {
	case code == "":
		return backend.Tracking{}, dErrors.New(dErrors.CodeInvalidInput, MsgCodeRequired)
	case !validation.IsClaimCode(code):
		return backend.Tracking{}, dErrors.New(dErrors.CodeInvalidInput, MsgCodeFormat)
	}

	t, err := o.claims.TrackClaim(ctx, tenant, code)
	if err == nil {
		return t, nil
	}

	be, ok := backend.AsError(err)
	switch {
	case ok && be.Status == http.StatusNotFound:
		return backend.Tracking{}, dErrors.Wrap(err, dErrors.CodeNotFound, MsgClaimNotFound)
	case ok && be.Status == http.StatusBadRequest:
		return backend.Tracking{}, dErrors.Wrap(err, dErrors.CodeBadRequest, MsgCodeRejected)
	}
	o.logger.WarnContext(ctx, "claim tracking failed", "tenant", tenant, "category", backend.CategoryOf(err))
	return backend.Tracking{}, dErrors.Wrap(err, dErrors.CodeUnavailable, MsgTrackingFailed)
}
