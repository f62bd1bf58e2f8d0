package submission

import (
	"net/http"
	"strings"

	"github.com/martirspe/complaints-book-pro/internal/backend"
)

const (
	MsgSubmitted  = "Tu reclamo fue enviado correctamente"
	MsgIncomplete = "Por favor completa todos los campos requeridos"
	MsgFallback   = "Hubo un problema al procesar tu reclamo"
)

// UserMessage picks the message shown for a failed submission. A 422 shows
// its first field error; 400, 404 and 409 show the backend message verbatim;
// anything else gets MsgFallback.
func UserMessage(err error) string {
	be, ok := backend.AsError(err)
	if !ok {
		return MsgFallback
	}
	switch be.Status {
	case http.StatusUnprocessableEntity:
		if len(be.Fields) > 0 {
			return be.Fields[0].Field + ": " + be.Fields[0].Message
		}
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		if msg := strings.TrimSpace(be.Message); msg != "" {
			return msg
		}
	}
	return MsgFallback
}
