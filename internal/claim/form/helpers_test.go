package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
)

var testCatalogs = catalog.Catalogs{
	DocumentTypes: []catalog.DocumentType{
		{ID: 1, Name: "DNI"},
		{ID: 2, Name: "Pasaporte"},
		{ID: 3, Name: "RUC"},
		{ID: 4, Name: "Carnet de Extranjeria"},
		{ID: 5, Name: "Brevete"},
		{ID: 9, Name: "Partida de nacimiento"},
	},
	ConsumptionTypes: []catalog.Option{{ID: 3, Name: "Producto"}, {ID: 8, Name: "Servicio"}},
	ClaimTypes:       []catalog.Option{{ID: 4, Name: "Reclamo"}, {ID: 5, Name: "Queja"}},
	Currencies:       []catalog.Currency{{ID: 1, Code: "PEN", Name: "Sol", Symbol: "S/"}, {ID: 2, Code: "USD", Name: "Dólar", Symbol: "$"}},
}

var narrative = strings.Repeat("Detalle del consumo realizado. ", 4)

func apply(t *testing.T, d Draft, events ...Event) Draft {
	t.Helper()
	for _, e := range events {
		var err error
		d, _, err = Reduce(d, e, testCatalogs)
		require.NoError(t, err, "event %+v", e)
	}
	return d
}

// identityDraft fills a valid natural-person step 1.
func identityDraft(t *testing.T) Draft {
	t.Helper()
	return apply(t, New(testCatalogs),
		Set(FieldDocumentType, "1"),
		Set(FieldDocumentNumber, "12345678"),
		Set(FieldFirstName, "Ana María"),
		Set(FieldLastName, "Quispe Ñahui"),
		Set(FieldDistrict, "Miraflores"),
		Set(FieldAddress, "Av. José Larco 1234, Miraflores"),
		Set(FieldEmail, "ana.quispe@mail.pe"),
		Set(FieldPhone, "987654321"),
	)
}

// completeDraft fills every step of a valid natural-person claim.
func completeDraft(t *testing.T) Draft {
	t.Helper()
	return apply(t, identityDraft(t),
		Set(FieldGoodDescription, narrative),
		Set(FieldClaimDescription, narrative),
		Set(FieldRequest, narrative),
		Set(FieldConfirm, "true"),
	)
}
