package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
	"github.com/martirspe/complaints-book-pro/internal/claim/ranking"
)

var testCatalogs = catalog.Catalogs{
	DocumentTypes:    []catalog.DocumentType{{ID: 1, Name: "DNI"}, {ID: 2, Name: "Pasaporte"}},
	ConsumptionTypes: []catalog.Option{{ID: 3, Name: "Producto"}},
	ClaimTypes:       []catalog.Option{{ID: 4, Name: "Reclamo"}},
	Currencies:       []catalog.Currency{{ID: 1, Code: "PEN", Symbol: "S/"}},
}

const validDraft = `
tenant: acme
recaptcha: " tok "
fields:
  documentType: "1"
  documentNumber: "12345678"
  firstName: Ana
  lastName: Quispe
  district: Miraflores
  address: Av. José Larco 1234, Miraflores
  email: ana@mail.pe
  phone: "987654321"
  goodDescription: Licuadora de cinco velocidades comprada en la tienda de Miraflores el sábado por la tarde, modelo negro.
  claimDescription: El producto llegó dañado y sin empaque, con piezas faltantes y la base rota; no enciende al conectarlo.
  request: Solicito el cambio del producto por uno nuevo en buen estado o, en su defecto, la devolución total de mi dinero.
  confirm: true
`

func TestParseDraftKeepsFieldOrder(t *testing.T) {
	doc, err := parseDraft(strings.NewReader(validDraft))
	require.NoError(t, err)
	assert.Equal(t, "acme", doc.Tenant)

	values, err := doc.values()
	require.NoError(t, err)
	require.Len(t, values, 12)
	assert.Equal(t, form.FieldDocumentType, values[0].Field)
	assert.Equal(t, form.FieldDocumentNumber, values[1].Field)
	assert.Equal(t, fieldValue{Field: form.FieldConfirm, Value: "true"}, values[11])
}

func TestParseDraftErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "fields:\n  nickname: Ana\n", `unknown field "nickname"`},
		{"nested value", "fields:\n  firstName:\n    given: Ana\n", "must be a scalar"},
		{"fields list", "fields:\n  - firstName\n", "must be a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parseDraft(strings.NewReader(tt.yaml))
			require.NoError(t, err)
			_, err = doc.values()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildDraft(t *testing.T) {
	doc, err := parseDraft(strings.NewReader(validDraft))
	require.NoError(t, err)

	d, warnings, err := doc.build(testCatalogs)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, form.ValidDraft(d, testCatalogs.DocumentTypes))
	assert.Equal(t, "tok", d.Recaptcha)
	assert.Equal(t, "3", d.Values[form.FieldGoodType], "catalog defaults survive the replay")

	var buf bytes.Buffer
	assert.False(t, printProblems(&buf, form.TouchAll(d), testCatalogs.DocumentTypes))
	assert.Empty(t, buf.String())
}

func TestBuildDraftReportsProblems(t *testing.T) {
	doc, err := parseDraft(strings.NewReader("fields:\n  documentType: \"1\"\n  documentNumber: \"1234\"\n"))
	require.NoError(t, err)
	d, _, err := doc.build(testCatalogs)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.True(t, printProblems(&buf, form.TouchAll(d), testCatalogs.DocumentTypes))
	assert.Contains(t, buf.String(), "documentNumber: ")
	assert.Contains(t, buf.String(), "firstName: ")
}

func TestBuildDraftAttachments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "boleta.pdf"), []byte("%PDF-1.4\n%test\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foto.txt"), []byte("hola"), 0o600))

	doc, err := parseDraft(strings.NewReader(validDraft + "attachments: [boleta.pdf, foto.txt]\n"))
	require.NoError(t, err)
	doc.dir = dir

	d, warnings, err := doc.build(testCatalogs)
	require.NoError(t, err)
	require.Len(t, d.Attachments, 1)
	assert.Equal(t, "boleta.pdf", d.Attachments[0].Name)
	assert.Equal(t, "application/pdf", d.Attachments[0].ContentType)
	assert.Len(t, warnings, 1, "the text file is refused with a warning")

	doc, err = parseDraft(strings.NewReader(validDraft + "attachments: [missing.pdf]\n"))
	require.NoError(t, err)
	doc.dir = dir
	_, _, err = doc.build(testCatalogs)
	assert.Error(t, err)
}

func TestPrintRules(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRules(&buf, catalog.Names()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(catalog.Names())+2)
	assert.True(t, strings.HasPrefix(lines[0], "TYPE"))
	assert.Contains(t, buf.String(), "DNI: exactamente 8 dígitos")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "(other)"))
}

func TestPrintDocumentTypes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printDocumentTypes(&buf, testCatalogs.DocumentTypes))
	assert.Contains(t, buf.String(), "Pasaporte")
	assert.Contains(t, buf.String(), "Pasaporte: 6 a 12 caracteres")
}

func TestSearchOutput(t *testing.T) {
	searchLimit = 1
	t.Cleanup(func() { searchLimit = 10 })

	var buf bytes.Buffer
	require.NoError(t, printCallingCodes(&buf, limit(ranking.RankCallingCodes(ranking.CallingCodes(), "per"))))
	assert.Contains(t, buf.String(), ranking.DefaultDial)
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 2)

	buf.Reset()
	require.NoError(t, printLocations(&buf, nil))
	assert.Equal(t, "no locations found\n", buf.String())
}

func TestRulesCheckCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"rules", "check", "DNI", "12345678"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "12345678 is valid; lookup enabled\n", out.String())

	rootCmd.SetArgs([]string{"rules", "check", "DNI", "1234567"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minlength")
}
