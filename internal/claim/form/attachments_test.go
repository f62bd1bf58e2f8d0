package form

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

func pdf(name string, size int64) Attachment {
	return Attachment{Name: name, Size: size, ContentType: "application/pdf"}
}

func TestSixthAttachmentIsRejected(t *testing.T) {
	d := New(testCatalogs)
	for i := 1; i <= MaxAttachments; i++ {
		var warnings []string
		var err error
		d, warnings, err = AddAttachments(d, []Attachment{pdf(fmt.Sprintf("boleta-%d.pdf", i), 1024)})
		require.NoError(t, err)
		assert.Empty(t, warnings)
	}

	d, warnings, err := AddAttachments(d, []Attachment{pdf("boleta-6.pdf", 1024)})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAttachmentRejected))
	assert.Equal(t, []string{"Máximo 5 archivos permitidos"}, warnings)
	assert.Len(t, d.Attachments, MaxAttachments)
}

func TestAttachmentBatchStopsAtCapacity(t *testing.T) {
	batch := make([]Attachment, 6)
	for i := range batch {
		batch[i] = pdf(fmt.Sprintf("f%d.pdf", i), int64(100+i))
	}

	d, warnings, err := AddAttachments(New(testCatalogs), batch)
	require.NoError(t, err)
	assert.Len(t, d.Attachments, MaxAttachments)
	assert.Equal(t, "f4.pdf", d.Attachments[4].Name)
	assert.Equal(t, []string{"Solo puedes añadir 5 archivos más"}, warnings)
}

func TestAttachmentChecks(t *testing.T) {
	d, _, err := AddAttachments(New(testCatalogs), []Attachment{pdf("carta.pdf", 2048)})
	require.NoError(t, err)

	d, warnings, err := AddAttachments(d, []Attachment{
		pdf("grande.pdf", MaxAttachmentSize+1),
		{Name: "foto.png", Size: 10, ContentType: "image/png"},
		pdf("carta.pdf", 2048),
		pdf("carta.pdf", 4096),
		{Name: "carta.docx", Size: 900, ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"El archivo es demasiado pesado. Máximo permitido: 150KB",
		"Solo aceptamos archivos en formato PDF, DOC o DOCX",
		`El archivo "carta.pdf" ya está seleccionado`,
	}, warnings)
	require.Len(t, d.Attachments, 3, "same name with another size is a different file")
	assert.Equal(t, int64(4096), d.Attachments[1].Size)

	assert.Empty(t, CheckAttachment(pdf("limite.pdf", MaxAttachmentSize)))
}

func TestRemoveAttachment(t *testing.T) {
	d, _, err := AddAttachments(New(testCatalogs), []Attachment{pdf("a.pdf", 1), pdf("b.pdf", 2)})
	require.NoError(t, err)

	next, err := RemoveAttachment(d, 0)
	require.NoError(t, err)
	require.Len(t, next.Attachments, 1)
	assert.Equal(t, "b.pdf", next.Attachments[0].Name)
	assert.Len(t, d.Attachments, 2, "input draft is not modified")

	_, err = RemoveAttachment(d, 2)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
