package form

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

const (
	MaxAttachmentSize = 150 * 1024
	MaxAttachments    = 5
)

var allowedContentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

const (
	msgFileTooLarge    = "El archivo es demasiado pesado. Máximo permitido: 150KB"
	msgFileType        = "Solo aceptamos archivos en formato PDF, DOC o DOCX"
	msgMaxFilesFmt     = "Máximo %d archivos permitidos"
	msgRemainingFmt    = "Solo puedes añadir %d archivos más"
	msgDuplicateFmt    = "El archivo \"%s\" ya está seleccionado"
	msgNoAttachmentFmt = "no attachment at index %d"
)

// Attachment is a file selected for the claim.
type Attachment struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

func (a Attachment) sameAs(b Attachment) bool {
	return a.Name == b.Name && a.Size == b.Size
}

// DetectContentType sniffs the media type of a file from its leading bytes,
// without parameters. The name and any client-declared type are ignored.
func DetectContentType(data []byte) string {
	contentType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return contentType
}

// CheckAttachment returns the user-facing reason a single file is refused, or "".
func CheckAttachment(a Attachment) string {
	if a.Size > MaxAttachmentSize {
		return msgFileTooLarge
	}
	if !slices.Contains(allowedContentTypes, a.ContentType) {
		return msgFileType
	}
	return ""
}

// AddAttachments adds a batch of files. Invalid and duplicate files are
// skipped with a warning each; once the remaining capacity is used up the
// rest of the batch is dropped. When nothing could be added because the draft
// is already full, a CodeAttachmentRejected error is returned.
func AddAttachments(d Draft, files []Attachment) (Draft, []string, error) {
	current := len(d.Attachments)
	if current >= MaxAttachments {
		msg := fmt.Sprintf(msgMaxFilesFmt, MaxAttachments)
		return d, []string{msg}, dErrors.New(dErrors.CodeAttachmentRejected, msg)
	}
	remaining := MaxAttachments - current

	var warnings []string
	var added []Attachment
	for _, f := range files {
		if len(added) >= remaining {
			warnings = append(warnings, fmt.Sprintf(msgRemainingFmt, remaining))
			break
		}
		if reason := CheckAttachment(f); reason != "" {
			warnings = append(warnings, reason)
			continue
		}
		if slices.ContainsFunc(d.Attachments, f.sameAs) || slices.ContainsFunc(added, f.sameAs) {
			warnings = append(warnings, fmt.Sprintf(msgDuplicateFmt, f.Name))
			continue
		}
		added = append(added, f)
	}

	if len(added) == 0 {
		return d, warnings, nil
	}
	d = d.Clone()
	d.Attachments = append(d.Attachments, added...)
	return d, warnings, nil
}

// RemoveAttachment drops the attachment at index.
func RemoveAttachment(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.Attachments) {
		return d, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf(msgNoAttachmentFmt, index))
	}
	d = d.Clone()
	d.Attachments = slices.Delete(d.Attachments, index, index+1)
	return d, nil
}
