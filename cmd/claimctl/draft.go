package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
	"github.com/martirspe/complaints-book-pro/internal/claim/form"
)

// draftFile is a claim described in YAML. Fields are replayed through the
// form reducer in file order, so toggles and document types must precede the
// fields they govern, exactly as a user would fill them in.
//
//	tenant: acme
//	fields:
//	  documentType: "1"
//	  documentNumber: "12345678"
//	  minor: true
//	attachments: [boleta.pdf]
type draftFile struct {
	Tenant      string    `yaml:"tenant"`
	Recaptcha   string    `yaml:"recaptcha"`
	Fields      yaml.Node `yaml:"fields"`
	Attachments []string  `yaml:"attachments"`

	// dir resolves relative attachment paths.
	dir string
}

type fieldValue struct {
	Field form.Field
	Value string
}

func readDraftFile(path string) (draftFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return draftFile{}, err
	}
	defer f.Close()
	doc, err := parseDraft(f)
	if err != nil {
		return draftFile{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.dir = filepath.Dir(path)
	return doc, nil
}

func parseDraft(r io.Reader) (draftFile, error) {
	var doc draftFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return draftFile{}, fmt.Errorf("decode draft: %w", err)
	}
	return doc, nil
}

// values returns the fields in document order.
func (d draftFile) values() ([]fieldValue, error) {
	if d.Fields.Kind == 0 {
		return nil, nil
	}
	if d.Fields.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: fields must be a mapping", d.Fields.Line)
	}
	out := make([]fieldValue, 0, len(d.Fields.Content)/2)
	for i := 0; i+1 < len(d.Fields.Content); i += 2 {
		key, val := d.Fields.Content[i], d.Fields.Content[i+1]
		f, ok := form.ParseField(key.Value)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: field %q must be a scalar", val.Line, key.Value)
		}
		out = append(out, fieldValue{Field: f, Value: val.Value})
	}
	return out, nil
}

// build replays the file on a fresh draft. Attachment warnings are returned
// rather than failing the build.
func (d draftFile) build(cats catalog.Catalogs) (form.Draft, []string, error) {
	values, err := d.values()
	if err != nil {
		return form.Draft{}, nil, err
	}
	draft := form.New(cats)
	for _, v := range values {
		draft, _, err = form.Reduce(draft, form.Set(v.Field, v.Value), cats)
		if err != nil {
			return form.Draft{}, nil, fmt.Errorf("field %s: %w", v.Field, err)
		}
	}
	draft.Recaptcha = strings.TrimSpace(d.Recaptcha)

	if len(d.Attachments) == 0 {
		return draft, nil, nil
	}
	files := make([]form.Attachment, 0, len(d.Attachments))
	for _, p := range d.Attachments {
		a, err := d.readAttachment(p)
		if err != nil {
			return form.Draft{}, nil, err
		}
		files = append(files, a)
	}
	draft, warnings, err := form.AddAttachments(draft, files)
	if err != nil {
		return form.Draft{}, nil, err
	}
	return draft, warnings, nil
}

func (d draftFile) readAttachment(p string) (form.Attachment, error) {
	if !filepath.IsAbs(p) && d.dir != "" {
		p = filepath.Join(d.dir, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return form.Attachment{}, fmt.Errorf("attachment: %w", err)
	}
	if len(data) == 0 {
		return form.Attachment{}, errors.New("attachment: " + p + " is empty")
	}
	return form.Attachment{
		Name:        filepath.Base(p),
		Size:        int64(len(data)),
		ContentType: form.DetectContentType(data),
		Data:        data,
	}, nil
}
