package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message/textproto"
)

// Placeholder marks where the document name goes in a FormSink metadata
// template. It must appear inside a JSON string.
const Placeholder = "FILENAME"

// DefaultTemplate is the metadata template used when none is given.
const DefaultTemplate = `{"filename":"` + Placeholder + `"}`

// ErrNoPlaceholder is returned when a metadata template has no place for the
// document name.
var ErrNoPlaceholder = errors.New("metadata template has no " + Placeholder + " placeholder")

type progressCounts struct {
	Processed int `json:"nProcessed"`
	Total     int `json:"nTotal"`
}

type progressDoc struct {
	Children progressCounts `json:"children"`
}

// FormSink streams an export as a multipart/form-data body. Each document is
// sent as two parts: "<index>.json" holding the metadata template filled in
// with the document name, then "<index>.blob" holding the document itself.
// Every document is followed by a "progress" part.
type FormSink struct {
	mw       *textproto.MultipartWriter
	template string
	closed   bool
}

// NewFormSink returns a FormSink writing to w with the given boundary. The
// template is a JSON document containing Placeholder inside a string. An empty
// template means DefaultTemplate.
func NewFormSink(w io.Writer, boundary, template string) (*FormSink, error) {
	if template == "" {
		template = DefaultTemplate
	}
	if !strings.Contains(template, Placeholder+`"`) {
		return nil, ErrNoPlaceholder
	}

	mw := textproto.NewMultipartWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return nil, fmt.Errorf("form boundary %q: %w", boundary, err)
	}

	return &FormSink{mw: mw, template: template}, nil
}

func (f *FormSink) part(name string) (io.Writer, error) {
	var h textproto.Header
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": name}))
	return f.mw.CreatePart(h)
}

func (f *FormSink) text(name, body string) error {
	w, err := f.part(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, body)
	return err
}

func (f *FormSink) metadata(name string) (string, error) {
	quoted, err := json.Marshal(name)
	if err != nil {
		return "", err
	}
	escaped := string(quoted[1 : len(quoted)-1])
	return strings.Replace(f.template, Placeholder+`"`, escaped+`"`, 1), nil
}

// Create writes the metadata part for the entry and starts its blob part.
func (f *FormSink) Create(e Entry) (io.WriteCloser, error) {
	meta, err := f.metadata(e.Name)
	if err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", e.Name, err)
	}

	if err := f.text(fmt.Sprintf("%d.json", e.Index), meta); err != nil {
		return nil, err
	}

	w, err := f.part(fmt.Sprintf("%d.blob", e.Index))
	if err != nil {
		return nil, err
	}
	return nopCloser{w}, nil
}

// Progress writes a progress part.
func (f *FormSink) Progress(p Progress) error {
	doc, err := json.Marshal(progressDoc{progressCounts(p)})
	if err != nil {
		return err
	}
	return f.text("progress", string(doc))
}

// Fail writes an "error" part describing err and closes the body.
func (f *FormSink) Fail(err error) error {
	if werr := f.text("error", err.Error()); werr != nil {
		return werr
	}
	return f.Close()
}

// Close writes the closing boundary. Calling it more than once does nothing.
func (f *FormSink) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.mw.Close()
}
