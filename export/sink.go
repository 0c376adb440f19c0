package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrUnsafeName is returned by DirSink when an entry name would leave the
// output directory.
var ErrUnsafeName = errors.New("document name leaves the output directory")

// Entry describes one exported document.
type Entry struct {
	// Index counts exported documents across the whole tree, from 0.
	Index int

	// Name is the slash-separated path of the document, e.g.
	// "Inbox/0001.eml".
	Name string
}

// Progress reports how far an export has come.
type Progress struct {
	Processed int
	Total     int
}

// Sink receives the documents of an export.
type Sink interface {
	// Create returns the writer a document is written to. The exporter closes
	// it once the document is complete.
	Create(e Entry) (io.WriteCloser, error)

	// Progress is called after each exported document.
	Progress(p Progress) error
}

// DirSink writes each document to a file below a directory, creating folders
// as needed. It ignores progress.
type DirSink struct {
	Dir string
}

// Create opens the file named by the entry for writing.
func (d *DirSink) Create(e Entry) (io.WriteCloser, error) {
	rel := filepath.FromSlash(e.Name)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %q", ErrUnsafeName, e.Name)
	}

	p := filepath.Join(d.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("creating folder for %s: %w", e.Name, err)
	}

	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", e.Name, err)
	}
	return f, nil
}

// Progress does nothing.
func (d *DirSink) Progress(Progress) error {
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
