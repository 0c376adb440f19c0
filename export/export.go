package export

import (
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog"

	"github.com/zostay/go-pstmail/calendar"
	"github.com/zostay/go-pstmail/item"
	"github.com/zostay/go-pstmail/message"
	"github.com/zostay/go-pstmail/vcard"
)

// Document file extensions.
const (
	ExtMessage  = ".eml"
	ExtContact  = ".vcard"
	ExtCalendar = ".ics"
)

// ErrNotExportable is returned by WriteItem for items that have no document
// form: stores, folders, unknown types, and items missing the properties their
// type calls for.
var ErrNotExportable = errors.New("item has no document form")

// Exporter turns items into documents.
type Exporter struct {
	base   zerolog.Logger
	logger zerolog.Logger
	asm    *message.Assembler
	cal    *calendar.Writer
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exporter) {
		e.base = logger
		e.logger = logger.With().Str("component", "exporter").Logger()
	}
}

// WithAssembler sets the Assembler used for mail items.
func WithAssembler(asm *message.Assembler) Option {
	return func(e *Exporter) { e.asm = asm }
}

// WithCalendar sets the calendar Writer used for appointments and journal
// entries.
func WithCalendar(cw *calendar.Writer) Option {
	return func(e *Exporter) { e.cal = cw }
}

// New returns an Exporter. Without options it logs nowhere and uses a default
// Assembler and calendar Writer.
func New(opts ...Option) *Exporter {
	e := &Exporter{base: zerolog.Nop(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.asm == nil {
		e.asm = message.NewAssembler(message.WithLogger(e.base))
	}
	if e.cal == nil {
		e.cal = calendar.NewWriter()
	}
	return e
}

// Ext returns the file extension of the document it becomes. It returns false
// if the item is not exportable.
func Ext(it *item.Item) (string, bool) {
	switch {
	case it.Type == item.TypeContact && it.Contact != nil:
		return ExtContact, true
	case it.Type.IsMail() && it.Email != nil:
		return ExtMessage, true
	case it.Type == item.TypeJournal && it.Journal != nil:
		return ExtCalendar, true
	case it.Type == item.TypeAppointment && it.Appointment != nil:
		return ExtCalendar, true
	}
	return "", false
}

// WriteItem writes the document form of it to w.
func (e *Exporter) WriteItem(w io.Writer, it *item.Item) error {
	if _, ok := Ext(it); !ok {
		return ErrNotExportable
	}

	switch it.Type {
	case item.TypeContact:
		return vcard.Write(w, it)
	case item.TypeJournal:
		return e.cal.WriteJournal(w, it)
	case item.TypeAppointment:
		return e.cal.WriteAppointment(w, it)
	default:
		return e.asm.WriteMessage(w, it)
	}
}

// Export writes every exportable item below root to the sink. Items are named
// after their folder path and their position among the exported items of that
// folder: "Inbox/0001.eml". Skipped items still count toward progress. The
// progress total is the item count of the first folder reporting one.
//
// Only a failure of the sink or of writing a document stops the export.
func (e *Exporter) Export(root *item.Folder, sink Sink) error {
	var (
		index    int
		progress Progress
	)

	var walk FolderWalker = func(depth int, name string, f *item.Folder) error {
		if progress.Total == 0 && f.ItemCount > 0 {
			progress.Total = f.ItemCount
		}

		logger := e.logger.With().Str("folder", name).Logger()
		logger.Debug().Int("depth", depth).Int("items", len(f.Items)).Msg("processing folder")

		number := 1
		for _, it := range f.Items {
			if it == nil {
				continue
			}

			ext, ok := Ext(it)
			if !ok {
				logger.Warn().
					Str("type", it.Type.String()).
					Uint64("item_id", it.BlockID).
					Msg("skipping item with no document form")
				progress.Processed++
				continue
			}

			entry := Entry{
				Index: index,
				Name:  path.Join(name, fmt.Sprintf("%04d%s", number, ext)),
			}
			if err := e.exportItem(sink, entry, it); err != nil {
				return err
			}

			number++
			index++
			progress.Processed++
			if err := sink.Progress(progress); err != nil {
				return fmt.Errorf("reporting progress: %w", err)
			}
		}

		return nil
	}

	return walk.Walk(root)
}

func (e *Exporter) exportItem(sink Sink, entry Entry, it *item.Item) error {
	w, err := sink.Create(entry)
	if err != nil {
		return err
	}

	if err := e.WriteItem(w, it); err != nil {
		_ = w.Close()
		return fmt.Errorf("exporting %s: %w", entry.Name, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", entry.Name, err)
	}

	e.logger.Debug().Int("index", entry.Index).Str("name", entry.Name).Msg("exported item")
	return nil
}
