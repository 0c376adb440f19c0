package textenc

import (
	"fmt"
	"io"
	"strings"
)

// Lines collects the content lines of a vCard or iCalendar document. Every
// line ends in LF.
type Lines struct {
	b strings.Builder
}

// Add appends one line.
func (l *Lines) Add(s string) {
	l.b.WriteString(s)
	l.b.WriteByte('\n')
}

// Addf appends one formatted line.
func (l *Lines) Addf(format string, args ...any) {
	fmt.Fprintf(&l.b, format, args...)
	l.b.WriteByte('\n')
}

// AddText appends name:value with value escaped. Nothing is added when value
// is empty.
func (l *Lines) AddText(name, value string) {
	if value != "" {
		l.Add(name + ":" + Escape(value))
	}
}

// String returns the collected lines.
func (l *Lines) String() string {
	return l.b.String()
}

// WriteTo writes the collected lines to w.
func (l *Lines) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, l.b.String())
	return int64(n), err
}
