package message

import (
	"fmt"
	"io"

	"github.com/zostay/go-pstmail/message/header"
	"github.com/zostay/go-pstmail/message/transfer"
)

// output wraps the destination writer. The first write error sticks and every
// later write is skipped, so a document can be written without checking each
// line. The error is checked once at the end.
type output struct {
	w   io.Writer
	n   int64
	err error
}

func (o *output) Write(p []byte) (int, error) {
	if o.err != nil {
		return 0, o.err
	}

	n, err := o.w.Write(p)
	o.n += int64(n)
	o.err = err
	return n, err
}

func (o *output) print(s string) {
	_, _ = io.WriteString(o, s)
}

func (o *output) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, _ = fmt.Fprintf(o, format, args...)
}

// field writes a field name and body followed by a line break.
func (o *output) field(name, body string) {
	o.printf("%s: %s%s", name, body, header.LF)
}

// boundary starts a new part.
func (o *output) boundary(b string) {
	o.printf("\n--%s\n", b)
}

// closeBoundary ends a multipart body.
func (o *output) closeBoundary(b string) {
	o.printf("\n--%s--\n", b)
}

// encoded writes data with the given transfer encoding.
func (o *output) encoded(cte string, data []byte) {
	if o.err != nil {
		return
	}
	if err := transfer.Encode(o, cte, data); err != nil && o.err == nil {
		o.err = err
	}
}
