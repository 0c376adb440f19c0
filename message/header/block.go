package header

import (
	"strings"
	"time"
)

// DefaultReportType is the report-type used for a report with no recovered
// report-type parameter.
const DefaultReportType = "delivery-status"

// stripped lists the fields removed from a recovered header block before it
// is written. The generated MIME structure replaces them.
var stripped = []string{
	MSMailBanner,
	MIMEVersionTag,
	ContentTypeTag,
	ContentTransferEncodingTag,
	ContentClassTag,
	MimeOLETag,
	FromUnderscoreTag,
}

// Presence records which canonical fields a recovered header block already
// carries. A field marked present must not be synthesized again.
type Presence struct {
	From      bool
	To        bool
	Subject   bool
	Cc        bool
	Date      bool
	MessageID bool
}

// Block is a recovered header block ready to be written at the top of a
// message.
type Block struct {
	// Text is the header text with carriage returns and the MIME fields
	// removed. When not empty, it ends with a line break.
	Text string

	// Rest is everything after the first blank line of the recovered blob.
	// For stores that keep the full transport headers, this is the chain of
	// MIME part headers that follow the message header.
	Rest string

	Has Presence

	// Charset is the charset parameter of the recovered Content-Type, if
	// any.
	Charset string

	// ReportType is the report-type parameter of the recovered
	// Content-Type, if any.
	ReportType string
}

// Analyze splits blob at its first blank line and prepares the header part for
// output. Presence flags and Content-Type parameters are computed before the
// MIME fields are stripped.
func Analyze(blob string) *Block {
	blob = StripCR(blob)

	b := &Block{}
	if i := strings.Index(blob, "\n\n"); i >= 0 {
		b.Rest = blob[i+2:]
		blob = blob[:i+1]
	}

	b.Has = Presence{
		From:      HasField(blob, FromTag),
		To:        HasField(blob, ToTag),
		Subject:   HasField(blob, SubjectTag),
		Cc:        HasField(blob, CcTag),
		Date:      HasField(blob, DateTag),
		MessageID: HasField(blob, MessageIDTag),
	}

	b.Charset, _ = Subfield(blob, ContentTypeTag, "charset")
	b.ReportType, _ = Subfield(blob, ContentTypeTag, "report-type")

	for _, tag := range stripped {
		blob = StripField(blob, tag)
	}

	if blob != "" && !strings.HasSuffix(blob, LF.String()) {
		blob += LF.String()
	}
	b.Text = blob

	return b
}

// Sender is DeriveSender on the block's text.
func (b *Block) Sender(existing string) string {
	return DeriveSender(b.Text, existing)
}

// Date parses the block's Date field.
func (b *Block) Date() (time.Time, error) {
	v, found := Value(b.Text, DateTag)
	if !found {
		return time.Time{}, ErrNoSuchField
	}
	return ParseTime(v)
}
