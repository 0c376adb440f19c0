package header

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Field tags as they are searched for in a recovered header block. Each tag
// includes the colon so that a search for "To:" does not match "Token:".
const (
	ContentTypeTag             = "Content-Type:"
	ContentTransferEncodingTag = "Content-Transfer-Encoding:"
	ContentClassTag            = "Content-class:"
	DateTag                    = "Date:"
	FromTag                    = "From:"
	ToTag                      = "To:"
	CcTag                      = "CC:"
	SubjectTag                 = "Subject:"
	MessageIDTag               = "Message-Id:"
	MIMEVersionTag             = "MIME-Version:"
	MimeOLETag                 = "X-MimeOLE:"
	FromUnderscoreTag          = "X-From_:"

	// MSMailBanner is the banner some stores put at the top of the header
	// block. It is not a field but is stripped like one.
	MSMailBanner = "Microsoft Mail Internet Headers"
)

// validStarts lists the leading text that marks a recovered blob as a
// genuine header block. These are the field names seen at the top of header
// blocks in real stores.
var validStarts = []string{
	"Content-Type: ",
	"Date: ",
	"From: ",
	"MIME-Version: ",
	MSMailBanner,
	"Received: ",
	"Return-Path: ",
	"Subject: ",
	"To: ",
	"X-ASG-Debug-ID: ",
	"X-Barracuda-URL: ",
	"X-x: ",
}

// foldAfterTag is accepted in place of the space that normally follows a
// leading field tag.
const foldAfterTag = "\r\n\t"

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Valid returns true if blob begins the way a real header block does.
// Recovered header properties are often fragments of a message body, so a
// blob is only trusted when it starts with one of a known set of field tags.
// A tag followed by a folded line break instead of a space also matches.
func Valid(blob string) bool {
	for _, tag := range validStarts {
		if hasPrefixFold(blob, tag) {
			return true
		}

		if !strings.HasSuffix(tag, " ") {
			continue
		}

		bare := tag[:len(tag)-1]
		if hasPrefixFold(blob, bare) && hasPrefixFold(blob[len(bare):], foldAfterTag) {
			return true
		}
	}

	return false
}

// ParseTime will parse a date from a header field body. It tries RFC 5322
// first and then falls back onto more lenient parsing.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// FormatTime formats t the way a synthesized Date field is written: RFC 1123
// with a numeric zone, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
