package textenc

import (
	"strings"
	"time"
)

// Date layouts used in generated documents.
const (
	// VCardTime is the RFC 2425 date-time form used by BDAY.
	VCardTime = "2006-01-02T15:04:05Z"

	// ICalTime is the RFC 2445 UTC date-time form.
	ICalTime = "20060102T150405Z"
)

var directoryEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\n", `\n`,
	"\r", "",
)

// Escape escapes text for a vCard or iCalendar property value.
func Escape(s string) string {
	return directoryEscaper.Replace(s)
}

// FormatVCardTime formats t in UTC for a vCard.
func FormatVCardTime(t time.Time) string {
	return t.UTC().Format(VCardTime)
}

// FormatICalTime formats t in UTC for an iCalendar.
func FormatICalTime(t time.Time) string {
	return t.UTC().Format(ICalTime)
}

// Categories returns a CATEGORIES line built from the escaped keywords joined
// with ", ". It returns false if there are no keywords.
func Categories(keywords []string) (string, bool) {
	if len(keywords) == 0 {
		return "", false
	}

	escaped := make([]string, len(keywords))
	for i, kw := range keywords {
		escaped[i] = Escape(kw)
	}

	return "CATEGORIES:" + strings.Join(escaped, ", "), true
}
