package header

import (
	"errors"
	"strings"
)

// ErrNoSuchField is returned when the field requested is not in the block.
var ErrNoSuchField = errors.New("no such header field")

// Break represents the linebreak to use when working with an email.
type Break string

// Constants for the line breaks found in recovered text. Generated documents
// always use LF.
const (
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - Commodores/old Macs linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// StripCR removes every carriage return from s, turning CRLF into LF.
func StripCR(s string) string {
	if !strings.Contains(s, CR.String()) {
		return s
	}
	return strings.ReplaceAll(s, CR.String(), "")
}
