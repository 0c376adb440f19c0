package textenc

import (
	"mime"
	"strings"

	"github.com/zostay/go-addr/pkg/addr"
)

// EncodeWord returns s as an RFC 2047 B-encoded UTF-8 word if it contains
// anything other than printable ASCII. Otherwise s is returned unchanged.
func EncodeWord(s string) string {
	return mime.BEncoding.Encode(UTF8, s)
}

// EncodeAddress prepares an address list for a header. Display names needing
// encoding are word-encoded and the address specs are kept as-is. When the
// value does not parse as an address list at all, the whole value is
// word-encoded.
func EncodeAddress(s string) string {
	if !needsEncoding(s) {
		return s
	}

	al, err := addr.ParseEmailAddressList(s)
	if err != nil || len(al) == 0 {
		return EncodeWord(s)
	}

	parts := make([]string, len(al))
	for i, a := range al {
		dn := a.DisplayName()
		if !needsEncoding(dn) {
			parts[i] = strings.TrimSpace(a.OriginalString())
			continue
		}
		parts[i] = EncodeWord(dn) + " <" + a.Address() + ">"
	}

	return strings.Join(parts, ", ")
}

func needsEncoding(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < ' ' || b > '~') && b != '\t' {
			return true
		}
	}
	return false
}

// EncodeRFC2231 returns s as an RFC 2231 extended parameter value in UTF-8,
// e.g. utf-8''r%C3%A9sum%C3%A9.txt.
func EncodeRFC2231(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.WriteString(UTF8)
	b.WriteString("''")
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttributeChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

// isAttributeChar reports whether c may appear unescaped in an RFC 2231
// extended value.
func isAttributeChar(c byte) bool {
	if c <= ' ' || c >= 0x7f {
		return false
	}
	return !strings.ContainsRune("*'%()<>@,;:\\\"/[]?=", rune(c))
}

// QuoteString backslash-escapes double quotes and backslashes so that s can be
// placed inside a quoted-string.
func QuoteString(s string) string {
	if !strings.ContainsAny(s, "\"\\") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
