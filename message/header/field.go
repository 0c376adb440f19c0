package header

import "strings"

// MailerDaemon is the sender used when no address can be derived.
const MailerDaemon = "MAILER-DAEMON"

// FindField returns the position of the field named by tag within block, or
// -1 if it is not present. The search is case-insensitive. The returned
// position is that of the line break preceding the field, or 0 when the
// block starts with the field.
func FindField(block, tag string) int {
	if i := indexFold(block, "\n"+tag, 0); i >= 0 {
		return i
	}

	if hasPrefixFold(block, tag) {
		return 0
	}

	return -1
}

// HasField returns true when the field named by tag is in block.
func HasField(block, tag string) bool {
	return FindField(block, tag) >= 0
}

// FieldEnd returns the position of the line break terminating the field found
// at pos, skipping over folded continuation lines. It returns -1 if the field
// runs to the end of block.
func FieldEnd(block string, pos int) int {
	e := indexByteFrom(block, '\n', pos+1)
	for e >= 0 && e+1 < len(block) && (block[e+1] == ' ' || block[e+1] == '\t') {
		e = indexByteFrom(block, '\n', e+1)
	}
	return e
}

// fieldSpan returns the start and end of the field named by tag, with start
// just past any leading line break and end at the terminating line break (or
// the end of block). It returns false if the field is absent.
func fieldSpan(block, tag string) (int, int, bool) {
	pos := FindField(block, tag)
	if pos < 0 {
		return 0, 0, false
	}

	end := FieldEnd(block, pos)
	if end < 0 {
		end = len(block)
	}

	if block[pos] == '\n' {
		pos++
	}

	return pos, end, true
}

// Value returns the body of the field named by tag with folds joined by a
// single space and surrounding whitespace trimmed.
func Value(block, tag string) (string, bool) {
	start, end, found := fieldSpan(block, tag)
	if !found {
		return "", false
	}

	body := block[start+len(tag) : end]
	lines := strings.Split(body, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.TrimSpace(strings.Join(lines, " ")), true
}

// Subfield returns the value of the key=value parameter in the field named by
// tag. A quoted value ends at the next double quote. An unquoted value ends at
// the first semicolon or line break. Either is clipped to the end of the
// field.
func Subfield(block, tag, key string) (string, bool) {
	start, end, found := fieldSpan(block, tag)
	if !found {
		return "", false
	}

	search := " " + key + "="
	s := indexFold(block[:end], search, start)
	if s < 0 {
		return "", false
	}
	s += len(search)

	var e int
	if s < end && block[s] == '"' {
		s++
		e = indexByteFrom(block, '"', s)
	} else {
		e = indexByteFrom(block, ';', s)
		if f := indexByteFrom(block, '\n', s); f >= 0 && (e < 0 || f < e) {
			e = f
		}
	}

	if e < 0 || e > end {
		e = end
	}

	return block[s:e], true
}

// StripField returns a copy of block with every occurrence of the field named
// by tag removed, including folded continuation lines. Block is returned
// unchanged when the field is absent.
func StripField(block, tag string) string {
	for {
		pos := FindField(block, tag)
		if pos < 0 {
			return block
		}

		end := FieldEnd(block, pos)
		if end < 0 {
			block = block[:pos]
			continue
		}

		// a field at the very start has no preceding break to keep, so its
		// own terminating break goes with it
		if pos == 0 && block[0] != '\n' {
			end++
		}

		var b strings.Builder
		b.Grow(len(block) - (end - pos))
		b.WriteString(block[:pos])
		b.WriteString(block[end:])
		block = b.String()
	}
}

// DeriveSender returns the sender address to use for a message. An existing
// address containing "@" wins. Otherwise the address in angle brackets on the
// first line of the From field is used, and failing that MailerDaemon.
func DeriveSender(block, existing string) string {
	if strings.Contains(existing, "@") {
		return existing
	}

	start, _, found := fieldSpan(block, FromTag)
	if !found {
		return MailerDaemon
	}

	n := indexByteFrom(block, '\n', start)
	if n < 0 {
		n = len(block)
	}

	line := block[start:n]
	s := strings.IndexByte(line, '<')
	e := strings.IndexByte(line, '>')
	if s < 0 || e < 0 || e < s {
		return MailerDaemon
	}

	return line[s+1 : e]
}

// indexFold is an ASCII case-insensitive strings.Index that starts looking at
// from. Positions are byte offsets into s.
func indexFold(s, substr string, from int) int {
	n := len(substr)
	for i := from; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && equalFoldASCII(s[:len(prefix)], prefix)
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func indexByteFrom(s string, c byte, from int) int {
	if from >= len(s) {
		return -1
	}
	if i := strings.IndexByte(s[from:], c); i >= 0 {
		return from + i
	}
	return -1
}
