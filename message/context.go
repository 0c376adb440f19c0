package message

import (
	"strings"

	"github.com/zostay/go-pstmail/message/header"
)

// rfc822 is the content type of an embedded message part.
const rfc822 = "message/rfc822"

// Context carries the MIME part headers of the outermost message down into
// its embedded messages. Stores that keep full transport headers keep the
// whole MIME skeleton of the original message after the first blank line.
// The header block of each embedded message sits right after the part
// headers announcing it as message/rfc822.
//
// A Context belongs to a single outer message. Scanning only moves forward.
type Context struct {
	rest string
}

// Remaining returns the unscanned part of the carried text.
func (c *Context) Remaining() string {
	return c.rest
}

// Seed sets the carried text if nothing is being carried yet.
func (c *Context) Seed(rest string) {
	if c.rest == "" {
		c.rest = rest
	}
}

// RecoverNested moves forward group by group, where groups are separated by
// blank lines, to the group following the next one whose Content-Type is
// message/rfc822. It returns true if such a group was found. If none is
// found, the context is left at the final group.
func (c *Context) RecoverNested() bool {
	for {
		i := strings.Index(c.rest, "\n\n")
		if i < 0 {
			return false
		}

		group := c.rest[:i+1]
		c.rest = c.rest[i+2:]

		v, found := header.Value(group, header.ContentTypeTag)
		if !found {
			continue
		}

		if semi := strings.IndexByte(v, ';'); semi >= 0 {
			v = v[:semi]
		}

		if strings.EqualFold(strings.TrimSpace(v), rfc822) {
			return true
		}
	}
}

// fallback returns the carried text if it can serve as a header block.
func (c *Context) fallback() (string, bool) {
	if header.Valid(c.rest) {
		return c.rest, true
	}
	return "", false
}

// consume moves past a header block taken from the context.
func (c *Context) consume(b *header.Block) {
	c.rest = b.Rest
}
