package message

import (
	"fmt"

	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
	"github.com/zostay/go-pstmail/message/transfer"
)

// DefaultAttachmentType is the Content-Type of an attachment that declares
// none.
const DefaultAttachmentType = "application/octet-stream"

// writeAttachments writes every attachment of it as a part under boundary, in
// list order. Attachments that cannot be written are logged and skipped. Only
// a failure of the output stream is returned.
func (s *session) writeAttachments(it *item.Item, boundary string, depth int) error {
	for _, att := range it.Attachments {
		switch att.Method {
		case item.MethodEmbedded:
			if err := s.writeEmbedded(att, boundary, depth); err != nil {
				return err
			}
		default:
			if att.HasContent() {
				s.writeInline(it, att, boundary)
			}
		}

		if s.o.err != nil {
			return s.o.err
		}
	}

	return nil
}

// writeInline writes a normal attachment. The bytes are fetched from the
// source when the attachment does not carry them.
func (s *session) writeInline(it *item.Item, att *item.Attachment, boundary string) {
	data := att.Data
	if data == nil {
		var err error
		data, err = s.a.src.FetchAttachment(att)
		if err != nil {
			s.a.logger.Warn().
				Err(err).
				Uint64("item_id", it.BlockID).
				Uint64("attachment_id", att.ID).
				Msg("skipping attachment without data")
			return
		}
	}

	mimeType := textenc.ItemText(it, att.MimeType)
	if mimeType == "" {
		mimeType = DefaultAttachmentType
	}

	o := s.o
	o.boundary(boundary)
	o.field("Content-Type", mimeType)
	o.field("Content-Transfer-Encoding", transfer.Base64)

	if att.ContentID.IsSet() {
		o.field("Content-ID", "<"+textenc.ItemText(it, att.ContentID)+">")
	}

	o.field("Content-Disposition", disposition(
		textenc.ItemText(it, att.LongFilename),
		textenc.ItemText(it, att.Filename),
	))
	o.print("\n")

	o.encoded(transfer.Base64, data)
	o.print("\n")
}

// disposition returns the Content-Disposition field body for an attachment.
// A long name is given both RFC 2231 encoded and as a quoted UTF-8 string,
// which is the form Outlook reads. A short name never needs encoding. Without
// any name the part is inline.
func disposition(long, short string) string {
	switch {
	case long != "":
		return fmt.Sprintf("attachment; \n        filename*=%s;\n        filename=\"%s\"",
			textenc.EncodeRFC2231(long), textenc.QuoteString(long))
	case short != "":
		return fmt.Sprintf("attachment; filename=\"%s\"", short)
	default:
		return "inline"
	}
}

// writeEmbedded writes an embedded message as a message/rfc822 part holding
// the complete assembled document of the inner item. The carried context is
// moved forward first so the inner item can pick up its real header block
// when its own is unusable.
func (s *session) writeEmbedded(att *item.Attachment, boundary string, depth int) error {
	s.ctx.RecoverNested()

	inner := att.Embedded
	if inner == nil {
		var err error
		inner, err = s.a.src.ParseEmbedded(att)
		if err != nil {
			s.a.logger.Warn().
				Err(err).
				Uint64("attachment_id", att.ID).
				Msg("skipping embedded message")
			return nil
		}
	}

	if inner.Email == nil {
		s.a.logger.Warn().
			Err(item.ErrUnparseableEmbedded).
			Uint64("attachment_id", att.ID).
			Stringer("type", inner.Type).
			Msg("skipping embedded item that is not a message")
		return nil
	}

	if depth+1 > s.a.maxDepth {
		s.a.logger.Warn().
			Err(ErrNestingTooDeep).
			Uint64("attachment_id", att.ID).
			Int("depth", depth+1).
			Msg("skipping embedded message")
		return nil
	}

	s.o.boundary(boundary)
	s.o.field("Content-Type", rfc822)
	s.o.print("\n")

	return s.write(inner, depth+1)
}
