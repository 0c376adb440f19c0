package message

import (
	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
	"github.com/zostay/go-pstmail/message/header"
	"github.com/zostay/go-pstmail/message/transfer"
)

// Body part media types.
const (
	TextPlain = "text/plain"
	TextHTML  = "text/html"
)

// writeBodyPart writes one text body as a part under boundary. Carriage
// returns are removed first. Text marked UTF-8 is labeled utf-8 regardless of
// the charset passed in. Text holding control bytes other than tab and
// newline is base64 encoded, everything else is written as-is.
func writeBodyPart(o *output, boundary, mimeType, charset string, body item.Text) {
	text := []byte(header.StripCR(body.Value))

	if body.UTF8 {
		charset = textenc.UTF8
	}

	cte := transfer.EncodingFor(text)

	o.boundary(boundary)
	o.field("Content-Type", mimeType+`; charset="`+charset+`"`)
	if cte == transfer.Base64 {
		o.field("Content-Transfer-Encoding", transfer.Base64)
	}
	o.print(header.LF.String())

	o.encoded(cte, text)
}
