package transfer

import (
	"fmt"
	"io"
)

const (
	None   = ""       // bytes will be left as-is
	Bit7   = "7bit"   // bytes will be left as-is
	Bit8   = "8bit"   // bytes will be left as-is
	Binary = "binary" // bytes will be left as-is
	Base64 = "base64" // bytes will be transformed between base64 and binary data
)

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. You must call Close() on
	// the returned io.WriteCloser when you are finished.
	Encoder func(io.Writer) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// when read and decode the encoded data back into binary form the encoded
	// form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-transfer-encodings and how to
// handle them.
var Transcodings = map[string]Transcoding{
	None:   AsIsTranscoder,
	Bit7:   AsIsTranscoder,
	Bit8:   AsIsTranscoder,
	Binary: AsIsTranscoder,
	Base64: {NewBase64Encoder, NewBase64Decoder},
}

// NeedsBase64 returns true when text contains a control byte other than tab
// or newline. Such text (a UTF-16 body, for example) cannot be sent as 8bit
// and must be base64 encoded.
func NeedsBase64(text []byte) bool {
	for _, b := range text {
		if b < 0x20 && b != '\t' && b != '\n' {
			return true
		}
	}
	return false
}

// EncodingFor returns Base64 when NeedsBase64 is true for text, and None
// otherwise.
func EncodingFor(text []byte) string {
	if NeedsBase64(text) {
		return Base64
	}
	return None
}

// Encode writes data to w using the named transfer encoding and closes the
// encoder.
func Encode(w io.Writer, cte string, data []byte) error {
	tc, ok := Transcodings[cte]
	if !ok {
		return fmt.Errorf("unsupported transfer encoding %q", cte)
	}

	wc := tc.Encoder(w)
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return err
	}

	return wc.Close()
}
