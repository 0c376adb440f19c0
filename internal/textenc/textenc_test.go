package textenc_test

import (
	"mime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/item"
)

func TestCodepageCharset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "utf-8", textenc.CodepageCharset(65001))
	assert.Equal(t, "iso-2022-jp", textenc.CodepageCharset(932))
	assert.Equal(t, "windows-1252", textenc.CodepageCharset(1252))
}

func TestDefaultCharset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "koi8-r", textenc.DefaultCharset(&item.Item{
		BodyCharset:     "koi8-r",
		MessageCodepage: 1252,
	}))
	assert.Equal(t, "windows-1250", textenc.DefaultCharset(&item.Item{
		MessageCodepage:  1250,
		InternetCodepage: 65001,
	}))
	assert.Equal(t, "utf-8", textenc.DefaultCharset(&item.Item{
		InternetCodepage: 65001,
	}))
	assert.Equal(t, textenc.FallbackCharset, textenc.DefaultCharset(&item.Item{}))
}

func TestToUTF8(t *testing.T) {
	t.Parallel()

	latin := item.Text{Value: "caf\xe9"}
	assert.Equal(t, "café", textenc.ToUTF8(latin, "iso-8859-1"))
	assert.Equal(t, "café", textenc.ToUTF8(item.UTF8Text("café"), "iso-8859-1"))
	assert.Equal(t, "plain", textenc.ToUTF8(item.Text{Value: "plain"}, "bogus"))
	assert.Equal(t, "caf\xe9", textenc.ToUTF8(latin, "no-such-charset"))
}

func TestEncodeWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello", textenc.EncodeWord("Hello"))

	enc := textenc.EncodeWord("Grüße")
	assert.Equal(t, "=?utf-8?b?R3LDvMOfZQ==?=", enc)

	dec, err := new(mime.WordDecoder).DecodeHeader(enc)
	require.NoError(t, err)
	assert.Equal(t, "Grüße", dec)
}

func TestEncodeAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bob <bob@example.com>", textenc.EncodeAddress("Bob <bob@example.com>"))

	enc := textenc.EncodeAddress("Zoë <zoe@example.com>")
	assert.Contains(t, enc, "=?utf-8?b?")

	dec, err := new(mime.WordDecoder).DecodeHeader(enc)
	require.NoError(t, err)
	assert.Equal(t, "Zoë <zoe@example.com>", dec)

	dec, err = new(mime.WordDecoder).DecodeHeader(textenc.EncodeAddress("Zoë; Ångström"))
	require.NoError(t, err)
	assert.Equal(t, "Zoë; Ångström", dec)

	enc = textenc.EncodeAddress("Bob <bob@example.com>, Zoë <zoe@example.com>")
	assert.True(t, strings.HasPrefix(enc, "Bob <bob@example.com>, =?utf-8?b?"), enc)

	dec, err = new(mime.WordDecoder).DecodeHeader(enc)
	require.NoError(t, err)
	assert.Equal(t, "Bob <bob@example.com>, Zoë <zoe@example.com>", dec)
}

func TestEncodeRFC2231(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "utf-8''report.txt", textenc.EncodeRFC2231("report.txt"))
	assert.Equal(t, "utf-8''r%C3%A9sum%C3%A9%20final.doc", textenc.EncodeRFC2231("résumé final.doc"))
}

func TestQuoteString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain.txt", textenc.QuoteString("plain.txt"))
	assert.Equal(t, `say \"hi\" \\ bye`, textenc.QuoteString(`say "hi" \ bye`))
}

func TestEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\;b\,c\\d\ne`, textenc.Escape("a;b,c\\d\r\ne"))
	assert.Equal(t, "nothing", textenc.Escape("nothing"))
}

func TestFormatTimes(t *testing.T) {
	t.Parallel()

	ts := time.Date(2009, 2, 13, 18, 31, 30, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "20090213T233130Z", textenc.FormatICalTime(ts))
	assert.Equal(t, "2009-02-13T23:31:30Z", textenc.FormatVCardTime(ts))
}

func TestCategories(t *testing.T) {
	t.Parallel()

	line, ok := textenc.Categories([]string{"Work", "Q1; urgent"})
	assert.True(t, ok)
	assert.Equal(t, `CATEGORIES:Work, Q1\; urgent`, line)

	_, ok = textenc.Categories(nil)
	assert.False(t, ok)
}
