// Package textenc holds the small text transformations needed when writing
// documents: charset selection and conversion, MIME word encoding of header
// text, RFC 2231 parameter encoding, and the escaping and date formats used by
// vCard and iCalendar.
package textenc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-pstmail/item"
)

// FallbackCharset is used when an item names no charset or code page. It may
// be changed by configuration.
var FallbackCharset = "iso-8859-1"

// UTF8 is the charset name used for text known to be UTF-8.
const UTF8 = "utf-8"

// codepages maps the Windows code pages that have a preferred MIME name. Any
// other code page is named windows-<n>.
var codepages = map[int]string{
	932:   "iso-2022-jp",
	936:   "gb2312",
	950:   "big5",
	1200:  "ucs-2le",
	1201:  "ucs-2be",
	20127: "us-ascii",
	20269: "iso-6937",
	20865: "iso-8859-15",
	20866: "koi8-r",
	21866: "koi8-u",
	28591: "iso-8859-1",
	28592: "iso-8859-2",
	28595: "iso-8859-5",
	28596: "iso-8859-6",
	28597: "iso-8859-7",
	28598: "iso-8859-8",
	28599: "iso-8859-9",
	28600: "iso-8859-10",
	28601: "iso-8859-11",
	28602: "iso-8859-12",
	28603: "iso-8859-13",
	28604: "iso-8859-14",
	28605: "iso-8859-15",
	28606: "iso-8859-16",
	50220: "iso-2022-jp",
	50221: "csiso2022jp",
	51932: "euc-jp",
	51949: "euc-kr",
	65000: "utf-7",
	65001: "utf-8",
}

// CodepageCharset returns the MIME charset name for a Windows code page.
func CodepageCharset(cp int) string {
	if cs, ok := codepages[cp]; ok {
		return cs
	}
	return fmt.Sprintf("windows-%d", cp)
}

// DefaultCharset picks the charset for an item's 8-bit text: the explicit body
// charset, then the message code page, then the internet code page, then
// FallbackCharset.
func DefaultCharset(it *item.Item) string {
	switch {
	case it.BodyCharset != "":
		return it.BodyCharset
	case it.MessageCodepage != 0:
		return CodepageCharset(it.MessageCodepage)
	case it.InternetCodepage != 0:
		return CodepageCharset(it.InternetCodepage)
	default:
		return FallbackCharset
	}
}

// ToUTF8 returns the value of t as UTF-8. Text already marked UTF-8 is
// returned unchanged. Otherwise it is decoded from charset. If the charset is
// unknown or the decode fails, the raw value is returned.
func ToUTF8(t item.Text, charset string) string {
	if t.UTF8 || t.Value == "" || isASCII(t.Value) {
		return t.Value
	}

	if strings.EqualFold(charset, UTF8) {
		return t.Value
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil || e == nil {
		return t.Value
	}

	s, err := e.NewDecoder().String(t.Value)
	if err != nil {
		return t.Value
	}

	return s
}

// ItemText is ToUTF8 using the item's default charset.
func ItemText(it *item.Item, t item.Text) string {
	return ToUTF8(t, DefaultCharset(it))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
