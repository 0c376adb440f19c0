package message_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pstmail/calendar"
	"github.com/zostay/go-pstmail/item"
	"github.com/zostay/go-pstmail/message"
)

// part is one leaf of a parsed message.
type part struct {
	mediaType  string
	params     map[string]string
	filename   string
	attachment bool
	body       string
}

func render(t *testing.T, it *item.Item, opts ...message.Option) string {
	t.Helper()

	buf := &bytes.Buffer{}
	require.NoError(t, message.NewAssembler(opts...).WriteMessage(buf, it))
	return buf.String()
}

func parse(t *testing.T, doc string) (*mail.Reader, []part) {
	t.Helper()

	mr, err := mail.CreateReader(strings.NewReader(doc))
	require.NoError(t, err)

	var parts []part
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		body, err := io.ReadAll(p.Body)
		require.NoError(t, err)

		pp := part{body: string(body)}
		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			pp.mediaType, pp.params, err = h.ContentType()
			require.NoError(t, err)
		case *mail.AttachmentHeader:
			pp.attachment = true
			pp.mediaType, pp.params, err = h.ContentType()
			require.NoError(t, err)
			pp.filename, _ = h.Filename()
		}

		parts = append(parts, pp)
	}

	return mr, parts
}

func tp(t time.Time) *time.Time { return &t }

func noteItem() *item.Item {
	return &item.Item{
		Type:    item.TypeNote,
		BlockID: 0x1234,
		Subject: item.UTF8Text("Grüße aus Berlin"),
		Body:    item.UTF8Text("plain body\r\nline two\n"),
		Read:    true,
		Email: &item.Envelope{
			HTMLBody:      item.UTF8Text("<p>html body</p>"),
			SenderAddress: item.UTF8Text("alice@example.com"),
			SenderName:    item.UTF8Text("Alice Liddell"),
			SentTo:        item.UTF8Text("Bob <bob@example.com>"),
			Cc:            item.UTF8Text("carol@example.com"),
			Bcc:           item.UTF8Text("dave@example.com"),
			MessageID:     item.UTF8Text("<42@example.com>"),
			SentDate:      tp(time.Date(2009, 2, 13, 23, 31, 30, 0, time.UTC)),
		},
	}
}

func TestWriteMessage_Synthesized(t *testing.T) {
	t.Parallel()

	doc := render(t, noteItem())
	mr, parts := parse(t, doc)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Grüße aus Berlin", subject)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Alice Liddell", from[0].Name)
	assert.Equal(t, "alice@example.com", from[0].Address)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "bob@example.com", to[0].Address)

	date, err := mr.Header.Date()
	require.NoError(t, err)
	assert.True(t, time.Date(2009, 2, 13, 23, 31, 30, 0, time.UTC).Equal(date))

	assert.Equal(t, "RO", mr.Header.Get("Status"))
	assert.Equal(t, "carol@example.com", mr.Header.Get("Cc"))
	assert.Equal(t, "<42@example.com>", mr.Header.Get("Message-Id"))
	assert.Equal(t, "dave@example.com", mr.Header.Get(message.ForensicBccField))
	assert.Empty(t, mr.Header.Get(message.ForensicSenderField))
	assert.Equal(t, "1.0", mr.Header.Get("MIME-Version"))
	assert.Contains(t, doc, "Date: Fri, 13 Feb 2009 23:31:30 +0000\n")

	ct, _, err := mr.Header.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", ct)

	require.Len(t, parts, 2)
	assert.Equal(t, "text/plain", parts[0].mediaType)
	assert.Equal(t, "utf-8", parts[0].params["charset"])
	assert.Equal(t, "plain body\nline two\n", parts[0].body)
	assert.Equal(t, "text/html", parts[1].mediaType)
	assert.Equal(t, "<p>html body</p>", parts[1].body)

	assert.Contains(t, doc, "Content-Type: multipart/alternative;\n\tboundary=\"alt---boundary-PST-iamunique-")
	assert.True(t, strings.HasSuffix(doc, "_-_---\n\n"))
}

func TestWriteMessage_CanonicalFieldsOnce(t *testing.T) {
	t.Parallel()

	it := noteItem()
	it.Email.Header = item.UTF8Text("Received: from mx.example.com\r\n" +
		"Subject: recovered subject\r\n" +
		"Content-Type: text/plain; charset=\"koi8-r\"\r\n" +
		"X-MimeOLE: Produced By Microsoft MimeOLE\r\n" +
		"\r\n")
	it.Body = item.Text{Value: "plain"}
	it.Email.HTMLBody = item.Text{}

	doc := render(t, it)
	mr, parts := parse(t, doc)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "recovered subject", subject)

	for _, name := range []string{"From:", "Subject:", "To:", "Cc:", "Date:", "Message-Id:", "MIME-Version:"} {
		assert.Equal(t, 1, strings.Count(strings.ToLower(doc), "\n"+strings.ToLower(name))+
			boolInt(strings.HasPrefix(strings.ToLower(doc), strings.ToLower(name))), name)
	}

	assert.True(t, strings.HasPrefix(doc, "Received: from mx.example.com\nSubject: recovered subject\nStatus: RO\n"))
	assert.NotContains(t, doc, "X-MimeOLE")
	head := doc[:strings.Index(doc, "\n\n")]
	assert.NotContains(t, head, "koi8-r")

	require.Len(t, parts, 1)
	assert.Equal(t, "koi8-r", parts[0].params["charset"])
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestWriteMessage_InvalidHeaderIgnored(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("Status"),
		Body:    item.UTF8Text("body"),
		Email: &item.Envelope{
			Header:   item.UTF8Text("Dear Bob, the report is attached.\r\nFrom: nobody\r\n"),
			SentDate: tp(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
	}

	doc := render(t, it)
	assert.NotContains(t, doc, "Dear Bob")
	assert.NotContains(t, doc, "nobody")
	assert.True(t, strings.HasPrefix(doc, "From: <MAILER-DAEMON>\nSubject: Status\nDate: Thu, 02 Jan 2020 03:04:05 +0000\n"))
}

func TestWriteMessage_ForensicSender(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("x500"),
		Body:    item.UTF8Text("see header"),
		Email: &item.Envelope{
			SenderAddress: item.UTF8Text("/O=EXAMPLE/OU=FIRST/CN=RECIPIENTS/CN=ALICE"),
			Header: item.UTF8Text("From: Alice <alice@example.com>\n" +
				"To: bob@example.com\n"),
		},
	}

	doc := render(t, it)
	assert.Contains(t, doc, "\n"+message.ForensicSenderField+": /O=EXAMPLE/OU=FIRST/CN=RECIPIENTS/CN=ALICE\n")

	mr, parts := parse(t, doc)
	assert.Equal(t, "/O=EXAMPLE/OU=FIRST/CN=RECIPIENTS/CN=ALICE", mr.Header.Get(message.ForensicSenderField))
	require.Len(t, parts, 1)
	assert.Equal(t, "see header", parts[0].body)

	it.Email.SenderAddress = item.UTF8Text(".")
	doc = render(t, it)
	assert.NotContains(t, doc, message.ForensicSenderField)
}

func TestWriteMessage_Base64Body(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("binary"),
		Body:    item.UTF8Text("a\x01b\tc\r\nd\n"),
		Email:   &item.Envelope{},
	}

	doc := render(t, it)
	assert.Contains(t, doc, "Content-Type: text/plain; charset=\"utf-8\"\nContent-Transfer-Encoding: base64\n\n")

	_, parts := parse(t, doc)
	require.Len(t, parts, 1)
	assert.Equal(t, "a\x01b\tc\nd\n", parts[0].body)
}

func TestWriteMessage_PlainBodyNotEncoded(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("plain"),
		Body:    item.Text{Value: "tabs\tand\nnewlines only\n"},
		Email:   &item.Envelope{},
	}

	doc := render(t, it)
	assert.NotContains(t, doc, "Content-Transfer-Encoding")
	assert.Contains(t, doc, "Content-Type: text/plain; charset=\"iso-8859-1\"\n\ntabs\tand\nnewlines only\n")
}

type fakeSource struct {
	data     map[uint64][]byte
	embedded map[uint64]*item.Item
}

func (f fakeSource) FetchAttachment(a *item.Attachment) ([]byte, error) {
	if d, ok := f.data[a.ID]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("attachment %d: %w", a.ID, item.ErrMissingAttachmentData)
}

func (f fakeSource) ParseEmbedded(a *item.Attachment) (*item.Item, error) {
	if it, ok := f.embedded[a.ID]; ok {
		return it, nil
	}
	return nil, fmt.Errorf("attachment %d: %w", a.ID, item.ErrUnparseableEmbedded)
}

func TestWriteMessage_Attachments(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("files"),
		Body:    item.UTF8Text("see attached"),
		Email:   &item.Envelope{},
		Attachments: []*item.Attachment{
			{
				MimeType:     item.UTF8Text("application/pdf"),
				LongFilename: item.UTF8Text(`résumé "v2".pdf`),
				Filename:     item.UTF8Text("RESUME~1.PDF"),
				ContentID:    item.UTF8Text("cid1@example.com"),
				Data:         []byte("PDFDATA"),
			},
			{Filename: item.UTF8Text("notes.txt"), ID: 7},
			{ID: 99, Filename: item.UTF8Text("missing.bin")},
			{Data: []byte{0x00, 0x01, 0x02}},
			{Filename: item.UTF8Text("nothing.bin")},
		},
	}

	src := fakeSource{data: map[uint64][]byte{7: []byte("fetched bytes")}}
	doc := render(t, it, message.WithSource(src))

	assert.Contains(t, doc, "Content-Type: application/pdf\n"+
		"Content-Transfer-Encoding: base64\n"+
		"Content-ID: <cid1@example.com>\n"+
		"Content-Disposition: attachment; \n"+
		"        filename*=utf-8''r%C3%A9sum%C3%A9%20%22v2%22.pdf;\n"+
		"        filename=\"résumé \\\"v2\\\".pdf\"\n\n")
	assert.Contains(t, doc, "Content-Type: application/octet-stream\n"+
		"Content-Transfer-Encoding: base64\n"+
		"Content-Disposition: attachment; filename=\"notes.txt\"\n\n")
	assert.Contains(t, doc, "Content-Disposition: inline\n\n")
	assert.NotContains(t, doc, "missing.bin")
	assert.NotContains(t, doc, "nothing.bin")

	_, parts := parse(t, doc)
	require.Len(t, parts, 4)

	assert.Equal(t, "see attached", parts[0].body)

	assert.True(t, parts[1].attachment)
	assert.Equal(t, `résumé "v2".pdf`, parts[1].filename)
	assert.Equal(t, "PDFDATA", parts[1].body)

	assert.True(t, parts[2].attachment)
	assert.Equal(t, "notes.txt", parts[2].filename)
	assert.Equal(t, "application/octet-stream", parts[2].mediaType)
	assert.Equal(t, "fetched bytes", parts[2].body)

	assert.False(t, parts[3].attachment)
	assert.Equal(t, "\x00\x01\x02", parts[3].body)
}

func TestWriteMessage_EmbeddedFailureSkipsOnlyThatPart(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("forwarded"),
		Body:    item.UTF8Text("outer body"),
		Email:   &item.Envelope{},
		Attachments: []*item.Attachment{
			{Method: item.MethodEmbedded, ID: 5},
			{Method: item.MethodEmbedded, Embedded: &item.Item{Type: item.TypeContact}},
			{Filename: item.UTF8Text("after.txt"), Data: []byte("still here")},
		},
	}

	doc := render(t, it)
	assert.NotContains(t, doc, "message/rfc822")

	_, parts := parse(t, doc)
	require.Len(t, parts, 2)
	assert.Equal(t, "outer body", parts[0].body)
	assert.Equal(t, "after.txt", parts[1].filename)
	assert.Equal(t, "still here", parts[1].body)
}

func TestWriteMessage_Embedded(t *testing.T) {
	t.Parallel()

	inner := &item.Item{
		Type: item.TypeNote,
		Body: item.UTF8Text("inner body"),
		Email: &item.Envelope{
			Header: item.UTF8Text("From: Zed <zed@example.com>\r\nSubject: inner subject\r\n"),
		},
	}

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("fwd"),
		Body:    item.UTF8Text("outer body"),
		Email:   &item.Envelope{},
		Attachments: []*item.Attachment{
			{Method: item.MethodEmbedded, ID: 3},
		},
	}

	src := fakeSource{embedded: map[uint64]*item.Item{3: inner}}
	_, parts := parse(t, render(t, it, message.WithSource(src)))
	require.Len(t, parts, 2)
	assert.Equal(t, "message/rfc822", parts[1].mediaType)

	mr, innerParts := parse(t, parts[1].body)
	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "inner subject", subject)
	require.Len(t, innerParts, 1)
	assert.Equal(t, "inner body", innerParts[0].body)
}

func TestWriteMessage_MaxDepth(t *testing.T) {
	t.Parallel()

	deepest := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("too deep"),
		Body:    item.UTF8Text("never written"),
		Email:   &item.Envelope{},
	}

	middle := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("middle"),
		Body:    item.UTF8Text("middle body"),
		Email:   &item.Envelope{},
		Attachments: []*item.Attachment{
			{Method: item.MethodEmbedded, Embedded: deepest},
			{LongFilename: item.UTF8Text("kept.txt"), Data: []byte("kept")},
		},
	}

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("outer"),
		Body:    item.UTF8Text("outer body"),
		Email:   &item.Envelope{},
		Attachments: []*item.Attachment{
			{Method: item.MethodEmbedded, Embedded: middle},
		},
	}

	doc := render(t, it, message.WithMaxDepth(1))
	assert.NotContains(t, doc, "never written")
	assert.NotContains(t, doc, "too deep")

	_, parts := parse(t, doc)
	require.Len(t, parts, 2)
	assert.Equal(t, "outer body", parts[0].body)
	assert.Equal(t, "message/rfc822", parts[1].mediaType)

	mr, innerParts := parse(t, parts[1].body)
	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "middle", subject)
	require.Len(t, innerParts, 2)
	assert.Equal(t, "middle body", innerParts[0].body)
	assert.True(t, innerParts[1].attachment)
	assert.Equal(t, "kept.txt", innerParts[1].filename)
	assert.Equal(t, "kept", innerParts[1].body)
}

func TestWriteMessage_CarriedHeaders(t *testing.T) {
	t.Parallel()

	outerHeader := "From: Outer <outer@example.com>\r\n" +
		"Subject: outer\r\n" +
		"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: message/rfc822\r\n" +
		"\r\n" +
		"From: Inner <inner@example.com>\r\n" +
		"Subject: recovered inner\r\n" +
		"Message-ID: <inner@example.com>\r\n" +
		"\r\n"

	inner := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("item subject"),
		Body:    item.UTF8Text("inner body"),
		Email: &item.Envelope{
			Header: item.UTF8Text("not a header at all"),
		},
	}

	it := &item.Item{
		Type:  item.TypeNote,
		Body:  item.UTF8Text("outer body"),
		Email: &item.Envelope{Header: item.UTF8Text(outerHeader)},
		Attachments: []*item.Attachment{
			{Method: item.MethodEmbedded, Embedded: inner},
		},
	}

	_, parts := parse(t, render(t, it))
	require.Len(t, parts, 2)

	mr, _ := parse(t, parts[1].body)
	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "recovered inner", subject)
	assert.Equal(t, "<inner@example.com>", mr.Header.Get("Message-Id"))
	assert.Equal(t, 1, strings.Count(parts[1].body, "Subject:"))
	assert.NotContains(t, parts[1].body, "item subject")
}

func TestWriteMessage_Report(t *testing.T) {
	t.Parallel()

	it := &item.Item{
		Type: item.TypeReport,
		Body: item.UTF8Text("Your message was read."),
		Email: &item.Envelope{
			Header: item.UTF8Text("Content-Type: multipart/report; report-type=disposition-notification;\r\n" +
				"\tboundary=\"x\"\r\n" +
				"Subject: Read: hello\r\n"),
			ReportText: item.UTF8Text("Reporting-UA: example\n"),
		},
	}

	doc := render(t, it)
	assert.Contains(t, doc, "Content-Type: multipart/report; report-type=disposition-notification;\n\tboundary=\"--boundary-PST-iamunique-")

	mr, parts := parse(t, doc)
	ct, params, err := mr.Header.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "multipart/report", ct)
	assert.Equal(t, "disposition-notification", params["report-type"])

	require.Len(t, parts, 2)
	assert.Equal(t, "Reporting-UA: example\n\n", parts[0].body)
	assert.Equal(t, "Your message was read.", parts[1].body)

	it.Email.Header = item.Text{}
	assert.Contains(t, render(t, it), "Content-Type: multipart/report; report-type=delivery-status;\n")
}

func TestWriteMessage_Schedule(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	it := &item.Item{
		Type:    item.TypeSchedule,
		BlockID: 0x99,
		Subject: item.UTF8Text("Sync"),
		Body:    item.UTF8Text("agenda"),
		Email: &item.Envelope{
			SenderAddress: item.UTF8Text("org@example.com"),
			SenderName:    item.UTF8Text("Org Name"),
		},
		Appointment: &item.Appointment{
			Start:  &start,
			End:    tp(start.Add(time.Hour)),
			ShowAs: item.FreeBusyBusy,
		},
	}

	cw := &calendar.Writer{Now: func() time.Time { return start }}
	_, parts := parse(t, render(t, it, message.WithCalendar(cw)))
	require.Len(t, parts, 3)

	inline, attached := parts[1], parts[2]
	assert.Equal(t, "text/calendar", inline.mediaType)
	assert.Equal(t, "REQUEST", inline.params["method"])
	assert.False(t, inline.attachment)

	assert.Equal(t, "text/calendar", attached.mediaType)
	assert.True(t, attached.attachment)
	assert.Regexp(t, `^i\d+\.ics$`, attached.filename)

	assert.Equal(t, inline.body, attached.body)
	assert.Contains(t, inline.body, "METHOD:REQUEST\nBEGIN:VEVENT\n"+
		"ORGANIZER;CN=\"Org Name\":MAILTO:org@example.com\n")
	assert.Contains(t, inline.body, "DTSTART;VALUE=DATE-TIME:20240506T090000Z\n")
}

func lzfuStream(rawSize int, body []byte) []byte {
	hdr := make([]byte, 16)
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(body)+12))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(rawSize))
	copy(hdr[8:], "LZFu")
	return append(hdr, body...)
}

func TestWriteMessage_Promotion(t *testing.T) {
	t.Parallel()

	rtf := lzfuStream(16, []byte{
		0x01, 0x00, 0x04,
		'A', 'B', 'C', 'D', 'E', 'F', 'G',
		0x03, 0x0d, 0x51, 0x0d, 0xf0,
	})

	it := &item.Item{
		Type:    item.TypeNote,
		Subject: item.UTF8Text("secret"),
		Email: &item.Envelope{
			RTFCompressed:     rtf,
			EncryptedBody:     []byte{1, 2, 3},
			EncryptedHTMLBody: []byte{4, 5},
		},
		Attachments: []*item.Attachment{
			{Filename: item.UTF8Text("orig.txt"), Data: []byte("original")},
		},
	}

	_, parts := parse(t, render(t, it))
	require.Len(t, parts, 4)

	assert.Equal(t, "\x04\x05", parts[0].body)
	assert.Equal(t, "\x01\x02\x03", parts[1].body)
	assert.Equal(t, message.RTFBodyName, parts[2].filename)
	assert.Equal(t, message.RTFBodyType, parts[2].mediaType)
	assert.Equal(t, "{\\rtf1ABCDEFGABC", parts[2].body)
	assert.Equal(t, "orig.txt", parts[3].filename)

	assert.Nil(t, it.Email.EncryptedBody)
	assert.Nil(t, it.Email.EncryptedHTMLBody)
	assert.Len(t, it.Attachments, 4)
}

var errBoom = errors.New("boom")

type failWriter struct {
	left int
}

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) > w.left {
		n := w.left
		w.left = 0
		return n, errBoom
	}
	w.left -= len(p)
	return len(p), nil
}

func TestWriteMessage_WriteError(t *testing.T) {
	t.Parallel()

	err := message.NewAssembler().WriteMessage(&failWriter{left: 10}, noteItem())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failed after headers resolved")

	err = message.NewAssembler().WriteMessage(&failWriter{left: 1 << 20}, noteItem())
	assert.NoError(t, err)
}

func TestWriteMessage_NotMail(t *testing.T) {
	t.Parallel()

	err := message.NewAssembler().WriteMessage(io.Discard, &item.Item{Type: item.TypeContact})
	assert.ErrorIs(t, err, message.ErrNotMail)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "start", message.StateStart.String())
	assert.Equal(t, "attachments written", message.StateAttachmentsWritten.String())
	assert.Equal(t, "closed", message.StateClosed.String())
	assert.Equal(t, "State(42)", message.State(42).String())
}
