package export_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	gomessage "github.com/emersion/go-message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pstmail/export"
)

const formBoundary = "form-0123456789"

type formPart struct {
	name string
	body string
}

func parseForm(t *testing.T, body string) []formPart {
	t.Helper()

	e, err := gomessage.Read(strings.NewReader(
		"Content-Type: multipart/form-data; boundary=" + formBoundary + "\r\n\r\n" + body))
	require.NoError(t, err)

	mr := e.MultipartReader()
	require.NotNil(t, mr)

	var parts []formPart
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		disp, params, err := p.Header.ContentDisposition()
		require.NoError(t, err)
		assert.Equal(t, "form-data", disp)

		data, err := io.ReadAll(p.Body)
		require.NoError(t, err)

		parts = append(parts, formPart{params["name"], string(data)})
	}

	return parts
}

func TestFormSink(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	sink, err := export.NewFormSink(buf, formBoundary, `{"path":"FILENAME","kind":"pst"}`)
	require.NoError(t, err)

	require.NoError(t, newExporter().Export(mailbox(), sink))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	assert.True(t, strings.HasSuffix(buf.String(), "--"+formBoundary+"--\r\n"))

	parts := parseForm(t, buf.String())
	require.Len(t, parts, 12)

	assert.Equal(t, formPart{"0.json", `{"path":"Inbox/0001.eml","kind":"pst"}`}, parts[0])
	assert.Equal(t, "0.blob", parts[1].name)
	assert.Contains(t, parts[1].body, "Subject: first\n")
	assert.Equal(t, formPart{"progress", `{"children":{"nProcessed":1,"nTotal":6}}`}, parts[2])

	assert.Equal(t, formPart{"1.json", `{"path":"Inbox/0002.eml","kind":"pst"}`}, parts[3])
	assert.Equal(t, formPart{"progress", `{"children":{"nProcessed":3,"nTotal":6}}`}, parts[5])

	assert.Equal(t, formPart{"2.json", `{"path":"Contacts/0001.vcard","kind":"pst"}`}, parts[6])
	assert.Equal(t, "BEGIN:VCARD\nFN:Jane Public\nN:;;;;\nVERSION:3.0\nEND:VCARD\n", parts[7].body)

	assert.Equal(t, formPart{"3.json", `{"path":"Calendar/0001.ics","kind":"pst"}`}, parts[9])
	assert.Equal(t, formPart{"progress", `{"children":{"nProcessed":6,"nTotal":6}}`}, parts[11])
}

func TestFormSink_EscapesName(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	sink, err := export.NewFormSink(buf, formBoundary, "")
	require.NoError(t, err)

	w, err := sink.Create(export.Entry{Index: 4, Name: `Say "hi"/0001.eml`})
	require.NoError(t, err)
	_, err = io.WriteString(w, "doc")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, sink.Close())

	parts := parseForm(t, buf.String())
	require.Len(t, parts, 2)
	assert.Equal(t, formPart{"4.json", `{"filename":"Say \"hi\"/0001.eml"}`}, parts[0])
	assert.Equal(t, formPart{"4.blob", "doc"}, parts[1])
}

func TestFormSink_Fail(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	sink, err := export.NewFormSink(buf, formBoundary, "")
	require.NoError(t, err)

	require.NoError(t, sink.Progress(export.Progress{Processed: 1, Total: 2}))
	require.NoError(t, sink.Fail(errors.New("error opening PST")))

	parts := parseForm(t, buf.String())
	assert.Equal(t, []formPart{
		{"progress", `{"children":{"nProcessed":1,"nTotal":2}}`},
		{"error", "error opening PST"},
	}, parts)
}

func TestNewFormSink_Errors(t *testing.T) {
	t.Parallel()

	_, err := export.NewFormSink(&bytes.Buffer{}, formBoundary, `{"name":"x"}`)
	assert.ErrorIs(t, err, export.ErrNoPlaceholder)

	_, err = export.NewFormSink(&bytes.Buffer{}, "", "")
	assert.Error(t, err)
}
