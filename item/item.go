package item

import (
	"errors"
	"strings"
	"time"
)

// Errors returned by a Source and reported while rendering attachments.
var (
	// ErrMissingAttachmentData is returned when the bytes behind an
	// attachment's fetch-id cannot be located.
	ErrMissingAttachmentData = errors.New("attachment data not found")

	// ErrUnparseableEmbedded is returned when an embedded message attachment
	// does not parse into an item or parses to an item without a mail
	// envelope.
	ErrUnparseableEmbedded = errors.New("embedded item cannot be parsed as mail")
)

// Type is the tag that says what kind of item a record is.
type Type int

// The item types. These are the same distinctions a container parser makes
// when classifying a record by its message class.
const (
	TypeUnknown Type = iota
	TypeNote
	TypeReport
	TypeSchedule
	TypeAppointment
	TypeJournal
	TypeContact
	TypeFolder
	TypeStore
)

var typeNames = map[Type]string{
	TypeUnknown:     "unknown",
	TypeNote:        "note",
	TypeReport:      "report",
	TypeSchedule:    "schedule",
	TypeAppointment: "appointment",
	TypeJournal:     "journal",
	TypeContact:     "contact",
	TypeFolder:      "folder",
	TypeStore:       "store",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return typeNames[TypeUnknown]
}

// ParseType returns the Type named by s (case-insensitive). It returns
// TypeUnknown when the name is not recognized.
func ParseType(s string) Type {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range typeNames {
		if n == s {
			return t
		}
	}
	return TypeUnknown
}

// IsMail returns true for the types rendered as RFC822 messages.
func (t Type) IsMail() bool {
	return t == TypeNote || t == TypeReport || t == TypeSchedule
}

// Text is a string property as read from the container. Properties stored in
// the container's 8-bit form are in the item's code page and have UTF8 set to
// false. The zero value is an absent property.
type Text struct {
	Value string
	UTF8  bool
}

// UTF8Text returns a Text holding s, marked as UTF-8.
func UTF8Text(s string) Text {
	return Text{Value: s, UTF8: true}
}

// IsSet returns true when the property is present.
func (t Text) IsSet() bool {
	return t.Value != ""
}

// String returns the raw value.
func (t Text) String() string {
	return t.Value
}

// ExtraField is a name/value pair attached to an item outside of its standard
// properties. Entries named "Keywords" carry category names.
type ExtraField struct {
	Name  string
	Value string
}

// KeywordsField is the name of the extra field carrying category names.
const KeywordsField = "Keywords"

// Item is one record from the mailbox container.
type Item struct {
	Type    Type
	BlockID uint64

	Subject Text
	Body    Text
	Comment Text

	// BodyCharset is the charset explicitly recorded for the body, if any.
	BodyCharset string

	// MessageCodepage and InternetCodepage are Windows code page numbers
	// used to pick a charset when nothing better is known.
	MessageCodepage  int
	InternetCodepage int

	CreateDate *time.Time
	ModifyDate *time.Time
	Read       bool

	ExtraFields []ExtraField
	Attachments []*Attachment

	Email       *Envelope
	Contact     *Contact
	Appointment *Appointment
	Journal     *Journal
}

// Keywords returns the values of every "Keywords" extra field, in order.
func (it *Item) Keywords() []string {
	var kws []string
	for _, ef := range it.ExtraFields {
		if ef.Name == KeywordsField {
			kws = append(kws, ef.Value)
		}
	}
	return kws
}

// PrependAttachment adds a to the front of the attachment list.
func (it *Item) PrependAttachment(a *Attachment) {
	it.Attachments = append([]*Attachment{a}, it.Attachments...)
}

// Envelope holds the properties only mail items carry.
type Envelope struct {
	// Header is the transport header block recovered from the container. It
	// may be truncated, a fragment of the body, or missing.
	Header Text

	HTMLBody   Text
	ReportText Text

	SenderAddress Text
	SenderName    Text
	SentTo        Text
	Cc            Text
	Bcc           Text
	MessageID     Text
	SentDate      *time.Time

	// RTFCompressed is the LZFu-compressed rich text body.
	RTFCompressed []byte

	EncryptedBody     []byte
	EncryptedHTMLBody []byte
}
