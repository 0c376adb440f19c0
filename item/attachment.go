package item

// Method says how an attachment's content is stored.
type Method int

// Attachment methods.
const (
	MethodNormal Method = iota
	MethodEmbedded
)

// Attachment references one attachment of an item. An attachment carries its
// bytes inline in Data, or names them with ID for a Source to fetch later.
// Embedded attachments are themselves items and are reached through
// Source.ParseEmbedded.
type Attachment struct {
	Method Method

	MimeType     Text
	Filename     Text
	LongFilename Text
	ContentID    Text

	Data []byte
	ID   uint64

	// Embedded holds an already parsed embedded item. A Source may leave it
	// nil and resolve it on demand instead.
	Embedded *Item
}

// HasContent returns true when the attachment has inline bytes or a fetch-id
// that might resolve to some.
func (a *Attachment) HasContent() bool {
	return a.Data != nil || a.ID != 0
}

// Source is the collaborator that resolves attachment content. It is
// implemented by the container reader.
type Source interface {
	// FetchAttachment returns the bytes for the attachment. It returns an
	// error wrapping ErrMissingAttachmentData if the bytes cannot be found.
	FetchAttachment(a *Attachment) ([]byte, error)

	// ParseEmbedded parses the embedded message behind the attachment. It
	// returns an error wrapping ErrUnparseableEmbedded when it cannot.
	ParseEmbedded(a *Attachment) (*Item, error)
}

// InlineSource is a Source for items that carry everything in memory. It
// serves Data and Embedded directly and fails on anything else.
type InlineSource struct{}

// FetchAttachment returns a.Data or ErrMissingAttachmentData.
func (InlineSource) FetchAttachment(a *Attachment) ([]byte, error) {
	if a.Data == nil {
		return nil, ErrMissingAttachmentData
	}
	return a.Data, nil
}

// ParseEmbedded returns a.Embedded or ErrUnparseableEmbedded.
func (InlineSource) ParseEmbedded(a *Attachment) (*Item, error) {
	if a.Embedded == nil {
		return nil, ErrUnparseableEmbedded
	}
	return a.Embedded, nil
}
