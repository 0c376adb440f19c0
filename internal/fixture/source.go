package fixture

import (
	"fmt"

	"github.com/zostay/go-pstmail/item"
)

// Source resolves attachment ids against the blobs and messages of a fixture.
type Source struct {
	blobs    map[uint64][]byte
	messages map[uint64]*item.Item
}

var _ item.Source = (*Source)(nil)

// FetchAttachment returns the inline data of a, or the blob named by its id.
func (s *Source) FetchAttachment(a *item.Attachment) ([]byte, error) {
	if a.Data != nil {
		return a.Data, nil
	}

	if b, ok := s.blobs[a.ID]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("blob %d: %w", a.ID, item.ErrMissingAttachmentData)
}

// ParseEmbedded returns the inline message of a, or the message named by its
// id. A message without an email section is not mail and is an error.
func (s *Source) ParseEmbedded(a *item.Attachment) (*item.Item, error) {
	it := a.Embedded
	if it == nil {
		it = s.messages[a.ID]
	}

	if it == nil || it.Email == nil {
		return nil, fmt.Errorf("message %d: %w", a.ID, item.ErrUnparseableEmbedded)
	}
	return it, nil
}
