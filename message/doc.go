// Package message rebuilds RFC822 documents from mail items recovered out of
// a mailbox store.
//
// The header block a store keeps for a message is often truncated, a fragment
// of the body, or missing altogether. The Assembler reuses it when it looks
// genuine, strips the MIME fields from it, and synthesizes whatever canonical
// fields it lacks. It then builds a fresh MIME structure around the bodies
// and attachments of the item:
//
//	asm := message.NewAssembler(message.WithLogger(logger))
//	if err := asm.WriteMessage(os.Stdout, it); err != nil {
//	  panic(err)
//	}
//
// Embedded messages are written recursively as message/rfc822 parts. When an
// embedded item has no usable header block of its own, the Assembler looks
// for one in the MIME part headers kept with the outermost message, which it
// carries down through the recursion in a Context.
//
// Attachments whose data cannot be fetched and embedded items that cannot be
// parsed are logged and left out. Only a failure of the destination writer
// stops a message.
package message
