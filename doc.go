// Package pstmail rebuilds standards-shaped documents from items recovered out
// of a mailbox container. Mail becomes RFC 822 messages, contacts become
// vCards, and appointments and journal entries become iCalendar files.
//
// The work is split by document and by part of a message. The item package
// describes the records a container reader hands over. The message package
// assembles RFC 822 documents, with message/header repairing the header
// blocks stores keep and message/transfer choosing and applying
// Content-transfer-encodings. The vcard and calendar packages write contacts
// and calendar entries. The export package walks a folder tree, picks the
// right writer for each item, names the results, and hands them to a Sink.
//
// Reading the container itself is left to the caller: anything that can
// produce items and implement item.Source will do. The pstdoc command drives
// the whole thing from YAML fixtures.
package pstmail
