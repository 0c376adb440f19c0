// Package item describes the records handed to this library by a mailbox
// container parser. An Item is one mailbox entry: a mail message, a delivery
// report, a meeting request, a contact, an appointment, or a journal entry.
//
// Nothing in this package knows how to read a container file. Instead, a
// Source is used to fetch attachment bytes lazily and to re-enter item parsing
// for embedded messages, so the rendering packages can be driven by any
// container reader (or a set of test fixtures).
package item
