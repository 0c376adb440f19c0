// Package header works with header blocks recovered from a mail store. These
// blocks are frequently damaged: truncated, missing, or actually a fragment of
// some message body. The functions here decide whether a block can be trusted,
// find and remove fields from it, and pull out the few values a rebuilt
// message needs (charset, report-type, sender).
//
// All searches are case-insensitive and work on plain strings. Edits never
// modify a block in place; a new string is built instead.
package header
