// Package transfer contains the Content-transfer-encoding handling used when
// writing body parts and attachments. Text is sent as-is unless it contains
// control bytes, in which case it is base64 encoded. Attachments are always
// base64 encoded.
//
// For the sake of this module, the term "decoded" means that the content has
// been transformed from the named Content-transfer-encoding to the charset
// encoded form. Meanwhile, "encoded" means that the content has been
// transformed from the charset encoding to the named Content-transfer-encoding.
package transfer
