package storage

import "errors"

// ErrNotFound is returned when a document does not exist at the given path.
// Callers that can start from an empty ledger should treat it as such.
var ErrNotFound = errors.New("document not found")

// ErrConflict is returned when a write presents a stale version token,
// i.e. another writer updated the document since it was read. The only safe
// resolution is to re-read and re-run the whole operation.
var ErrConflict = errors.New("document version conflict")

// ErrCorruptDocument is returned when the stored bytes do not parse as the
// expected JSON array. The store must never overwrite a corrupt document;
// repairing it is a manual operation.
var ErrCorruptDocument = errors.New("stored document is not a valid JSON array")
