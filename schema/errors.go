package schema

import "errors"

var (
	// ErrNoTableName is returned when a table is defined with an empty name.
	ErrNoTableName = errors.New("sift: empty table name")

	// ErrNotStruct is returned when the model is not a struct or a pointer to one.
	ErrNotStruct = errors.New("sift: model must be a struct")

	// ErrNoPartitionKey is returned when the model declares no pk directive.
	ErrNoPartitionKey = errors.New("sift: model declares no partition key")

	// ErrDuplicateKey is returned when a key role is declared more than once.
	ErrDuplicateKey = errors.New("sift: duplicate key declaration")

	// ErrDuplicateField is returned when two fields share a name after embedding.
	ErrDuplicateField = errors.New("sift: duplicate field")

	// ErrBadTag is returned for an unparseable sift tag directive.
	ErrBadTag = errors.New("sift: malformed sift tag")

	// ErrKeyMismatch is returned when key values don't line up with the table's key schema.
	ErrKeyMismatch = errors.New("sift: key mismatch")

	// ErrTableConflict is returned when a model type is re-registered under a different table name.
	ErrTableConflict = errors.New("sift: model already registered")
)
