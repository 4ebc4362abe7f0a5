package predicate

// Attribute describes how one entity property is stored.
type Attribute struct {
	// Name is the stored attribute name.
	Name string

	// PartitionKey reports whether the attribute is the table's partition key.
	PartitionKey bool

	// SortKey reports whether the attribute is the table's sort key.
	SortKey bool
}

// Metadata exposes the entity-type information translation needs. An
// implementation must be immutable once built: the translator reads it
// concurrently without synchronization, and templates derived from it are
// cached for the process lifetime. The schema package provides the standard
// implementation, built once per entity type from struct tags.
type Metadata interface {
	// TableName identifies the entity type. Cached templates embed attribute
	// names resolved through this metadata and are keyed by table name, so
	// two Metadata values with different mappings must not share a name.
	TableName() string

	// Attribute resolves a property name to its stored attribute. The second
	// return is false when the property has no stored attribute.
	Attribute(field string) (Attribute, bool)

	// QueryableInIndex reports whether the property is a key of the named
	// secondary index.
	QueryableInIndex(field, index string) bool
}
