// Package predicate compiles typed boolean expression trees into DynamoDB
// condition expressions.
//
// Sift lets application code state query, filter, and condition predicates
// over entity properties and turns them into the store's textual expression
// protocol: a condition string, an attribute-name placeholder map, and an
// attribute-value placeholder map, ready to merge into an outgoing request.
//
// # Building Predicates
//
// Predicates are small immutable trees built with fluent constructors:
//
//	p := predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))
//	q := predicate.Or(
//	    predicate.Field("Status").Equal("active"),
//	    predicate.Field("Retries").LessThan(3),
//	)
//
// Value-side helpers run at translation time and never reach the store:
//
//	cutoff := predicate.Compute(func(_ ...any) (any, error) {
//	    return time.Now().Add(-window).Unix(), nil
//	})
//	p := predicate.Field("UpdatedAt").GreaterOrEqual(cutoff)
//
// # Translation
//
// A [Translator] walks the tree, validates it against entity metadata, and
// emits the condition string through two registries:
//
//	tr := predicate.NewTranslator(predicate.DefaultConfig())
//	res, err := tr.Translate(p, table, predicate.KeysOnly)
//	// res.Condition == `#p0 = :v0 AND begins_with(#p1, :v1)`
//	// res.Names     == map[string]string{"#p0": "pk", "#p1": "sk"}
//	// res.Values    == the marshalled attribute values for :v0 and :v1
//
// The same attribute referenced twice reuses one name placeholder; values are
// never deduplicated, so every literal keeps its own placeholder.
//
// # Validation Modes
//
// [Unrestricted] admits any mapped property and is used for filter and
// condition expressions. [KeysOnly] admits only key properties and is used
// for query key conditions; referencing anything else fails with
// [KeyConditionError]. [Translator.TranslateIndex] applies keys-only
// validation against a named secondary index instead of the table keys.
//
// # Operator Mapping
//
// Comparisons and logical operators map onto the store syntax as follows:
//
//	==                       =
//	!=                       <>
//	<  >  <=  >=             unchanged
//	&&                       AND
//	||                       OR
//	!                        NOT
//	prefix match             begins_with(attr, val)
//	containment              contains(attr, val)
//	inclusive range          attr BETWEEN lo AND hi
//	attribute present        attribute_exists(attr)
//	attribute absent         attribute_not_exists(attr)
//	collection size          size(attr)
//
// # Errors
//
// Every translation failure implements [TranslationError] and carries the
// offending sub-tree:
//
//   - [UnmappedFieldError] - property has no stored attribute
//   - [KeyConditionError] - non-key property under keys-only validation
//   - [UnsupportedError] - assignment, transformed property, value-side
//     property reference, or any construct the store cannot express
//
// Failures are caller programming errors: fail fast, never retry, and no
// partial output is ever returned.
//
// # Caching and Concurrency
//
// Templates (the condition text with placeholder positions, no values) are
// cached per tree shape, metadata identity, and mode in a sharded concurrent
// map; a cache hit skips the walk and validation. Registries are rebuilt and
// values re-captured on every call, hit or miss, so results never leak
// between invocations. A single Translator may be shared by any number of
// goroutines.
package predicate
