// Package request assembles DynamoDB API inputs from translated predicates.
//
// Each builder pairs a [predicate.Translator] with a [schema.Table] and
// produces a ready-to-send input struct for the corresponding service call.
// A builder owns one name registry and one value registry; every expression
// it emits draws placeholders from that shared pair, so a key condition, a
// filter, a projection and an update expression on the same request never
// collide.
//
// Builders are single-use and not safe for concurrent use. Configuration
// methods return the builder for chaining and record the first error they
// hit; Build surfaces it:
//
//	input, err := request.NewQuery(tr, orders).
//		KeyCondition(predicate.Field("AccountID").Equal(id)).
//		Filter(predicate.Field("Total").GreaterThan(100)).
//		Limit(25).
//		Build()
//
// The resulting inputs carry only what was configured. Optional members stay
// nil so the service applies its own defaults.
package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacentio/sift/predicate"
	"github.com/jacentio/sift/schema"
)

// ErrNilTranslator is returned when a builder is constructed without a
// translator.
var ErrNilTranslator = errors.New("sift: nil translator")

// ErrNilTable is returned when a builder is constructed without table
// metadata.
var ErrNilTable = errors.New("sift: nil table")

// ErrNoKeyCondition is returned by Query.Build when no key condition was
// supplied.
var ErrNoKeyCondition = errors.New("sift: query requires a key condition")

// ErrUnknownIndex is returned when a request names an index the table
// definition does not declare.
var ErrUnknownIndex = errors.New("sift: unknown index")

// ErrNoKey is returned when a keyed request is built without a key.
var ErrNoKey = errors.New("sift: request requires an item key")

// ErrNoCondition is returned by ConditionCheck.Build when no condition was
// supplied.
var ErrNoCondition = errors.New("sift: condition check requires a condition")

// ErrEmptyUpdate is returned by Update.Build when no update clause was
// added.
var ErrEmptyUpdate = errors.New("sift: update has no clauses")

// ErrEmptyBatch is returned when a batch request is built with nothing in
// it.
var ErrEmptyBatch = errors.New("sift: empty batch")

// ErrTooManyItems is returned when a request exceeds the service limit on
// items per call.
var ErrTooManyItems = errors.New("sift: too many items for one request")

// valueExpr lifts plain Go values into predicate expressions, leaving
// expressions untouched so helper calls pass through.
func valueExpr(v any) predicate.Expr {
	if e, ok := v.(predicate.Expr); ok {
		return e
	}
	return predicate.Value(v)
}

// projection resolves projected properties through the table definition and
// returns the projection expression, minting name placeholders as it goes.
func projection(table *schema.Table, names *predicate.NameRegistry, fields []string) (string, error) {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		attr, ok := table.Attribute(f)
		if !ok {
			return "", &predicate.UnmappedFieldError{Field: f, Entity: table.TableName()}
		}
		parts = append(parts, names.Placeholder(attr.Name))
	}
	return strings.Join(parts, ", "), nil
}

// andConditions joins two condition fragments. Both sides are
// parenthesised so neither can capture the other's operands.
func andConditions(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return fmt.Sprintf("(%s) AND (%s)", a, b)
}
