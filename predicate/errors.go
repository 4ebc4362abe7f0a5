package predicate

import "fmt"

// TranslationError is implemented by every error the translator returns. The
// offending sub-tree is attached for diagnostics. Translation errors signal a
// caller programming error, never a transient condition: they are not
// retryable, and translation never produces partial output alongside one.
type TranslationError interface {
	error

	// Subtree returns the smallest expression node the error applies to.
	Subtree() Expr
}

// UnmappedFieldError reports a property read with no corresponding stored
// attribute in the entity metadata.
type UnmappedFieldError struct {
	// Field is the property name as written in the predicate.
	Field string

	// Entity is the metadata table name, empty when translating without
	// metadata.
	Entity string

	node Expr
}

func (e *UnmappedFieldError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("sift: no stored attribute for property %q", e.Field)
	}
	return fmt.Sprintf("sift: no stored attribute for property %q on %q", e.Field, e.Entity)
}

// Subtree returns the offending property read.
func (e *UnmappedFieldError) Subtree() Expr { return e.node }

// KeyConditionError reports a mapped but non-key property inside a keys-only
// translation. The predicate belongs in a filter or condition expression
// translated with [Unrestricted] instead.
type KeyConditionError struct {
	// Field is the non-key property name.
	Field string

	node Expr
}

func (e *KeyConditionError) Error() string {
	return fmt.Sprintf("sift: property %q is not a key and cannot appear in a key condition; translate it as an unrestricted filter instead", e.Field)
}

// Subtree returns the offending property read.
func (e *KeyConditionError) Subtree() Expr { return e.node }

// UnsupportedError reports a construct the store's expression language cannot
// express: an assignment, a transformed left operand, a property read on the
// value side, a helper whose arguments reference a property, or any node
// without a translation rule. Helper and marshalling failures are reported
// through it as well; Unwrap exposes the cause.
type UnsupportedError struct {
	// Reason describes what made the expression untranslatable.
	Reason string

	node  Expr
	cause error
}

func (e *UnsupportedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("sift: unsupported expression: %s: %v", e.Reason, e.cause)
	}
	return "sift: unsupported expression: " + e.Reason
}

// Subtree returns the offending node.
func (e *UnsupportedError) Subtree() Expr { return e.node }

// Unwrap returns the underlying cause, if any.
func (e *UnsupportedError) Unwrap() error { return e.cause }

func unsupported(node Expr, reason string) *UnsupportedError {
	return &UnsupportedError{Reason: reason, node: node}
}
