package predicate

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// NameRegistry hands out attribute-name placeholders ("#p0", "#p1", ...)
// within one translation scope. The same attribute name always reuses its
// first placeholder. A registry belongs to exactly one scope and is not safe
// for concurrent use; request builders pass one registry through every
// expression fragment of a request so numbering stays collision-free.
type NameRegistry struct {
	placeholders map[string]string // attribute name -> placeholder
	order        []string          // attribute names in first-reference order
}

// NewNameRegistry returns an empty name registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{placeholders: make(map[string]string)}
}

// Placeholder returns the placeholder for the stored attribute name, minting
// a new one on first reference.
func (r *NameRegistry) Placeholder(attr string) string {
	if p, ok := r.placeholders[attr]; ok {
		return p
	}
	p := fmt.Sprintf("#p%d", len(r.order))
	r.placeholders[attr] = p
	r.order = append(r.order, attr)
	return p
}

// Len returns the number of distinct attributes registered.
func (r *NameRegistry) Len() int {
	return len(r.order)
}

// Map returns placeholder to attribute name, shaped for a request's
// ExpressionAttributeNames field. It returns nil when nothing was registered,
// so the result can be assigned to SDK input fields directly.
func (r *NameRegistry) Map() map[string]string {
	if len(r.order) == 0 {
		return nil
	}
	m := make(map[string]string, len(r.order))
	for attr, p := range r.placeholders {
		m[p] = attr
	}
	return m
}

// ValueRegistry hands out attribute-value placeholders (":v0", ":v1", ...)
// within one translation scope. Values are never deduplicated: two equal
// values still receive distinct placeholders, since conflating them could
// silently merge two logically distinct comparisons. Not safe for concurrent
// use; ownership rules match [NameRegistry].
type ValueRegistry struct {
	values []types.AttributeValue
}

// NewValueRegistry returns an empty value registry.
func NewValueRegistry() *ValueRegistry {
	return &ValueRegistry{}
}

// Add registers an already-marshalled attribute value and returns its
// placeholder.
func (r *ValueRegistry) Add(v types.AttributeValue) string {
	r.values = append(r.values, v)
	return fmt.Sprintf(":v%d", len(r.values)-1)
}

// AddValue marshals a Go value into an attribute value and registers it.
func (r *ValueRegistry) AddValue(v any) (string, error) {
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sift: marshalling value: %w", err)
	}
	return r.Add(av), nil
}

// Len returns the number of values registered.
func (r *ValueRegistry) Len() int {
	return len(r.values)
}

// Map returns placeholder to attribute value, shaped for a request's
// ExpressionAttributeValues field. Nil when empty.
func (r *ValueRegistry) Map() map[string]types.AttributeValue {
	if len(r.values) == 0 {
		return nil
	}
	m := make(map[string]types.AttributeValue, len(r.values))
	for i, v := range r.values {
		m[fmt.Sprintf(":v%d", i)] = v
	}
	return m
}
