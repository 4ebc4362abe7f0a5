// Package schema builds entity metadata from struct tags.
//
// A [Table] records, per entity type, the property-to-stored-attribute
// mapping, the key roles, and secondary index membership. Stored attribute
// names come from dynamodbav tags, so they always agree with attributevalue
// marshalling; key roles come from sift tags:
//
//	type Order struct {
//	    ID     string `dynamodbav:"pk" sift:"pk"`
//	    Placed string `dynamodbav:"sk" sift:"sk"`
//	    Email  string `dynamodbav:"email" sift:"index:email-index:pk"`
//	    Status string `dynamodbav:"status" sift:"index:status-index:pk"`
//	    Total  int    `dynamodbav:"total" sift:"index:status-index:sk"`
//	    Note   string `dynamodbav:"note,omitempty"`
//	}
//
// Directives are comma-separated: "pk", "sk", "index:NAME:pk",
// "index:NAME:sk", and "index:NAME" for a projected non-key member. Tables
// implement [github.com/jacentio/sift/predicate.Metadata].
package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/predicate"
)

// Index describes one secondary index: its key attributes and any
// additionally projected members declared in tags.
type Index struct {
	Name         string
	PartitionKey string // stored attribute name
	SortKey      string // stored attribute name, empty when the index has none
	Projected    []string
}

// Table is the immutable metadata for one entity type. Build it once with
// [Define] (or through a [Registry]) and share it freely; all methods are
// safe for concurrent use after construction.
type Table struct {
	name             string
	attrs            map[string]predicate.Attribute // field name -> attribute
	fields           []string                       // field names in declaration order
	pk, sk           string                         // stored attribute names
	pkField, skField string
	indexes          map[string]Index
	indexKeys        map[string]map[string]bool // field -> index name -> is key
}

var _ predicate.Metadata = (*Table)(nil)

// Define builds table metadata for a model struct. model may be a struct
// value or a pointer to one. Unexported fields and fields tagged
// dynamodbav:"-" are skipped; anonymous embedded structs are flattened the
// way attributevalue flattens them. Exactly one partition key is required.
func Define(model any, table string) (*Table, error) {
	if table == "" {
		return nil, ErrNoTableName
	}
	rt := modelType(model)
	if rt == nil {
		return nil, fmt.Errorf("%w, got %T", ErrNotStruct, model)
	}
	t := &Table{
		name:      table,
		attrs:     make(map[string]predicate.Attribute),
		indexes:   make(map[string]Index),
		indexKeys: make(map[string]map[string]bool),
	}
	if err := t.addFields(rt); err != nil {
		return nil, err
	}
	if t.pk == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPartitionKey, rt.Name())
	}
	return t, nil
}

// MustDefine is like [Define] but panics on error. Intended for package-level
// metadata of known-good models.
func MustDefine(model any, table string) *Table {
	t, err := Define(model, table)
	if err != nil {
		panic(err)
	}
	return t
}

// modelType unwraps pointers and returns the struct type, or nil when model
// is not a struct.
func modelType(model any) reflect.Type {
	rt := reflect.TypeOf(model)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil
	}
	return rt
}

func (t *Table) addFields(rt reflect.Type) error {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && f.Tag.Get("dynamodbav") == "" {
				if err := t.addFields(ft); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		attrName := attributeName(f)
		if attrName == "" {
			continue
		}
		if _, dup := t.attrs[f.Name]; dup {
			return fmt.Errorf("%w: field %s", ErrDuplicateField, f.Name)
		}
		attr := predicate.Attribute{Name: attrName}
		if err := t.applyDirectives(f.Name, &attr, f.Tag.Get("sift")); err != nil {
			return err
		}
		t.attrs[f.Name] = attr
		t.fields = append(t.fields, f.Name)
	}
	return nil
}

// attributeName resolves the stored name the way attributevalue does: first
// dynamodbav tag segment, else the field name. Empty means skip.
func attributeName(f reflect.StructField) string {
	tag := f.Tag.Get("dynamodbav")
	if tag == "" {
		return f.Name
	}
	name := tag
	if i := strings.Index(tag, ","); i >= 0 {
		name = tag[:i]
	}
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func (t *Table) applyDirectives(field string, attr *predicate.Attribute, tag string) error {
	if tag == "" {
		return nil
	}
	for _, d := range strings.Split(tag, ",") {
		d = strings.TrimSpace(d)
		switch {
		case d == "":
		case d == "pk":
			if t.pk != "" {
				return fmt.Errorf("%w: partition key on both %s and %s", ErrDuplicateKey, t.pkField, field)
			}
			attr.PartitionKey = true
			t.pk = attr.Name
			t.pkField = field
		case d == "sk":
			if t.sk != "" {
				return fmt.Errorf("%w: sort key on both %s and %s", ErrDuplicateKey, t.skField, field)
			}
			attr.SortKey = true
			t.sk = attr.Name
			t.skField = field
		case strings.HasPrefix(d, "index:"):
			if err := t.applyIndexDirective(field, attr.Name, d); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %q on field %s", ErrBadTag, d, field)
		}
	}
	return nil
}

func (t *Table) applyIndexDirective(field, attrName, d string) error {
	parts := strings.Split(d, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[1] == "" {
		return fmt.Errorf("%w: %q on field %s", ErrBadTag, d, field)
	}
	name := parts[1]
	idx := t.indexes[name]
	idx.Name = name
	role := ""
	if len(parts) == 3 {
		role = parts[2]
	}
	switch role {
	case "":
		idx.Projected = append(idx.Projected, attrName)
	case "pk":
		if idx.PartitionKey != "" {
			return fmt.Errorf("%w: index %s partition key on both %q and field %s", ErrDuplicateKey, name, idx.PartitionKey, field)
		}
		idx.PartitionKey = attrName
		t.markIndexKey(field, name)
	case "sk":
		if idx.SortKey != "" {
			return fmt.Errorf("%w: index %s sort key on both %q and field %s", ErrDuplicateKey, name, idx.SortKey, field)
		}
		idx.SortKey = attrName
		t.markIndexKey(field, name)
	default:
		return fmt.Errorf("%w: %q on field %s", ErrBadTag, d, field)
	}
	t.indexes[name] = idx
	return nil
}

func (t *Table) markIndexKey(field, index string) {
	if t.indexKeys[field] == nil {
		t.indexKeys[field] = make(map[string]bool)
	}
	t.indexKeys[field][index] = true
}

// TableName returns the physical table name. Satisfies predicate.Metadata.
func (t *Table) TableName() string {
	return t.name
}

// Attribute resolves a property (Go field) name to its stored attribute.
func (t *Table) Attribute(field string) (predicate.Attribute, bool) {
	attr, ok := t.attrs[field]
	return attr, ok
}

// QueryableInIndex reports whether the property is a key of the named
// secondary index.
func (t *Table) QueryableInIndex(field, index string) bool {
	return t.indexKeys[field][index]
}

// PartitionKey returns the stored partition key attribute name.
func (t *Table) PartitionKey() string {
	return t.pk
}

// SortKey returns the stored sort key attribute name, empty when the table
// declares none.
func (t *Table) SortKey() string {
	return t.sk
}

// Fields returns the mapped property names in declaration order.
func (t *Table) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// Index returns the named secondary index.
func (t *Table) Index(name string) (Index, bool) {
	idx, ok := t.indexes[name]
	if !ok {
		return Index{}, false
	}
	idx.Projected = append([]string(nil), idx.Projected...)
	return idx, true
}

// Indexes returns all declared secondary indexes, sorted by name.
func (t *Table) Indexes() []Index {
	names := make([]string, 0, len(t.indexes))
	for name := range t.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Index, 0, len(names))
	for _, name := range names {
		idx, _ := t.Index(name)
		out = append(out, idx)
	}
	return out
}

// Key marshals raw key values into an item key. Pass a sort key value
// exactly when the table declares a sort key.
func (t *Table) Key(pk any, sk ...any) (map[string]types.AttributeValue, error) {
	if len(sk) > 1 {
		return nil, fmt.Errorf("%w: at most one sort key value, got %d", ErrKeyMismatch, len(sk))
	}
	if t.sk != "" && len(sk) == 0 {
		return nil, fmt.Errorf("%w: %s requires a sort key value", ErrKeyMismatch, t.name)
	}
	if t.sk == "" && len(sk) == 1 {
		return nil, fmt.Errorf("%w: %s has no sort key", ErrKeyMismatch, t.name)
	}
	key := make(map[string]types.AttributeValue, 2)
	av, err := attributevalue.Marshal(pk)
	if err != nil {
		return nil, fmt.Errorf("sift: marshalling partition key: %w", err)
	}
	key[t.pk] = av
	if len(sk) == 1 {
		av, err := attributevalue.Marshal(sk[0])
		if err != nil {
			return nil, fmt.Errorf("sift: marshalling sort key: %w", err)
		}
		key[t.sk] = av
	}
	return key, nil
}

// KeyFrom marshals an entity and projects out its item key.
func (t *Table) KeyFrom(entity any) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("sift: marshalling entity: %w", err)
	}
	key := make(map[string]types.AttributeValue, 2)
	pk, ok := item[t.pk]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q missing from item", ErrKeyMismatch, t.pk)
	}
	key[t.pk] = pk
	if t.sk != "" {
		sk, ok := item[t.sk]
		if !ok {
			return nil, fmt.Errorf("%w: attribute %q missing from item", ErrKeyMismatch, t.sk)
		}
		key[t.sk] = sk
	}
	return key, nil
}
