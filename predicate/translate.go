package predicate

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sift/internal/shardmap"
)

// Mode selects which properties a predicate may reference during one
// translation.
type Mode int

const (
	// Unrestricted admits any mapped property. Used for filter and condition
	// expressions.
	Unrestricted Mode = iota

	// KeysOnly admits only partition- and sort-key properties. Used for query
	// key conditions.
	KeysOnly
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Unrestricted:
		return "unrestricted"
	case KeysOnly:
		return "keys-only"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Result is one translation's complete output. Ownership of the maps
// transfers to the caller, which merges them into outgoing request state.
type Result struct {
	// Condition is the expression text with embedded placeholders.
	Condition string

	// Names maps name placeholders ("#p0") to stored attribute names.
	Names map[string]string

	// Values maps value placeholders (":v0") to marshalled attribute values.
	Values map[string]types.AttributeValue
}

// Translator compiles predicate trees into DynamoDB condition expressions.
// It owns the shared template cache and is safe for concurrent use from any
// number of goroutines; every call populates its own registries, so no
// locking happens outside the cache. Construct with [NewTranslator].
type Translator struct {
	cfg   Config
	cache *shardmap.Map
}

// NewTranslator returns a Translator with the given configuration.
func NewTranslator(cfg Config) *Translator {
	cfg.validate()
	t := &Translator{cfg: cfg}
	if !cfg.CacheDisabled {
		t.cache = shardmap.New(cfg.CacheShards)
	}
	return t
}

// Translate compiles p against meta under the given mode and returns the
// condition string together with fresh placeholder maps. meta may be nil, in
// which case property names are used verbatim as stored attribute names;
// keys-only translation without metadata fails, since key validation is
// impossible.
//
// Translation is all-or-nothing: on error no partial output is returned.
func (t *Translator) Translate(p Expr, meta Metadata, mode Mode) (*Result, error) {
	names := NewNameRegistry()
	values := NewValueRegistry()
	cond, err := t.translate(p, meta, mode, "", names, values)
	if err != nil {
		return nil, err
	}
	return &Result{Condition: cond, Names: names.Map(), Values: values.Map()}, nil
}

// TranslateWith is Translate against caller-supplied registries. Request
// builders composing several fragments into one request (a key condition
// plus a filter, an update plus a condition) pass one registry pair through
// every fragment, so placeholder numbering continues across fragments and
// the merged maps never collide.
func (t *Translator) TranslateWith(p Expr, meta Metadata, mode Mode, names *NameRegistry, values *ValueRegistry) (string, error) {
	return t.translate(p, meta, mode, "", names, values)
}

// TranslateIndex compiles a key condition for the named secondary index:
// keys-only validation where the index's keys, rather than the table's, are
// the admitted properties. An empty index name falls back to the table keys.
func (t *Translator) TranslateIndex(p Expr, meta Metadata, index string, names *NameRegistry, values *ValueRegistry) (string, error) {
	return t.translate(p, meta, KeysOnly, index, names, values)
}

func (t *Translator) translate(p Expr, meta Metadata, mode Mode, index string, names *NameRegistry, values *ValueRegistry) (string, error) {
	if p == nil {
		return "", unsupported(nil, "nil expression")
	}
	if names == nil || values == nil {
		return "", unsupported(p, "translation requires both registries")
	}
	v, err := newValidator(mode, index, meta)
	if err != nil {
		return "", err
	}
	tpl, err := t.templateFor(p, meta, mode, index, v)
	if err != nil {
		return "", err
	}
	return tpl.render(p, names, values)
}

// templateFor returns the template for the tree's shape, building it on a
// cache miss. Concurrent misses on one shape may build twice; templates are
// value-free and idempotent, so the last write wins harmlessly. Build
// failures are never cached.
func (t *Translator) templateFor(p Expr, meta Metadata, mode Mode, index string, v propertyValidator) (*template, error) {
	if t.cache == nil {
		return buildTemplate(p, meta, v)
	}
	got, err := t.cache.GetOrBuild(cacheKey(p, meta, mode, index), func() (any, error) {
		return buildTemplate(p, meta, v)
	})
	if err != nil {
		return nil, err
	}
	return got.(*template), nil
}

// propertyValidator is the mode-selected strategy deciding which properties a
// translation may reference. A single walker serves every mode; only this
// check varies.
type propertyValidator interface {
	validate(f Field, attr Attribute) error
}

type unrestrictedValidator struct{}

func (unrestrictedValidator) validate(Field, Attribute) error { return nil }

type tableKeyValidator struct{}

func (tableKeyValidator) validate(f Field, attr Attribute) error {
	if attr.PartitionKey || attr.SortKey {
		return nil
	}
	return &KeyConditionError{Field: string(f), node: f}
}

type indexKeyValidator struct {
	meta  Metadata
	index string
}

func (v indexKeyValidator) validate(f Field, attr Attribute) error {
	if v.meta.QueryableInIndex(string(f), v.index) {
		return nil
	}
	return &KeyConditionError{Field: string(f), node: f}
}

func newValidator(mode Mode, index string, meta Metadata) (propertyValidator, error) {
	switch mode {
	case Unrestricted:
		return unrestrictedValidator{}, nil
	case KeysOnly:
		if meta == nil {
			return nil, unsupported(nil, "keys-only translation requires entity metadata")
		}
		if index != "" {
			return indexKeyValidator{meta: meta, index: index}, nil
		}
		return tableKeyValidator{}, nil
	default:
		return nil, unsupported(nil, fmt.Sprintf("unknown validation mode %d", int(mode)))
	}
}

// templateBuilder accumulates template segments during one tree walk.
type templateBuilder struct {
	meta      Metadata
	v         propertyValidator
	tpl       template
	attrIndex map[string]int // attribute name -> attrs index
}

func buildTemplate(p Expr, meta Metadata, v propertyValidator) (*template, error) {
	b := &templateBuilder{meta: meta, v: v, attrIndex: make(map[string]int)}
	if err := b.condition(p, nil); err != nil {
		return nil, err
	}
	return &b.tpl, nil
}

func (b *templateBuilder) lit(s string) {
	b.tpl.segs = append(b.tpl.segs, segment{kind: segLiteral, lit: s})
}

// name resolves, validates, and emits a property read. The same attribute
// reuses its slot, which is what lets the registry deduplicate placeholders
// at render time.
func (b *templateBuilder) name(f Field) error {
	attr, err := b.resolve(f)
	if err != nil {
		return err
	}
	idx, ok := b.attrIndex[attr.Name]
	if !ok {
		idx = len(b.tpl.attrs)
		b.tpl.attrs = append(b.tpl.attrs, attr.Name)
		b.attrIndex[attr.Name] = idx
	}
	b.tpl.segs = append(b.tpl.segs, segment{kind: segName, idx: idx})
	return nil
}

func (b *templateBuilder) resolve(f Field) (Attribute, error) {
	if f == "" {
		return Attribute{}, unsupported(f, "empty property name")
	}
	attr := Attribute{Name: string(f)}
	if b.meta != nil {
		a, ok := b.meta.Attribute(string(f))
		if !ok {
			return Attribute{}, &UnmappedFieldError{Field: string(f), Entity: b.meta.TableName(), node: f}
		}
		attr = a
	}
	if err := b.v.validate(f, attr); err != nil {
		return Attribute{}, err
	}
	return attr, nil
}

// value validates a value-side expression and records its path for render
// time. No evaluation happens here; templates must stay value-free.
func (b *templateBuilder) value(e Expr, path []int) error {
	if err := validateValueSide(e); err != nil {
		return err
	}
	b.tpl.segs = append(b.tpl.segs, segment{kind: segValue, idx: len(b.tpl.paths)})
	b.tpl.paths = append(b.tpl.paths, path)
	return nil
}

// condition emits a boolean-valued node. path addresses e within the root
// tree, so value replay can locate the matching node in any tree of the same
// shape.
func (b *templateBuilder) condition(e Expr, path []int) error {
	switch n := e.(type) {
	case Comparison:
		return b.comparison(n, path)
	case Conjunction:
		return b.logical(n.Left, n.Right, " AND ", path)
	case Disjunction:
		return b.logical(n.Left, n.Right, " OR ", path)
	case Negation:
		if n.Operand == nil {
			return unsupported(n, "negation of nothing")
		}
		b.lit("NOT (")
		if err := b.condition(n.Operand, childPath(path, 0)); err != nil {
			return err
		}
		b.lit(")")
		return nil
	case Call:
		return b.booleanCall(n, path)
	case Apply:
		return unsupported(n, "helper call cannot form a condition")
	case Assign:
		return unsupported(n, "assignment inside a predicate")
	case Field:
		return unsupported(n, fmt.Sprintf("bare property %q is not a condition", string(n)))
	case Constant:
		return unsupported(n, "bare value is not a condition")
	case nil:
		return unsupported(nil, "nil expression")
	default:
		return unsupported(e, "no translation rule for this expression")
	}
}

// logical emits left AND/OR right. Compound operands are parenthesized so
// precedence survives textually; leaf comparisons and function calls stay
// bare.
func (b *templateBuilder) logical(left, right Expr, op string, path []int) error {
	if err := b.operandGroup(left, childPath(path, 0)); err != nil {
		return err
	}
	b.lit(op)
	return b.operandGroup(right, childPath(path, 1))
}

func (b *templateBuilder) operandGroup(e Expr, path []int) error {
	switch e.(type) {
	case Conjunction, Disjunction:
		b.lit("(")
		if err := b.condition(e, path); err != nil {
			return err
		}
		b.lit(")")
		return nil
	}
	return b.condition(e, path)
}

// comparison emits "left op right". The operators map one to one onto the
// store syntax; the full table is reproduced in the package documentation.
func (b *templateBuilder) comparison(n Comparison, path []int) error {
	if err := b.comparisonOperand(n.Left, childPath(path, 0)); err != nil {
		return err
	}
	op, err := comparisonOp(n)
	if err != nil {
		return err
	}
	b.lit(" " + op + " ")
	return b.value(n.Right, childPath(path, 1))
}

// comparisonOperand admits a direct property read or a size() call on one.
// Any transformation applied to the property is untranslatable, since the
// store cannot run it against stored data.
func (b *templateBuilder) comparisonOperand(e Expr, path []int) error {
	switch n := e.(type) {
	case Field:
		return b.name(n)
	case Call:
		if n.Builtin == BuiltinSize {
			return b.sizeOperand(n)
		}
		return unsupported(n, fmt.Sprintf("%s() cannot be compared", n.Builtin))
	case Apply:
		return unsupported(n, "transformed property on the left of a comparison")
	case nil:
		return unsupported(nil, "comparison without a left operand")
	default:
		return unsupported(e, "left of a comparison must be a property read")
	}
}

// sizeOperand emits size(#name) as a comparison operand.
func (b *templateBuilder) sizeOperand(n Call) error {
	f, err := singleFieldArg(n)
	if err != nil {
		return err
	}
	b.lit("size(")
	if err := b.name(f); err != nil {
		return err
	}
	b.lit(")")
	return nil
}

func comparisonOp(n Comparison) (string, error) {
	switch n.Op {
	case OpEqual:
		return "=", nil
	case OpNotEqual:
		return "<>", nil
	case OpLess:
		return "<", nil
	case OpLessOrEqual:
		return "<=", nil
	case OpGreater:
		return ">", nil
	case OpGreaterOrEqual:
		return ">=", nil
	default:
		return "", unsupported(n, fmt.Sprintf("unknown comparison operator %d", int(n.Op)))
	}
}

// booleanCall emits a store function in boolean position.
func (b *templateBuilder) booleanCall(n Call, path []int) error {
	switch n.Builtin {
	case BuiltinBeginsWith:
		return b.fieldValueCall(n, "begins_with", path)
	case BuiltinContains:
		return b.fieldValueCall(n, "contains", path)
	case BuiltinBetween:
		return b.between(n, path)
	case BuiltinAttributeExists:
		return b.fieldCall(n, "attribute_exists")
	case BuiltinAttributeNotExists:
		return b.fieldCall(n, "attribute_not_exists")
	case BuiltinSize:
		return unsupported(n, "size() must be compared against a value")
	default:
		return unsupported(n, fmt.Sprintf("unknown store function %d", int(n.Builtin)))
	}
}

// fieldValueCall emits fn(#name, :value).
func (b *templateBuilder) fieldValueCall(n Call, fn string, path []int) error {
	if len(n.Args) != 2 {
		return unsupported(n, fmt.Sprintf("%s takes a property and a value", fn))
	}
	f, ok := n.Args[0].(Field)
	if !ok {
		return unsupported(n, fmt.Sprintf("%s must target a property read", fn))
	}
	b.lit(fn + "(")
	if err := b.name(f); err != nil {
		return err
	}
	b.lit(", ")
	if err := b.value(n.Args[1], childPath(path, 1)); err != nil {
		return err
	}
	b.lit(")")
	return nil
}

// between emits "#name BETWEEN :lo AND :hi".
func (b *templateBuilder) between(n Call, path []int) error {
	if len(n.Args) != 3 {
		return unsupported(n, "between takes a property and two bounds")
	}
	f, ok := n.Args[0].(Field)
	if !ok {
		return unsupported(n, "between must target a property read")
	}
	if err := b.name(f); err != nil {
		return err
	}
	b.lit(" BETWEEN ")
	if err := b.value(n.Args[1], childPath(path, 1)); err != nil {
		return err
	}
	b.lit(" AND ")
	return b.value(n.Args[2], childPath(path, 2))
}

// fieldCall emits fn(#name).
func (b *templateBuilder) fieldCall(n Call, fn string) error {
	f, err := singleFieldArg(n)
	if err != nil {
		return err
	}
	b.lit(fn + "(")
	if err := b.name(f); err != nil {
		return err
	}
	b.lit(")")
	return nil
}

func singleFieldArg(n Call) (Field, error) {
	if len(n.Args) != 1 {
		return "", unsupported(n, fmt.Sprintf("%s takes exactly one property", n.Builtin))
	}
	f, ok := n.Args[0].(Field)
	if !ok {
		return "", unsupported(n, fmt.Sprintf("%s must target a property read", n.Builtin))
	}
	return f, nil
}
