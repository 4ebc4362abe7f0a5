package predicate

// Expr is a node in a predicate tree. The set of implementations is closed:
// [Field], [Constant], [Comparison], [Conjunction], [Disjunction], [Negation],
// [Call], [Apply], and [Assign]. Trees are immutable once built; the
// translator only ever reads them, so a tree may be shared freely across
// goroutines and translated many times.
type Expr interface {
	isExpr()
}

// Field is a read of a named property on the entity under test. The name is
// the Go field name of the entity model; translation resolves it to the
// stored attribute name through [Metadata]. Field doubles as the fluent
// starting point for building predicates:
//
//	predicate.Field("Age").GreaterOrEqual(21)
//	predicate.Field("Pk").Equal("A").And(predicate.Field("Sk").BeginsWith("B"))
type Field string

// Constant is a literal or captured value on the value side of a predicate.
type Constant struct {
	Value any
}

// Op identifies a comparison operator.
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

// String returns the operator as written in predicate source, e.g. "==".
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	default:
		return "op?"
	}
}

// Comparison compares a property read against a value.
type Comparison struct {
	Op    Op
	Left  Expr
	Right Expr
}

// Conjunction holds when both operands hold.
type Conjunction struct {
	Left  Expr
	Right Expr
}

// Disjunction holds when either operand holds.
type Disjunction struct {
	Left  Expr
	Right Expr
}

// Negation inverts its operand.
type Negation struct {
	Operand Expr
}

// Builtin identifies a recognized store function.
type Builtin int

const (
	BuiltinBeginsWith Builtin = iota + 1
	BuiltinContains
	BuiltinBetween
	BuiltinAttributeExists
	BuiltinAttributeNotExists
	BuiltinSize
)

// String returns the store-side function name.
func (b Builtin) String() string {
	switch b {
	case BuiltinBeginsWith:
		return "begins_with"
	case BuiltinContains:
		return "contains"
	case BuiltinBetween:
		return "between"
	case BuiltinAttributeExists:
		return "attribute_exists"
	case BuiltinAttributeNotExists:
		return "attribute_not_exists"
	case BuiltinSize:
		return "size"
	default:
		return "builtin?"
	}
}

// Call invokes a recognized store function. The first argument is the target
// property; remaining arguments, if any, are value-side expressions.
type Call struct {
	Builtin Builtin
	Args    []Expr
}

// HelperFunc is a value-side helper invoked during translation. It receives
// the evaluated values of the call's argument expressions.
type HelperFunc func(args ...any) (any, error)

// Apply invokes a helper on the value side of a predicate. The helper runs at
// translation time and its result is registered as an attribute value; the
// store never sees the call. Argument expressions must not reference entity
// properties, since the store cannot execute host code against stored data.
type Apply struct {
	Fn   HelperFunc
	Args []Expr
}

// Assign sets a property to a value. Assignments are the raw material of
// update expressions (see the request package); inside a predicate they are
// always rejected, because predicates are read-only comparisons.
type Assign struct {
	Target Field
	Value  Expr
}

func (Field) isExpr()       {}
func (Constant) isExpr()    {}
func (Comparison) isExpr()  {}
func (Conjunction) isExpr() {}
func (Disjunction) isExpr() {}
func (Negation) isExpr()    {}
func (Call) isExpr()        {}
func (Apply) isExpr()       {}
func (Assign) isExpr()      {}

// Value wraps a literal or captured Go value as an expression node. The
// fluent comparison methods wrap plain values automatically, so Value is only
// needed when constructing nodes directly.
func Value(v any) Constant {
	return Constant{Value: v}
}

// Compute builds a helper call evaluated at translation time. Plain argument
// values are wrapped as constants.
func Compute(fn HelperFunc, args ...any) Apply {
	return Apply{Fn: fn, Args: operands(args)}
}

// And combines predicates so that every one must hold. Operands fold left
// into binary nodes.
func And(first Expr, rest ...Expr) Expr {
	out := first
	for _, p := range rest {
		out = Conjunction{Left: out, Right: p}
	}
	return out
}

// Or combines predicates so that at least one must hold. Operands fold left
// into binary nodes.
func Or(first Expr, rest ...Expr) Expr {
	out := first
	for _, p := range rest {
		out = Disjunction{Left: out, Right: p}
	}
	return out
}

// Not inverts a predicate.
func Not(p Expr) Negation {
	return Negation{Operand: p}
}

// operand admits expressions as-is and wraps anything else as a [Constant].
func operand(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Constant{Value: v}
}

func operands(vs []any) []Expr {
	out := make([]Expr, len(vs))
	for i, v := range vs {
		out[i] = operand(v)
	}
	return out
}

// Equal compares the property for equality with v.
func (f Field) Equal(v any) Comparison {
	return Comparison{Op: OpEqual, Left: f, Right: operand(v)}
}

// NotEqual compares the property for inequality with v.
func (f Field) NotEqual(v any) Comparison {
	return Comparison{Op: OpNotEqual, Left: f, Right: operand(v)}
}

// LessThan compares the property strictly below v.
func (f Field) LessThan(v any) Comparison {
	return Comparison{Op: OpLess, Left: f, Right: operand(v)}
}

// LessOrEqual compares the property at or below v.
func (f Field) LessOrEqual(v any) Comparison {
	return Comparison{Op: OpLessOrEqual, Left: f, Right: operand(v)}
}

// GreaterThan compares the property strictly above v.
func (f Field) GreaterThan(v any) Comparison {
	return Comparison{Op: OpGreater, Left: f, Right: operand(v)}
}

// GreaterOrEqual compares the property at or above v.
func (f Field) GreaterOrEqual(v any) Comparison {
	return Comparison{Op: OpGreaterOrEqual, Left: f, Right: operand(v)}
}

// BeginsWith matches string values carrying the given prefix.
func (f Field) BeginsWith(prefix any) Call {
	return Call{Builtin: BuiltinBeginsWith, Args: []Expr{f, operand(prefix)}}
}

// Contains matches when the property contains v: a substring for strings, an
// element for sets and lists.
func (f Field) Contains(v any) Call {
	return Call{Builtin: BuiltinContains, Args: []Expr{f, operand(v)}}
}

// Between matches values in the inclusive range [lo, hi].
func (f Field) Between(lo, hi any) Call {
	return Call{Builtin: BuiltinBetween, Args: []Expr{f, operand(lo), operand(hi)}}
}

// Exists matches items where the attribute is present.
func (f Field) Exists() Call {
	return Call{Builtin: BuiltinAttributeExists, Args: []Expr{f}}
}

// NotExists matches items where the attribute is absent.
func (f Field) NotExists() Call {
	return Call{Builtin: BuiltinAttributeNotExists, Args: []Expr{f}}
}

// Size yields the collection size of the attribute. The result is only
// meaningful as a comparison operand:
//
//	predicate.Field("Tags").Size().GreaterThan(5)
func (f Field) Size() Call {
	return Call{Builtin: BuiltinSize, Args: []Expr{f}}
}

// And chains another predicate that must also hold.
func (c Comparison) And(p Expr) Conjunction { return Conjunction{Left: c, Right: p} }

// Or chains an alternative predicate.
func (c Comparison) Or(p Expr) Disjunction { return Disjunction{Left: c, Right: p} }

// And chains another predicate that must also hold.
func (c Call) And(p Expr) Conjunction { return Conjunction{Left: c, Right: p} }

// Or chains an alternative predicate.
func (c Call) Or(p Expr) Disjunction { return Disjunction{Left: c, Right: p} }

// And chains another predicate that must also hold.
func (c Conjunction) And(p Expr) Conjunction { return Conjunction{Left: c, Right: p} }

// Or chains an alternative predicate.
func (c Conjunction) Or(p Expr) Disjunction { return Disjunction{Left: c, Right: p} }

// And chains another predicate that must also hold.
func (d Disjunction) And(p Expr) Conjunction { return Conjunction{Left: d, Right: p} }

// Or chains an alternative predicate.
func (d Disjunction) Or(p Expr) Disjunction { return Disjunction{Left: d, Right: p} }

// And chains another predicate that must also hold.
func (n Negation) And(p Expr) Conjunction { return Conjunction{Left: n, Right: p} }

// Or chains an alternative predicate.
func (n Negation) Or(p Expr) Disjunction { return Disjunction{Left: n, Right: p} }

// Equal compares the call result for equality with v. Meaningful for
// [Field.Size].
func (c Call) Equal(v any) Comparison {
	return Comparison{Op: OpEqual, Left: c, Right: operand(v)}
}

// NotEqual compares the call result for inequality with v.
func (c Call) NotEqual(v any) Comparison {
	return Comparison{Op: OpNotEqual, Left: c, Right: operand(v)}
}

// LessThan compares the call result strictly below v.
func (c Call) LessThan(v any) Comparison {
	return Comparison{Op: OpLess, Left: c, Right: operand(v)}
}

// LessOrEqual compares the call result at or below v.
func (c Call) LessOrEqual(v any) Comparison {
	return Comparison{Op: OpLessOrEqual, Left: c, Right: operand(v)}
}

// GreaterThan compares the call result strictly above v.
func (c Call) GreaterThan(v any) Comparison {
	return Comparison{Op: OpGreater, Left: c, Right: operand(v)}
}

// GreaterOrEqual compares the call result at or above v.
func (c Call) GreaterOrEqual(v any) Comparison {
	return Comparison{Op: OpGreaterOrEqual, Left: c, Right: operand(v)}
}
