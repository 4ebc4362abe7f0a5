package predicate

import (
	"fmt"
	"strings"
)

// template is the cached, value-free product of one tree walk: the condition
// text split into literal segments and placeholder slots. Name slots index
// into attrs, the resolved stored-attribute names in first-reference order.
// Value slots hold the child-index path of the value-producing
// sub-expression, so a replay against any tree of the same shape evaluates
// that tree's own values. Templates hold no captured values and no literal
// placeholder numbers; numbering comes from the live registries at render
// time.
type template struct {
	segs  []segment
	attrs []string
	paths [][]int
}

type segKind int

const (
	segLiteral segKind = iota
	segName
	segValue
)

type segment struct {
	kind segKind
	lit  string
	idx  int // attrs index for segName, paths index for segValue
}

// render produces the condition string for tree, funneling attribute names
// and freshly evaluated values through the supplied registries. The
// registries may already hold entries from earlier fragments of the same
// request; numbering continues from their current state.
func (t *template) render(tree Expr, names *NameRegistry, values *ValueRegistry) (string, error) {
	var b strings.Builder
	for _, s := range t.segs {
		switch s.kind {
		case segLiteral:
			b.WriteString(s.lit)
		case segName:
			b.WriteString(names.Placeholder(t.attrs[s.idx]))
		case segValue:
			node, ok := childAt(tree, t.paths[s.idx])
			if !ok {
				return "", unsupported(tree, "tree no longer matches its cached shape")
			}
			v, err := evalValue(node)
			if err != nil {
				return "", err
			}
			p, err := values.AddValue(v)
			if err != nil {
				return "", &UnsupportedError{Reason: "value cannot be stored", node: node, cause: err}
			}
			b.WriteString(p)
		}
	}
	return b.String(), nil
}

// childAt resolves a child-index path recorded during template construction
// against a concrete tree.
func childAt(e Expr, path []int) (Expr, bool) {
	for _, i := range path {
		switch n := e.(type) {
		case Comparison:
			switch i {
			case 0:
				e = n.Left
			case 1:
				e = n.Right
			default:
				return nil, false
			}
		case Conjunction:
			switch i {
			case 0:
				e = n.Left
			case 1:
				e = n.Right
			default:
				return nil, false
			}
		case Disjunction:
			switch i {
			case 0:
				e = n.Left
			case 1:
				e = n.Right
			default:
				return nil, false
			}
		case Negation:
			if i != 0 {
				return nil, false
			}
			e = n.Operand
		case Call:
			if i < 0 || i >= len(n.Args) {
				return nil, false
			}
			e = n.Args[i]
		case Apply:
			if i < 0 || i >= len(n.Args) {
				return nil, false
			}
			e = n.Args[i]
		case Assign:
			switch i {
			case 0:
				e = n.Target
			case 1:
				e = n.Value
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return e, true
}

// childPath extends a path by one step, always into a fresh slice so stored
// paths never alias the walker's working slice.
func childPath(path []int, i int) []int {
	p := make([]int, len(path)+1)
	copy(p, path)
	p[len(path)] = i
	return p
}

// Eval computes the runtime value of a value-side expression: constants
// yield their value, helper calls evaluate their arguments and run. Anything
// else, property reads included, fails with [UnsupportedError]. Request
// builders use this when assembling update expressions; within a
// translation the same evaluation happens automatically.
func Eval(e Expr) (any, error) {
	return evalValue(e)
}

func evalValue(e Expr) (any, error) {
	switch n := e.(type) {
	case Constant:
		return n.Value, nil
	case Apply:
		if n.Fn == nil {
			return nil, unsupported(n, "helper call with nil function")
		}
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			v, err := evalValue(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		v, err := n.Fn(args...)
		if err != nil {
			return nil, &UnsupportedError{Reason: "helper call failed", node: n, cause: err}
		}
		return v, nil
	case Field:
		return nil, unsupported(n, fmt.Sprintf("property %q referenced on the value side", string(n)))
	case nil:
		return nil, unsupported(nil, "missing value expression")
	default:
		return nil, unsupported(e, "expression cannot be used as a value")
	}
}

// validateValueSide checks, without evaluating, that a value-side expression
// is computable from constants and helpers alone. Property reads anywhere
// beneath are rejected: the store cannot execute host code against stored
// data, so a helper whose arguments touch the entity has no meaning there.
func validateValueSide(e Expr) error {
	switch n := e.(type) {
	case Constant:
		return nil
	case Apply:
		if n.Fn == nil {
			return unsupported(n, "helper call with nil function")
		}
		for _, a := range n.Args {
			if err := validateValueSide(a); err != nil {
				return err
			}
		}
		return nil
	case Field:
		return unsupported(n, fmt.Sprintf("property %q referenced on the value side", string(n)))
	case nil:
		return unsupported(nil, "missing value expression")
	default:
		return unsupported(e, "expression cannot be used as a value")
	}
}
