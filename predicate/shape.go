package predicate

import (
	"fmt"
	"strings"
)

// cacheKey renders the composite cache key for one translation: metadata
// identity, mode, index, and the structural shape of the tree. Variable-width
// parts are length-prefixed so adjacent segments can never collide into the
// same key.
func cacheKey(p Expr, meta Metadata, mode Mode, index string) string {
	var b strings.Builder
	table := ""
	if meta != nil {
		table = meta.TableName()
	}
	fmt.Fprintf(&b, "t%d:%s;m%d;i%d:%s;", len(table), table, int(mode), len(index), index)
	writeShape(&b, p)
	return b.String()
}

// writeShape renders the structural identity of a tree: node kinds,
// operators, builtin markers, and property names, with every value position
// reduced to a bare marker. Two trees with equal shapes share one template;
// their values are recovered per call by path, never from the key. The walk
// is tolerant of malformed trees, which fail later with a proper error when
// the template is built.
func writeShape(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case Field:
		fmt.Fprintf(b, "f%d:%s;", len(n), string(n))
	case Constant:
		b.WriteString("v;")
	case Comparison:
		fmt.Fprintf(b, "c%d(", int(n.Op))
		writeShape(b, n.Left)
		writeShape(b, n.Right)
		b.WriteString(")")
	case Conjunction:
		b.WriteString("and(")
		writeShape(b, n.Left)
		writeShape(b, n.Right)
		b.WriteString(")")
	case Disjunction:
		b.WriteString("or(")
		writeShape(b, n.Left)
		writeShape(b, n.Right)
		b.WriteString(")")
	case Negation:
		b.WriteString("not(")
		writeShape(b, n.Operand)
		b.WriteString(")")
	case Call:
		fmt.Fprintf(b, "b%d(", int(n.Builtin))
		for _, a := range n.Args {
			writeShape(b, a)
		}
		b.WriteString(")")
	case Apply:
		b.WriteString("h(")
		for _, a := range n.Args {
			writeShape(b, a)
		}
		b.WriteString(")")
	case Assign:
		b.WriteString("set(")
		writeShape(b, n.Target)
		writeShape(b, n.Value)
		b.WriteString(")")
	case nil:
		b.WriteString("nil;")
	default:
		b.WriteString("?;")
	}
}
