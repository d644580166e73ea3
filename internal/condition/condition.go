package condition

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/nosqlcore/internal/canonical"
	"github.com/roach88/nosqlcore/internal/errs"
	"github.com/roach88/nosqlcore/internal/value"
)

// Condition is an immutable node of the condition tree. Operands are
// deep-copied on construction and on every read.
//
// The zero Condition is invalid: every constructor and combinator rejects
// it as a missing argument.
type Condition struct {
	kind    Kind
	element value.Element
}

// Must panics if err is non-nil and returns c otherwise.
//
//	c := condition.Must(condition.Eq("name", "Ada"))
func Must(c Condition, err error) Condition {
	if err != nil {
		panic(err)
	}
	return c
}

// Eq matches entities whose field equals v.
func Eq(field string, v any) (Condition, error) { return leaf(Equals, field, v) }

// Gt matches entities whose field is greater than v.
func Gt(field string, v any) (Condition, error) { return leaf(GreaterThan, field, v) }

// Gte matches entities whose field is greater than or equal to v.
func Gte(field string, v any) (Condition, error) { return leaf(GreaterOrEqual, field, v) }

// Lt matches entities whose field is lesser than v.
func Lt(field string, v any) (Condition, error) { return leaf(LesserThan, field, v) }

// Lte matches entities whose field is lesser than or equal to v.
func Lte(field string, v any) (Condition, error) { return leaf(LesserOrEqual, field, v) }

// Like matches entities whose field matches pattern. The pattern must be a
// string or a fmt.Stringer.
func Like(field string, pattern any) (Condition, error) { return leaf(Like, field, pattern) }

// Between matches entities whose field lies within [lower, upper].
func Between(field string, lower, upper any) (Condition, error) {
	if lower == nil {
		return Condition{}, errs.NilArgument("lower")
	}
	if upper == nil {
		return Condition{}, errs.NilArgument("upper")
	}
	return leaf(Between, field, []any{lower, upper})
}

// In matches entities whose field equals one of values. values must be a
// non-empty slice or array; it is copied.
func In(field string, values any) (Condition, error) { return leaf(In, field, values) }

// Of builds a leaf of kind k from an existing element, applying the same
// checks as the typed constructors.
func Of(k Kind, e value.Element) (Condition, error) {
	if e.IsZero() {
		return Condition{}, errs.NilArgument("element")
	}
	if !k.IsLeaf() {
		return Condition{}, errs.Structural("kind", "%s is not a leaf kind", k)
	}
	return leaf(k, e.Name(), e.Get())
}

func leaf(k Kind, field string, v any) (Condition, error) {
	if field == "" {
		return Condition{}, errs.NilArgument("field")
	}
	if v == nil {
		return Condition{}, errs.NilArgument("value")
	}

	operand := v
	switch k {
	case Like:
		switch v.(type) {
		case string, fmt.Stringer:
		default:
			return Condition{}, errs.Structural("value", "LIKE requires a string pattern, got %T", v)
		}
	case Between:
		items, err := sequence("value", v)
		if err != nil {
			return Condition{}, err
		}
		if len(items) != 2 {
			return Condition{}, errs.Structural("value", "BETWEEN requires exactly 2 bounds, got %d", len(items))
		}
		operand = items
	case In:
		items, err := sequence("values", v)
		if err != nil {
			return Condition{}, err
		}
		if len(items) == 0 {
			return Condition{}, errs.Structural("values", "IN requires at least one value")
		}
		operand = items
	}

	e, err := value.NewElement(field, operand)
	if err != nil {
		return Condition{}, err
	}
	return Condition{kind: k, element: e}, nil
}

// sequence copies a slice or array into []any, rejecting nil members.
func sequence(arg string, v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errs.Structural(arg, "expected a sequence, got %T", v)
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, errs.NilArgument(arg)
	}

	out := make([]any, rv.Len())
	for i := range out {
		item := rv.Index(i).Interface()
		if item == nil {
			return nil, errs.Structural(arg, "member %d is nil", i)
		}
		out[i] = item
	}
	return out, nil
}

// Negate wraps c in a NOT node. Negating a NOT adds another level.
func Negate(c Condition) (Condition, error) {
	if c.IsZero() {
		return Condition{}, errs.NilArgument("condition")
	}
	return Condition{kind: Not, element: value.MustElement(Not.String(), c)}, nil
}

// And conjoins a and b. An AND operand contributes its children in place of
// itself; the result lists a's terms before b's.
func And(a, b Condition) (Condition, error) { return combine(And, a, b) }

// Or disjoins a and b under the same flattening rule as And.
func Or(a, b Condition) (Condition, error) { return combine(Or, a, b) }

// AllOf folds And over conditions left to right. A single condition is
// returned unchanged.
func AllOf(conditions ...Condition) (Condition, error) { return fold(And, conditions) }

// AnyOf folds Or over conditions left to right.
func AnyOf(conditions ...Condition) (Condition, error) { return fold(Or, conditions) }

func fold(k Kind, conditions []Condition) (Condition, error) {
	if len(conditions) == 0 {
		return Condition{}, errs.NilArgument("conditions")
	}
	acc := conditions[0]
	if acc.IsZero() {
		return Condition{}, errs.NilArgument("condition")
	}
	for _, c := range conditions[1:] {
		var err error
		if acc, err = combine(k, acc, c); err != nil {
			return Condition{}, err
		}
	}
	return acc, nil
}

func combine(k Kind, a, b Condition) (Condition, error) {
	if a.IsZero() || b.IsZero() {
		return Condition{}, errs.NilArgument("condition")
	}
	children := make([]Condition, 0, 2)
	children = appendTerms(children, k, a)
	children = appendTerms(children, k, b)
	return Condition{kind: k, element: value.MustElement(k.String(), children)}, nil
}

func appendTerms(dst []Condition, k Kind, c Condition) []Condition {
	if c.kind == k {
		return append(dst, c.children()...)
	}
	return append(dst, c)
}

// Kind returns the operator.
func (c Condition) Kind() Kind { return c.kind }

// Element returns the payload. For AND and OR the element holds a copy of
// the children.
func (c Condition) Element() value.Element {
	if c.kind == And || c.kind == Or {
		return value.MustElement(c.kind.String(), c.Children())
	}
	return c.element
}

// Field returns the compared field of a leaf, or "" for AND, OR and NOT.
func (c Condition) Field() string {
	if !c.kind.IsLeaf() {
		return ""
	}
	return c.element.Name()
}

// Value returns a copy of the operand of a leaf. BETWEEN and IN operands
// are []any.
func (c Condition) Value() any {
	if !c.kind.IsLeaf() {
		return nil
	}
	return c.element.Get()
}

// Children returns a copy of the terms of an AND or OR node, the single
// child of a NOT node, or nil for a leaf.
func (c Condition) Children() []Condition {
	switch c.kind {
	case And, Or:
		return append([]Condition(nil), c.children()...)
	case Not:
		child, _ := c.Negated()
		return []Condition{child}
	}
	return nil
}

func (c Condition) children() []Condition {
	cs, _ := c.element.Get().([]Condition)
	return cs
}

// Negated returns the child of a NOT node.
func (c Condition) Negated() (Condition, bool) {
	if c.kind != Not {
		return Condition{}, false
	}
	child, ok := c.element.Get().(Condition)
	return child, ok
}

// IsZero reports whether c was never constructed.
func (c Condition) IsZero() bool { return c.kind == 0 }

// And is the method form of And.
func (c Condition) And(other Condition) (Condition, error) { return And(c, other) }

// Or is the method form of Or.
func (c Condition) Or(other Condition) (Condition, error) { return Or(c, other) }

// Negate is the method form of Negate.
func (c Condition) Negate() (Condition, error) { return Negate(c) }

// Equal reports structural equality: same kind and same payload, children
// compared in order.
func (c Condition) Equal(other Condition) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case And, Or:
		a, b := c.children(), other.children()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case Not:
		a, _ := c.Negated()
		b, _ := other.Negated()
		return a.Equal(b)
	}
	return c.element.Equal(other.element)
}

// String renders c as an infix expression, e.g. (name = Ada AND age > 10).
func (c Condition) String() string {
	switch c.kind {
	case 0:
		return "<invalid>"
	case And, Or:
		parts := make([]string, 0, len(c.children()))
		for _, child := range c.children() {
			parts = append(parts, child.String())
		}
		return "(" + strings.Join(parts, " "+c.kind.String()+" ") + ")"
	case Not:
		child, _ := c.Negated()
		return "NOT " + child.String()
	}
	return fmt.Sprintf("%s %s %v", c.element.Name(), c.kind.symbol(), c.element.Get())
}

// CanonicalValue implements canonical.Valuer.
func (c Condition) CanonicalValue() any {
	out := map[string]any{"kind": c.kind.String()}
	switch c.kind {
	case And, Or:
		terms := make([]any, 0, len(c.children()))
		for _, child := range c.children() {
			terms = append(terms, child.CanonicalValue())
		}
		out["terms"] = terms
	case Not:
		child, _ := c.Negated()
		out["negated"] = child.CanonicalValue()
	default:
		out["field"] = c.element.Name()
		out["value"] = c.element.Value().CanonicalValue()
	}
	return out
}

// MarshalJSON renders the canonical form.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return nil, errs.NilArgument("condition")
	}
	return canonical.Marshal(c)
}

// Hash returns the structural content hash of c.
func (c Condition) Hash() (string, error) {
	if c.IsZero() {
		return "", errs.NilArgument("condition")
	}
	return canonical.Hash(canonical.DomainCondition, c)
}
