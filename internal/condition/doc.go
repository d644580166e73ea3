// Package condition provides the condition algebra that query descriptors
// filter with.
//
// A Condition is an immutable tree. Leaves compare one field against an
// operand; AND, OR and NOT combine other conditions:
//
//	name := condition.Must(condition.Eq("name", "Ada"))
//	age := condition.Must(condition.Gt("age", 10))
//	both, err := condition.And(name, age)
//
// COMBINATION LAWS:
//
// And and Or flatten operands of their own kind, so And(And(a, b), c) has
// the three children a, b, c in that order. AND never flattens into OR or
// the other way round. Negate always adds a level: Negate(Negate(a)) is two
// NOT nodes above a, never a.
//
// PAYLOAD SHAPES:
//
//	Kind                 Element name   Element value
//	----                 ------------   -------------
//	EQUALS ... LIKE      field          operand
//	BETWEEN              field          []any{lower, upper}
//	IN                   field          []any (non-empty)
//	AND, OR              "AND", "OR"    []Condition (ordered)
//	NOT                  "NOT"          Condition
//
// Drivers inspect trees with Kind, Element and Children, or traverse them
// with Walk.
package condition
