package condition

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/nosqlcore/internal/reader"
)

// ValidationResult lists suspicious but legal constructs found in a tree.
//
// Every Condition that exists is well-formed; Validate looks for shapes
// that are usually mistakes, so tooling can report them.
type ValidationResult struct {
	// Clean is true when no warnings were raised.
	Clean bool

	// Warnings describes each finding in traversal order.
	Warnings []string
}

// Validate inspects c and reports:
//  1. NOT directly over NOT (double negation is kept, not cancelled)
//  2. IN with a single member (equivalent to EQUALS)
//  3. LIKE patterns without a % or _ wildcard
//  4. BETWEEN bounds that are numerically reversed
//
// Validate is a pure function with no side effects.
func Validate(c Condition) ValidationResult {
	v := &validator{warnings: []string{}}
	Walk(c, func(n Condition) bool {
		v.validate(n)
		return true
	})
	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validate(c Condition) {
	switch c.Kind() {
	case Not:
		if child, _ := c.Negated(); child.Kind() == Not {
			v.addWarning("double negation of %s is preserved as two NOT levels", child)
		}
	case In:
		if items, _ := c.Value().([]any); len(items) == 1 {
			v.addWarning("IN on field '%s' has a single value; EQUALS is equivalent", c.Field())
		}
	case Like:
		if p := fmt.Sprint(c.Value()); !strings.ContainsAny(p, "%_") {
			v.addWarning("LIKE pattern %q on field '%s' has no wildcard", p, c.Field())
		}
	case Between:
		v.validateBounds(c)
	}
}

// validateBounds warns when both bounds are numeric and lower > upper.
func (v *validator) validateBounds(c Condition) {
	bounds, _ := c.Value().([]any)
	if len(bounds) != 2 {
		return
	}
	r := reader.Default()
	lo, err := reader.As[decimal.Decimal](r, bounds[0])
	if err != nil {
		return
	}
	hi, err := reader.As[decimal.Decimal](r, bounds[1])
	if err != nil {
		return
	}
	if lo.GreaterThan(hi) {
		v.addWarning("BETWEEN on field '%s' has lower bound %s above upper bound %s", c.Field(), lo, hi)
	}
}
