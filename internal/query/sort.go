package query

import (
	"fmt"

	"github.com/roach88/nosqlcore/internal/errs"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "ASC" or "DESC" in either case.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "ASC", "asc":
		return Ascending, nil
	case "DESC", "desc":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort direction %q", s)
}

// Sort orders results by one field.
type Sort struct {
	field     string
	direction Direction
}

// NewSort orders by field in direction d.
func NewSort(field string, d Direction) (Sort, error) {
	if field == "" {
		return Sort{}, errs.NilArgument("field")
	}
	if d != Ascending && d != Descending {
		return Sort{}, errs.Structural("direction", "invalid sort direction %d", int(d))
	}
	return Sort{field: field, direction: d}, nil
}

// Asc orders by field ascending.
func Asc(field string) (Sort, error) { return NewSort(field, Ascending) }

// Desc orders by field descending.
func Desc(field string) (Sort, error) { return NewSort(field, Descending) }

// Field returns the sorted field.
func (s Sort) Field() string { return s.field }

// Direction returns the sort direction.
func (s Sort) Direction() Direction { return s.direction }

// IsZero reports whether s was never constructed.
func (s Sort) IsZero() bool { return s.field == "" }

func (s Sort) String() string { return s.field + " " + s.direction.String() }

// CanonicalValue implements canonical.Valuer.
func (s Sort) CanonicalValue() any {
	return map[string]any{"field": s.field, "direction": s.direction.String()}
}
