package query

import (
	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/errs"
)

// state is the accumulator shared by every stage of one builder.
type state struct {
	fields     []string
	collection string
	named      bool
	cond       condition.Condition
	sorts      []Sort
	skip       int64
	limit      int64
	err        error
}

func newState(fields []string) *state {
	s := &state{}
	s.fields, s.err = checkFields(fields)
	return s
}

// fail records err unless an earlier failure is already recorded.
func (s *state) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *state) from(name string) {
	if s.err != nil {
		return
	}
	switch {
	case name == "":
		s.fail(errs.NilArgument("collection"))
	case s.named:
		s.fail(errs.Structural("collection", "collection already set to %q", s.collection))
	default:
		s.collection = name
		s.named = true
	}
}

func (s *state) orderBy(field string, d Direction) {
	if s.err != nil {
		return
	}
	sort, err := NewSort(field, d)
	if err != nil {
		s.fail(err)
		return
	}
	s.sorts = append(s.sorts, sort)
}

func (s *state) setSkip(n int64) {
	if s.err != nil {
		return
	}
	if n < 0 {
		s.fail(errs.Structural("skip", "must not be negative, got %d", n))
		return
	}
	s.skip = n
}

func (s *state) setLimit(n int64) {
	if s.err != nil {
		return
	}
	s.limit = n
}

// negate wraps the accumulated condition in NOT.
func (s *state) negate() {
	if s.err != nil {
		return
	}
	c, err := condition.Negate(s.cond)
	if err != nil {
		s.fail(err)
		return
	}
	s.cond = c
}

// join says how a finished predicate merges into the accumulated condition.
type join int

const (
	joinWhere join = iota
	joinAnd
	joinOr
)

// Clause is the stage after Where, And or Or: it waits for a predicate.
// N is the stage the predicate returns to.
type Clause[N any] struct {
	s       *state
	next    N
	field   string
	join    join
	negates int
}

func newClause[N any](s *state, next N, field string, j join) *Clause[N] {
	if s.err == nil && field == "" {
		s.fail(errs.NilArgument("field"))
	}
	return &Clause[N]{s: s, next: next, field: field, join: j}
}

// Not negates the condition the next predicate creates. Each call adds one
// NOT level.
func (c *Clause[N]) Not() *Clause[N] {
	c.negates++
	return c
}

// Eq requires the field to equal v.
func (c *Clause[N]) Eq(v any) N { return c.close(condition.Eq(c.field, v)) }

// Gt requires the field to be greater than v.
func (c *Clause[N]) Gt(v any) N { return c.close(condition.Gt(c.field, v)) }

// Gte requires the field to be greater than or equal to v.
func (c *Clause[N]) Gte(v any) N { return c.close(condition.Gte(c.field, v)) }

// Lt requires the field to be lesser than v.
func (c *Clause[N]) Lt(v any) N { return c.close(condition.Lt(c.field, v)) }

// Lte requires the field to be lesser than or equal to v.
func (c *Clause[N]) Lte(v any) N { return c.close(condition.Lte(c.field, v)) }

// Like requires the field to match pattern.
func (c *Clause[N]) Like(pattern any) N { return c.close(condition.Like(c.field, pattern)) }

// Between requires the field to lie within [lower, upper].
func (c *Clause[N]) Between(lower, upper any) N {
	return c.close(condition.Between(c.field, lower, upper))
}

// In requires the field to equal one of values.
func (c *Clause[N]) In(values any) N { return c.close(condition.In(c.field, values)) }

// Err returns the first recorded failure.
func (c *Clause[N]) Err() error { return c.s.err }

func (c *Clause[N]) close(leaf condition.Condition, err error) N {
	s := c.s
	if s.err != nil {
		return c.next
	}
	if err != nil {
		s.fail(err)
		return c.next
	}
	for range c.negates {
		if leaf, err = condition.Negate(leaf); err != nil {
			s.fail(err)
			return c.next
		}
	}

	switch {
	case c.join == joinWhere || s.cond.IsZero():
		s.cond = leaf
	case c.join == joinAnd:
		s.cond, err = condition.And(s.cond, leaf)
	default:
		s.cond, err = condition.Or(s.cond, leaf)
	}
	if err != nil {
		s.fail(err)
	}
	return c.next
}

func (s *state) buildQuery() (Query, error) {
	if s.err != nil {
		return Query{}, s.err
	}
	if !s.named {
		return Query{}, errs.NilArgument("collection")
	}
	return Query{
		collection:  s.collection,
		fields:      cloneOrNil(s.fields),
		sorts:       cloneOrNil(s.sorts),
		firstResult: s.skip,
		maxResults:  s.limit,
		condition:   s.cond,
	}, nil
}

func (s *state) buildDelete() (DeleteQuery, error) {
	if s.err != nil {
		return DeleteQuery{}, s.err
	}
	if !s.named {
		return DeleteQuery{}, errs.NilArgument("collection")
	}
	return DeleteQuery{
		collection: s.collection,
		fields:     cloneOrNil(s.fields),
		condition:  s.cond,
	}, nil
}

func cloneOrNil[T any](xs []T) []T {
	if len(xs) == 0 {
		return nil
	}
	return append([]T(nil), xs...)
}
