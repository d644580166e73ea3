package query

import (
	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/errs"
)

// Option configures a Query built with New.
type Option interface {
	applyQuery(*Query) error
}

// DeleteOption configures a DeleteQuery built with NewDelete.
type DeleteOption interface {
	applyDelete(*DeleteQuery) error
}

// SharedOption configures both descriptor kinds.
type SharedOption interface {
	Option
	DeleteOption
}

type queryOption func(*Query) error

func (f queryOption) applyQuery(q *Query) error { return f(q) }

type fieldsOption []string

func (o fieldsOption) applyQuery(q *Query) error {
	fields, err := checkFields(o)
	q.fields = fields
	return err
}

func (o fieldsOption) applyDelete(q *DeleteQuery) error {
	fields, err := checkFields(o)
	q.fields = fields
	return err
}

type conditionOption struct{ c condition.Condition }

func (o conditionOption) applyQuery(q *Query) error {
	if o.c.IsZero() {
		return errs.NilArgument("condition")
	}
	q.condition = o.c
	return nil
}

func (o conditionOption) applyDelete(q *DeleteQuery) error {
	if o.c.IsZero() {
		return errs.NilArgument("condition")
	}
	q.condition = o.c
	return nil
}

// WithFields sets the projection. The slice is copied.
func WithFields(fields ...string) SharedOption { return fieldsOption(fields) }

// WithCondition sets the filter.
func WithCondition(c condition.Condition) SharedOption { return conditionOption{c: c} }

// WithSorts sets the result order. The slice is copied.
func WithSorts(sorts ...Sort) Option {
	return queryOption(func(q *Query) error {
		for _, s := range sorts {
			if s.IsZero() {
				return errs.NilArgument("sort")
			}
		}
		q.sorts = append([]Sort(nil), sorts...)
		return nil
	})
}

// WithFirstResult sets how many results to skip. n must not be negative.
func WithFirstResult(n int64) Option {
	return queryOption(func(q *Query) error {
		if n < 0 {
			return errs.Structural("firstResult", "must not be negative, got %d", n)
		}
		q.firstResult = n
		return nil
	})
}

// WithMaxResults caps the number of results. n <= 0 means unbounded.
func WithMaxResults(n int64) Option {
	return queryOption(func(q *Query) error {
		q.maxResults = n
		return nil
	})
}

func checkFields(fields []string) ([]string, error) {
	for _, f := range fields {
		if f == "" {
			return nil, errs.NilArgument("field")
		}
	}
	return append([]string(nil), fields...), nil
}
