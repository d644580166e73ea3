package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/nosqlcore/internal/canonical"
	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/errs"
)

// Query is an immutable select descriptor.
type Query struct {
	collection  string
	fields      []string
	sorts       []Sort
	firstResult int64
	maxResults  int64
	condition   condition.Condition
}

// New builds a Query over collection. Without options it selects every
// field of every entity, unsorted and unbounded.
func New(collection string, opts ...Option) (Query, error) {
	if collection == "" {
		return Query{}, errs.NilArgument("collection")
	}
	q := Query{collection: collection}
	for _, opt := range opts {
		if opt == nil {
			return Query{}, errs.NilArgument("option")
		}
		if err := opt.applyQuery(&q); err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

// Collection returns the collection name.
func (q Query) Collection() string { return q.collection }

// Fields returns a copy of the projection. Empty means all fields.
func (q Query) Fields() []string { return slices.Clone(q.fields) }

// Sorts returns a copy of the sort order.
func (q Query) Sorts() []Sort { return slices.Clone(q.sorts) }

// FirstResult returns how many results to skip.
func (q Query) FirstResult() int64 { return q.firstResult }

// MaxResults returns the result cap; <= 0 means unbounded.
func (q Query) MaxResults() int64 { return q.maxResults }

// Condition returns the filter, if any.
func (q Query) Condition() (condition.Condition, bool) {
	return q.condition, !q.condition.IsZero()
}

// ToDelete derives the delete descriptor with the same collection,
// projection and condition.
func (q Query) ToDelete() DeleteQuery {
	return DeleteQuery{
		collection: q.collection,
		fields:     slices.Clone(q.fields),
		condition:  q.condition,
	}
}

// Equal compares every component.
func (q Query) Equal(other Query) bool {
	return q.collection == other.collection &&
		slices.Equal(q.fields, other.fields) &&
		slices.Equal(q.sorts, other.sorts) &&
		q.firstResult == other.firstResult &&
		q.maxResults == other.maxResults &&
		q.condition.Equal(other.condition)
}

// String renders a readable form, e.g.
// SELECT name FROM people WHERE age > 10 ORDER BY name ASC LIMIT 20.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	writeProjection(&b, q.fields)
	b.WriteString(" FROM ")
	b.WriteString(q.collection)
	if c, ok := q.Condition(); ok {
		b.WriteString(" WHERE ")
		b.WriteString(c.String())
	}
	if len(q.sorts) > 0 {
		parts := make([]string, len(q.sorts))
		for i, s := range q.sorts {
			parts[i] = s.String()
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if q.firstResult > 0 {
		fmt.Fprintf(&b, " SKIP %d", q.firstResult)
	}
	if q.maxResults > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.maxResults)
	}
	return b.String()
}

// CanonicalValue implements canonical.Valuer.
func (q Query) CanonicalValue() any {
	sorts := make([]any, len(q.sorts))
	for i, s := range q.sorts {
		sorts[i] = s.CanonicalValue()
	}
	out := map[string]any{
		"collection":  q.collection,
		"fields":      stringsToAny(q.fields),
		"sorts":       sorts,
		"firstResult": q.firstResult,
		"maxResults":  q.maxResults,
	}
	if c, ok := q.Condition(); ok {
		out["condition"] = c.CanonicalValue()
	}
	return out
}

// MarshalJSON renders the canonical form.
func (q Query) MarshalJSON() ([]byte, error) {
	return canonical.Marshal(q)
}

// Hash returns the structural content hash of q.
func (q Query) Hash() (string, error) {
	return canonical.Hash(canonical.DomainQuery, q)
}

func writeProjection(b *strings.Builder, fields []string) {
	if len(fields) == 0 {
		b.WriteString("*")
		return
	}
	b.WriteString(strings.Join(fields, ", "))
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
