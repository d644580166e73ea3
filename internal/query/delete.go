package query

import (
	"slices"
	"strings"

	"github.com/roach88/nosqlcore/internal/canonical"
	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/errs"
)

// DeleteQuery is an immutable delete descriptor. With a non-empty
// projection it removes those fields from matching entities; otherwise it
// removes the entities.
type DeleteQuery struct {
	collection string
	fields     []string
	condition  condition.Condition
}

// NewDelete builds a DeleteQuery over collection.
func NewDelete(collection string, opts ...DeleteOption) (DeleteQuery, error) {
	if collection == "" {
		return DeleteQuery{}, errs.NilArgument("collection")
	}
	q := DeleteQuery{collection: collection}
	for _, opt := range opts {
		if opt == nil {
			return DeleteQuery{}, errs.NilArgument("option")
		}
		if err := opt.applyDelete(&q); err != nil {
			return DeleteQuery{}, err
		}
	}
	return q, nil
}

// Collection returns the collection name.
func (q DeleteQuery) Collection() string { return q.collection }

// Fields returns a copy of the projection.
func (q DeleteQuery) Fields() []string { return slices.Clone(q.fields) }

// Condition returns the filter, if any.
func (q DeleteQuery) Condition() (condition.Condition, bool) {
	return q.condition, !q.condition.IsZero()
}

// Equal compares every component.
func (q DeleteQuery) Equal(other DeleteQuery) bool {
	return q.collection == other.collection &&
		slices.Equal(q.fields, other.fields) &&
		q.condition.Equal(other.condition)
}

func (q DeleteQuery) String() string {
	var b strings.Builder
	b.WriteString("DELETE ")
	if len(q.fields) > 0 {
		b.WriteString(strings.Join(q.fields, ", "))
		b.WriteString(" ")
	}
	b.WriteString("FROM ")
	b.WriteString(q.collection)
	if c, ok := q.Condition(); ok {
		b.WriteString(" WHERE ")
		b.WriteString(c.String())
	}
	return b.String()
}

// CanonicalValue implements canonical.Valuer.
func (q DeleteQuery) CanonicalValue() any {
	out := map[string]any{
		"collection": q.collection,
		"fields":     stringsToAny(q.fields),
	}
	if c, ok := q.Condition(); ok {
		out["condition"] = c.CanonicalValue()
	}
	return out
}

// MarshalJSON renders the canonical form.
func (q DeleteQuery) MarshalJSON() ([]byte, error) {
	return canonical.Marshal(q)
}

// Hash returns the structural content hash of q.
func (q DeleteQuery) Hash() (string, error) {
	return canonical.Hash(canonical.DomainDelete, q)
}
