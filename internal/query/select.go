package query

// Select starts a select builder projecting fields. No fields selects all.
func Select(fields ...string) *Selection {
	return &Selection{s: newState(fields)}
}

// Selection is the initial select stage.
type Selection struct{ s *state }

// From names the collection. It may be called once per builder.
func (b *Selection) From(collection string) *SelectFrom {
	b.s.from(collection)
	return &SelectFrom{s: b.s}
}

// Err returns the first recorded failure.
func (b *Selection) Err() error { return b.s.err }

// selectTail holds the operations shared by every select stage after From.
type selectTail struct{ s *state }

// OrderBy starts a sort on field; finish it with Asc or Desc.
func (t selectTail) OrderBy(field string) *SelectOrder {
	return &SelectOrder{s: t.s, field: field}
}

// Skip sets how many results to skip. n must not be negative.
func (t selectTail) Skip(n int64) *SelectPage {
	t.s.setSkip(n)
	return &SelectPage{s: t.s}
}

// Limit caps the number of results. n <= 0 means unbounded.
func (t selectTail) Limit(n int64) *SelectPage {
	t.s.setLimit(n)
	return &SelectPage{s: t.s}
}

// SelectFrom is the stage after From.
type SelectFrom struct{ s *state }

// Where starts the condition on field.
func (b *SelectFrom) Where(field string) *Clause[*SelectWhere] {
	return newClause(b.s, &SelectWhere{s: b.s}, field, joinWhere)
}

// OrderBy starts a sort on field.
func (b *SelectFrom) OrderBy(field string) *SelectOrder { return selectTail(*b).OrderBy(field) }

// Skip sets how many results to skip.
func (b *SelectFrom) Skip(n int64) *SelectPage { return selectTail(*b).Skip(n) }

// Limit caps the number of results.
func (b *SelectFrom) Limit(n int64) *SelectPage { return selectTail(*b).Limit(n) }

// Build snapshots the builder into a Query.
func (b *SelectFrom) Build() (Query, error) { return b.s.buildQuery() }

// Err returns the first recorded failure.
func (b *SelectFrom) Err() error { return b.s.err }

// SelectWhere is the stage after a predicate.
type SelectWhere struct{ s *state }

// And conjoins a condition on field with the conditions so far.
func (b *SelectWhere) And(field string) *Clause[*SelectWhere] {
	return newClause(b.s, b, field, joinAnd)
}

// Not negates the conditions accumulated so far. Each call adds one NOT
// level.
func (b *SelectWhere) Not() *SelectWhere {
	b.s.negate()
	return b
}

// Or disjoins a condition on field with the conditions so far.
func (b *SelectWhere) Or(field string) *Clause[*SelectWhere] {
	return newClause(b.s, b, field, joinOr)
}

// OrderBy starts a sort on field.
func (b *SelectWhere) OrderBy(field string) *SelectOrder { return selectTail(*b).OrderBy(field) }

// Skip sets how many results to skip.
func (b *SelectWhere) Skip(n int64) *SelectPage { return selectTail(*b).Skip(n) }

// Limit caps the number of results.
func (b *SelectWhere) Limit(n int64) *SelectPage { return selectTail(*b).Limit(n) }

// Build snapshots the builder into a Query.
func (b *SelectWhere) Build() (Query, error) { return b.s.buildQuery() }

// Err returns the first recorded failure.
func (b *SelectWhere) Err() error { return b.s.err }

// SelectOrder waits for the direction of a sort.
type SelectOrder struct {
	s     *state
	field string
}

// Asc sorts ascending.
func (b *SelectOrder) Asc() *SelectOrdered {
	b.s.orderBy(b.field, Ascending)
	return &SelectOrdered{s: b.s}
}

// Desc sorts descending.
func (b *SelectOrder) Desc() *SelectOrdered {
	b.s.orderBy(b.field, Descending)
	return &SelectOrdered{s: b.s}
}

// Err returns the first recorded failure.
func (b *SelectOrder) Err() error { return b.s.err }

// SelectOrdered is the stage after a sort; more sorts may follow.
type SelectOrdered struct{ s *state }

// OrderBy adds a sort on field after the existing ones.
func (b *SelectOrdered) OrderBy(field string) *SelectOrder { return selectTail(*b).OrderBy(field) }

// Skip sets how many results to skip.
func (b *SelectOrdered) Skip(n int64) *SelectPage { return selectTail(*b).Skip(n) }

// Limit caps the number of results.
func (b *SelectOrdered) Limit(n int64) *SelectPage { return selectTail(*b).Limit(n) }

// Build snapshots the builder into a Query.
func (b *SelectOrdered) Build() (Query, error) { return b.s.buildQuery() }

// Err returns the first recorded failure.
func (b *SelectOrdered) Err() error { return b.s.err }

// SelectPage is the stage after Skip or Limit.
type SelectPage struct{ s *state }

// Skip sets how many results to skip.
func (b *SelectPage) Skip(n int64) *SelectPage { return selectTail(*b).Skip(n) }

// Limit caps the number of results.
func (b *SelectPage) Limit(n int64) *SelectPage { return selectTail(*b).Limit(n) }

// Build snapshots the builder into a Query.
func (b *SelectPage) Build() (Query, error) { return b.s.buildQuery() }

// Err returns the first recorded failure.
func (b *SelectPage) Err() error { return b.s.err }
