package query

// Delete starts a delete builder. With fields, matching entities lose those
// fields; without, matching entities are removed.
func Delete(fields ...string) *Deletion {
	return &Deletion{s: newState(fields)}
}

// Deletion is the initial delete stage.
type Deletion struct{ s *state }

// From names the collection. It may be called once per builder.
func (b *Deletion) From(collection string) *DeleteFrom {
	b.s.from(collection)
	return &DeleteFrom{s: b.s}
}

// Err returns the first recorded failure.
func (b *Deletion) Err() error { return b.s.err }

// DeleteFrom is the stage after From.
type DeleteFrom struct{ s *state }

// Where starts the condition on field.
func (b *DeleteFrom) Where(field string) *Clause[*DeleteWhere] {
	return newClause(b.s, &DeleteWhere{s: b.s}, field, joinWhere)
}

// Build snapshots the builder into a DeleteQuery.
func (b *DeleteFrom) Build() (DeleteQuery, error) { return b.s.buildDelete() }

// Err returns the first recorded failure.
func (b *DeleteFrom) Err() error { return b.s.err }

// DeleteWhere is the stage after a predicate.
type DeleteWhere struct{ s *state }

// And conjoins a condition on field with the conditions so far.
func (b *DeleteWhere) And(field string) *Clause[*DeleteWhere] {
	return newClause(b.s, b, field, joinAnd)
}

// Not negates the conditions accumulated so far. Each call adds one NOT
// level.
func (b *DeleteWhere) Not() *DeleteWhere {
	b.s.negate()
	return b
}

// Or disjoins a condition on field with the conditions so far.
func (b *DeleteWhere) Or(field string) *Clause[*DeleteWhere] {
	return newClause(b.s, b, field, joinOr)
}

// Build snapshots the builder into a DeleteQuery.
func (b *DeleteWhere) Build() (DeleteQuery, error) { return b.s.buildDelete() }

// Err returns the first recorded failure.
func (b *DeleteWhere) Err() error { return b.s.err }
