// Package query provides immutable query descriptors and the fluent builder
// grammar that produces them.
//
// A Query names a collection, an optional projection, an optional
// condition, an ordered list of sorts and a pagination window. A DeleteQuery
// names a collection, an optional projection and an optional condition; a
// non-empty projection removes those fields from matching entities instead
// of removing the entities.
//
// BUILDER GRAMMAR:
//
//	Select(fields...) → From(name) → [Where(field) → predicate
//	                                  {And|Or(field) → predicate}]
//	                               → {OrderBy(field) → Asc|Desc}
//	                               → [Skip(n)] [Limit(n)] → Build()
//
//	Delete(fields...) → From(name) → [Where(field) → predicate
//	                                  {And|Or(field) → predicate}] → Build()
//
// Predicates are Eq, Gt, Gte, Lt, Lte, Like, Between and In. Not() before a
// predicate negates the condition it creates; Not() after a predicate
// negates everything accumulated so far. Each Not adds one level.
//
// ERRORS:
//
// Validation happens at the call. The first failure is recorded on the
// builder, every later call is a no-op, Err reports it from any stage and
// Build returns it without a descriptor:
//
//	q, err := query.Select("name").From("people").
//	    Where("age").Gt(10).
//	    OrderBy("name").Asc().
//	    Limit(20).
//	    Build()
//
// Builders are single-use and not safe for concurrent use. Descriptors are
// immutable and safe to share.
package query
