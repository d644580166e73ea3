// Package compiler turns CUE query definitions into query descriptors.
//
// A definition file declares named selects under query and named deletes
// under delete:
//
//	query: adults: {
//		select: ["name", "age"]
//		from:   "people"
//		where: {and: [{gte: age: 18}, {like: name: "A%"}]}
//		orderBy: [{field: "name", direction: "ASC"}]
//		skip:  0
//		limit: 20
//	}
//
//	delete: minors: {
//		from: "people"
//		where: {lt: age: 18}
//	}
//
// A condition is a struct with exactly one operator key: eq, gt, gte, lt,
// lte, like, between, in (field → operand), not (condition), and, or (list
// of conditions).
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/query"
)

// QueryDef is a named select descriptor.
type QueryDef struct {
	Name  string
	Query query.Query
}

// DeleteDef is a named delete descriptor.
type DeleteDef struct {
	Name   string
	Delete query.DeleteQuery
}

// Bundle holds every definition of one CUE value in source order.
type Bundle struct {
	Queries []QueryDef
	Deletes []DeleteDef
}

// CompileFile compiles the query and delete sections of a CUE value.
// Either section may be absent.
func CompileFile(v cue.Value) (*Bundle, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	b := &Bundle{}
	if qs := v.LookupPath(cue.ParsePath("query")); qs.Exists() {
		iter, err := qs.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			def, err := CompileQuery(iter.Value())
			if err != nil {
				return nil, err
			}
			b.Queries = append(b.Queries, *def)
		}
	}

	if ds := v.LookupPath(cue.ParsePath("delete")); ds.Exists() {
		iter, err := ds.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			def, err := CompileDelete(iter.Value())
			if err != nil {
				return nil, err
			}
			b.Deletes = append(b.Deletes, *def)
		}
	}

	return b, nil
}

// CompileQuery parses one select definition. The definition name comes
// from the last path selector:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`query: adults: { from: "people" }`)
//	def, err := CompileQuery(v.LookupPath(cue.ParsePath("query.adults")))
func CompileQuery(v cue.Value) (*QueryDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	collection, err := requiredString(v, "from")
	if err != nil {
		return nil, err
	}

	var opts []query.Option
	if fields, ok, err := stringList(v, "select"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, query.WithFields(fields...))
	}

	if w := v.LookupPath(cue.ParsePath("where")); w.Exists() {
		c, err := CompileCondition(w)
		if err != nil {
			return nil, err
		}
		opts = append(opts, query.WithCondition(c))
	}

	if o := v.LookupPath(cue.ParsePath("orderBy")); o.Exists() {
		sorts, err := parseSorts(o)
		if err != nil {
			return nil, err
		}
		opts = append(opts, query.WithSorts(sorts...))
	}

	if n, ok, err := optionalInt(v, "skip"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, query.WithFirstResult(n))
	}

	if n, ok, err := optionalInt(v, "limit"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, query.WithMaxResults(n))
	}

	q, err := query.New(collection, opts...)
	if err != nil {
		return nil, &CompileError{Field: "query", Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	return &QueryDef{Name: labelOf(v), Query: q}, nil
}

// CompileDelete parses one delete definition.
func CompileDelete(v cue.Value) (*DeleteDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	collection, err := requiredString(v, "from")
	if err != nil {
		return nil, err
	}

	var opts []query.DeleteOption
	if fields, ok, err := stringList(v, "fields"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, query.WithFields(fields...))
	}

	if w := v.LookupPath(cue.ParsePath("where")); w.Exists() {
		c, err := CompileCondition(w)
		if err != nil {
			return nil, err
		}
		opts = append(opts, query.WithCondition(c))
	}

	d, err := query.NewDelete(collection, opts...)
	if err != nil {
		return nil, &CompileError{Field: "delete", Message: err.Error(), Pos: v.Pos(), Err: err}
	}
	return &DeleteDef{Name: labelOf(v), Delete: d}, nil
}

// CompileCondition parses a condition struct with exactly one operator key.
func CompileCondition(v cue.Value) (condition.Condition, error) {
	if err := v.Err(); err != nil {
		return condition.Condition{}, formatCUEError(err)
	}

	op, body, err := single(v, "condition")
	if err != nil {
		return condition.Condition{}, err
	}

	var c condition.Condition
	switch op {
	case "not":
		child, err := CompileCondition(body)
		if err != nil {
			return condition.Condition{}, err
		}
		c, err = condition.Negate(child)
		if err != nil {
			return condition.Condition{}, wrap(op, body, err)
		}
		return c, nil

	case "and", "or":
		iter, err := body.List()
		if err != nil {
			return condition.Condition{}, &CompileError{Field: op, Message: "expected a list of conditions", Pos: body.Pos()}
		}
		var children []condition.Condition
		for iter.Next() {
			child, err := CompileCondition(iter.Value())
			if err != nil {
				return condition.Condition{}, err
			}
			children = append(children, child)
		}
		if op == "and" {
			c, err = condition.AllOf(children...)
		} else {
			c, err = condition.AnyOf(children...)
		}
		if err != nil {
			return condition.Condition{}, wrap(op, body, err)
		}
		return c, nil
	}

	kind, ok := leafKinds[op]
	if !ok {
		return condition.Condition{}, &CompileError{
			Field:   "condition",
			Message: fmt.Sprintf("unknown condition operator %q", op),
			Pos:     v.Pos(),
		}
	}

	field, operand, err := single(body, op)
	if err != nil {
		return condition.Condition{}, err
	}
	raw, err := decodeOperand(operand)
	if err != nil {
		return condition.Condition{}, err
	}

	switch kind {
	case condition.Between:
		bounds, _ := raw.([]any)
		if len(bounds) != 2 {
			return condition.Condition{}, &CompileError{Field: op, Message: "between requires [lower, upper]", Pos: operand.Pos()}
		}
		c, err = condition.Between(field, bounds[0], bounds[1])
	case condition.In:
		c, err = condition.In(field, raw)
	default:
		c, err = leafConstructors[kind](field, raw)
	}
	if err != nil {
		return condition.Condition{}, wrap(op, operand, err)
	}
	return c, nil
}

var leafKinds = map[string]condition.Kind{
	"eq":      condition.Equals,
	"gt":      condition.GreaterThan,
	"gte":     condition.GreaterOrEqual,
	"lt":      condition.LesserThan,
	"lte":     condition.LesserOrEqual,
	"like":    condition.Like,
	"between": condition.Between,
	"in":      condition.In,
}

var leafConstructors = map[condition.Kind]func(string, any) (condition.Condition, error){
	condition.Equals:         condition.Eq,
	condition.GreaterThan:    condition.Gt,
	condition.GreaterOrEqual: condition.Gte,
	condition.LesserThan:     condition.Lt,
	condition.LesserOrEqual:  condition.Lte,
	condition.Like:           condition.Like,
}

func wrap(field string, v cue.Value, err error) error {
	return &CompileError{Field: field, Message: err.Error(), Pos: v.Pos(), Err: err}
}

// single returns the only field of a struct.
func single(v cue.Value, what string) (string, cue.Value, error) {
	iter, err := v.Fields()
	if err != nil {
		return "", cue.Value{}, &CompileError{Field: what, Message: "expected a struct", Pos: v.Pos()}
	}
	var (
		name  string
		value cue.Value
		count int
	)
	for iter.Next() {
		count++
		name = iter.Selector().Unquoted()
		value = iter.Value()
	}
	if count != 1 {
		return "", cue.Value{}, &CompileError{
			Field:   what,
			Message: fmt.Sprintf("expected exactly one key, got %d", count),
			Pos:     v.Pos(),
		}
	}
	return name, value, nil
}

// decodeOperand converts a concrete CUE value to the Go value a condition
// stores: string, int64, float64, bool or []any.
func decodeOperand(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		return s, formatCUEError(err)
	case cue.IntKind:
		n, err := v.Int64()
		return n, formatCUEError(err)
	case cue.FloatKind:
		f, err := v.Float64()
		return f, formatCUEError(err)
	case cue.BoolKind:
		b, err := v.Bool()
		return b, formatCUEError(err)
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		items := []any{}
		for iter.Next() {
			item, err := decodeOperand(iter.Value())
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}
	return nil, &CompileError{
		Field:   "operand",
		Message: fmt.Sprintf("unsupported operand kind %s", v.Kind()),
		Pos:     v.Pos(),
	}
}

func parseSorts(v cue.Value) ([]query.Sort, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: "orderBy", Message: "expected a list", Pos: v.Pos()}
	}
	var sorts []query.Sort
	for iter.Next() {
		item := iter.Value()
		field, err := requiredString(item, "field")
		if err != nil {
			return nil, err
		}
		dir := query.Ascending
		if d := item.LookupPath(cue.ParsePath("direction")); d.Exists() {
			s, err := d.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			if dir, err = query.ParseDirection(s); err != nil {
				return nil, &CompileError{Field: "direction", Message: err.Error(), Pos: d.Pos()}
			}
		}
		s, err := query.NewSort(field, dir)
		if err != nil {
			return nil, wrap("orderBy", item, err)
		}
		sorts = append(sorts, s)
	}
	return sorts, nil
}

func requiredString(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", &CompileError{Field: name, Message: name + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, name string) ([]string, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil, false, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, false, &CompileError{Field: name, Message: "expected a list of strings", Pos: f.Pos()}
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, false, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, true, nil
}

func optionalInt(v cue.Value, name string) (int64, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return 0, false, nil
	}
	n, err := f.Int64()
	if err != nil {
		return 0, false, formatCUEError(err)
	}
	return n, true, nil
}

func labelOf(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1].String()
}
