package querysql

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/query"
)

// Compiler compiles query descriptors to parameterized SQL for SQLite.
//
// Each collection maps to a table and each field to a column.
//
// CRITICAL: Every SELECT ends with the key column as an ORDER BY tiebreaker
// so results are deterministic.
// CRITICAL: All values are parameterized, never interpolated.
type Compiler struct {
	// KeyColumn is the final ORDER BY tiebreaker. Defaults to rowid.
	KeyColumn string
}

// NewCompiler creates a Compiler ordering ties by rowid.
func NewCompiler() *Compiler {
	return &Compiler{KeyColumn: "rowid"}
}

// Compile converts a Query to a SELECT statement.
// Returns (sql, params, error) tuple.
func (c *Compiler) Compile(q query.Query) (string, []any, error) {
	if q.Collection() == "" {
		return "", nil, fmt.Errorf("cannot compile query without collection")
	}

	var (
		b      strings.Builder
		params []any
	)
	b.WriteString("SELECT ")
	b.WriteString(projection(q.Fields()))
	b.WriteString(" FROM ")
	b.WriteString(quote(q.Collection()))

	if cond, ok := q.Condition(); ok {
		where, whereParams, err := c.CompileCondition(cond)
		if err != nil {
			return "", nil, fmt.Errorf("compile condition: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
		params = append(params, whereParams...)
	}

	b.WriteString(" ORDER BY ")
	b.WriteString(c.orderBy(q.Sorts()))

	switch {
	case q.MaxResults() > 0 && q.FirstResult() > 0:
		b.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, q.MaxResults(), q.FirstResult())
	case q.MaxResults() > 0:
		b.WriteString(" LIMIT ?")
		params = append(params, q.MaxResults())
	case q.FirstResult() > 0:
		// SQLite needs a LIMIT before OFFSET; -1 means no limit.
		b.WriteString(" LIMIT -1 OFFSET ?")
		params = append(params, q.FirstResult())
	}

	return b.String(), params, nil
}

// CompileDelete converts a DeleteQuery to a DELETE statement, or to an
// UPDATE clearing the projected columns when the projection is non-empty.
func (c *Compiler) CompileDelete(q query.DeleteQuery) (string, []any, error) {
	if q.Collection() == "" {
		return "", nil, fmt.Errorf("cannot compile delete without collection")
	}

	var b strings.Builder
	if fields := q.Fields(); len(fields) > 0 {
		sets := make([]string, len(fields))
		for i, f := range fields {
			sets[i] = quote(f) + " = NULL"
		}
		b.WriteString("UPDATE ")
		b.WriteString(quote(q.Collection()))
		b.WriteString(" SET ")
		b.WriteString(strings.Join(sets, ", "))
	} else {
		b.WriteString("DELETE FROM ")
		b.WriteString(quote(q.Collection()))
	}

	var params []any
	if cond, ok := q.Condition(); ok {
		where, whereParams, err := c.CompileCondition(cond)
		if err != nil {
			return "", nil, fmt.Errorf("compile condition: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
		params = whereParams
	}

	return b.String(), params, nil
}

// CompileCondition compiles a condition tree to a WHERE clause fragment.
// CRITICAL: Values are NEVER interpolated - always use ? placeholders.
func (c *Compiler) CompileCondition(cond condition.Condition) (string, []any, error) {
	switch cond.Kind() {
	case condition.Equals, condition.GreaterThan, condition.GreaterOrEqual,
		condition.LesserThan, condition.LesserOrEqual, condition.Like:
		p, err := toParam(cond.Value())
		if err != nil {
			return "", nil, fmt.Errorf("field %s: %w", cond.Field(), err)
		}
		return fmt.Sprintf("%s %s ?", quote(cond.Field()), operator(cond.Kind())), []any{p}, nil

	case condition.Between:
		params, err := toParams(cond.Value())
		if err != nil {
			return "", nil, fmt.Errorf("field %s: %w", cond.Field(), err)
		}
		return quote(cond.Field()) + " BETWEEN ? AND ?", params, nil

	case condition.In:
		params, err := toParams(cond.Value())
		if err != nil {
			return "", nil, fmt.Errorf("field %s: %w", cond.Field(), err)
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
		return fmt.Sprintf("%s IN (%s)", quote(cond.Field()), marks), params, nil

	case condition.Not:
		child, _ := cond.Negated()
		sql, params, err := c.CompileCondition(child)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", params, nil

	case condition.And, condition.Or:
		var (
			parts  []string
			params []any
		)
		for _, child := range cond.Children() {
			sql, childParams, err := c.CompileCondition(child)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, childParams...)
		}
		return "(" + strings.Join(parts, " "+cond.Kind().String()+" ") + ")", params, nil
	}

	return "", nil, fmt.Errorf("unsupported condition kind: %s", cond.Kind())
}

// orderBy renders the requested sorts followed by the key tiebreaker.
// COLLATE BINARY keeps text ordering identical across SQLite builds.
func (c *Compiler) orderBy(sorts []query.Sort) string {
	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		parts = append(parts, fmt.Sprintf("%s %s COLLATE BINARY", quote(s.Field()), s.Direction()))
	}
	key := c.KeyColumn
	if key == "" {
		key = "rowid"
	}
	return strings.Join(append(parts, key+" ASC"), ", ")
}

func operator(k condition.Kind) string {
	switch k {
	case condition.Equals:
		return "="
	case condition.GreaterThan:
		return ">"
	case condition.GreaterOrEqual:
		return ">="
	case condition.LesserThan:
		return "<"
	case condition.LesserOrEqual:
		return "<="
	default:
		return "LIKE"
	}
}

func projection(fields []string) string {
	if len(fields) == 0 {
		return "*"
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	return strings.Join(quoted, ", ")
}

// quote renders an SQL identifier, doubling embedded quotes.
func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func toParams(v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence operand, got %T", v)
	}
	params := make([]any, len(items))
	for i, item := range items {
		p, err := toParam(item)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}
		params[i] = p
	}
	return params, nil
}

// toParam converts an operand to a value the sqlite3 driver accepts.
// Sequences, maps and nested conditions cannot be parameters.
func toParam(v any) (any, error) {
	switch val := v.(type) {
	case string, bool, int64, float64, []byte, time.Time:
		return val, nil
	case decimal.Decimal:
		return val.String(), nil
	case *big.Int:
		if val.IsInt64() {
			return val.Int64(), nil
		}
		return val.String(), nil
	case condition.Condition:
		return nil, fmt.Errorf("nested condition cannot be used as SQL parameter")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d overflows SQLite INTEGER", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return nil, fmt.Errorf("%T cannot be used as SQL parameter", v)
}
