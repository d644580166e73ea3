package querysql

import (
	"database/sql"
	"fmt"
	"math/big"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/query"
)

func assertGolden(t *testing.T, name, sqlText string, params []any) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(fmt.Sprintf("%s\n%v\n", sqlText, params)))
}

func mustQuery(t *testing.T, build func() (query.Query, error)) query.Query {
	t.Helper()
	q, err := build()
	require.NoError(t, err)
	return q
}

func TestCompile_Golden(t *testing.T) {
	compiler := NewCompiler()

	testCases := []struct {
		name  string
		query query.Query
	}{
		{
			name:  "select_all",
			query: mustQuery(t, query.Select().From("people").Build),
		},
		{
			name: "select_and",
			query: mustQuery(t, query.Select("name", "age").From("people").
				Where("name").Eq("Ada Lovelace").
				And("age").Gt(10).Build),
		},
		{
			name: "select_sorted_paged",
			query: mustQuery(t, query.Select().From("people").
				Where("age").Between(18, 65).
				OrderBy("name").Asc().
				OrderBy("age").Desc().
				Skip(5).Limit(10).Build),
		},
		{
			name:  "select_offset_only",
			query: mustQuery(t, query.Select().From("people").Skip(3).Build),
		},
		{
			name: "select_not_in_or",
			query: mustQuery(t, query.Select().From("people").
				Where("tag").Not().In([]string{"x", "y"}).
				Or("name").Like("A%").Build),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sqlText, params, err := compiler.Compile(tc.query)
			require.NoError(t, err)

			// Every SELECT ends with the tiebreaker.
			assert.Contains(t, sqlText, "rowid ASC")
			assertGolden(t, tc.name, sqlText, params)
		})
	}
}

func TestCompileDelete_Golden(t *testing.T) {
	compiler := NewCompiler()

	all, err := query.Delete().From("people").Where("age").Lt(18).Build()
	require.NoError(t, err)
	sqlText, params, err := compiler.CompileDelete(all)
	require.NoError(t, err)
	assertGolden(t, "delete_all", sqlText, params)

	fields, err := query.Delete("tag", "age").From("people").Where("name").Eq("Ada").Build()
	require.NoError(t, err)
	sqlText, params, err = compiler.CompileDelete(fields)
	require.NoError(t, err)
	assertGolden(t, "delete_fields", sqlText, params)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	q := mustQuery(t, query.Select().From("people").Where("name").Eq("Robert'); DROP TABLE people;--").Build)

	sqlText, params, err := NewCompiler().Compile(q)
	require.NoError(t, err)
	assert.NotContains(t, sqlText, "DROP")
	assert.Equal(t, []any{"Robert'); DROP TABLE people;--"}, params)
}

func TestCompile_QuotesIdentifiers(t *testing.T) {
	q := mustQuery(t, query.Select(`we"ird`).From("people").Build)

	sqlText, _, err := NewCompiler().Compile(q)
	require.NoError(t, err)
	assert.Contains(t, sqlText, `SELECT "we""ird" FROM`)
}

func TestCompile_CustomKeyColumn(t *testing.T) {
	q := mustQuery(t, query.Select().From("people").Build)

	sqlText, _, err := (&Compiler{KeyColumn: "id"}).Compile(q)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "people" ORDER BY id ASC`, sqlText)
}

func TestCompile_ZeroDescriptors(t *testing.T) {
	_, _, err := NewCompiler().Compile(query.Query{})
	assert.Error(t, err)

	_, _, err = NewCompiler().CompileDelete(query.DeleteQuery{})
	assert.Error(t, err)
}

func TestCompileCondition_Params(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	testCases := []struct {
		name     string
		cond     condition.Condition
		expected any
	}{
		{"int widened", condition.Must(condition.Eq("n", int8(3))), int64(3)},
		{"uint", condition.Must(condition.Eq("n", uint32(7))), int64(7)},
		{"float32", condition.Must(condition.Eq("n", float32(0.5))), 0.5},
		{"decimal", condition.Must(condition.Eq("n", decimal.RequireFromString("1.25"))), "1.25"},
		{"small big.Int", condition.Must(condition.Eq("n", big.NewInt(9))), int64(9)},
		{"uuid", condition.Must(condition.Eq("id", id)), id.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, params, err := NewCompiler().CompileCondition(tc.cond)
			require.NoError(t, err)
			assert.Equal(t, []any{tc.expected}, params)
		})
	}
}

func TestCompileCondition_RejectsNestedOperands(t *testing.T) {
	nested := condition.Must(condition.Eq("n", []int{1, 2}))
	_, _, err := NewCompiler().CompileCondition(nested)
	assert.Error(t, err)

	inner := condition.Must(condition.Eq("a", 1))
	_, _, err = NewCompiler().CompileCondition(condition.Must(condition.Eq("n", inner)))
	assert.Error(t, err)

	_, _, err = NewCompiler().CompileCondition(condition.Must(condition.Eq("n", uint64(1)<<63)))
	assert.Error(t, err)

	_, _, err = NewCompiler().CompileCondition(condition.Condition{})
	assert.Error(t, err)
}

// openPeople creates an in-memory people table with four rows.
func openPeople(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each pooled connection would get its own in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE people (name TEXT, age INTEGER, tag TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO people (name, age, tag) VALUES
		('Ada', 36, 'x'), ('Grace', 85, 'y'), ('Alan', 41, 'z'), ('Barbara', 17, 'x')`)
	require.NoError(t, err)
	return db
}

func selectNames(t *testing.T, db *sql.DB, q query.Query) []string {
	t.Helper()
	sqlText, params, err := NewCompiler().Compile(q)
	require.NoError(t, err)

	rows, err := db.Query(sqlText, params...)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestExecute_Select(t *testing.T) {
	db := openPeople(t)

	testCases := []struct {
		name     string
		query    query.Query
		expected []string
	}{
		{
			name:     "all in insertion order",
			query:    mustQuery(t, query.Select("name").From("people").Build),
			expected: []string{"Ada", "Grace", "Alan", "Barbara"},
		},
		{
			name: "between sorted",
			query: mustQuery(t, query.Select("name").From("people").
				Where("age").Between(18, 65).
				OrderBy("name").Asc().Build),
			expected: []string{"Ada", "Alan"},
		},
		{
			name: "not in or like",
			query: mustQuery(t, query.Select("name").From("people").
				Where("tag").Not().In([]string{"x", "y"}).
				Or("name").Like("A%").Build),
			expected: []string{"Ada", "Alan"},
		},
		{
			name: "paged by age",
			query: mustQuery(t, query.Select("name").From("people").
				OrderBy("age").Desc().
				Skip(1).Limit(2).Build),
			expected: []string{"Alan", "Ada"},
		},
		{
			name:     "offset only",
			query:    mustQuery(t, query.Select("name").From("people").Skip(3).Build),
			expected: []string{"Barbara"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, selectNames(t, db, tc.query))
		})
	}
}

func TestExecute_Delete(t *testing.T) {
	db := openPeople(t)
	compiler := NewCompiler()

	minors, err := query.Delete().From("people").Where("age").Lt(18).Build()
	require.NoError(t, err)
	sqlText, params, err := compiler.CompileDelete(minors)
	require.NoError(t, err)
	res, err := db.Exec(sqlText, params...)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	clearTag, err := query.Delete("tag").From("people").Where("name").Eq("Ada").Build()
	require.NoError(t, err)
	sqlText, params, err = compiler.CompileDelete(clearTag)
	require.NoError(t, err)
	_, err = db.Exec(sqlText, params...)
	require.NoError(t, err)

	var tag sql.NullString
	require.NoError(t, db.QueryRow(`SELECT tag FROM people WHERE name = 'Ada'`).Scan(&tag))
	assert.False(t, tag.Valid)

	remaining := selectNames(t, db, mustQuery(t, query.Select("name").From("people").Build))
	assert.Equal(t, []string{"Ada", "Grace", "Alan"}, remaining)
}
