package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nosqlcore/internal/condition"
	"github.com/roach88/nosqlcore/internal/errs"
)

func TestNew_Defaults(t *testing.T) {
	q, err := New("people")
	require.NoError(t, err)

	assert.Equal(t, "people", q.Collection())
	assert.Empty(t, q.Fields())
	assert.Empty(t, q.Sorts())
	assert.Equal(t, int64(0), q.MaxResults())
}

func TestNew_MatchesBuilder(t *testing.T) {
	age := condition.Must(condition.Gt("age", 10))
	byName, err := Asc("name")
	require.NoError(t, err)

	direct, err := New("people",
		WithFields("name"),
		WithCondition(age),
		WithSorts(byName),
		WithFirstResult(2),
		WithMaxResults(5),
	)
	require.NoError(t, err)

	built, err := Select("name").From("people").Where("age").Gt(10).OrderBy("name").Asc().Skip(2).Limit(5).Build()
	require.NoError(t, err)

	assert.True(t, direct.Equal(built))

	hd, err := direct.Hash()
	require.NoError(t, err)
	hb, err := built.Hash()
	require.NoError(t, err)
	assert.Equal(t, hd, hb)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = New("x", WithFirstResult(-1))
	assert.ErrorIs(t, err, errs.ErrStructural)

	_, err = New("x", WithCondition(condition.Condition{}))
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = New("x", WithSorts(Sort{}))
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = New("x", WithFields("a", ""))
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = NewDelete("")
	assert.ErrorIs(t, err, errs.ErrNilArgument)
}

func TestNew_CopiesInputs(t *testing.T) {
	fields := []string{"a", "b"}
	q, err := New("x", WithFields(fields...))
	require.NoError(t, err)

	fields[0] = "z"
	assert.Equal(t, []string{"a", "b"}, q.Fields())
}

func TestQuery_ToDelete(t *testing.T) {
	q, err := Select("name").From("people").Where("age").Lt(3).OrderBy("name").Asc().Limit(1).Build()
	require.NoError(t, err)

	d := q.ToDelete()
	expected, err := Delete("name").From("people").Where("age").Lt(3).Build()
	require.NoError(t, err)

	assert.True(t, d.Equal(expected))
	assert.Equal(t, "DELETE name FROM people WHERE age < 3", d.String())
}

func TestQuery_EqualDistinguishes(t *testing.T) {
	base, _ := New("x", WithMaxResults(1))
	other, _ := New("x", WithMaxResults(2))
	assert.False(t, base.Equal(other))

	renamed, _ := New("y", WithMaxResults(1))
	assert.False(t, base.Equal(renamed))
}

func TestQuery_MarshalJSON(t *testing.T) {
	q, err := Select("name").From("people").Where("name").Eq("Ada").OrderBy("name").Desc().Build()
	require.NoError(t, err)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"collection": "people",
		"fields": ["name"],
		"sorts": [{"field": "name", "direction": "DESC"}],
		"firstResult": 0,
		"maxResults": 0,
		"condition": {"kind": "EQUALS", "field": "name", "value": "Ada"}
	}`, string(data))
}

func TestDeleteQuery_HashDiffersFromQuery(t *testing.T) {
	q, _ := New("x")
	d := q.ToDelete()

	hq, err := q.Hash()
	require.NoError(t, err)
	hd, err := d.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hq, hd)
}

func TestSort(t *testing.T) {
	s, err := Desc("age")
	require.NoError(t, err)
	assert.Equal(t, "age DESC", s.String())

	_, err = NewSort("age", Direction(7))
	assert.ErrorIs(t, err, errs.ErrStructural)

	d, err := ParseDirection("asc")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	_, err = ParseDirection("up")
	assert.Error(t, err)
}
