package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nosqlcore/internal/canonical"
	"github.com/roach88/nosqlcore/internal/errs"
	"github.com/roach88/nosqlcore/internal/reader"
)

func TestOf_RejectsNil(t *testing.T) {
	_, err := Of(nil)
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = Of(Value{})
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	var p *Value
	_, err = Of(p)
	assert.ErrorIs(t, err, errs.ErrNilArgument)
}

func TestOf_DoesNotNest(t *testing.T) {
	inner := MustOf(10)
	outer := MustOf(inner)

	assert.Equal(t, 10, outer.Get())
	assert.True(t, inner.Equal(outer))
}

func TestOf_OwnsContainers(t *testing.T) {
	raw := []any{"a", []int{1}}
	v := MustOf(raw)
	raw[0] = "z"
	raw[1].([]int)[0] = 9

	got := v.Get().([]any)
	assert.Equal(t, []any{"a", []int{1}}, got)

	got[0] = "y"
	assert.Equal(t, []any{"a", []int{1}}, v.Get())
}

func TestClone(t *testing.T) {
	p := &struct{ N int }{1}
	src := map[string]any{"xs": []string{"a"}, "arr": [1][]int{{1}}, "p": p}
	out := Clone(src).(map[string]any)

	src["xs"].([]string)[0] = "b"
	src["arr"].([1][]int)[0][0] = 2

	assert.Equal(t, []string{"a"}, out["xs"])
	assert.Equal(t, [1][]int{{1}}, out["arr"])
	assert.Same(t, p, out["p"])
	assert.Nil(t, Clone(nil))
}

func TestAs(t *testing.T) {
	v := MustOf("10")

	n, err := As[int](v)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	xs, err := As[[]int](v)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, xs)

	_, err = As[bool](MustOf("ten"))
	assert.ErrorIs(t, err, errs.ErrUnsatisfiableConversion)
}

func TestReadCapture(t *testing.T) {
	v := MustOf([]any{"1", 2})

	out, err := v.ReadCapture(reader.MustCaptureFor[[]int64]())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, out)
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, MustOf([]int{1, 2}).Equal(MustOf([]int{1, 2})))
	assert.False(t, MustOf([]int{1, 2}).Equal(MustOf([]int{2, 1})))
	assert.False(t, MustOf(1).Equal(MustOf(int64(1))))
}

func TestValue_Shape(t *testing.T) {
	assert.Equal(t, "[]interface {}", MustOf([]any{1}).Shape())
	assert.Equal(t, "nil", Value{}.Shape())
}

func TestElement(t *testing.T) {
	e, err := NewElement("age", 30)
	require.NoError(t, err)
	assert.Equal(t, "age", e.Name())
	assert.Equal(t, 30, e.Get())
	assert.Equal(t, "age=30", e.String())

	n, err := ElementAs[int64](e)
	require.NoError(t, err)
	assert.Equal(t, int64(30), n)
}

func TestElement_Rejects(t *testing.T) {
	_, err := NewElement("", 1)
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	_, err = NewElement("age", nil)
	assert.ErrorIs(t, err, errs.ErrNilArgument)

	assert.Panics(t, func() { MustElement("", 1) })
}

func TestElement_EqualAndHash(t *testing.T) {
	a := MustElement("tags", []any{"x", "y"})
	b := MustElement("tags", []any{"x", "y"})
	c := MustElement("tags", []any{"y", "x"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	ha := canonical.MustHash(canonical.DomainCondition, a)
	hb := canonical.MustHash(canonical.DomainCondition, b)
	hc := canonical.MustHash(canonical.DomainCondition, c)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
}
