package reader

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_StructuralEquality(t *testing.T) {
	a := SliceOf(reflect.TypeFor[int]())
	b := MustCaptureFor[[]int]()

	assert.Equal(t, a, b)
	assert.True(t, a == b)

	seen := map[Capture]bool{a: true}
	assert.True(t, seen[b])

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestCapture_DistinctParameterization(t *testing.T) {
	assert.NotEqual(t, MustCaptureFor[[]int](), MustCaptureFor[[]int64]())
	assert.NotEqual(t, MustCaptureFor[[]int](), SetOf(reflect.TypeFor[int]()))
}

func TestCaptureOf(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		kind     ContainerKind
		text     string
	}{
		{"slice", reflect.TypeFor[[]int](), Slice, "slice<int>"},
		{"set", reflect.TypeFor[map[string]struct{}](), Set, "set<string>"},
		{"map", reflect.TypeFor[map[string]int64](), Map, "map<string,int64>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := CaptureOf(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind())
			assert.Equal(t, tt.text, c.String())
			assert.Equal(t, tt.typ, c.Type())
		})
	}
}

func TestCaptureOf_Rejects(t *testing.T) {
	_, err := CaptureFor[int]()
	assert.Error(t, err)

	_, err = CaptureOf(nil)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCaptureFor[string]() })
}

func TestCapture_Zero(t *testing.T) {
	var c Capture
	assert.True(t, c.IsZero())
	assert.Nil(t, c.Type())
	assert.Equal(t, "capture<invalid>", c.String())
}

func TestContainerKind_String(t *testing.T) {
	assert.Equal(t, "slice", Slice.String())
	assert.Equal(t, "ContainerKind(9)", ContainerKind(9).String())
}
