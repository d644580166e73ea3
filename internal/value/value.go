// Package value holds opaque stored values and the field-value pairs that
// conditions are built from.
//
// A Value wraps whatever a storage engine handed back. It is converted to a
// concrete Go type on demand through the reader registry:
//
//	v := value.MustOf("10")
//	n, err := value.As[int](v)          // 10
//	xs, err := value.As[[]int](v)       // []int{10}
package value

import (
	"fmt"
	"reflect"

	"github.com/roach88/nosqlcore/internal/errs"
	"github.com/roach88/nosqlcore/internal/reader"
)

// Value is an immutable opaque stored value. The zero Value holds nothing
// and is only produced by failed constructors.
type Value struct {
	raw any
}

// Of wraps a deep copy of raw. A Value passed in is returned unchanged
// rather than nested.
func Of(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{}, errs.NilArgument("value")
	case Value:
		if v.raw == nil {
			return Value{}, errs.NilArgument("value")
		}
		return v, nil
	case *Value:
		if v == nil || v.raw == nil {
			return Value{}, errs.NilArgument("value")
		}
		return *v, nil
	}
	return Value{raw: Clone(raw)}, nil
}

// MustOf is like Of but panics on error.
func MustOf(raw any) Value {
	v, err := Of(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Get returns a copy of the wrapped value. Slices and maps are deep-copied,
// so callers cannot change v through the result.
func (v Value) Get() any { return Clone(v.raw) }

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool { return v.raw == nil }

// Shape describes the runtime type of the wrapped value.
func (v Value) Shape() string {
	if v.raw == nil {
		return "nil"
	}
	return reflect.TypeOf(v.raw).String()
}

// Read converts the wrapped value to t with the process-wide registry.
func (v Value) Read(t reflect.Type) (any, error) {
	return reader.Read(t, v.Get())
}

// ReadCapture converts the wrapped value through c with the process-wide registry.
func (v Value) ReadCapture(c reader.Capture) (any, error) {
	return reader.ReadCapture(c, v.Get())
}

// Equal reports whether both values hold deeply equal data.
func (v Value) Equal(other Value) bool {
	return reflect.DeepEqual(v.raw, other.raw)
}

// String formats the wrapped value.
func (v Value) String() string {
	return fmt.Sprint(v.raw)
}

// CanonicalValue implements canonical.Valuer.
func (v Value) CanonicalValue() any { return v.Get() }

// As converts v to T with the process-wide registry.
func As[T any](v Value) (T, error) {
	return reader.As[T](reader.Default(), v.Get())
}
