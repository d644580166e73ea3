package value

import (
	"fmt"

	"github.com/roach88/nosqlcore/internal/errs"
)

// Element is an immutable field-value pair: the payload of every condition.
type Element struct {
	name  string
	value Value
}

// NewElement pairs name with raw. Both are required.
func NewElement(name string, raw any) (Element, error) {
	if name == "" {
		return Element{}, errs.NilArgument("name")
	}
	v, err := Of(raw)
	if err != nil {
		return Element{}, err
	}
	return Element{name: name, value: v}, nil
}

// MustElement is like NewElement but panics on error.
func MustElement(name string, raw any) Element {
	e, err := NewElement(name, raw)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the field name.
func (e Element) Name() string { return e.name }

// Value returns the wrapped value.
func (e Element) Value() Value { return e.value }

// Get returns a copy of the raw value.
func (e Element) Get() any { return e.value.Get() }

// IsZero reports whether e was never constructed.
func (e Element) IsZero() bool { return e.name == "" }

// Equal compares name and value.
func (e Element) Equal(other Element) bool {
	return e.name == other.name && e.value.Equal(other.value)
}

func (e Element) String() string {
	return fmt.Sprintf("%s=%v", e.name, e.value)
}

// CanonicalValue implements canonical.Valuer.
func (e Element) CanonicalValue() any {
	return map[string]any{
		"name":  e.name,
		"value": e.value.CanonicalValue(),
	}
}

// ElementAs converts the element's value to T.
func ElementAs[T any](e Element) (T, error) {
	return As[T](e.value)
}
