// Package keyvalue models the entity stored by key-value engines: a key and
// an opaque value, both required.
package keyvalue

import (
	"fmt"
	"reflect"

	"github.com/roach88/nosqlcore/internal/errs"
	"github.com/roach88/nosqlcore/internal/reader"
	"github.com/roach88/nosqlcore/internal/value"
)

// Entity is an immutable key-value pair.
type Entity struct {
	key   value.Value
	value value.Value
}

// NewEntity pairs key with raw. Neither may be nil.
func NewEntity(key, raw any) (Entity, error) {
	if key == nil {
		return Entity{}, errs.NilArgument("key")
	}
	k, err := value.Of(key)
	if err != nil {
		return Entity{}, fmt.Errorf("key: %w", err)
	}
	v, err := value.Of(raw)
	if err != nil {
		return Entity{}, err
	}
	return Entity{key: k, value: v}, nil
}

// Key returns the key as stored.
func (e Entity) Key() any { return e.key.Get() }

// Value returns the wrapped value.
func (e Entity) Value() value.Value { return e.value }

// Get returns the value as stored.
func (e Entity) Get() any { return e.value.Get() }

// Read converts the value to t.
func (e Entity) Read(t reflect.Type) (any, error) { return e.value.Read(t) }

// ReadCapture converts the value through c.
func (e Entity) ReadCapture(c reader.Capture) (any, error) { return e.value.ReadCapture(c) }

// Equal compares key and value.
func (e Entity) Equal(other Entity) bool {
	return e.key.Equal(other.key) && e.value.Equal(other.value)
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity{key=%v, value=%v}", e.key, e.value)
}

// As converts the entity's value to T.
func As[T any](e Entity) (T, error) { return value.As[T](e.value) }

// KeyAs converts the entity's key to T.
func KeyAs[T any](e Entity) (T, error) { return value.As[T](e.key) }
