package reader

import (
	"fmt"
	"reflect"
)

// SliceBuilder rebuilds []E in entry order.
type SliceBuilder struct{}

// Kind implements ContainerBuilder.
func (SliceBuilder) Kind() ContainerKind { return Slice }

// Build implements ContainerBuilder.
func (SliceBuilder) Build(c Capture, entries []Entry) (any, error) {
	s := reflect.MakeSlice(c.Type(), 0, len(entries))
	for _, e := range entries {
		s = reflect.Append(s, valueOf(c.Elem(), e.Value))
	}
	return s.Interface(), nil
}

// SetBuilder rebuilds map[E]struct{}; duplicate elements collapse.
type SetBuilder struct{}

// Kind implements ContainerBuilder.
func (SetBuilder) Kind() ContainerKind { return Set }

// Build implements ContainerBuilder.
func (SetBuilder) Build(c Capture, entries []Entry) (any, error) {
	if !c.Elem().Comparable() {
		return nil, fmt.Errorf("set element type %s is not comparable", c.Elem())
	}
	m := reflect.MakeMapWithSize(c.Type(), len(entries))
	present := reflect.ValueOf(struct{}{})
	for _, e := range entries {
		m.SetMapIndex(valueOf(c.Elem(), e.Value), present)
	}
	return m.Interface(), nil
}

// MapBuilder rebuilds map[K]V.
type MapBuilder struct{}

// Kind implements ContainerBuilder.
func (MapBuilder) Kind() ContainerKind { return Map }

// Build implements ContainerBuilder.
func (MapBuilder) Build(c Capture, entries []Entry) (any, error) {
	if !c.Key().Comparable() {
		return nil, fmt.Errorf("map key type %s is not comparable", c.Key())
	}
	m := reflect.MakeMapWithSize(c.Type(), len(entries))
	for _, e := range entries {
		m.SetMapIndex(valueOf(c.Key(), e.Key), valueOf(c.Elem(), e.Value))
	}
	return m.Interface(), nil
}

// valueOf wraps v for assignment into a slot of type t.
func valueOf(t reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// Builders returns the baseline container builders.
func Builders() []ContainerBuilder {
	return []ContainerBuilder{SliceBuilder{}, SetBuilder{}, MapBuilder{}}
}
