package reader

import (
	"fmt"
	"reflect"

	"github.com/roach88/nosqlcore/internal/errs"
)

// ValueReader converts an opaque stored value to a requested type.
//
// IsCompatible depends only on the target type, never on a particular value,
// so a registry can pick a reader before looking at the data.
type ValueReader interface {
	// IsCompatible reports whether this reader produces values of type t.
	IsCompatible(t reflect.Type) bool

	// Read converts raw to type t. The returned value's dynamic type is t.
	Read(t reflect.Type, raw any) (any, error)
}

// Entry is one converted element handed to a ContainerBuilder.
// Key is only set for Map captures.
type Entry struct {
	Key   any
	Value any
}

// ContainerBuilder rebuilds a container of one kind from converted entries.
type ContainerBuilder interface {
	// Kind returns the container kind this builder produces.
	Kind() ContainerKind

	// Build assembles a value of c.Type() from entries already converted
	// to c.Key() and c.Elem().
	Build(c Capture, entries []Entry) (any, error)
}

// Registry dispatches conversions to an ordered list of readers.
//
// A Registry is assembled once and never mutated, so Read and ReadCapture
// are safe for concurrent use without locking.
type Registry struct {
	readers  []ValueReader
	builders map[ContainerKind]ContainerBuilder
}

// NewRegistry assembles a registry. Readers are consulted in the order given;
// for builders of the same kind, the last one wins.
func NewRegistry(readers []ValueReader, builders []ContainerBuilder) *Registry {
	r := &Registry{
		readers:  make([]ValueReader, 0, len(readers)),
		builders: make(map[ContainerKind]ContainerBuilder, len(builders)),
	}
	for _, rd := range readers {
		if rd != nil {
			r.readers = append(r.readers, rd)
		}
	}
	for _, b := range builders {
		if b != nil {
			r.builders[b.Kind()] = b
		}
	}
	return r
}

// Readers returns a copy of the reader list in dispatch order.
func (r *Registry) Readers() []ValueReader {
	out := make([]ValueReader, len(r.readers))
	copy(out, r.readers)
	return out
}

// Supports reports whether a builder is registered for kind.
func (r *Registry) Supports(kind ContainerKind) bool {
	_, ok := r.builders[kind]
	return ok
}

// Read converts raw to type t.
//
// Dispatch order:
//  1. The first reader whose IsCompatible(t) holds.
//  2. Identity: raw already has type t (or t is an interface raw implements).
//  3. Container: t is a slice or map type with a registered builder.
//
// Otherwise the error is errs.ErrUnsatisfiableConversion naming both t and
// the shape of raw.
func (r *Registry) Read(t reflect.Type, raw any) (any, error) {
	if t == nil {
		return nil, errs.NilArgument("type")
	}
	if raw == nil {
		return nil, errs.NilArgument("value")
	}

	for _, rd := range r.readers {
		if !rd.IsCompatible(t) {
			continue
		}
		v, err := rd.Read(t, raw)
		if err != nil {
			return nil, errs.Unsatisfiable(t.String(), shapeOf(raw), err)
		}
		return v, nil
	}

	rt := reflect.TypeOf(raw)
	if rt == t || (t.Kind() == reflect.Interface && rt.Implements(t)) {
		return raw, nil
	}

	if c, err := CaptureOf(t); err == nil && r.Supports(c.Kind()) {
		out, err := r.ReadCapture(c, raw)
		if err != nil {
			return nil, err
		}
		return convertTo(t, out, raw)
	}

	return nil, errs.Unsatisfiable(t.String(), shapeOf(raw), nil)
}

// ReadCapture converts raw to the container type described by c.
//
// For Slice and Set captures, every element of a raw slice or array is read
// to c.Elem(); a raw value that is not a sequence is treated as a sequence of
// one. For Map captures raw must be a map and both keys and values are read.
// Any element failure fails the whole conversion.
func (r *Registry) ReadCapture(c Capture, raw any) (any, error) {
	if c.IsZero() {
		return nil, errs.NilArgument("capture")
	}
	if raw == nil {
		return nil, errs.NilArgument("value")
	}

	b, ok := r.builders[c.Kind()]
	if !ok {
		return nil, errs.Unsatisfiable(c.String(), shapeOf(raw),
			fmt.Errorf("no builder registered for %s containers", c.Kind()))
	}

	var (
		entries []Entry
		err     error
	)
	if c.Kind() == Map {
		entries, err = r.readMapEntries(c, raw)
	} else {
		entries, err = r.readSequence(c, raw)
	}
	if err != nil {
		return nil, errs.Unsatisfiable(c.String(), shapeOf(raw), err)
	}

	return b.Build(c, entries)
}

func (r *Registry) readSequence(c Capture, raw any) ([]Entry, error) {
	elems := sequenceOf(raw)
	entries := make([]Entry, len(elems))
	for i, elem := range elems {
		v, err := r.Read(c.Elem(), elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		entries[i] = Entry{Value: v}
	}
	return entries, nil
}

func (r *Registry) readMapEntries(c Capture, raw any) ([]Entry, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("value of shape %s is not a map", shapeOf(raw))
	}

	entries := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := r.Read(c.Key(), iter.Key().Interface())
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", iter.Key().Interface(), err)
		}
		v, err := r.Read(c.Elem(), iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("value for key %v: %w", iter.Key().Interface(), err)
		}
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return entries, nil
}

// sequenceOf flattens slices, arrays and sets (map[K]struct{}) into elements.
// Anything else, including strings, is a single element.
func sequenceOf(raw any) []any {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		if rv.Type().Elem() == emptyStruct {
			out := make([]any, 0, rv.Len())
			for _, k := range rv.MapKeys() {
				out = append(out, k.Interface())
			}
			return out
		}
	}
	return []any{raw}
}

// convertTo converts a built container to t, which may be a named type
// over the captured container type.
func convertTo(t reflect.Type, out, raw any) (any, error) {
	rv := reflect.ValueOf(out)
	if rv.Type() == t {
		return out, nil
	}
	if !rv.Type().ConvertibleTo(t) {
		return nil, errs.Unsatisfiable(t.String(), shapeOf(raw),
			fmt.Errorf("built %s is not convertible", rv.Type()))
	}
	return rv.Convert(t).Interface(), nil
}

// shapeOf describes the runtime shape of a raw value for error messages.
func shapeOf(raw any) string {
	if raw == nil {
		return "nil"
	}
	return reflect.TypeOf(raw).String()
}

// As converts raw to T using r.
func As[T any](r *Registry, raw any) (T, error) {
	var zero T
	v, err := r.Read(reflect.TypeFor[T](), raw)
	if err != nil {
		return zero, err
	}
	return typed[T](v, raw)
}

// AsCaptured converts raw to the container type T through its capture.
func AsCaptured[T any](r *Registry, raw any) (T, error) {
	var zero T
	c, err := CaptureFor[T]()
	if err != nil {
		return zero, err
	}
	v, err := r.ReadCapture(c, raw)
	if err != nil {
		return zero, err
	}
	if v, err = convertTo(reflect.TypeFor[T](), v, raw); err != nil {
		return zero, err
	}
	return typed[T](v, raw)
}

// typed asserts v to T. A host reader that breaks the Read contract yields
// an unsatisfiable conversion.
func typed[T any](v, raw any) (T, error) {
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, errs.Unsatisfiable(reflect.TypeFor[T]().String(), shapeOf(raw),
			fmt.Errorf("reader returned %T", v))
	}
	return out, nil
}
