package reader

import (
	"fmt"
	"reflect"

	"github.com/roach88/nosqlcore/internal/canonical"
)

// ContainerKind identifies the outer shape of a captured generic type.
type ContainerKind int

const (
	// Slice is an ordered sequence: []E.
	Slice ContainerKind = iota + 1
	// Set is an unordered collection of distinct elements: map[E]struct{}.
	Set
	// Map is a keyed collection: map[K]E.
	Map
)

// String returns the kind name.
func (k ContainerKind) String() string {
	switch k {
	case Slice:
		return "slice"
	case Set:
		return "set"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("ContainerKind(%d)", int(k))
	}
}

// Capture is a reified handle for a parameterized container type.
//
// Capture is a comparable value: two captures built for the same container
// kind and type arguments are == and hash identically as map keys.
//
//	c := reader.SliceOf(reflect.TypeFor[int]())
//	c == reader.MustCaptureFor[[]int]() // true
type Capture struct {
	kind ContainerKind
	key  reflect.Type // Map only
	elem reflect.Type
}

// SliceOf captures []elem.
func SliceOf(elem reflect.Type) Capture {
	return Capture{kind: Slice, elem: elem}
}

// SetOf captures map[elem]struct{}.
func SetOf(elem reflect.Type) Capture {
	return Capture{kind: Set, elem: elem}
}

// MapOf captures map[key]elem.
func MapOf(key, elem reflect.Type) Capture {
	return Capture{kind: Map, key: key, elem: elem}
}

var emptyStruct = reflect.TypeFor[struct{}]()

// CaptureOf derives the capture for a Go container type.
// Slices map to Slice, map[K]struct{} to Set, and other maps to Map.
func CaptureOf(t reflect.Type) (Capture, error) {
	if t == nil {
		return Capture{}, fmt.Errorf("cannot capture nil type")
	}
	switch t.Kind() {
	case reflect.Slice:
		return SliceOf(t.Elem()), nil
	case reflect.Map:
		if t.Elem() == emptyStruct {
			return SetOf(t.Key()), nil
		}
		return MapOf(t.Key(), t.Elem()), nil
	default:
		return Capture{}, fmt.Errorf("type %s is not a capturable container", t)
	}
}

// CaptureFor derives the capture for the container type T.
func CaptureFor[T any]() (Capture, error) {
	return CaptureOf(reflect.TypeFor[T]())
}

// MustCaptureFor is like CaptureFor but panics on error.
func MustCaptureFor[T any]() Capture {
	c, err := CaptureFor[T]()
	if err != nil {
		panic(err)
	}
	return c
}

// Kind returns the outer container kind.
func (c Capture) Kind() ContainerKind { return c.kind }

// Elem returns the element (or map value) type.
func (c Capture) Elem() reflect.Type { return c.elem }

// Key returns the map key type; nil for Slice and Set.
func (c Capture) Key() reflect.Type { return c.key }

// IsZero reports whether c was never initialized.
func (c Capture) IsZero() bool { return c.kind == 0 }

// Type returns the Go type the capture describes.
func (c Capture) Type() reflect.Type {
	switch c.kind {
	case Slice:
		return reflect.SliceOf(c.elem)
	case Set:
		return reflect.MapOf(c.elem, emptyStruct)
	case Map:
		return reflect.MapOf(c.key, c.elem)
	default:
		return nil
	}
}

// String renders the capture, e.g. "slice<int>" or "map<string,int64>".
func (c Capture) String() string {
	switch c.kind {
	case Map:
		return fmt.Sprintf("%s<%s,%s>", c.kind, c.key, c.elem)
	case Slice, Set:
		return fmt.Sprintf("%s<%s>", c.kind, c.elem)
	default:
		return "capture<invalid>"
	}
}

// CanonicalValue implements canonical.Valuer.
func (c Capture) CanonicalValue() any {
	v := map[string]any{"kind": c.kind.String()}
	if c.elem != nil {
		v["elem"] = c.elem.String()
	}
	if c.key != nil {
		v["key"] = c.key.String()
	}
	return v
}

// Hash returns a content hash of the capture.
func (c Capture) Hash() (string, error) {
	return canonical.Hash(canonical.DomainCapture, c)
}
