// Package optional allows to safely express optional values.
package optional

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// Value is an optional value.
type Value[T any] struct {
	ok  bool
	val T
}

// None creates an empty optional value.
func None[T any]() Value[T] {
	return Value[T]{
		ok:  false,
		val: *new(T),
	}
}

// Some creates a non-empty optional value.
func Some[T any](val T) Value[T] {
	return Value[T]{
		ok:  true,
		val: val,
	}
}

// Empty returns whether the [Value] is empty.
func (v Value[T]) Empty() bool {
	return !v.ok
}

// ErrEmpty is the error passed to panic by [Value.Unwrap] when the value is empty.
var ErrEmpty = errors.New("optional: empty value")

// Unwrap panics if [Value] is empty, otherwise returns the underlying value.
func (v Value[T]) Unwrap() T {
	if !v.ok {
		panic(ErrEmpty)
	}
	return v.val
}

// Get returns the underlying value and true, or the zero value and false if
// [Value] is empty.
func (v Value[T]) Get() (T, bool) {
	return v.val, v.ok
}

// UnwrapOr returns the underlying value, or fallback if [Value] is empty.
func (v Value[T]) UnwrapOr(fallback T) T {
	if !v.ok {
		return fallback
	}
	return v.val
}

// UnmarshalYAML decodes a present (non-null) node as a non-empty [Value]; a
// field entirely absent from the document leaves v as its zero (empty)
// value without this method ever being invoked.
func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	var val T
	if err := node.Decode(&val); err != nil {
		return err
	}
	v.ok = true
	v.val = val
	return nil
}
