package state

import (
	"bytes"
	"encoding/json"
)

// Field is an optional action payload value with three states: absent
// (the zero Field), an explicit null, or a value.
type Field[T any] struct {
	value T
	set   bool
	null  bool
}

// Set returns a Field holding v
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Null returns a Field that explicitly clears its target
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// Present reports whether the field was supplied, as a value or as null
func (f Field[T]) Present() bool {
	return f.set
}

// IsNull reports whether the field is an explicit null
func (f Field[T]) IsNull() bool {
	return f.set && f.null
}

// Get returns the value and whether one is held
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set && !f.null
}

// IsZero reports absence, so that omitzero drops absent fields when encoding
func (f Field[T]) IsZero() bool {
	return !f.set
}

// MarshalJSON encodes the value or null
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON is only invoked for keys that are present in the payload
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}
