package v2x

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrUnavailable is returned when reading an Optional that carries no value.
var ErrUnavailable = errors.New("optional value not available")

// Optional holds a value that a message may or may not carry.
type Optional[T any] struct {
	value     T
	available bool
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, available: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsAvailable reports whether a value is present.
func (o Optional[T]) IsAvailable() bool { return o.available }

// Get returns the value, or ErrUnavailable when absent.
func (o Optional[T]) Get() (T, error) {
	if !o.available {
		var zero T
		return zero, ErrUnavailable
	}
	return o.value, nil
}

// GetOr returns the value or fallback when absent.
func (o Optional[T]) GetOr(fallback T) T {
	if !o.available {
		return fallback
	}
	return o.value
}

// Set stores v and marks the Optional as available.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.available = true
}

// Clear drops the stored value.
func (o *Optional[T]) Clear() {
	var zero T
	o.value = zero
	o.available = false
}

// MarshalJSON encodes an absent value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.available {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON treats null as absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Clear()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Set(v)
	return nil
}
