package enum

import (
	"fmt"
	"reflect"
)

var registry = map[string]any{}

type values[T comparable] map[string]T

// New registers a value of a string-kinded enum type and returns it, so enum
// members can be declared as package-level vars.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	name := v.Type().Name()
	if _, ok := registry[name]; !ok {
		registry[name] = values[T]{}
	}

	registry[name].(values[T])[v.String()] = value
	return value
}

// ToEnum parses s into a registered member of T, failing on unknown values.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	vs, ok := registry[reflect.TypeOf(zero).Name()]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := vs.(values[T])[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
