package util

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
)

var ContextValueNotFoundError = NewError("not found in context")

type ContextKey string

func LoadFromContextValue(ctx context.Context, key ContextKey, target interface{}) error {
	cv := ctx.Value(key)
	if cv == nil {
		return ContextValueNotFoundError.Errorf(string(key))
	}

	return InterfaceSetValue(cv, target)
}

// InterfaceSetValue sets v to the value which target points to. target should
// be pointer and v should be assignable to it.
func InterfaceSetValue(v, target interface{}) error {
	value := reflect.ValueOf(target)
	if !value.IsValid() || value.Kind() != reflect.Ptr || value.IsNil() {
		return errors.Errorf("target should be not nil pointer, not %T", target)
	}

	elem := value.Elem()

	i := reflect.ValueOf(v)
	if !i.IsValid() {
		return errors.Errorf("empty value")
	}

	if !i.Type().AssignableTo(elem.Type()) {
		return errors.Errorf("expected %s, but %T", elem.Type(), v)
	}

	elem.Set(i)

	return nil
}
