package hal

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ccbrown/hal-fu/jsontree"
)

// ErrorKind categorizes the errors that can occur while converting values or reconstructing
// resources from generic JSON.
type ErrorKind int

const (
	// A required member, such as a link's "href", is absent.
	MissingRequiredField ErrorKind = iota + 1

	// A member is present but has the wrong type, e.g. a "templated" value that isn't a boolean.
	TypeMismatch

	// A value can't be represented by the value union or by the target format.
	UnsupportedValue
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "missing required field"
	case TypeMismatch:
		return "type mismatch"
	case UnsupportedValue:
		return "unsupported value"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Error is returned when HAL content can't be converted or reconstructed.
type Error struct {
	Kind ErrorKind

	// The member the error applies to, if any.
	Field string

	// A human-readable explanation of the problem.
	Message string
}

func (e *Error) Error() string {
	ret := e.Kind.String()
	if e.Field != "" {
		ret += " for " + strconv.Quote(e.Field)
	}
	if e.Message != "" {
		ret += ": " + e.Message
	}
	return ret
}

// Is reports whether target is an *Error with the same kind and no other detail. This allows the
// sentinel errors to be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Field == "" && t.Message == ""
}

// Sentinels for use with errors.Is.
var (
	ErrMissingRequiredField = &Error{Kind: MissingRequiredField}
	ErrTypeMismatch         = &Error{Kind: TypeMismatch}
	ErrUnsupportedValue     = &Error{Kind: UnsupportedValue}
)

func typeMismatch(field, expected string, actual any) *Error {
	return &Error{
		Kind:    TypeMismatch,
		Field:   field,
		Message: fmt.Sprintf("expected %v, got %v", expected, describe(actual)),
	}
}

// describe names the JSON type of a generic tree value for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, jsontree.Float, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	}
	if _, ok := jsontree.AsObject(v); ok {
		return "object"
	} else if _, ok := jsontree.AsArray(v); ok {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
