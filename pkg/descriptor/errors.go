package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	// ErrUnsupportedDescriptor is returned for alternations (Union, Optional,
	// "a | b", non-empty interface types) which no runtime tag can resolve.
	ErrUnsupportedDescriptor = errors.New("descriptor: unsupported descriptor kind")
	// ErrUnknownType is returned when a type name does not resolve.
	ErrUnknownType = errors.New("descriptor: unknown type")
	// ErrMalformedDescriptor is returned for descriptor values and annotation
	// text that cannot be read as a descriptor.
	ErrMalformedDescriptor = errors.New("descriptor: malformed descriptor")
	// ErrDescriptorDepth is returned when nesting exceeds the configured maximum.
	ErrDescriptorDepth = errors.New("descriptor: maximum nesting depth exceeded")
)

// Error reports which authoring form failed to normalize.
type Error struct {
	Input  any
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s", e.Err, inputString(e.Input))
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, inputString(e.Input), e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func inputString(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case reflect.Type:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

func newError(input any, err error, format string, args ...any) *Error {
	return &Error{Input: input, Err: err, Reason: fmt.Sprintf(format, args...)}
}
