package coerce

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/literal"
)

// Kind classifies a coercion failure.
type Kind int

const (
	// KindMalformed means the input failed every parse strategy for the target.
	KindMalformed Kind = iota + 1
	// KindUnsupported means the request cannot be served for any input.
	KindUnsupported
	// KindDepth means the descriptor nests deeper than the configured maximum.
	KindDepth
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindUnsupported:
		return "unsupported"
	case KindDepth:
		return "depth"
	}
	return "unknown"
}

var (
	ErrMalformedInput        = errors.New("coerce: malformed input")
	ErrArityMismatch         = errors.New("coerce: arity mismatch")
	ErrInvalidMember         = errors.New("coerce: invalid enumeration member")
	ErrUnsupportedCast       = errors.New("coerce: unsupported cast")
	ErrCapabilityUnavailable = errors.New("coerce: capability unavailable")
	// ErrDescriptorDepth is shared with the descriptor package so either
	// sentinel matches.
	ErrDescriptorDepth = descriptor.ErrDescriptorDepth
)

// Error describes a failed coercion. Target is nil when the target itself
// could not be normalized.
type Error struct {
	Kind    Kind
	Value   any
	Target  descriptor.Descriptor
	Message string
	// Err is the sentinel (or descriptor error) identifying the failure.
	Err   error
	cause error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

func kindOf(sentinel error) Kind {
	switch {
	case errors.Is(sentinel, ErrDescriptorDepth):
		return KindDepth
	case errors.Is(sentinel, ErrUnsupportedCast),
		errors.Is(sentinel, ErrCapabilityUnavailable),
		errors.Is(sentinel, descriptor.ErrUnsupportedDescriptor):
		return KindUnsupported
	}
	return KindMalformed
}

func newError(sentinel error, v any, d descriptor.Descriptor, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kindOf(sentinel),
		Value:   v,
		Target:  d,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
		cause:   cause,
	}
}

func malformed(v any, d descriptor.Descriptor, cause error) *Error {
	return newError(ErrMalformedInput, v, d, cause, "cannot read %s as %s", literal.Repr(v), d)
}

func unsupported(v any, d descriptor.Descriptor) *Error {
	return newError(ErrUnsupportedCast, v, d, nil, "cannot convert %T to %s", v, d)
}
