// Package txerr classifies transaction and script codec failures.
package txerr

import (
	"errors"
	"fmt"
)

// Kind is the failure class of a codec error.
type Kind uint8

const (
	KindUnknown Kind = iota
	// MalformedEncoding covers short reads, non-canonical compact sizes,
	// zero-valued mandatory counts and pushes overrunning the script.
	MalformedEncoding
	// InvariantViolation covers structurally valid input that breaks a
	// transaction invariant, like a negative fee.
	InvariantViolation
	// UnresolvedDependency means a previous output could not be looked up.
	UnresolvedDependency
	// InputValidation means caller supplied hex or ASM did not parse.
	InputValidation
)

var (
	ErrMalformedEncoding    = errors.New("malformed encoding")
	ErrInvariantViolation   = errors.New("invariant violation")
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrInputValidation      = errors.New("input validation")
)

func (k Kind) String() string {
	switch k {
	case MalformedEncoding:
		return "malformed encoding"
	case InvariantViolation:
		return "invariant violation"
	case UnresolvedDependency:
		return "unresolved dependency"
	case InputValidation:
		return "input validation"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case MalformedEncoding:
		return ErrMalformedEncoding
	case InvariantViolation:
		return ErrInvariantViolation
	case UnresolvedDependency:
		return ErrUnresolvedDependency
	case InputValidation:
		return ErrInputValidation
	default:
		return nil
	}
}

// Error carries the failure class along with the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind, so errors.Is(err, ErrMalformedEncoding) works
// through any amount of fmt.Errorf wrapping.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// New builds a classified error with a formatted cause.
func New(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
