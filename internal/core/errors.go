package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes of the simulation.
var (
	ErrConfig       = errors.New("config error")
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind selects which sentinel an Error matches.
type ErrorKind int

const (
	KindConfig ErrorKind = iota
	KindInvalidInput
)

// Error describes a rejected construction parameter or step argument.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	tag := "CONFIG"
	if e.Kind == KindInvalidInput {
		tag = "INVALID_INPUT"
	}
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", tag, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", tag, e.Field, e.Message)
}

// Is lets errors.Is match ErrConfig or ErrInvalidInput.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	}
	return false
}

// ConfigErrorf builds a config error for the named field.
func ConfigErrorf(field, format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf builds an invalid-input error for the named argument.
func InvalidInputf(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: fmt.Sprintf(format, args...)}
}
