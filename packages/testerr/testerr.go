// Package testerr provides the structured error values returned by test
// drivers. Every error carries a numeric code, a message, the source
// location it was created at, and optionally a chained cause.
package testerr

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Code identifies a class of test error.
type Code int

const (
	// CodeTestFailed is the reserved assertion-failure code. It marks a
	// test-authored invariant violation and is never a valid expected
	// code in an error-equality assertion.
	CodeTestFailed Code = 1000 + iota
	CodeConfig
	CodeFixture
	CodeIO
	CodeNotFound
	CodeCorrupt
)

var codeNames = map[Code]string{
	CodeTestFailed: "CRUCIBLE_ERR_TEST_FAILED",
	CodeConfig:     "CRUCIBLE_ERR_CONFIG",
	CodeFixture:    "CRUCIBLE_ERR_FIXTURE",
	CodeIO:         "CRUCIBLE_ERR_IO",
	CodeNotFound:   "CRUCIBLE_ERR_NOT_FOUND",
	CodeCorrupt:    "CRUCIBLE_ERR_CORRUPT",
}

// SymbolicName returns the symbolic constant name for a code, or a
// numeric placeholder for codes it does not know about.
func SymbolicName(c Code) string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CRUCIBLE_ERR_%d", int(c))
}

// Error is a structured test error. It satisfies the error interface
// and supports errors.Is/As/Unwrap chaining.
type Error struct {
	Code    Code
	Message string
	File    string
	Line    int

	cause error
}

// New creates an error with the given code and message, recording the
// caller's source location.
func New(code Code, msg string) *Error {
	return newAt(2, code, nil, msg)
}

// Newf is New with Sprintf-style formatting.
func Newf(code Code, format string, args ...any) *Error {
	return newAt(2, code, nil, fmt.Sprintf(format, args...))
}

// Wrap creates an error chained on top of cause.
func Wrap(code Code, cause error, msg string) *Error {
	return newAt(2, code, cause, msg)
}

// Wrapf is Wrap with Sprintf-style formatting.
func Wrapf(code Code, cause error, format string, args ...any) *Error {
	return newAt(2, code, cause, fmt.Sprintf(format, args...))
}

func newAt(skip int, code Code, cause error, msg string) *Error {
	e := &Error{Code: code, Message: msg, cause: cause}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File = filepath.Base(file)
		e.Line = line
	}
	return e
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s (%s:%d)", SymbolicName(e.Code), e.Message, e.File, e.Line)
	}
	return fmt.Sprintf("%s: %s", SymbolicName(e.Code), e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// zero if err carries no structured code.
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return 0
}

// RootCause walks the chain and returns the innermost error.
func RootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// Chain renders err and every chained cause, one per line, innermost
// last and indented. Used by the report aggregator for failure detail.
func Chain(err error) string {
	var b strings.Builder
	depth := 0
	for err != nil {
		if depth > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("caused by: ")
		}
		if te, ok := err.(*Error); ok {
			if te.File != "" {
				fmt.Fprintf(&b, "%s: %s (%s:%d)", SymbolicName(te.Code), te.Message, te.File, te.Line)
			} else {
				fmt.Fprintf(&b, "%s: %s", SymbolicName(te.Code), te.Message)
			}
		} else {
			b.WriteString(err.Error())
		}
		err = errors.Unwrap(err)
		depth++
	}
	return b.String()
}
