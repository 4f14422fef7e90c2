// Package errors provides structured error handling for the discovery
// platform. Errors carry an operation name and a kind so callers can map
// failures to the right recovery path (fallback data, HTTP status, retry at
// the next scheduled run).
package errors

import (
	"errors"
	"log"
	"runtime"
	"strings"
)

// Op represents an operation name for error context.
type Op string

// Kind represents the category of error.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRemote       // ENA unreachable, timed out, or returned a bad response
	KindValidation   // caller passed a value outside the fixed taxonomy
	KindDatabase     // store access failed
	KindConflict     // duplicate identifier; treated as a no-op by persisters
	KindSearch       // search index failure
	KindConfig       // bad configuration file or paths
	KindParse        // malformed remote payload
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	case KindValidation:
		return "validation"
	case KindDatabase:
		return "database"
	case KindConflict:
		return "conflict"
	case KindSearch:
		return "search"
	case KindConfig:
		return "config"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error represents an application error with context.
type Error struct {
	Op   Op     // Operation that failed
	Kind Kind   // Category of error
	Err  error  // Underlying error
	Msg  string // Additional context message
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(string(e.Op))
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
		if e.Err != nil {
			b.WriteString(": ")
		}
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error with the given arguments.
// Arguments can be: Op, Kind, error, string (message).
func E(args ...interface{}) *Error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case error:
			e.Err = a
		case string:
			e.Msg = a
		}
	}
	return e
}

// Wrap wraps an error with an operation name for context.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind wraps an error with an operation name and kind.
func WrapKind(op Op, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// IsKind reports whether err (or any error it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// GetKind returns the kind of an error, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}
	return e.Kind
}

// SkipCounter tracks how many times operations have been skipped.
// Use this to provide visibility into silent error patterns.
type SkipCounter struct {
	Op         string
	Count      int
	LastErr    error
	LastDetail string
}

// NewSkipCounter creates a new skip counter for the given operation.
func NewSkipCounter(op string) *SkipCounter {
	return &SkipCounter{Op: op}
}

// Skip records a skipped operation due to an error.
func (s *SkipCounter) Skip(err error, detail string) {
	s.Count++
	s.LastErr = err
	s.LastDetail = detail
}

// Report logs a summary if any operations were skipped.
func (s *SkipCounter) Report() {
	if s.Count > 0 {
		log.Printf("Warning: %s skipped %d items (last error: %v, detail: %s)",
			s.Op, s.Count, s.LastErr, s.LastDetail)
	}
}

// LogAndContinue logs an error and is intended for use before a continue
// statement, replacing silent skips with visible logging.
func LogAndContinue(operation string, err error) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		log.Printf("Warning [%s:%d]: %s failed: %v", file, line, operation, err)
	} else {
		log.Printf("Warning: %s failed: %v", operation, err)
	}
}
