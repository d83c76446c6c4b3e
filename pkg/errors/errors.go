package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"time"
)

// PositionUnknown marks a missing parse position on syntax failures.
const PositionUnknown = -1

// Error is a classified database failure. Code places it in the kind
// tree registered by the owning package; Query and Position carry the
// payload of the sql and syntax branches and stay zero elsewhere.
type Error struct {
	Code      Code
	Message   string
	Query     string
	Position  int
	Cause     error
	Context   map[string]string
	Stack     []Frame
	Timestamp time.Time
}

// Frame represents a stack frame
type Frame struct {
	Function string
	File     string
	Line     int
}

// New creates an Error with the given code, message and optional cause.
func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Position:  PositionUnknown,
		Cause:     cause,
		Timestamp: time.Now(),
		Stack:     captureStackTrace(),
	}
}

// Newf creates an Error with a formatted message and no cause.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Methods on *Error for chaining

// WithQuery attaches the SQL text whose execution failed.
func (e *Error) WithQuery(query string) *Error {
	e.Query = query
	return e
}

// WithPosition attaches the approximate character offset reported by
// the server for a syntax failure.
func (e *Error) WithPosition(pos int) *Error {
	e.Position = pos
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

func (e *Error) AddContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// Error methods
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches targets of type *Error by kind ancestry, so
// errors.Is(err, target) catches at any level of the registered tree.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.IsA(t.Code)
}

// IsCode reports whether err (or anything it wraps) is an *Error whose
// code equals code or descends from it.
func IsCode(err error, code Code) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code.IsA(code)
	}
	return false
}

// Helper functions
func captureStackTrace() []Frame {
	var frames []Frame
	for i := 1; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		frames = append(frames, Frame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}
	return frames
}
