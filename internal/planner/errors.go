package planner

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures into a closed set so callers can branch
// programmatically instead of string-matching messages.
type Kind int

const (
	// KindInput: caller-supplied data is insufficient. Not retryable.
	KindInput Kind = iota + 1
	// KindFormat: the service response was not parseable JSON. Retryable,
	// since the service is non-deterministic.
	KindFormat
	// KindSchema: parsed JSON did not match the requested plan shape.
	KindSchema
	// KindAssignment: structurally valid plan violating the
	// one-task-per-member-per-stage invariant.
	KindAssignment
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindFormat:
		return "format"
	case KindSchema:
		return "schema"
	case KindAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure carrying structured context. Stage and Task
// are -1 when not applicable.
type Error struct {
	Kind   Kind
	Stage  int
	Task   int
	Field  string
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindFormat:
		// Format failures are coalesced into one retryable message; the
		// underlying detail stays available on the struct for logging.
		return "ai response format error; please try again"
	case KindInput:
		return fmt.Sprintf("invalid input: %s", e.Detail)
	default:
		msg := e.Detail
		if e.Field != "" {
			msg = fmt.Sprintf("field %q: %s", e.Field, msg)
		}
		if e.Task >= 0 {
			msg = fmt.Sprintf("task %d: %s", e.Task, msg)
		}
		if e.Stage >= 0 {
			msg = fmt.Sprintf("stage %d: %s", e.Stage, msg)
		}
		return msg
	}
}

func inputErr(detail string) *Error {
	return &Error{Kind: KindInput, Stage: -1, Task: -1, Detail: detail}
}

func formatErr(detail string) *Error {
	return &Error{Kind: KindFormat, Stage: -1, Task: -1, Detail: detail}
}

func schemaErr(stage, task int, field, detail string) *Error {
	return &Error{Kind: KindSchema, Stage: stage, Task: task, Field: field, Detail: detail}
}

func assignErr(stage, task int, detail string) *Error {
	return &Error{Kind: KindAssignment, Stage: stage, Task: task, Detail: detail}
}

// KindOf returns the error kind, or 0 when err is not a planner error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// IsRetryable reports whether re-invoking the whole pipeline may succeed.
// Only format errors qualify: the completion service is non-deterministic.
func IsRetryable(err error) bool {
	return KindOf(err) == KindFormat
}
