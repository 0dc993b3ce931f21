package dispatch

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when events are submitted to a stopped dispatcher.
var ErrClosed = errors.New("dispatcher closed")

// ErrorCode categorizes dispatch errors.
type ErrorCode string

const (
	// ErrCodeUnknownTarget means no slider or group has the event's target
	// name.
	ErrCodeUnknownTarget ErrorCode = "UNKNOWN_TARGET"

	// ErrCodeNotGestureTarget means a gesture was sent to a target that
	// cannot be dragged, such as a group.
	ErrCodeNotGestureTarget ErrorCode = "NOT_GESTURE_TARGET"

	// ErrCodeUnknownEvent means the event type is not recognized.
	ErrCodeUnknownEvent ErrorCode = "UNKNOWN_EVENT"

	// ErrCodeTickBudget means flings did not settle within the tick budget
	// of RunUntilIdle.
	ErrCodeTickBudget ErrorCode = "TICK_BUDGET_EXCEEDED"

	// ErrCodeSink means the sink rejected an event or notification.
	ErrCodeSink ErrorCode = "SINK_FAILED"
)

// Error is an error detected while applying an event.
type Error struct {
	Code    ErrorCode
	Message string
	Target  string
	Seq     int64
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Target != "" {
		msg += fmt.Sprintf(" (target=%s, seq=%d)", e.Target, e.Seq)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnknownTarget reports whether err is an unknown target error.
func IsUnknownTarget(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == ErrCodeUnknownTarget
}

// IsTickBudget reports whether err is a tick budget error.
func IsTickBudget(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == ErrCodeTickBudget
}
