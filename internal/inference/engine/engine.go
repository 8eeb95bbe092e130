// Package engine defines the port through which mission text is generated.
package engine

import (
	"context"
	"errors"
	"fmt"
)

// ErrBusy reports that the backend cannot serve the request right now.
var ErrBusy = errors.New("generation backend busy")

// Prompt is a fully rendered generation request.
type Prompt struct {
	System  string
	User    string
	Version int
}

// Result is raw backend output. Usage fields are nil when the backend does not report them.
type Result struct {
	Text         string
	TokenUsage   *int
	CostEstimate *float64
}

type Backend interface {
	Generate(ctx context.Context, prompt Prompt) (Result, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, prompt Prompt) (Result, error)

func (f BackendFunc) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	return f(ctx, prompt)
}

// BusyError carries the cause of a Busy failure. It matches both ErrBusy and its cause.
type BusyError struct {
	Reason string
	Err    error
}

func (e *BusyError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrBusy, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", ErrBusy, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrBusy, e.Err)
	default:
		return ErrBusy.Error()
	}
}

func (e *BusyError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBusy}
	}
	return []error{ErrBusy, e.Err}
}

// Busy wraps err as a Busy failure.
func Busy(reason string, err error) error {
	return &BusyError{Reason: reason, Err: err}
}
