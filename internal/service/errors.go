package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for bad caller arguments, before any network call.
var ErrInvalidInput = errors.New("invalid input")

// ErrMessageRequired is the InvalidInput raised for an empty question.
var ErrMessageRequired = fmt.Errorf("%w: message is required", ErrInvalidInput)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// UpstreamError wraps a failure of the retriever, the generation service or
// the conversation store. Nothing is committed to memory when one is returned.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}
