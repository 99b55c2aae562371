package main

import "fmt"

func newCommandError(operation, context string, cause error) error {
	return &commandError{operation: operation, context: context, cause: cause}
}

type commandError struct {
	operation string
	context   string
	cause     error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("failed to %s: %s: %v", e.operation, e.context, e.cause)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
