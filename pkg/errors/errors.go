// Package errors defines the structured error families used across the
// extension runtime, mirroring spec §7's error kinds: usage errors raised
// against bad API calls, no-such-extension errors aggregating descriptor
// diagnostics, duplicate/conflict errors, construction and adaptive-build
// failures, and per-line descriptor errors captured (never propagated)
// during a scan.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// UsageError is returned when a public operation is called with a bad
// argument: a blank name, a non-interface contract, or a contract that was
// never declared an extension point.
type UsageError struct {
	Op      string
	Message string
}

// NewUsageError constructs a UsageError.
func NewUsageError(op, message string) error {
	return &UsageError{Op: op, Message: message}
}

func (e *UsageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("usage error: %s", e.Message)
	}
	return fmt.Sprintf("usage error in %s: %s", e.Op, e.Message)
}

// DescriptorError captures a single failed descriptor line. It is recorded
// in a registry's diagnostics list and never aborts a scan; it only surfaces
// later, inside a NoSuchExtensionError (which carries every diagnostic
// captured for the contract), when a caller asks for a name with no factory.
type DescriptorError struct {
	Resource string
	Line     string
	Err      error
}

// NewDescriptorError constructs a DescriptorError.
func NewDescriptorError(resource, line string, err error) *DescriptorError {
	return &DescriptorError{Resource: resource, Line: line, Err: err}
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("descriptor error in %s (line %q): %v", e.Resource, e.Line, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// NoSuchExtensionError is returned when a requested name resolves to no
// registered class. It aggregates every descriptor diagnostic captured for
// the contract so the caller can see why discovery came up empty.
type NoSuchExtensionError struct {
	Contract string
	Name     string
	Causes   []error
}

func (e *NoSuchExtensionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no extension %q registered for %s", e.Name, e.Contract)
	if len(e.Causes) > 0 {
		b.WriteString("\ncaptured causes:")
		for _, c := range e.Causes {
			fmt.Fprintf(&b, "\n  - %v", c)
		}
	}
	return b.String()
}

// DuplicateNameError is returned when two different classes compete for the
// same name within one contract's registry.
type DuplicateNameError struct {
	Contract string
	Name     string
	Existing string
	New      string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf(
		"duplicate name %q for %s: %q already registered, cannot register %q",
		e.Name, e.Contract, e.Existing, e.New,
	)
}

// DuplicateAdaptiveError is returned when two different classes compete to
// become the adaptive implementation of the same contract.
type DuplicateAdaptiveError struct {
	Contract string
	Existing string
	New      string
}

func (e *DuplicateAdaptiveError) Error() string {
	return fmt.Sprintf(
		"duplicate adaptive implementation for %s: %q already registered, cannot register %q",
		e.Contract, e.Existing, e.New,
	)
}

// ConstructionError is returned when instantiation, injection, or wrapper
// application fails for a requested name.
type ConstructionError struct {
	Contract string
	Name     string
	Err      error
}

// NewConstructionError constructs a ConstructionError.
func NewConstructionError(contract, name string, err error) *ConstructionError {
	return &ConstructionError{Contract: contract, Name: name, Err: err}
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %q for %s: %v", e.Name, e.Contract, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// AdaptiveBuildError is returned when synthesis or compilation of an
// adaptive proxy fails. It is sticky: the loader caches the first
// AdaptiveBuildError and re-raises it on every subsequent call to
// GetAdaptive without retrying construction.
type AdaptiveBuildError struct {
	Contract string
	Err      error
}

// NewAdaptiveBuildError constructs an AdaptiveBuildError.
func NewAdaptiveBuildError(contract string, err error) *AdaptiveBuildError {
	return &AdaptiveBuildError{Contract: contract, Err: err}
}

func (e *AdaptiveBuildError) Error() string {
	return fmt.Sprintf("failed to build adaptive extension for %s: %v", e.Contract, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *AdaptiveBuildError) Unwrap() error {
	return e.Err
}

// InjectionError wraps a single setter's failure during dependency
// injection. Recovery policy (spec §7) requires these be logged and
// swallowed, never propagated — callers that do handle one directly (e.g.
// in tests) still get a structured value.
type InjectionError struct {
	Contract string
	Setter   string
	Err      error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("injection failed for %s.%s: %v", e.Contract, e.Setter, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *InjectionError) Unwrap() error {
	return e.Err
}

// SortedCauseStrings renders a deterministic, sorted list of cause messages.
// NoSuchExtensionError.Error does not use it; it lists causes in capture
// order.
func SortedCauseStrings(causes []error) []string {
	out := make([]string, 0, len(causes))
	for _, c := range causes {
		out = append(out, c.Error())
	}
	sort.Strings(out)
	return out
}
