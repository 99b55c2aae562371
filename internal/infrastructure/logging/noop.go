package logging

import (
	"context"

	"github.com/extrt-io/extrt/internal/telemetry"
)

// NoOpLogger discards all log entries.
type NoOpLogger struct{}

// Debug implements telemetry.Logger.
func (n *NoOpLogger) Debug(context.Context, string, ...interface{}) {}

// Info implements telemetry.Logger.
func (n *NoOpLogger) Info(context.Context, string, ...interface{}) {}

// Warn implements telemetry.Logger.
func (n *NoOpLogger) Warn(context.Context, string, ...interface{}) {}

// Error implements telemetry.Logger.
func (n *NoOpLogger) Error(context.Context, string, ...interface{}) {}

// With implements telemetry.Logger.
func (n *NoOpLogger) With(...interface{}) telemetry.Logger { return n }

// NewNoOpLogger returns a telemetry.Logger that discards all log entries.
func NewNoOpLogger() telemetry.Logger {
	return &NoOpLogger{}
}
