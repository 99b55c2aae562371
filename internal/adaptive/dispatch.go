// Package adaptive implements the Adaptive Dispatcher (spec §4.9, §9). Go
// cannot synthesize at runtime a type satisfying an arbitrary interface the
// way a JVM can generate a proxy class, so this package offers two paths:
// Resolve is the shared selector-key algorithm both paths use, Compile is a
// best-effort runtime-codegen fallback (Design Note (a)) constrained to a
// narrow, reflect-describable method shape, and RegisterAdaptive
// (internal/registry) is the primary, idiomatic path — a hand-authored
// adaptive implementation supplied by the contract's author (Design Note
// (b)), exactly the way a code-generation step would have produced it ahead
// of time instead of at runtime.
package adaptive

import (
	"reflect"

	"github.com/extrt-io/extrt/internal/extpoint"
	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// ParameterBag is the minimal read surface the dispatcher needs; satisfied
// by *urlbag.URL.
type ParameterBag interface {
	Protocol() string
	Parameter(key string) (string, bool)
}

// Resolve picks the implementation name for one dispatched operation,
// trying each of op.Keys in order (ProtocolKey reads bag.Protocol() instead
// of a named parameter) and falling back to defaultName when none resolve.
func Resolve(op extpoint.OperationSpec, bag ParameterBag, defaultName string) (string, error) {
	for _, key := range op.Keys {
		if key == extpoint.ProtocolKey {
			if p := bag.Protocol(); p != "" {
				return p, nil
			}
			continue
		}
		if v, ok := bag.Parameter(key); ok && v != "" {
			return v, nil
		}
	}
	if defaultName != "" {
		return defaultName, nil
	}
	return "", streamyerrors.NewUsageError("adaptive.Resolve", "operation "+op.Method+" resolved no name and the contract declares no default")
}

// Unsupported builds the error an adaptive proxy raises when invoked for an
// operation the contract's spec never declared Keys for (spec §4.9).
func Unsupported(contract reflect.Type, method string) error {
	return streamyerrors.NewUsageError("adaptive dispatch", "operation "+method+" on "+contract.String()+" carries no adaptive declaration")
}
