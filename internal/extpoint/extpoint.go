// Package extpoint realises the ExtensionPoint and per-operation Adaptive
// markers (spec §6) as explicit declarations rather than runtime
// annotations, since Go attaches no metadata to interface types or methods.
// A contract package declares itself once, typically from an init() or a
// dedicated register.go, the same way the teacher's plugins self-register
// from init() (internal/plugins/symlink/symlink.go).
package extpoint

import (
	"reflect"
	"sort"
	"sync"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// ProtocolKey is the sentinel key name in an OperationSpec's Keys list that
// tells the adaptive dispatcher to read the Parameter Bag's protocol field
// instead of one of its named parameters (spec §4.9).
const ProtocolKey = "protocol"

// OperationSpec names, for one contract operation, the ordered list of
// Parameter Bag keys the adaptive dispatcher tries (first non-empty value
// wins), the Go-native stand-in for a per-method @Adaptive annotation.
type OperationSpec struct {
	// Method is the contract's method name this spec applies to.
	Method string
	// Keys is tried in order; ProtocolKey reads the bag's protocol instead
	// of a named parameter. An empty Keys list means the operation carries
	// no adaptive annotation and dispatch always falls back to the
	// contract's default name.
	Keys []string
}

// ContractSpec is the Go realisation of @ExtensionPoint plus the
// declarations @Adaptive would otherwise carry per operation.
type ContractSpec struct {
	// DefaultName is consulted by Loader.GetDefault and by adaptive
	// dispatch when no URL key resolves to a name.
	DefaultName string
	// Operations lists each dispatchable operation's key order. Operations
	// absent from this list are unsupported by the synthesized adaptive
	// proxy (spec §4.9: "throw an unsupported error when invoked").
	Operations []OperationSpec
}

// OperationSpec looks up the spec for method, returning ok=false if the
// operation carries no adaptive declaration.
func (c ContractSpec) OperationSpec(method string) (OperationSpec, bool) {
	for _, op := range c.Operations {
		if op.Method == method {
			return op, true
		}
	}
	return OperationSpec{}, false
}

var (
	mu       sync.RWMutex
	registry = make(map[reflect.Type]ContractSpec)
)

// Declare registers T as a capability contract with the given spec. It must
// be called at most once per T; calling it twice panics, since a contract's
// declaration is a compile-time fact of the program, not something that
// should race or be silently overwritten.
func Declare[T any](spec ContractSpec) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[t]; exists {
		panic("extpoint: contract " + t.String() + " already declared")
	}
	registry[t] = spec
}

// Lookup returns the declared spec for t, and whether t was declared at
// all. Loader.For uses this to implement the "T must be annotated as an
// extension point" precondition (spec §4.1).
func Lookup(t reflect.Type) (ContractSpec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	spec, ok := registry[t]
	return spec, ok
}

// All returns every declared contract type, sorted by String() for stable
// output. Used by dashboards and CLIs that browse contracts dynamically
// rather than against one T known at compile time.
func All() []reflect.Type {
	mu.RLock()
	defer mu.RUnlock()
	types := make([]reflect.Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

// MustBeInterface validates the usage-error precondition that T is an
// interface-like contract type.
func MustBeInterface(t reflect.Type) error {
	if t.Kind() != reflect.Interface {
		return streamyerrors.NewUsageError("loader.For", "contract "+t.String()+" is not an interface type")
	}
	return nil
}
