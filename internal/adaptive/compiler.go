package adaptive

import (
	"reflect"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// Compiler is the capability contract behind the runtime-synthesis fallback:
// given a contract's reflect.Type and its declared spec, produce a value
// satisfying that contract whose methods dispatch through resolve. The
// default implementation (GoPluginCompiler) generates source, shells out to
// `go build -buildmode=plugin`, and loads the result with the standard
// library's plugin package; an application may install an alternative
// Compiler (e.g. one that skips the OS process entirely in an environment
// where cgo plugins aren't available) with SetCompiler. The Compiler in use
// is the package variable DefaultCompiler; it is not looked up through a
// Loader.
type Compiler interface {
	Compile(contract reflect.Type, methods []MethodShape, resolve ResolveFunc) (any, error)
}

// ResolveFunc is what a synthesized (or hand-authored) adaptive proxy calls
// per dispatched operation: given the method name and the Parameter Bag
// passed as its first argument, it resolves the right named implementation
// and invokes method on it, returning that call's raw results in order. The
// returned error is a dispatch failure (no such extension, unsupported
// operation) and is distinct from any error the invoked method itself
// returned, which is folded into results like any other return value.
type ResolveFunc func(method string, bag any, args []any) (results []any, dispatchErr error)

// MethodShape describes one contract method in exactly the constrained form
// GoPluginCompiler can generate code for: a single *urlbag.URL parameter and
// at most a string return value and/or a trailing error. Any
// richer signature — multiple parameters, no Parameter Bag argument,
// non-string returns, generic types — cannot be round-tripped through
// text/template-generated source without importing and spelling out the
// type's own package, so DescribeMethods rejects it up front rather than emitting
// source that would fail to build; a hand-authored RegisterAdaptive
// implementation has no such limit.
type MethodShape struct {
	Name       string
	ReturnType reflect.Type // nil for no non-error return value
	HasError   bool
}

// DescribeMethods inspects contract's method set and reports whether every
// method fits MethodShape; ok is false the moment one doesn't, naming the
// offending method.
func DescribeMethods(contract reflect.Type) (shapes []MethodShape, ok bool, offending string) {
	for i := 0; i < contract.NumMethod(); i++ {
		m := contract.Method(i)
		if m.Type.NumIn() != 1 {
			return nil, false, m.Name
		}
		paramType := m.Type.In(0)
		if paramType.String() != "*urlbag.URL" {
			// The synthesis fallback only knows how to emit an import for
			// the runtime's own Parameter Bag type; any other parameter
			// type would need source-level knowledge of its package that
			// reflection alone can't recover.
			return nil, false, m.Name
		}

		shape := MethodShape{Name: m.Name}
		switch m.Type.NumOut() {
		case 0:
		case 1:
			out := m.Type.Out(0)
			if out == errorType {
				shape.HasError = true
			} else if out.Kind() == reflect.String {
				shape.ReturnType = out
			} else {
				return nil, false, m.Name
			}
		case 2:
			if m.Type.Out(1) != errorType || m.Type.Out(0).Kind() != reflect.String {
				return nil, false, m.Name
			}
			shape.ReturnType = m.Type.Out(0)
			shape.HasError = true
		default:
			return nil, false, m.Name
		}
		shapes = append(shapes, shape)
	}
	return shapes, true, ""
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// noCompiler always fails fast with a descriptive AdaptiveBuildError; it
// backs DisableAdaptiveSynthesis for applications that want runtime
// synthesis turned off entirely (e.g. a platform plugin.Open doesn't
// support) rather than silently falling back to it.
type noCompiler struct{}

func (noCompiler) Compile(contract reflect.Type, _ []MethodShape, _ ResolveFunc) (any, error) {
	return nil, streamyerrors.NewAdaptiveBuildError(contract.String(),
		streamyerrors.NewUsageError("adaptive.Compile", "adaptive synthesis is disabled and no hand-authored adaptive implementation was found"))
}

// NoCompiler returns a Compiler that always fails, for applications that
// call SetCompiler to explicitly turn off runtime synthesis.
func NoCompiler() Compiler { return noCompiler{} }

// DefaultCompiler is used by every contract with no hand-authored
// RegisterAdaptive implementation. It defaults to GoPluginCompiler, the
// best-effort `go build -buildmode=plugin` fallback (spec §4.9/§9); an
// application can override it with SetCompiler (e.g. pkg/extrt.SetAdaptiveCompiler)
// before the first GetAdaptive call for any contract.
var DefaultCompiler Compiler = GoPluginCompiler{}

// SetCompiler overrides DefaultCompiler.
func SetCompiler(c Compiler) {
	if c == nil {
		c = noCompiler{}
	}
	DefaultCompiler = c
}
