// Package loader implements the Loader Façade's non-generic core (spec
// §4.1, §5, §10): a process-wide reflect.Type-keyed index of per-contract
// loaders, each wrapping a registry.Registry and orchestrating descriptor
// loading, dependency injection, wrapper composition, activation selection,
// and adaptive dispatch for that one contract. pkg/extrt's generic
// Loader[T] is a thin typed façade over this.
package loader

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/extrt-io/extrt/internal/adaptive"
	"github.com/extrt-io/extrt/internal/descriptor"
	"github.com/extrt-io/extrt/internal/extpoint"
	"github.com/extrt-io/extrt/internal/injector"
	"github.com/extrt-io/extrt/internal/registry"
	"github.com/extrt-io/extrt/internal/telemetry"
	"github.com/extrt-io/extrt/internal/urlbag"
	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

var index sync.Map // reflect.Type -> *Loader

// noopLogger discards every entry; it is the zero-value SetLogger target so
// the loader never needs a nil check on the hot construction path.
type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...interface{}) {}
func (noopLogger) Info(context.Context, string, ...interface{})  {}
func (noopLogger) Warn(context.Context, string, ...interface{})  {}
func (noopLogger) Error(context.Context, string, ...interface{}) {}
func (n noopLogger) With(...interface{}) telemetry.Logger        { return n }

var currentLogger atomic.Value // telemetry.Logger

func init() {
	currentLogger.Store(telemetry.Logger(noopLogger{}))
}

// SetLogger installs the logger every Loader uses to report non-fatal
// conditions (injection failures, descriptor scan diagnostics). Callers
// typically wire this once at process startup; it defaults to a no-op so
// the package is usable without any logging setup at all.
func SetLogger(l telemetry.Logger) {
	if l == nil {
		l = noopLogger{}
	}
	currentLogger.Store(l)
}

func logger() telemetry.Logger {
	return currentLogger.Load().(telemetry.Logger)
}

// objectFactoryContract is the reflect.Type of injector.ObjectFactory,
// compared against to implement the bootstrap break (spec §4.6): a
// contract's own instances are never injected when that contract IS the
// Object Factory contract, since resolving its collaborators would recurse
// into itself.
var objectFactoryContract = reflect.TypeOf((*injector.ObjectFactory)(nil)).Elem()

// Loader is the non-generic per-contract core.
type Loader struct {
	contract reflect.Type
	spec     extpoint.ContractSpec
	reg      *registry.Registry

	loadOnce sync.Once
}

// For returns (creating if necessary) the process-wide Loader for contract
// t, validating t is a declared extension point interface.
func For(t reflect.Type) (*Loader, error) {
	if err := extpoint.MustBeInterface(t); err != nil {
		return nil, err
	}
	spec, ok := extpoint.Lookup(t)
	if !ok {
		return nil, streamyerrors.NewUsageError("loader.For", "contract "+t.String()+" was never declared via extpoint.Declare")
	}

	if v, ok := index.Load(t); ok {
		return v.(*Loader), nil
	}
	candidate := &Loader{contract: t, spec: spec, reg: registry.New(t, spec.DefaultName)}
	actual, _ := index.LoadOrStore(t, candidate)
	l := actual.(*Loader)
	l.ensureLoaded()
	return l, nil
}

// ensureLoaded runs the descriptor scan exactly once per Loader instance.
// For calls it only on the loader LoadOrStore kept, so a losing candidate
// never duplicates the scan; every other entry point calls it as well. A
// descriptor name with no registered ordinary, wrapper or adaptive factory
// is recorded as a DescriptorError diagnostic.
func (l *Loader) ensureLoaded() {
	l.loadOnce.Do(func() {
		roots, aliases := descriptor.Roots()
		entries, diags := descriptor.Scan(roots, l.contract.String(), aliases)
		snap := registry.SnapshotOf(l.contract)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
			_, isOrdinary := snap.Ordinary[e.Name]
			_, isWrapper := snap.Wrapper[e.Name]
			isAdaptive := snap.Adaptive != nil && snap.Adaptive.Name == e.Name
			if !isOrdinary && !isWrapper && !isAdaptive {
				diags = append(diags, streamyerrors.NewDescriptorError(e.Resource, e.Name+" = "+e.FactoryKey,
					streamyerrors.NewUsageError("loader", "no factory registered under name "+e.Name)))
			}
		}
		for _, d := range diags {
			logger().Warn(context.Background(), "descriptor scan diagnostic",
				"contract", l.contract.String(), "detail", d.Error())
		}
		l.reg.Reload(names, diags)
	})
}

// Contract returns the reflect.Type this loader serves.
func (l *Loader) Contract() reflect.Type { return l.contract }

func (l *Loader) construct(ord registry.Ordinary) (any, error) {
	raw := ord.Ctor()
	if raw == nil {
		return nil, streamyerrors.NewConstructionError(l.contract.String(), ord.Name, streamyerrors.NewUsageError("loader", "constructor returned nil"))
	}

	l.injectAndWrap(raw)

	result := raw
	for _, wname := range l.reg.WrapperOrder() {
		w, ok := l.reg.Wrapper(wname)
		if !ok {
			continue
		}
		result = w.Wrap(result)
		l.injectAndWrap(result)
	}
	return result, nil
}

// injectAndWrap performs one round of setter injection against instance,
// skipped entirely for the Object Factory contract itself (the bootstrap
// break) and swallowing per-setter failures per spec §7's recovery policy.
func (l *Loader) injectAndWrap(instance any) {
	if l.contract == objectFactoryContract {
		return
	}
	of := defaultObjectFactory{}
	for _, err := range injector.Inject(instance, of) {
		logger().Warn(context.Background(), "dependency injection skipped a field",
			"contract", l.contract.String(), "error", err.Error())
	}
}

// Get constructs (or returns the cached instance of) name.
func (l *Loader) Get(name string) (any, error) {
	l.ensureLoaded()
	if name == "" {
		return nil, streamyerrors.NewUsageError("loader.Get", "name must not be blank")
	}
	v, err := l.reg.Get(name, l.construct)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetDefault resolves the contract's declared default name.
func (l *Loader) GetDefault() (any, error) {
	l.ensureLoaded()
	return l.reg.GetDefault(l.construct)
}

// GetActivated resolves the ordered activation list for group/bag/explicit
// names (spec §4.8).
func (l *Loader) GetActivated(group string, bag *urlbag.URL, explicit []string) ([]any, error) {
	l.ensureLoaded()
	return l.reg.Activated(group, bag, explicit, l.construct)
}

// GetAdaptive resolves (building and caching, exactly once, on first call)
// this contract's adaptive instance: the hand-authored factory if one was
// registered via RegisterAdaptive, otherwise a runtime-synthesised fallback
// (spec §9). Construction failure is sticky per spec §7/§5 — every
// subsequent call re-raises the same AdaptiveBuildError without retrying.
func (l *Loader) GetAdaptive() (any, error) {
	l.ensureLoaded()
	v, err := l.reg.AdaptiveHolder().Get("adaptive", func() (any, error) {
		if af, ok := l.reg.AdaptiveFactory(); ok {
			resolveName := func(name string) (any, error) { return l.Get(name) }
			return af.Build(resolveName), nil
		}
		return l.synthesizeAdaptive()
	})
	if err != nil {
		logger().Error(context.Background(), "adaptive construction failed",
			"contract", l.contract.String(), "error", err.Error())
	}
	return v, err
}

func (l *Loader) synthesizeAdaptive() (any, error) {
	shapes, ok, offending := adaptive.DescribeMethods(l.contract)
	if !ok {
		return nil, streamyerrors.NewAdaptiveBuildError(
			l.contract.String(),
			streamyerrors.NewUsageError("adaptive synthesis", "method "+offending+" has a signature the synthesis fallback cannot describe; register a hand-authored adaptive implementation instead"),
		)
	}

	resolve := func(method string, bag any, _ []any) ([]any, error) {
		op, ok := l.spec.OperationSpec(method)
		if !ok {
			return nil, adaptive.Unsupported(l.contract, method)
		}
		pb, ok := bag.(adaptive.ParameterBag)
		if !ok {
			return nil, streamyerrors.NewUsageError("adaptive dispatch", "bag does not implement the Parameter Bag read surface")
		}
		name, err := adaptive.Resolve(op, pb, l.spec.DefaultName)
		if err != nil {
			return nil, err
		}
		inst, err := l.Get(name)
		if err != nil {
			return nil, err
		}

		fn := reflect.ValueOf(inst).MethodByName(method)
		out := fn.Call([]reflect.Value{reflect.ValueOf(bag)})
		results := make([]any, len(out))
		for i, o := range out {
			results[i] = o.Interface()
		}
		return results, nil
	}

	proxy, err := adaptive.DefaultCompiler.Compile(l.contract, shapes, resolve)
	if err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(l.contract.String(), err)
	}
	return proxy, nil
}

// Has reports whether name is among SupportedNames, which includes
// descriptor-only names that have no factory and cannot be constructed.
func (l *Loader) Has(name string) bool {
	l.ensureLoaded()
	for _, n := range l.reg.SupportedNames() {
		if n == name {
			return true
		}
	}
	return false
}

// Loaded reports whether name has already been constructed.
func (l *Loader) Loaded(name string) bool {
	return l.reg.Loaded(name)
}

// LoadedNames returns every already-constructed name, sorted.
func (l *Loader) LoadedNames() []string {
	return l.reg.LoadedNames()
}

// SupportedNames returns every discoverable name, sorted.
func (l *Loader) SupportedNames() []string {
	l.ensureLoaded()
	return l.reg.SupportedNames()
}

// WrapperNames returns the registered wrapper decorators in composition
// order.
func (l *Loader) WrapperNames() []string {
	l.ensureLoaded()
	return l.reg.WrapperOrder()
}

// DefaultName returns the contract's declared default name.
func (l *Loader) DefaultName() string {
	return l.reg.DefaultName()
}

// HasAdaptive reports whether this contract has a hand-authored adaptive
// implementation registered (the runtime-synthesis fallback is always
// theoretically available, so this only reports the primary path).
func (l *Loader) HasAdaptive() bool {
	l.ensureLoaded()
	_, ok := l.reg.AdaptiveFactory()
	return ok
}

// Diagnostics returns every descriptor scan error captured for this
// contract, without aborting discovery of the remaining well-formed names.
func (l *Loader) Diagnostics() []error {
	l.ensureLoaded()
	return l.reg.Diagnostics()
}

// Add installs a new ordinary implementation at runtime.
func (l *Loader) Add(name string, ctor func() any, activate registry.ActivateSpec) error {
	l.ensureLoaded()
	return l.reg.Add(name, ctor, activate)
}

// Replace overwrites name's factory and invalidates its cached instance.
func (l *Loader) Replace(name string, ctor func() any, activate registry.ActivateSpec) error {
	l.ensureLoaded()
	return l.reg.Replace(name, ctor, activate)
}

// defaultObjectFactory is the built-in, always-available ObjectFactory
// implementation: given a collaborator contract type and an attribute name,
// it resolves that contract's own Loader and asks it for the named
// instance, falling back to the adaptive instance and finally the default
// name, mirroring Dubbo's SpiExtensionFactory falling back through the same
// chain. Constructing a collaborator this way can itself recurse into
// For/Get for a different contract — supported, since the concurrency model
// already allows construction to suspend for transitive adaptive builds of
// collaborators (spec §5).
type defaultObjectFactory struct{}

func (defaultObjectFactory) GetExtension(t reflect.Type, attribute string) (any, bool) {
	if t.Kind() != reflect.Interface {
		return nil, false
	}
	if _, ok := extpoint.Lookup(t); !ok {
		return nil, false
	}
	collaborator, err := For(t)
	if err != nil {
		return nil, false
	}
	if attribute != "" {
		if v, err := collaborator.Get(attribute); err == nil {
			return v, true
		}
	}
	if v, err := collaborator.GetAdaptive(); err == nil {
		return v, true
	}
	if v, err := collaborator.GetDefault(); err == nil {
		return v, true
	}
	return nil, false
}
