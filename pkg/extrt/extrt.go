// Package extrt is the extension runtime's public surface: the generic
// Loader Façade and the registration functions implementations self-call
// from init(). Everything here is a thin, type-safe wrapper over the
// reflect.Type-keyed core in internal/loader, internal/registry, and
// internal/extpoint — application code should never need those packages
// directly.
package extrt

import (
	"io/fs"
	"os"
	"reflect"

	"github.com/extrt-io/extrt/internal/adaptive"
	"github.com/extrt-io/extrt/internal/descriptor"
	"github.com/extrt-io/extrt/internal/extpoint"
	"github.com/extrt-io/extrt/internal/injector"
	"github.com/extrt-io/extrt/internal/loader"
	"github.com/extrt-io/extrt/internal/registry"
	"github.com/extrt-io/extrt/internal/runtimeconfig"
	"github.com/extrt-io/extrt/internal/telemetry"
	"github.com/extrt-io/extrt/internal/urlbag"
	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// Compiler is the collaborator the runtime-synthesis fallback (used by any
// contract with no hand-authored RegisterAdaptive implementation) delegates
// code generation and loading to. The default, internal/adaptive.GoPluginCompiler,
// shells out to `go build -buildmode=plugin` and loads the result with the
// standard library's plugin package (spec §4.9/§9); an application running
// somewhere plugin.Open isn't supported can override it.
type Compiler = adaptive.Compiler

// SetAdaptiveCompiler overrides the Compiler the runtime-synthesis fallback
// uses for every contract with no hand-authored RegisterAdaptive
// implementation. Call this once at startup, before the first GetAdaptive
// call for any such contract.
func SetAdaptiveCompiler(c Compiler) { adaptive.SetCompiler(c) }

// DisableAdaptiveSynthesis turns off the runtime-synthesis fallback
// entirely: every contract with no hand-authored RegisterAdaptive
// implementation fails its GetAdaptive call with an AdaptiveBuildError
// instead of attempting to compile one.
func DisableAdaptiveSynthesis() { adaptive.SetCompiler(adaptive.NoCompiler()) }

// ContractSpec declares T as a capability contract: its default name and,
// per operation, the Parameter Bag keys adaptive dispatch tries in order.
// A contract package calls Declare once, typically from its own init().
type ContractSpec = extpoint.ContractSpec

// OperationSpec names one operation's adaptive key order.
type OperationSpec = extpoint.OperationSpec

// ProtocolKey is the sentinel OperationSpec key that reads the Parameter
// Bag's protocol instead of a named parameter.
const ProtocolKey = extpoint.ProtocolKey

// ActivateSpec is the Go realisation of an @Activate annotation: which
// groups an implementation auto-activates for, which Parameter Bag keys
// must be present, and its relative Order among other auto-activated
// implementations.
type ActivateSpec = registry.ActivateSpec

// URL is the Parameter Bag collaborator GetActivated and adaptive dispatch
// read selector keys from.
type URL = urlbag.URL

// SetLogger installs the telemetry.Logger every Loader uses to report
// non-fatal conditions such as injection failures and descriptor scan
// diagnostics. Host applications call this once at startup; left unset, the
// runtime logs nowhere.
func SetLogger(l telemetry.Logger) { loader.SetLogger(l) }

// Configure applies a runtimeconfig.Config's descriptor roots, vendor
// aliases, and resource path prefix to the process-wide descriptor scan, in
// addition to whatever roots the caller already registered directly via
// AddDescriptorRoot. Call this once at startup, before the first For[T]()
// for any contract.
func Configure(cfg runtimeconfig.Config) error {
	for _, dir := range cfg.Roots {
		descriptor.AddRoot(os.DirFS(dir))
	}
	for _, alias := range cfg.VendorAliases {
		descriptor.AddVendorAlias(alias.From, alias.To)
	}
	descriptor.SetRootPrefix(cfg.DescriptorRootPrefix)
	return nil
}

// AddDescriptorRoot registers an additional filesystem (an embed.FS, a
// fstest.MapFS, or os.DirFS(dir)) to scan for descriptor files.
func AddDescriptorRoot(root fs.FS) { descriptor.AddRoot(root) }

// ParseURL builds a URL from a "scheme://host/path?query" string.
func ParseURL(raw string) (*URL, error) { return urlbag.Parse(raw) }

// NewURL builds a URL directly from a protocol and parameter map.
func NewURL(protocol string, params map[string]string) *URL { return urlbag.New(protocol, params) }

// ObjectFactory is the capability contract the injector resolves
// collaborators through. The runtime supplies the concrete ObjectFactory
// itself; an implementation that wants to opt individual setters out of
// injection implements InjectionExclusions instead.
type ObjectFactory = injector.ObjectFactory

// InjectionExclusions lets an implementation exclude specific setters from
// dependency injection — the Go stand-in for a per-field @DisableInject
// annotation.
type InjectionExclusions = injector.Exclusions

// Declare registers T as a capability contract. It panics if called twice
// for the same T.
func Declare[T any](spec ContractSpec) {
	extpoint.Declare[T](spec)
}

// GetFunc resolves a named implementation of T, the signature a
// hand-authored RegisterAdaptive factory calls back into per dispatched
// operation.
type GetFunc[T any] func(name string) (T, error)

// RegisterExtension registers a named, nullary-constructed implementation
// of T, meant to be called from an implementation package's own init(), the
// same way the teacher's concrete plugins self-register
// (internal/plugins/symlink/symlink.go's init() calling
// plugin.RegisterPlugin). Two implementations racing for the same name
// within one process is a build-time mistake, not a runtime condition to
// recover from, so RegisterExtension panics on a collision rather than
// returning an error; a runtime-discovered name conflict instead surfaces
// through Loader.Add returning DuplicateNameError.
func RegisterExtension[T any](name string, ctor func() T, opts ...ExtensionOption) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	var spec ActivateSpec
	for _, opt := range opts {
		opt(&spec)
	}
	if existing, dup := registry.RegisterOrdinary(t, name, func() any { return ctor() }, spec); dup {
		panic("extrt: duplicate extension name " + name + " for " + t.String() + " (already registered as " + existing + ")")
	}
}

// RegisterWrapper registers a decorator constructor for T: wrap receives
// the inner instance already constructed (and already injected) and
// returns a wrapped instance implementing the same T, composed in
// registration order (spec §4.7).
func RegisterWrapper[T any](name string, wrap func(inner T) T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	registry.RegisterWrapper(t, name, func(inner any) any {
		return wrap(inner.(T))
	})
}

// RegisterAdaptive installs T's hand-authored adaptive implementation
// (spec §9 Design Note (b)) — the primary, idiomatic path, ahead of the
// best-effort runtime-synthesis fallback internal/adaptive provides when no
// RegisterAdaptive call was made. build receives a resolver that looks up
// a named implementation of T by delegating back through this same Loader.
func RegisterAdaptive[T any](name string, build func(resolve GetFunc[T]) T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	existing, dup := registry.RegisterAdaptive(t, name, func(resolve func(string) (any, error)) any {
		typedResolve := func(n string) (T, error) {
			v, err := resolve(n)
			if err != nil {
				var zero T
				return zero, err
			}
			return v.(T), nil
		}
		return build(typedResolve)
	})
	if dup {
		panic(&streamyerrors.DuplicateAdaptiveError{Contract: t.String(), Existing: existing, New: name})
	}
}

// ExtensionOption configures an implementation's ActivateSpec at
// registration time.
type ExtensionOption func(*ActivateSpec)

// WithActivate marks an implementation for auto-activation in the given
// groups (empty means every group) with relative ordering order.
func WithActivate(groups []string, order int) ExtensionOption {
	return func(s *ActivateSpec) {
		s.Groups = groups
		s.Order = order
	}
}

// WithActivateKeys additionally requires the named Parameter Bag keys be
// present for auto-activation.
func WithActivateKeys(keys ...string) ExtensionOption {
	return func(s *ActivateSpec) {
		s.Keys = keys
	}
}

// Loader is the generic, type-safe façade over one contract's non-generic
// core (internal/loader.Loader).
type Loader[T any] struct {
	core *loader.Loader
}

// For returns (creating if necessary) the process-wide Loader for T. T must
// have been declared via Declare first.
func For[T any]() (*Loader[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	core, err := loader.For(t)
	if err != nil {
		return nil, err
	}
	return &Loader[T]{core: core}, nil
}

// Get constructs (or returns the cached instance of) the named
// implementation.
func (l *Loader[T]) Get(name string) (T, error) {
	var zero T
	v, err := l.core.Get(name)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// GetDefault resolves the contract's declared default name.
func (l *Loader[T]) GetDefault() (T, error) {
	var zero T
	v, err := l.core.GetDefault()
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// GetAdaptive resolves the contract's adaptive instance, built once and
// cached (including a sticky build failure) for the life of the process.
func (l *Loader[T]) GetAdaptive() (T, error) {
	var zero T
	v, err := l.core.GetAdaptive()
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// GetActivated resolves the ordered activation list for group/bag/explicit
// names.
func (l *Loader[T]) GetActivated(group string, bag *URL, explicit []string) ([]T, error) {
	raw, err := l.core.GetActivated(group, bag, explicit)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out, nil
}

// SupportedNames returns every discoverable name, sorted.
func (l *Loader[T]) SupportedNames() []string { return l.core.SupportedNames() }

// Has reports whether name is among SupportedNames, which includes
// descriptor-only names that have no factory and cannot be constructed.
func (l *Loader[T]) Has(name string) bool { return l.core.Has(name) }

// Loaded reports whether name has already been constructed.
func (l *Loader[T]) Loaded(name string) bool { return l.core.Loaded(name) }

// LoadedNames returns every already-constructed name, sorted.
func (l *Loader[T]) LoadedNames() []string { return l.core.LoadedNames() }

// Add installs a new ordinary implementation at runtime.
func (l *Loader[T]) Add(name string, ctor func() T, opts ...ExtensionOption) error {
	var spec ActivateSpec
	for _, opt := range opts {
		opt(&spec)
	}
	return l.core.Add(name, func() any { return ctor() }, spec)
}

// Replace overwrites name's factory and invalidates its cached instance.
func (l *Loader[T]) Replace(name string, ctor func() T, opts ...ExtensionOption) error {
	var spec ActivateSpec
	for _, opt := range opts {
		opt(&spec)
	}
	return l.core.Replace(name, func() any { return ctor() }, spec)
}
