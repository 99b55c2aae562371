package registry

import (
	"reflect"
	"sort"
	"sync"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// Registry is one Loader instance's per-contract store: the resolved set of
// discoverable names, captured descriptor diagnostics, per-name instance
// holders, and the runtime overrides Add/Replace install (spec §4.5, §5).
// It sits on top of the process-wide factory table in factory.go, which
// holds what self-registered from init() across every Loader instance.
type Registry struct {
	contractType reflect.Type
	contractName string
	defaultName  string

	mu          sync.RWMutex
	names       map[string]bool
	diagnostics []error
	overrides   map[string]Ordinary
	holders     map[string]*Holder
	adaptive    *Holder
}

// New creates an empty registry for t, named per t.String() for error
// messages.
func New(t reflect.Type, defaultName string) *Registry {
	return &Registry{
		contractType: t,
		contractName: t.String(),
		defaultName:  defaultName,
		names:        map[string]bool{},
		overrides:    map[string]Ordinary{},
		holders:      map[string]*Holder{},
		adaptive:     &Holder{},
	}
}

// Reload records the result of a descriptor scan: the names it resolved
// (whether or not they matched a registered factory key) and the per-line
// diagnostics it captured. It never removes previously known names — a
// second scan only adds to what's discoverable, matching the "classpath"
// model's append-only nature.
func (r *Registry) Reload(discovered []string, diagnostics []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range discovered {
		r.names[name] = true
	}
	r.diagnostics = append(r.diagnostics, diagnostics...)
}

// candidates merges the process-wide factory table's ordinary
// implementations with this registry's runtime overrides, overrides taking
// precedence on a name collision (Replace's whole purpose).
func (r *Registry) candidates() map[string]Ordinary {
	snap := SnapshotOf(r.contractType)
	out := make(map[string]Ordinary, len(snap.Ordinary))
	for k, v := range snap.Ordinary {
		out[k] = v
	}
	r.mu.RLock()
	for k, v := range r.overrides {
		out[k] = v
	}
	r.mu.RUnlock()
	return out
}

// SupportedNames returns every name the registry knows: names with a
// matching factory plus names only the descriptor scan resolved (surfaced so
// missing-factory diagnostics are discoverable too). Get on a descriptor-only
// name fails with NoSuchExtensionError.
func (r *Registry) SupportedNames() []string {
	cand := r.candidates()
	r.mu.RLock()
	for name := range r.names {
		if _, ok := cand[name]; !ok {
			cand[name] = Ordinary{}
		}
	}
	r.mu.RUnlock()
	return SortedNames(cand)
}

// Diagnostics returns every descriptor error captured so far.
func (r *Registry) Diagnostics() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]error, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

func (r *Registry) holderFor(name string) *Holder {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holders[name]
	if !ok {
		h = &Holder{}
		r.holders[name] = h
	}
	return h
}

// Get constructs (or returns the cached instance of) name, invoking
// construct with the matched factory entry. NoSuchExtensionError, carrying
// every captured diagnostic, is returned when name matches no factory.
func (r *Registry) Get(name string, construct func(Ordinary) (any, error)) (any, error) {
	cand := r.candidates()
	ord, ok := cand[name]
	if !ok || ord.Ctor == nil {
		return nil, &streamyerrors.NoSuchExtensionError{
			Contract: r.contractName,
			Name:     name,
			Causes:   r.Diagnostics(),
		}
	}
	holder := r.holderFor(name)
	return holder.Get(name, func() (any, error) { return construct(ord) })
}

// GetDefault resolves the contract's declared default name.
func (r *Registry) GetDefault(construct func(Ordinary) (any, error)) (any, error) {
	if r.defaultName == "" {
		return nil, streamyerrors.NewUsageError("loader.GetDefault", "contract "+r.contractName+" declares no default name")
	}
	return r.Get(r.defaultName, construct)
}

// Loaded reports whether name's instance has already been constructed,
// without triggering construction.
func (r *Registry) Loaded(name string) bool {
	r.mu.RLock()
	h, ok := r.holders[name]
	r.mu.RUnlock()
	return ok && h.Loaded()
}

// LoadedNames returns the sorted names of every already-constructed
// instance.
func (r *Registry) LoadedNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, h := range r.holders {
		if h.Loaded() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Add installs a new ordinary implementation at runtime. It fails with
// DuplicateNameError if name already resolves to a factory (statically
// registered or a prior Add/Replace).
func (r *Registry) Add(name string, ctor func() any, activate ActivateSpec) error {
	cand := r.candidates()
	if existing, ok := cand[name]; ok && existing.Ctor != nil {
		return &streamyerrors.DuplicateNameError{Contract: r.contractName, Name: name, Existing: name, New: name}
	}
	r.mu.Lock()
	r.overrides[name] = Ordinary{Name: name, Ctor: ctor, Activate: activate}
	r.names[name] = true
	r.mu.Unlock()
	return nil
}

// Replace overwrites name's factory, whether it came from static
// registration or a prior Add, and invalidates any cached instance so the
// next Get reconstructs with the new factory (spec §4.5's cache
// invalidation rule).
func (r *Registry) Replace(name string, ctor func() any, activate ActivateSpec) error {
	cand := r.candidates()
	if _, ok := cand[name]; !ok {
		return &streamyerrors.NoSuchExtensionError{Contract: r.contractName, Name: name, Causes: r.Diagnostics()}
	}
	r.mu.Lock()
	r.overrides[name] = Ordinary{Name: name, Ctor: ctor, Activate: activate}
	r.names[name] = true
	delete(r.holders, name)
	r.mu.Unlock()
	return nil
}

// Activated resolves the ordered list of activated instances for group,
// bag, and an explicit name list (spec §4.8), constructing each via
// construct.
func (r *Registry) Activated(group string, bag ParameterBag, explicit []string, construct func(Ordinary) (any, error)) ([]any, error) {
	cand := r.candidates()
	ordered := SelectActivated(cand, group, bag, explicit)
	out := make([]any, 0, len(ordered))
	for _, name := range ordered {
		inst, err := r.Get(name, construct)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// WrapperOrder returns registered wrapper names in discovery order.
func (r *Registry) WrapperOrder() []string {
	return SnapshotOf(r.contractType).WrapperOrder
}

// Wrapper returns the wrap function registered under name.
func (r *Registry) Wrapper(name string) (Wrapper, bool) {
	snap := SnapshotOf(r.contractType)
	w, ok := snap.Wrapper[name]
	return w, ok
}

// AdaptiveFactory returns the hand-authored adaptive factory registered for
// this contract, if any.
func (r *Registry) AdaptiveFactory() (*Adaptive, bool) {
	snap := SnapshotOf(r.contractType)
	return snap.Adaptive, snap.Adaptive != nil
}

// AdaptiveHolder returns the one-shot slot the adaptive proxy is cached in.
func (r *Registry) AdaptiveHolder() *Holder {
	return r.adaptive
}

// DefaultName returns the contract's declared default name.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

