// Package contractview builds read-only summaries of every declared
// capability contract for introspection tools (cmd/extrt's CLI and
// dashboard) that need to browse contracts dynamically rather than against
// one type parameter known at compile time.
package contractview

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/extrt-io/extrt/internal/extpoint"
	"github.com/extrt-io/extrt/internal/loader"
	"github.com/extrt-io/extrt/internal/urlbag"
	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// Summary is one contract's introspectable state.
type Summary struct {
	Contract    string
	DefaultName string
	Names       []string
	LoadedNames []string
	Wrappers    []string
	HasAdaptive bool
	Diagnostics []string
}

// All builds a Summary for every declared contract, sorted by contract name.
func All() ([]Summary, error) {
	types := extpoint.All()
	out := make([]Summary, 0, len(types))
	for _, t := range types {
		l, err := loader.For(t)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(l))
	}
	return out, nil
}

// Find looks up one contract's summary by its reflect.Type.String() name
// (e.g. "greeterdemo.Greeter").
func Find(name string) (Summary, bool, error) {
	t, ok := lookup(name)
	if !ok {
		return Summary{}, false, nil
	}
	l, err := loader.For(t)
	if err != nil {
		return Summary{}, false, err
	}
	return summarize(l), true, nil
}

// lookup finds the declared contract type whose String() matches name.
func lookup(name string) (reflect.Type, bool) {
	for _, t := range extpoint.All() {
		if t.String() == name {
			return t, true
		}
	}
	return nil, false
}

// Construct resolves contractName's named instance, the non-generic
// counterpart of pkg/extrt.Loader[T].Get for callers (CLI, dashboard) that
// only know the contract as a string.
func Construct(contractName, instanceName string) (any, error) {
	t, ok := lookup(contractName)
	if !ok {
		return nil, streamyerrors.NewUsageError("contractview.Construct", "no declared contract named "+contractName)
	}
	l, err := loader.For(t)
	if err != nil {
		return nil, err
	}
	return l.Get(instanceName)
}

// ConstructAdaptive resolves contractName's adaptive instance, building and
// caching it (including a sticky build failure) on first call, the
// non-generic counterpart of pkg/extrt.Loader[T].GetAdaptive.
func ConstructAdaptive(contractName string) (any, error) {
	t, ok := lookup(contractName)
	if !ok {
		return nil, streamyerrors.NewUsageError("contractview.ConstructAdaptive", "no declared contract named "+contractName)
	}
	l, err := loader.For(t)
	if err != nil {
		return nil, err
	}
	return l.GetAdaptive()
}

// InvokeAdaptive builds (or reuses) contractName's adaptive instance and
// calls every one of its declared adaptive operations with bag, returning
// each method's result rendered as a string. It assumes every operation
// takes the Parameter Bag as its sole argument, true of every contract this
// CLI ships with; a contract with a richer adaptive surface is better
// probed through pkg/extrt's generic Loader[T] directly.
func InvokeAdaptive(contractName string, bag *urlbag.URL) (map[string]string, error) {
	target, ok := lookup(contractName)
	if !ok {
		return nil, streamyerrors.NewUsageError("contractview.InvokeAdaptive", "no declared contract named "+contractName)
	}

	spec, _ := extpoint.Lookup(target)
	l, err := loader.For(target)
	if err != nil {
		return nil, err
	}
	inst, err := l.GetAdaptive()
	if err != nil {
		return nil, err
	}

	results := make(map[string]string, len(spec.Operations))
	v := reflect.ValueOf(inst)
	for _, op := range spec.Operations {
		fn := v.MethodByName(op.Method)
		if !fn.IsValid() {
			continue
		}
		out := fn.Call([]reflect.Value{reflect.ValueOf(bag)})
		parts := make([]string, len(out))
		for i, o := range out {
			parts[i] = fmt.Sprintf("%v", o.Interface())
		}
		results[op.Method] = strings.Join(parts, ", ")
	}
	return results, nil
}

func summarize(l *loader.Loader) Summary {
	diags := l.Diagnostics()
	diagStrings := make([]string, len(diags))
	for i, d := range diags {
		diagStrings[i] = d.Error()
	}
	return Summary{
		Contract:    l.Contract().String(),
		DefaultName: l.DefaultName(),
		Names:       l.SupportedNames(),
		LoadedNames: l.LoadedNames(),
		Wrappers:    l.WrapperNames(),
		HasAdaptive: l.HasAdaptive(),
		Diagnostics: diagStrings,
	}
}
