// Package injector implements setter-based dependency injection (spec §4.6).
// After an ordinary implementation is constructed, the injector scans its
// method set for single-argument SetXxx(T) methods whose parameter is
// itself an interface type, and invokes each with a collaborator resolved
// through an ObjectFactory. This is the reflection-driven analogue of
// resolving a service by type the way the teacher's container package
// resolves registrations by reflect-derived type key
// (mwantia-fabric/container/container_resolve.go, kept in the example pack
// as cross-repo grounding material, not this module's teacher).
package injector

import (
	"reflect"
	"strings"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// ObjectFactory is the capability contract the injector calls back into to
// resolve one collaborator: a type P (a declared contract's interface type)
// and an attribute name. internal/loader supplies the concrete
// implementation (defaultObjectFactory) and passes it to Inject directly; it
// is not looked up through a Loader or an adaptive proxy. internal/loader
// also skips injection for any contract that is ObjectFactory itself (the
// bootstrap break).
type ObjectFactory interface {
	// GetExtension resolves a value assignable to t, preferring the named
	// attribute when one is registered under that name, falling back to
	// the contract's adaptive or default instance. ok is false when no
	// value could be resolved at all.
	GetExtension(t reflect.Type, attribute string) (value any, ok bool)
}

// Exclusions lets an implementation opt individual setters out of injection
// — the Go realisation of a per-field @DisableInject annotation, since Go
// cannot attach metadata to a method. An implementation implements this
// interface to exclude setters by name.
type Exclusions interface {
	// InjectionExcluded reports whether setter (e.g. "SetLogger") should be
	// skipped by the injector.
	InjectionExcluded(setter string) bool
}

// Inject scans instance's method set for eligible setters and invokes each
// with a collaborator resolved through factory. Injection failures are
// collected and returned rather than aborting — per-setter failures are
// logged and swallowed by the caller (spec §7), not fatal to construction.
func Inject(instance any, factory ObjectFactory) []error {
	if instance == nil || factory == nil {
		return nil
	}

	v := reflect.ValueOf(instance)
	t := v.Type()
	var excluded Exclusions
	if e, ok := instance.(Exclusions); ok {
		excluded = e
	}

	var errs []error
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		if !isSetter(method) {
			continue
		}
		if excluded != nil && excluded.InjectionExcluded(method.Name) {
			continue
		}

		paramType := method.Type.In(1)
		if paramType.Kind() != reflect.Interface {
			// Only collaborator interfaces are injectable; setters of
			// concrete/primitive types are the implementation's own
			// configuration surface, left alone.
			continue
		}

		attribute := attributeName(method.Name)
		value, ok := factory.GetExtension(paramType, attribute)
		if !ok || value == nil {
			continue
		}

		arg := reflect.ValueOf(value)
		if !arg.Type().AssignableTo(paramType) {
			errs = append(errs, &streamyerrors.InjectionError{
				Contract: t.String(),
				Setter:   method.Name,
				Err:      streamyerrors.NewUsageError("injector.Inject", "resolved value for "+attribute+" is not assignable to "+paramType.String()),
			})
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, &streamyerrors.InjectionError{
						Contract: t.String(),
						Setter:   method.Name,
						Err:      streamyerrors.NewUsageError("injector.Inject", "setter panicked"),
					})
				}
			}()
			v.Method(i).Call([]reflect.Value{arg})
		}()
	}
	return errs
}

// isSetter reports whether method matches the SetXxx(T) shape: exported,
// prefixed "Set", taking exactly one argument and returning nothing.
func isSetter(method reflect.Method) bool {
	if !strings.HasPrefix(method.Name, "Set") || len(method.Name) <= len("Set") {
		return false
	}
	// method.Type includes the receiver as In(0) for a method obtained via
	// reflect.Type.Method.
	return method.Type.NumIn() == 2 && method.Type.NumOut() == 0
}

// attributeName derives the injection attribute name from a setter name:
// SetLogger -> "logger", SetObjectFactory -> "objectFactory" style lower
// camel case on the first rune only, matching Dubbo's convention of a
// property name derived from the bean setter.
func attributeName(setter string) string {
	rest := setter[len("Set"):]
	if rest == "" {
		return rest
	}
	r := []rune(rest)
	r[0] = toLower(r[0])
	return string(r)
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
