// Package greeterdemo is a worked example exercising every Loader Façade
// operation against one small capability contract, mirroring Dubbo's own
// canonical Greeter walkthrough. It doubles as the runtime's own
// integration test fixture (spec §8's testable properties).
package greeterdemo

import (
	"github.com/extrt-io/extrt/pkg/extrt"
)

// Greeter is the demo's capability contract. Greet takes the call-scoped
// Parameter Bag as its sole argument — every implementation accepts it,
// even the ones (en/fr/de) that ignore it, since it's the adaptive proxy
// that needs it to pick a name per call (spec §4.9).
type Greeter interface {
	Greet(bag *extrt.URL) string
}

// Counter is a second, independent contract Greeter implementations can
// depend on via setter injection, to exercise the Object Factory path.
type Counter interface {
	Count() int
}

func init() {
	extrt.Declare[Greeter](extrt.ContractSpec{
		DefaultName: "en",
		Operations: []extrt.OperationSpec{
			{Method: "Greet", Keys: []string{"greeter", extrt.ProtocolKey}},
		},
	})
	extrt.Declare[Counter](extrt.ContractSpec{DefaultName: "global"})

	extrt.RegisterExtension[Greeter]("en", func() Greeter { return enGreeter{} })
	extrt.RegisterExtension[Greeter]("fr", func() Greeter { return frGreeter{} })
	extrt.RegisterExtension[Greeter]("de", func() Greeter { return deGreeter{} })

	extrt.RegisterExtension[Counter]("global", func() Counter { return &globalCounter{} })

	extrt.RegisterWrapper[Greeter]("logging", func(inner Greeter) Greeter {
		return &LoggingGreeterWrapper{inner: inner}
	})

	extrt.RegisterAdaptive[Greeter]("proxy", func(resolve extrt.GetFunc[Greeter]) Greeter {
		return &AdaptiveGreeter{resolve: resolve}
	})

	extrt.RegisterExtension[Greeter]("counting", func() Greeter { return &CountingGreeter{} })
}

type enGreeter struct{}

func (enGreeter) Greet(*extrt.URL) string { return "hello" }

type frGreeter struct{}

func (frGreeter) Greet(*extrt.URL) string { return "bonjour" }

type deGreeter struct{}

func (deGreeter) Greet(*extrt.URL) string { return "hallo" }

// LoggingGreeterWrapper decorates any Greeter with a call log, the demo's
// stand-in for a cross-cutting wrapper (spec §4.7).
type LoggingGreeterWrapper struct {
	inner Greeter
	Log   []string
}

func (w *LoggingGreeterWrapper) Greet(bag *extrt.URL) string {
	w.Log = append(w.Log, "greet")
	return w.inner.Greet(bag)
}

// AdaptiveGreeter is the hand-authored adaptive implementation (spec §9
// Design Note (b)): it reads the call-scoped Parameter Bag and dispatches
// to the named Greeter, trying the "greeter" key, falling back to the
// protocol, and finally the contract's default name.
type AdaptiveGreeter struct {
	resolve extrt.GetFunc[Greeter]
}

func (a *AdaptiveGreeter) Greet(bag *extrt.URL) string {
	name, ok := bag.Parameter("greeter")
	if !ok || name == "" {
		name = bag.Protocol()
	}
	if name == "" {
		name = "en"
	}
	inst, err := a.resolve(name)
	if err != nil {
		return ""
	}
	return inst.Greet(bag)
}

type globalCounter struct{ n int }

func (c *globalCounter) Count() int { c.n++; return c.n }

// CountingGreeter depends on Counter via setter injection — the demo's
// exercise of the Object Factory / injector path (spec §4.6).
type CountingGreeter struct {
	counter Counter
}

// SetCounter is discovered and invoked by the injector.
func (g *CountingGreeter) SetCounter(c Counter) { g.counter = c }

func (g *CountingGreeter) Greet(*extrt.URL) string {
	if g.counter == nil {
		return "hello (uncounted)"
	}
	g.counter.Count()
	return "hello"
}
