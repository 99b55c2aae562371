package extrt

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/extrt-io/extrt/internal/adaptive"
	"github.com/extrt-io/extrt/internal/descriptor"
	"github.com/extrt-io/extrt/internal/runtimeconfig"
	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

type publicGreeter interface {
	Greet() string
}

type publicEnGreeter struct{}

func (publicEnGreeter) Greet() string { return "hello" }

type publicFrGreeter struct{}

func (publicFrGreeter) Greet() string { return "bonjour" }

type loggingGreeterWrapper struct {
	inner publicGreeter
	log   []string
}

func (w *loggingGreeterWrapper) Greet() string {
	w.log = append(w.log, "greet")
	return w.inner.Greet()
}

func init() {
	Declare[publicGreeter](ContractSpec{
		DefaultName: "en",
		Operations: []OperationSpec{
			{Method: "Greet", Keys: []string{"greeter", ProtocolKey}},
		},
	})
	RegisterExtension[publicGreeter]("en", func() publicGreeter { return publicEnGreeter{} })
	RegisterExtension[publicGreeter]("fr", func() publicGreeter { return publicFrGreeter{} })
	RegisterWrapper[publicGreeter]("logging", func(inner publicGreeter) publicGreeter {
		return &loggingGreeterWrapper{inner: inner}
	})
}

func TestPublicLoaderGetAppliesWrapper(t *testing.T) {
	t.Parallel()

	l, err := For[publicGreeter]()
	require.NoError(t, err)

	v, err := l.Get("en")
	require.NoError(t, err)
	require.Equal(t, "hello", v.Greet())

	wrapped, ok := v.(*loggingGreeterWrapper)
	require.True(t, ok)
	require.Equal(t, []string{"greet"}, wrapped.log)
}

func TestPublicLoaderGetDefault(t *testing.T) {
	t.Parallel()

	l, err := For[publicGreeter]()
	require.NoError(t, err)

	v, err := l.GetDefault()
	require.NoError(t, err)
	require.Equal(t, "hello", v.Greet())
}

func TestPublicLoaderSupportedNames(t *testing.T) {
	t.Parallel()

	l, err := For[publicGreeter]()
	require.NoError(t, err)
	require.Subset(t, l.SupportedNames(), []string{"en", "fr"})
}

type publicAdaptiveGreeter interface {
	Greet() string
}

type publicAdaptiveEn struct{}

func (publicAdaptiveEn) Greet() string { return "hello" }

func TestPublicRegisterAdaptiveRoundTrips(t *testing.T) {
	t.Parallel()

	Declare[publicAdaptiveGreeter](ContractSpec{DefaultName: "en"})
	RegisterExtension[publicAdaptiveGreeter]("en", func() publicAdaptiveGreeter { return publicAdaptiveEn{} })
	RegisterAdaptive[publicAdaptiveGreeter]("proxy", func(resolve GetFunc[publicAdaptiveGreeter]) publicAdaptiveGreeter {
		return &adaptivePublicGreeter{resolve: resolve}
	})

	l, err := For[publicAdaptiveGreeter]()
	require.NoError(t, err)

	v, err := l.GetAdaptive()
	require.NoError(t, err)
	require.Equal(t, "hello", v.Greet())
}

type adaptivePublicGreeter struct {
	resolve GetFunc[publicAdaptiveGreeter]
}

func (a *adaptivePublicGreeter) Greet() string {
	inst, err := a.resolve("en")
	if err != nil {
		return ""
	}
	return inst.Greet()
}

func TestRegisterAdaptiveDuplicatePanicsWithDuplicateAdaptiveError(t *testing.T) {
	t.Parallel()

	type dupAdaptiveGreeter interface{ Greet() string }
	Declare[dupAdaptiveGreeter](ContractSpec{DefaultName: "en"})
	RegisterAdaptive[dupAdaptiveGreeter]("first", func(resolve GetFunc[dupAdaptiveGreeter]) dupAdaptiveGreeter {
		return nil
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var dup *streamyerrors.DuplicateAdaptiveError
		require.ErrorAs(t, r.(error), &dup)
	}()
	RegisterAdaptive[dupAdaptiveGreeter]("second", func(resolve GetFunc[dupAdaptiveGreeter]) dupAdaptiveGreeter {
		return nil
	})
}

type synthesizedOnlyGreeter interface {
	Greet(bag *URL) string
}

type synthesizedOnlyImpl struct{}

func (synthesizedOnlyImpl) Greet(*URL) string { return "hello" }

// fakeCompiler proves SetAdaptiveCompiler's seam is actually wired into the
// runtime-synthesis path rather than just stored and ignored.
type fakeCompiler struct{ called bool }

func (f *fakeCompiler) Compile(contract reflect.Type, methods []adaptive.MethodShape, resolve adaptive.ResolveFunc) (any, error) {
	f.called = true
	return synthesizedOnlyImpl{}, nil
}

func TestSetAdaptiveCompilerIsUsedBySynthesisFallback(t *testing.T) {
	original := adaptive.DefaultCompiler
	defer func() { adaptive.DefaultCompiler = original }()

	fake := &fakeCompiler{}
	SetAdaptiveCompiler(fake)

	Declare[synthesizedOnlyGreeter](ContractSpec{
		DefaultName: "en",
		Operations:  []OperationSpec{{Method: "Greet"}},
	})
	RegisterExtension[synthesizedOnlyGreeter]("en", func() synthesizedOnlyGreeter { return synthesizedOnlyImpl{} })

	l, err := For[synthesizedOnlyGreeter]()
	require.NoError(t, err)

	v, err := l.GetAdaptive()
	require.NoError(t, err)
	require.Equal(t, "hello", v.Greet())
	require.True(t, fake.called)
}

func TestDisableAdaptiveSynthesisFailsWithStickyAdaptiveBuildError(t *testing.T) {
	original := adaptive.DefaultCompiler
	defer func() { adaptive.DefaultCompiler = original }()

	DisableAdaptiveSynthesis()

	type unsynthesizedGreeter interface{ Greet(bag *URL) string }
	Declare[unsynthesizedGreeter](ContractSpec{DefaultName: "en"})
	RegisterExtension[unsynthesizedGreeter]("en", func() unsynthesizedGreeter { return synthesizedOnlyImpl{} })

	l, err := For[unsynthesizedGreeter]()
	require.NoError(t, err)

	_, err1 := l.GetAdaptive()
	require.Error(t, err1)
	_, err2 := l.GetAdaptive()
	require.Error(t, err2)
	require.Equal(t, err1.Error(), err2.Error())
}

func TestConfigureAppliesDescriptorRootPrefix(t *testing.T) {
	defer descriptor.ResetForTest()

	cfg := runtimeconfig.Default()
	cfg.DescriptorRootPrefix = "vendor"
	require.NoError(t, Configure(cfg))

	paths := descriptor.ResourcePaths("greeter.Greeter", nil)
	require.Contains(t, paths, "vendor/services/greeter.Greeter")
}

func TestAddAndReplace(t *testing.T) {
	t.Parallel()

	type replaceable interface{ Label() string }
	Declare[replaceable](ContractSpec{DefaultName: "x"})

	l, err := For[replaceable]()
	require.NoError(t, err)

	err = l.Add("x", func() replaceable { return labelImpl{"first"} })
	require.NoError(t, err)

	v, err := l.Get("x")
	require.NoError(t, err)
	require.Equal(t, "first", v.Label())

	err = l.Replace("x", func() replaceable { return labelImpl{"second"} })
	require.NoError(t, err)

	v2, err := l.Get("x")
	require.NoError(t, err)
	require.Equal(t, "second", v2.Label())
}

type labelImpl struct{ s string }

func (l labelImpl) Label() string { return l.s }
