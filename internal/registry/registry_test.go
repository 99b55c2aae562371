package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

type fakeGreeter interface {
	Greet() string
}

type enGreeter struct{}

func (enGreeter) Greet() string { return "hello" }

type frGreeter struct{}

func (frGreeter) Greet() string { return "bonjour" }

func freshRegistry(t *testing.T) (*Registry, reflect.Type) {
	t.Helper()
	typ := reflect.TypeOf((*fakeGreeter)(nil)).Elem()
	// Each test uses a distinct named interface type below to avoid
	// colliding with other tests' factory table entries.
	return New(typ, "en"), typ
}

type registryTestContractA interface{ Greet() string }
type registryTestContractB interface{ Greet() string }
type registryTestContractC interface{ Greet() string }
type registryTestContractD interface{ Greet() string }

func TestGetConstructsOnceAndCaches(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf((*registryTestContractA)(nil)).Elem()
	calls := 0
	RegisterOrdinary(typ, "en", func() any { calls++; return enGreeter{} }, ActivateSpec{})

	r := New(typ, "en")
	construct := func(o Ordinary) (any, error) { return o.Ctor(), nil }

	v1, err := r.Get("en", construct)
	require.NoError(t, err)
	v2, err := r.Get("en", construct)
	require.NoError(t, err)

	require.Same(t, v1, v2)
	require.Equal(t, 1, calls)
}

func TestGetUnknownNameReturnsNoSuchExtension(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf((*registryTestContractB)(nil)).Elem()
	r := New(typ, "en")
	_, err := r.Get("missing", func(o Ordinary) (any, error) { return o.Ctor(), nil })

	var nsErr *streamyerrors.NoSuchExtensionError
	require.ErrorAs(t, err, &nsErr)
	require.Equal(t, "missing", nsErr.Name)
}

func TestAddRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf((*registryTestContractC)(nil)).Elem()
	RegisterOrdinary(typ, "en", func() any { return enGreeter{} }, ActivateSpec{})

	r := New(typ, "en")
	err := r.Add("en", func() any { return enGreeter{} }, ActivateSpec{})

	var dup *streamyerrors.DuplicateNameError
	require.ErrorAs(t, err, &dup)
}

func TestReplaceInvalidatesCachedInstance(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf((*registryTestContractD)(nil)).Elem()
	RegisterOrdinary(typ, "en", func() any { return enGreeter{} }, ActivateSpec{})

	r := New(typ, "en")
	construct := func(o Ordinary) (any, error) { return o.Ctor(), nil }

	v1, err := r.Get("en", construct)
	require.NoError(t, err)
	require.Equal(t, "hello", v1.(fakeGreeter).Greet())

	err = r.Replace("en", func() any { return frGreeter{} }, ActivateSpec{})
	require.NoError(t, err)

	v2, err := r.Get("en", construct)
	require.NoError(t, err)
	require.Equal(t, "bonjour", v2.(fakeGreeter).Greet())
}

func TestSelectActivatedOrdersByOrderThenName(t *testing.T) {
	t.Parallel()

	candidates := map[string]Ordinary{
		"b": {Name: "b", Activate: ActivateSpec{Order: 1}},
		"a": {Name: "a", Activate: ActivateSpec{Order: 1}},
		"c": {Name: "c", Activate: ActivateSpec{Order: 0}},
	}
	names := SelectActivated(candidates, "", nil, nil)
	require.Equal(t, []string{"c", "a", "b"}, names)
}

func TestSelectActivatedHonorsExclusionAndDefaultSplice(t *testing.T) {
	t.Parallel()

	candidates := map[string]Ordinary{
		"a": {Name: "a", Activate: ActivateSpec{Order: 0}},
		"b": {Name: "b", Activate: ActivateSpec{Order: 1}},
	}
	names := SelectActivated(candidates, "", nil, []string{"explicit", "default", "-b"})
	require.Equal(t, []string{"explicit", "a"}, names)
}

func TestDiagnosticsReturnsCopy(t *testing.T) {
	t.Parallel()
	// Sanity check registry.Diagnostics copies rather than aliases.
	typ := reflect.TypeOf((*registryTestContractA)(nil)).Elem()
	r := New(typ, "en")
	r.Reload(nil, []error{errors.New("boom")})
	d1 := r.Diagnostics()
	d1[0] = errors.New("mutated")
	d2 := r.Diagnostics()
	require.Equal(t, "boom", d2[0].Error())
}
