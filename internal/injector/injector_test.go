package injector

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type counter interface {
	Count() int
}

type realCounter struct{ n int }

func (c *realCounter) Count() int { return c.n }

type needsCounter struct {
	counter     counter
	excludedSet bool
}

func (n *needsCounter) SetCounter(c counter) { n.counter = c }
func (n *needsCounter) SetLabel(s string)    { n.excludedSet = true } // non-interface param, must be skipped
func (n *needsCounter) InjectionExcluded(setter string) bool {
	return setter == "SetLabel"
}

type fakeFactory struct {
	value any
}

func (f *fakeFactory) GetExtension(t reflect.Type, attribute string) (any, bool) {
	if attribute == "counter" && f.value != nil {
		return f.value, true
	}
	return nil, false
}

func TestInjectCallsMatchingSetter(t *testing.T) {
	t.Parallel()

	target := &needsCounter{}
	factory := &fakeFactory{value: &realCounter{n: 7}}

	errs := Inject(target, factory)
	require.Empty(t, errs)
	require.NotNil(t, target.counter)
	require.Equal(t, 7, target.counter.Count())
}

func TestInjectSkipsNonInterfaceSetters(t *testing.T) {
	t.Parallel()

	target := &needsCounter{}
	factory := &fakeFactory{value: &realCounter{n: 1}}
	_ = Inject(target, factory)
	// SetLabel accepts a string, never should be invoked or cause a panic.
	require.False(t, target.excludedSet)
}

func TestInjectUnresolvedAttributeLeavesFieldUnset(t *testing.T) {
	t.Parallel()

	target := &needsCounter{}
	factory := &fakeFactory{value: nil}
	errs := Inject(target, factory)
	require.Empty(t, errs)
	require.Nil(t, target.counter)
}

func TestAttributeNameLowersFirstRune(t *testing.T) {
	t.Parallel()
	require.Equal(t, "counter", attributeName("SetCounter"))
	require.Equal(t, "objectFactory", attributeName("SetObjectFactory"))
}
