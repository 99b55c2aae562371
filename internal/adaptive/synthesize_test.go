package adaptive

import (
	"os/exec"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/extrt-io/extrt/internal/urlbag"
)

// skipWithoutGoToolchain mirrors the teacher's habit of skipping
// exec.Command-backed tests that depend on the host environment rather than
// failing them outright (internal/plugins/internalexec's "POSIX shell
// assumptions do not hold on Windows" skips).
func skipWithoutGoToolchain(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available on PATH")
	}
}

type synthesizableGreeter interface {
	Greet(bag *urlbag.URL) string
}

func TestGoPluginCompilerBuildsAndInvokesAProxy(t *testing.T) {
	skipWithoutGoToolchain(t)

	contract := reflect.TypeOf((*synthesizableGreeter)(nil)).Elem()
	shapes, ok, offending := DescribeMethods(contract)
	require.True(t, ok, "offending method: %s", offending)

	var gotMethod string
	var gotBag any
	resolve := func(method string, bag any, _ []any) ([]any, error) {
		gotMethod = method
		gotBag = bag
		return []any{"bonjour"}, nil
	}

	compiler := GoPluginCompiler{}
	inst, err := compiler.Compile(contract, shapes, resolve)
	require.NoError(t, err)
	require.NotNil(t, inst)

	bag := urlbag.New("dubbo", nil)
	v := reflect.ValueOf(inst)
	out := v.MethodByName("Greet").Call([]reflect.Value{reflect.ValueOf(bag)})
	require.Equal(t, "bonjour", out[0].Interface())
	require.Equal(t, "Greet", gotMethod)
	require.Same(t, bag, gotBag)
}
