package urlbag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExtractsProtocolAndParameters(t *testing.T) {
	t.Parallel()

	u, err := Parse("dubbo://10.0.0.1:20880/greeter.Greeter?greeter=fr&timeout=3000")
	require.NoError(t, err)
	require.Equal(t, "dubbo", u.Protocol())

	v, ok := u.Parameter("greeter")
	require.True(t, ok)
	require.Equal(t, "fr", v)

	_, ok = u.Parameter("missing")
	require.False(t, ok)
}

func TestMethodParameterFallsBackToBagWideThenDefault(t *testing.T) {
	t.Parallel()

	u := New("dubbo", map[string]string{"timeout": "1000"})
	require.Equal(t, "1000", u.MethodParameter("greet", "timeout", "500"))
	require.Equal(t, "500", u.MethodParameter("greet", "retries", "500"))
}

func TestHasSuffixParameterMatchesDottedKeys(t *testing.T) {
	t.Parallel()

	u := New("dubbo", map[string]string{"cluster.timeout": "2000"})
	v, ok := u.HasSuffixParameter("timeout")
	require.True(t, ok)
	require.Equal(t, "2000", v)

	_, ok = u.HasSuffixParameter("retries")
	require.False(t, ok)
}

func TestParametersIterationIsSorted(t *testing.T) {
	t.Parallel()

	u := New("dubbo", map[string]string{"zeta": "1", "alpha": "2", "mike": "3"})
	var keys []string
	for k := range u.Parameters() {
		keys = append(keys, k)
	}
	require.Equal(t, []string{"alpha", "mike", "zeta"}, keys)
}

func TestNilURLIsSafeToUse(t *testing.T) {
	t.Parallel()

	var u *URL
	require.Equal(t, "", u.Protocol())
	_, ok := u.Parameter("x")
	require.False(t, ok)
	require.Equal(t, "def", u.MethodParameter("m", "k", "def"))
}
