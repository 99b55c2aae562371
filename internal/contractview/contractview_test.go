package contractview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/extrt-io/extrt/internal/contractview"
	_ "github.com/extrt-io/extrt/internal/greeterdemo"
)

func TestAllIncludesGreeterWithExpectedShape(t *testing.T) {
	summaries, err := contractview.All()
	require.NoError(t, err)

	var greeter *contractview.Summary
	for i := range summaries {
		if summaries[i].Contract == "greeterdemo.Greeter" {
			greeter = &summaries[i]
		}
	}
	require.NotNil(t, greeter, "greeterdemo.Greeter must appear in the contract summary")
	require.Equal(t, "en", greeter.DefaultName)
	require.Contains(t, greeter.Names, "fr")
	require.Contains(t, greeter.Wrappers, "logging")
	require.True(t, greeter.HasAdaptive)
}

func TestFindReturnsFalseForUnknownContract(t *testing.T) {
	_, ok, err := contractview.Find("nonexistent.Contract")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConstructResolvesNamedInstance(t *testing.T) {
	v, err := contractview.Construct("greeterdemo.Greeter", "de")
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestConstructRejectsUnknownContract(t *testing.T) {
	_, err := contractview.Construct("nope.Contract", "x")
	require.Error(t, err)
}
