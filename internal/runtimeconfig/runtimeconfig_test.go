package runtimeconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
roots:
  - ./descriptors
vendor_aliases:
  - from: META-INF/dubbo
    to: extrt
`))
	require.NoError(t, err)
	require.Equal(t, []string{"./descriptors"}, cfg.Roots)
	require.Equal(t, "extrt", cfg.DescriptorRootPrefix)
}

func TestValidateRejectsAliasCollidingWithCanonicalPrefix(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.VendorAliases = []VendorAliasConfig{{From: "extrt", To: "extrt"}}
	err := Validate(cfg)
	require.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("roots: [unterminated"))
	require.Error(t, err)
}

func TestDefaultHasCanonicalPrefix(t *testing.T) {
	t.Parallel()
	require.Equal(t, "extrt", Default().DescriptorRootPrefix)
}
