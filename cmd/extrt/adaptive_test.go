package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/extrt-io/extrt/internal/greeterdemo"
)

func TestAdaptiveDispatchesAgainstURL(t *testing.T) {
	app := &AppContext{}
	cmd := newAdaptiveCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"greeterdemo.Greeter", "en://host?greeter=fr"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Greet")
	require.Contains(t, out.String(), "bonjour")
}

func TestAdaptiveRejectsUnparsableURL(t *testing.T) {
	app := &AppContext{}
	cmd := newAdaptiveCmd(app)
	cmd.SetArgs([]string{"greeterdemo.Greeter", "://not a url"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	require.Error(t, cmd.Execute())
}
