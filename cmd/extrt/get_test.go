package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/extrt-io/extrt/internal/greeterdemo"
)

func TestGetConstructsNamedInstance(t *testing.T) {
	app := &AppContext{}
	cmd := newGetCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"greeterdemo.Greeter", "fr"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "greeterdemo.Greeter/fr ->")
}

func TestGetUnknownNameErrors(t *testing.T) {
	app := &AppContext{}
	cmd := newGetCmd(app)
	cmd.SetArgs([]string{"greeterdemo.Greeter", "nonexistent"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	require.Error(t, cmd.Execute())
}
