package adaptive

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"plugin"
	"reflect"
	"sync"
	"text/template"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// GoPluginCompiler is the best-effort runtime-synthesis fallback (spec §9
// Design Note (a)): it emits a small Go source file implementing contract
// via text/template, compiles it with `go build -buildmode=plugin`, and
// loads the result with the standard library's plugin package. It only
// works on platforms plugin.Open supports (linux/darwin, matching toolchain
// versions between host and plugin), and only for contracts whose every
// method fits MethodShape; callers that need broader coverage should supply
// a hand-authored adaptive implementation via RegisterAdaptive instead,
// which this fallback exists to cover when that wasn't done.
type GoPluginCompiler struct {
	// BuildDir is the scratch directory source and compiled plugins are
	// written to; defaults to os.TempDir() when empty.
	BuildDir string
	// GoTool is the `go` binary invoked to build; defaults to "go".
	GoTool string
}

var resolversMu sync.Mutex
var resolvers = map[string]ResolveFunc{}

// LookupResolver is called by synthesized plugin code to recover the
// ResolveFunc the host registered for its build ID. Exported so the
// generated plugin source (which imports this package) can reach it; not
// part of the runtime's application-facing API.
func LookupResolver(buildID string) ResolveFunc {
	resolversMu.Lock()
	defer resolversMu.Unlock()
	return resolvers[buildID]
}

func registerResolver(buildID string, fn ResolveFunc) {
	resolversMu.Lock()
	defer resolversMu.Unlock()
	resolvers[buildID] = fn
}

func unregisterResolver(buildID string) {
	resolversMu.Lock()
	defer resolversMu.Unlock()
	delete(resolvers, buildID)
}

func (c GoPluginCompiler) Compile(contract reflect.Type, methods []MethodShape, resolve ResolveFunc) (any, error) {
	buildID, err := randomID()
	if err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), err)
	}

	dir := c.BuildDir
	if dir == "" {
		dir = os.TempDir()
	}
	workDir, err := os.MkdirTemp(dir, "extrt-adaptive-")
	if err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), err)
	}
	defer os.RemoveAll(workDir)

	source, err := renderSource(buildID, contract, methods)
	if err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), err)
	}

	srcPath := filepath.Join(workDir, "adaptive_proxy.go")
	if err := os.WriteFile(srcPath, []byte(source), 0o600); err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), err)
	}

	soPath := filepath.Join(workDir, "adaptive_proxy.so")
	goTool := c.GoTool
	if goTool == "" {
		goTool = "go"
	}
	cmd := exec.Command(goTool, "build", "-buildmode=plugin", "-o", soPath, srcPath)
	cmd.Dir = workDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), fmt.Errorf("go build failed: %w: %s", err, out))
	}

	registerResolver(buildID, resolve)
	defer unregisterResolver(buildID)

	p, err := plugin.Open(soPath)
	if err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), err)
	}
	sym, err := p.Lookup("New")
	if err != nil {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), err)
	}
	factory, ok := sym.(func() any)
	if !ok {
		return nil, streamyerrors.NewAdaptiveBuildError(contract.String(), fmt.Errorf("plugin symbol New has unexpected type %T", sym))
	}
	return factory(), nil
}

func randomID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

const sourceTemplate = `// Code generated by extrt's adaptive synthesis fallback. DO NOT EDIT.
package main

import (
	"reflect"

	"github.com/extrt-io/extrt/internal/adaptive"
	"github.com/extrt-io/extrt/internal/urlbag"
)

type proxy struct{}

{{range .Methods}}
func (proxy) {{.Name}}(bag *urlbag.URL) {{.Signature}} {
	resolve := adaptive.LookupResolver("{{$.BuildID}}")
	results, dispatchErr := resolve("{{.Name}}", bag, nil)
	{{if .HasError}}
	if dispatchErr != nil {
		{{if .HasReturn}}return "", dispatchErr
		{{else}}return dispatchErr
		{{end}}
	}
	{{else}}
	if dispatchErr != nil {
		panic(dispatchErr)
	}
	{{end}}
	{{if and .HasReturn .HasError}}
	var s string
	if len(results) > 0 {
		s, _ = results[0].(string)
	}
	var callErr error
	if len(results) > 1 {
		callErr, _ = results[1].(error)
	}
	return s, callErr
	{{else if .HasReturn}}
	var s string
	if len(results) > 0 {
		s, _ = results[0].(string)
	}
	return s
	{{else if .HasError}}
	var callErr error
	if len(results) > 0 {
		callErr, _ = results[0].(error)
	}
	return callErr
	{{else}}
	return
	{{end}}
}
{{end}}

// New is looked up by plugin.Open's caller as the proxy's sole constructor.
func New() interface{} {
	_ = reflect.TypeOf(proxy{})
	return proxy{}
}
`

type templateMethod struct {
	Name      string
	Signature string
	HasError  bool
	HasReturn bool
}

func renderSource(buildID string, contract reflect.Type, methods []MethodShape) (string, error) {
	tm := make([]templateMethod, 0, len(methods))
	for _, m := range methods {
		sig := "()"
		switch {
		case m.ReturnType != nil && m.HasError:
			sig = "(string, error)"
		case m.ReturnType != nil:
			sig = "string"
		case m.HasError:
			sig = "error"
		}
		tm = append(tm, templateMethod{
			Name:      m.Name,
			Signature: sig,
			HasError:  m.HasError,
			HasReturn: m.ReturnType != nil,
		})
	}

	tpl, err := template.New("adaptive").Parse(sourceTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		BuildID string
		Methods []templateMethod
	}{BuildID: buildID, Methods: tm}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	_ = contract
	return buf.String(), nil
}
