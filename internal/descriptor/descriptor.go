// Package descriptor implements the Resource Scanner and Descriptor Parser
// (spec §4.2, §4.3): reading "name = factory-key" lines out of descriptor
// files rooted at a set of io/fs.FS trees, the Go-native stand-in for
// classpath-scanned META-INF service files. Go binaries link statically, so
// a descriptor line never loads a class from disk — it only binds a
// discoverable name to a factory key already present in the process-wide
// table that implementation packages populated from their own init(), the
// way the teacher's cmd/streamy/plugins_import.go blank-imports every
// concrete plugin package so its init() self-registration runs before main.
package descriptor

import (
	"bufio"
	"io/fs"
	"path"
	"sort"
	"strings"

	streamyerrors "github.com/extrt-io/extrt/pkg/errors"
)

// VendorAlias remaps a legacy module-path prefix of a contract's name onto
// its current one, the Go-native analogue of Dubbo's "org.apache" →
// "com.alibaba" compatibility remap: a contract named
// "org.apache.dubbo.Greeter" with a VendorAlias{From: "org.apache",
// To: "com.alibaba"} is also scanned for under
// "com.alibaba.dubbo.Greeter", at every resource base. A contract whose
// name doesn't start with From is unaffected by that alias.
type VendorAlias struct {
	From string
	To   string
}

// aliasedNames returns contractName plus, for every alias whose From
// prefixes it, the name with that prefix rewritten to To.
func aliasedNames(contractName string, aliases []VendorAlias) []string {
	names := []string{contractName}
	for _, alias := range aliases {
		if alias.From == "" || !strings.HasPrefix(contractName, alias.From) {
			continue
		}
		names = append(names, alias.To+strings.TrimPrefix(contractName, alias.From))
	}
	return names
}

// ResourcePaths lists the descriptor file paths scanned for contractName,
// in scan order (a name found under several paths is neither resolved nor
// flagged; Scan returns every entry, sorted by name then resource):
//
//	<prefix>/internal/<contract>
//	<prefix>/internal/<vendor-alias(contract)>
//	<prefix>/<contract>
//	<prefix>/<vendor-alias(contract)>
//	<prefix>/services/<contract>
//	<prefix>/services/<vendor-alias(contract)>
//
// where <prefix> defaults to "extrt" (overridable with SetRootPrefix) and
// <vendor-alias(contract)> is contractName with a configured VendorAlias
// prefix rewritten, omitted entirely when no alias matches.
func ResourcePaths(contractName string, aliases []VendorAlias) []string {
	prefix := currentRootPrefix()
	bases := []string{path.Join(prefix, "internal"), prefix, path.Join(prefix, "services")}
	names := aliasedNames(contractName, aliases)

	paths := make([]string, 0, len(bases)*len(names))
	for _, base := range bases {
		for _, name := range names {
			paths = append(paths, path.Join(base, name))
		}
	}
	return paths
}

// Entry is one resolved descriptor binding: a discoverable name bound to a
// factory key, with the resource it was read from for diagnostics.
type Entry struct {
	Name       string
	FactoryKey string
	Resource   string
}

// Scan reads every descriptor file named by ResourcePaths across roots,
// parsing each into Entry values. Per-line failures (malformed syntax) are
// captured as diagnostics and never abort the scan; a missing descriptor
// file is not an error (spec §4.2: the classpath-like model tolerates
// entirely absent resource files).
func Scan(roots []fs.FS, contractName string, aliases []VendorAlias) ([]Entry, []error) {
	var entries []Entry
	var diagnostics []error

	for _, resource := range ResourcePaths(contractName, aliases) {
		for _, root := range roots {
			data, err := fs.ReadFile(root, resource)
			if err != nil {
				continue // absent file, not a diagnostic
			}
			lines, lineErrs := parse(resource, data)
			entries = append(entries, lines...)
			diagnostics = append(diagnostics, lineErrs...)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Resource < entries[j].Resource
	})

	return entries, diagnostics
}

// parse reads one descriptor file's contents. Each non-blank,
// non-"#"-comment line is either:
//
//	name = factory-key
//	factory-key                  (bare form; name defaults to factory-key)
//	name, alias, alias2 = factory-key   (first name is primary, rest are aliases)
//
// A comma-separated left-hand side produces one Entry per name, all bound
// to the same factory-key.
func parse(resource string, data []byte) ([]Entry, []error) {
	var entries []Entry
	var errs []error

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		names, key, ok := splitLine(line)
		if !ok {
			errs = append(errs, streamyerrors.NewDescriptorError(resource, raw, errMalformed(raw)))
			continue
		}
		for _, name := range names {
			entries = append(entries, Entry{Name: name, FactoryKey: key, Resource: resource})
		}
	}

	return entries, errs
}

// splitLine splits a descriptor line into its (possibly comma-separated,
// first-is-primary) names and its factory key.
func splitLine(line string) (names []string, key string, ok bool) {
	lhs := line
	if idx := strings.Index(line, "="); idx >= 0 {
		lhs = strings.TrimSpace(line[:idx])
		key = strings.TrimSpace(line[idx+1:])
		if lhs == "" || key == "" {
			return nil, "", false
		}
	} else {
		key = line
	}

	for _, part := range strings.Split(lhs, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, "", false
		}
		names = append(names, name)
	}
	return names, key, true
}

func errMalformed(raw string) error {
	return &malformedLineError{raw: raw}
}

type malformedLineError struct{ raw string }

func (e *malformedLineError) Error() string {
	return "malformed descriptor line: " + e.raw
}
