// Package urlbag implements the Parameter Bag collaborator the adaptive
// dispatcher and activation selector read selector keys from. URL syntax
// parsing is explicitly out of scope for the extension runtime core (spec
// §1); this package only supplies the minimal surface §6 describes, backed
// by the standard library's net/url for the mechanical parsing. No example
// repo in the corpus ships a domain-specific connection-string parser, so
// net/url is the correct, idiomatic choice here rather than a hand-rolled
// one (see DESIGN.md).
package urlbag

import (
	"fmt"
	"iter"
	"net/url"
	"sort"
	"strings"
)

// URL is the opaque, request-scoped collaborator the adaptive dispatcher
// and activation selector consult. It is immutable once parsed or built.
type URL struct {
	protocol string
	host     string
	path     string
	params   map[string]string
	// methodParams holds per-method overrides addressed as "method.key".
	methodParams map[string]string
}

// New builds a URL directly from a protocol and a parameter map, useful for
// tests and for constructing bags without going through string parsing.
func New(protocol string, params map[string]string) *URL {
	cloned := make(map[string]string, len(params))
	for k, v := range params {
		cloned[k] = v
	}
	return &URL{protocol: protocol, params: cloned, methodParams: map[string]string{}}
}

// Parse builds a URL from a "scheme://host/path?query" string. Every query
// key populates Parameter lookups; keys of the form "method.key=value" also
// populate MethodParameter lookups.
func Parse(raw string) (*URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}

	u := &URL{
		protocol:     parsed.Scheme,
		host:         parsed.Host,
		path:         strings.TrimPrefix(parsed.Path, "/"),
		params:       map[string]string{},
		methodParams: map[string]string{},
	}

	for key, values := range parsed.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		if method, k, ok := strings.Cut(key, "."); ok && method != "" && k != "" {
			u.methodParams[method+"."+k] = value
		}
		u.params[key] = value
	}

	return u, nil
}

// Protocol returns the URL's scheme, used by adaptive dispatch's special
// "protocol" selector key.
func (u *URL) Protocol() string {
	if u == nil {
		return ""
	}
	return u.protocol
}

// Host returns the URL's host component.
func (u *URL) Host() string {
	if u == nil {
		return ""
	}
	return u.host
}

// Path returns the URL's path component with any leading slash stripped.
func (u *URL) Path() string {
	if u == nil {
		return ""
	}
	return u.path
}

// Parameter returns the value for key and whether it was present.
func (u *URL) Parameter(key string) (string, bool) {
	if u == nil || u.params == nil {
		return "", false
	}
	v, ok := u.params[key]
	return v, ok
}

// MethodParameter returns the value for "method.key", falling back to the
// bag-wide Parameter(key), and finally def.
func (u *URL) MethodParameter(method, key, def string) string {
	if u == nil {
		return def
	}
	if v, ok := u.methodParams[method+"."+key]; ok && v != "" {
		return v
	}
	if v, ok := u.Parameter(key); ok && v != "" {
		return v
	}
	return def
}

// Parameters iterates every (key, value) pair in deterministic, sorted-key
// order so activation/dispatch decisions never depend on map iteration
// order.
func (u *URL) Parameters() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if u == nil {
			return
		}
		keys := make([]string, 0, len(u.params))
		for k := range u.params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !yield(k, u.params[k]) {
				return
			}
		}
	}
}

// HasSuffixParameter reports whether any parameter key ends with "."+key,
// the suffix-match rule spec §4.8 requires for activation "keys" presence
// checks (e.g. a URL parameter "cluster.timeout" satisfies an Activate key
// of "timeout").
func (u *URL) HasSuffixParameter(key string) (string, bool) {
	if u == nil {
		return "", false
	}
	suffix := "." + key
	keys := make([]string, 0, len(u.params))
	for k := range u.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.HasSuffix(k, suffix) {
			if v := u.params[k]; v != "" {
				return v, true
			}
		}
	}
	return "", false
}
