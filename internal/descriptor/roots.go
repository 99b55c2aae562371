package descriptor

import (
	"io/fs"
	"sync"
)

var (
	rootsMu    sync.RWMutex
	roots      []fs.FS
	aliases    []VendorAlias
	rootPrefix = "extrt"
)

// AddRoot registers fsys as an additional descriptor root, scanned on every
// subsequent Loader reload. Applications call this once at startup (an
// os.DirFS of a config directory, or an embed.FS bundled into the binary)
// the same way a JVM classpath entry is added before the classloader scans
// it; no root is registered by default.
func AddRoot(fsys fs.FS) {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	roots = append(roots, fsys)
}

// AddVendorAlias registers an additional legacy module-path prefix: any
// contract name starting with from is also scanned under the equivalent
// name with that prefix rewritten to to.
func AddVendorAlias(from, to string) {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	aliases = append(aliases, VendorAlias{From: from, To: to})
}

// Roots returns the currently registered descriptor roots and vendor
// aliases, snapshotted for a scan.
func Roots() ([]fs.FS, []VendorAlias) {
	rootsMu.RLock()
	defer rootsMu.RUnlock()
	r := make([]fs.FS, len(roots))
	copy(r, roots)
	a := make([]VendorAlias, len(aliases))
	copy(a, aliases)
	return r, a
}

// SetRootPrefix overrides the canonical "extrt" resource path prefix every
// base in ResourcePaths is built from; an empty prefix restores the
// default.
func SetRootPrefix(prefix string) {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	if prefix == "" {
		prefix = "extrt"
	}
	rootPrefix = prefix
}

// currentRootPrefix returns the prefix ResourcePaths should use.
func currentRootPrefix() string {
	rootsMu.RLock()
	defer rootsMu.RUnlock()
	return rootPrefix
}

// ResetForTest clears every registered root, vendor alias, and root-prefix
// override. Exported for tests across packages that need descriptor
// scanning isolated from one another; not part of the runtime's normal
// lifecycle.
func ResetForTest() {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	roots = nil
	aliases = nil
	rootPrefix = "extrt"
}
