package registry

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Holder is a lazy, one-shot construction slot: the first caller to Get
// builds the value, every concurrent caller waits on the same build via
// singleflight, and the result (or a sticky error) is cached forever after
// (spec §5). singleflight alone isn't enough since it forgets a call's
// result the instant all waiters have been released; Holder adds the
// permanent post-success/post-failure cache on top.
type Holder struct {
	group singleflight.Group
	mu    sync.RWMutex
	value any
	err   error
	done  bool
}

// Get returns the held value, building it via build on the first call. Once
// build has run — success or failure — every subsequent call returns the
// cached outcome without invoking build again.
func (h *Holder) Get(key string, build func() (any, error)) (any, error) {
	h.mu.RLock()
	if h.done {
		defer h.mu.RUnlock()
		return h.value, h.err
	}
	h.mu.RUnlock()

	v, err, _ := h.group.Do(key, func() (any, error) {
		h.mu.RLock()
		if h.done {
			v, err := h.value, h.err
			h.mu.RUnlock()
			return v, err
		}
		h.mu.RUnlock()

		value, err := build()

		h.mu.Lock()
		if !h.done {
			h.value, h.err, h.done = value, err, true
		}
		v, cachedErr := h.value, h.err
		h.mu.Unlock()
		return v, cachedErr
	})
	return v, err
}

// Loaded reports whether the holder has already completed construction
// (successfully or not), without triggering a build.
func (h *Holder) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.done
}
