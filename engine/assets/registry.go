package assets

import (
	"math"
	"sync"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
)

// Handle is an opaque, totally-ordered identifier for one asset instance in
// one Registry. Handles are allocated from a monotonically increasing
// counter and are never reused, so a stale handle can only ever miss, not
// alias a newer asset.
type Handle uint64

// InvalidHandle is the zero Handle; no asset is ever stored under it.
const InvalidHandle Handle = 0

// Registry is a handle-to-asset table with shared ownership semantics: a
// handle returned by Insert stays resolvable until Remove. Lookups from
// concurrent producers are safe and only contend on a registry-wide
// read lock.
type Registry[T any] struct {
	mu    sync.RWMutex
	next  Handle
	items map[Handle]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[Handle]T),
	}
}

// Insert stores the asset and returns its new handle. Exhausting the 64-bit
// counter is treated as fatal: wraparound would break the no-reuse
// guarantee, and no process is expected to reach it.
func (r *Registry[T]) Insert(asset T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next == math.MaxUint64 {
		core.LogFatal("%s", core.ErrHandleExhausted.Error())
	}
	r.next++
	r.items[r.next] = asset
	return r.next
}

// Get resolves a handle. Unknown or removed handles report false.
func (r *Registry[T]) Get(handle Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, ok := r.items[handle]
	return asset, ok
}

// Remove deletes and returns the asset under the handle. Removing an
// unknown or already-removed handle is a no-op reporting false.
func (r *Registry[T]) Remove(handle Handle) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.items[handle]
	if ok {
		delete(r.items, handle)
	}
	return asset, ok
}

// Len reports the number of live assets.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
