// Package ids implements the Id Registry: a mapping from Id to ResourceKind plus a
// per-kind ordered set of live ids, and the monotonic allocator used to mint fresh ids.
package ids

import (
	"sync"

	"github.com/dynacharting/core/internal/dcerr"
)

// Registry mints and tracks globally unique resource identifiers by kind and enforces
// uniqueness on caller-supplied ids. Thread-safe for concurrent access, though in
// practice the core only ever touches it from the single designated main thread.
type Registry interface {
	// Reserve records id under kind iff id is non-zero and not currently live.
	//
	// Parameters:
	//   - id: the caller-supplied id to reserve
	//   - kind: the resource kind to record it under
	//
	// Returns:
	//   - bool: true if the id was reserved, false if it was zero or already live
	Reserve(id dcerr.Id, kind dcerr.ResourceKind) bool

	// Allocate returns a fresh non-colliding Id recorded under kind. The internal
	// monotonic counter skips over values already reserved (e.g. by a prior Reserve
	// call with a caller-supplied id).
	//
	// Parameters:
	//   - kind: the resource kind to allocate under
	//
	// Returns:
	//   - dcerr.Id: the freshly minted id
	Allocate(kind dcerr.ResourceKind) dcerr.Id

	// Release removes id from both the kind map and the per-kind ordered set.
	// No-op if id is absent.
	//
	// Parameters:
	//   - id: the id to release
	Release(id dcerr.Id)

	// Exists reports whether id is currently live.
	Exists(id dcerr.Id) bool

	// KindOf returns the kind recorded for id, or dcerr.KindUnknown if absent.
	KindOf(id dcerr.Id) dcerr.ResourceKind

	// List returns the live ids of kind, in ascending insertion order.
	List(kind dcerr.ResourceKind) []dcerr.Id
}

type registry struct {
	mu *sync.RWMutex

	kindOf  map[dcerr.Id]dcerr.ResourceKind
	byKind  map[dcerr.ResourceKind][]dcerr.Id // insertion order per kind
	counter dcerr.Id
}

var _ Registry = (*registry)(nil)

// New creates an empty Registry with its allocator counter starting at 1.
func New() Registry {
	return &registry{
		mu:      &sync.RWMutex{},
		kindOf:  make(map[dcerr.Id]dcerr.ResourceKind),
		byKind:  make(map[dcerr.ResourceKind][]dcerr.Id),
		counter: 1,
	}
}

func (r *registry) Reserve(id dcerr.Id, kind dcerr.ResourceKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == dcerr.InvalidId {
		return false
	}
	if _, exists := r.kindOf[id]; exists {
		return false
	}

	r.kindOf[id] = kind
	r.byKind[kind] = append(r.byKind[kind], id)
	return true
}

func (r *registry) Allocate(kind dcerr.ResourceKind) dcerr.Id {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		candidate := r.counter
		r.counter++
		if _, exists := r.kindOf[candidate]; exists {
			continue
		}
		r.kindOf[candidate] = kind
		r.byKind[kind] = append(r.byKind[kind], candidate)
		return candidate
	}
}

func (r *registry) Release(id dcerr.Id) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind, exists := r.kindOf[id]
	if !exists {
		return
	}
	delete(r.kindOf, id)

	list := r.byKind[kind]
	for i, v := range list {
		if v == id {
			r.byKind[kind] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

func (r *registry) Exists(id dcerr.Id) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.kindOf[id]
	return exists
}

func (r *registry) KindOf(id dcerr.Id) dcerr.ResourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.kindOf[id]
}

func (r *registry) List(kind dcerr.ResourceKind) []dcerr.Id {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.byKind[kind]
	out := make([]dcerr.Id, len(src))
	copy(out, src)
	return out
}
