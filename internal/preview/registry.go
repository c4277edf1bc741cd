// Package preview issues short-lived display handles for binary artwork.
//
// A handle stands in for image bytes while something is showing them. The
// holder must release it when the image is no longer displayed; Live reports
// how many handles are still outstanding so leaks are observable.
package preview

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/michaelanot/GameList/internal/catalog"
)

// HandlePrefix starts every handle issued by a Registry.
const HandlePrefix = "blob:"

// ErrUnknownHandle is returned by Resolve for a handle that was never issued
// or has been released.
var ErrUnknownHandle = errors.New("unknown preview handle")

// Registry maps opaque handles to images.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*catalog.Image
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*catalog.Image)}
}

// Acquire registers a copy of img and returns a fresh handle for it.
// A nil image yields an empty handle and registers nothing.
func (r *Registry) Acquire(img *catalog.Image) string {
	if img == nil {
		return ""
	}
	h := HandlePrefix + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[h] = img.Clone()
	return h
}

// Resolve returns the image behind handle.
func (r *Registry) Resolve(handle string) (*catalog.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.handles[handle]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return img.Clone(), nil
}

// Release drops handle. Releasing an empty, foreign or already released
// handle is a no-op.
func (r *Registry) Release(handle string) {
	if !strings.HasPrefix(handle, HandlePrefix) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, handle)
}

// ReleaseAll drops every outstanding handle and returns how many there were.
func (r *Registry) ReleaseAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.handles)
	clear(r.handles)
	return n
}

// Live returns the number of outstanding handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
