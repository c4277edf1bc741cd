package preview

import "github.com/michaelanot/GameList/internal/catalog"

// Slot holds at most one live handle from a Registry. Showing a new image
// releases the previous handle first.
//
// A Slot is owned by a single editor and is not safe for concurrent use.
type Slot struct {
	reg    *Registry
	handle string
}

// NewSlot creates an empty slot backed by reg.
func NewSlot(reg *Registry) *Slot {
	return &Slot{reg: reg}
}

// Show replaces the current preview with img and returns the new handle
// (empty when img is nil).
func (s *Slot) Show(img *catalog.Image) string {
	s.Clear()
	s.handle = s.reg.Acquire(img)
	return s.handle
}

// Handle returns the current handle, or "" when the slot is empty.
func (s *Slot) Handle() string {
	return s.handle
}

// Clear releases the current handle, if any.
func (s *Slot) Clear() {
	if s.handle == "" {
		return
	}
	s.reg.Release(s.handle)
	s.handle = ""
}
