// Package selection tracks the set of items a user has ticked on a
// multi-select screen, between the moment selection mode opens and the moment
// a deletion request is built from it.
package selection

import "sync"

// Set is a concurrency-safe selection over items of type T. The zero value is
// not usable; construct with New.
type Set[T comparable] struct {
	mu       sync.Mutex
	selected map[T]struct{}
}

func New[T comparable]() *Set[T] {
	return &Set[T]{selected: make(map[T]struct{})}
}

// Add marks item as selected. Adding an already-selected item is a no-op.
func (s *Set[T]) Add(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[item] = struct{}{}
}

// Remove clears item's selection. Removing an unselected item is a no-op.
func (s *Set[T]) Remove(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, item)
}

// Toggle flips item's selection and reports the new state.
func (s *Set[T]) Toggle(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[item]; ok {
		delete(s.selected, item)
		return false
	}
	s.selected[item] = struct{}{}
	return true
}

// ReplaceAll swaps the selection for items wholesale. An empty or nil items
// is a no-op: screens emit empty sets transiently while reloading, and
// honoring them would wipe a selection the user still sees as ticked.
func (s *Set[T]) ReplaceAll(items []T) {
	if len(items) == 0 {
		return
	}
	next := make(map[T]struct{}, len(items))
	for _, it := range items {
		next[it] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = next
}

// SelectAll marks every item in items as selected, keeping anything already
// selected.
func (s *Set[T]) SelectAll(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.selected[it] = struct{}{}
	}
}

// Clear empties the selection. Unlike ReplaceAll(nil), this is the explicit
// "deselect everything" action.
func (s *Set[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[T]struct{})
}

// IsSelected reports whether item is currently selected.
func (s *Set[T]) IsSelected(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[item]
	return ok
}

// Len returns the number of selected items.
func (s *Set[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// Snapshot returns the selected items in unspecified order.
func (s *Set[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.selected))
	for it := range s.selected {
		out = append(out, it)
	}
	return out
}
