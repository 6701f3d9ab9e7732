package graph

import (
	"slices"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// SetSelected selects or deselects a node or edge. Selection changes are
// not announced until [Scene.CommitSelection] runs.
func (s *Scene) SetSelected(ref ItemRef, on bool) error {
	if !s.hasItem(ref) {
		return errs.New(errs.ErrCodeNotFound, "%s not found", ref)
	}
	if on {
		s.selected[ref.ID] = true
	} else {
		delete(s.selected, ref.ID)
	}
	return nil
}

// SelectOnly replaces the selection with refs. Unknown items fail the whole
// call and leave the selection unchanged.
func (s *Scene) SelectOnly(refs ...ItemRef) error {
	for _, r := range refs {
		if !s.hasItem(r) {
			return errs.New(errs.ErrCodeNotFound, "%s not found", r)
		}
	}
	clear(s.selected)
	for _, r := range refs {
		s.selected[r.ID] = true
	}
	return nil
}

// SelectAll selects every node and edge.
func (s *Scene) SelectAll() {
	for _, id := range s.nodeOrder {
		s.selected[id] = true
	}
	for _, id := range s.edgeOrder {
		s.selected[id] = true
	}
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() { clear(s.selected) }

// IsSelected reports whether the item with the given ID is selected.
func (s *Scene) IsSelected(id ID) bool { return s.selected[id] }

// SelectedItems returns the selected items, nodes first, each group in
// insertion order.
func (s *Scene) SelectedItems() []ItemRef {
	var out []ItemRef
	for _, id := range s.nodeOrder {
		if s.selected[id] {
			out = append(out, NodeRef(id))
		}
	}
	for _, id := range s.edgeOrder {
		if s.selected[id] {
			out = append(out, EdgeRef(id))
		}
	}
	return out
}

// SelectedNodes returns the IDs of the selected nodes in insertion order.
func (s *Scene) SelectedNodes() []ID {
	var out []ID
	for _, id := range s.nodeOrder {
		if s.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// SelectedEdges returns the IDs of the selected edges in insertion order.
func (s *Scene) SelectedEdges() []ID {
	var out []ID
	for _, id := range s.edgeOrder {
		if s.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// LastSelectedItems returns the selection recorded by the last
// [Scene.CommitSelection] that reported a change.
func (s *Scene) LastSelectedItems() []ItemRef { return slices.Clone(s.lastSelected) }

// ResetLastSelectedStates clears the per-item state used by
// [Scene.CommitSelection] to detect changes. The next commit reports every
// selected item as newly selected.
func (s *Scene) ResetLastSelectedStates() { clear(s.lastState) }

// CommitSelection compares the current selection to the last committed one
// and notifies listeners if it differs: selection-changed listeners for a
// non-empty selection, items-deselected listeners for an empty one.
// It reports whether a change was detected.
func (s *Scene) CommitSelection() bool {
	current := s.SelectedItems()
	if slices.Equal(current, s.lastSelected) && s.statesMatch(current) {
		return false
	}

	s.ResetLastSelectedStates()
	for _, r := range current {
		s.lastState[r.ID] = true
	}
	s.lastSelected = current

	if len(current) == 0 {
		for _, fn := range s.onDeselected {
			fn()
		}
		return true
	}
	for _, fn := range s.onSelection {
		fn(slices.Clone(current))
	}
	return true
}

func (s *Scene) statesMatch(current []ItemRef) bool {
	for _, r := range current {
		if !s.lastState[r.ID] {
			return false
		}
	}
	return true
}

func (s *Scene) hasItem(r ItemRef) bool {
	switch r.Kind {
	case ItemNode:
		_, ok := s.nodes[r.ID]
		return ok
	case ItemEdge:
		_, ok := s.edges[r.ID]
		return ok
	}
	return false
}

func (s *Scene) forget(id ID) {
	delete(s.selected, id)
	delete(s.lastState, id)
}
