package viewport

import "doc-viewer/pkg/geometry"

// CanPan reports whether there is anything to pan: the scaled content must
// exceed the container on at least one axis.
func (s *State) CanPan() bool {
	if s.content.IsZero() || s.container.IsZero() {
		return false
	}
	scaled := s.content.Scale(s.scale)
	return scaled.Width > s.container.Width || scaled.Height > s.container.Height
}

// PanBy translates the viewport by a screen-space delta, clamped.
func (s *State) PanBy(delta geometry.Point2D) {
	if s.suspended || !s.CanPan() {
		return
	}
	s.setScalePan(s.scale, s.ClampPan(s.pan.Add(delta), s.scale))
}

// BeginDrag starts a drag-to-pan gesture at the given pointer position.
// It is a no-op while a modal edit is open or when content already fits.
func (s *State) BeginDrag(pointer geometry.Point2D) {
	if s.suspended || !s.CanPan() {
		return
	}
	s.dragging = true
	s.dragStartPointer = pointer
	s.dragStartPan = s.pan
}

// DragTo pans to the drag-start offset plus the pointer delta, clamped.
// The offset is always computed from the drag start rather than
// accumulated, so lost move events cannot make the content drift.
func (s *State) DragTo(pointer geometry.Point2D) {
	if !s.dragging {
		return
	}
	offset := s.dragStartPan.Add(pointer.Sub(s.dragStartPointer))
	s.setScalePan(s.scale, s.ClampPan(offset, s.scale))
}

// EndDrag finishes the gesture. A reclamp deferred by a mid-drag resize
// runs now, against the latest geometry. No inertia is modeled.
func (s *State) EndDrag() {
	if !s.dragging {
		return
	}
	s.dragging = false
	if s.pendingReclamp {
		s.pendingReclamp = false
		s.reconcile()
	}
}

// AbortDrag is the implicit drag end used when the container unmounts or
// the document changes mid-gesture.
func (s *State) AbortDrag() {
	s.EndDrag()
}

// Dragging reports whether a drag gesture is in progress.
func (s *State) Dragging() bool { return s.dragging }

// SetSuspended disables or re-enables pan gestures, used while a modal or
// annotation edit owns the pointer. Suspending mid-drag ends the drag.
func (s *State) SetSuspended(suspended bool) {
	s.suspended = suspended
	if suspended {
		s.AbortDrag()
	}
}

// Suspended reports whether pan gestures are currently disabled.
func (s *State) Suspended() bool { return s.suspended }
