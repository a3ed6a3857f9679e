// Package viewport holds the scale and pan state of an open document and
// the controllers that mutate it. It is a plain state-and-transform
// module: no UI types, no rendering, every operation synchronous. The UI
// layer subscribes to change notifications and re-projects markers.
package viewport

import (
	"gonum.org/v1/gonum/floats/scalar"

	"doc-viewer/pkg/geometry"
)

// Anchoring selects the pan clamping convention.
type Anchoring int

const (
	// AnchorCenter keeps undersized content centered and clamps pan
	// symmetrically around the container center.
	AnchorCenter Anchoring = iota

	// AnchorTopLeft pins content to the container's top-left edge and
	// clamps pan to [container-scaled, 0].
	AnchorTopLeft
)

// FitTolerance is how close the scale must be to the fit scale for the
// viewer to count as being in fit mode.
const FitTolerance = 0.02

// State is the mutable viewport model for one open document. It is
// recreated whenever the document identity changes. All mutation happens
// on the UI event loop; there is one logical writer at a time, so the
// state carries no lock.
type State struct {
	anchoring Anchoring
	steps     Steps

	scale     float64
	pan       geometry.Point2D
	container geometry.Size
	content   geometry.Size

	// fitMode tracks whether the last explicit scale landed on the fit
	// scale; resizes resnap to fit while it holds.
	fitMode bool

	// Drag state. A resize arriving mid-drag must not fight the active
	// gesture, so its reclamp is parked until the drag ends.
	dragging         bool
	dragStartPointer geometry.Point2D
	dragStartPan     geometry.Point2D
	pendingReclamp   bool

	// suspended disables panning while a modal or annotation edit is open.
	suspended bool

	listeners []func()
}

// New creates a viewport with the given anchoring and zoom table.
// An invalid table falls back to DefaultSteps.
func New(anchoring Anchoring, steps Steps) *State {
	if !steps.Valid() {
		steps = DefaultSteps
	}
	return &State{
		anchoring: anchoring,
		steps:     steps,
		scale:     1.0,
		fitMode:   true,
	}
}

// OnChange registers a callback fired whenever scale or pan changes.
func (s *State) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *State) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

// Scale returns the current zoom scale.
func (s *State) Scale() float64 { return s.scale }

// Pan returns the current pan offset.
func (s *State) Pan() geometry.Point2D { return s.pan }

// Anchoring returns the clamping convention in use.
func (s *State) Anchoring() Anchoring { return s.anchoring }

// Steps returns the zoom table.
func (s *State) Steps() Steps { return s.steps }

// ContainerSize returns the last reported container size.
func (s *State) ContainerSize() geometry.Size { return s.container }

// ContentSize returns the document's natural size, zero until known.
func (s *State) ContentSize() geometry.Size { return s.content }

// InFitMode reports whether resizes currently resnap to the fit scale.
func (s *State) InFitMode() bool { return s.fitMode }

// ComputeFitScale returns the scale at which content is maximized while
// fully visible. Any zero dimension yields 1 so that the load race never
// propagates NaN or Inf into the transform chain.
func ComputeFitScale(content, container geometry.Size) float64 {
	if content.IsZero() || container.IsZero() {
		return 1
	}
	fx := container.Width / content.Width
	fy := container.Height / content.Height
	if fx < fy {
		return fx
	}
	return fy
}

// FitScale returns the fit scale for the current geometry.
func (s *State) FitScale() float64 {
	return ComputeFitScale(s.content, s.container)
}

// ClampPan limits a pan offset for the given scale. Axes where the scaled
// content fits inside the container are forced to zero; the convention for
// oversized axes depends on the anchoring.
func (s *State) ClampPan(offset geometry.Point2D, scale float64) geometry.Point2D {
	scaled := s.content.Scale(scale)
	offset.X = s.clampAxis(offset.X, scaled.Width, s.container.Width)
	offset.Y = s.clampAxis(offset.Y, scaled.Height, s.container.Height)
	return offset
}

func (s *State) clampAxis(v, scaled, container float64) float64 {
	if scaled <= container {
		return 0
	}
	switch s.anchoring {
	case AnchorTopLeft:
		if min := container - scaled; v < min {
			return min
		}
		if v > 0 {
			return 0
		}
	default: // AnchorCenter
		limit := (scaled - container) / 2
		if v < -limit {
			return -limit
		}
		if v > limit {
			return limit
		}
	}
	return v
}

// ContentOrigin returns the screen position of the content's (0,0) corner
// under the current scale and pan. This is the translation component the
// coordinate mapper consumes; both anchoring conventions collapse into it.
func (s *State) ContentOrigin() geometry.Point2D {
	return s.originFor(s.scale, s.pan)
}

func (s *State) originFor(scale float64, pan geometry.Point2D) geometry.Point2D {
	if s.anchoring == AnchorTopLeft {
		return pan
	}
	scaled := s.content.Scale(scale)
	return geometry.Point2D{
		X: (s.container.Width-scaled.Width)/2 + pan.X,
		Y: (s.container.Height-scaled.Height)/2 + pan.Y,
	}
}

// panForOrigin inverts originFor: the pan offset that places the content
// origin at the given screen position under the given scale.
func (s *State) panForOrigin(origin geometry.Point2D, scale float64) geometry.Point2D {
	if s.anchoring == AnchorTopLeft {
		return origin
	}
	scaled := s.content.Scale(scale)
	return geometry.Point2D{
		X: origin.X - (s.container.Width-scaled.Width)/2,
		Y: origin.Y - (s.container.Height-scaled.Height)/2,
	}
}

// SetContainerSize records a container resize and reconciles scale and pan
// against the new bounds. In fit mode the viewport snaps back to the fit
// scale with pan reset; otherwise the absolute scale is kept and only the
// offset is re-clamped. A resize arriving mid-drag defers the reclamp to
// drag end so it cannot fight the active gesture.
func (s *State) SetContainerSize(size geometry.Size) {
	s.container = size
	if s.dragging {
		s.pendingReclamp = true
		return
	}
	s.reconcile()
}

// SetContentSize records the document's natural size once decode reports
// it. Until this fires the fit scale stays at its degenerate default.
func (s *State) SetContentSize(size geometry.Size) {
	s.content = size
	if s.dragging {
		s.pendingReclamp = true
		return
	}
	s.reconcile()
}

// reconcile re-derives scale and pan after a geometry change, reading the
// latest state rather than anything captured earlier.
func (s *State) reconcile() {
	if s.content.IsZero() || s.container.IsZero() {
		return
	}
	if s.fitMode {
		s.SnapToFit()
		return
	}
	s.setScalePan(s.scale, s.ClampPan(s.pan, s.scale))
}

// SnapToFit jumps to the fit scale, centered, instantly.
func (s *State) SnapToFit() {
	scale := s.steps.Clamp(s.FitScale())
	oldScale, oldPan := s.scale, s.pan
	s.scale = scale
	s.pan = geometry.Point2D{}
	s.fitMode = true
	if oldScale != s.scale || oldPan != s.pan {
		s.notify()
	}
}

// setScalePan installs a new scale and clamped pan, refreshes fit mode,
// and notifies listeners if anything moved.
func (s *State) setScalePan(scale float64, pan geometry.Point2D) {
	oldScale, oldPan := s.scale, s.pan
	s.scale = scale
	s.pan = pan
	s.fitMode = scalar.EqualWithinAbs(scale, s.FitScale(), FitTolerance)
	if oldScale != s.scale || oldPan != s.pan {
		s.notify()
	}
}

// Reset clears the viewport for a new document: unknown content size,
// scale 1, pan zero, fit mode armed, any in-flight drag abandoned.
func (s *State) Reset() {
	s.AbortDrag()
	s.content = geometry.Size{}
	oldScale, oldPan := s.scale, s.pan
	s.scale = 1.0
	s.pan = geometry.Point2D{}
	s.fitMode = true
	if oldScale != s.scale || oldPan != s.pan {
		s.notify()
	}
}
