package viewport

import (
	"gonum.org/v1/gonum/floats/scalar"

	"doc-viewer/pkg/geometry"
)

// Direction selects a discrete zoom step.
type Direction int

const (
	ZoomIn Direction = iota
	ZoomOut
)

// SetZoom changes the scale, keeping the content point under the anchor
// screen position stationary. A nil anchor zooms around the container
// center. Out-of-range targets are clamped silently; zoom requests never
// fail.
func (s *State) SetZoom(scale float64, anchor *geometry.Point2D) {
	scale = s.steps.Clamp(scale)
	if s.content.IsZero() || s.container.IsZero() {
		// Geometry unknown: record the scale, leave pan alone.
		s.setScalePan(scale, s.pan)
		return
	}

	a := s.containerCenter()
	if anchor != nil {
		a = *anchor
	}

	// Solve the new content origin so the storage point under the anchor
	// maps back to the anchor at the new scale:
	//   newOrigin = A - (A - oldOrigin) * (newScale/oldScale)
	oldOrigin := s.ContentOrigin()
	ratio := scale / s.scale
	newOrigin := a.Sub(a.Sub(oldOrigin).Scale(ratio))

	pan := s.panForOrigin(newOrigin, scale)
	s.setScalePan(scale, s.ClampPan(pan, scale))
}

// StepZoom moves one entry through the zoom table in the given direction,
// anchored like SetZoom. At the table extremes it is a no-op.
func (s *State) StepZoom(dir Direction, anchor *geometry.Point2D) {
	var target float64
	switch dir {
	case ZoomOut:
		target = s.steps.Out(s.scale)
	default:
		target = s.steps.In(s.scale)
	}
	if target == s.scale {
		return
	}
	s.SetZoom(target, anchor)
}

// ToggleFit implements the fit/actual-size double-click toggle: at fit
// scale it jumps to 100% anchored at the interaction point, otherwise it
// snaps to fit, centered. Both jumps are instant; fit is by definition a
// centered fully-visible state, so easing toward it would visibly break
// centering mid-flight.
func (s *State) ToggleFit(anchor *geometry.Point2D) {
	if scalar.EqualWithinAbs(s.scale, s.FitScale(), FitTolerance) {
		s.SetZoom(1.0, anchor)
		return
	}
	s.SnapToFit()
}

func (s *State) containerCenter() geometry.Point2D {
	return geometry.Point2D{X: s.container.Width / 2, Y: s.container.Height / 2}
}
