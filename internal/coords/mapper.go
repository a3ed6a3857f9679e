// Package coords converts between screen positions and persisted storage
// coordinates. A Mapper is a pure view over the current viewport state: it
// owns nothing and may be created per call.
package coords

import (
	"fmt"
	"math"

	"doc-viewer/internal/document"
	"doc-viewer/internal/viewport"
	"doc-viewer/pkg/geometry"
)

// Mapper converts between screen space and the storage coordinate system
// of one document kind.
//
// When the geometry is not yet measurable (no container, no natural size)
// every conversion returns the origin point. That is a degraded "mapping
// unavailable" default, not a valid position; it keeps the UI responsive
// during the load race instead of panicking.
type Mapper struct {
	kind document.Kind
	vp   *viewport.State
}

// New creates a mapper over the given viewport for a document kind.
func New(kind document.Kind, vp *viewport.State) Mapper {
	return Mapper{kind: kind, vp: vp}
}

// ScreenToStorage converts a screen position to the storage coordinate
// system of the mapper's document kind.
func (m Mapper) ScreenToStorage(screen geometry.Point2D) document.StoragePoint {
	if m.kind == document.KindFlow {
		return m.screenToPercent(screen)
	}
	return m.screenToPixel(screen)
}

// StorageToScreen converts a storage point back to screen space. A point
// whose shape does not match the document kind is a caller contract
// violation and is reported as an error, never silently coerced.
func (m Mapper) StorageToScreen(p document.StoragePoint) (geometry.Point2D, error) {
	switch sp := p.(type) {
	case document.PercentagePoint:
		if m.kind != document.KindFlow {
			return geometry.Point2D{}, fmt.Errorf("%w: percentage point in %v context",
				document.ErrWrongShape, m.kind)
		}
		return m.percentToScreen(sp), nil
	case document.PixelPoint:
		if m.kind != document.KindRaster {
			return geometry.Point2D{}, fmt.Errorf("%w: pixel point in %v context",
				document.ErrWrongShape, m.kind)
		}
		return m.pixelToScreen(sp), nil
	default:
		return geometry.Point2D{}, fmt.Errorf("%w: %T", document.ErrWrongShape, p)
	}
}

// screenToPercent divides by the container dimensions and saturates into
// [0,100]; clicks outside the container clamp rather than erroring.
func (m Mapper) screenToPercent(screen geometry.Point2D) document.PercentagePoint {
	c := m.vp.ContainerSize()
	if c.IsZero() {
		return document.PercentagePoint{}
	}
	return document.PercentagePoint{
		XPercent: clampPercent(screen.X / c.Width * 100),
		YPercent: clampPercent(screen.Y / c.Height * 100),
	}
}

func (m Mapper) percentToScreen(p document.PercentagePoint) geometry.Point2D {
	c := m.vp.ContainerSize()
	if c.IsZero() {
		return geometry.Point2D{}
	}
	return geometry.Point2D{
		X: p.XPercent / 100 * c.Width,
		Y: p.YPercent / 100 * c.Height,
	}
}

// screenToPixel inverts the affine screen = pixel*scale + origin, rounds
// to the nearest integer, and clamps into the natural pixel grid.
func (m Mapper) screenToPixel(screen geometry.Point2D) document.PixelPoint {
	natural := m.vp.ContentSize()
	if natural.IsZero() || m.vp.ContainerSize().IsZero() {
		return document.PixelPoint{}
	}

	fwd := geometry.ScaleTranslate(m.vp.Scale(), m.vp.ContentOrigin())
	inv, ok := fwd.Inverse()
	if !ok {
		return document.PixelPoint{}
	}

	p := inv.Apply(screen)
	return document.PixelPoint{
		XPixel: clampInt(int(math.Round(p.X)), 0, int(natural.Width)),
		YPixel: clampInt(int(math.Round(p.Y)), 0, int(natural.Height)),
	}
}

func (m Mapper) pixelToScreen(p document.PixelPoint) geometry.Point2D {
	if m.vp.ContentSize().IsZero() || m.vp.ContainerSize().IsZero() {
		return geometry.Point2D{}
	}
	fwd := geometry.ScaleTranslate(m.vp.Scale(), m.vp.ContentOrigin())
	return fwd.Apply(geometry.Point2D{X: float64(p.XPixel), Y: float64(p.YPixel)})
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
