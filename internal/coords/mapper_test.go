package coords

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"doc-viewer/internal/document"
	"doc-viewer/internal/viewport"
	"doc-viewer/pkg/geometry"
)

func rasterViewport(t *testing.T) *viewport.State {
	t.Helper()
	vp := viewport.New(viewport.AnchorCenter, viewport.DefaultSteps)
	vp.SetContainerSize(geometry.NewSize(800, 600))
	vp.SetContentSize(geometry.NewSize(1200, 800))
	return vp
}

func flowViewport(t *testing.T) *viewport.State {
	t.Helper()
	vp := viewport.New(viewport.AnchorTopLeft, viewport.DefaultSteps)
	vp.SetContainerSize(geometry.NewSize(800, 600))
	vp.SetContentSize(geometry.NewSize(800, 600))
	return vp
}

func TestFlowScreenToStorage(t *testing.T) {
	m := New(document.KindFlow, flowViewport(t))

	cases := []struct {
		name   string
		screen geometry.Point2D
		want   document.PercentagePoint
	}{
		{"center", geometry.Point2D{X: 400, Y: 300}, document.PercentagePoint{XPercent: 50, YPercent: 50}},
		{"out of bounds saturates", geometry.Point2D{X: -10, Y: 700}, document.PercentagePoint{XPercent: 0, YPercent: 100}},
		{"corner", geometry.Point2D{X: 800, Y: 0}, document.PercentagePoint{XPercent: 100, YPercent: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := m.ScreenToStorage(c.screen)
			if d := cmp.Diff(c.want, got, cmpopts.EquateApprox(1e-9, 0)); d != "" {
				t.Errorf("ScreenToStorage mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestFlowRoundTrip(t *testing.T) {
	m := New(document.KindFlow, flowViewport(t))

	p := document.PercentagePoint{XPercent: 37.5, YPercent: 81.25}
	screen, err := m.StorageToScreen(p)
	if err != nil {
		t.Fatal(err)
	}
	got := m.ScreenToStorage(screen)
	if d := cmp.Diff(document.StoragePoint(p), got, cmpopts.EquateApprox(1e-6, 0)); d != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", d)
	}
}

func TestRasterRoundTrip(t *testing.T) {
	vp := rasterViewport(t)
	vp.SetZoom(1.5, nil)
	vp.PanBy(geometry.Point2D{X: 20, Y: -10})
	m := New(document.KindRaster, vp)

	p := document.PixelPoint{XPixel: 450, YPixel: 300}
	screen, err := m.StorageToScreen(p)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.ScreenToStorage(screen); got != document.StoragePoint(p) {
		t.Errorf("round trip: got %v, want %v", got, p)
	}
}

func TestRasterRoundTripAcrossScales(t *testing.T) {
	vp := rasterViewport(t)
	m := New(document.KindRaster, vp)

	for _, scale := range []float64{0.05, 0.33, 1.0, 1.5, 4.0, 10.0} {
		vp.SetZoom(scale, nil)
		for _, p := range []document.PixelPoint{
			{XPixel: 0, YPixel: 0},
			{XPixel: 1200, YPixel: 800},
			{XPixel: 601, YPixel: 399},
		} {
			screen, err := m.StorageToScreen(p)
			if err != nil {
				t.Fatalf("scale %v: %v", scale, err)
			}
			if got := m.ScreenToStorage(screen); got != document.StoragePoint(p) {
				t.Errorf("scale %v: round trip %v -> %v", scale, p, got)
			}
		}
	}
}

func TestRasterClampsToNaturalBounds(t *testing.T) {
	vp := rasterViewport(t)
	vp.SetZoom(1.0, nil)
	m := New(document.KindRaster, vp)

	got := m.ScreenToStorage(geometry.Point2D{X: -1e5, Y: 1e5})
	want := document.PixelPoint{XPixel: 0, YPixel: 800}
	if got != document.StoragePoint(want) {
		t.Errorf("clamp: got %v, want %v", got, want)
	}
}

func TestUnavailableGeometryReturnsOrigin(t *testing.T) {
	vp := viewport.New(viewport.AnchorCenter, viewport.DefaultSteps)

	raster := New(document.KindRaster, vp)
	if got := raster.ScreenToStorage(geometry.Point2D{X: 100, Y: 100}); got != document.StoragePoint(document.PixelPoint{}) {
		t.Errorf("raster degraded = %v, want origin", got)
	}
	if screen, err := raster.StorageToScreen(document.PixelPoint{XPixel: 5, YPixel: 5}); err != nil || screen != (geometry.Point2D{}) {
		t.Errorf("raster degraded screen = %v, %v", screen, err)
	}

	flow := New(document.KindFlow, vp)
	if got := flow.ScreenToStorage(geometry.Point2D{X: 100, Y: 100}); got != document.StoragePoint(document.PercentagePoint{}) {
		t.Errorf("flow degraded = %v, want origin", got)
	}
}

func TestWrongShapeRejected(t *testing.T) {
	m := New(document.KindFlow, flowViewport(t))
	_, err := m.StorageToScreen(document.PixelPoint{XPixel: 1, YPixel: 1})
	if !errors.Is(err, document.ErrWrongShape) {
		t.Errorf("err = %v, want ErrWrongShape", err)
	}

	r := New(document.KindRaster, rasterViewport(t))
	_, err = r.StorageToScreen(document.PercentagePoint{XPercent: 1, YPercent: 1})
	if !errors.Is(err, document.ErrWrongShape) {
		t.Errorf("err = %v, want ErrWrongShape", err)
	}
}
