package viewport

import (
	"math"
	"testing"

	"doc-viewer/pkg/geometry"
)

func newTestState(a Anchoring) *State {
	s := New(a, DefaultSteps)
	s.SetContainerSize(geometry.NewSize(800, 600))
	s.SetContentSize(geometry.NewSize(1200, 800))
	return s
}

func TestComputeFitScale(t *testing.T) {
	cases := []struct {
		name               string
		content, container geometry.Size
		want               float64
	}{
		{"landscape image", geometry.NewSize(1200, 800), geometry.NewSize(800, 600), 800.0 / 1200.0},
		{"tall content", geometry.NewSize(400, 1200), geometry.NewSize(800, 600), 0.5},
		{"exact fit", geometry.NewSize(800, 600), geometry.NewSize(800, 600), 1},
		{"zero content width", geometry.NewSize(0, 800), geometry.NewSize(800, 600), 1},
		{"zero container", geometry.NewSize(1200, 800), geometry.NewSize(0, 0), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeFitScale(c.content, c.container)
			if math.Abs(got-c.want) > 1e-9 {
				t.Errorf("ComputeFitScale = %v, want %v", got, c.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("ComputeFitScale produced %v", got)
			}
		})
	}
}

func TestInitialFitIsCentered(t *testing.T) {
	s := newTestState(AnchorCenter)

	want := 800.0 / 1200.0
	if math.Abs(s.Scale()-want) > 1e-9 {
		t.Errorf("scale = %v, want fit scale %v", s.Scale(), want)
	}
	if s.Pan() != (geometry.Point2D{}) {
		t.Errorf("pan = %v, want origin", s.Pan())
	}
	if !s.InFitMode() {
		t.Error("viewport should start in fit mode")
	}
}

func TestClampPanIdempotent(t *testing.T) {
	for _, a := range []Anchoring{AnchorCenter, AnchorTopLeft} {
		s := newTestState(a)
		for _, off := range []geometry.Point2D{
			{X: 1e6, Y: -1e6},
			{X: -3, Y: 7},
			{X: 0, Y: 0},
			{X: math.Copysign(0, -1), Y: 0},
		} {
			for _, scale := range []float64{0.05, 0.5, 1.5, 10} {
				once := s.ClampPan(off, scale)
				twice := s.ClampPan(once, scale)
				if once != twice {
					t.Errorf("anchoring %v scale %v: clamp not idempotent: %v then %v",
						a, scale, once, twice)
				}
			}
		}
	}
}

func TestClampPanCentersUndersizedAxis(t *testing.T) {
	for _, a := range []Anchoring{AnchorCenter, AnchorTopLeft} {
		s := newTestState(a)
		// At fit scale content fits both axes: offsets collapse to zero.
		got := s.ClampPan(geometry.Point2D{X: 55, Y: -40}, s.FitScale())
		if got != (geometry.Point2D{}) {
			t.Errorf("anchoring %v: fit-scale clamp = %v, want origin", a, got)
		}
	}
}

func TestClampPanBounds(t *testing.T) {
	s := newTestState(AnchorCenter)
	// scale 1: scaled 1200x800 vs container 800x600, overflow 400x200.
	got := s.ClampPan(geometry.Point2D{X: 9999, Y: -9999}, 1)
	want := geometry.Point2D{X: 200, Y: -100}
	if got != want {
		t.Errorf("center clamp = %v, want %v", got, want)
	}

	tl := newTestState(AnchorTopLeft)
	got = tl.ClampPan(geometry.Point2D{X: 10, Y: -9999}, 1)
	want = geometry.Point2D{X: 0, Y: -200}
	if got != want {
		t.Errorf("top-left clamp = %v, want %v", got, want)
	}
}

func TestStepZoomMonotonic(t *testing.T) {
	s := newTestState(AnchorCenter)
	prev := s.Scale()
	for i := 0; i < 50; i++ {
		s.StepZoom(ZoomIn, nil)
		if s.Scale() < prev {
			t.Fatalf("zoom in decreased scale: %v -> %v", prev, s.Scale())
		}
		if s.Scale() > DefaultSteps.Max() {
			t.Fatalf("scale %v exceeds table maximum", s.Scale())
		}
		prev = s.Scale()
	}
	if s.Scale() != DefaultSteps.Max() {
		t.Errorf("repeated zoom in should reach table max, got %v", s.Scale())
	}

	for i := 0; i < 50; i++ {
		s.StepZoom(ZoomOut, nil)
		if s.Scale() > prev {
			t.Fatalf("zoom out increased scale: %v -> %v", prev, s.Scale())
		}
		if s.Scale() < DefaultSteps.Min() {
			t.Fatalf("scale %v below table minimum", s.Scale())
		}
		prev = s.Scale()
	}
	if s.Scale() != DefaultSteps.Min() {
		t.Errorf("repeated zoom out should reach table min, got %v", s.Scale())
	}
}

func TestStepZoomFromNonMemberScale(t *testing.T) {
	s := newTestState(AnchorCenter)
	// Fit scale 0.667 sits between the 0.67 and 0.5 entries... close to 0.67
	// but not equal; zooming in from it must land on the next entry above.
	if got := s.Steps().In(0.7); got != 0.75 {
		t.Errorf("In(0.7) = %v, want 0.75", got)
	}
	if got := s.Steps().Out(0.7); got != 0.67 {
		t.Errorf("Out(0.7) = %v, want 0.67", got)
	}
	if got := s.Steps().In(10.0); got != 10.0 {
		t.Errorf("In at max = %v, want clamp to 10.0", got)
	}
	if got := s.Steps().Out(0.05); got != 0.05 {
		t.Errorf("Out at min = %v, want clamp to 0.05", got)
	}
}

// anchorStoragePoint recovers the content-space point under a screen
// position from the viewport's own transform.
func anchorStoragePoint(s *State, screen geometry.Point2D) geometry.Point2D {
	o := s.ContentOrigin()
	return geometry.Point2D{
		X: (screen.X - o.X) / s.Scale(),
		Y: (screen.Y - o.Y) / s.Scale(),
	}
}

func TestAnchorPreservingZoom(t *testing.T) {
	for _, a := range []Anchoring{AnchorCenter, AnchorTopLeft} {
		s := newTestState(a)
		s.SetZoom(1.5, nil)

		anchor := geometry.Point2D{X: 390, Y: 280}
		before := anchorStoragePoint(s, anchor)
		s.SetZoom(2.5, &anchor)
		after := anchorStoragePoint(s, anchor)

		if before.Distance(after) > 1e-6 {
			t.Errorf("anchoring %v: content point drifted under anchor: %v -> %v",
				a, before, after)
		}
	}
}

func TestToggleFit(t *testing.T) {
	s := newTestState(AnchorCenter)
	anchor := geometry.Point2D{X: 400, Y: 300}

	// In fit mode: toggle jumps to 100% at the interaction point.
	s.ToggleFit(&anchor)
	if s.Scale() != 1.0 {
		t.Fatalf("toggle from fit: scale = %v, want 1.0", s.Scale())
	}

	// Away from fit: toggle snaps back to fit, centered.
	s.ToggleFit(&anchor)
	if math.Abs(s.Scale()-s.FitScale()) > 1e-9 {
		t.Fatalf("toggle to fit: scale = %v, want %v", s.Scale(), s.FitScale())
	}
	if s.Pan() != (geometry.Point2D{}) {
		t.Errorf("toggle to fit: pan = %v, want origin", s.Pan())
	}
}

func TestResizeInFitModeResnaps(t *testing.T) {
	s := newTestState(AnchorCenter)
	s.SetContainerSize(geometry.NewSize(400, 300))
	want := ComputeFitScale(geometry.NewSize(1200, 800), geometry.NewSize(400, 300))
	if math.Abs(s.Scale()-want) > 1e-9 {
		t.Errorf("scale after resize = %v, want %v", s.Scale(), want)
	}
	if s.Pan() != (geometry.Point2D{}) {
		t.Errorf("pan after fit resize = %v, want origin", s.Pan())
	}
}

func TestResizeOutOfFitModeKeepsScale(t *testing.T) {
	s := newTestState(AnchorCenter)
	s.SetZoom(2.0, nil)
	s.PanBy(geometry.Point2D{X: 500, Y: 0})

	s.SetContainerSize(geometry.NewSize(1000, 700))
	if s.Scale() != 2.0 {
		t.Errorf("scale after resize = %v, want 2.0 kept", s.Scale())
	}
	// Offset must be re-clamped against the new bounds.
	want := s.ClampPan(s.Pan(), 2.0)
	if s.Pan() != want {
		t.Errorf("pan %v not clamped to %v", s.Pan(), want)
	}
}

func TestResizeDuringDragDeferred(t *testing.T) {
	s := newTestState(AnchorCenter)
	s.SetZoom(2.0, nil)

	s.BeginDrag(geometry.Point2D{X: 100, Y: 100})
	s.DragTo(geometry.Point2D{X: 150, Y: 120})
	panMidDrag := s.Pan()

	// A resize mid-drag must not move anything yet.
	s.SetContainerSize(geometry.NewSize(300, 200))
	if s.Pan() != panMidDrag {
		t.Fatalf("resize mid-drag moved pan: %v -> %v", panMidDrag, s.Pan())
	}

	// The deferred reclamp runs at drag end against the new geometry.
	s.EndDrag()
	want := s.ClampPan(s.Pan(), s.Scale())
	if s.Pan() != want {
		t.Errorf("pan after drag end = %v, want clamped %v", s.Pan(), want)
	}
}

func TestDragComputesFromStart(t *testing.T) {
	s := newTestState(AnchorCenter)
	s.SetZoom(2.0, nil)
	start := s.Pan()

	s.BeginDrag(geometry.Point2D{X: 10, Y: 10})
	s.DragTo(geometry.Point2D{X: 60, Y: 10})
	s.DragTo(geometry.Point2D{X: 30, Y: 40})
	s.EndDrag()

	want := s.ClampPan(start.Add(geometry.Point2D{X: 20, Y: 30}), 2.0)
	if s.Pan() != want {
		t.Errorf("pan = %v, want %v", s.Pan(), want)
	}
}

func TestPanDisabledWhenContentFits(t *testing.T) {
	s := newTestState(AnchorCenter)
	if s.CanPan() {
		t.Fatal("content fits at fit scale; CanPan should be false")
	}
	before := s.Pan()
	s.BeginDrag(geometry.Point2D{X: 10, Y: 10})
	s.DragTo(geometry.Point2D{X: 90, Y: 90})
	s.EndDrag()
	if s.Pan() != before {
		t.Errorf("drag moved pan %v -> %v with nothing to pan", before, s.Pan())
	}
}

func TestSuspendBlocksPanAndEndsDrag(t *testing.T) {
	s := newTestState(AnchorCenter)
	s.SetZoom(3.0, nil)

	s.BeginDrag(geometry.Point2D{X: 0, Y: 0})
	s.SetSuspended(true)
	if s.Dragging() {
		t.Error("suspend should end the in-flight drag")
	}
	before := s.Pan()
	s.PanBy(geometry.Point2D{X: 50, Y: 50})
	if s.Pan() != before {
		t.Error("PanBy should be a no-op while suspended")
	}

	s.SetSuspended(false)
	s.PanBy(geometry.Point2D{X: 5, Y: 5})
	if s.Pan() == before {
		t.Error("PanBy should work again after resume")
	}
}

func TestOnChangeFires(t *testing.T) {
	s := newTestState(AnchorCenter)
	var fired int
	s.OnChange(func() { fired++ })

	s.SetZoom(2.0, nil)
	if fired == 0 {
		t.Fatal("zoom change did not notify")
	}

	n := fired
	s.SetZoom(2.0, nil) // no-op: same scale, same pan
	if fired != n {
		t.Errorf("no-op zoom fired %d extra notifications", fired-n)
	}
}

func TestSetZoomBeforeGeometryKnown(t *testing.T) {
	s := New(AnchorCenter, DefaultSteps)
	s.SetZoom(123, nil) // silently clamped, no geometry to anchor against
	if s.Scale() != DefaultSteps.Max() {
		t.Errorf("scale = %v, want clamped to %v", s.Scale(), DefaultSteps.Max())
	}
}

func TestResetAbandonsDrag(t *testing.T) {
	s := newTestState(AnchorCenter)
	s.SetZoom(2.0, nil)
	s.BeginDrag(geometry.Point2D{X: 1, Y: 1})
	s.Reset()
	if s.Dragging() {
		t.Error("reset should abandon the drag")
	}
	if s.Scale() != 1.0 || s.Pan() != (geometry.Point2D{}) || !s.InFitMode() {
		t.Errorf("reset state: scale=%v pan=%v fit=%v", s.Scale(), s.Pan(), s.InFitMode())
	}
}

func TestInvalidStepsFallBack(t *testing.T) {
	s := New(AnchorCenter, Steps{2, 1}) // not ascending
	if !s.Steps().Valid() {
		t.Error("constructor should substitute a valid table")
	}
}
