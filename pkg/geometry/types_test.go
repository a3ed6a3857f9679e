package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAffineApplyInverse(t *testing.T) {
	cases := []struct {
		name string
		tr   AffineTransform
	}{
		{"identity", Identity()},
		{"translate", Translation(20, -10)},
		{"scale", Scaling(1.5, 1.5)},
		{"scale translate", ScaleTranslate(0.667, Point2D{X: 33, Y: -7.5})},
		{"anisotropic", Scaling(2, 0.25).Compose(Translation(5, 5))},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			inv, ok := c.tr.Inverse()
			if !ok {
				t.Fatal("transform reported singular")
			}

			p := Point2D{X: 450, Y: 300}
			got := inv.Apply(c.tr.Apply(p))
			if d := cmp.Diff(p, got, cmpopts.EquateApprox(1e-6, 1e-9)); d != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestAffineSingular(t *testing.T) {
	if _, ok := Scaling(0, 1).Inverse(); ok {
		t.Error("zero-scale transform should have no inverse")
	}
}

func TestComposeMatchesSequentialApply(t *testing.T) {
	a := ScaleTranslate(1.5, Point2D{X: 20, Y: -10})
	b := Translation(-3, 8)

	p := Point2D{X: 12, Y: 34}
	want := a.Apply(b.Apply(p))
	got := a.Compose(b).Apply(p)
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-12)); d != "" {
		t.Errorf("compose mismatch (-want +got):\n%s", d)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 100, 50)
	if !r.Contains(Point2D{X: 10, Y: 10}) {
		t.Error("corner should be inside")
	}
	if r.Contains(Point2D{X: 111, Y: 30}) {
		t.Error("point past right edge should be outside")
	}
	if got := r.Center(); got != (Point2D{X: 60, Y: 35}) {
		t.Errorf("center = %v", got)
	}
}
