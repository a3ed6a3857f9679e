package viewer

import (
	"image/color"
	"testing"
)

func TestMarkerColor(t *testing.T) {
	cases := []struct {
		hex  string
		want color.RGBA
	}{
		{"#FF0000", color.RGBA{R: 0xFF, A: 0xFF}},
		{"#00ff7f", color.RGBA{G: 0xFF, B: 0x7F, A: 0xFF}},
		{"", defaultMarkerColor},
		{"red", defaultMarkerColor},
		{"#FFF", defaultMarkerColor},
		{"#GGGGGG", defaultMarkerColor},
	}
	for _, c := range cases {
		if got := markerColor(c.hex); got != c.want {
			t.Errorf("markerColor(%q) = %v, want %v", c.hex, got, c.want)
		}
	}
}
