package viewer

import (
	"image"
	"image/color"
	"strconv"

	"doc-viewer/internal/annotation"
)

// markerRadius is the drawn marker radius in screen pixels. Markers keep
// this size at every zoom level.
const markerRadius = 6

var defaultMarkerColor = color.RGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xFF}

// drawMarker paints a filled circle with a white rim at the marker's
// projected position.
func drawMarker(out *image.RGBA, m annotation.Marker) {
	cx := int(m.Screen.X)
	cy := int(m.Screen.Y)
	fill := markerColor(m.Annotation.Color)
	rim := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	r := markerRadius
	for dy := -r - 1; dy <= r+1; dy++ {
		for dx := -r - 1; dx <= r+1; dx++ {
			d2 := dx*dx + dy*dy
			x, y := cx+dx, cy+dy
			if !(image.Point{X: x, Y: y}).In(out.Bounds()) {
				continue
			}
			switch {
			case d2 <= (r-1)*(r-1):
				out.SetRGBA(x, y, fill)
			case d2 <= (r+1)*(r+1):
				out.SetRGBA(x, y, rim)
			}
		}
	}
}

// markerColor parses a "#RRGGBB" color, falling back to the default
// marker yellow for empty or malformed values.
func markerColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return defaultMarkerColor
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return defaultMarkerColor
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}
}
