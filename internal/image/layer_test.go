package image

import (
	goimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"doc-viewer/pkg/geometry"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadReportsNaturalSize(t *testing.T) {
	path := writeTestPNG(t, 120, 80)
	layer, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if layer.NaturalSize != geometry.NewSize(120, 80) {
		t.Errorf("natural size = %v", layer.NaturalSize)
	}
	if layer.Format != "png" {
		t.Errorf("format = %q", layer.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSupported(t *testing.T) {
	if !Supported("scan.TIFF") {
		t.Error("tiff should be supported (case-insensitive)")
	}
	if Supported("report.pdf") {
		t.Error("pdf is not a raster extension")
	}
}
