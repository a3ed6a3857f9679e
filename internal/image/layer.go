// Package image loads raster documents and reports their natural size.
package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"doc-viewer/pkg/geometry"
)

// Layer is a decoded raster document. NaturalSize is the source pixel
// grid every pixel-based annotation is addressed in.
type Layer struct {
	Path        string
	Format      string
	Image       image.Image
	NaturalSize geometry.Size
}

// Load decodes an image file. The natural size is only known once this
// returns; callers feed it to the viewport, which suppresses fit-scale
// computation until then.
func Load(path string) (*Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	b := img.Bounds()
	return &Layer{
		Path:        path,
		Format:      format,
		Image:       img,
		NaturalSize: geometry.NewSize(float64(b.Dx()), float64(b.Dy())),
	}, nil
}

// SupportedExtensions lists the raster extensions the loader understands.
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// Supported reports whether the path has a decodable raster extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}
