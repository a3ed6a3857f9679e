// Package document defines document kinds and the annotation data model.
package document

import (
	"fmt"

	"doc-viewer/pkg/geometry"
)

// Kind distinguishes how a document addresses annotation positions.
type Kind int

const (
	// KindFlow is a reflowing document (PDF, DOCX rendered as HTML).
	// Positions are stored as percentages of the displayed container.
	KindFlow Kind = iota

	// KindRaster is an image document. Positions are stored in the source
	// image's natural pixel grid, independent of display size.
	KindRaster
)

func (k Kind) String() string {
	switch k {
	case KindFlow:
		return "flow"
	case KindRaster:
		return "raster"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindForExtension maps a file extension (with or without leading dot) to a
// document kind. Unknown extensions are treated as raster images.
func KindForExtension(ext string) Kind {
	switch ext {
	case ".pdf", "pdf", ".docx", "docx", ".doc", "doc":
		return KindFlow
	default:
		return KindRaster
	}
}

// Document describes an open document. The viewer only consumes the natural
// dimensions reported by the rendering backend; parsing and rasterization
// happen elsewhere.
type Document struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Path  string        `json:"path,omitempty"`
	Kind  Kind          `json:"kind"`
	Pages int           `json:"pages,omitempty"` // flow documents only
	Size  geometry.Size `json:"natural_size"`    // zero until decode reports it
}

// SizeKnown reports whether the rendering backend has delivered natural
// dimensions yet. Until then fit-scale computation must stay suppressed.
func (d *Document) SizeKnown() bool {
	return !d.Size.IsZero()
}
