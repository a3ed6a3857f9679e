package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxContentLen is the longest annotation text accepted, matching the
// persistence layer's column limit.
const MaxContentLen = 5000

var (
	// ErrEmptyContent is returned for blank or whitespace-only annotation text.
	ErrEmptyContent = errors.New("annotation content is empty")

	// ErrWrongShape is returned when an annotation carries the wrong storage
	// coordinate shape for its document kind.
	ErrWrongShape = errors.New("annotation storage shape does not match document kind")
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// PercentagePoint is a document-relative position for flow documents.
// Both axes are in [0,100].
type PercentagePoint struct {
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
}

// PixelPoint is an absolute position in a raster document's natural pixel
// grid. Values are integral and within [0, naturalSize], rounded at creation.
type PixelPoint struct {
	XPixel int `json:"x_pixel"`
	YPixel int `json:"y_pixel"`
}

// Annotation is a positioned note on a document. Exactly one of Percent or
// Pixel is set, matching the owning document's kind. The viewer places and
// hit-tests annotations but never rewrites their persisted fields.
type Annotation struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Kind       Kind   `json:"kind"`

	// Flow documents: 1-indexed page plus a percentage position.
	Page    int              `json:"page,omitempty"`
	Percent *PercentagePoint `json:"percent,omitempty"`

	// Raster documents: a natural-pixel position plus an optional marker color.
	Pixel *PixelPoint `json:"pixel,omitempty"`
	Color string      `json:"color,omitempty"` // "#RRGGBB"

	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the annotation's invariants: non-blank bounded content,
// a storage shape matching its kind, in-range coordinates, and a well-formed
// color when one is set.
func (a *Annotation) Validate() error {
	content := strings.TrimSpace(a.Content)
	if content == "" {
		return ErrEmptyContent
	}
	if len(content) > MaxContentLen {
		return fmt.Errorf("annotation content exceeds %d characters", MaxContentLen)
	}

	switch a.Kind {
	case KindFlow:
		if a.Percent == nil || a.Pixel != nil {
			return ErrWrongShape
		}
		if a.Page < 1 {
			return fmt.Errorf("flow annotation page %d: pages are 1-indexed", a.Page)
		}
		if a.Percent.XPercent < 0 || a.Percent.XPercent > 100 ||
			a.Percent.YPercent < 0 || a.Percent.YPercent > 100 {
			return fmt.Errorf("percent position (%.2f, %.2f) outside [0,100]",
				a.Percent.XPercent, a.Percent.YPercent)
		}
	case KindRaster:
		if a.Pixel == nil || a.Percent != nil {
			return ErrWrongShape
		}
		if a.Pixel.XPixel < 0 || a.Pixel.YPixel < 0 {
			return fmt.Errorf("pixel position (%d, %d) is negative",
				a.Pixel.XPixel, a.Pixel.YPixel)
		}
	default:
		return fmt.Errorf("unknown document kind %v", a.Kind)
	}

	if a.Color != "" && !hexColorRe.MatchString(a.Color) {
		return fmt.Errorf("color %q is not a #RRGGBB hex code", a.Color)
	}
	return nil
}
