// Package annotation places stored annotations on screen and turns
// pointer gestures into creation requests. Persistence lives elsewhere;
// this package never mutates an annotation's stored fields.
package annotation

import (
	"log"

	"doc-viewer/internal/coords"
	"doc-viewer/internal/document"
	"doc-viewer/internal/viewport"
	"doc-viewer/pkg/geometry"
)

// HitRadius is the marker hit-test radius in screen pixels. Markers do not
// scale with content zoom, so neither does the radius.
const HitRadius = 12.0

// Marker is an annotation projected into current screen space. Markers are
// recomputed on every viewport change, never cached: scale and pan move on
// every frame of a drag or zoom.
type Marker struct {
	Annotation *document.Annotation
	Screen     geometry.Point2D
}

// Gesture identifies the pointer gesture that requested an annotation.
// The trigger differs by document kind: flow documents create on
// double-click, raster images on right-click or ctrl-click.
type Gesture int

const (
	GestureDoubleClick Gesture = iota
	GestureSecondaryClick
)

// CreateRequest carries everything needed to persist a new annotation.
// The overlay emits it; a collaborator fulfills it.
type CreateRequest struct {
	Storage document.StoragePoint
	Page    int // flow documents, 1-indexed
	Content string
	Color   string
}

// CreateSink receives creation requests.
type CreateSink func(CreateRequest)

// OverlayMapper projects stored annotations through the live viewport and
// inverse-projects creation gestures.
type OverlayMapper struct {
	kind   document.Kind
	mapper coords.Mapper
	sink   CreateSink
}

// NewOverlay builds an overlay mapper for a document kind over the given
// viewport. sink may be nil if creation is disabled.
func NewOverlay(kind document.Kind, vp *viewport.State, sink CreateSink) *OverlayMapper {
	return &OverlayMapper{
		kind:   kind,
		mapper: coords.New(kind, vp),
		sink:   sink,
	}
}

// Mapper exposes the underlying coordinate mapper.
func (o *OverlayMapper) Mapper() coords.Mapper { return o.mapper }

// Project returns screen markers for the given annotations. For flow
// documents only annotations on the given page are projected. An
// annotation whose storage shape does not match the document kind is a
// data-model mismatch upstream: it is logged loudly and skipped, never
// coerced into the wrong coordinate system.
func (o *OverlayMapper) Project(annotations []*document.Annotation, page int) []Marker {
	markers := make([]Marker, 0, len(annotations))
	for _, a := range annotations {
		if o.kind == document.KindFlow && a.Page != page {
			continue
		}

		sp := a.StorageFor()
		if sp == nil {
			log.Printf("annotation %s: no storage point, skipping", a.ID)
			continue
		}
		screen, err := o.mapper.StorageToScreen(sp)
		if err != nil {
			log.Printf("annotation %s: inconsistent storage shape: %v", a.ID, err)
			continue
		}
		markers = append(markers, Marker{Annotation: a, Screen: screen})
	}
	return markers
}

// HitTest returns the marker closest to the screen point within HitRadius,
// or nil. Later markers win ties, matching paint order.
func (o *OverlayMapper) HitTest(markers []Marker, p geometry.Point2D) *Marker {
	var best *Marker
	bestDist := HitRadius
	for i := range markers {
		d := markers[i].Screen.Distance(p)
		if d <= bestDist {
			best = &markers[i]
			bestDist = d
		}
	}
	return best
}

// CreateAt converts a creation gesture at a screen position into a
// creation request. It reports whether the gesture was consumed: a
// gesture that does not match the document kind is left for other
// handlers (a double-click on a raster image is the fit toggle, not an
// annotation).
func (o *OverlayMapper) CreateAt(gesture Gesture, screen geometry.Point2D, page int, content, color string) bool {
	if o.sink == nil {
		return false
	}
	switch o.kind {
	case document.KindFlow:
		if gesture != GestureDoubleClick {
			return false
		}
	case document.KindRaster:
		if gesture != GestureSecondaryClick {
			return false
		}
	}

	o.sink(CreateRequest{
		Storage: o.mapper.ScreenToStorage(screen),
		Page:    page,
		Content: content,
		Color:   color,
	})
	return true
}
