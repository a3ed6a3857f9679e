// Package viewer provides the document display widget: it renders the
// open document through the viewport engine and feeds pointer and wheel
// events into the zoom and pan controllers.
package viewer

import (
	"image"
	stddraw "image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"doc-viewer/internal/annotation"
	"doc-viewer/internal/document"
	docimage "doc-viewer/internal/image"
	"doc-viewer/internal/viewport"
	"doc-viewer/pkg/geometry"
)

// DocumentViewer displays a document and owns its pointer gestures.
// Wheel zooms at the cursor, drag pans, double-tap creates (flow) or
// toggles fit (raster), secondary-tap creates (raster). Markers intercept
// taps and drags before the pan controller sees them.
type DocumentViewer struct {
	widget.BaseWidget

	raster   *fynecanvas.Raster
	lastSize fyne.Size

	kind    document.Kind
	layer   *docimage.Layer
	vp      *viewport.State
	overlay *annotation.OverlayMapper

	// annotations and page are providers so the widget always reads the
	// live collection, never a stale snapshot.
	annotations func() []*document.Annotation
	page        func() int

	// markerDrag is the marker being repositioned, nil during a pan.
	markerDrag *annotation.Marker

	onMarkerTapped func(*document.Annotation)
	onMarkerMoved  func(id string, p document.StoragePoint)
}

var _ fyne.Draggable = (*DocumentViewer)(nil)
var _ fyne.Tappable = (*DocumentViewer)(nil)
var _ fyne.SecondaryTappable = (*DocumentViewer)(nil)
var _ fyne.DoubleTappable = (*DocumentViewer)(nil)
var _ fyne.Scrollable = (*DocumentViewer)(nil)

// New creates an empty viewer; call SetDocument once something is open.
func New() *DocumentViewer {
	v := &DocumentViewer{
		annotations: func() []*document.Annotation { return nil },
		page:        func() int { return 0 },
	}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

// SetDocument points the viewer at a new document and its viewport.
// The old viewport (and any drag in flight on it) is abandoned with the
// old document identity.
func (v *DocumentViewer) SetDocument(
	kind document.Kind,
	layer *docimage.Layer,
	vp *viewport.State,
	overlay *annotation.OverlayMapper,
	annotations func() []*document.Annotation,
	page func() int,
) {
	if v.vp != nil {
		v.vp.AbortDrag()
	}
	v.kind = kind
	v.layer = layer
	v.vp = vp
	v.overlay = overlay
	v.annotations = annotations
	v.page = page
	v.markerDrag = nil

	if v.lastSize.Width > 0 && v.lastSize.Height > 0 {
		vp.SetContainerSize(sizeOf(v.lastSize))
	}
	vp.OnChange(v.Refresh)
	v.Refresh()
}

// OnMarkerTapped sets the callback for taps on an annotation marker.
func (v *DocumentViewer) OnMarkerTapped(fn func(*document.Annotation)) {
	v.onMarkerTapped = fn
}

// OnMarkerMoved sets the callback fired when a marker drag finishes with
// the marker's new storage position.
func (v *DocumentViewer) OnMarkerMoved(fn func(id string, p document.StoragePoint)) {
	v.onMarkerMoved = fn
}

// Refresh redraws the widget.
func (v *DocumentViewer) Refresh() {
	v.raster.Refresh()
	v.BaseWidget.Refresh()
}

// Resize pushes container resizes into the viewport. The engine reads its
// own latest scale and pan when re-clamping, so a resize racing a gesture
// cannot clamp against obsolete bounds.
func (v *DocumentViewer) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	if size != v.lastSize && size.Width > 0 && size.Height > 0 {
		v.lastSize = size
		if v.vp != nil {
			v.vp.SetContainerSize(sizeOf(size))
		}
	}
}

// Scrolled zooms one step at the cursor position.
func (v *DocumentViewer) Scrolled(ev *fyne.ScrollEvent) {
	if v.vp == nil {
		return
	}
	anchor := pointOf(ev.Position)
	if ev.Scrolled.DY > 0 {
		v.vp.StepZoom(viewport.ZoomIn, &anchor)
	} else if ev.Scrolled.DY < 0 {
		v.vp.StepZoom(viewport.ZoomOut, &anchor)
	}
}

// Tapped reports marker hits. Taps on empty content do nothing; selection
// of markers must win over any other click handling.
func (v *DocumentViewer) Tapped(ev *fyne.PointEvent) {
	if v.overlay == nil || v.onMarkerTapped == nil {
		return
	}
	markers := v.projectMarkers()
	if hit := v.overlay.HitTest(markers, pointOf(ev.Position)); hit != nil {
		v.onMarkerTapped(hit.Annotation)
	}
}

// TappedSecondary is the raster creation gesture. It must never pan.
func (v *DocumentViewer) TappedSecondary(ev *fyne.PointEvent) {
	if v.overlay == nil {
		return
	}
	v.overlay.CreateAt(annotation.GestureSecondaryClick, pointOf(ev.Position), v.page(), "", "")
}

// DoubleTapped creates on flow documents; on raster documents the overlay
// leaves the gesture unconsumed and it falls through to the fit toggle.
func (v *DocumentViewer) DoubleTapped(ev *fyne.PointEvent) {
	if v.vp == nil {
		return
	}
	p := pointOf(ev.Position)
	if v.overlay != nil && v.overlay.CreateAt(annotation.GestureDoubleClick, p, v.page(), "", "") {
		return
	}
	v.vp.ToggleFit(&p)
}

// Dragged pans the viewport, or repositions a marker when the drag
// started on one.
func (v *DocumentViewer) Dragged(ev *fyne.DragEvent) {
	if v.vp == nil {
		return
	}
	pos := pointOf(ev.Position)

	if !v.vp.Dragging() && v.markerDrag == nil {
		start := geometry.Point2D{
			X: pos.X - float64(ev.Dragged.DX),
			Y: pos.Y - float64(ev.Dragged.DY),
		}
		if v.overlay != nil {
			markers := v.projectMarkers()
			if hit := v.overlay.HitTest(markers, start); hit != nil {
				v.markerDrag = hit
			}
		}
		if v.markerDrag == nil {
			v.vp.BeginDrag(start)
		}
	}

	if v.markerDrag != nil {
		v.markerDrag.Screen = pos
		v.Refresh()
		return
	}
	v.vp.DragTo(pos)
}

// DragEnd finishes the gesture: commits a marker move or ends the pan.
func (v *DocumentViewer) DragEnd() {
	if v.markerDrag != nil {
		if v.onMarkerMoved != nil && v.overlay != nil {
			v.onMarkerMoved(
				v.markerDrag.Annotation.ID,
				v.overlay.Mapper().ScreenToStorage(v.markerDrag.Screen),
			)
		}
		v.markerDrag = nil
		v.Refresh()
		return
	}
	if v.vp != nil {
		v.vp.EndDrag()
	}
}

// projectMarkers maps the live annotation list into screen space. The
// result is never cached across frames.
func (v *DocumentViewer) projectMarkers() []annotation.Marker {
	if v.overlay == nil {
		return nil
	}
	markers := v.overlay.Project(v.annotations(), v.page())
	// Keep an in-flight marker drag pinned under the pointer.
	if v.markerDrag != nil {
		for i := range markers {
			if markers[i].Annotation.ID == v.markerDrag.Annotation.ID {
				markers[i].Screen = v.markerDrag.Screen
			}
		}
	}
	return markers
}

// draw renders the document and its markers into the widget's raster.
func (v *DocumentViewer) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(out)
	if v.vp == nil || w == 0 || h == 0 {
		return out
	}

	if v.layer != nil && v.layer.Image != nil {
		v.drawLayer(out)
	}
	for _, m := range v.projectMarkers() {
		drawMarker(out, m)
	}
	return out
}

// drawLayer paints the raster content at the viewport's scale and origin.
func (v *DocumentViewer) drawLayer(out *image.RGBA) {
	scale := v.vp.Scale()
	origin := v.vp.ContentOrigin()
	natural := v.layer.NaturalSize

	dst := image.Rect(
		int(origin.X),
		int(origin.Y),
		int(origin.X+natural.Width*scale),
		int(origin.Y+natural.Height*scale),
	)
	xdraw.ApproxBiLinear.Scale(out, dst, v.layer.Image, v.layer.Image.Bounds(), stddraw.Src, nil)
}

func fillBackground(out *image.RGBA) {
	// Dark neutral backdrop; set alpha in one pass.
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0x20
		out.Pix[i+1] = 0x20
		out.Pix[i+2] = 0x20
		out.Pix[i+3] = 0xFF
	}
}

// CreateRenderer implements fyne.Widget.
func (v *DocumentViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func pointOf(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}

func sizeOf(s fyne.Size) geometry.Size {
	return geometry.NewSize(float64(s.Width), float64(s.Height))
}
