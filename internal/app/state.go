// Package app provides application lifecycle management, state, and events.
package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"doc-viewer/internal/annotation"
	"doc-viewer/internal/document"
	docimage "doc-viewer/internal/image"
	"doc-viewer/internal/viewport"
)

// EventType identifies different application events.
type EventType int

const (
	EventDocumentOpened EventType = iota
	EventViewportChanged
	EventAnnotationsChanged
	EventPageChanged
	EventProjectLoaded
	EventProjectSaved
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the open document, its viewport, and
// its annotations.
type State struct {
	mu sync.RWMutex

	ProjectPath string
	Modified    bool

	Document *document.Document
	Layer    *docimage.Layer // raster documents only
	Page     int             // current page, flow documents, 1-indexed

	Annotations *annotation.Store
	Viewport    *viewport.State

	// anchorOverride replaces the per-kind anchoring default when set,
	// driven by the anchoring preference.
	anchorOverride *viewport.Anchoring

	listeners map[EventType][]EventListener
}

// NewState creates a new application state with an empty viewport.
func NewState() *State {
	s := &State{
		Annotations: annotation.NewStore(),
		listeners:   make(map[EventType][]EventListener),
	}
	s.installViewport(viewport.New(viewport.AnchorCenter, viewport.DefaultSteps))
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// AnchoringFor returns the pan convention for a document kind: raster
// images float centered, flow pages hang from the top-left edge.
func AnchoringFor(kind document.Kind) viewport.Anchoring {
	if kind == document.KindFlow {
		return viewport.AnchorTopLeft
	}
	return viewport.AnchorCenter
}

// SetAnchorOverride forces one anchoring convention for every document,
// nil restores the per-kind defaults. Takes effect on the next open.
func (s *State) SetAnchorOverride(a *viewport.Anchoring) {
	s.mu.Lock()
	s.anchorOverride = a
	s.mu.Unlock()
}

func (s *State) anchoringFor(kind document.Kind) viewport.Anchoring {
	if s.anchorOverride != nil {
		return *s.anchorOverride
	}
	return AnchoringFor(kind)
}

func (s *State) installViewport(vp *viewport.State) {
	s.Viewport = vp
	vp.OnChange(func() {
		s.Emit(EventViewportChanged, nil)
	})
}

// OpenImage opens a raster document from an image file. The viewport is
// recreated for the new document identity; any in-flight drag on the old
// one is abandoned with it.
func (s *State) OpenImage(path string) error {
	layer, err := docimage.Load(path)
	if err != nil {
		return err
	}

	doc := &document.Document{
		ID:   annotation.NewID(),
		Name: filepath.Base(path),
		Path: path,
		Kind: document.KindRaster,
		Size: layer.NaturalSize,
	}

	s.mu.Lock()
	s.Document = doc
	s.Layer = layer
	s.Page = 0
	s.Annotations = annotation.NewStore()
	s.ProjectPath = ""
	s.Modified = false
	s.installViewport(viewport.New(s.anchoringFor(doc.Kind), viewport.DefaultSteps))
	s.mu.Unlock()

	// Natural size is known now that decode finished; this arms the fit
	// computation that was suppressed during the load race.
	s.Viewport.SetContentSize(layer.NaturalSize)

	s.Emit(EventDocumentOpened, doc)
	return nil
}

// OpenFlowDocument registers a flow document whose rendered dimensions a
// collaborator (PDF/DOCX renderer) reports. Until the natural size
// arrives via SetNaturalSize the viewport stays in its degenerate state.
func (s *State) OpenFlowDocument(doc *document.Document) {
	s.mu.Lock()
	s.Document = doc
	s.Layer = nil
	s.Page = 1
	s.Annotations = annotation.NewStore()
	s.ProjectPath = ""
	s.Modified = false
	s.installViewport(viewport.New(s.anchoringFor(document.KindFlow), viewport.DefaultSteps))
	s.mu.Unlock()

	if doc.SizeKnown() {
		s.Viewport.SetContentSize(doc.Size)
	}
	s.Emit(EventDocumentOpened, doc)
}

// SetNaturalSize is the "natural size known" callback from the rendering
// collaborator.
func (s *State) SetNaturalSize(w, h float64) {
	s.mu.Lock()
	if s.Document == nil {
		s.mu.Unlock()
		return
	}
	s.Document.Size.Width = w
	s.Document.Size.Height = h
	size := s.Document.Size
	vp := s.Viewport
	s.mu.Unlock()
	vp.SetContentSize(size)
}

// SetPage switches the current flow-document page.
func (s *State) SetPage(page int) {
	s.mu.Lock()
	doc := s.Document
	if doc == nil || doc.Kind != document.KindFlow || page < 1 ||
		(doc.Pages > 0 && page > doc.Pages) || page == s.Page {
		s.mu.Unlock()
		return
	}
	s.Page = page
	s.mu.Unlock()
	s.Emit(EventPageChanged, page)
}

// CreateAnnotation fulfills a creation request from the overlay mapper.
func (s *State) CreateAnnotation(req annotation.CreateRequest) {
	s.mu.RLock()
	doc := s.Document
	store := s.Annotations
	s.mu.RUnlock()
	if doc == nil {
		return
	}

	a := &document.Annotation{
		DocumentID: doc.ID,
		Kind:       doc.Kind,
		Content:    req.Content,
		Color:      req.Color,
	}
	switch sp := req.Storage.(type) {
	case document.PercentagePoint:
		a.Percent = &sp
		a.Page = req.Page
	case document.PixelPoint:
		a.Pixel = &sp
	}

	if err := store.Add(a); err != nil {
		// Creation requests come straight from pointer gestures; an
		// invalid one is a caller bug worth surfacing in the log.
		log.Printf("create annotation: %v", err)
		return
	}
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, a)
}

// ProjectFile is the JSON structure of a .dvproj file.
type ProjectFile struct {
	Version     int                    `json:"version"`
	Saved       time.Time              `json:"saved"`
	Document    *document.Document     `json:"document"`
	Page        int                    `json:"page,omitempty"`
	Annotations []*document.Annotation `json:"annotations,omitempty"`
}

// ProjectExt is the project file extension.
const ProjectExt = ".dvproj"

// SaveProject writes the open document and its annotations to a project
// file.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	if s.Document == nil {
		s.mu.RUnlock()
		return fmt.Errorf("no document open")
	}
	proj := ProjectFile{
		Version:     1,
		Saved:       time.Now().UTC(),
		Document:    s.Document,
		Page:        s.Page,
		Annotations: s.Annotations.List(),
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// LoadProject restores a document and its annotations from a project
// file. Raster documents reload their image from the recorded path,
// resolved relative to the project file.
func (s *State) LoadProject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var proj ProjectFile
	if err := json.Unmarshal(data, &proj); err != nil {
		return fmt.Errorf("parse project: %w", err)
	}
	if proj.Document == nil {
		return fmt.Errorf("project %s has no document", filepath.Base(path))
	}

	doc := proj.Document
	var layer *docimage.Layer
	if doc.Kind == document.KindRaster && doc.Path != "" {
		imgPath := doc.Path
		if !filepath.IsAbs(imgPath) {
			imgPath = filepath.Join(filepath.Dir(path), imgPath)
		}
		layer, err = docimage.Load(imgPath)
		if err != nil {
			return fmt.Errorf("project image: %w", err)
		}
		doc.Size = layer.NaturalSize
	}

	store := annotation.NewStore()
	if err := store.Replace(proj.Annotations); err != nil {
		return fmt.Errorf("project annotations: %w", err)
	}

	s.mu.Lock()
	s.Document = doc
	s.Layer = layer
	s.Page = proj.Page
	if doc.Kind == document.KindFlow && s.Page < 1 {
		s.Page = 1
	}
	s.Annotations = store
	s.ProjectPath = path
	s.Modified = false
	s.installViewport(viewport.New(s.anchoringFor(doc.Kind), viewport.DefaultSteps))
	s.mu.Unlock()

	if doc.SizeKnown() {
		s.Viewport.SetContentSize(doc.Size)
	}

	s.Emit(EventProjectLoaded, path)
	return nil
}

// KindForPath guesses the document kind from a file path.
func KindForPath(path string) document.Kind {
	return document.KindForExtension(strings.ToLower(filepath.Ext(path)))
}
