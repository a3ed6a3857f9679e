package annotation

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"doc-viewer/internal/document"
)

// MaxBulk is the largest number of annotations accepted in one AddBulk
// call, matching the backend's bulk-create limit.
const MaxBulk = 50

var (
	// ErrNotFound is returned when an annotation id is unknown.
	ErrNotFound = errors.New("annotation not found")

	// ErrBulkLimit is returned when AddBulk receives too many annotations.
	ErrBulkLimit = fmt.Errorf("bulk create exceeds %d annotations", MaxBulk)
)

// Store is an in-memory annotation collection for one open document.
// It validates on write and keeps creation/update timestamps.
type Store struct {
	mu   sync.RWMutex
	byID map[string]*document.Annotation
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*document.Annotation)}
}

// NewID returns a random 32-hex-char annotation id.
func NewID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// rand.Read only fails when the OS entropy source is broken;
		// fall back to a timestamp id rather than panicking.
		return fmt.Sprintf("t%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

// Add validates and inserts an annotation. A missing id is generated;
// missing timestamps are set to now.
func (s *Store) Add(a *document.Annotation) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	a.Content = strings.TrimSpace(a.Content)
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[a.ID]; ok {
		return fmt.Errorf("annotation %s already exists", a.ID)
	}
	s.byID[a.ID] = a
	return nil
}

// AddBulk inserts up to MaxBulk annotations. Validation failures abort
// before anything is inserted.
func (s *Store) AddBulk(annotations []*document.Annotation) error {
	if len(annotations) == 0 {
		return errors.New("no annotations given")
	}
	if len(annotations) > MaxBulk {
		return ErrBulkLimit
	}
	for _, a := range annotations {
		if a.ID == "" {
			a.ID = NewID()
		}
		a.Content = strings.TrimSpace(a.Content)
		now := time.Now().UTC()
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.CreatedAt
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("annotation %s: %w", a.ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range annotations {
		s.byID[a.ID] = a
	}
	return nil
}

// Get returns the annotation with the given id.
func (s *Store) Get(id string) (*document.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

// UpdateContent replaces the annotation text and bumps updated_at.
func (s *Store) UpdateContent(id, content string) error {
	return s.update(id, func(a *document.Annotation) {
		a.Content = strings.TrimSpace(content)
	})
}

// UpdateColor replaces a raster annotation's marker color.
func (s *Store) UpdateColor(id, color string) error {
	return s.update(id, func(a *document.Annotation) {
		a.Color = color
	})
}

// UpdatePosition moves an annotation to a new storage point of the same
// shape it already has.
func (s *Store) UpdatePosition(id string, p document.StoragePoint) error {
	return s.update(id, func(a *document.Annotation) {
		switch sp := p.(type) {
		case document.PercentagePoint:
			a.Percent = &sp
		case document.PixelPoint:
			a.Pixel = &sp
		}
	})
}

// update applies a mutation, validates the result, and commits or rolls
// back. The stored annotation never ends up invalid.
func (s *Store) update(id string, mutate func(*document.Annotation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	draft := *a
	mutate(&draft)
	draft.UpdatedAt = time.Now().UTC()
	if err := draft.Validate(); err != nil {
		return err
	}
	*a = draft
	return nil
}

// Remove deletes an annotation.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	return nil
}

// List returns all annotations ordered by creation time, then id.
func (s *Store) List() []*document.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*document.Annotation, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ByPage returns the annotations on a flow document page, same order as
// List.
func (s *Store) ByPage(page int) []*document.Annotation {
	all := s.List()
	out := all[:0:0]
	for _, a := range all {
		if a.Page == page {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of stored annotations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Replace swaps the entire collection, used by project load.
func (s *Store) Replace(annotations []*document.Annotation) error {
	byID := make(map[string]*document.Annotation, len(annotations))
	for _, a := range annotations {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("annotation %s: %w", a.ID, err)
		}
		byID[a.ID] = a
	}
	s.mu.Lock()
	s.byID = byID
	s.mu.Unlock()
	return nil
}
