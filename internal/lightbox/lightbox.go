// Package lightbox is the public gallery's slideshow component: a pure view
// over a fixed ordered list of image descriptors with category filtering and
// circular prev/next navigation. It touches no storage and needs no login.
package lightbox

import (
	"errors"

	"github.com/rossocorsa/panigaleclub/internal/models"
)

// CategoryAll shows the whole catalog.
const CategoryAll = "all"

var (
	// ErrNotFound is returned when opening an id absent from the catalog.
	ErrNotFound = errors.New("image not in catalog")
	// ErrClosed is returned when navigating with no image open.
	ErrClosed = errors.New("lightbox is closed")
)

// Lightbox tracks the active category filter and the currently opened image.
type Lightbox struct {
	images   []models.CatalogImage
	category string
	current  *models.CatalogImage
}

// New builds a lightbox over the given descriptor sequence. Order is
// preserved; the slice is not copied and must not be mutated by the caller.
func New(images []models.CatalogImage) *Lightbox {
	return &Lightbox{images: images, category: CategoryAll}
}

// Categories returns "all" followed by the distinct categories present, in
// first-seen order.
func (l *Lightbox) Categories() []string {
	categories := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, img := range l.images {
		if !seen[img.Category] {
			seen[img.Category] = true
			categories = append(categories, img.Category)
		}
	}
	return categories
}

// SetCategory narrows the grid to one category; CategoryAll resets it.
func (l *Lightbox) SetCategory(category string) {
	if category == "" {
		category = CategoryAll
	}
	l.category = category
}

// Category returns the active filter.
func (l *Lightbox) Category() string {
	return l.category
}

// Filtered returns the catalog narrowed by the active category.
func (l *Lightbox) Filtered() []models.CatalogImage {
	if l.category == CategoryAll {
		return l.images
	}
	filtered := make([]models.CatalogImage, 0, len(l.images))
	for _, img := range l.images {
		if img.Category == l.category {
			filtered = append(filtered, img)
		}
	}
	return filtered
}

// Open enters the full-screen state on the image with the given id.
func (l *Lightbox) Open(id int) error {
	for _, img := range l.images {
		if img.ID == id {
			opened := img
			l.current = &opened
			return nil
		}
	}
	return ErrNotFound
}

// Close returns to the grid.
func (l *Lightbox) Close() {
	l.current = nil
}

// Current returns the opened image, if any.
func (l *Lightbox) Current() (models.CatalogImage, bool) {
	if l.current == nil {
		return models.CatalogImage{}, false
	}
	return *l.current, true
}

// Navigate moves to the previous or next image circularly within the
// currently filtered sequence, wrapping from last to first and vice versa.
// Navigation is independent of the full unfiltered sequence.
func (l *Lightbox) Navigate(direction string) error {
	if l.current == nil {
		return ErrClosed
	}
	filtered := l.Filtered()
	if len(filtered) == 0 {
		return ErrNotFound
	}

	index := -1
	for i, img := range filtered {
		if img.ID == l.current.ID {
			index = i
			break
		}
	}
	if index < 0 {
		// The open image fell out of the filter; restart at the front.
		index = 0
	}

	switch direction {
	case "prev":
		index--
		if index < 0 {
			index = len(filtered) - 1
		}
	default: // "next"
		index++
		if index >= len(filtered) {
			index = 0
		}
	}

	next := filtered[index]
	l.current = &next
	return nil
}
