// Package upload implements the simulated upload workflow: a per-session
// pending batch whose entries advance progress on independent recurring
// timers and are committed to the stored image collection once the whole
// batch has finished.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rossocorsa/panigaleclub/internal/albums"
	"github.com/rossocorsa/panigaleclub/internal/blob"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/preview"
	"github.com/rossocorsa/panigaleclub/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("panigaleclub-upload")

var (
	// ErrEmptyBatch is returned by Start when there is nothing to upload.
	ErrEmptyBatch = errors.New("no pending uploads in batch")
	// ErrBatchInProgress is returned by operations that are locked while the
	// batch is uploading: adding, removing, clearing and visibility changes.
	ErrBatchInProgress = errors.New("upload already in progress")
	// ErrEntryNotFound is returned when no pending entry matches the id.
	ErrEntryNotFound = errors.New("pending upload not found")
)

// UnsupportedTypeError reports a rejected file. The rejection is per file and
// non-fatal: the rest of the batch is unaffected.
type UnsupportedTypeError struct {
	Name        string
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s is not an image (%s)", e.Name, e.ContentType)
}

// Timing bundles the simulation delays. Progress ticks every Tick plus
// Stagger per entry index so entries do not complete in lockstep; CommitDelay
// separates batch completion from the store write; ClearDelay separates the
// store write from the batch reset.
type Timing struct {
	Tick        time.Duration
	Stagger     time.Duration
	CommitDelay time.Duration
	ClearDelay  time.Duration
}

type batch struct {
	entries   []*models.UploadEntry
	uploading bool
	// completed counts entries that reached 100%. It is the only cross-entry
	// coordination point; the uploader mutex guards it because entry timers
	// run on separate goroutines.
	completed int
	done      chan struct{}
}

// Uploader owns the pending batches, one per session.
type Uploader struct {
	store      *store.Store
	blobs      blob.Store
	timing     Timing
	previewMax uint

	mu      sync.Mutex
	batches map[string]*batch
	closed  chan struct{}
}

// New creates an uploader writing committed images to the session store and
// previews to the blob store.
func New(s *store.Store, blobs blob.Store, timing Timing, previewMax uint) *Uploader {
	return &Uploader{
		store:      s,
		blobs:      blobs,
		timing:     timing,
		previewMax: previewMax,
		batches:    make(map[string]*batch),
		closed:     make(chan struct{}),
	}
}

// Close cancels every running progress timer. Pending batches are discarded.
func (u *Uploader) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	select {
	case <-u.closed:
	default:
		close(u.closed)
	}
}

// Abort cancels the session's batch, running or not, discarding its entries.
// Used when the session ends mid-upload so no timers leak.
func (u *Uploader) Abort(sessionID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.batches[sessionID]
	if !ok {
		return
	}
	select {
	case <-b.done:
	default:
		close(b.done)
	}
	delete(u.batches, sessionID)
}

// Add validates and appends one file to the session's pending batch. Files
// whose MIME type does not start with image/ are rejected with an
// UnsupportedTypeError. New pending entries start at progress 0 with
// members-only visibility.
func (u *Uploader) Add(ctx context.Context, sessionID, name, contentType string, data []byte) (models.UploadEntry, error) {
	ctx, span := tracer.Start(ctx, "upload.add",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("file_name", name),
			attribute.String("content_type", contentType),
		),
	)
	defer span.End()

	if !strings.HasPrefix(contentType, "image/") {
		span.SetAttributes(attribute.Bool("rejected", true))
		return models.UploadEntry{}, &UnsupportedTypeError{Name: name, ContentType: contentType}
	}

	previewData, previewType, err := preview.Thumbnail(data, u.previewMax)
	if err != nil {
		// Undecodable but image-typed payloads keep their original bytes as
		// the preview; the MIME prefix is the only acceptance rule.
		log.Printf("Warning: preview generation failed for %s: %v", name, err)
		previewData, previewType = data, contentType
	}
	key := blob.Key(previewData)
	if err := u.blobs.Put(ctx, key, previewData, previewType); err != nil {
		span.RecordError(err)
		return models.UploadEntry{}, fmt.Errorf("failed to store preview: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.batch(sessionID)
	if b.uploading {
		return models.UploadEntry{}, ErrBatchInProgress
	}
	entry := &models.UploadEntry{
		ID:          uuid.New().String(),
		Name:        name,
		ContentType: contentType,
		PreviewKey:  key,
		Visibility:  models.VisibilityMembers,
	}
	b.entries = append(b.entries, entry)
	span.SetAttributes(attribute.String("entry_id", entry.ID))
	return *entry, nil
}

// Remove drops one pending entry. It is always allowed before the batch
// starts and never allowed once uploading is in progress.
func (u *Uploader) Remove(sessionID, entryID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.batch(sessionID)
	if b.uploading {
		return ErrBatchInProgress
	}
	for i, e := range b.entries {
		if e.ID == entryID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// Clear drops every pending entry; disabled mid-upload like Remove.
func (u *Uploader) Clear(sessionID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.batch(sessionID)
	if b.uploading {
		return ErrBatchInProgress
	}
	b.entries = nil
	return nil
}

// SetVisibility picks the visibility an entry will carry into the stored
// collection. Locked once the batch upload has started.
func (u *Uploader) SetVisibility(sessionID, entryID string, v models.Visibility) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.batch(sessionID)
	if b.uploading {
		return ErrBatchInProgress
	}
	for _, e := range b.entries {
		if e.ID == entryID {
			e.Visibility = v
			return nil
		}
	}
	return ErrEntryNotFound
}

// Entries returns a snapshot of the session's pending batch.
func (u *Uploader) Entries(sessionID string) []models.UploadEntry {
	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.batch(sessionID)
	out := make([]models.UploadEntry, len(b.entries))
	for i, e := range b.entries {
		out[i] = *e
	}
	return out
}

// Uploading reports whether the session's batch is currently in progress.
func (u *Uploader) Uploading(sessionID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.batch(sessionID).uploading
}

// Start begins the simulated upload for the session's pending batch. Starting
// an empty batch is an error; so is starting twice. Each entry advances on
// its own timer by a pseudo-random 5-14 points per tick, clamping at 100.
// Once every entry has finished the batch commits after a short fixed delay
// and the pending list clears after a further delay.
func (u *Uploader) Start(ctx context.Context, sessionID string) error {
	_, span := tracer.Start(ctx, "upload.start",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()

	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.batch(sessionID)
	if b.uploading {
		return ErrBatchInProgress
	}
	if len(b.entries) == 0 {
		return ErrEmptyBatch
	}
	b.uploading = true
	b.completed = 0
	span.SetAttributes(attribute.Int("batch_size", len(b.entries)))

	for i, e := range b.entries {
		interval := u.timing.Tick + time.Duration(i)*u.timing.Stagger
		go u.runEntry(sessionID, b, e, interval)
	}
	return nil
}

// runEntry drives one entry's progress timer until the entry completes or the
// batch is torn down.
func (u *Uploader) runEntry(sessionID string, b *batch, e *models.UploadEntry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-u.closed:
			return
		case <-b.done:
			return
		case <-ticker.C:
			if u.tick(sessionID, b, e) {
				return
			}
		}
	}
}

// tick advances one entry and reports whether it just finished. When the last
// entry finishes, the batch commit is scheduled.
func (u *Uploader) tick(sessionID string, b *batch, e *models.UploadEntry) bool {
	u.mu.Lock()
	e.Progress += rand.Intn(10) + 5
	if e.Progress < 100 {
		u.mu.Unlock()
		return false
	}
	e.Progress = 100
	e.Uploaded = true
	b.completed++
	last := b.completed == len(b.entries)
	u.mu.Unlock()

	if last {
		go u.commitAfterDelay(sessionID, b)
	}
	return true
}

func (u *Uploader) commitAfterDelay(sessionID string, b *batch) {
	select {
	case <-u.closed:
		return
	case <-b.done:
		return
	case <-time.After(u.timing.CommitDelay):
	}
	u.commit(sessionID, b)

	select {
	case <-u.closed:
		return
	case <-b.done:
		return
	case <-time.After(u.timing.ClearDelay):
	}
	u.mu.Lock()
	b.entries = nil
	b.completed = 0
	u.mu.Unlock()
}

// commit converts the finished batch into stored image records: fresh upload
// timestamp, empty album set, the visibility each entry chose. The request
// that started the batch is long gone, so the store writes run on a
// background context.
func (u *Uploader) commit(sessionID string, b *batch) {
	ctx, span := tracer.Start(context.Background(), "upload.commit",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()

	u.mu.Lock()
	now := time.Now().UTC()
	records := make([]models.Image, len(b.entries))
	for i, e := range b.entries {
		records[i] = models.Image{
			ID:         e.ID,
			Name:       e.Name,
			PreviewKey: e.PreviewKey,
			Visibility: e.Visibility,
			UploadDate: now,
			Albums:     []string{},
		}
	}
	b.uploading = false
	u.mu.Unlock()

	images, err := u.store.Images(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		log.Printf("Warning: failed to load images for commit: %v", err)
		return
	}
	images = append(images, records...)
	if err := u.store.SaveImages(ctx, sessionID, images); err != nil {
		span.RecordError(err)
		log.Printf("Warning: failed to commit uploaded images: %v", err)
		return
	}

	// Derived side effect: album counts follow every image mutation.
	list, err := u.store.Albums(ctx, sessionID)
	if err == nil {
		list = albums.Recount(list, images)
		if err := u.store.SaveAlbums(ctx, sessionID, list); err != nil {
			log.Printf("Warning: failed to recount albums after commit: %v", err)
		}
	}

	span.SetAttributes(attribute.Int("committed", len(records)))
	log.Printf("Upload batch committed: %d images for session %s", len(records), sessionID)
}

// batch returns the session's batch, creating it on first use. Callers must
// hold u.mu.
func (u *Uploader) batch(sessionID string) *batch {
	b, ok := u.batches[sessionID]
	if !ok {
		b = &batch{done: make(chan struct{})}
		u.batches[sessionID] = b
	}
	return b
}
