package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/upload"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxUploadBytes bounds a whole multipart submission.
const maxUploadBytes = 64 << 20 // 64 MiB

// UploadHandler manages the session's pending upload batch.
type UploadHandler struct {
	uploader *upload.Uploader
}

// NewUploadHandler creates the upload handler.
func NewUploadHandler(u *upload.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// Add handles POST /api/uploads with multipart "files" parts. Non-image parts
// are rejected with a per-file notice; the rest of the batch is accepted.
func (h *UploadHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "uploads_add", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	sid := sessionID(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Error", "Expecting a multipart upload.")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "Error", "No files in upload.")
		return
	}

	var accepted []models.UploadEntry
	var notices []models.Notice
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Error", "Failed to read upload.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Error", "Failed to read upload.")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		entry, err := h.uploader.Add(ctx, sid, header.Filename, contentType, data)
		if err != nil {
			var typeErr *upload.UnsupportedTypeError
			if errors.As(err, &typeErr) {
				notices = append(notices, models.ErrorNotice("Invalid file type",
					fmt.Sprintf("%s is not an image. Please choose image files only.", typeErr.Name)))
				continue
			}
			if errors.Is(err, upload.ErrBatchInProgress) {
				respondError(w, http.StatusConflict, "Upload in progress",
					"Wait for the current upload to finish.")
				return
			}
			span.RecordError(err)
			respondError(w, http.StatusInternalServerError, "Error", "Failed to accept upload.")
			return
		}
		accepted = append(accepted, entry)
	}

	span.SetAttributes(
		attribute.Int("accepted", len(accepted)),
		attribute.Int("rejected", len(notices)),
	)
	respondJSON(w, http.StatusOK, envelope{Data: accepted, Notices: notices})
}

type batchStatus struct {
	Entries   []models.UploadEntry `json:"entries"`
	Uploading bool                 `json:"uploading"`
}

// Status handles GET /api/uploads: the pending entries with their progress.
func (h *UploadHandler) Status(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	respondData(w, http.StatusOK, batchStatus{
		Entries:   h.uploader.Entries(sid),
		Uploading: h.uploader.Uploading(sid),
	})
}

// Remove handles DELETE /api/uploads/{id}.
func (h *UploadHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	entryID := mux.Vars(r)["id"]
	switch err := h.uploader.Remove(sid, entryID); {
	case errors.Is(err, upload.ErrBatchInProgress):
		respondError(w, http.StatusConflict, "Upload in progress", "Entries cannot be removed mid-upload.")
	case errors.Is(err, upload.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, "Error", "Pending upload not found.")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Error", "Failed to remove upload.")
	default:
		respondData(w, http.StatusOK, nil)
	}
}

// Clear handles DELETE /api/uploads, dropping the whole pending batch.
func (h *UploadHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if err := h.uploader.Clear(sid); err != nil {
		respondError(w, http.StatusConflict, "Upload in progress", "The batch cannot be cleared mid-upload.")
		return
	}
	respondData(w, http.StatusOK, nil)
}

type visibilityRequest struct {
	Visibility models.Visibility `json:"visibility"`
}

// SetVisibility handles PUT /api/uploads/{id}/visibility.
func (h *UploadHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	entryID := mux.Vars(r)["id"]

	var req visibilityRequest
	if err := decodeJSON(r, &req); err != nil || !req.Visibility.Valid() {
		respondError(w, http.StatusBadRequest, "Error", "Visibility must be members or public.")
		return
	}

	switch err := h.uploader.SetVisibility(sid, entryID, req.Visibility); {
	case errors.Is(err, upload.ErrBatchInProgress):
		respondError(w, http.StatusConflict, "Upload in progress", "Visibility is locked once the upload starts.")
	case errors.Is(err, upload.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, "Error", "Pending upload not found.")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Error", "Failed to change visibility.")
	default:
		respondData(w, http.StatusOK, nil)
	}
}

// Start handles POST /api/uploads/start.
func (h *UploadHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "uploads_start", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	sid := sessionID(r)

	switch err := h.uploader.Start(ctx, sid); {
	case errors.Is(err, upload.ErrEmptyBatch):
		respondError(w, http.StatusBadRequest, "No images selected", "Please choose at least one image to upload.")
	case errors.Is(err, upload.ErrBatchInProgress):
		respondError(w, http.StatusConflict, "Upload in progress", "The batch has already started.")
	case err != nil:
		span.RecordError(err)
		respondError(w, http.StatusInternalServerError, "Error", "Failed to start upload.")
	default:
		respondData(w, http.StatusAccepted, batchStatus{
			Entries:   h.uploader.Entries(sid),
			Uploading: true,
		})
	}
}
