package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/movelogapp/movelog-server/internal/http/response"
	"github.com/movelogapp/movelog-server/internal/service"
)

// The upload and playback endpoints are plain chi handlers: huma does not
// stream multipart bodies, and ServeContent needs the ResponseWriter.

// handleCreateMovement creates a movement with its video in one operation.
// POST /api/v1/movements
// Content-Type: multipart/form-data with "file" plus metadata fields:
// "name", "comments", repeated "alt_names" and "tags".
func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := GetUserID(ctx)
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		response.BadRequest(w, "Failed to parse form data", s.logger)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No video uploaded. Use 'file' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	if header.Size > s.videoStorage.MaxSize() {
		response.Error(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Video too large. Maximum size is %d bytes", s.videoStorage.MaxSize()), s.logger)
		return
	}

	req := service.CreateMovementRequest{
		Name:             r.FormValue("name"),
		AltNames:         r.MultipartForm.Value["alt_names"],
		Tags:             r.MultipartForm.Value["tags"],
		Comments:         r.FormValue("comments"),
		VideoName:        header.Filename,
		VideoContentType: header.Header.Get("Content-Type"),
	}

	movement, err := s.services.Movement.CreateMovement(ctx, req, file, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("Movement created",
		"movement_id", movement.ID,
		"name", movement.Name,
		"video_size", movement.Video.Size,
		"uploaded_by", userID,
	)

	response.Created(w, mapMovementResponse(movement), s.logger)
}

// handleReplaceVideo swaps a movement's video for a new upload.
// PUT /api/v1/movements/{id}/video
// Content-Type: multipart/form-data with "file" field.
func (s *Server) handleReplaceVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movementID := chi.URLParam(r, "id")

	if _, err := GetUserID(ctx); err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	if movementID == "" {
		response.BadRequest(w, "Movement ID is required", s.logger)
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		response.BadRequest(w, "Failed to parse form data", s.logger)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No video uploaded. Use 'file' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	if header.Size > s.videoStorage.MaxSize() {
		response.Error(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Video too large. Maximum size is %d bytes", s.videoStorage.MaxSize()), s.logger)
		return
	}

	movement, err := s.services.Movement.ReplaceVideo(ctx, movementID, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("Movement video replaced",
		"movement_id", movement.ID,
		"object", movement.Video.Object,
	)

	response.Success(w, mapMovementResponse(movement), s.logger)
}

// handleStreamVideo streams a stored video with HTTP Range support.
// GET /api/v1/videos/{object}?exp=...&sig=...
// Access is granted by the signed URL, not a session, so video elements
// work without an Authorization header.
func (s *Server) handleStreamVideo(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	exp := r.URL.Query().Get("exp")
	sig := r.URL.Query().Get("sig")

	if object == "" {
		response.BadRequest(w, "Video object is required", s.logger)
		return
	}

	if err := s.signer.Verify(object, exp, sig, time.Now()); err != nil {
		response.Forbidden(w, "Invalid or expired video URL", s.logger)
		return
	}

	f, info, err := s.videoStorage.Open(object)
	if err != nil {
		s.logger.Warn("Signed URL for missing video object", "object", object, "error", err)
		response.NotFound(w, "Video not found", s.logger)
		return
	}
	defer f.Close()

	// The URL expires, the object behind it never changes.
	w.Header().Set("Cache-Control", CacheOneDayPrivate)

	// ServeContent handles Range requests, Content-Length, and
	// If-Range/Last-Modified conditionals.
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
