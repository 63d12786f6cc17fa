package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/movelogapp/movelog-server/internal/domain"
	domainerrors "github.com/movelogapp/movelog-server/internal/errors"
	"github.com/movelogapp/movelog-server/internal/id"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/store"
)

// MovementService manages movement records and their video objects.
type MovementService struct {
	store   store.Interface
	videos  *videos.Storage
	signer  *videos.Signer
	cleanup *CleanupService
	logger  *slog.Logger
}

// NewMovementService creates a new movement service.
func NewMovementService(
	store store.Interface,
	videoStorage *videos.Storage,
	signer *videos.Signer,
	cleanup *CleanupService,
	logger *slog.Logger,
) *MovementService {
	return &MovementService{
		store:   store,
		videos:  videoStorage,
		signer:  signer,
		cleanup: cleanup,
		logger:  logger,
	}
}

// CreateMovementRequest contains the metadata for a new movement. The video
// stream is passed alongside because creation and upload are one operation.
type CreateMovementRequest struct {
	Name     string
	AltNames []string
	Tags     []string
	Comments string

	VideoName        string // Original filename of the upload
	VideoContentType string
}

// GetMovement returns a movement by ID.
func (s *MovementService) GetMovement(ctx context.Context, movementID string) (*domain.Movement, error) {
	movement, err := s.store.GetMovement(ctx, movementID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("movement not found")
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return movement, nil
}

// ListMovements returns all movements.
func (s *MovementService) ListMovements(ctx context.Context) ([]*domain.Movement, error) {
	return s.store.ListMovements(ctx)
}

// CreateMovement stores the video and creates the record in one operation.
// The object is saved first; if the record insert fails the object is
// removed again so storage never accumulates unreferenced uploads.
func (s *MovementService) CreateMovement(ctx context.Context, req CreateMovementRequest, video io.Reader, uploadedBy string) (*domain.Movement, error) {
	name, altNames, tags, err := s.normalizeMetadata(ctx, req.Name, req.AltNames, req.Tags)
	if err != nil {
		return nil, err
	}

	object, size, err := s.videos.Save(video, req.VideoName)
	if err != nil {
		if errors.Is(err, videos.ErrTooLarge) {
			return nil, domainerrors.UploadFailedf("video exceeds the maximum size of %d bytes", s.videos.MaxSize())
		}
		return nil, domainerrors.UploadFailed("could not store video").WithCause(err)
	}

	movementID, err := id.Generate("mov")
	if err != nil {
		s.removeObject(object)
		return nil, fmt.Errorf("generate movement ID: %w", err)
	}

	movement := &domain.Movement{
		Record: domain.Record{
			ID: movementID,
		},
		Name:     name,
		AltNames: altNames,
		Tags:     tags,
		Comments: strings.TrimSpace(req.Comments),
		Video: domain.VideoInfo{
			Object:       object,
			OriginalName: req.VideoName,
			Size:         size,
			ContentType:  req.VideoContentType,
		},
		UploadedBy: uploadedBy,
	}

	if err := s.store.CreateMovement(ctx, movement); err != nil {
		// Compensate: the record is authoritative, so a failed insert
		// means the just-saved object must go.
		s.removeObject(object)
		return nil, fmt.Errorf("create movement: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Movement created",
			"movement_id", movementID,
			"name", name,
			"object", object,
			"size", size,
		)
	}

	return movement, nil
}

// UpdateMovementRequest contains optional metadata edits.
type UpdateMovementRequest struct {
	Name     *string   `json:"name,omitempty"`
	AltNames *[]string `json:"alt_names,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Comments *string   `json:"comments,omitempty"`
}

// UpdateMovement applies metadata edits. Any authenticated user may edit.
func (s *MovementService) UpdateMovement(ctx context.Context, movementID string, req UpdateMovementRequest) (*domain.Movement, error) {
	movement, err := s.GetMovement(ctx, movementID)
	if err != nil {
		return nil, err
	}

	name := movement.Name
	if req.Name != nil {
		name = *req.Name
	}
	altNames := movement.AltNames
	if req.AltNames != nil {
		altNames = *req.AltNames
	}
	tags := movement.Tags
	if req.Tags != nil {
		tags = *req.Tags
	}

	name, altNames, tags, err = s.normalizeMetadata(ctx, name, altNames, tags)
	if err != nil {
		return nil, err
	}

	movement.Name = name
	movement.AltNames = altNames
	movement.Tags = tags
	if req.Comments != nil {
		movement.Comments = strings.TrimSpace(*req.Comments)
	}

	if err := s.store.UpdateMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("update movement: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Movement updated", "movement_id", movementID)
	}

	return movement, nil
}

// ReplaceVideo swaps the movement's video for a new upload. The new object
// is saved first and the record repointed; only then is the old object
// queued for cleanup. If the record update fails the new object is removed
// and the old one remains authoritative.
func (s *MovementService) ReplaceVideo(ctx context.Context, movementID string, video io.Reader, videoName, contentType string) (*domain.Movement, error) {
	movement, err := s.GetMovement(ctx, movementID)
	if err != nil {
		return nil, err
	}

	object, size, err := s.videos.Save(video, videoName)
	if err != nil {
		if errors.Is(err, videos.ErrTooLarge) {
			return nil, domainerrors.UploadFailedf("video exceeds the maximum size of %d bytes", s.videos.MaxSize())
		}
		return nil, domainerrors.UploadFailed("could not store video").WithCause(err)
	}

	oldObject := movement.Video.Object
	movement.Video = domain.VideoInfo{
		Object:       object,
		OriginalName: videoName,
		Size:         size,
		ContentType:  contentType,
	}

	if err := s.store.UpdateMovement(ctx, movement); err != nil {
		s.removeObject(object)
		return nil, fmt.Errorf("update movement: %w", err)
	}

	if oldObject != "" {
		s.cleanup.Enqueue(ctx, oldObject)
	}

	if s.logger != nil {
		s.logger.Info("Movement video replaced",
			"movement_id", movementID,
			"object", object,
			"old_object", oldObject,
		)
	}

	return movement, nil
}

// DeleteMovement removes the record and queues the video object for
// cleanup. The record removal is authoritative; a cleanup failure is
// retried in the background and never resurrects the record.
func (s *MovementService) DeleteMovement(ctx context.Context, movementID string) error {
	movement, err := s.GetMovement(ctx, movementID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMovement(ctx, movementID); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}

	if movement.Video.Object != "" {
		s.cleanup.Enqueue(ctx, movement.Video.Object)
	}

	if s.logger != nil {
		s.logger.Info("Movement deleted", "movement_id", movementID, "name", movement.Name)
	}

	return nil
}

// CheckName reports whether a movement with the given primary name already
// exists (case-insensitive). Advisory only; names are not unique.
func (s *MovementService) CheckName(ctx context.Context, name string) (bool, *domain.Movement, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil, domainerrors.Validation("name is required")
	}

	existing, err := s.store.FindMovementByName(ctx, name)
	if err != nil {
		return false, nil, fmt.Errorf("find movement by name: %w", err)
	}
	return existing != nil, existing, nil
}

// PlaybackURL issues a signed, time-limited playback path for the
// movement's video.
func (s *MovementService) PlaybackURL(ctx context.Context, movementID string) (string, time.Time, error) {
	movement, err := s.GetMovement(ctx, movementID)
	if err != nil {
		return "", time.Time{}, err
	}
	if movement.Video.Object == "" {
		return "", time.Time{}, domainerrors.NotFound("movement has no video")
	}

	now := time.Now()
	return s.signer.SignedPath(movement.Video.Object, now), s.signer.ExpiresAt(now), nil
}

// normalizeMetadata trims and validates movement metadata: the name must be
// non-empty, aliases are deduped with empties dropped, and every tag must
// exist in the tag table.
func (s *MovementService) normalizeMetadata(ctx context.Context, name string, altNames, tags []string) (string, []string, []string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, nil, domainerrors.Validation("name is required")
	}

	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(altNames))
	for _, alt := range altNames {
		alt = strings.TrimSpace(alt)
		if alt == "" || seen[alt] {
			continue
		}
		seen[alt] = true
		cleaned = append(cleaned, alt)
	}

	validTags := make([]string, 0, len(tags))
	for _, tagName := range tags {
		tagName = strings.TrimSpace(tagName)
		if tagName == "" {
			continue
		}
		tag, err := s.store.GetTagByName(ctx, tagName)
		if err != nil {
			if errors.Is(err, store.ErrTagNotFound) {
				return "", nil, nil, domainerrors.Validationf("unknown tag %q", tagName)
			}
			return "", nil, nil, fmt.Errorf("check tag: %w", err)
		}
		// Store the table's casing so tag matching stays exact.
		validTags = append(validTags, tag.Name)
	}

	return name, cleaned, validTags, nil
}

// removeObject deletes a storage object immediately, falling back to the
// cleanup queue when the direct removal fails.
func (s *MovementService) removeObject(object string) {
	if err := s.videos.Delete(object); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to remove video object, queueing cleanup",
				"object", object,
				"error", err,
			)
		}
		s.cleanup.Enqueue(context.Background(), object)
	}
}
