package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/movelogapp/movelog-server/internal/catalog"
	"github.com/movelogapp/movelog-server/internal/domain"
	domainerrors "github.com/movelogapp/movelog-server/internal/errors"
	"github.com/movelogapp/movelog-server/internal/id"
	"github.com/movelogapp/movelog-server/internal/store"
)

// TagService manages the tag table and the rename cascade into movements.
type TagService struct {
	store  store.Interface
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Interface, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// TagWithUsage pairs a tag with the number of movements referencing it.
type TagWithUsage struct {
	*domain.Tag
	UsageCount int `json:"usage_count"`
}

// ListTags returns all tags with usage counts, sorted ascending by name.
func (s *TagService) ListTags(ctx context.Context) ([]*TagWithUsage, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	counts := make(map[string]int)
	for _, m := range movements {
		for _, name := range m.Tags {
			counts[name]++
		}
	}

	names := make([]string, 0, len(tags))
	byName := make(map[string]*domain.Tag, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
		byName[t.Name] = t
	}
	catalog.SortNames(names)

	result := make([]*TagWithUsage, 0, len(tags))
	for _, name := range names {
		result = append(result, &TagWithUsage{
			Tag:        byName[name],
			UsageCount: counts[name],
		})
	}
	return result, nil
}

// CreateTag creates a tag with a trimmed, case-insensitively unique name.
func (s *TagService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("tag name is required")
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{
		Record: domain.Record{
			ID: tagID,
		},
		Name: name,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagExists) {
			return nil, domainerrors.AlreadyExistsf("%q already exists.", name)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag created", "tag_id", tagID, "name", name)
	}

	return tag, nil
}

// RenameFailure describes one movement the cascade could not update.
type RenameFailure struct {
	MovementID   string `json:"movement_id"`
	MovementName string `json:"movement_name"`
	Error        string `json:"error"`
}

// RenameResult reports the outcome of a rename cascade.
type RenameResult struct {
	Tag     *domain.Tag     `json:"tag"`
	Renamed int             `json:"renamed"`
	Failed  []RenameFailure `json:"failed,omitempty"`
}

// RenameTag renames a tag and cascades the new name into every movement
// referencing the old one. The cascade is sequential per movement and
// collects failures instead of aborting: movements renamed before a failure
// stay renamed, and each failure is reported with the movement it hit.
func (s *TagService) RenameTag(ctx context.Context, tagID, newName string) (*RenameResult, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domainerrors.Validation("tag name is required")
	}

	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	oldName := tag.Name

	// Renaming to the identical string is a no-op with zero writes.
	if newName == oldName {
		return &RenameResult{Tag: tag}, nil
	}

	// Reject a rename that collides with a different tag. A case-only
	// rename of the same tag is allowed and falls through.
	if existing, err := s.store.GetTagByName(ctx, newName); err == nil && existing.ID != tag.ID {
		return nil, domainerrors.AlreadyExistsf("%q already exists.", newName)
	} else if err != nil && !errors.Is(err, store.ErrTagNotFound) {
		return nil, fmt.Errorf("check tag name: %w", err)
	}

	affected, err := s.store.ListMovementsWithTag(ctx, oldName)
	if err != nil {
		return nil, fmt.Errorf("list movements with tag: %w", err)
	}

	// Update the tag record first so the table never offers the stale name
	// while the cascade runs.
	tag.Name = newName
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagExists) {
			return nil, domainerrors.AlreadyExistsf("%q already exists.", newName)
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	result := &RenameResult{Tag: tag}
	for _, m := range affected {
		if !m.RenameTag(oldName, newName) {
			continue
		}
		if err := s.store.UpdateMovement(ctx, m); err != nil {
			result.Failed = append(result.Failed, RenameFailure{
				MovementID:   m.ID,
				MovementName: m.Name,
				Error:        err.Error(),
			})
			if s.logger != nil {
				s.logger.Error("Tag rename cascade failed for movement",
					"tag_id", tagID,
					"movement_id", m.ID,
					"error", err,
				)
			}
			continue
		}
		result.Renamed++
	}

	if s.logger != nil {
		s.logger.Info("Tag renamed",
			"tag_id", tagID,
			"old_name", oldName,
			"new_name", newName,
			"renamed", result.Renamed,
			"failed", len(result.Failed),
		)
	}

	return result, nil
}

// DeleteTag removes a tag record. Movements that reference the name keep
// it; the catalog's filter list is driven by the tag table, so the stale
// name is simply no longer offered.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag deleted", "tag_id", tagID)
	}

	return nil
}
