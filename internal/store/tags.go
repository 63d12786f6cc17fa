package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/movelogapp/movelog-server/internal/domain"
)

// Tag errors.
var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag already exists")
)

// CreateTag stores a new tag. The name index is case-insensitive, so a
// duplicate name in any casing returns ErrTagExists.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	tag.InitTimestamps()
	if err := s.Tags.Create(ctx, tag.ID, tag); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrTagExists
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	tag, err := s.Tags.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// UpdateTag persists changes to a tag. Renames move the name index; a
// rename that collides with another tag's name returns ErrTagExists.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	tag.Touch()
	if err := s.Tags.Update(ctx, tag.ID, tag); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrTagExists
		}
		return err
	}
	return nil
}

// DeleteTag removes a tag record. Movements referencing the name are left
// untouched.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	if err := s.Tags.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrTagNotFound
		}
		return err
	}
	return nil
}

// GetTagByName retrieves a tag by name, matching case-insensitively.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	tag, err := s.Tags.GetByIndex(ctx, "name", name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return tag, nil
}

// ListTags returns all tags, unordered. Callers sort for display.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for t, err := range s.Tags.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}
