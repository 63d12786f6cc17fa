package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/movelogapp/movelog-server/internal/domain"
)

// CreateMovement stores a new movement.
func (s *Store) CreateMovement(ctx context.Context, movement *domain.Movement) error {
	movement.InitTimestamps()
	return s.Movements.Create(ctx, movement.ID, movement)
}

// GetMovement retrieves a movement by ID.
func (s *Store) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return s.Movements.Get(ctx, id)
}

// UpdateMovement persists changes to a movement.
func (s *Store) UpdateMovement(ctx context.Context, movement *domain.Movement) error {
	movement.Touch()
	return s.Movements.Update(ctx, movement.ID, movement)
}

// DeleteMovement removes a movement record.
func (s *Store) DeleteMovement(ctx context.Context, id string) error {
	return s.Movements.Delete(ctx, id)
}

// ListMovements returns all movements.
// The catalog is team-sized so it is always loaded whole; there is no
// pagination at the storage layer.
func (s *Store) ListMovements(ctx context.Context) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for m, err := range s.Movements.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list movements: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// ListMovementsWithTag returns all movements whose tag list contains the
// given name exactly.
func (s *Store) ListMovementsWithTag(ctx context.Context, tagName string) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for m, err := range s.Movements.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list movements with tag: %w", err)
		}
		if m.HasTag(tagName) {
			movements = append(movements, m)
		}
	}
	return movements, nil
}

// FindMovementByName returns the first movement whose primary name matches
// case-insensitively, or nil when none does. Names are not unique; this
// exists for the upload flow's advisory duplicate check.
func (s *Store) FindMovementByName(ctx context.Context, name string) (*domain.Movement, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for m, err := range s.Movements.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("find movement by name: %w", err)
		}
		if strings.ToLower(m.Name) == needle {
			return m, nil
		}
	}
	return nil, nil
}

// CountMovements returns the total number of movements in the system.
func (s *Store) CountMovements(ctx context.Context) (int, error) {
	count := 0
	for _, err := range s.Movements.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("count movements: %w", err)
		}
		count++
	}
	return count, nil
}
