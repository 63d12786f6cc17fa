package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/movelogapp/movelog-server/internal/domain"
)

// ErrResetNotFound is returned when a password reset token cannot be found.
var ErrResetNotFound = errors.New("password reset not found")

// CreateReset stores a new password reset record.
func (s *Store) CreateReset(ctx context.Context, reset *domain.PasswordReset) error {
	reset.InitTimestamps()
	return s.PasswordResets.Create(ctx, reset.ID, reset)
}

// UpdateReset persists changes to a password reset record, typically to
// mark it used.
func (s *Store) UpdateReset(ctx context.Context, reset *domain.PasswordReset) error {
	reset.Touch()
	return s.PasswordResets.Update(ctx, reset.ID, reset)
}

// GetResetByTokenHash retrieves a password reset record by its token hash.
// Used by the public reset-completion flow.
func (s *Store) GetResetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	reset, err := s.PasswordResets.GetByIndex(ctx, "token", tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrResetNotFound
		}
		return nil, fmt.Errorf("get reset by token: %w", err)
	}
	return reset, nil
}
