package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/movelogapp/movelog-server/internal/auth"
	"github.com/movelogapp/movelog-server/internal/domain"
	domainerrors "github.com/movelogapp/movelog-server/internal/errors"
	"github.com/movelogapp/movelog-server/internal/store"
)

// ProfileService handles self-service account updates.
type ProfileService struct {
	store  store.Interface
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.Interface, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// UpdateProfileRequest contains optional self-service updates. A password
// change requires the current password and a matching confirmation.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty" validate:"omitempty,min=6,max=1024"`
	ConfirmPassword string  `json:"confirm_password,omitempty"`
}

// UpdateProfile applies the requested changes to the authenticated user.
func (s *ProfileService) UpdateProfile(ctx context.Context, user *domain.User, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}

	if req.NewPassword != "" {
		if req.NewPassword != req.ConfirmPassword {
			return nil, domainerrors.Validation("password confirmation does not match")
		}

		valid, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
		if err != nil {
			return nil, fmt.Errorf("verify password: %w", err)
		}
		if !valid {
			return nil, domainerrors.InvalidCredentials("current password is incorrect")
		}

		passwordHash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Profile updated", "user_id", user.ID)
	}

	return user, nil
}
