package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/movelogapp/movelog-server/internal/catalog"
	"github.com/movelogapp/movelog-server/internal/domain"
	domainerrors "github.com/movelogapp/movelog-server/internal/errors"
	"github.com/movelogapp/movelog-server/internal/store"
)

// AdminService handles the admin-only user management surface: the roster,
// user edits, deletion, and admin-triggered password resets.
type AdminService struct {
	store       store.Interface
	authService *AuthService
	logger      *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Interface, authService *AuthService, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:       store,
		authService: authService,
		logger:      logger,
	}
}

// ListUsers returns the roster: every non-sentinel user, sorted ascending
// by name with empty names first, locale-aware.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	roster := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u.IsSentinel() {
			continue
		}
		roster = append(roster, u)
	}

	compare := catalog.NameComparer()
	slices.SortStableFunc(roster, func(a, b *domain.User) int {
		return compare(a.FullName, b.FullName)
	})

	return roster, nil
}

// EditUserRequest contains the fields an admin may change.
type EditUserRequest struct {
	FullName *string      `json:"full_name,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
}

// EditUser updates a user's name and role. The root admin's role cannot be
// changed, and the last remaining admin cannot be demoted.
func (s *AdminService) EditUser(ctx context.Context, userID string, req EditUserRequest) (*domain.User, error) {
	user, err := s.getEditableUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if req.Role != nil && *req.Role != user.Role {
		newRole := *req.Role
		if newRole != domain.RoleAdmin && newRole != domain.RoleCoach {
			return nil, domainerrors.Validationf("unknown role %q", newRole)
		}
		if user.IsRoot {
			return nil, domainerrors.Forbidden("the root admin's role cannot be changed")
		}
		if user.IsAdmin() && newRole != domain.RoleAdmin {
			if err := s.ensureNotLastAdmin(ctx); err != nil {
				return nil, err
			}
		}
		user.Role = newRole
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User edited", "user_id", userID, "role", user.Role)
	}

	return user, nil
}

// DeleteUser removes a user and all their sessions. Admins cannot delete
// themselves, the root admin, or the last remaining admin.
func (s *AdminService) DeleteUser(ctx context.Context, actingUserID, userID string) error {
	if actingUserID == userID {
		return domainerrors.Forbidden("you cannot delete your own account")
	}

	user, err := s.getEditableUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsRoot {
		return domainerrors.Forbidden("the root admin cannot be deleted")
	}
	if user.IsAdmin() {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.store.DeleteAllUserSessions(ctx, userID); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to delete sessions for removed user",
				"user_id", userID,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("User deleted", "user_id", userID, "deleted_by", actingUserID)
	}

	return nil
}

// ResetPassword triggers the email-based reset flow for the target user,
// same as if they had used forgot-password themselves.
func (s *AdminService) ResetPassword(ctx context.Context, userID string) error {
	user, err := s.getEditableUser(ctx, userID)
	if err != nil {
		return err
	}

	return s.authService.SendPasswordReset(ctx, user)
}

// getEditableUser loads a user for an admin operation, hiding sentinel
// accounts as if they did not exist.
func (s *AdminService) getEditableUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsSentinel() {
		return nil, domainerrors.NotFound("user not found")
	}
	return user, nil
}

// ensureNotLastAdmin rejects operations that would leave the server with no
// admin at all.
func (s *AdminService) ensureNotLastAdmin(ctx context.Context) error {
	count, err := s.store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count <= 1 {
		return domainerrors.Conflict("cannot remove the last admin")
	}
	return nil
}
