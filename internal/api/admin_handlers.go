package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/domain"
	"github.com/movelogapp/movelog-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Returns the staff roster sorted by name. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "editUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/users/{id}",
		Summary:     "Edit user",
		Description: "Updates a user's name or role. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/users/{id}",
		Summary:     "Delete user",
		Description: "Deletes a user and their sessions. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetUserPassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/users/{id}/reset-password",
		Summary:     "Reset user password",
		Description: "Emails the user a password reset link. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResetUserPassword)
}

// === DTOs ===

// ListUsersResponse contains the staff roster.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"Staff roster"`
}

// ListUsersOutput wraps the roster for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// EditUserRequest is the request body for editing a user.
type EditUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=200" doc:"New full name"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin coach" doc:"New role"`
}

// EditUserInput wraps the edit user request for Huma.
type EditUserInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body EditUserRequest
}

// UserIDInput contains a target user ID.
type UserIDInput struct {
	ID string `path:"id" doc:"User ID"`
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapUserResponse(u)
	}

	return &ListUsersOutput{Body: ListUsersResponse{Users: resp}}, nil
}

func (s *Server) handleEditUser(ctx context.Context, input *EditUserInput) (*UserOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	req := service.EditUserRequest{FullName: input.Body.FullName}
	if input.Body.Role != nil {
		role := domain.Role(*input.Body.Role)
		req.Role = &role
	}

	user, err := s.services.Admin.EditUser(ctx, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	admin, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteUser(ctx, admin.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "User deleted"}}, nil
}

func (s *Server) handleResetUserPassword(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Admin.ResetPassword(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Reset link emailed"}}, nil
}
