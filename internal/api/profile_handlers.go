package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me",
		Summary:     "Update own profile",
		Description: "Updates the authenticated user's name, email, or password",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// UpdateProfileRequest is the request body for self-service profile edits.
// Password changes require the current password and a matching confirmation.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty" validate:"omitempty,max=200" doc:"New full name"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email,max=254" doc:"New email address"`
	CurrentPassword string  `json:"current_password,omitempty" doc:"Current password (required for password change)"`
	NewPassword     string  `json:"new_password,omitempty" validate:"omitempty,min=6,max=1024" doc:"New password"`
	ConfirmPassword string  `json:"confirm_password,omitempty" doc:"New password confirmation"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Profile.UpdateProfile(ctx, user, service.UpdateProfileRequest{
		FullName:        input.Body.FullName,
		Email:           input.Body.Email,
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
		ConfirmPassword: input.Body.ConfirmPassword,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(updated)}, nil
}
