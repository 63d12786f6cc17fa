package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/domain"
	"github.com/movelogapp/movelog-server/internal/service"
)

func (s *Server) registerMovementRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "checkMovementName",
		Method:      http.MethodGet,
		Path:        "/api/v1/movements/check-name",
		Summary:     "Check movement name",
		Description: "Reports whether a movement with this name already exists (case-insensitive). Advisory only; duplicate names are allowed.",
		Tags:        []string{"Movements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCheckMovementName)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovement",
		Method:      http.MethodGet,
		Path:        "/api/v1/movements/{id}",
		Summary:     "Get movement",
		Description: "Returns the full movement record",
		Tags:        []string{"Movements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMovement)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMovement",
		Method:      http.MethodPatch,
		Path:        "/api/v1/movements/{id}",
		Summary:     "Update movement",
		Description: "Updates name, aliases, tags, or comments. Tags must exist in the tag table.",
		Tags:        []string{"Movements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMovement)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMovement",
		Method:      http.MethodDelete,
		Path:        "/api/v1/movements/{id}",
		Summary:     "Delete movement",
		Description: "Deletes the movement record and queues its video for cleanup. Admin only.",
		Tags:        []string{"Movements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMovement)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovementVideoURL",
		Method:      http.MethodGet,
		Path:        "/api/v1/movements/{id}/video-url",
		Summary:     "Get playback URL",
		Description: "Issues a signed, time-limited URL for streaming the movement's video",
		Tags:        []string{"Movements"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetVideoURL)
}

// === DTOs ===

// VideoInfoResponse describes the stored video backing a movement.
type VideoInfoResponse struct {
	Object       string `json:"object" doc:"Storage object name"`
	OriginalName string `json:"original_name" doc:"Filename as uploaded"`
	Size         int64  `json:"size" doc:"Size in bytes"`
	ContentType  string `json:"content_type,omitempty" doc:"MIME type"`
}

// MovementResponse contains movement data in API responses.
type MovementResponse struct {
	ID         string            `json:"id" doc:"Movement ID"`
	Name       string            `json:"name" doc:"Primary name"`
	AltNames   []string          `json:"alt_names,omitempty" doc:"Alternate names"`
	Tags       []string          `json:"tags,omitempty" doc:"Tag names"`
	Comments   string            `json:"comments,omitempty" doc:"Coaching notes"`
	Video      VideoInfoResponse `json:"video" doc:"Stored video info"`
	UploadedBy string            `json:"uploaded_by,omitempty" doc:"Uploader user ID"`
	CreatedAt  time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time         `json:"updated_at" doc:"Last update time"`
}

// MovementOutput wraps a movement response for Huma.
type MovementOutput struct {
	Body MovementResponse
}

// GetMovementInput contains parameters for fetching a movement.
type GetMovementInput struct {
	ID string `path:"id" doc:"Movement ID"`
}

// UpdateMovementRequest is the request body for editing movement metadata.
type UpdateMovementRequest struct {
	Name     *string   `json:"name,omitempty" doc:"New primary name (non-empty after trim)"`
	AltNames *[]string `json:"alt_names,omitempty" doc:"Replacement alias list"`
	Tags     *[]string `json:"tags,omitempty" doc:"Replacement tag list (names must exist)"`
	Comments *string   `json:"comments,omitempty" doc:"New comments"`
}

// UpdateMovementInput wraps the movement edit request for Huma.
type UpdateMovementInput struct {
	ID   string `path:"id" doc:"Movement ID"`
	Body UpdateMovementRequest
}

// DeleteMovementInput contains parameters for deleting a movement.
type DeleteMovementInput struct {
	ID string `path:"id" doc:"Movement ID"`
}

// CheckNameInput contains the name to check.
type CheckNameInput struct {
	Name string `query:"name" required:"true" doc:"Movement name to check"`
}

// CheckNameResponse reports whether a movement name is taken.
type CheckNameResponse struct {
	Exists     bool   `json:"exists" doc:"Whether a movement with this name exists"`
	MovementID string `json:"movement_id,omitempty" doc:"ID of the existing movement"`
}

// CheckNameOutput wraps the check-name response for Huma.
type CheckNameOutput struct {
	Body CheckNameResponse
}

// VideoURLResponse carries a signed playback URL.
type VideoURLResponse struct {
	URL       string    `json:"url" doc:"Signed playback URL, relative to the server"`
	ExpiresAt time.Time `json:"expires_at" doc:"When the URL stops working"`
}

// VideoURLOutput wraps the playback URL response for Huma.
type VideoURLOutput struct {
	Body VideoURLResponse
}

// === Handlers ===

func (s *Server) handleGetMovement(ctx context.Context, input *GetMovementInput) (*MovementOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	movement, err := s.services.Movement.GetMovement(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &MovementOutput{Body: mapMovementResponse(movement)}, nil
}

func (s *Server) handleUpdateMovement(ctx context.Context, input *UpdateMovementInput) (*MovementOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	movement, err := s.services.Movement.UpdateMovement(ctx, input.ID, service.UpdateMovementRequest{
		Name:     input.Body.Name,
		AltNames: input.Body.AltNames,
		Tags:     input.Body.Tags,
		Comments: input.Body.Comments,
	})
	if err != nil {
		return nil, err
	}

	return &MovementOutput{Body: mapMovementResponse(movement)}, nil
}

func (s *Server) handleDeleteMovement(ctx context.Context, input *DeleteMovementInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Movement.DeleteMovement(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Movement deleted"}}, nil
}

func (s *Server) handleCheckMovementName(ctx context.Context, input *CheckNameInput) (*CheckNameOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	exists, movement, err := s.services.Movement.CheckName(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	resp := CheckNameResponse{Exists: exists}
	if movement != nil {
		resp.MovementID = movement.ID
	}

	return &CheckNameOutput{Body: resp}, nil
}

func (s *Server) handleGetVideoURL(ctx context.Context, input *GetMovementInput) (*VideoURLOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.services.Movement.PlaybackURL(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &VideoURLOutput{
		Body: VideoURLResponse{
			URL:       url,
			ExpiresAt: expiresAt,
		},
	}, nil
}

func mapMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		ID:       m.ID,
		Name:     m.Name,
		AltNames: m.AltNames,
		Tags:     m.Tags,
		Comments: m.Comments,
		Video: VideoInfoResponse{
			Object:       m.Video.Object,
			OriginalName: m.Video.OriginalName,
			Size:         m.Video.Size,
			ContentType:  m.Video.ContentType,
		},
		UploadedBy: m.UploadedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
