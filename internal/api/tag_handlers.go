package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags with usage counts, sorted by name",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a new tag. Names are unique case-insensitively.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Rename tag",
		Description: "Renames a tag and cascades the new name into every movement using it. Partial failures are reported per movement.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes the tag record. Movements keep the stale name.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID         string    `json:"id" doc:"Tag ID"`
	Name       string    `json:"name" doc:"Tag name"`
	UsageCount int       `json:"usage_count" doc:"Movements referencing this tag"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// RenameTagRequest is the request body for renaming a tag.
type RenameTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50" doc:"New tag name"`
}

// RenameTagInput wraps the rename tag request for Huma.
type RenameTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body RenameTagRequest
}

// RenameFailure describes a movement the cascade could not update.
type RenameFailure struct {
	MovementID   string `json:"movement_id" doc:"Movement that failed to update"`
	MovementName string `json:"movement_name" doc:"Primary name of the movement"`
	Error        string `json:"error" doc:"What went wrong"`
}

// RenameTagResponse reports the outcome of a rename cascade.
type RenameTagResponse struct {
	Tag     TagResponse     `json:"tag" doc:"Tag after the rename"`
	Renamed int             `json:"renamed" doc:"Movements updated with the new name"`
	Failed  []RenameFailure `json:"failed,omitempty" doc:"Movements that could not be updated"`
}

// RenameTagOutput wraps the rename response for Huma.
type RenameTagOutput struct {
	Body RenameTagResponse
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = mapTagResponse(t.Tag, t.UsageCount)
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	t, err := s.services.Tag.CreateTag(ctx, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTagResponse(t, 0)}, nil
}

func (s *Server) handleRenameTag(ctx context.Context, input *RenameTagInput) (*RenameTagOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Tag.RenameTag(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	failed := make([]RenameFailure, len(result.Failed))
	for i, f := range result.Failed {
		failed[i] = RenameFailure{
			MovementID:   f.MovementID,
			MovementName: f.MovementName,
			Error:        f.Error,
		}
	}

	return &RenameTagOutput{
		Body: RenameTagResponse{
			Tag:     mapTagResponse(result.Tag, result.Renamed),
			Renamed: result.Renamed,
			Failed:  failed,
		},
	}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*MessageOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}

func mapTagResponse(t *domain.Tag, usage int) TagResponse {
	return TagResponse{
		ID:         t.ID,
		Name:       t.Name,
		UsageCount: usage,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
