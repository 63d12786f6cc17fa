package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/auth"
	"github.com/movelogapp/movelog-server/internal/domain"
	"github.com/movelogapp/movelog-server/internal/service"
)

func (s *Server) registerInviteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/invites",
		Summary:     "Create invite",
		Description: "Creates a single-use invite and emails the claim link. Admin only.",
		Tags:        []string{"Invites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateInvite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listInvites",
		Method:      http.MethodGet,
		Path:        "/api/v1/invites",
		Summary:     "List invites",
		Description: "Returns all invites with their status. Admin only.",
		Tags:        []string{"Invites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListInvites)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteInvite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/invites/{id}",
		Summary:     "Revoke invite",
		Description: "Revokes a pending invite. Claimed invites cannot be revoked. Admin only.",
		Tags:        []string{"Invites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteInvite)

	huma.Register(s.api, huma.Operation{
		OperationID: "getInviteDetails",
		Method:      http.MethodGet,
		Path:        "/api/v1/invites/code/{code}",
		Summary:     "Get invite details",
		Description: "Public lookup for the claim page: invitee name, email, and validity",
		Tags:        []string{"Invites"},
	}, s.handleGetInviteDetails)

	huma.Register(s.api, huma.Operation{
		OperationID: "claimInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/invites/claim",
		Summary:     "Claim invite",
		Description: "Creates the invited user and returns a session",
		Tags:        []string{"Invites"},
	}, s.handleClaimInvite)
}

// === DTOs ===

// CreateInviteRequest is the request body for creating an invite.
type CreateInviteRequest struct {
	Name  string `json:"name" validate:"required,max=100" doc:"Invitee full name"`
	Email string `json:"email" validate:"required,email,max=254" doc:"Invitee email"`
	Role  string `json:"role" validate:"required,oneof=admin coach" doc:"Role assigned on claim"`
}

// CreateInviteInput wraps the create invite request for Huma.
type CreateInviteInput struct {
	Body CreateInviteRequest
}

// InviteResponse contains invite data in API responses.
type InviteResponse struct {
	ID        string     `json:"id" doc:"Invite ID"`
	Code      string     `json:"code" doc:"Claim code"`
	Name      string     `json:"name" doc:"Invitee full name"`
	Email     string     `json:"email" doc:"Invitee email"`
	Role      string     `json:"role" doc:"Role assigned on claim"`
	Status    string     `json:"status" doc:"pending, claimed, expired, or revoked"`
	URL       string     `json:"url,omitempty" doc:"Full claim URL"`
	CreatedBy string     `json:"created_by" doc:"Admin who created the invite"`
	CreatedAt time.Time  `json:"created_at" doc:"Creation time"`
	ExpiresAt time.Time  `json:"expires_at" doc:"Expiry time"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty" doc:"When the invite was claimed"`
}

// InviteOutput wraps a single invite for Huma.
type InviteOutput struct {
	Body InviteResponse
}

// ListInvitesResponse contains all invites.
type ListInvitesResponse struct {
	Invites []InviteResponse `json:"invites" doc:"All invites"`
}

// ListInvitesOutput wraps the invite list for Huma.
type ListInvitesOutput struct {
	Body ListInvitesResponse
}

// InviteIDInput contains an invite ID.
type InviteIDInput struct {
	ID string `path:"id" doc:"Invite ID"`
}

// InviteCodeInput contains an invite code.
type InviteCodeInput struct {
	Code string `path:"code" doc:"Invite code"`
}

// InviteDetailsResponse is the public claim-page view of an invite.
type InviteDetailsResponse struct {
	Name       string `json:"name" doc:"Invitee full name"`
	Email      string `json:"email" doc:"Invitee email"`
	ServerName string `json:"server_name" doc:"Server display name"`
	InvitedBy  string `json:"invited_by" doc:"Name of the inviting admin"`
	Valid      bool   `json:"valid" doc:"Whether the invite can still be claimed"`
}

// InviteDetailsOutput wraps the public invite details for Huma.
type InviteDetailsOutput struct {
	Body InviteDetailsResponse
}

// ClaimInviteRequest is the request body for claiming an invite.
type ClaimInviteRequest struct {
	Code       string     `json:"code" validate:"required" doc:"Invite code"`
	Password   string     `json:"password" validate:"required,min=6,max=1024" doc:"Password for the new account"`
	ClientInfo ClientInfo `json:"client_info,omitempty" doc:"Client info"`
}

// ClaimInviteInput wraps the claim request with headers for Huma.
type ClaimInviteInput struct {
	Body          ClaimInviteRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// === Handlers ===

func (s *Server) handleCreateInvite(ctx context.Context, input *CreateInviteInput) (*InviteOutput, error) {
	admin, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Invite.CreateInvite(ctx, admin, service.CreateInviteRequest{
		Name:  input.Body.Name,
		Email: input.Body.Email,
		Role:  domain.Role(input.Body.Role),
	})
	if err != nil {
		return nil, err
	}

	body := mapInviteResponse(resp.Invite)
	body.URL = resp.URL

	return &InviteOutput{Body: body}, nil
}

func (s *Server) handleListInvites(ctx context.Context, _ *struct{}) (*ListInvitesOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	invites, err := s.services.Invite.ListInvites(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]InviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = mapInviteResponse(inv)
		resp[i].URL = s.services.Invite.GetInviteURL(inv.Code)
	}

	return &ListInvitesOutput{Body: ListInvitesResponse{Invites: resp}}, nil
}

func (s *Server) handleDeleteInvite(ctx context.Context, input *InviteIDInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Invite.DeleteInvite(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Invite revoked"}}, nil
}

func (s *Server) handleGetInviteDetails(ctx context.Context, input *InviteCodeInput) (*InviteDetailsOutput, error) {
	details, err := s.services.Invite.GetInviteDetails(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	return &InviteDetailsOutput{
		Body: InviteDetailsResponse{
			Name:       details.Name,
			Email:      details.Email,
			ServerName: details.ServerName,
			InvitedBy:  details.InvitedBy,
			Valid:      details.Valid,
		},
	}, nil
}

func (s *Server) handleClaimInvite(ctx context.Context, input *ClaimInviteInput) (*AuthOutput, error) {
	resp, err := s.services.Invite.ClaimInvite(ctx, service.ClaimInviteRequest{
		Code:     input.Body.Code,
		Password: input.Body.Password,
		ClientInfo: auth.ClientInfo{
			ClientName: input.Body.ClientInfo.ClientName,
			Platform:   input.Body.ClientInfo.Platform,
		},
		IPAddress: extractIP(input.XForwardedFor, input.XRealIP),
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func mapInviteResponse(inv *domain.Invite) InviteResponse {
	return InviteResponse{
		ID:        inv.ID,
		Code:      inv.Code,
		Name:      inv.Name,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Status:    inv.Status(),
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt,
		ExpiresAt: inv.ExpiresAt,
		ClaimedAt: inv.ClaimedAt,
	}
}
