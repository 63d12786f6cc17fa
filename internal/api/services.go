package api

import (
	"github.com/movelogapp/movelog-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Instance *service.InstanceService
	Auth     *service.AuthService
	Session  *service.SessionService
	Profile  *service.ProfileService
	Catalog  *service.CatalogService
	Movement *service.MovementService
	Tag      *service.TagService
	Admin    *service.AdminService
	Invite   *service.InviteService
}
