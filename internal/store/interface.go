// Package store defines the persistence layer for the MoveLog server.
package store

import (
	"context"
	"time"

	"github.com/movelogapp/movelog-server/internal/domain"
)

// Interface defines all persistence operations. Services depend on this
// rather than the Badger-backed implementation so tests can substitute
// lightweight fakes where useful.
type Interface interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountAdmins(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Movements
	CreateMovement(ctx context.Context, movement *domain.Movement) error
	GetMovement(ctx context.Context, id string) (*domain.Movement, error)
	UpdateMovement(ctx context.Context, movement *domain.Movement) error
	DeleteMovement(ctx context.Context, id string) error
	ListMovements(ctx context.Context) ([]*domain.Movement, error)
	ListMovementsWithTag(ctx context.Context, tagName string) ([]*domain.Movement, error)
	FindMovementByName(ctx context.Context, name string) (*domain.Movement, error)
	CountMovements(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// Password Resets
	CreateReset(ctx context.Context, reset *domain.PasswordReset) error
	UpdateReset(ctx context.Context, reset *domain.PasswordReset) error
	GetResetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)

	// Storage Cleanup
	EnqueueCleanup(ctx context.Context, task *domain.CleanupTask) error
	UpdateCleanupTask(ctx context.Context, task *domain.CleanupTask) error
	DeleteCleanupTask(ctx context.Context, id string) error
	ListDueCleanupTasks(ctx context.Context, now time.Time) ([]*domain.CleanupTask, error)

	// Invites
	CreateInvite(ctx context.Context, invite *domain.Invite) error
	GetInvite(ctx context.Context, id string) (*domain.Invite, error)
	GetInviteByCode(ctx context.Context, code string) (*domain.Invite, error)
	UpdateInvite(ctx context.Context, invite *domain.Invite) error
	DeleteInvite(ctx context.Context, inviteID string) error
	ListInvites(ctx context.Context) ([]*domain.Invite, error)
	ListInvitesByCreator(ctx context.Context, creatorID string) ([]*domain.Invite, error)

	// Instance
	GetInstance(ctx context.Context) (*domain.Instance, error)
	CreateInstance(ctx context.Context) (*domain.Instance, error)
	UpdateInstance(ctx context.Context, instance *domain.Instance) error
	InitializeInstance(ctx context.Context) (*domain.Instance, error)
}

var _ Interface = (*Store)(nil)
