package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/movelogapp/movelog-server/internal/auth"
	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/domain"
	"github.com/movelogapp/movelog-server/internal/email"
	domainerrors "github.com/movelogapp/movelog-server/internal/errors"
	"github.com/movelogapp/movelog-server/internal/id"
	"github.com/movelogapp/movelog-server/internal/store"
	"github.com/movelogapp/movelog-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// AuthService handles user authentication (login, setup, token verification)
// and the password reset flow. Session management is delegated to
// SessionService.
type AuthService struct {
	store           store.Interface
	tokenService    *auth.TokenService
	sessionService  *SessionService
	instanceService *InstanceService
	emailSender     email.Sender
	config          *config.Config
	logger          *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Interface,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	instanceService *InstanceService,
	emailSender email.Sender,
	config *config.Config,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:           store,
		tokenService:    tokenService,
		sessionService:  sessionService,
		instanceService: instanceService,
		emailSender:     emailSender,
		config:          config,
		logger:          logger,
	}
}

// SetupRequest contains the initial root user creation data.
type SetupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	FullName string `json:"full_name" validate:"required"`
}

// LoginRequest contains user credentials and client information.
type LoginRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required"`
	ClientInfo auth.ClientInfo `json:"client_info"`
	IPAddress  string          `json:"-"` // Extracted from request by handler
}

// RefreshRequest contains the refresh token and updated client info.
type RefreshRequest struct {
	RefreshToken string          `json:"refresh_token" validate:"required"`
	ClientInfo   auth.ClientInfo `json:"client_info"` // Optional updates
	IPAddress    string          `json:"-"`           // Extracted from request by handler
}

// ForgotPasswordRequest asks for a reset link to be emailed.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a reset with the emailed token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Setup creates the first user (root admin) and completes initial server
// configuration. This endpoint can only be used once, before any users exist.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*AuthResponse, error) {
	// Validate request
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Verify setup is required
	setupRequired, err := s.instanceService.IsSetupRequired(ctx)
	if err != nil {
		return nil, fmt.Errorf("check setup status: %w", err)
	}
	if !setupRequired {
		return nil, domainerrors.AlreadyConfigured("server is already configured")
	}

	// Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Create root user
	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Record: domain.Record{
			ID: userID,
		},
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsRoot:       true,             // First user is root
		Role:         domain.RoleAdmin, // Root user is always admin
		FullName:     req.FullName,
		LastLoginAt:  now,
	}
	user.InitTimestamps()

	// Save user
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Configure instance with root user
	if err := s.instanceService.SetRootUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("configure instance: %w", err)
	}

	// Create initial session
	// Setup happens via web UI, so use basic web client info
	clientInfo := auth.ClientInfo{
		ClientName: "MoveLog Web",
		Platform:   "Web",
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, clientInfo, "")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Server setup complete",
			"user_id", userID,
			"email", user.Email,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Find user by email
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Verify password
	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	// Update last login
	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	// Create session
	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.ClientInfo, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in",
			"user_id", user.ID,
			"platform", req.ClientInfo.Platform,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens generates new tokens using a refresh token.
// The old refresh token is invalidated (token rotation).
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	// Validate request
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.ClientInfo, req.IPAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes a session, invalidating its refresh token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a token and returns the associated user.
// The user is loaded from the store on every call so role and profile
// changes take effect immediately, without waiting out a cache.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	// Verify and parse token
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid token: %w", err)
	}

	// Get user
	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, errors.New("user not found")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// ForgotPassword starts the email-based reset flow. It always reports
// success so the endpoint does not reveal which emails have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			if s.logger != nil {
				s.logger.Info("Password reset requested for unknown email")
			}
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	return s.SendPasswordReset(ctx, user)
}

// SendPasswordReset issues a single-use reset token for the user and emails
// the link. Also used by the admin-triggered reset.
func (s *AuthService) SendPasswordReset(ctx context.Context, user *domain.User) error {
	// The reset token is an opaque random string; only its hash is stored.
	token, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	resetID, err := id.Generate("reset")
	if err != nil {
		return fmt.Errorf("generate reset ID: %w", err)
	}

	reset := &domain.PasswordReset{
		Record: domain.Record{
			ID: resetID,
		},
		UserID:    user.ID,
		TokenHash: auth.HashRefreshToken(token),
		ExpiresAt: time.Now().Add(s.config.Auth.ResetTokenDuration),
	}

	if err := s.store.CreateReset(ctx, reset); err != nil {
		return fmt.Errorf("save reset: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.Server.PublicURL, token)
	msg := email.PasswordResetMessage(user.Email, s.config.Server.Name, resetURL)
	if err := s.emailSender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Password reset issued", "user_id", user.ID)
	}

	return nil
}

// ResetPassword completes the reset flow: consumes the token, sets the new
// password, and revokes all of the user's sessions.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	reset, err := s.store.GetResetByTokenHash(ctx, auth.HashRefreshToken(req.Token))
	if err != nil {
		if errors.Is(err, store.ErrResetNotFound) {
			return domainerrors.TokenExpired("invalid or expired reset link")
		}
		return fmt.Errorf("lookup reset: %w", err)
	}
	if !reset.IsValid() {
		return domainerrors.TokenExpired("invalid or expired reset link")
	}

	user, err := s.store.GetUser(ctx, reset.UserID)
	if err != nil {
		return domainerrors.TokenExpired("invalid or expired reset link")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	// Mark the token used before revoking sessions; a half-finished reset
	// must not leave a reusable token.
	now := time.Now()
	reset.UsedAt = &now
	if err := s.store.UpdateReset(ctx, reset); err != nil {
		return fmt.Errorf("mark reset used: %w", err)
	}

	if err := s.store.DeleteAllUserSessions(ctx, user.ID); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to revoke sessions after password reset",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("Password reset completed", "user_id", user.ID)
	}

	return nil
}
