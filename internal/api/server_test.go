package api

import (
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/movelogapp/movelog-server/internal/auth"
	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/email"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/service"
	"github.com/movelogapp/movelog-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testServer wraps the API server with everything tests need.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
	cleanup      *service.CleanupService
}

// setupTestServer creates a full server against a throwaway BadgerDB and
// video directory.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.New(tmpDir+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:      "Test Server",
			PublicURL: "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
			ResetTokenDuration:   time.Hour,
		},
		Media: config.MediaConfig{
			MaxVideoSize:   64 << 20,
			PlaybackURLTTL: time.Hour,
		},
	}

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	cfg.Auth.AccessTokenKey = authKey

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		cfg.Auth.AccessTokenDuration,
		cfg.Auth.RefreshTokenDuration,
	)
	require.NoError(t, err)

	videoStorage, err := videos.NewStorage(tmpDir+"/videos", cfg.Media.MaxVideoSize)
	require.NoError(t, err)

	signer, err := videos.NewSigner(authKey, cfg.Media.PlaybackURLTTL)
	require.NoError(t, err)

	emailSender := email.NewLogSender(logger)

	sessionService := service.NewSessionService(st, tokenService, logger)
	instanceService := service.NewInstanceService(st, logger, cfg, "test")
	authService := service.NewAuthService(st, tokenService, sessionService, instanceService, emailSender, cfg, logger)
	profileService := service.NewProfileService(st, logger)
	catalogService := service.NewCatalogService(st, logger)
	tagService := service.NewTagService(st, logger)
	cleanupService := service.NewCleanupService(st, videoStorage, logger)
	movementService := service.NewMovementService(st, videoStorage, signer, cleanupService, logger)
	adminService := service.NewAdminService(st, authService, logger)
	inviteService := service.NewInviteService(st, sessionService, emailSender, cfg, logger)

	services := &Services{
		Instance: instanceService,
		Auth:     authService,
		Session:  sessionService,
		Profile:  profileService,
		Catalog:  catalogService,
		Movement: movementService,
		Tag:      tagService,
		Admin:    adminService,
		Invite:   inviteService,
	}

	s := NewServer(cfg, st, services, videoStorage, signer, logger)

	_, err = instanceService.InitializeInstance(context.Background())
	require.NoError(t, err)

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, s.api),
		tokenService: tokenService,
		cleanup:      cleanupService,
	}
}

// setupRoot runs first-run setup and returns the root admin's token and ID.
func (ts *testServer) setupRoot(t *testing.T) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":     "root@test.com",
		"password":  "RootPassword1",
		"full_name": "Root Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// inviteCoach invites and claims a coach account, returning its token and ID.
func (ts *testServer) inviteCoach(t *testing.T, adminToken, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/invites", map[string]any{
		"name":  "Coach " + email,
		"email": email,
		"role":  "coach",
	}, "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, "Invite failed: %s", resp.Body.String())

	var created testEnvelope[InviteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     created.Data.Code,
		"password": "CoachPassword1",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Claim failed: %s", resp.Body.String())

	var claimed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &claimed))

	return claimed.Data.AccessToken, claimed.Data.User.ID
}

// loginUser logs in with the given credentials and returns a fresh token
// and the user's ID.
func (ts *testServer) loginUser(t *testing.T, email, password string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// createTag creates a tag and returns its ID.
func (ts *testServer) createTag(t *testing.T, token, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "Create tag failed: %s", resp.Body.String())

	var envelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.ID
}
