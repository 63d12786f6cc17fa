package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createInvite(t *testing.T, adminToken, name, email, role string) *InviteResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/invites", map[string]any{
		"name":  name,
		"email": email,
		"role":  role,
	}, "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, "Invite failed: %s", resp.Body.String())

	var envelope testEnvelope[InviteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return &envelope.Data
}

func TestCreateInvite_ReturnsClaimURL(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, rootID := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	assert.NotEmpty(t, inv.ID)
	assert.NotEmpty(t, inv.Code)
	assert.Equal(t, "New Coach", inv.Name)
	assert.Equal(t, "coach@test.com", inv.Email)
	assert.Equal(t, "coach", inv.Role)
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, rootID, inv.CreatedBy)
	assert.Equal(t, "http://localhost:8080/join/"+inv.Code, inv.URL)
}

func TestCreateInvite_CoachForbidden(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)
	coachToken, _ := ts.inviteCoach(t, adminToken, "coach@test.com")

	resp := ts.api.Post("/api/v1/invites", map[string]any{
		"name":  "Friend",
		"email": "friend@test.com",
		"role":  "coach",
	}, "Authorization: Bearer "+coachToken)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestCreateInvite_ExistingUserEmailConflict(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	resp := ts.api.Post("/api/v1/invites", map[string]any{
		"name":  "Root Again",
		"email": "root@test.com",
		"role":  "coach",
	}, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestCreateInvite_PendingInviteConflict(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	// Same email, different casing, still a pending duplicate.
	resp := ts.api.Post("/api/v1/invites", map[string]any{
		"name":  "New Coach",
		"email": "Coach@Test.com",
		"role":  "coach",
	}, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestInviteDetails_Public(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	// No Authorization header; the claim page is public.
	resp := ts.api.Get("/api/v1/invites/code/" + inv.Code)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[InviteDetailsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "New Coach", envelope.Data.Name)
	assert.Equal(t, "coach@test.com", envelope.Data.Email)
	assert.Equal(t, "Test Server", envelope.Data.ServerName)
	assert.Equal(t, "Root Admin", envelope.Data.InvitedBy)
	assert.True(t, envelope.Data.Valid)
}

func TestInviteDetails_UnknownCode(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupRoot(t)

	resp := ts.api.Get("/api/v1/invites/code/nosuchcode")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestClaimInvite_CreatesUserAndSession(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	resp := ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     inv.Code,
		"password": "CoachPassword1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "coach@test.com", envelope.Data.User.Email)
	assert.Equal(t, "New Coach", envelope.Data.User.FullName)
	assert.Equal(t, "coach", envelope.Data.User.Role)
	assert.NotEmpty(t, envelope.Data.AccessToken)

	// The returned session works straight away.
	me := ts.api.Get("/api/v1/auth/me", "Authorization: Bearer "+envelope.Data.AccessToken)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestClaimInvite_SecondClaimConflicts(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	resp := ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     inv.Code,
		"password": "CoachPassword1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     inv.Code,
		"password": "OtherPassword1",
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestClaimInvite_ShortPasswordRejected(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	resp := ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     inv.Code,
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestListInvites_ShowsStatus(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	claimed := ts.createInvite(t, adminToken, "Claimed Coach", "claimed@test.com", "coach")
	resp := ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     claimed.Code,
		"password": "CoachPassword1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	ts.createInvite(t, adminToken, "Pending Coach", "pending@test.com", "coach")

	list := ts.api.Get("/api/v1/invites", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())

	var envelope testEnvelope[ListInvitesResponse]
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Invites, 2)

	statuses := make(map[string]string)
	for _, inv := range envelope.Data.Invites {
		statuses[inv.Email] = inv.Status
	}
	assert.Equal(t, "claimed", statuses["claimed@test.com"])
	assert.Equal(t, "pending", statuses["pending@test.com"])
}

func TestRevokeInvite(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")

	resp := ts.api.Delete("/api/v1/invites/"+inv.ID, "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The code no longer resolves.
	resp = ts.api.Get("/api/v1/invites/code/" + inv.Code)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// And the email can be invited again.
	ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")
}

func TestRevokeInvite_ClaimedConflicts(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)

	inv := ts.createInvite(t, adminToken, "New Coach", "coach@test.com", "coach")
	resp := ts.api.Post("/api/v1/invites/claim", map[string]any{
		"code":     inv.Code,
		"password": "CoachPassword1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/invites/"+inv.ID, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}
