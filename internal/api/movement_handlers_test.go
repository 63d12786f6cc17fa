package api

import (
	"bytes"
	"encoding/json/v2"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadMovement posts a multipart movement create and returns the response.
func (ts *testServer) uploadMovement(t *testing.T, token, name string, altNames, tags []string, video []byte) *testEnvelope[MovementResponse] {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	for _, a := range altNames {
		require.NoError(t, mw.WriteField("alt_names", a))
	}
	for _, tag := range tags {
		require.NoError(t, mw.WriteField("tags", tag))
	}
	fw, err := mw.CreateFormFile("file", "demo.mp4")
	require.NoError(t, err)
	_, err = fw.Write(video)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := ts.api.Post("/api/v1/movements",
		"Authorization: Bearer "+token,
		"Content-Type: "+mw.FormDataContentType(),
		&buf)
	require.Equal(t, http.StatusCreated, resp.Code, "Upload failed: %s", resp.Body.String())

	var envelope testEnvelope[MovementResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return &envelope
}

func TestCreateMovement_Multipart(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.setupRoot(t)
	ts.createTag(t, token, "Legs")

	envelope := ts.uploadMovement(t, token, "Back Squat", []string{"BS"}, []string{"Legs"}, []byte("fake video bytes"))

	m := envelope.Data
	assert.Equal(t, "Back Squat", m.Name)
	assert.Equal(t, []string{"BS"}, m.AltNames)
	assert.Equal(t, []string{"Legs"}, m.Tags)
	assert.Equal(t, userID, m.UploadedBy)
	assert.Equal(t, "demo.mp4", m.Video.OriginalName)
	assert.Equal(t, int64(len("fake video bytes")), m.Video.Size)
	assert.True(t, strings.HasSuffix(m.Video.Object, ".mp4"), "object should keep the extension: %s", m.Video.Object)
}

func TestCreateMovement_UnknownTagRejected(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Back Squat"))
	require.NoError(t, mw.WriteField("tags", "NoSuchTag"))
	fw, err := mw.CreateFormFile("file", "demo.mp4")
	require.NoError(t, err)
	_, err = fw.Write([]byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := ts.api.Post("/api/v1/movements",
		"Authorization: Bearer "+token,
		"Content-Type: "+mw.FormDataContentType(),
		&buf)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestCreateMovement_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupRoot(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Back Squat"))
	require.NoError(t, mw.Close())

	resp := ts.api.Post("/api/v1/movements",
		"Content-Type: "+mw.FormDataContentType(),
		&buf)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetMovement_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	resp := ts.api.Get("/api/v1/movements/mov-missing", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateMovement_Metadata(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)
	ts.createTag(t, token, "Legs")
	ts.createTag(t, token, "Olympic")

	created := ts.uploadMovement(t, token, "Back Squat", nil, []string{"Legs"}, []byte("v"))

	resp := ts.api.Patch("/api/v1/movements/"+created.Data.ID, map[string]any{
		"name":      "  Front Squat  ",
		"alt_names": []string{"FS", "FS", " ", "Fronties"},
		"tags":      []string{"Olympic"},
		"comments":  "Elbows up.",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[MovementResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	m := envelope.Data
	assert.Equal(t, "Front Squat", m.Name)
	assert.Equal(t, []string{"FS", "Fronties"}, m.AltNames, "aliases are trimmed and deduped")
	assert.Equal(t, []string{"Olympic"}, m.Tags)
	assert.Equal(t, "Elbows up.", m.Comments)
}

func TestUpdateMovement_EmptyNameRejected(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	created := ts.uploadMovement(t, token, "Back Squat", nil, nil, []byte("v"))

	resp := ts.api.Patch("/api/v1/movements/"+created.Data.ID, map[string]any{
		"name": "   ",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestDeleteMovement_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRoot(t)
	coachToken, _ := ts.inviteCoach(t, adminToken, "coach@test.com")

	created := ts.uploadMovement(t, adminToken, "Back Squat", nil, nil, []byte("v"))

	resp := ts.api.Delete("/api/v1/movements/"+created.Data.ID, "Authorization: Bearer "+coachToken)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/movements/"+created.Data.ID, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/movements/"+created.Data.ID, "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCheckMovementName(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	ts.uploadMovement(t, token, "Back Squat", nil, nil, []byte("v"))

	resp := ts.api.Get("/api/v1/movements/check-name?name=back+squat", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[CheckNameResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Exists, "check is case-insensitive")
	assert.NotEmpty(t, envelope.Data.MovementID)

	resp = ts.api.Get("/api/v1/movements/check-name?name=Deadlift", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Exists)
}

func TestReplaceVideo(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	created := ts.uploadMovement(t, token, "Back Squat", nil, nil, []byte("old video"))
	oldObject := created.Data.Video.Object

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "better.mov")
	require.NoError(t, err)
	_, err = fw.Write([]byte("new longer video"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := ts.api.Put("/api/v1/movements/"+created.Data.ID+"/video",
		"Authorization: Bearer "+token,
		"Content-Type: "+mw.FormDataContentType(),
		&buf)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[MovementResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.NotEqual(t, oldObject, envelope.Data.Video.Object)
	assert.Equal(t, "better.mov", envelope.Data.Video.OriginalName)
	assert.Equal(t, int64(len("new longer video")), envelope.Data.Video.Size)
}

func TestVideoURL_AndStreaming(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	created := ts.uploadMovement(t, token, "Back Squat", nil, nil, []byte("0123456789"))

	resp := ts.api.Get("/api/v1/movements/"+created.Data.ID+"/video-url", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[VideoURLResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.URL)

	// The signed URL works without an Authorization header.
	stream := ts.api.Get(envelope.Data.URL)
	require.Equal(t, http.StatusOK, stream.Code)
	assert.Equal(t, "0123456789", stream.Body.String())

	// Range requests are honored for seeking.
	partial := ts.api.Get(envelope.Data.URL, "Range: bytes=2-5")
	require.Equal(t, http.StatusPartialContent, partial.Code)
	assert.Equal(t, "2345", partial.Body.String())
}

func TestStreamVideo_BadSignature(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.setupRoot(t)

	created := ts.uploadMovement(t, token, "Back Squat", nil, nil, []byte("0123456789"))

	resp := ts.api.Get("/api/v1/videos/" + created.Data.Video.Object + "?exp=9999999999&sig=deadbeef")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
