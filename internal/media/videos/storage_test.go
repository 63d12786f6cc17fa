package videos

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return s
}

func TestNewStorage_Validation(t *testing.T) {
	_, err := NewStorage("", 1)
	assert.Error(t, err)

	_, err = NewStorage(t.TempDir(), 0)
	assert.Error(t, err)
}

func TestStorage_SaveAndOpen(t *testing.T) {
	s := setupTestStorage(t)

	object, written, err := s.Save(strings.NewReader("video-bytes"), "Back Squat.MP4")
	require.NoError(t, err)
	assert.Equal(t, int64(len("video-bytes")), written)

	// Random name, lowercased original extension preserved.
	assert.Equal(t, ".mp4", filepath.Ext(object))
	assert.NotContains(t, object, "Back")

	f, info, err := s.Open(object)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, written, info.Size())

	buf := make([]byte, info.Size())
	_, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(buf))
}

func TestStorage_SaveUniqueObjects(t *testing.T) {
	s := setupTestStorage(t)

	a, _, err := s.Save(strings.NewReader("one"), "clip.mp4")
	require.NoError(t, err)
	b, _, err := s.Save(strings.NewReader("two"), "clip.mp4")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStorage_SaveRejectsOversized(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 8)
	require.NoError(t, err)

	_, _, err = s.Save(strings.NewReader("123456789"), "big.mp4")
	assert.ErrorIs(t, err, ErrTooLarge)

	// Exactly at the cap is fine.
	object, written, err := s.Save(strings.NewReader("12345678"), "ok.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(8), written)
	assert.True(t, s.Exists(object))
}

func TestStorage_SaveRejectsEmpty(t *testing.T) {
	s := setupTestStorage(t)

	_, _, err := s.Save(strings.NewReader(""), "empty.mp4")
	assert.Error(t, err)
}

func TestStorage_Delete(t *testing.T) {
	s := setupTestStorage(t)

	object, _, err := s.Save(strings.NewReader("data"), "clip.mov")
	require.NoError(t, err)
	require.True(t, s.Exists(object))

	require.NoError(t, s.Delete(object))
	assert.False(t, s.Exists(object))

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(object))
}

func TestStorage_RejectsPathTraversal(t *testing.T) {
	s := setupTestStorage(t)

	for _, object := range []string{"", "..", "../etc/passwd", `..\win`, "a/b"} {
		_, _, err := s.Open(object)
		assert.Error(t, err, "object %q", object)
		assert.False(t, s.Exists(object))
	}
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer, err := NewSigner([]byte("test-key-32-bytes-test-key-32-by"), time.Hour)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := signer.SignedPath("abc123.mp4", now)

	assert.Contains(t, path, "/api/v1/videos/abc123.mp4?")
	assert.Contains(t, path, "exp=")
	assert.Contains(t, path, "sig=")

	exp, sig := extractParams(t, path)

	// Valid within TTL.
	assert.NoError(t, signer.Verify("abc123.mp4", exp, sig, now.Add(30*time.Minute)))

	// Expired after TTL.
	assert.Error(t, signer.Verify("abc123.mp4", exp, sig, now.Add(2*time.Hour)))

	// Signature bound to the object name.
	assert.Error(t, signer.Verify("other.mp4", exp, sig, now))

	// Tampered expiry fails.
	assert.Error(t, signer.Verify("abc123.mp4", "9999999999", sig, now))

	// Garbage inputs fail.
	assert.Error(t, signer.Verify("abc123.mp4", "nope", sig, now))
	assert.Error(t, signer.Verify("abc123.mp4", exp, "bad-sig", now))
}

func TestSigner_Validation(t *testing.T) {
	_, err := NewSigner(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewSigner([]byte("key"), 0)
	assert.Error(t, err)
}

func extractParams(t *testing.T, path string) (exp, sig string) {
	t.Helper()
	_, query, ok := strings.Cut(path, "?")
	require.True(t, ok)
	for _, kv := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "exp":
			exp = v
		case "sig":
			sig = v
		}
	}
	require.NotEmpty(t, exp)
	require.NotEmpty(t, sig)
	return exp, sig
}
