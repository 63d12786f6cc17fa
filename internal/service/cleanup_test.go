package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/store"
)

func setupCleanupTest(t *testing.T) (*CleanupService, *store.Store, *videos.Storage) {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := store.New(tmpDir+"/test.db", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	videoStorage, err := videos.NewStorage(tmpDir+"/videos", 1<<20)
	require.NoError(t, err)

	return NewCleanupService(st, videoStorage, nil), st, videoStorage
}

func TestCleanupService_RemovesOrphanedObject(t *testing.T) {
	svc, st, videoStorage := setupCleanupTest(t)
	ctx := context.Background()

	object, _, err := videoStorage.Save(bytes.NewReader([]byte("video data")), "demo.mp4")
	require.NoError(t, err)
	require.True(t, videoStorage.Exists(object))

	svc.Enqueue(ctx, object)
	require.NoError(t, svc.ProcessDue(ctx))

	assert.False(t, videoStorage.Exists(object))

	tasks, err := st.ListDueCleanupTasks(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCleanupService_MissingObjectCompletesTask(t *testing.T) {
	svc, st, _ := setupCleanupTest(t)
	ctx := context.Background()

	// Deleting an object that was already removed out of band is success,
	// not a retry.
	svc.Enqueue(ctx, "already-gone.mp4")
	require.NoError(t, svc.ProcessDue(ctx))

	tasks, err := st.ListDueCleanupTasks(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCleanupService_RetriesWithBackoff(t *testing.T) {
	svc, st, _ := setupCleanupTest(t)
	ctx := context.Background()

	// A name with a path separator fails validation on every attempt.
	svc.Enqueue(ctx, "bad/object.mp4")
	require.NoError(t, svc.ProcessDue(ctx))

	// Not due again immediately.
	tasks, err := st.ListDueCleanupTasks(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Due once the backoff window passes, with the failure recorded.
	tasks, err = st.ListDueCleanupTasks(ctx, time.Now().Add(2*cleanupInterval))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].Attempts)
	assert.NotEmpty(t, tasks[0].LastError)
}

func TestCleanupService_GivesUpAfterMaxAttempts(t *testing.T) {
	svc, st, _ := setupCleanupTest(t)
	ctx := context.Background()

	svc.Enqueue(ctx, "bad/object.mp4")

	tasks, err := st.ListDueCleanupTasks(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Fast-forward the retry bookkeeping to the final attempt.
	task := tasks[0]
	task.Attempts = cleanupMaxAttempts - 1
	task.NextAttemptAt = time.Now().Add(-time.Minute)
	require.NoError(t, st.UpdateCleanupTask(ctx, task))

	require.NoError(t, svc.ProcessDue(ctx))

	tasks, err = st.ListDueCleanupTasks(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, tasks, "exhausted task should be dropped")
}
