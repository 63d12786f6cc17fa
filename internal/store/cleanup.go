package store

import (
	"context"
	"fmt"
	"time"

	"github.com/movelogapp/movelog-server/internal/domain"
)

// EnqueueCleanup stores a new cleanup task for a storage object.
func (s *Store) EnqueueCleanup(ctx context.Context, task *domain.CleanupTask) error {
	task.InitTimestamps()
	return s.CleanupTasks.Create(ctx, task.ID, task)
}

// UpdateCleanupTask persists retry bookkeeping for a cleanup task.
func (s *Store) UpdateCleanupTask(ctx context.Context, task *domain.CleanupTask) error {
	task.Touch()
	return s.CleanupTasks.Update(ctx, task.ID, task)
}

// DeleteCleanupTask removes a completed cleanup task.
func (s *Store) DeleteCleanupTask(ctx context.Context, id string) error {
	return s.CleanupTasks.Delete(ctx, id)
}

// ListDueCleanupTasks returns all cleanup tasks whose next attempt is due.
func (s *Store) ListDueCleanupTasks(ctx context.Context, now time.Time) ([]*domain.CleanupTask, error) {
	var tasks []*domain.CleanupTask
	for t, err := range s.CleanupTasks.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list cleanup tasks: %w", err)
		}
		if !t.NextAttemptAt.After(now) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}
