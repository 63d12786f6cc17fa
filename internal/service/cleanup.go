package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/movelogapp/movelog-server/internal/domain"
	"github.com/movelogapp/movelog-server/internal/id"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/store"
)

const (
	// cleanupInterval is how often the worker scans for due tasks.
	cleanupInterval = time.Minute
	// cleanupMaxAttempts bounds retries before a task is dropped.
	cleanupMaxAttempts = 10
)

// CleanupService removes orphaned video objects left behind by movement
// deletes and video replacements. Tasks are persisted so objects orphaned
// right before a crash are still removed after restart, and each removal is
// retried with backoff until it succeeds or runs out of attempts.
type CleanupService struct {
	store  store.Interface
	videos *videos.Storage
	logger *slog.Logger
}

// NewCleanupService creates a new cleanup service.
func NewCleanupService(store store.Interface, videoStorage *videos.Storage, logger *slog.Logger) *CleanupService {
	return &CleanupService{
		store:  store,
		videos: videoStorage,
		logger: logger,
	}
}

// Enqueue records a storage object for removal. Enqueue failures are only
// logged: callers enqueue after their own authoritative write has already
// succeeded, and a failed enqueue must not unwind that.
func (s *CleanupService) Enqueue(ctx context.Context, object string) {
	taskID, err := id.Generate("clean")
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to generate cleanup task ID", "object", object, "error", err)
		}
		return
	}

	task := &domain.CleanupTask{
		Record: domain.Record{
			ID: taskID,
		},
		Object:        object,
		NextAttemptAt: time.Now(),
	}

	if err := s.store.EnqueueCleanup(ctx, task); err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to enqueue storage cleanup", "object", object, "error", err)
		}
		return
	}

	if s.logger != nil {
		s.logger.Debug("Storage cleanup queued", "object", object, "task_id", taskID)
	}
}

// Run processes due tasks on an interval until the context is cancelled.
func (s *CleanupService) Run(ctx context.Context) {
	// Work off anything left over from before the last shutdown.
	if err := s.ProcessDue(ctx); err != nil && s.logger != nil {
		s.logger.Error("Storage cleanup pass failed", "error", err)
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ProcessDue(ctx); err != nil && s.logger != nil {
				s.logger.Error("Storage cleanup pass failed", "error", err)
			}
		}
	}
}

// ProcessDue attempts every task whose next attempt time has passed.
func (s *CleanupService) ProcessDue(ctx context.Context) error {
	tasks, err := s.store.ListDueCleanupTasks(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("list due cleanup tasks: %w", err)
	}

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.attempt(ctx, task)
	}

	return nil
}

// attempt tries to remove the task's object, updating retry bookkeeping on
// failure. Retries back off linearly with the attempt count.
func (s *CleanupService) attempt(ctx context.Context, task *domain.CleanupTask) {
	err := s.videos.Delete(task.Object)
	if err == nil {
		if derr := s.store.DeleteCleanupTask(ctx, task.ID); derr != nil && s.logger != nil {
			s.logger.Warn("Failed to remove completed cleanup task", "task_id", task.ID, "error", derr)
		}
		if s.logger != nil {
			s.logger.Info("Orphaned video object removed", "object", task.Object, "attempts", task.Attempts+1)
		}
		return
	}

	task.Attempts++
	task.LastError = err.Error()

	if task.Attempts >= cleanupMaxAttempts {
		if s.logger != nil {
			s.logger.Error("Giving up on storage cleanup",
				"object", task.Object,
				"attempts", task.Attempts,
				"error", err,
			)
		}
		if derr := s.store.DeleteCleanupTask(ctx, task.ID); derr != nil && s.logger != nil {
			s.logger.Warn("Failed to remove exhausted cleanup task", "task_id", task.ID, "error", derr)
		}
		return
	}

	task.NextAttemptAt = time.Now().Add(time.Duration(task.Attempts) * cleanupInterval)
	if uerr := s.store.UpdateCleanupTask(ctx, task); uerr != nil && s.logger != nil {
		s.logger.Warn("Failed to update cleanup task", "task_id", task.ID, "error", uerr)
	}

	if s.logger != nil {
		s.logger.Warn("Storage cleanup attempt failed",
			"object", task.Object,
			"attempts", task.Attempts,
			"error", err,
		)
	}
}
