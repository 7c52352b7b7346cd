// Package job provides background job schedulers.
package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"paste-content-service/pkg/locker"
)

// Task is one periodic background pass: expiration, purge, popularity, or
// rating recomputation. Run must be idempotent, since a pass can be retried
// after a crash or executed back-to-back by different instances.
type Task struct {
	// Name is used in log fields and as part of the lock key.
	Name string

	// Interval between pass attempts. Also the lock TTL (cooldown model).
	Interval time.Duration

	// Timeout bounds a single pass.
	Timeout time.Duration

	// OnStartup runs the task once immediately after Start.
	OnStartup bool

	// Run executes one pass.
	Run func(ctx context.Context) error
}

// Scheduler drives periodic tasks with distributed locking so that only one
// instance executes a given pass at a time.
type Scheduler struct {
	tasks  []Task
	logger *zap.Logger
	locker locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new Scheduler for the given tasks.
func NewScheduler(tasks []Task, logger *zap.Logger, locker locker.DistributedLocker) *Scheduler {
	return &Scheduler{
		tasks:  tasks,
		logger: logger,
		locker: locker,
	}
}

// Start launches one loop per task.
func (s *Scheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, task := range s.tasks {
		s.logger.Info("starting scheduler task",
			zap.String("task", task.Name),
			zap.Duration("interval", task.Interval),
			zap.Bool("run_on_startup", task.OnStartup),
		)

		s.wg.Add(1)
		go s.run(task)
	}
}

// Stop gracefully stops all task loops.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// run is the main loop for one task.
func (s *Scheduler) run(task Task) {
	defer s.wg.Done()

	if task.OnStartup {
		s.execute(task)
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(task)
		}
	}
}

// execute performs one pass under the distributed lock.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: lock held for the full interval to prevent duplicate passes
//   - Failure: lock released immediately so another instance can retry
func (s *Scheduler) execute(task Task) {
	lockKey := fmt.Sprintf("job:%s:lock", task.Name)

	acquired, err := s.locker.Acquire(s.ctx, lockKey, task.Interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock",
			zap.String("task", task.Name),
			zap.Error(err),
		)

		return
	}
	if !acquired {
		s.logger.Debug("another instance is running the pass, skipping",
			zap.String("task", task.Name),
		)

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, task.Timeout)
	defer cancel()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		// Release the lock immediately so the pass can be retried.
		if relErr := s.locker.Release(s.ctx, lockKey); relErr != nil {
			s.logger.Error("failed to release lock after pass error",
				zap.String("task", task.Name),
				zap.Error(relErr),
			)
		}
		s.logger.Error("pass failed, lock released for retry",
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)

		return
	}

	// Lock expires naturally after the interval (cooldown period).
	s.logger.Info("pass completed, lock held for cooldown",
		zap.String("task", task.Name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Duration("cooldown", task.Interval),
	)
}
