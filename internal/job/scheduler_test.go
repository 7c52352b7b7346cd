package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	denyAll  bool
	releases []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.denyAll || l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.releases = append(l.releases, key)
	return nil
}

func TestScheduler_RunsTaskOnStartup(t *testing.T) {
	var mu sync.Mutex
	runs := 0

	s := NewScheduler([]Task{{
		Name:      "test",
		Interval:  time.Hour,
		Timeout:   time.Second,
		OnStartup: true,
		Run: func(context.Context) error {
			mu.Lock()
			runs++
			mu.Unlock()
			return nil
		},
	}}, zap.NewNop(), newFakeLocker())

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, runs)
}

func TestScheduler_SkipsWhenLockHeld(t *testing.T) {
	locker := newFakeLocker()
	locker.denyAll = true

	ran := false
	s := NewScheduler([]Task{{
		Name:      "test",
		Interval:  time.Hour,
		Timeout:   time.Second,
		OnStartup: true,
		Run: func(context.Context) error {
			ran = true
			return nil
		},
	}}, zap.NewNop(), locker)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.False(t, ran, "pass must not run without the lock")
}

func TestScheduler_ReleasesLockOnError(t *testing.T) {
	locker := newFakeLocker()

	s := NewScheduler([]Task{{
		Name:      "failing",
		Interval:  time.Hour,
		Timeout:   time.Second,
		OnStartup: true,
		Run: func(context.Context) error {
			return errors.New("pass blew up")
		},
	}}, zap.NewNop(), locker)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Contains(t, locker.releases, "job:failing:lock")
	assert.False(t, locker.held["job:failing:lock"])
}
