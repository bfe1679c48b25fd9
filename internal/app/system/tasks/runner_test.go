package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/system/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func countingJob(name string, interval time.Duration, n *atomic.Int32) tasks.Job {
	return tasks.Job{
		Name:     name,
		Interval: interval,
		Run: func(ctx context.Context) error {
			n.Add(1)
			return nil
		},
	}
}

func stop(t *testing.T, r *tasks.Runner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Stop(ctx))
}

func TestRunner_RunsOnStartAndOnInterval(t *testing.T) {
	r := tasks.New(zap.NewNop())
	var n atomic.Int32
	r.Register(countingJob("cache-entry-cleanup", 20*time.Millisecond, &n))

	r.Start()
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	stop(t, r)

	after := n.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, n.Load(), "job ran after Stop")
}

func TestRunner_StopTimesOut(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := tasks.New(zap.New(core))

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	r.Register(tasks.Job{
		Name:     "audit-retention",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			<-release // ignores ctx
			return nil
		},
	})

	r.Start()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := r.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	entries := logs.FilterMessage("task runner stop timed out").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"audit-retention"}, entries[0].ContextMap()["still_running"])
}

func TestRunner_StopCancelsJobContext(t *testing.T) {
	r := tasks.New(zap.NewNop())

	var cancelled atomic.Bool
	started := make(chan struct{})
	r.Register(tasks.Job{
		Name:     "oauth-state-cleanup",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	})

	r.Start()
	<-started
	stop(t, r)
	assert.True(t, cancelled.Load())
}

func TestRunner_Status(t *testing.T) {
	r := tasks.New(zap.NewNop())
	boom := errors.New("mongo unavailable")
	var fail atomic.Bool
	fail.Store(true)

	r.Register(tasks.Job{
		Name:     "oauth-state-cleanup",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			if fail.Load() {
				return boom
			}
			return nil
		},
	})
	r.Register(tasks.Job{Name: "audit-retention", Interval: 24 * time.Hour, Run: func(context.Context) error { return nil }})

	st := r.Status()
	require.Len(t, st, 2)
	assert.Equal(t, "audit-retention", st[0].Name, "sorted by name")
	assert.Equal(t, 24*time.Hour, st[0].Interval)
	assert.Zero(t, st[1].Runs)
	assert.True(t, st[1].LastRun.IsZero())

	ctx := context.Background()
	assert.ErrorIs(t, r.RunOnce(ctx, "oauth-state-cleanup"), boom)
	fail.Store(false)
	require.NoError(t, r.RunOnce(ctx, "oauth-state-cleanup"))
	fail.Store(true)
	assert.Error(t, r.RunOnce(ctx, "oauth-state-cleanup"))

	st = r.Status()
	oauth := st[1]
	assert.Equal(t, "oauth-state-cleanup", oauth.Name)
	assert.Equal(t, 3, oauth.Runs)
	assert.Equal(t, 2, oauth.Failures)
	assert.Equal(t, "mongo unavailable", oauth.LastError)
	assert.False(t, oauth.Running)
	assert.False(t, oauth.LastRun.IsZero())

	fail.Store(false)
	require.NoError(t, r.RunOnce(ctx, "oauth-state-cleanup"))
	assert.Empty(t, r.Status()[1].LastError, "a good run clears the last error")
}

func TestRunner_StatusShowsRunning(t *testing.T) {
	r := tasks.New(zap.NewNop())
	started := make(chan struct{})
	release := make(chan struct{})
	r.Register(tasks.Job{
		Name:     "cache-entry-cleanup",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		},
	})

	r.Start()
	<-started
	assert.True(t, r.Status()[0].Running)
	close(release)
	assert.Eventually(t, func() bool { return !r.Status()[0].Running }, time.Second, 5*time.Millisecond)
	stop(t, r)
}

func TestRunner_RunOnce(t *testing.T) {
	r := tasks.New(zap.NewNop())
	var n atomic.Int32
	r.Register(countingJob("cache-entry-cleanup", time.Hour, &n))

	require.NoError(t, r.RunOnce(context.Background(), "cache-entry-cleanup"))
	assert.Equal(t, int32(1), n.Load())

	assert.ErrorIs(t, r.RunOnce(context.Background(), "reindex"), tasks.ErrUnknownJob)
}

func TestRunner_Names(t *testing.T) {
	r := tasks.New(nil)
	var n atomic.Int32
	for _, name := range []string{"oauth-state-cleanup", "cache-entry-cleanup", "audit-retention"} {
		r.Register(countingJob(name, time.Hour, &n))
	}
	assert.Equal(t, []string{"oauth-state-cleanup", "cache-entry-cleanup", "audit-retention"}, r.Names())
}

func TestRunner_JobTimeout(t *testing.T) {
	r := tasks.New(zap.NewNop())
	r.Register(tasks.Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	start := time.Now()
	err := r.RunOnce(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, r.Status()[0].Failures)
}
