package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_RunsJobsOnSchedule(t *testing.T) {
	var runs atomic.Int32
	job := Job{Name: "count", Run: func(context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	}}

	c, err := Start(context.Background(), "@every 1s", job)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestStart_RejectsBadSpec(t *testing.T) {
	_, err := Start(context.Background(), "every now and then", Job{Name: "x", Run: func(context.Context) (int, error) { return 0, nil }})
	assert.Error(t, err)
}

func TestRunOnce_SkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	RunOnce(ctx, Job{Name: "x", Run: func(context.Context) (int, error) {
		called = true
		return 0, errors.New("boom")
	}})
	assert.False(t, called)
}
