package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/strawberry-py/strawberry-go/internal/scheduler"
)

func TestScheduler_InvalidSpec(t *testing.T) {
	s := scheduler.New(time.UTC, zaptest.NewLogger(t))

	err := s.Add("broken", "every now and then", func(context.Context) {})
	assert.Error(t, err)
}

func TestScheduler_RunsWithLifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	s := scheduler.NewSchedulerProvider(scheduler.SchedulerParams{
		LC:       lc,
		Location: time.UTC,
		Logger:   zaptest.NewLogger(t),
	})

	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) {
		assert.NoError(t, ctx.Err())
		runs.Add(1)
	}))

	lc.RequireStart()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	lc.RequireStop()
}
