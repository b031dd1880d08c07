package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAdd_RejectsInvalidSpec(t *testing.T) {
	s := New(zap.NewNop())

	err := s.Add("every now and then", "sweep", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep")
}

func TestAdd_AcceptsDescriptors(t *testing.T) {
	s := New(zap.NewNop())

	require.NoError(t, s.Add("@every 5m", "sweep", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("*/10 * * * *", "other", func(context.Context) error { return nil }))
	assert.Len(t, s.cron.Entries(), 2)
}

func TestRun_LogsJobFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(zap.New(core))

	s.run("sweep", func(context.Context) error { return errors.New("db down") })

	failed := logs.FilterMessage("Job failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "sweep", failed[0].ContextMap()["job"])
}

func TestStop_CancelsJobContext(t *testing.T) {
	s := New(zap.NewNop())
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	ran := false
	s.run("late", func(context.Context) error {
		ran = true
		return nil
	})
	assert.False(t, ran)
	assert.Error(t, s.ctx.Err())
}
