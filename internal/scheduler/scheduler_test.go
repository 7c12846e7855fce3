package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxe-marketplace/internal/cleanup"
	"luxe-marketplace/internal/inventory"
	"luxe-marketplace/internal/models"
	"luxe-marketplace/internal/ratelimit"
	"luxe-marketplace/internal/testutil"
)

type countingSource struct {
	calls int
}

func (c *countingSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	c.calls++
	return []models.Vehicle{testutil.NewVehicle(c.calls)}, nil
}

type fakeSessions struct{ expired int }

func (f *fakeSessions) Expire(idle time.Duration) int { f.expired++; return 0 }
func (f *fakeSessions) Count() int                    { return 0 }

func TestScheduler_RunNow(t *testing.T) {
	src := &countingSource{}
	snap := inventory.NewSnapshot()
	syncer := inventory.NewSyncer(src, snap, testutil.Logger(t))
	s := NewScheduler(syncer, nil, nil, Config{}, testutil.Logger(t))

	result, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, snap.Len())
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	syncer := inventory.NewSyncer(&countingSource{}, inventory.NewSnapshot(), testutil.Logger(t))
	s := NewScheduler(syncer, nil, nil, Config{RefreshCron: "not a cron"}, testutil.Logger(t))
	assert.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	syncer := inventory.NewSyncer(&countingSource{}, inventory.NewSnapshot(), testutil.Logger(t))
	sessions := &fakeSessions{}
	sweeper := cleanup.NewService(sessions, time.Minute, testutil.Logger(t))
	limiter := ratelimit.NewRateLimiter(10, 0, 0, true)

	s := NewScheduler(syncer, sweeper, limiter, Config{
		RefreshCron:      "*/15 * * * *",
		SessionSweepCron: "*/5 * * * *",
	}, testutil.Logger(t))
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()

	s.runSweep()
	assert.Equal(t, 1, sessions.expired)
}
