package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

// TestWorkflow_DeepDebuggingSession walks a whole realistic session:
// the checkpoint fires at 60 minutes, the cutoff tries to stop at 90
// but storage is down, the operator opts into extended mode and later
// stops manually.
func TestWorkflow_DeepDebuggingSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.machine.Start(ctx, "proj-1", domain.KindDebugging))

	f.clock.advance(60 * time.Minute)
	res, err := f.machine.Tick(ctx)
	require.NoError(t, err)
	require.Equal(t, EffectNotify, res.Nudge.Effect)
	require.Equal(t, 60*time.Minute, res.Nudge.Threshold)

	// Storage goes down right as the cutoff hits. The forced stop
	// fails and the session survives.
	f.timeLogs.failClose = errors.New("connection reset")
	f.clock.advance(30 * time.Minute)
	res, err = f.machine.Tick(ctx)
	require.Error(t, err)
	require.Equal(t, EffectNotifyAndStop, res.Nudge.Effect)
	require.False(t, res.Stopped)
	require.NotNil(t, f.machine.Active(), "session must survive a failed forced stop")

	// The operator chooses to keep going deliberately.
	require.NoError(t, f.machine.ContinueExtended())

	// No further forced stop, ever, for this session.
	f.clock.advance(45 * time.Minute)
	res, err = f.machine.Tick(ctx)
	require.NoError(t, err)
	require.Equal(t, EffectNone, res.Nudge.Effect)
	require.False(t, res.Stopped)

	// Manual stop closes the record with the full wall-clock duration.
	require.NoError(t, f.machine.Stop(ctx))
	require.Nil(t, f.machine.Active())

	record, err := f.timeLogs.GetByID(ctx, "tl_001")
	require.NoError(t, err)
	require.False(t, record.Open())
	require.NotNil(t, record.DurationMinutes)
	require.InDelta(t, 135.0, *record.DurationMinutes, 1e-9)

	project, err := f.projects.GetByID(ctx, "proj-1")
	require.NoError(t, err)
	require.InDelta(t, 135.0/60.0, project.DebuggingHours, 1e-9)
	require.Zero(t, project.BuildingHours)

	// One checkpoint nudge, one cutoff nudge, one closed session.
	require.Equal(t, []int64{3600, 5400}, f.metrics.nudges)
	require.Equal(t, 1, f.metrics.closed)
}
