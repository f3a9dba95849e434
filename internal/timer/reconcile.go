package timer

import (
	"context"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/ports"
)

// reconcile converts the in-memory session into a closed TimeLog and
// applies its duration to the owning project's hour totals. It is a
// best-effort two-step sequence, not a distributed transaction:
//
//  1. close the pending record with a freshly computed fractional
//     duration (a 15-second session is 0.25 minutes, never rounded
//     away),
//  2. atomically add duration/60 hours to the project's building or
//     debugging total, selected by the session kind.
//
// Record closure is the single source of truth for "hours already
// added": if the record turns out to be closed on entry, a previous
// attempt got at least through step 1, so both steps are skipped and
// the recorded duration is returned. That makes the protocol safe
// under at-least-once retry; the worst case after a step-2 failure is
// a project total that under-counts one session, which stays visible
// in the closed record rather than being lost.
//
// Nothing here retries automatically; each failed attempt surfaces one
// error and the caller (the machine, then the operator) retries.
func (m *Machine) reconcile(ctx context.Context, s Session) (float64, error) {
	now := m.clock.Now()
	elapsedMinutes := s.elapsed(now).Minutes()

	record, err := m.timeLogs.GetByID(ctx, s.PendingRecordID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			// Fatal but local: the anchor record is gone. Surface it
			// and keep the session; a stuck Running timer the operator
			// can inspect beats silently dropped elapsed time.
			return 0, fmt.Errorf("pending time log %s: %w", s.PendingRecordID, err)
		}
		return 0, &StorageError{Op: "load pending time log", Err: err}
	}

	if !record.Open() {
		m.logger.Warn("pending record already closed, skipping hours update",
			"record_id", record.ID,
			"duration_minutes", *record.DurationMinutes,
		)
		return *record.DurationMinutes, nil
	}

	if _, err := m.timeLogs.Close(ctx, s.PendingRecordID, now, elapsedMinutes); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return 0, fmt.Errorf("pending time log %s: %w", s.PendingRecordID, err)
		}
		return 0, &StorageError{Op: "close time log", Err: err}
	}

	// Learning time is tracked in the record only; project hour totals
	// cover building and debugging.
	if s.Kind == domain.KindBuilding || s.Kind == domain.KindDebugging {
		if err := m.projects.AddHours(ctx, s.ProjectID, s.Kind, elapsedMinutes/60); err != nil {
			return 0, &StorageError{Op: "add project hours", Err: err}
		}
	}

	return elapsedMinutes, nil
}
