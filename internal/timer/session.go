package timer

import (
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

// Session is the transient state of the one active timer. It exists
// only between Start and a successful Stop; it is never persisted.
type Session struct {
	ProjectID string
	Kind      domain.Kind

	// StartedAt is the wall-clock anchor. ElapsedSeconds is derived
	// from it on every tick (now - StartedAt) and never incremented
	// directly, which keeps elapsed time monotonic and drift-free no
	// matter how irregular the ticks are.
	StartedAt      time.Time
	ElapsedSeconds int64

	// PendingRecordID is the open TimeLog created at session start.
	// A session is never fabricated without one: elapsed time with no
	// persisted anchor could not be reconciled after a crash.
	PendingRecordID string

	Flags        NudgeFlags
	ExtendedMode bool
}

func (s *Session) elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}
