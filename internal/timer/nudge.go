package timer

import (
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

// Effect is what a fired nudge asks the caller to do.
type Effect int

const (
	EffectNone Effect = iota
	// EffectNotify surfaces a message; the timer keeps running.
	EffectNotify
	// EffectNotifyAndStop surfaces a message and forces a stop.
	EffectNotifyAndStop
)

func (e Effect) String() string {
	switch e {
	case EffectNotify:
		return "notify"
	case EffectNotifyAndStop:
		return "notify_and_stop"
	default:
		return "none"
	}
}

// Nudge is a one-shot threshold notification produced by the policy.
type Nudge struct {
	Effect    Effect
	Threshold time.Duration
	Message   string
}

// NudgeFlags tracks which thresholds already fired in this session.
// Each flag fires at most once; all are reset when a session opens.
type NudgeFlags struct {
	SixtyMinFired     bool
	NinetyMinFired    bool
	OneTwentyMinFired bool
}

// Thresholds holds the elapsed-time boundaries the policy watches.
// Production uses DefaultThresholds; demo and test configurations may
// substitute smaller values, the policy shape is identical.
type Thresholds struct {
	DebugCheckpoint time.Duration
	DebugCutoff     time.Duration
	BuildingBreak   time.Duration
}

// DefaultThresholds are the canonical production values: a 60-minute
// debugging checkpoint, a 90-minute debugging cutoff and a 120-minute
// building break prompt.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DebugCheckpoint: 60 * time.Minute,
		DebugCutoff:     90 * time.Minute,
		BuildingBreak:   120 * time.Minute,
	}
}

const (
	msgDebugCheckpoint = "You've been debugging for an hour. Log what you've tried and your current hypothesis before going further."
	msgDebugCutoff     = "90 minutes of debugging. Stopping the timer - step away or continue deliberately."
	msgBuildingBreak   = "You've been building for 2 hours. Consider taking a short break."
)

// EvaluateNudge is the threshold nudge policy: a pure function of the
// session kind, elapsed time, fired flags and extended mode. It returns
// the updated flags and the effect to apply.
//
// Comparisons use >= so a missed tick (background-tab throttling, a
// slow poller) cannot skip a threshold: the nudge fires on the first
// tick that observes elapsed time past the boundary, and the flag
// keeps it from firing again. Evaluation is idempotent: with the same
// elapsed time and already-set flags the effect is EffectNone.
func EvaluateNudge(kind domain.Kind, elapsed time.Duration, flags NudgeFlags, extended bool, t Thresholds) (NudgeFlags, Nudge) {
	switch kind {
	case domain.KindDebugging:
		// The cutoff wins when one tick crosses both boundaries; the
		// checkpoint flag is still set so it cannot fire afterwards.
		if elapsed >= t.DebugCutoff && !flags.NinetyMinFired {
			flags.NinetyMinFired = true
			flags.SixtyMinFired = true
			if extended {
				// Extended debugging is an explicit once-per-session
				// opt-out: no forced stop for the rest of the session.
				return flags, Nudge{Effect: EffectNone}
			}
			return flags, Nudge{
				Effect:    EffectNotifyAndStop,
				Threshold: t.DebugCutoff,
				Message:   msgDebugCutoff,
			}
		}
		if elapsed >= t.DebugCheckpoint && !flags.SixtyMinFired {
			flags.SixtyMinFired = true
			return flags, Nudge{
				Effect:    EffectNotify,
				Threshold: t.DebugCheckpoint,
				Message:   msgDebugCheckpoint,
			}
		}
	case domain.KindBuilding:
		if elapsed >= t.BuildingBreak && !flags.OneTwentyMinFired {
			flags.OneTwentyMinFired = true
			return flags, Nudge{
				Effect:    EffectNotify,
				Threshold: t.BuildingBreak,
				Message:   msgBuildingBreak,
			}
		}
	}
	// Learning sessions have no thresholds.
	return flags, Nudge{Effect: EffectNone}
}
