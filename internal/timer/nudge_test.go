package timer

import (
	"testing"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

func TestEvaluateNudge(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name       string
		kind       domain.Kind
		elapsed    time.Duration
		flags      NudgeFlags
		extended   bool
		wantEffect Effect
		wantFlags  NudgeFlags
	}{
		{
			name:       "debugging below checkpoint",
			kind:       domain.KindDebugging,
			elapsed:    59 * time.Minute,
			wantEffect: EffectNone,
		},
		{
			name:       "debugging checkpoint at exactly 60min",
			kind:       domain.KindDebugging,
			elapsed:    60 * time.Minute,
			wantEffect: EffectNotify,
			wantFlags:  NudgeFlags{SixtyMinFired: true},
		},
		{
			name:       "checkpoint already fired",
			kind:       domain.KindDebugging,
			elapsed:    61 * time.Minute,
			flags:      NudgeFlags{SixtyMinFired: true},
			wantEffect: EffectNone,
			wantFlags:  NudgeFlags{SixtyMinFired: true},
		},
		{
			name:       "debugging cutoff at 90min",
			kind:       domain.KindDebugging,
			elapsed:    90 * time.Minute,
			flags:      NudgeFlags{SixtyMinFired: true},
			wantEffect: EffectNotifyAndStop,
			wantFlags:  NudgeFlags{SixtyMinFired: true, NinetyMinFired: true},
		},
		{
			name:       "cutoff suppressed in extended mode",
			kind:       domain.KindDebugging,
			elapsed:    95 * time.Minute,
			flags:      NudgeFlags{SixtyMinFired: true},
			extended:   true,
			wantEffect: EffectNone,
			wantFlags:  NudgeFlags{SixtyMinFired: true, NinetyMinFired: true},
		},
		{
			name:       "missed ticks jump straight past checkpoint",
			kind:       domain.KindDebugging,
			elapsed:    3700 * time.Second,
			wantEffect: EffectNotify,
			wantFlags:  NudgeFlags{SixtyMinFired: true},
		},
		{
			name:       "jump past both thresholds fires cutoff once",
			kind:       domain.KindDebugging,
			elapsed:    2 * time.Hour,
			wantEffect: EffectNotifyAndStop,
			wantFlags:  NudgeFlags{SixtyMinFired: true, NinetyMinFired: true},
		},
		{
			name:       "building break at 120min",
			kind:       domain.KindBuilding,
			elapsed:    120 * time.Minute,
			wantEffect: EffectNotify,
			wantFlags:  NudgeFlags{OneTwentyMinFired: true},
		},
		{
			name:       "building break already fired",
			kind:       domain.KindBuilding,
			elapsed:    121 * time.Minute,
			flags:      NudgeFlags{OneTwentyMinFired: true},
			wantEffect: EffectNone,
			wantFlags:  NudgeFlags{OneTwentyMinFired: true},
		},
		{
			name:       "building never hits debugging thresholds",
			kind:       domain.KindBuilding,
			elapsed:    90 * time.Minute,
			wantEffect: EffectNone,
		},
		{
			name:       "learning has no thresholds",
			kind:       domain.KindLearning,
			elapsed:    5 * time.Hour,
			wantEffect: EffectNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, nudge := EvaluateNudge(tt.kind, tt.elapsed, tt.flags, tt.extended, th)
			if nudge.Effect != tt.wantEffect {
				t.Errorf("effect = %v, want %v", nudge.Effect, tt.wantEffect)
			}
			if flags != tt.wantFlags {
				t.Errorf("flags = %+v, want %+v", flags, tt.wantFlags)
			}
		})
	}
}

// Re-evaluating with the returned flags and the same elapsed time must
// be a no-op: the policy is idempotent under repeated invocation.
func TestEvaluateNudge_Idempotent(t *testing.T) {
	th := DefaultThresholds()

	for _, kind := range []domain.Kind{domain.KindBuilding, domain.KindDebugging} {
		for _, elapsed := range []time.Duration{60 * time.Minute, 90 * time.Minute, 120 * time.Minute} {
			flags, first := EvaluateNudge(kind, elapsed, NudgeFlags{}, false, th)
			again, second := EvaluateNudge(kind, elapsed, flags, false, th)
			if first.Effect != EffectNone && second.Effect != EffectNone {
				t.Errorf("%s at %v: second evaluation fired %v, want none", kind, elapsed, second.Effect)
			}
			if again != flags {
				t.Errorf("%s at %v: flags changed on re-evaluation", kind, elapsed)
			}
		}
	}
}

// Each threshold fires exactly once over a whole session, regardless
// of tick granularity.
func TestEvaluateNudge_AtMostOncePerSession(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name string
		step time.Duration
	}{
		{"one second ticks", time.Second},
		{"coarse seven minute ticks", 7 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags NudgeFlags
			notifies, stops := 0, 0
			for elapsed := time.Duration(0); elapsed <= 3*time.Hour; elapsed += tt.step {
				var nudge Nudge
				flags, nudge = EvaluateNudge(domain.KindDebugging, elapsed, flags, false, th)
				switch nudge.Effect {
				case EffectNotify:
					notifies++
				case EffectNotifyAndStop:
					stops++
				}
			}
			if notifies != 1 {
				t.Errorf("checkpoint fired %d times, want 1", notifies)
			}
			if stops != 1 {
				t.Errorf("cutoff fired %d times, want 1", stops)
			}
		})
	}
}
