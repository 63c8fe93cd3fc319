package engine

import "time"

// TimeManager tracks a single top-level search's time budget (spec §4.8).
// Unlike a full UCI clock (wtime/btime/increment bookkeeping), the engine's
// own command surface (§6) only ever asks for a per-move time budget, so
// there is exactly one knob to manage: how long this move gets.
type TimeManager struct {
	start time.Time
	soft  time.Time // iterative deepening stops starting a new depth past this
	hard  time.Time // workers hard-abort past this, mid-depth
}

// NewTimeManager computes the soft (0.5x) and hard (3x) deadlines for a
// budget starting now.
func NewTimeManager(budget time.Duration) *TimeManager {
	now := time.Now()
	return &TimeManager{
		start: now,
		soft:  now.Add(budget / 2),
		hard:  now.Add(budget * 3),
	}
}

// Elapsed returns the time since the search began.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

// PastSoft reports whether the iterative-deepening loop should not start
// another depth.
func (tm *TimeManager) PastSoft() bool { return time.Now().After(tm.soft) }

// HardDeadline is the absolute time every worker's should-abort check
// polls against.
func (tm *TimeManager) HardDeadline() time.Time { return tm.hard }
