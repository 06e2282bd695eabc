// Package merge folds per-core event streams into one time-sorted sequence
// and determines the reconstruction's time origin. It is grounded on the
// teacher's narrow, single-purpose internal packages (one concern per
// package, no cross-package mutable state) but has no direct teacher
// analogue for the horizon/sort logic itself, which is domain-specific to
// the RTOS trace format.
package merge

import (
	"sort"

	"github.com/ESRTS/rttrace/internal/wire"
)

// Merge drains every per-core stream to completion, applies the T_min
// cross-core horizon rule (§4.2), and returns a single (ts, core)-sorted
// sequence. A decode error from any stream aborts the merge: MalformedEvent
// is fatal to the affected core's codec, and a merge cannot proceed without
// knowing that core's true last timestamp.
func Merge(streams []wire.Stream) ([]wire.Event, error) {
	perCore := make([][]wire.Event, len(streams))
	for core, s := range streams {
		for {
			ev, ok, err := s.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			perCore[core] = append(perCore[core], ev)
		}
	}

	tMin, ok := horizon(perCore)
	if !ok {
		return nil, nil
	}

	var merged []wire.Event
	for _, events := range perCore {
		for _, ev := range events {
			if ev.TS > tMin {
				continue
			}
			merged = append(merged, ev)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].TS != merged[j].TS {
			return merged[i].TS < merged[j].TS
		}
		return merged[i].Core < merged[j].Core
	})

	return merged, nil
}

// horizon computes T_min, the minimum over cores of that core's last
// produced timestamp. Cores that produced no events at all do not
// constrain the horizon.
func horizon(perCore [][]wire.Event) (int64, bool) {
	var tMin int64
	found := false
	for _, events := range perCore {
		if len(events) == 0 {
			continue
		}
		last := events[len(events)-1].TS
		if !found || last < tMin {
			tMin = last
			found = true
		}
	}
	return tMin, found
}

// AlignTimeZero chooses t0 on the merged stream per §4.3's priority order:
// the ISR_ENTER(irqId=15) preceding a TIME_ZERO event, else the first
// TASK_START_READY, else 0.
func AlignTimeZero(events []wire.Event) int64 {
	tzIdx := -1
	for i, ev := range events {
		if ev.Kind == wire.KindTimeZero {
			tzIdx = i
			break
		}
	}

	if tzIdx >= 0 {
		for i := tzIdx - 1; i >= 0; i-- {
			if events[i].Kind == wire.KindISREnter && events[i].IRQID == wire.TickIRQForTimeZero {
				return events[i].TS
			}
		}
	}

	for _, ev := range events {
		if ev.Kind == wire.KindTaskStartReady {
			return ev.TS
		}
	}

	return 0
}

// Normalize subtracts t0 from every event's timestamp, returning a new
// slice; the input is left untouched.
func Normalize(events []wire.Event, t0 int64) []wire.Event {
	out := make([]wire.Event, len(events))
	for i, ev := range events {
		ev.TS -= t0
		out[i] = ev
	}
	return out
}
