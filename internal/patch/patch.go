// Package patch repairs the single documented wire anomaly: two consecutive
// ISR-exit events on a core with no intervening ISR_ENTER (§4.4). It runs on
// the merged, time-sorted stream before the state machine reconstructor.
package patch

import (
	"sort"

	"github.com/ESRTS/rttrace/internal/wire"
)

// Patch scans events for a missing ISR_ENTER and inserts a synthetic one,
// one microsecond before the last task-start event seen on that core.
// tickID resolves a core's configured tick IRQ id, used as the synthesized
// event's IRQID (§4.4). Returns events unchanged (same slice) if nothing
// needed repair.
func Patch(events []wire.Event, tickID func(core int) int) []wire.Event {
	inISR := make(map[int]bool)
	lastTaskStart := make(map[int]int64)
	var synthetic []wire.Event

	for _, e := range events {
		switch e.Kind {
		case wire.KindISREnter:
			inISR[e.Core] = true

		case wire.KindISRExit, wire.KindISRExitToScheduler:
			if !inISR[e.Core] {
				anchor, ok := lastTaskStart[e.Core]
				if !ok {
					anchor = e.TS
				}
				synthetic = append(synthetic, wire.Event{
					Kind:      wire.KindISREnter,
					TS:        anchor - 1,
					Core:      e.Core,
					IRQID:     uint32(tickID(e.Core)),
					Synthetic: true,
				})
			}
			inISR[e.Core] = false

		case wire.KindTaskStartExec, wire.KindTaskStartReady:
			lastTaskStart[e.Core] = e.TS
		}
	}

	if len(synthetic) == 0 {
		return events
	}

	patched := make([]wire.Event, 0, len(events)+len(synthetic))
	patched = append(patched, events...)
	patched = append(patched, synthetic...)

	sort.SliceStable(patched, func(i, j int) bool {
		if patched[i].TS != patched[j].TS {
			return patched[i].TS < patched[j].TS
		}
		return patched[i].Core < patched[j].Core
	})

	return patched
}
