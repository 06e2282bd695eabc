package rttrace

import (
	"strconv"

	"github.com/ESRTS/rttrace/internal/wire"
)

// Diagnostic records one non-fatal anomaly observed during reconstruction:
// an InconsistentTransition (an event the state machine's transition table
// does not admit in its current state) or a cross-core reference outside
// the configured core range. The offending event is skipped; reconstruction
// continues (§7).
type Diagnostic struct {
	Core    int
	TS      int64
	Kind    wire.Kind
	Message string
}

// Result is everything one Reconstruct call produces: the reconstructed
// tasks, any diagnostics collected along the way, and run statistics.
type Result struct {
	Tasks       []Task
	Diagnostics []Diagnostic
	Stats       *ReconstructionStats
}

// Summarize returns one "<name> (<n> jobs)" line per task with at least
// one job, in the order tasks appear in Result.Tasks — grounded on
// TraceTask.__str__ in original_source/TraceTask.py and TraceParser's
// parser() summary loop, which the original tool prints to its own stdout
// after reconstruction.
func Summarize(tasks []Task) []string {
	var lines []string
	for _, t := range tasks {
		if len(t.Jobs) == 0 {
			continue
		}
		lines = append(lines, t.Name+" ("+strconv.Itoa(len(t.Jobs))+" jobs)")
	}
	return lines
}
