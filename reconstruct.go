package rttrace

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ESRTS/rttrace/internal/logging"
	"github.com/ESRTS/rttrace/internal/merge"
	"github.com/ESRTS/rttrace/internal/patch"
	"github.com/ESRTS/rttrace/internal/pipeline"
	"github.com/ESRTS/rttrace/internal/registry"
	"github.com/ESRTS/rttrace/internal/sm"
	"github.com/ESRTS/rttrace/internal/wire"
)

// Reconstruct decodes one buffer per core, merges and repairs the combined
// stream, and drives the per-core state machine to produce the full task
// timeline. buffers must have exactly len(cfg.TickIDs) entries, one per
// core, in core-index order.
func Reconstruct(buffers [][]byte, cfg Config) (*Result, error) {
	if len(buffers) != len(cfg.TickIDs) {
		return nil, NewError("reconstruct", ErrCodeMissingSyntheticTask,
			fmt.Sprintf("%d buffers but %d configured cores", len(buffers), len(cfg.TickIDs)))
	}
	numCores := len(buffers)
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	stats := NewReconstructionStats()

	events, err := decodeAndMerge(buffers, cfg)
	if err != nil {
		return nil, WrapError("reconstruct", err)
	}
	stats.EventsDecoded.Add(uint64(len(events)))

	t0 := merge.AlignTimeZero(events)
	events = merge.Normalize(events, t0)

	reg := registry.New()
	colors := NewColorAssigner()

	if err := reg.InitSyntheticTasks(cfg.TickIDs, cfg.SchedulerBaseID, colors.Next); err != nil {
		return nil, WrapError("reconstruct", NewError("reconstruct", ErrCodeMissingSyntheticTask, err.Error()))
	}

	for _, ev := range events {
		if ev.Kind != wire.KindTaskCreate {
			continue
		}
		reg.AddNormalTask(ev.TaskID, ev.Name, ev.Priority, colors.Next(ev.TaskID), cfg.finishOnStop(ev.Name))
	}

	tickID := func(core int) int { return cfg.TickIDs[core] }
	patched := patch.Patch(events, tickID)
	for _, ev := range patched {
		if ev.Synthetic {
			stats.SyntheticInserted.Add(1)
		}
	}

	diags, err := sm.Reconstruct(reg, patched, numCores)
	for _, d := range diags {
		logger.Debugf("anomaly core=%d ts=%d kind=%s: %s", d.Core, d.TS, d.Kind, d.Message)
		if d.Dropped {
			stats.EventsDropped.Add(1)
		}
	}
	stats.Anomalies.Add(uint64(len(diags)))
	if err != nil {
		return nil, WrapError("reconstruct", NewError("reconstruct", ErrCodeMissingSyntheticTask, err.Error()))
	}

	result := &Result{Stats: stats}
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{Core: d.Core, TS: d.TS, Kind: d.Kind, Message: d.Message})
	}

	for _, t := range reg.NonEmpty() {
		pub := convertTask(t)
		for _, j := range pub.Jobs {
			stats.JobsFinished.Add(1)
			stats.IntervalsCreated.Add(uint64(len(j.Intervals)))
			stats.RecordJobDuration(jobDuration(j))
		}
		result.Tasks = append(result.Tasks, pub)
	}

	for core := 0; core < numCores; core++ {
		logger.Infof("core %d reconstruction complete: %d tasks", core, len(result.Tasks))
	}

	return result, nil
}

// decodeAndMerge runs either the sequential or pipeline-parallel decode
// model (§5) depending on cfg.Parallel, then hands the per-core streams to
// internal/merge.Merge. Both models funnel into the same sequential merge
// step, which owns all ordering semantics.
func decodeAndMerge(buffers [][]byte, cfg Config) ([]wire.Event, error) {
	if cfg.Parallel {
		perCore, err := pipeline.DecodeAll(context.Background(), buffers, runtime.GOMAXPROCS(0))
		if err != nil {
			return nil, err
		}
		streams := make([]wire.Stream, len(perCore))
		for i, events := range perCore {
			streams[i] = wire.NewSliceStream(events)
		}
		return merge.Merge(streams)
	}

	streams := make([]wire.Stream, len(buffers))
	for i, buf := range buffers {
		streams[i] = wire.NewDecoder(buf, i)
	}
	return merge.Merge(streams)
}

func convertTask(t *registry.Task) Task {
	pub := Task{ID: t.ID, Name: t.Name, Priority: t.Priority, Kind: TaskKind(t.Kind), Color: t.Color}
	pub.Jobs = make([]Job, len(t.Jobs))
	for i, j := range t.Jobs {
		pub.Jobs[i] = convertJob(t.ID, j)
	}
	return pub
}

func convertJob(taskID uint32, j registry.Job) Job {
	pub := Job{ID: j.ID, TaskID: taskID, ReleaseTime: j.ReleaseTime, Deadline: j.Deadline, DelayUntil: j.DelayUntil, Incomplete: j.Incomplete}
	pub.Intervals = make([]Interval, len(j.Intervals))
	for i, iv := range j.Intervals {
		pub.Intervals[i] = Interval{Core: iv.Core, Start: iv.Start, Stop: iv.Stop, Phase: PhaseExecute}
	}
	return pub
}

func jobDuration(j Job) int64 {
	var total int64
	for _, iv := range j.Intervals {
		total += iv.Stop - iv.Start
	}
	return total
}
