package rttrace

import "sync/atomic"

// TaskKind classifies a task's origin (§3).
type TaskKind int

const (
	KindNormal TaskKind = iota
	KindScheduler
	KindTick
	KindIdle
)

func (k TaskKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindScheduler:
		return "scheduler"
	case KindTick:
		return "tick"
	case KindIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Phase classifies what a task was doing during an Interval. Only
// PhaseExecute is ever produced by this reconstructor; PhaseRead and
// PhaseWrite exist so Interval matches the AER (access/execute/release)
// shape used by the wider trace-tooling family this reconstructor belongs
// to, per the original ExecutionType enum.
type Phase int

const (
	PhaseExecute Phase = iota
	PhaseRead
	PhaseWrite
)

// Interval is one contiguous run of a job on one core (§3).
type Interval struct {
	Core  int
	Start int64
	Stop  int64
	Phase Phase
}

// Job is one release-to-completion instance of a task (§3). It is a
// read-only view: callers never mutate a Job returned by Reconstruct.
type Job struct {
	ID          int
	TaskID      uint32 // the owning task, not a pointer or index back-reference
	ReleaseTime int64
	Deadline    *int64
	Intervals   []Interval
	DelayUntil  bool
	Incomplete  bool
}

// FinishTime returns the stop time of the job's last interval, or false if
// the job has no intervals (possible only if it was released but the run
// ended before it ever executed).
func (j Job) FinishTime() (int64, bool) {
	if len(j.Intervals) == 0 {
		return 0, false
	}
	return j.Intervals[len(j.Intervals)-1].Stop, true
}

// Task is the public, read-only view of one schedulable entity produced by
// Reconstruct.
type Task struct {
	ID       uint32
	Name     string
	Priority *uint32
	Kind     TaskKind
	Color    string
	Jobs     []Job
}

// MaxResponseTime returns the largest job finish-minus-release time across
// every job of this task, or false if the task has no jobs — grounded on
// TraceTask.getMaxResponseTime() in original_source/TraceTask.py.
func (t Task) MaxResponseTime() (int64, bool) {
	var max int64
	found := false
	for _, j := range t.Jobs {
		finish, ok := j.FinishTime()
		if !ok {
			continue
		}
		rt := finish - j.ReleaseTime
		if !found || rt > max {
			max = rt
			found = true
		}
	}
	return max, found
}

// ColorAssigner hands out a deterministic color per task id, bucketed by id
// range the way the original tool's getTaskColor did: every normal task
// (id below schedulerColorFloor) shares one fixed color, every id in the
// band from schedulerColorFloor to schedulerColorCeil (the synthetic
// scheduler tasks at the default base id) shares another, and everything
// else — idle tasks, whose registry ids fall outside both bands — rotates
// through a fixed palette in assignment order. A tick task is colored by
// its IRQ id like any other id, so a tick id below the floor (such as 15)
// gets the normal-task color.
// It is a small stateful type rather than a package-level counter so tests
// and concurrent reconstructions never share state; Reconstruct creates a
// fresh one per run.
type ColorAssigner struct {
	next atomic.Uint64
}

// schedulerColorFloor and schedulerColorCeil bound the synthetic
// scheduler/tick color band. These mirror the original tool's hardcoded
// schedulerId(=100)-based bucket and are independent of Config.SchedulerBaseID.
const (
	schedulerColorFloor = 100
	schedulerColorCeil  = 200

	normalTaskColor    = "#CBFFA8"
	schedulerTickColor = "#3D3D3D"
)

// palette is the rotating color set for everything outside the two fixed
// bands, in the original tool's sequence.
var palette = []string{
	"#64ED9D", "#648FED", "#D4ED4C", "#ED7B64", "#8D64ED",
}

// NewColorAssigner returns an assigner starting at the first palette entry.
func NewColorAssigner() *ColorAssigner { return &ColorAssigner{} }

// Next returns the color for task id, advancing the rotation only when id
// falls outside both fixed bands.
func (c *ColorAssigner) Next(id uint32) string {
	switch {
	case id < schedulerColorFloor:
		return normalTaskColor
	case id >= schedulerColorFloor && id <= schedulerColorCeil:
		return schedulerTickColor
	default:
		i := c.next.Add(1) - 1
		return palette[i%uint64(len(palette))]
	}
}
