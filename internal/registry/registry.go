// Package registry materializes the task/job/interval data model (§3) and
// owns the synthetic scheduler/tick/idle tasks that the firmware does not
// record directly. It is grounded on internal/ctrl's DeviceParams-owns-state
// pattern from the teacher repo: a single struct holds authoritative state,
// and callers reach it through narrow accessor methods rather than shared
// package-level globals (§9's design note on eliminating the
// global-mutable pattern of the source).
package registry

import "fmt"

// Kind classifies a task's origin.
type Kind int

const (
	KindNormal Kind = iota
	KindScheduler
	KindTick
	KindIdle
)

// Interval is one contiguous execution run of a job on one core (§3).
type Interval struct {
	Core  int
	Start int64
	Stop  int64
}

// Job is one release-to-completion instance of a task (§3).
type Job struct {
	ID          int
	ReleaseTime int64
	Deadline    *int64
	Intervals   []Interval
	active      *Interval // open interval, nil if none
	DelayUntil  bool
	Incomplete  bool
}

// Open reports whether this job still has an open execution interval.
func (j *Job) Open() bool { return j.active != nil }

// Task is a schedulable entity: normal (firmware-created) or one of the
// three synthetic kinds (§3).
type Task struct {
	ID           uint32
	Name         string
	Priority     *uint32
	Kind         Kind
	Color        string
	FinishOnStop bool // job-per-execution policy, §4.6
	Jobs         []Job
	current      *Job // open job, nil if none
}

// Current returns the task's open job, or nil.
func (t *Task) Current() *Job { return t.current }

// NewJob opens a new job for the task at releaseTime. Panics if a job is
// already open: the state machine never calls this while one is (§3
// invariant 3), so a violation here is a reconstructor bug, not bad input.
func (t *Task) NewJob(releaseTime int64) *Job {
	if t.current != nil {
		panic(fmt.Sprintf("registry: task %d (%s) already has an open job", t.ID, t.Name))
	}
	job := Job{ID: len(t.Jobs), ReleaseTime: releaseTime}
	t.current = &job
	return t.current
}

// SetDeadline sets the open job's deadline.
func (t *Task) SetDeadline(deadline int64) {
	if t.current == nil {
		panic(fmt.Sprintf("registry: task %d (%s) has no open job", t.ID, t.Name))
	}
	t.current.Deadline = &deadline
}

// StartExec opens an execution interval on the task's current job.
func (t *Task) StartExec(ts int64, core int) {
	if t.current == nil {
		panic(fmt.Sprintf("registry: task %d (%s) has no open job", t.ID, t.Name))
	}
	if t.current.active != nil {
		panic(fmt.Sprintf("registry: task %d (%s) already has an open interval", t.ID, t.Name))
	}
	t.current.active = &Interval{Core: core, Start: ts}
}

// StopExec closes the task's open execution interval.
func (t *Task) StopExec(ts int64) {
	if t.current == nil || t.current.active == nil {
		panic(fmt.Sprintf("registry: task %d (%s) has no open interval", t.ID, t.Name))
	}
	t.current.active.Stop = ts
	t.current.Intervals = append(t.current.Intervals, *t.current.active)
	t.current.active = nil
}

// FinishJob appends the current job to the task's finished list.
func (t *Task) FinishJob() {
	if t.current == nil {
		panic(fmt.Sprintf("registry: task %d (%s) has no open job to finish", t.ID, t.Name))
	}
	t.Jobs = append(t.Jobs, *t.current)
	t.current = nil
}

// FinishIncomplete closes a still-open interval (if any) at ts, marks the
// job incomplete, and appends it. Used by post-processing (§4.5) for
// normal tasks truncated at end-of-stream.
func (t *Task) FinishIncomplete(ts int64) {
	if t.current == nil {
		return
	}
	if t.current.active != nil {
		t.current.active.Stop = ts
		t.current.Intervals = append(t.current.Intervals, *t.current.active)
		t.current.active = nil
	}
	t.current.Incomplete = true
	t.Jobs = append(t.Jobs, *t.current)
	t.current = nil
}

// Registry owns every task discovered or synthesized during a
// reconstruction run, plus per-core pointers to the synthetic tasks.
type Registry struct {
	tasks     []*Task
	byID      map[uint32]*Task
	scheduler []*Task // indexed by core
	tick      []*Task
	idle      []*Task
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[uint32]*Task)}
}

// Tasks returns every registered task in registration order (synthetic
// tick/scheduler/idle per core first, then normal tasks in TASK_CREATE
// order), per §5's ordering guarantee.
func (r *Registry) Tasks() []*Task { return r.tasks }

// ByID looks up a task by its wire id.
func (r *Registry) ByID(id uint32) (*Task, bool) {
	t, ok := r.byID[id]
	return t, ok
}

func (r *Registry) add(t *Task) {
	r.tasks = append(r.tasks, t)
	r.byID[t.ID] = t
}

// AddNormalTask registers a firmware-created task discovered via
// TASK_CREATE. finishOnStop resolves the §4.6 job-per-execution policy for
// this task from its name.
func (r *Registry) AddNormalTask(id uint32, name string, priority uint32, color string, finishOnStop bool) *Task {
	t := &Task{ID: id, Name: name, Priority: &priority, Kind: KindNormal, Color: color, FinishOnStop: finishOnStop}
	r.add(t)
	return t
}

// InitSyntheticTasks creates the scheduler, tick, and idle tasks for every
// core, named per §4's single-core/multi-core convention. tickIDs supplies
// one IRQ id per core, also used as the tick task's registry id.
func (r *Registry) InitSyntheticTasks(tickIDs []int, schedulerBaseID int, colorFor func(id uint32) string) error {
	numCores := len(tickIDs)
	r.scheduler = make([]*Task, numCores)
	r.tick = make([]*Task, numCores)
	r.idle = make([]*Task, numCores)

	for core, tickID := range tickIDs {
		tickName := "Tick"
		schedName := "Scheduler"
		idleName := "IDLE"
		if numCores > 1 {
			tickName = fmt.Sprintf("Tick Core %d", core)
			schedName = fmt.Sprintf("Scheduler Core %d", core)
			idleName = fmt.Sprintf("IDLE%d", core)
		}

		schedID := uint32(schedulerBaseID + core)
		idleID := ^uint32(0) - uint32(core)

		tick := &Task{ID: uint32(tickID), Name: tickName, Kind: KindTick, Color: colorFor(uint32(tickID))}
		sched := &Task{ID: schedID, Name: schedName, Kind: KindScheduler, Color: colorFor(schedID)}
		idle := &Task{ID: idleID, Name: idleName, Kind: KindIdle, Color: colorFor(idleID)}

		r.add(tick)
		r.add(sched)
		r.add(idle)

		r.tick[core] = tick
		r.scheduler[core] = sched
		r.idle[core] = idle
	}
	return nil
}

// Scheduler returns the synthetic scheduler task for a core.
func (r *Registry) Scheduler(core int) (*Task, error) { return lookup(r.scheduler, core, "scheduler") }

// Tick returns the synthetic tick task for a core.
func (r *Registry) Tick(core int) (*Task, error) { return lookup(r.tick, core, "tick") }

// Idle returns the synthetic idle task for a core.
func (r *Registry) Idle(core int) (*Task, error) { return lookup(r.idle, core, "idle") }

func lookup(tasks []*Task, core int, what string) (*Task, error) {
	if core < 0 || core >= len(tasks) || tasks[core] == nil {
		return nil, fmt.Errorf("registry: no %s task for core %d", what, core)
	}
	return tasks[core], nil
}

// NonEmpty returns every task with at least one finished job, in registry
// order, excluding tasks created but never executed (a task can be created
// in the trace but never run, per the original parser() filter).
func (r *Registry) NonEmpty() []*Task {
	var out []*Task
	for _, t := range r.tasks {
		if len(t.Jobs) != 0 {
			out = append(out, t)
		}
	}
	return out
}
