// Package sm drives the per-core state machine that turns a patched,
// time-sorted event stream into job/interval mutations on the task
// registry (§4.5). It is grounded on the teacher's per-resource TagState
// switch machine in internal/queue/runner.go: one small integer state per
// resource (there, per I/O tag; here, per core), transitions expressed as
// a table-driven switch, anomalies returned as values rather than panics.
package sm

import (
	"fmt"

	"github.com/ESRTS/rttrace/internal/registry"
	"github.com/ESRTS/rttrace/internal/wire"
)

// State is one of the four per-core execution states (§4.5).
type State int

const (
	StateIdle State = iota
	StateTask
	StateIRQ
	StateScheduler
)

// String names a state for diagnostic output.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateTask:
		return "TASK"
	case StateIRQ:
		return "IRQ"
	case StateScheduler:
		return "SCHEDULER"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic records one InconsistentTransition: an event the transition
// table does not admit in the machine's current state. The event is
// skipped and the machine's state is left unchanged (§7).
type Diagnostic struct {
	Core    int
	TS      int64
	Kind    wire.Kind
	State   State
	Message string

	// Dropped marks a diagnostic for an event that was never handed to any
	// core's machine at all (currently: an event referencing a core outside
	// the configured range), as opposed to one the transition table saw and
	// rejected.
	Dropped bool
}

// machine holds one core's mutable reconstruction state.
type machine struct {
	core      int
	state     State
	running   *registry.Task // currently executing normal task, nil if none
	beforeIsr *registry.Task // task interrupted by the current ISR, nil if none
}

func (m *machine) anomaly(ev wire.Event, why string) *Diagnostic {
	return &Diagnostic{Core: m.core, TS: ev.TS, Kind: ev.Kind, State: m.state, Message: why}
}

// Reconstruct drives one state machine per core over events, dispatching
// each by event.Core. reg must already hold every synthetic task (via
// InitSyntheticTasks) and every normal task discovered from TASK_CREATE
// events — TASK_CREATE is a no-op at this layer by design (§4.5 table),
// the Task Registry component having already materialized it.
func Reconstruct(reg *registry.Registry, events []wire.Event, numCores int) ([]Diagnostic, error) {
	machines := make([]*machine, numCores)
	for core := 0; core < numCores; core++ {
		sched, err := reg.Scheduler(core)
		if err != nil {
			return nil, fmt.Errorf("sm: %w", err)
		}
		sched.NewJob(0)
		sched.StartExec(0, core)
		machines[core] = &machine{core: core, state: StateScheduler}
	}

	var diagnostics []Diagnostic

	for _, ev := range events {
		if ev.Core < 0 || ev.Core >= numCores {
			diagnostics = append(diagnostics, Diagnostic{
				Core: ev.Core, TS: ev.TS, Kind: ev.Kind,
				Message: "event references a core outside the configured range",
				Dropped: true,
			})
			continue
		}
		m := machines[ev.Core]
		diag, err := m.handle(reg, ev)
		if err != nil {
			return diagnostics, err
		}
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
		}
	}

	closeOpenJobs(reg, events)

	return diagnostics, nil
}

// closeOpenJobs implements the post-processing rule (§4.5): normal tasks
// still open at end-of-stream are closed and marked incomplete; synthetic
// tasks are closed silently.
func closeOpenJobs(reg *registry.Registry, events []wire.Event) {
	if len(events) == 0 {
		return
	}
	lastTS := events[len(events)-1].TS

	for _, t := range reg.Tasks() {
		if t.Current() == nil {
			continue
		}
		if t.Kind == registry.KindNormal {
			t.FinishIncomplete(lastTS)
			continue
		}
		if t.Current().Open() {
			t.StopExec(lastTS)
		}
		t.FinishJob()
	}
}

func (m *machine) handle(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	switch ev.Kind {
	case wire.KindISREnter:
		return m.onISREnter(reg, ev)
	case wire.KindISRExit:
		return m.onISRExit(reg, ev)
	case wire.KindISRExitToScheduler:
		return m.onISRExitToScheduler(reg, ev)
	case wire.KindTaskStartExec:
		return m.onTaskStartExec(reg, ev)
	case wire.KindTaskStopExec:
		return m.onTaskStopExec(reg, ev)
	case wire.KindTaskStartReady:
		return m.onTaskStartReady(reg, ev)
	case wire.KindTaskStopReady:
		return m.anomaly(ev, "TASK_STOP_READY is never admitted"), nil
	case wire.KindDelayUntil:
		return m.onDelayUntil(ev)
	case wire.KindDelay:
		return m.onDelay(ev)
	case wire.KindIdle:
		return m.onIdle(reg, ev)
	case wire.KindTaskCreate, wire.KindTimeZero, wire.KindStart, wire.KindStop:
		return nil, nil // no-op: registry already handled TASK_CREATE
	default:
		return m.anomaly(ev, fmt.Sprintf("unrecognized event kind %d", ev.Kind)), nil
	}
}

func (m *machine) onISREnter(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	tick, err := reg.Tick(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}

	switch m.state {
	case StateIdle:
		idle, err := reg.Idle(m.core)
		if err != nil {
			return nil, fmt.Errorf("sm: %w", err)
		}
		idle.StopExec(ev.TS)
		idle.FinishJob()
		tick.NewJob(ev.TS)
		tick.StartExec(ev.TS, m.core)
		m.beforeIsr = idle
		m.state = StateIRQ
		return nil, nil

	case StateTask:
		if m.running == nil {
			return m.anomaly(ev, "ISR_ENTER in TASK state with no running task"), nil
		}
		m.running.StopExec(ev.TS)
		m.beforeIsr = m.running
		tick.NewJob(ev.TS)
		tick.StartExec(ev.TS, m.core)
		m.state = StateIRQ
		return nil, nil

	default:
		return m.anomaly(ev, "ISR_ENTER not admitted in "+m.state.String()), nil
	}
}

func (m *machine) onISRExit(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	if m.state != StateIRQ {
		return m.anomaly(ev, "ISR_EXIT not admitted in "+m.state.String()), nil
	}

	tick, err := reg.Tick(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}
	tick.StopExec(ev.TS)
	tick.FinishJob()

	idle, err := reg.Idle(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}

	switch {
	case m.beforeIsr == m.running && m.running != nil:
		m.running.StartExec(ev.TS, m.core)
		m.state = StateTask

	case m.beforeIsr == idle:
		idle.NewJob(ev.TS)
		idle.StartExec(ev.TS, m.core)
		m.state = StateIdle

	default:
		return m.anomaly(ev, "beforeIsr points to neither the running task nor idle"), nil
	}

	m.beforeIsr = nil
	return nil, nil
}

func (m *machine) onISRExitToScheduler(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	if m.state != StateIRQ {
		return m.anomaly(ev, "ISR_EXIT_TO_SCHEDULER not admitted in "+m.state.String()), nil
	}

	tick, err := reg.Tick(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}
	tick.StopExec(ev.TS)
	tick.FinishJob()

	sched, err := reg.Scheduler(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}
	sched.NewJob(ev.TS)
	sched.StartExec(ev.TS, m.core)

	m.beforeIsr = nil
	m.state = StateScheduler
	return nil, nil
}

func (m *machine) onTaskStartExec(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	task, ok := reg.ByID(ev.TaskID)
	if !ok {
		return m.anomaly(ev, fmt.Sprintf("TASK_START_EXEC references unregistered task %d", ev.TaskID)), nil
	}
	if task.Current() == nil {
		return m.anomaly(ev, fmt.Sprintf("TASK_START_EXEC: task %d has no open job", ev.TaskID)), nil
	}

	switch m.state {
	case StateIdle:
		idle, err := reg.Idle(m.core)
		if err != nil {
			return nil, fmt.Errorf("sm: %w", err)
		}
		idle.StopExec(ev.TS)
		idle.FinishJob()
		m.running = task
		task.StartExec(ev.TS, m.core)
		m.state = StateTask
		return nil, nil

	case StateScheduler:
		sched, err := reg.Scheduler(m.core)
		if err != nil {
			return nil, fmt.Errorf("sm: %w", err)
		}
		sched.StopExec(ev.TS)
		sched.FinishJob()
		m.running = task
		task.StartExec(ev.TS, m.core)
		m.state = StateTask
		return nil, nil

	default:
		return m.anomaly(ev, "TASK_START_EXEC not admitted in "+m.state.String()), nil
	}
}

func (m *machine) onTaskStopExec(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	switch m.state {
	case StateTask:
		if m.running == nil {
			return m.anomaly(ev, "TASK_STOP_EXEC in TASK state with no running task"), nil
		}
		task := m.running
		task.StopExec(ev.TS)

		job := task.Current()
		if task.FinishOnStop || (job != nil && job.DelayUntil) {
			task.FinishJob()
		}

		m.running = nil

		sched, err := reg.Scheduler(m.core)
		if err != nil {
			return nil, fmt.Errorf("sm: %w", err)
		}
		sched.NewJob(ev.TS)
		sched.StartExec(ev.TS, m.core)
		m.state = StateScheduler
		return nil, nil

	case StateScheduler:
		m.running = nil
		return nil, nil

	default:
		return m.anomaly(ev, "TASK_STOP_EXEC not admitted in "+m.state.String()), nil
	}
}

func (m *machine) onTaskStartReady(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	if m.state == StateIdle {
		return m.anomaly(ev, "TASK_START_READY not admitted in IDLE"), nil
	}

	task, ok := reg.ByID(ev.TaskID)
	if !ok {
		return m.anomaly(ev, fmt.Sprintf("TASK_START_READY references unregistered task %d", ev.TaskID)), nil
	}
	if task.Current() != nil {
		return m.anomaly(ev, fmt.Sprintf("TASK_START_READY: task %d already has an open job", ev.TaskID)), nil
	}
	task.NewJob(ev.TS)
	return nil, nil
}

func (m *machine) onDelayUntil(ev wire.Event) (*Diagnostic, error) {
	if m.state != StateTask {
		return m.anomaly(ev, "DELAY_UNTIL not admitted in "+m.state.String()), nil
	}
	if m.running == nil {
		return m.anomaly(ev, "DELAY_UNTIL in TASK state with no running task"), nil
	}
	job := m.running.Current()
	if job == nil {
		return m.anomaly(ev, "DELAY_UNTIL: running task has no open job"), nil
	}
	job.DelayUntil = true
	deadline := job.ReleaseTime + int64(ev.TimeToWakeMs)*1000
	m.running.SetDeadline(deadline)
	return nil, nil
}

func (m *machine) onDelay(ev wire.Event) (*Diagnostic, error) {
	if m.state != StateTask {
		return m.anomaly(ev, "DELAY not admitted in "+m.state.String()), nil
	}
	if m.running == nil {
		return m.anomaly(ev, "DELAY in TASK state with no running task"), nil
	}
	job := m.running.Current()
	if job == nil {
		return m.anomaly(ev, "DELAY: running task has no open job"), nil
	}
	job.DelayUntil = true
	return nil, nil
}

func (m *machine) onIdle(reg *registry.Registry, ev wire.Event) (*Diagnostic, error) {
	if m.state != StateScheduler {
		return m.anomaly(ev, "IDLE event not admitted in "+m.state.String()), nil
	}

	sched, err := reg.Scheduler(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}
	sched.StopExec(ev.TS)
	sched.FinishJob()

	idle, err := reg.Idle(m.core)
	if err != nil {
		return nil, fmt.Errorf("sm: %w", err)
	}
	idle.NewJob(ev.TS)
	idle.StartExec(ev.TS, m.core)
	m.state = StateIdle
	return nil, nil
}
