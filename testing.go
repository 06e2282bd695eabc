package rttrace

import "github.com/ESRTS/rttrace/internal/wire"

// BufferBuilder composes a sequence of (dt, id, payload) records into a raw
// trace buffer for one core, for use in codec round-trip tests and
// scenario-level Reconstruct tests. It is useful for any caller that wants
// to exercise the reconstructor without a real target attached.
type BufferBuilder struct {
	records []wire.Record
	cursor  int64 // absolute microseconds of the last appended record
}

// NewBufferBuilder returns an empty builder.
func NewBufferBuilder() *BufferBuilder { return &BufferBuilder{} }

func (b *BufferBuilder) push(ts int64, r wire.Record) *BufferBuilder {
	r.DT = uint16(ts - b.cursor)
	b.cursor = ts
	b.records = append(b.records, r)
	return b
}

// Idle appends a TRACE_IDLE record at absolute timestamp ts.
func (b *BufferBuilder) Idle(ts int64) *BufferBuilder {
	return b.push(ts, wire.IdleRecord(0))
}

// TaskStartExec appends a TRACE_TASK_START_EXEC record at ts.
func (b *BufferBuilder) TaskStartExec(ts int64, taskID uint32) *BufferBuilder {
	return b.push(ts, wire.TaskStartExecRecord(0, taskID))
}

// TaskStopExec appends a TRACE_TASK_STOP_EXEC record at ts.
func (b *BufferBuilder) TaskStopExec(ts int64, taskID uint32) *BufferBuilder {
	return b.push(ts, wire.TaskStopExecRecord(0, taskID))
}

// TaskStartReady appends a TRACE_TASK_START_READY record at ts.
func (b *BufferBuilder) TaskStartReady(ts int64, taskID uint32) *BufferBuilder {
	return b.push(ts, wire.TaskStartReadyRecord(0, taskID))
}

// TaskStopReady appends a TRACE_TASK_STOP_READY record at ts.
func (b *BufferBuilder) TaskStopReady(ts int64, taskID uint32) *BufferBuilder {
	return b.push(ts, wire.TaskStopReadyRecord(0, taskID))
}

// TaskCreate appends a TRACE_TASK_CREATE record at ts.
func (b *BufferBuilder) TaskCreate(ts int64, taskID, priority uint32, name string) *BufferBuilder {
	return b.push(ts, wire.TaskCreateRecord(0, taskID, priority, name))
}

// Start appends a TRACE_START record at ts.
func (b *BufferBuilder) Start(ts int64) *BufferBuilder {
	return b.push(ts, wire.StartRecord(0))
}

// Stop appends a TRACE_STOP record at ts.
func (b *BufferBuilder) Stop(ts int64) *BufferBuilder {
	return b.push(ts, wire.StopRecord(0))
}

// DelayUntil appends a TRACE_DELAY_UNTIL record at ts.
func (b *BufferBuilder) DelayUntil(ts int64, timeToWakeMs uint32) *BufferBuilder {
	return b.push(ts, wire.DelayUntilRecord(0, timeToWakeMs))
}

// Delay appends a TRACE_DELAY record at ts.
func (b *BufferBuilder) Delay(ts int64, delayMs uint32) *BufferBuilder {
	return b.push(ts, wire.DelayRecord(0, delayMs))
}

// ISREnter appends a TRACE_ISR_ENTER record at ts.
func (b *BufferBuilder) ISREnter(ts int64, irqID uint32) *BufferBuilder {
	return b.push(ts, wire.ISREnterRecord(0, irqID))
}

// ISRExit appends a TRACE_ISR_EXIT record at ts.
func (b *BufferBuilder) ISRExit(ts int64) *BufferBuilder {
	return b.push(ts, wire.ISRExitRecord(0))
}

// ISRExitToScheduler appends a TRACE_ISR_EXIT_TO_SCHEDULER record at ts.
func (b *BufferBuilder) ISRExitToScheduler(ts int64) *BufferBuilder {
	return b.push(ts, wire.ISRExitToSchedulerRecord(0))
}

// TimeZero appends a TRACE_TIME_ZERO record at ts.
func (b *BufferBuilder) TimeZero(ts int64) *BufferBuilder {
	return b.push(ts, wire.TimeZeroRecord(0))
}

// Raw appends an arbitrary record unchanged, dt included — an escape hatch
// for tests constructing malformed or truncated buffers directly.
func (b *BufferBuilder) Raw(r wire.Record) *BufferBuilder {
	b.records = append(b.records, r)
	return b
}

// Bytes returns the encoded buffer.
func (b *BufferBuilder) Bytes() []byte { return wire.Encode(b.records) }
