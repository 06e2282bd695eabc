package wire

// Event is a decoded trace record with an absolute, per-core timestamp in
// microseconds. It is a discriminated struct, not an untyped key-value bag:
// only the fields relevant to Kind are meaningful, per the design note that
// the wire decode table is the single source of truth for event shape.
type Event struct {
	Kind Kind
	TS   int64 // absolute microseconds since this core's buffer origin
	Core int

	TaskID   uint32 // TaskCreate, TaskStart/StopExec, TaskStart/StopReady
	Name     string // TaskCreate
	Priority uint32 // TaskCreate

	TimeToWakeMs uint32 // DelayUntil
	DelayMs      uint32 // Delay
	IRQID        uint32 // ISREnter

	// Synthetic marks an event that did not come from the wire but was
	// inserted by the recovery patcher (§4.4).
	Synthetic bool
}

// KV returns the event's payload as ordered key-value pairs, used by
// FormatEvent to reproduce the diagnostic log line shape from §6.3.
func (e Event) KV() []KeyValue {
	switch e.Kind {
	case KindTaskStartExec, KindTaskStopExec, KindTaskStartReady, KindTaskStopReady:
		return []KeyValue{{"core", e.Core}, {"taskId", e.TaskID}}
	case KindTaskCreate:
		return []KeyValue{{"core", e.Core}, {"taskId", e.TaskID}, {"name", e.Name}, {"priority", e.Priority}}
	case KindDelayUntil:
		return []KeyValue{{"core", e.Core}, {"timeToWake", e.TimeToWakeMs}}
	case KindDelay:
		return []KeyValue{{"core", e.Core}, {"delayTime", e.DelayMs}}
	case KindISREnter:
		return []KeyValue{{"core", e.Core}, {"irqId", e.IRQID}}
	default:
		return []KeyValue{{"core", e.Core}}
	}
}

// KeyValue is one field of an Event's diagnostic dump.
type KeyValue struct {
	Key   string
	Value any
}
