// Package wire decodes the on-target binary trace format into typed events.
// Record layout and opcode ids are the single source of truth for the wire
// contract described in the rttrace specification (§6.1): every downstream
// component consumes only the typed Event produced here, never raw bytes.
package wire

// Kind identifies the opcode of a decoded trace record.
type Kind uint16

const (
	KindIdle                Kind = 1
	KindTaskStartExec       Kind = 2
	KindTaskStopExec        Kind = 3
	KindTaskStartReady      Kind = 4
	KindTaskStopReady       Kind = 5
	KindTaskCreate          Kind = 6
	KindStart               Kind = 7
	KindStop                Kind = 8
	KindDelayUntil          Kind = 9
	KindISREnter            Kind = 10
	KindISRExit             Kind = 11
	KindISRExitToScheduler  Kind = 12
	KindDelay               Kind = 13
	KindTimeZero            Kind = 14
)

// names maps a Kind to the identifier used in diagnostic output (§6.3).
var names = map[Kind]string{
	KindIdle:               "TRACE_IDLE",
	KindTaskStartExec:      "TRACE_TASK_START_EXEC",
	KindTaskStopExec:       "TRACE_TASK_STOP_EXEC",
	KindTaskStartReady:     "TRACE_TASK_START_READY",
	KindTaskStopReady:      "TRACE_TASK_STOP_READY",
	KindTaskCreate:         "TRACE_TASK_CREATE",
	KindStart:              "TRACE_START",
	KindStop:               "TRACE_STOP",
	KindDelayUntil:         "TRACE_DELAY_UNTIL",
	KindISREnter:           "TRACE_ISR_ENTER",
	KindISRExit:            "TRACE_ISR_EXIT",
	KindISRExitToScheduler: "TRACE_ISR_EXIT_TO_SCHEDULER",
	KindDelay:              "TRACE_DELAY",
	KindTimeZero:           "TRACE_TIME_ZERO",
}

// String returns the canonical event name, or "TRACE_UNKNOWN" for an
// unrecognized kind (decode never produces one, but an Event built by hand
// can carry any Kind value).
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "TRACE_UNKNOWN"
}

// TickIRQForTimeZero is the hardcoded IRQ id the Time-Zero Alignment rule
// (§4.3) scans for: firmware posts TIME_ZERO from within the first tick ISR
// on this reference platform.
const TickIRQForTimeZero = 15
