package wire

import "encoding/binary"

// Record describes one (dt, id, payload) triple to be encoded onto a
// synthetic trace buffer, per §6.1 and testable property 4 (codec
// round-trip). Built by internal/wire's encode helpers or directly by
// tests exercising truncation/malformed-opcode edge cases.
type Record struct {
	DT      uint16
	Kind    Kind
	Payload []byte
}

// Encode concatenates the wire bytes for a sequence of records, in order.
func Encode(records []Record) []byte {
	var buf []byte
	for _, r := range records {
		header := make([]byte, 4)
		binary.LittleEndian.PutUint16(header[0:2], r.DT)
		binary.LittleEndian.PutUint16(header[2:4], uint16(r.Kind))
		buf = append(buf, header...)
		buf = append(buf, r.Payload...)
	}
	return buf
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// IdleRecord encodes a TRACE_IDLE record.
func IdleRecord(dt uint16) Record { return Record{DT: dt, Kind: KindIdle} }

// TaskStartExecRecord encodes a TRACE_TASK_START_EXEC record.
func TaskStartExecRecord(dt uint16, taskID uint32) Record {
	return Record{DT: dt, Kind: KindTaskStartExec, Payload: u32(taskID)}
}

// TaskStopExecRecord encodes a TRACE_TASK_STOP_EXEC record.
func TaskStopExecRecord(dt uint16, taskID uint32) Record {
	return Record{DT: dt, Kind: KindTaskStopExec, Payload: u32(taskID)}
}

// TaskStartReadyRecord encodes a TRACE_TASK_START_READY record.
func TaskStartReadyRecord(dt uint16, taskID uint32) Record {
	return Record{DT: dt, Kind: KindTaskStartReady, Payload: u32(taskID)}
}

// TaskStopReadyRecord encodes a TRACE_TASK_STOP_READY record.
func TaskStopReadyRecord(dt uint16, taskID uint32) Record {
	return Record{DT: dt, Kind: KindTaskStopReady, Payload: u32(taskID)}
}

// TaskCreateRecord encodes a TRACE_TASK_CREATE record. name is NUL-padded
// up to a multiple of 4 bytes, matching the strLen-word-count convention.
func TaskCreateRecord(dt uint16, taskID, priority uint32, name string) Record {
	words := (len(name) + 4) / 4 // always pad at least one trailing NUL
	padded := make([]byte, words*4)
	copy(padded, name)

	payload := append(u32(taskID), u32(uint32(words))...)
	payload = append(payload, u32(priority)...)
	payload = append(payload, padded...)
	return Record{DT: dt, Kind: KindTaskCreate, Payload: payload}
}

// StartRecord encodes a TRACE_START record.
func StartRecord(dt uint16) Record { return Record{DT: dt, Kind: KindStart} }

// StopRecord encodes a TRACE_STOP record.
func StopRecord(dt uint16) Record { return Record{DT: dt, Kind: KindStop} }

// DelayUntilRecord encodes a TRACE_DELAY_UNTIL record. timeToWakeMs is in
// milliseconds on the wire (§6.1).
func DelayUntilRecord(dt uint16, timeToWakeMs uint32) Record {
	return Record{DT: dt, Kind: KindDelayUntil, Payload: u32(timeToWakeMs)}
}

// DelayRecord encodes a TRACE_DELAY record.
func DelayRecord(dt uint16, delayMs uint32) Record {
	return Record{DT: dt, Kind: KindDelay, Payload: u32(delayMs)}
}

// ISREnterRecord encodes a TRACE_ISR_ENTER record.
func ISREnterRecord(dt uint16, irqID uint32) Record {
	return Record{DT: dt, Kind: KindISREnter, Payload: u32(irqID)}
}

// ISRExitRecord encodes a TRACE_ISR_EXIT record.
func ISRExitRecord(dt uint16) Record { return Record{DT: dt, Kind: KindISRExit} }

// ISRExitToSchedulerRecord encodes a TRACE_ISR_EXIT_TO_SCHEDULER record.
func ISRExitToSchedulerRecord(dt uint16) Record { return Record{DT: dt, Kind: KindISRExitToScheduler} }

// TimeZeroRecord encodes a TRACE_TIME_ZERO record.
func TimeZeroRecord(dt uint16) Record { return Record{DT: dt, Kind: KindTimeZero} }
