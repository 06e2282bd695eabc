// Package rttrace reconstructs a per-task execution timeline of a
// multi-core real-time operating system from the compact binary trace
// buffers its firmware records in device memory.
//
// Reconstruct decodes one buffer per core, merges them onto a single
// time-sorted stream, repairs the one documented wire anomaly, and drives a
// per-core state machine that produces the set of jobs each task ran and
// the execution intervals those jobs occupied. The result also synthesizes
// bookkeeping for the scheduler, idle task, and tick ISR that the firmware
// itself never records.
//
// The package operates entirely on in-memory buffers: it has no knowledge
// of how those buffers were retrieved from the target or how the resulting
// timeline gets rendered or persisted.
package rttrace
