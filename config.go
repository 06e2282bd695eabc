package rttrace

import "github.com/ESRTS/rttrace/internal/logging"

// Config configures one Reconstruct run. It is a plain struct plus a
// Default constructor, matching the teacher's DeviceParams/
// DefaultDeviceParams pattern rather than a builder or functional options.
type Config struct {
	// TickIDs supplies one tick-ISR IRQ id per core; its length is the
	// core count. Position in the slice is the core index.
	TickIDs []int

	// SchedulerBaseID is the registry id assigned to core 0's synthetic
	// scheduler task; core N gets SchedulerBaseID+N. Default 100, matching
	// the original tool's schedulerId constant.
	SchedulerBaseID int

	// JobPerExecutionNames lists task names whose jobs finish on every
	// TASK_STOP_EXEC rather than carrying over to the next execution
	// (§4.6). Default {"Tmr Svc", "LET Manager"}.
	JobPerExecutionNames []string

	// Parallel selects the pipeline-parallel decode model (§5) over the
	// default sequential decode-then-merge path.
	Parallel bool

	// Logger receives per-anomaly Debugf calls and a per-core summary
	// Infof at the end of reconstruction. Defaults to logging.Default()
	// if nil.
	Logger *logging.Logger
}

// DefaultConfig returns a Config for the given per-core tick IDs with every
// other field set to its documented default.
func DefaultConfig(tickIDs []int) Config {
	return Config{
		TickIDs:              tickIDs,
		SchedulerBaseID:      100,
		JobPerExecutionNames: []string{"Tmr Svc", "LET Manager"},
		Parallel:             false,
		Logger:               logging.Default(),
	}
}

// finishOnStop reports whether name matches the job-per-execution policy.
func (c Config) finishOnStop(name string) bool {
	for _, n := range c.JobPerExecutionNames {
		if n == name {
			return true
		}
	}
	return false
}
