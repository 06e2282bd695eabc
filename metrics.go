package rttrace

import "sync/atomic"

// JobDurationBuckets defines the job-duration histogram buckets in
// microseconds, covering 10us to 100s with logarithmic spacing — the
// domain-relevant analog of a latency histogram for a reconstruction that
// never observes wall-clock time, only on-target microsecond timestamps.
var JobDurationBuckets = []int64{
	10,          // 10us
	100,         // 100us
	1_000,       // 1ms
	10_000,      // 10ms
	100_000,     // 100ms
	1_000_000,   // 1s
	10_000_000,  // 10s
	100_000_000, // 100s
}

const numDurationBuckets = 8

// ReconstructionStats accumulates counters over one Reconstruct run. All
// fields are atomics and safe for concurrent use; Reconstruct hands the
// block to its caller only in the returned Result.
type ReconstructionStats struct {
	EventsDecoded     atomic.Uint64
	EventsDropped     atomic.Uint64 // out-of-range-core events (a malformed event aborts the run instead)
	JobsFinished      atomic.Uint64
	IntervalsCreated  atomic.Uint64
	Anomalies         atomic.Uint64 // InconsistentTransition diagnostics
	SyntheticInserted atomic.Uint64 // recovery-patched ISR_ENTER events

	totalDurationUs atomic.Uint64
	durationCount   atomic.Uint64
	durationBuckets [numDurationBuckets]atomic.Uint64
}

// NewReconstructionStats returns a zeroed stats block.
func NewReconstructionStats() *ReconstructionStats {
	return &ReconstructionStats{}
}

// RecordJobDuration records one finished job's total execution time (the
// sum of its intervals' durations, in microseconds) into the histogram.
func (s *ReconstructionStats) RecordJobDuration(durationUs int64) {
	if durationUs < 0 {
		durationUs = 0
	}
	s.totalDurationUs.Add(uint64(durationUs))
	s.durationCount.Add(1)
	for i, bucket := range JobDurationBuckets {
		if durationUs <= bucket {
			s.durationBuckets[i].Add(1)
		}
	}
}

// StatsSnapshot is a point-in-time copy of ReconstructionStats.
type StatsSnapshot struct {
	EventsDecoded     uint64
	EventsDropped     uint64
	JobsFinished      uint64
	IntervalsCreated  uint64
	Anomalies         uint64
	SyntheticInserted uint64

	AvgJobDurationUs int64
	DurationP50Us    int64
	DurationP99Us    int64

	DurationHistogram [numDurationBuckets]uint64
}

// Snapshot copies every counter's current value.
func (s *ReconstructionStats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		EventsDecoded:     s.EventsDecoded.Load(),
		EventsDropped:     s.EventsDropped.Load(),
		JobsFinished:      s.JobsFinished.Load(),
		IntervalsCreated:  s.IntervalsCreated.Load(),
		Anomalies:         s.Anomalies.Load(),
		SyntheticInserted: s.SyntheticInserted.Load(),
	}

	count := s.durationCount.Load()
	if count > 0 {
		snap.AvgJobDurationUs = int64(s.totalDurationUs.Load() / count)
		snap.DurationP50Us = s.calculatePercentile(count, 0.50)
		snap.DurationP99Us = s.calculatePercentile(count, 0.99)
	}
	for i := 0; i < numDurationBuckets; i++ {
		snap.DurationHistogram[i] = s.durationBuckets[i].Load()
	}
	return snap
}

// calculatePercentile estimates the duration at the given percentile
// (0.0-1.0) by linear interpolation between histogram buckets, mirroring
// the teacher's bucket-interpolation approach to percentile estimation
// from a cumulative histogram rather than a sorted sample set.
func (s *ReconstructionStats) calculatePercentile(count uint64, percentile float64) int64 {
	target := uint64(float64(count) * percentile)

	var prevBucket, prevCount int64
	for i, bucket := range JobDurationBuckets {
		bucketCount := int64(s.durationBuckets[i].Load())
		if uint64(bucketCount) >= target {
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(int64(target)-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + int64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
		prevCount = bucketCount
	}
	return JobDurationBuckets[numDurationBuckets-1]
}

// Reset zeroes every counter.
func (s *ReconstructionStats) Reset() {
	s.EventsDecoded.Store(0)
	s.EventsDropped.Store(0)
	s.JobsFinished.Store(0)
	s.IntervalsCreated.Store(0)
	s.Anomalies.Store(0)
	s.SyntheticInserted.Store(0)
	s.totalDurationUs.Store(0)
	s.durationCount.Store(0)
	for i := 0; i < numDurationBuckets; i++ {
		s.durationBuckets[i].Store(0)
	}
}
