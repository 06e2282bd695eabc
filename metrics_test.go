package rttrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructionStatsSnapshot(t *testing.T) {
	s := NewReconstructionStats()
	s.EventsDecoded.Add(100)
	s.EventsDropped.Add(1)
	s.JobsFinished.Add(10)
	s.Anomalies.Add(2)

	snap := s.Snapshot()
	assert.Equal(t, uint64(100), snap.EventsDecoded)
	assert.Equal(t, uint64(1), snap.EventsDropped)
	assert.Equal(t, uint64(10), snap.JobsFinished)
	assert.Equal(t, uint64(2), snap.Anomalies)
}

func TestRecordJobDurationHistogram(t *testing.T) {
	s := NewReconstructionStats()
	s.RecordJobDuration(5)      // falls in the 10us bucket
	s.RecordJobDuration(50_000) // falls in the 100ms bucket

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.DurationHistogram[0]) // <= 10us
	assert.Equal(t, uint64(2), snap.DurationHistogram[4]) // <= 100ms, cumulative
	assert.Greater(t, snap.AvgJobDurationUs, int64(0))
}

func TestRecordJobDurationClampsNegative(t *testing.T) {
	s := NewReconstructionStats()
	s.RecordJobDuration(-5)

	snap := s.Snapshot()
	assert.Equal(t, int64(0), snap.AvgJobDurationUs)
	assert.Equal(t, uint64(1), snap.DurationHistogram[0])
}

func TestStatsReset(t *testing.T) {
	s := NewReconstructionStats()
	s.EventsDecoded.Add(5)
	s.RecordJobDuration(100)

	s.Reset()

	snap := s.Snapshot()
	assert.Zero(t, snap.EventsDecoded)
	assert.Zero(t, snap.AvgJobDurationUs)
	for _, b := range snap.DurationHistogram {
		assert.Zero(t, b)
	}
}
