package rttrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig([]int{15, 15})
	assert.Equal(t, []int{15, 15}, cfg.TickIDs)
	assert.Equal(t, 100, cfg.SchedulerBaseID)
	assert.Equal(t, []string{"Tmr Svc", "LET Manager"}, cfg.JobPerExecutionNames)
	assert.False(t, cfg.Parallel)
	assert.NotNil(t, cfg.Logger)
}

func TestConfigFinishOnStop(t *testing.T) {
	cfg := DefaultConfig([]int{15})
	assert.True(t, cfg.finishOnStop("Tmr Svc"))
	assert.True(t, cfg.finishOnStop("LET Manager"))
	assert.False(t, cfg.finishOnStop("Consumer"))
}
