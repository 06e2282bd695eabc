package rttrace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ESRTS/rttrace/internal/wire"
)

func TestSummarizeExcludesZeroJobTasks(t *testing.T) {
	tasks := []Task{
		{Name: "Idle", Jobs: nil},
		{Name: "Worker", Jobs: []Job{{}, {}}},
	}
	lines := Summarize(tasks)
	assert.Equal(t, []string{"Worker (2 jobs)"}, lines)
}

func TestFormatEventLineShape(t *testing.T) {
	ev := wire.Event{Kind: wire.KindTaskStartExec, TS: 1500, Core: 0, TaskID: 7}
	line := FormatEvent(ev)
	assert.Equal(t, "\tts: 1.500ms\tTRACE_TASK_START_EXEC:  core=0 taskId=7", line)
}

func TestFormatEventISREnter(t *testing.T) {
	ev := wire.Event{Kind: wire.KindISREnter, TS: 9, Core: 1, IRQID: 15}
	line := FormatEvent(ev)
	assert.Equal(t, "\tts: 0.009ms\tTRACE_ISR_ENTER:  core=1 irqId=15", line)
}
