package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ESRTS/rttrace/internal/wire"
)

func ev(kind wire.Kind, ts int64, core int) wire.Event {
	return wire.Event{Kind: kind, TS: ts, Core: core}
}

// TestMergeHorizon is testable property 5: no event with ts > min(T_0, T_1)
// appears in the merged output.
func TestMergeHorizon(t *testing.T) {
	core0 := []wire.Event{ev(wire.KindIdle, 1000, 0), ev(wire.KindIdle, 9000, 0), ev(wire.KindIdle, 10000, 0)}
	core1 := []wire.Event{ev(wire.KindIdle, 2000, 1), ev(wire.KindIdle, 7500, 1)}

	merged, err := Merge([]wire.Stream{
		wire.NewSliceStream(core0),
		wire.NewSliceStream(core1),
	})
	require.NoError(t, err)

	for _, e := range merged {
		assert.LessOrEqual(t, e.TS, int64(7500))
	}
	assert.Len(t, merged, 3) // 1000, 2000, 7500; the two core-0 events above 7500 are dropped
}

// TestMergeSortOrder checks the (ts, core) deterministic tie-break.
func TestMergeSortOrder(t *testing.T) {
	core0 := []wire.Event{ev(wire.KindIdle, 500, 0)}
	core1 := []wire.Event{ev(wire.KindIdle, 500, 1)}

	merged, err := Merge([]wire.Stream{
		wire.NewSliceStream(core1), // deliberately fed out of core-index order
		wire.NewSliceStream(core0),
	})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	// Stream 0 in the input slice is tagged core 1; stream 1 is tagged core 0.
	// Sort key is (ts, core), so core 0's event must come first regardless
	// of input stream order.
	assert.Equal(t, 0, merged[0].Core)
	assert.Equal(t, 1, merged[1].Core)
}

func TestMergePropagatesDecodeError(t *testing.T) {
	buf := []byte{0x01} // truncated header: one byte, not even a full dt field
	d := wire.NewDecoder(buf, 0)
	_, err := Merge([]wire.Stream{d})
	require.Error(t, err)
}

// TestAlignTimeZeroRule is testable property 6.
func TestAlignTimeZeroRule(t *testing.T) {
	events := []wire.Event{
		ev(wire.KindTaskStartReady, 5, 0),
		{Kind: wire.KindISREnter, TS: 100, Core: 0, IRQID: 15},
		ev(wire.KindIdle, 150, 0),
		ev(wire.KindTimeZero, 200, 0),
	}
	t0 := AlignTimeZero(events)
	assert.Equal(t, int64(100), t0)

	normalized := Normalize(events, t0)
	// the ISR_ENTER that anchors t0 normalizes to exactly 0.
	assert.Equal(t, int64(0), normalized[1].TS)
}

func TestAlignTimeZeroFallsBackToFirstReady(t *testing.T) {
	events := []wire.Event{
		ev(wire.KindIdle, 10, 0),
		ev(wire.KindTaskStartReady, 42, 0),
		ev(wire.KindIdle, 99, 0),
	}
	assert.Equal(t, int64(42), AlignTimeZero(events))
}

func TestAlignTimeZeroDefaultsToZero(t *testing.T) {
	events := []wire.Event{ev(wire.KindIdle, 10, 0)}
	assert.Equal(t, int64(0), AlignTimeZero(events))
}

// TestMultiCoreHorizonScenario is scenario S4.
func TestMultiCoreHorizonScenario(t *testing.T) {
	core0 := []wire.Event{ev(wire.KindIdle, 5000, 0), ev(wire.KindIdle, 10000, 0)}
	core1 := []wire.Event{ev(wire.KindIdle, 7500, 1)}

	merged, err := Merge([]wire.Stream{
		wire.NewSliceStream(core0),
		wire.NewSliceStream(core1),
	})
	require.NoError(t, err)
	for _, e := range merged {
		assert.LessOrEqual(t, e.TS, int64(7500))
	}
}
