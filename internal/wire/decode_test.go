package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodecRoundTrip is testable property 4: a synthetic buffer built from
// a list of (dt, id, payload) triples decodes back to exactly that list,
// with timestamps equal to prefix sums of dt.
func TestCodecRoundTrip(t *testing.T) {
	records := []Record{
		TaskCreateRecord(1, 1, 1, "T"),
		TaskStartReadyRecord(0x100, 1),
		ISREnterRecord(0x10, 15),
		ISRExitRecord(0x10),
		TaskStopExecRecord(0x20, 1),
	}
	buf := Encode(records)

	events, err := DecodeAll(buf, 2)
	require.NoError(t, err)
	require.Len(t, events, len(records))

	var wantTS int64
	for i, r := range records {
		wantTS += int64(r.DT)
		assert.Equal(t, r.Kind, events[i].Kind, "event %d kind", i)
		assert.Equal(t, wantTS, events[i].TS, "event %d ts", i)
		assert.Equal(t, 2, events[i].Core)
	}

	assert.Equal(t, "T", events[0].Name)
	assert.Equal(t, uint32(1), events[0].Priority)
	assert.Equal(t, uint32(15), events[2].IRQID)
}

func TestDecodeCleanEOF(t *testing.T) {
	buf := Encode([]Record{IdleRecord(5), StartRecord(1)})
	events, err := DecodeAll(buf, 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestDecodeUnknownOpcode(t *testing.T) {
	buf := Encode([]Record{{DT: 1, Kind: 0xFFFF}})
	_, err := DecodeAll(buf, 0)
	require.Error(t, err)
	var malformed *ErrMalformed
	require.ErrorAs(t, err, &malformed)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	buf := Encode([]Record{TaskStartExecRecord(1, 7)})
	buf = buf[:len(buf)-2] // cut the last 2 bytes of the taskId payload

	_, err := DecodeAll(buf, 0)
	require.Error(t, err)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	// A lone byte is neither a clean end-of-buffer nor a full dt field, so
	// it must be MalformedEvent, not a clean stop (§4.1).
	buf := []byte{0x01}
	d := NewDecoder(buf, 0)
	_, ok, err := d.Next()
	require.Error(t, err)
	assert.False(t, ok)
	var malformed *ErrMalformed
	require.ErrorAs(t, err, &malformed)
}

func TestDecodePartialHeaderAfterRecord(t *testing.T) {
	buf := Encode([]Record{IdleRecord(1)})
	buf = append(buf, 0x01) // one stray byte: partial next header

	d := NewDecoder(buf, 0)
	_, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = d.Next()
	require.Error(t, err, "a partial header must be MalformedEvent, not a clean stop")
	assert.False(t, ok)
}

func TestDecodeMicrosecondAccumulation(t *testing.T) {
	// dt deltas individually fit in 16 bits but their sum must not wrap at
	// 16 bits: the cursor is accumulated in 64-bit (§4.1).
	records := make([]Record, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, IdleRecord(60000))
	}
	events, err := DecodeAll(Encode(records), 0)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, int64(300000), events[4].TS)
}

func TestTaskNameStripsAtFirstNUL(t *testing.T) {
	buf := Encode([]Record{TaskCreateRecord(1, 1, 0, "ab")})
	events, err := DecodeAll(buf, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ab", events[0].Name)
}
