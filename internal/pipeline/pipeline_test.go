package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ESRTS/rttrace/internal/wire"
)

func TestDecodeAllPreservesCoreOrder(t *testing.T) {
	buf0 := wire.Encode([]wire.Record{wire.IdleRecord(10), wire.IdleRecord(20)})
	buf1 := wire.Encode([]wire.Record{wire.IdleRecord(5)})
	buf2 := wire.Encode([]wire.Record{wire.StartRecord(1), wire.StopRecord(1)})

	out, err := DecodeAll(context.Background(), [][]byte{buf0, buf1, buf2}, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Len(t, out[0], 2)
	assert.Len(t, out[1], 1)
	assert.Len(t, out[2], 2)
	for core, events := range out {
		for _, ev := range events {
			assert.Equal(t, core, ev.Core)
		}
	}
}

func TestDecodeAllPropagatesMalformedEvent(t *testing.T) {
	good := wire.Encode([]wire.Record{wire.IdleRecord(1)})
	bad := wire.Encode([]wire.Record{{DT: 1, Kind: 0xFFFF}})

	_, err := DecodeAll(context.Background(), [][]byte{good, bad}, 0)
	require.Error(t, err)
}

func TestDecodeAllEmpty(t *testing.T) {
	out, err := DecodeAll(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Nil(t, out)
}
