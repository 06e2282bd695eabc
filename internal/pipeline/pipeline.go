// Package pipeline implements the optional pipeline-parallel decode model
// (§5): one worker per core buffer, fanned out through
// github.com/ygrebnov/workers, bounded by a fixed-size pool for
// backpressure. internal/merge remains the sole sequential consumer
// downstream, regardless of which decode model fed it.
package pipeline

import (
	"context"
	"fmt"

	"github.com/ygrebnov/workers"

	"github.com/ESRTS/rttrace/internal/wire"
)

// coreBuffer pairs one core's raw buffer with its core index: the unit of
// work fanned out to the worker pool.
type coreBuffer struct {
	core int
	buf  []byte
}

// coreEvents pairs one core's decoded events with its core index.
// workers.Map delivers results in completion order, not input order, so
// the core index travels with the result rather than being inferred from
// its position in the returned slice.
type coreEvents struct {
	core   int
	events []wire.Event
}

// DecodeAll decodes every core's buffer concurrently, bounded to maxWorkers
// in-flight decodes (maxWorkers <= 0 selects a dynamically sized pool), and
// returns one []wire.Event per core in core-index order. StopOnError is
// enabled: the first MalformedEvent from any core cancels the remaining
// in-flight decodes rather than producing partial, hard-to-reason-about
// diagnostics; the per-core streams already decoded before the error is
// observed are simply discarded along with it, equivalent in outcome to
// the sequential decode path aborting at the same core.
func DecodeAll(ctx context.Context, buffers [][]byte, maxWorkers int) ([][]wire.Event, error) {
	if len(buffers) == 0 {
		return nil, nil
	}

	items := make([]coreBuffer, len(buffers))
	for i, buf := range buffers {
		items[i] = coreBuffer{core: i, buf: buf}
	}

	opts := []workers.Option{workers.WithStopOnError()}
	if maxWorkers > 0 {
		opts = append(opts, workers.WithFixedPool(uint(maxWorkers)))
	} else {
		opts = append(opts, workers.WithDynamicPool())
	}

	results, err := workers.Map(ctx, items, func(ctx context.Context, item coreBuffer) (coreEvents, error) {
		events, decErr := wire.DecodeAll(item.buf, item.core)
		if decErr != nil {
			return coreEvents{}, fmt.Errorf("pipeline: core %d: %w", item.core, decErr)
		}
		return coreEvents{core: item.core, events: events}, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	out := make([][]wire.Event, len(buffers))
	for _, r := range results {
		out[r.core] = r.events
	}
	return out, nil
}
