// Package core provides the pipelined execution model: the combinational
// evaluator behind a fixed-depth delay queue with a tick interface.
package core

import (
	"fmt"

	alu "github.com/sarchlab/alusim/core"
	"github.com/sarchlab/alusim/ops"
	"github.com/sarchlab/alusim/timing/pipeline"
)

// Stats holds execution statistics for a pipelined core.
type Stats struct {
	// Ticks is the number of enabled ticks.
	Ticks uint64
	// Operations is the number of operations issued.
	Operations uint64
	// Held is the number of disabled (hold) ticks.
	Held uint64
}

// PipelinedCore evaluates operations with a fixed result latency. Results
// and flags become visible exactly depth ticks after the operation was
// issued; with depth 0 the core degenerates to the combinational evaluator.
type PipelinedCore struct {
	evaluator *alu.Evaluator
	queue     *pipeline.DelayQueue
	stats     Stats
}

// NewPipelinedCore wraps an evaluator in a delay queue of the given depth.
// Pipelining must be enabled in the evaluator's feature set for any nonzero
// depth.
func NewPipelinedCore(evaluator *alu.Evaluator, depth int) (*PipelinedCore, error) {
	if depth < 0 {
		return nil, fmt.Errorf("negative pipeline depth %d", depth)
	}
	if depth > 0 && !evaluator.Features().Has(ops.FeaturePipeline) {
		return nil, fmt.Errorf("pipeline feature disabled for depth %d", depth)
	}
	return &PipelinedCore{
		evaluator: evaluator,
		queue:     pipeline.NewDelayQueue(fmt.Sprintf("core%d", evaluator.Width()), depth),
	}, nil
}

// Depth returns the configured pipeline depth.
func (c *PipelinedCore) Depth() int {
	return c.queue.Depth()
}

// Tick issues one operation when enable is true and advances the pipeline.
// The returned entry is the evaluation issued Depth ticks earlier; the
// second return value is false until the pipeline has filled. When enable
// is false the pipeline holds and the prior output is returned.
func (c *PipelinedCore) Tick(
	enable bool,
	a, b alu.Word,
	op ops.Op,
	mode ops.Mode,
	shiftAmount uint,
	carryIn bool,
) (pipeline.Entry, bool) {
	if !enable {
		c.stats.Held++
		return c.queue.Tick(false, pipeline.Entry{})
	}

	result, flags, exc := c.evaluator.Evaluate(a, b, op, mode, shiftAmount, carryIn)
	c.stats.Ticks++
	c.stats.Operations++
	return c.queue.Tick(true, pipeline.Entry{
		Result: result,
		Flags:  flags,
		Exc:    exc,
	})
}

// Stats returns execution statistics.
func (c *PipelinedCore) Stats() Stats {
	return c.stats
}

// Reset clears the pipeline and statistics. The evaluator is stateless and
// needs no reset.
func (c *PipelinedCore) Reset() {
	c.queue.Reset()
	c.stats = Stats{}
}
