// Package pipeline models the core's optional fixed-depth result pipeline
// as an explicit bounded FIFO advanced by discrete ticks.
//
// A DelayQueue of depth D makes each evaluation visible exactly D ticks
// after it entered. When the enable input is false no tick occurs: the
// queue and its output hold their prior contents. The queue never holds
// more than D+1 entries by construction, so backpressure cannot arise.
package pipeline

import (
	"strings"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/alusim/core"
)

// Entry is one pipelined evaluation. The result pair, its flags, and its
// exception report travel through the queue together so a delayed exception
// is observed alongside its own result.
type Entry struct {
	Result core.Result
	Flags  core.FlagSet
	Exc    core.Exception
}

// DelayQueue is a fixed-depth FIFO of evaluation entries. It is
// single-writer: concurrent streams need one DelayQueue each.
type DelayQueue struct {
	depth int
	buf   sim.Buffer

	out   Entry
	valid bool

	ticks uint64
	held  uint64
}

// NewDelayQueue creates a queue that delays visibility by depth ticks.
// Depth 0 passes entries through in the same tick. The name may be any
// non-empty string; it is normalized before naming the backing buffer.
func NewDelayQueue(name string, depth int) *DelayQueue {
	return &DelayQueue{
		depth: depth,
		buf:   sim.NewBuffer(bufferName(name), depth+1),
	}
}

// bufferName normalizes a caller-supplied name into the tokenized form the
// sim package requires: every dot-separated element must start with a
// capital letter.
func bufferName(name string) string {
	elems := strings.Split(name, ".")
	for i, e := range elems {
		if e == "" {
			elems[i] = "Q"
			continue
		}
		elems[i] = strings.ToUpper(e[:1]) + e[1:]
	}
	return strings.Join(elems, ".") + ".FIFO"
}

// Depth returns the configured delay in ticks.
func (q *DelayQueue) Depth() int {
	return q.depth
}

// Tick advances the queue by one cycle. When enable is true the entry is
// enqueued and, once depth+1 fills have occurred, the oldest entry becomes
// the visible output. When enable is false nothing moves and the prior
// output is returned again. The second return value is false until the
// first entry has traveled the full depth.
func (q *DelayQueue) Tick(enable bool, in Entry) (Entry, bool) {
	if !enable {
		q.held++
		return q.out, q.valid
	}

	q.ticks++
	q.buf.Push(in)
	if q.buf.Size() == q.depth+1 {
		q.out = q.buf.Pop().(Entry)
		q.valid = true
	}
	return q.out, q.valid
}

// Ticks returns the number of enabled ticks since construction or Reset.
func (q *DelayQueue) Ticks() uint64 {
	return q.ticks
}

// Held returns the number of disabled (hold) ticks.
func (q *DelayQueue) Held() uint64 {
	return q.held
}

// Pending returns the number of entries still in flight.
func (q *DelayQueue) Pending() int {
	return q.buf.Size()
}

// Reset empties the queue and clears the visible output.
func (q *DelayQueue) Reset() {
	q.buf.Clear()
	q.out = Entry{}
	q.valid = false
	q.ticks = 0
	q.held = 0
}
