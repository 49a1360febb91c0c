package core

import (
	"github.com/sarchlab/alusim/ops"
)

// LaneSplitter reinterprets the N-bit datapath as N/L independent L-bit
// lanes and applies add, sub, or mul to each lane in isolation. Each lane
// wraps modulo 2^L; no carry ever crosses a lane boundary.
//
// Lane widths divide 64, so a lane never straddles a limb.
type LaneSplitter struct {
	width uint
}

// NewLaneSplitter creates a lane unit for the given datapath width.
func NewLaneSplitter(width uint) *LaneSplitter {
	return &LaneSplitter{width: width}
}

// Apply computes op lane-wise at the given lane width and returns the packed
// result plus a zero flag per lane, lane 0 being the least significant.
func (l *LaneSplitter) Apply(op ops.Op, a, b Word, laneWidth uint) (Word, []bool) {
	count := l.width / laneWidth
	mask := laneMask(laneWidth)

	z := NewWord(l.width)
	zeros := make([]bool, count)
	for i := uint(0); i < count; i++ {
		av := laneAt(a, i, laneWidth)
		bv := laneAt(b, i, laneWidth)

		var v uint64
		switch op {
		case ops.OpADD, ops.OpVADD:
			v = (av + bv) & mask
		case ops.OpSUB, ops.OpVSUB:
			v = (av - bv) & mask
		case ops.OpMUL, ops.OpVMUL:
			v = (av * bv) & mask
		}

		setLane(&z, i, laneWidth, v)
		zeros[i] = v == 0
	}
	return z, zeros
}

func laneMask(laneWidth uint) uint64 {
	if laneWidth == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << laneWidth) - 1
}

func laneAt(w Word, i, laneWidth uint) uint64 {
	bit := i * laneWidth
	return (w.limbs[bit/64] >> (bit % 64)) & laneMask(laneWidth)
}

func setLane(w *Word, i, laneWidth uint, v uint64) {
	bit := i * laneWidth
	w.limbs[bit/64] |= v << (bit % 64)
}
