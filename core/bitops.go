package core

import (
	"github.com/sarchlab/alusim/ops"
)

// BitOps computes the pure, input-only bit functions: leading/trailing zero
// counts, population count, bit reversal, and byte swap. CLZ and CTZ of a
// zero word return N, not N-1.
type BitOps struct {
	width uint
}

// NewBitOps creates a bit-operations unit for the given width.
func NewBitOps(width uint) *BitOps {
	return &BitOps{width: width}
}

// Apply computes the bit operation on a.
func (b *BitOps) Apply(op ops.Op, a Word) Word {
	switch op {
	case ops.OpCLZ:
		return WordFromUint64(b.width, uint64(a.LeadingZeros()))
	case ops.OpCTZ:
		return WordFromUint64(b.width, uint64(a.TrailingZeros()))
	case ops.OpPOPCNT:
		return WordFromUint64(b.width, uint64(a.OnesCount()))
	case ops.OpREV:
		return a.Reverse()
	case ops.OpBSWAP:
		return a.ByteSwap()
	default:
		return NewWord(b.width)
	}
}
