package core

import (
	"math/big"
)

// Saturator clamps out-of-range signed results to the nearest representable
// boundary instead of wrapping. Flags are always derived from the raw,
// pre-saturation result; the Saturator only shapes the visible value.
type Saturator struct {
	width uint
}

// NewSaturator creates a saturator for the given width.
func NewSaturator(width uint) *Saturator {
	return &Saturator{width: width}
}

// SaturateAdd clamps the raw sum of a + b when the add overflowed. Two
// non-negative operands saturate to the signed maximum, two negative ones to
// the minimum; signed addition cannot overflow otherwise.
func (s *Saturator) SaturateAdd(a, b, raw Word, overflow bool) Word {
	if !overflow {
		return raw
	}
	if !a.Sign() && !b.Sign() {
		return MaxSigned(s.width)
	}
	return MinSigned(s.width)
}

// SaturateSub clamps the raw difference a - b when the subtract overflowed.
// Non-negative a minus negative b saturates to the maximum; the opposite
// sign pattern saturates to the minimum.
func (s *Saturator) SaturateSub(a, b, raw Word, overflow bool) Word {
	if !overflow {
		return raw
	}
	if !a.Sign() && b.Sign() {
		return MaxSigned(s.width)
	}
	return MinSigned(s.width)
}

// SaturateMul clamps the product of a and b interpreted as signed values.
// The product overflows when its 2N-bit signed value does not sign-extend
// the low half, i.e. falls outside [minSigned, maxSigned]. Returns the
// shaped result and whether saturation occurred.
func (s *Saturator) SaturateMul(a, b, lo Word) (Word, bool) {
	p := new(big.Int).Mul(a.SignedBig(), b.SignedBig())
	if p.Cmp(MaxSigned(s.width).SignedBig()) > 0 {
		return MaxSigned(s.width), true
	}
	if p.Cmp(MinSigned(s.width).SignedBig()) < 0 {
		return MinSigned(s.width), true
	}
	return lo, false
}
