package core

// FlagSet is the status record derived from an evaluation. Flags always
// reflect the raw, pre-saturation result of the selected operation.
//
// Which bits are meaningful depends on the operation: arithmetic operations
// populate the full record, logic/bit/move operations clear Carry and
// Overflow, shifts report the last bit shifted out as Carry, and BitTest is
// set only by TST.
type FlagSet struct {
	// Zero is set when the raw primary result is all-zero.
	Zero bool

	// Negative is the top bit of the raw primary result.
	Negative bool

	// Carry is the carry out (add), borrow out (sub/cmp), high-half
	// non-zero indicator (mul), or last bit shifted out (shift/rotate).
	Carry bool

	// Overflow is the two's-complement overflow of the raw result.
	Overflow bool

	// Parity is set when the raw result has an even number of set bits.
	Parity bool

	// HalfCarry is the carry or borrow across the bit 3/4 boundary.
	HalfCarry bool

	// AuxCarry is the carry or borrow across the bit 7/8 boundary.
	AuxCarry bool

	// Sign mirrors Negative.
	Sign bool

	// BitTest is set by TST when a AND b is nonzero.
	BitTest bool

	// LaneZero holds one zero flag per lane, least significant lane first.
	// It is non-nil only when a lane mode shaped the result.
	LaneZero []bool
}

func evenParity(w Word) bool {
	return w.OnesCount()%2 == 0
}

// arithmeticFlags derives the full flag record from an adder result.
func arithmeticFlags(res AddResult) FlagSet {
	neg := res.Sum.Sign()
	return FlagSet{
		Zero:      res.Sum.IsZero(),
		Negative:  neg,
		Sign:      neg,
		Carry:     res.Carry,
		Overflow:  res.Overflow,
		Parity:    evenParity(res.Sum),
		HalfCarry: res.HalfCarry,
		AuxCarry:  res.AuxCarry,
	}
}

// logicFlags derives flags for logic, bit, and move operations. Carry and
// overflow are cleared.
func logicFlags(raw Word) FlagSet {
	neg := raw.Sign()
	return FlagSet{
		Zero:     raw.IsZero(),
		Negative: neg,
		Sign:     neg,
		Parity:   evenParity(raw),
	}
}

// shiftFlags derives flags for shifts and rotates; carry is the last bit
// shifted out.
func shiftFlags(raw Word, shiftedOut bool) FlagSet {
	f := logicFlags(raw)
	f.Carry = shiftedOut
	return f
}

// mulFlags derives flags for the plain multiply: carry and overflow are set
// together when the unsigned product does not fit the low half.
func mulFlags(lo, hi Word) FlagSet {
	f := logicFlags(lo)
	f.Carry = !hi.IsZero()
	f.Overflow = !hi.IsZero()
	return f
}

// laneFlags derives flags for lane-shaped results: the global Zero flag is
// the conjunction of the per-lane zeros.
func laneFlags(raw Word, zeros []bool) FlagSet {
	f := logicFlags(raw)
	all := true
	for _, z := range zeros {
		if !z {
			all = false
			break
		}
	}
	f.Zero = all
	f.LaneZero = zeros
	return f
}
