package core

// AddResult carries a sum or difference together with the carry network
// outputs that flag derivation needs.
type AddResult struct {
	// Sum is the N-bit result.
	Sum Word

	// Carry is the carry out of the top bit for additions, or the borrow
	// out for subtractions.
	Carry bool

	// Overflow is the signed (two's-complement) overflow of the raw result.
	Overflow bool

	// HalfCarry is the carry (or borrow) across the bit 3/4 boundary.
	HalfCarry bool

	// AuxCarry is the carry (or borrow) across the bit 7/8 boundary.
	AuxCarry bool
}

// CarryAdder computes N-bit sums and differences with explicit carry
// propagation. Subtraction is a + ^b + (1 - borrowIn), so the half and aux
// taps observe the same bit-level carry chain the hardware adder would.
type CarryAdder struct {
	width uint
}

// NewCarryAdder creates an adder for the given operand width.
func NewCarryAdder(width uint) *CarryAdder {
	return &CarryAdder{width: width}
}

// Add computes x + y + carryIn.
func (a *CarryAdder) Add(x, y Word, carryIn bool) AddResult {
	sum, carry := x.AddCarry(y, boolToBit(carryIn))

	xSign, ySign, sumSign := x.Sign(), y.Sign(), sum.Sign()

	// Carries into each low bit position: c_k = x_k ^ y_k ^ sum_k.
	cvec := x.limbs[0] ^ y.limbs[0] ^ sum.limbs[0]

	aux := (cvec>>8)&1 == 1
	if a.width == 8 {
		aux = carry == 1
	}

	return AddResult{
		Sum:       sum,
		Carry:     carry == 1,
		Overflow:  xSign == ySign && xSign != sumSign,
		HalfCarry: (cvec>>4)&1 == 1,
		AuxCarry:  aux,
	}
}

// Sub computes x - y - borrowIn. Carry in the result is the borrow out, and
// the half/aux taps report nibble and byte borrows.
func (a *CarryAdder) Sub(x, y Word, borrowIn bool) AddResult {
	notY := y.Not()
	diff, carry := x.AddCarry(notY, 1-boolToBit(borrowIn))

	xSign, ySign, diffSign := x.Sign(), y.Sign(), diff.Sign()

	// Carries of the adder identity; the borrow at a boundary is the
	// inverted identity carry.
	cvec := x.limbs[0] ^ notY.limbs[0] ^ diff.limbs[0]

	auxBorrow := (cvec>>8)&1 == 0
	if a.width == 8 {
		auxBorrow = carry == 0
	}

	return AddResult{
		Sum:       diff,
		Carry:     carry == 0,
		Overflow:  xSign != ySign && ySign == diffSign,
		HalfCarry: (cvec>>4)&1 == 0,
		AuxCarry:  auxBorrow,
	}
}

func boolToBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
