package core

import (
	"fmt"

	"github.com/sarchlab/alusim/ops"
)

// Result is the value pair an evaluation produces. Secondary carries the
// high half of double-width results (multiply), the remainder or quotient
// (divide/modulo), the carry bit in extended mode, or the swapped operand;
// it is zero when unused.
type Result struct {
	Primary   Word
	Secondary Word
}

// FloatUnit is the collaborating floating-point unit. The core routes to it
// when ModeFloat is selected but assumes nothing about its internals.
type FloatUnit interface {
	FloatOp(a, b Word, op ops.Op) Word
}

// CryptoUnit is the collaborating cryptographic unit, selected by
// ModeCrypto.
type CryptoUnit interface {
	CryptoOp(a, b Word, op ops.Op) Word
}

type stubFloatUnit struct{ width uint }

func (u stubFloatUnit) FloatOp(a, b Word, op ops.Op) Word { return NewWord(u.width) }

type stubCryptoUnit struct{ width uint }

func (u stubCryptoUnit) CryptoOp(a, b Word, op ops.Op) Word { return NewWord(u.width) }

// Evaluator is the combinational ALU core: a pure function of its inputs
// and the immutable configuration chosen at construction. It is safe for
// concurrent use.
type Evaluator struct {
	width       uint
	features    ops.Feature
	laneWidths  []uint
	shiftSource ShiftSource

	adder      *CarryAdder
	shifter    *BarrelShifter
	bitOps     *BitOps
	lanes      *LaneSplitter
	saturator  *Saturator
	floatUnit  FloatUnit
	cryptoUnit CryptoUnit
}

// Option is a functional option for configuring the Evaluator.
type Option func(*Evaluator)

// WithFeatures selects the enabled capability set. The default enables
// everything.
func WithFeatures(f ops.Feature) Option {
	return func(e *Evaluator) {
		e.features = f
	}
}

// WithLaneWidths selects the SIMD lane widths the datapath supports. Each
// must be 8, 16, 32, or 64, divide the operand width, and be narrower than
// it. The default is every such width.
func WithLaneWidths(widths ...uint) Option {
	return func(e *Evaluator) {
		e.laneWidths = widths
	}
}

// WithShiftSource selects the shift-amount policy.
func WithShiftSource(s ShiftSource) Option {
	return func(e *Evaluator) {
		e.shiftSource = s
	}
}

// WithFloatUnit substitutes a floating-point collaborator for the default
// stub.
func WithFloatUnit(u FloatUnit) Option {
	return func(e *Evaluator) {
		e.floatUnit = u
	}
}

// WithCryptoUnit substitutes a cryptographic collaborator for the default
// stub.
func WithCryptoUnit(u CryptoUnit) Option {
	return func(e *Evaluator) {
		e.cryptoUnit = u
	}
}

// NewEvaluator creates an ALU core for the given operand width in bits.
// The width must be a multiple of 8 in [MinWidth, MaxWidth].
func NewEvaluator(width uint, opts ...Option) (*Evaluator, error) {
	if width < MinWidth || width > MaxWidth || width%8 != 0 {
		return nil, fmt.Errorf(
			"unsupported width %d: must be a multiple of 8 in [%d, %d]",
			width, MinWidth, MaxWidth)
	}

	e := &Evaluator{
		width:      width,
		features:   ops.FeatureAll,
		laneWidths: defaultLaneWidths(width),
	}

	for _, opt := range opts {
		opt(e)
	}

	for _, lw := range e.laneWidths {
		if lw != 8 && lw != 16 && lw != 32 && lw != 64 {
			return nil, fmt.Errorf("unsupported lane width %d", lw)
		}
		if lw >= width || width%lw != 0 {
			return nil, fmt.Errorf(
				"lane width %d does not partition width %d", lw, width)
		}
	}

	e.adder = NewCarryAdder(width)
	e.shifter = NewBarrelShifter(width, e.shiftSource)
	e.bitOps = NewBitOps(width)
	e.lanes = NewLaneSplitter(width)
	e.saturator = NewSaturator(width)

	if e.floatUnit == nil {
		e.floatUnit = stubFloatUnit{width: width}
	}
	if e.cryptoUnit == nil {
		e.cryptoUnit = stubCryptoUnit{width: width}
	}

	return e, nil
}

func defaultLaneWidths(width uint) []uint {
	var ws []uint
	for _, lw := range []uint{8, 16, 32, 64} {
		if lw < width && width%lw == 0 {
			ws = append(ws, lw)
		}
	}
	return ws
}

// Width returns the operand width in bits.
func (e *Evaluator) Width() uint {
	return e.width
}

// Features returns the enabled capability set.
func (e *Evaluator) Features() ops.Feature {
	return e.features
}

// LaneWidths returns the configured SIMD lane widths.
func (e *Evaluator) LaneWidths() []uint {
	ws := make([]uint, len(e.laneWidths))
	copy(ws, e.laneWidths)
	return ws
}

// Evaluate computes one operation. It is total: every (op, mode) pair,
// including unknown opcodes, resolves to a defined Result, FlagSet, and
// Exception. Operands of a different width are truncated or zero-extended
// to the evaluator's width first.
func (e *Evaluator) Evaluate(
	a, b Word,
	op ops.Op,
	mode ops.Mode,
	shiftAmount uint,
	carryIn bool,
) (Result, FlagSet, Exception) {
	if a.Width() != e.width {
		a = a.Resize(e.width)
	}
	if b.Width() != e.width {
		b = b.Resize(e.width)
	}

	desc, known := ops.Lookup(op)
	if !known {
		zero := NewWord(e.width)
		return Result{Primary: zero, Secondary: NewWord(e.width)},
			logicFlags(zero), newException(ExcUnknownOperation)
	}

	if !e.features.Has(desc.Features) {
		zero := NewWord(e.width)
		return Result{Primary: zero, Secondary: NewWord(e.width)},
			logicFlags(zero), newException(ExcUnsupportedOperation)
	}

	mode = e.effectiveMode(desc, mode)

	switch mode {
	case ops.ModeFloat:
		prim := e.floatUnit.FloatOp(a, b, op)
		return Result{Primary: prim, Secondary: NewWord(e.width)},
			logicFlags(prim), newException(ExcNone)
	case ops.ModeCrypto:
		prim := e.cryptoUnit.CryptoOp(a, b, op)
		return Result{Primary: prim, Secondary: NewWord(e.width)},
			logicFlags(prim), newException(ExcNone)
	}

	if mode.IsLaneMode() {
		raw, zeros := e.lanes.Apply(op, a, b, e.laneWidth(mode))
		return Result{Primary: raw, Secondary: NewWord(e.width)},
			laneFlags(raw, zeros), newException(ExcNone)
	}

	switch desc.Unit {
	case ops.UnitAdder:
		return e.evalAdder(a, b, op, mode, carryIn)
	case ops.UnitMulDiv:
		return e.evalMulDiv(a, b, op, mode)
	case ops.UnitLogic:
		return e.evalLogic(a, b, op)
	case ops.UnitShifter:
		raw, out := e.shifter.Shift(op, a, e.shifter.Amount(b, shiftAmount))
		return Result{Primary: raw, Secondary: NewWord(e.width)},
			shiftFlags(raw, out), newException(ExcNone)
	case ops.UnitBitOps:
		raw := e.bitOps.Apply(op, a)
		return Result{Primary: raw, Secondary: NewWord(e.width)},
			logicFlags(raw), newException(ExcNone)
	case ops.UnitLanes:
		lw := e.laneWidth(mode)
		if lw == 0 {
			// No lane width partitions this datapath.
			zero := NewWord(e.width)
			return Result{Primary: zero, Secondary: NewWord(e.width)},
				logicFlags(zero), newException(ExcUnsupportedOperation)
		}
		raw, zeros := e.lanes.Apply(op, a, b, lw)
		return Result{Primary: raw, Secondary: NewWord(e.width)},
			laneFlags(raw, zeros), newException(ExcNone)
	default: // ops.UnitMove
		return e.evalMove(a, b, op)
	}
}

// effectiveMode applies the silent-fallback policy: a mode the operation
// does not declare, whose feature is disabled, or whose lane width is not
// configured shapes nothing and the operation runs in ModeNormal.
func (e *Evaluator) effectiveMode(desc ops.Descriptor, mode ops.Mode) ops.Mode {
	switch mode {
	case ops.ModeNormal:
		return mode
	case ops.ModeFloat, ops.ModeCrypto:
		if e.features.Has(mode.Feature()) {
			return mode
		}
		return ops.ModeNormal
	}
	if !desc.Modes.Contains(mode) {
		return ops.ModeNormal
	}
	if f := mode.Feature(); f != 0 && !e.features.Has(f) {
		return ops.ModeNormal
	}
	if mode.IsLaneMode() && e.laneWidth(mode) == 0 {
		return ops.ModeNormal
	}
	return mode
}

// laneWidth resolves the lane width a lane mode selects; ModeVector defers
// to the narrowest configured lane. Returns 0 when nothing is configured.
func (e *Evaluator) laneWidth(mode ops.Mode) uint {
	if lw := mode.LaneWidth(); lw != 0 {
		for _, c := range e.laneWidths {
			if c == lw {
				return lw
			}
		}
		return 0
	}
	narrowest := uint(0)
	for _, c := range e.laneWidths {
		if narrowest == 0 || c < narrowest {
			narrowest = c
		}
	}
	return narrowest
}

func (e *Evaluator) evalAdder(
	a, b Word, op ops.Op, mode ops.Mode, carryIn bool,
) (Result, FlagSet, Exception) {
	one := WordFromUint64(e.width, 1)
	zero := NewWord(e.width)

	var res AddResult
	switch op {
	case ops.OpADD:
		res = e.adder.Add(a, b, carryIn)
	case ops.OpSUB, ops.OpCMP:
		res = e.adder.Sub(a, b, carryIn)
	case ops.OpINC:
		res = e.adder.Add(a, one, false)
	case ops.OpDEC:
		res = e.adder.Sub(a, one, false)
	case ops.OpNEG:
		res = e.adder.Sub(zero, a, false)
	case ops.OpABS:
		if a.Sign() {
			res = e.adder.Sub(zero, a, false)
		} else {
			res = e.adder.Add(a, zero, false)
		}
	case ops.OpMIN, ops.OpMAX, ops.OpMINU, ops.OpMAXU:
		sel := e.selectMinMax(a, b, op)
		return Result{Primary: sel, Secondary: zero},
			logicFlags(sel), newException(ExcNone)
	}

	flags := arithmeticFlags(res)
	result := Result{Primary: res.Sum, Secondary: zero}

	switch mode {
	case ops.ModeSaturate:
		if op == ops.OpADD {
			result.Primary = e.saturator.SaturateAdd(a, b, res.Sum, res.Overflow)
		} else if op == ops.OpSUB {
			result.Primary = e.saturator.SaturateSub(a, b, res.Sum, res.Overflow)
		}
	case ops.ModeExtended:
		result.Secondary = WordFromUint64(e.width, boolToBit(res.Carry))
	}

	return result, flags, newException(ExcNone)
}

func (e *Evaluator) selectMinMax(a, b Word, op ops.Op) Word {
	var aWins bool
	switch op {
	case ops.OpMIN:
		aWins = a.SCmp(b) <= 0
	case ops.OpMAX:
		aWins = a.SCmp(b) >= 0
	case ops.OpMINU:
		aWins = a.Cmp(b) <= 0
	default: // ops.OpMAXU
		aWins = a.Cmp(b) >= 0
	}
	if aWins {
		return a
	}
	return b
}

func (e *Evaluator) evalMulDiv(
	a, b Word, op ops.Op, mode ops.Mode,
) (Result, FlagSet, Exception) {
	switch op {
	case ops.OpMUL:
		lo, hi := a.Mul(b)
		flags := mulFlags(lo, hi)
		result := Result{Primary: lo, Secondary: hi}
		if mode == ops.ModeSaturate {
			result.Primary, _ = e.saturator.SaturateMul(a, b, lo)
		}
		return result, flags, newException(ExcNone)

	default: // ops.OpDIV, ops.OpMOD
		if b.IsZero() {
			// Deliberate sentinel: all-ones primary, zero secondary.
			sentinel := AllOnes(e.width)
			return Result{Primary: sentinel, Secondary: NewWord(e.width)},
				logicFlags(sentinel), newException(ExcDivideByZero)
		}
		q, r, _ := a.DivMod(b)
		if op == ops.OpDIV {
			return Result{Primary: q, Secondary: r},
				logicFlags(q), newException(ExcNone)
		}
		return Result{Primary: r, Secondary: q},
			logicFlags(r), newException(ExcNone)
	}
}

func (e *Evaluator) evalLogic(a, b Word, op ops.Op) (Result, FlagSet, Exception) {
	var raw Word
	switch op {
	case ops.OpAND, ops.OpTST:
		raw = a.And(b)
	case ops.OpOR:
		raw = a.Or(b)
	case ops.OpXOR:
		raw = a.Xor(b)
	case ops.OpNOT:
		raw = a.Not()
	case ops.OpNAND:
		raw = a.And(b).Not()
	case ops.OpNOR:
		raw = a.Or(b).Not()
	case ops.OpXNOR:
		raw = a.Xor(b).Not()
	case ops.OpANDN:
		raw = a.AndNot(b)
	}

	flags := logicFlags(raw)
	if op == ops.OpTST {
		flags.BitTest = !raw.IsZero()
	}
	return Result{Primary: raw, Secondary: NewWord(e.width)},
		flags, newException(ExcNone)
}

func (e *Evaluator) evalMove(a, b Word, op ops.Op) (Result, FlagSet, Exception) {
	var result Result
	switch op {
	case ops.OpPASSA:
		result = Result{Primary: a, Secondary: NewWord(e.width)}
	case ops.OpPASSB:
		result = Result{Primary: b, Secondary: NewWord(e.width)}
	default: // ops.OpSWAP
		result = Result{Primary: b, Secondary: a}
	}
	return result, logicFlags(result.Primary), newException(ExcNone)
}
