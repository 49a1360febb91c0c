// Package ops defines the operation and mode vocabulary of the ALU core.
//
// Every operation the core can perform is named by an Op, and every result
// shaping by a Mode. The package also carries the dispatch table: for each
// Op, which execution unit serves it, which construction-time features it
// requires, and which modes it honors. The table is the single source of
// truth for the silent mode-fallback policy.
package ops

// Op identifies an ALU operation.
type Op uint16

// ALU operations. OpUnknown is the zero value; any Op outside this set
// decodes as OpUnknown.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpMOD
	OpAND
	OpOR
	OpXOR
	OpNOT
	OpNAND
	OpNOR
	OpXNOR
	OpANDN
	OpSLL
	OpSRL
	OpSRA
	OpROL
	OpROR
	OpCLZ
	OpCTZ
	OpPOPCNT
	OpREV
	OpBSWAP
	OpABS
	OpNEG
	OpINC
	OpDEC
	OpMIN
	OpMAX
	OpMINU
	OpMAXU
	OpCMP
	OpTST
	OpPASSA
	OpPASSB
	OpSWAP
	OpVADD
	OpVSUB
	OpVMUL

	numOps
)

// Mode selects how an operation's result is shaped.
type Mode uint8

// Result-shaping modes. Modes an operation does not declare compatible are
// silently ignored and the operation produces its ModeNormal result.
const (
	ModeNormal Mode = iota
	ModeSaturate
	ModeSIMD8
	ModeSIMD16
	ModeSIMD32
	ModeSIMD64
	ModeVector
	ModeExtended
	ModeFloat
	ModeCrypto

	numModes
)

// Feature is a bit set of optional capabilities chosen at construction time.
type Feature uint16

// Feature flags. An operation whose required features are not all enabled
// reports an unsupported-operation exception.
const (
	FeatureMultiply Feature = 1 << iota
	FeatureDivide
	FeatureShift
	FeatureRotate
	FeatureSIMD
	FeatureSaturate
	FeaturePipeline
	FeatureFloat
	FeatureCrypto
)

// FeatureAll enables every optional capability.
const FeatureAll = FeatureMultiply | FeatureDivide | FeatureShift |
	FeatureRotate | FeatureSIMD | FeatureSaturate | FeaturePipeline |
	FeatureFloat | FeatureCrypto

// Has reports whether all bits of want are set in f.
func (f Feature) Has(want Feature) bool {
	return f&want == want
}

// Unit identifies the execution unit that serves an operation.
type Unit uint8

// Execution units.
const (
	UnitAdder   Unit = iota // add/sub/inc/dec/neg/abs/min/max/cmp
	UnitMulDiv              // full-width multiply, divide, modulo
	UnitLogic               // bitwise logic and TST
	UnitShifter             // shifts and rotates
	UnitBitOps              // clz/ctz/popcnt/rev/bswap
	UnitLanes               // explicit lane (vector) operations
	UnitMove                // pass-through and swap
)

// ModeSet is a bit set of Modes.
type ModeSet uint16

func modes(ms ...Mode) ModeSet {
	var s ModeSet
	for _, m := range ms {
		s |= 1 << m
	}
	return s
}

// Contains reports whether m is in the set.
func (s ModeSet) Contains(m Mode) bool {
	return s&(1<<m) != 0
}

// Descriptor declares how an operation is dispatched.
type Descriptor struct {
	// Unit is the execution unit that produces the raw result.
	Unit Unit

	// Features are the capability bits that must all be enabled for the
	// operation to be available.
	Features Feature

	// Modes are the shaping modes the operation honors beyond ModeNormal,
	// ModeFloat, and ModeCrypto (which every known operation accepts).
	Modes ModeSet
}

// laneModes are the shapings every lane-capable operation honors.
var laneModes = modes(ModeSIMD8, ModeSIMD16, ModeSIMD32, ModeSIMD64, ModeVector)

var table = map[Op]Descriptor{
	OpADD: {Unit: UnitAdder, Modes: modes(ModeSaturate, ModeExtended) | laneModes},
	OpSUB: {Unit: UnitAdder, Modes: modes(ModeSaturate, ModeExtended) | laneModes},
	OpMUL: {Unit: UnitMulDiv, Features: FeatureMultiply, Modes: modes(ModeSaturate) | laneModes},
	OpDIV: {Unit: UnitMulDiv, Features: FeatureDivide},
	OpMOD: {Unit: UnitMulDiv, Features: FeatureDivide},

	OpAND:  {Unit: UnitLogic},
	OpOR:   {Unit: UnitLogic},
	OpXOR:  {Unit: UnitLogic},
	OpNOT:  {Unit: UnitLogic},
	OpNAND: {Unit: UnitLogic},
	OpNOR:  {Unit: UnitLogic},
	OpXNOR: {Unit: UnitLogic},
	OpANDN: {Unit: UnitLogic},
	OpTST:  {Unit: UnitLogic},

	OpSLL: {Unit: UnitShifter, Features: FeatureShift},
	OpSRL: {Unit: UnitShifter, Features: FeatureShift},
	OpSRA: {Unit: UnitShifter, Features: FeatureShift},
	OpROL: {Unit: UnitShifter, Features: FeatureRotate},
	OpROR: {Unit: UnitShifter, Features: FeatureRotate},

	OpCLZ:    {Unit: UnitBitOps},
	OpCTZ:    {Unit: UnitBitOps},
	OpPOPCNT: {Unit: UnitBitOps},
	OpREV:    {Unit: UnitBitOps},
	OpBSWAP:  {Unit: UnitBitOps},

	OpABS:  {Unit: UnitAdder},
	OpNEG:  {Unit: UnitAdder},
	OpINC:  {Unit: UnitAdder},
	OpDEC:  {Unit: UnitAdder},
	OpMIN:  {Unit: UnitAdder},
	OpMAX:  {Unit: UnitAdder},
	OpMINU: {Unit: UnitAdder},
	OpMAXU: {Unit: UnitAdder},
	OpCMP:  {Unit: UnitAdder},

	OpPASSA: {Unit: UnitMove},
	OpPASSB: {Unit: UnitMove},
	OpSWAP:  {Unit: UnitMove},

	OpVADD: {Unit: UnitLanes, Features: FeatureSIMD, Modes: laneModes},
	OpVSUB: {Unit: UnitLanes, Features: FeatureSIMD, Modes: laneModes},
	OpVMUL: {Unit: UnitLanes, Features: FeatureSIMD | FeatureMultiply, Modes: laneModes},
}

// Lookup returns the dispatch descriptor for op. The second return value is
// false for OpUnknown and for any value outside the defined operation set.
func Lookup(op Op) (Descriptor, bool) {
	d, ok := table[op]
	return d, ok
}

// LaneWidth returns the lane width in bits selected by a SIMD mode, or 0 for
// modes that do not name a lane width (including ModeVector, which defers to
// the narrowest configured lane).
func (m Mode) LaneWidth() uint {
	switch m {
	case ModeSIMD8:
		return 8
	case ModeSIMD16:
		return 16
	case ModeSIMD32:
		return 32
	case ModeSIMD64:
		return 64
	default:
		return 0
	}
}

// Feature returns the capability bit that must be enabled for the mode to
// take effect, or 0 for modes that are always available.
func (m Mode) Feature() Feature {
	switch m {
	case ModeSaturate:
		return FeatureSaturate
	case ModeSIMD8, ModeSIMD16, ModeSIMD32, ModeSIMD64, ModeVector:
		return FeatureSIMD
	case ModeFloat:
		return FeatureFloat
	case ModeCrypto:
		return FeatureCrypto
	default:
		return 0
	}
}

// IsLaneMode reports whether the mode partitions the datapath into lanes.
func (m Mode) IsLaneMode() bool {
	switch m {
	case ModeSIMD8, ModeSIMD16, ModeSIMD32, ModeSIMD64, ModeVector:
		return true
	default:
		return false
	}
}
