// Package latency provides per-operation timing estimates for the ALU core.
//
// The cycle counts are estimates for sequencing and reporting, configurable
// via TimingConfig; they do not affect evaluation semantics.
package latency

import (
	"github.com/sarchlab/alusim/ops"
)

// Table provides operation latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// Cycles returns the expected latency in cycles for the given operation and
// mode. For variable-latency operations it returns the maximum; unknown
// operations resolve in a single cycle.
func (t *Table) Cycles(op ops.Op, mode ops.Mode) uint64 {
	base := t.baseCycles(op, mode)
	if mode == ops.ModeSaturate && saturates(op) {
		base += t.config.SaturateExtra
	}
	return base
}

// saturates reports whether the operation honors ModeSaturate; other
// operations fall back to their normal path and pay no clamp cycle.
func saturates(op ops.Op) bool {
	desc, ok := ops.Lookup(op)
	return ok && desc.Modes.Contains(ops.ModeSaturate)
}

// MinCycles returns the minimum latency for the given operation and mode.
func (t *Table) MinCycles(op ops.Op, mode ops.Mode) uint64 {
	if t.unitOf(op, mode) == unitDivide {
		return t.config.DivideLatencyMin
	}
	return t.Cycles(op, mode)
}

// IsMultiCycle reports whether the operation takes more than one cycle.
func (t *Table) IsMultiCycle(op ops.Op, mode ops.Mode) bool {
	return t.Cycles(op, mode) > 1
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}

type unitClass uint8

const (
	unitAdder unitClass = iota
	unitLogic
	unitShift
	unitBitOps
	unitMove
	unitMultiply
	unitDivide
	unitSIMD
	unitFloat
	unitCrypto
)

func (t *Table) unitOf(op ops.Op, mode ops.Mode) unitClass {
	switch mode {
	case ops.ModeFloat:
		return unitFloat
	case ops.ModeCrypto:
		return unitCrypto
	}
	if mode.IsLaneMode() {
		return unitSIMD
	}

	desc, ok := ops.Lookup(op)
	if !ok {
		return unitMove
	}
	switch desc.Unit {
	case ops.UnitAdder:
		return unitAdder
	case ops.UnitMulDiv:
		if op == ops.OpMUL {
			return unitMultiply
		}
		return unitDivide
	case ops.UnitLogic:
		return unitLogic
	case ops.UnitShifter:
		return unitShift
	case ops.UnitBitOps:
		return unitBitOps
	case ops.UnitLanes:
		return unitSIMD
	default:
		return unitMove
	}
}

func (t *Table) baseCycles(op ops.Op, mode ops.Mode) uint64 {
	switch t.unitOf(op, mode) {
	case unitAdder:
		return t.config.AdderLatency
	case unitLogic:
		return t.config.LogicLatency
	case unitShift:
		return t.config.ShiftLatency
	case unitBitOps:
		return t.config.BitOpsLatency
	case unitMultiply:
		return t.config.MultiplyLatency
	case unitDivide:
		return t.config.DivideLatencyMax
	case unitSIMD:
		return t.config.SIMDLatency
	case unitFloat:
		return t.config.FloatLatency
	case unitCrypto:
		return t.config.CryptoLatency
	default:
		return t.config.MoveLatency
	}
}
