package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds cycle-count estimates for the core's execution units.
// The defaults follow typical single-issue integer core estimates.
type TimingConfig struct {
	// AdderLatency is the latency for add/sub/compare family operations.
	// Default: 1 cycle.
	AdderLatency uint64 `json:"adder_latency"`

	// LogicLatency is the latency for bitwise logic operations.
	// Default: 1 cycle.
	LogicLatency uint64 `json:"logic_latency"`

	// ShiftLatency is the latency for barrel shifter operations.
	// Default: 1 cycle.
	ShiftLatency uint64 `json:"shift_latency"`

	// BitOpsLatency is the latency for count/permutation operations.
	// Default: 1 cycle.
	BitOpsLatency uint64 `json:"bitops_latency"`

	// MoveLatency is the latency for pass-through and swap.
	// Default: 1 cycle.
	MoveLatency uint64 `json:"move_latency"`

	// MultiplyLatency is the latency for full-width multiply.
	// Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// DivideLatencyMin is the minimum latency for divide/modulo.
	// Default: 10 cycles.
	DivideLatencyMin uint64 `json:"divide_latency_min"`

	// DivideLatencyMax is the maximum latency for divide/modulo.
	// Default: 15 cycles.
	DivideLatencyMax uint64 `json:"divide_latency_max"`

	// SIMDLatency is the latency for lane operations.
	// Default: 2 cycles.
	SIMDLatency uint64 `json:"simd_latency"`

	// SaturateExtra is the additional latency of saturating modes.
	// Default: 1 cycle.
	SaturateExtra uint64 `json:"saturate_extra"`

	// FloatLatency is the latency charged for the floating-point
	// collaborator. Default: 4 cycles.
	FloatLatency uint64 `json:"float_latency"`

	// CryptoLatency is the latency charged for the cryptographic
	// collaborator. Default: 8 cycles.
	CryptoLatency uint64 `json:"crypto_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		AdderLatency:     1,
		LogicLatency:     1,
		ShiftLatency:     1,
		BitOpsLatency:    1,
		MoveLatency:      1,
		MultiplyLatency:  3,
		DivideLatencyMin: 10,
		DivideLatencyMax: 15,
		SIMDLatency:      2,
		SaturateExtra:    1,
		FloatLatency:     4,
		CryptoLatency:    8,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Missing keys keep their
// default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.AdderLatency == 0 {
		return fmt.Errorf("adder_latency must be > 0")
	}
	if c.LogicLatency == 0 {
		return fmt.Errorf("logic_latency must be > 0")
	}
	if c.ShiftLatency == 0 {
		return fmt.Errorf("shift_latency must be > 0")
	}
	if c.BitOpsLatency == 0 {
		return fmt.Errorf("bitops_latency must be > 0")
	}
	if c.MoveLatency == 0 {
		return fmt.Errorf("move_latency must be > 0")
	}
	if c.MultiplyLatency == 0 {
		return fmt.Errorf("multiply_latency must be > 0")
	}
	if c.DivideLatencyMin == 0 {
		return fmt.Errorf("divide_latency_min must be > 0")
	}
	if c.DivideLatencyMin > c.DivideLatencyMax {
		return fmt.Errorf("divide_latency_min must be <= divide_latency_max")
	}
	if c.SIMDLatency == 0 {
		return fmt.Errorf("simd_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
