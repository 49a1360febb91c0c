package ops

import (
	"fmt"
	"strings"
)

var opNames = map[Op]string{
	OpUnknown: "UNKNOWN",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpMUL:     "MUL",
	OpDIV:     "DIV",
	OpMOD:     "MOD",
	OpAND:     "AND",
	OpOR:      "OR",
	OpXOR:     "XOR",
	OpNOT:     "NOT",
	OpNAND:    "NAND",
	OpNOR:     "NOR",
	OpXNOR:    "XNOR",
	OpANDN:    "ANDN",
	OpSLL:     "SLL",
	OpSRL:     "SRL",
	OpSRA:     "SRA",
	OpROL:     "ROL",
	OpROR:     "ROR",
	OpCLZ:     "CLZ",
	OpCTZ:     "CTZ",
	OpPOPCNT:  "POPCNT",
	OpREV:     "REV",
	OpBSWAP:   "BSWAP",
	OpABS:     "ABS",
	OpNEG:     "NEG",
	OpINC:     "INC",
	OpDEC:     "DEC",
	OpMIN:     "MIN",
	OpMAX:     "MAX",
	OpMINU:    "MINU",
	OpMAXU:    "MAXU",
	OpCMP:     "CMP",
	OpTST:     "TST",
	OpPASSA:   "PASS_A",
	OpPASSB:   "PASS_B",
	OpSWAP:    "SWAP",
	OpVADD:    "VADD",
	OpVSUB:    "VSUB",
	OpVMUL:    "VMUL",
}

var modeNames = map[Mode]string{
	ModeNormal:   "NORMAL",
	ModeSaturate: "SATURATE",
	ModeSIMD8:    "SIMD8",
	ModeSIMD16:   "SIMD16",
	ModeSIMD32:   "SIMD32",
	ModeSIMD64:   "SIMD64",
	ModeVector:   "VECTOR",
	ModeExtended: "EXTENDED",
	ModeFloat:    "FLOAT",
	ModeCrypto:   "CRYPTO",
}

// String returns the canonical name of the operation.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// String returns the canonical name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseOp returns the operation named by s (case-insensitive). Names that do
// not match any operation parse as OpUnknown with an error.
func ParseOp(s string) (Op, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for op, name := range opNames {
		if name == want && op != OpUnknown {
			return op, nil
		}
	}
	return OpUnknown, fmt.Errorf("unknown operation %q", s)
}

// ParseMode returns the mode named by s (case-insensitive).
func ParseMode(s string) (Mode, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return ModeNormal, fmt.Errorf("unknown mode %q", s)
}
