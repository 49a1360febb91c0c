package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/alusim/core"
	"github.com/sarchlab/alusim/ops"
)

type recordingFloatUnit struct {
	called bool
}

func (u *recordingFloatUnit) FloatOp(a, b core.Word, op ops.Op) core.Word {
	u.called = true
	return a
}

var _ = Describe("Evaluator", func() {
	var e *core.Evaluator

	w32 := func(v uint64) core.Word { return core.WordFromUint64(32, v) }

	BeforeEach(func() {
		var err error
		e, err = core.NewEvaluator(32)
		Expect(err).To(BeNil())
	})

	Describe("NewEvaluator", func() {
		It("should reject widths below the minimum", func() {
			_, err := core.NewEvaluator(4)
			Expect(err).NotTo(BeNil())
		})

		It("should reject widths above the maximum", func() {
			_, err := core.NewEvaluator(8192)
			Expect(err).NotTo(BeNil())
		})

		It("should reject widths that are not byte multiples", func() {
			_, err := core.NewEvaluator(33)
			Expect(err).NotTo(BeNil())
		})

		It("should accept every standard width", func() {
			for _, w := range core.StandardWidths {
				_, err := core.NewEvaluator(w)
				Expect(err).To(BeNil(), "width %d", w)
			}
		})

		It("should reject lane widths that do not partition the word", func() {
			_, err := core.NewEvaluator(32, core.WithLaneWidths(32))
			Expect(err).NotTo(BeNil())

			_, err = core.NewEvaluator(32, core.WithLaneWidths(7))
			Expect(err).NotTo(BeNil())
		})

		It("should default to every lane width dividing the word", func() {
			e128, err := core.NewEvaluator(128)
			Expect(err).To(BeNil())
			Expect(e128.LaneWidths()).To(Equal([]uint{8, 16, 32, 64}))
		})
	})

	Describe("Addition", func() {
		It("should add with carry out on unsigned wraparound", func() {
			res, flags, exc := e.Evaluate(
				w32(0xFFFFFFFF), w32(1), ops.OpADD, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.IsZero()).To(BeTrue())
			Expect(flags.Zero).To(BeTrue())
			Expect(flags.Carry).To(BeTrue())
			Expect(flags.Overflow).To(BeFalse())
		})

		It("should overflow on signed maximum plus one", func() {
			res, flags, exc := e.Evaluate(
				w32(0x7FFFFFFF), w32(1), ops.OpADD, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.Uint64()).To(Equal(uint64(0x80000000)))
			Expect(flags.Overflow).To(BeTrue())
			Expect(flags.Negative).To(BeTrue())
			Expect(flags.Carry).To(BeFalse())
		})

		It("should include the carry input in extended mode", func() {
			res, _, _ := e.Evaluate(
				w32(1), w32(2), ops.OpADD, ops.ModeExtended, 0, true)

			Expect(res.Primary.Uint64()).To(Equal(uint64(4)))
		})

		It("should expose the carry out in the secondary word in extended mode", func() {
			res, _, _ := e.Evaluate(
				w32(0xFFFFFFFF), w32(1), ops.OpADD, ops.ModeExtended, 0, false)

			Expect(res.Primary.IsZero()).To(BeTrue())
			Expect(res.Secondary.Uint64()).To(Equal(uint64(1)))
		})

		It("should report the half carry across bit 3", func() {
			_, flags, _ := e.Evaluate(
				w32(0x0F), w32(0x01), ops.OpADD, ops.ModeNormal, 0, false)

			Expect(flags.HalfCarry).To(BeTrue())
		})

		It("should report the aux carry across bit 7", func() {
			_, flags, _ := e.Evaluate(
				w32(0xFF), w32(0x01), ops.OpADD, ops.ModeNormal, 0, false)

			Expect(flags.AuxCarry).To(BeTrue())
		})
	})

	Describe("Subtraction", func() {
		It("should set borrow on zero minus one", func() {
			res, flags, _ := e.Evaluate(
				w32(0), w32(1), ops.OpSUB, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(0xFFFFFFFF)))
			Expect(flags.Carry).To(BeTrue())
			Expect(flags.Negative).To(BeTrue())
			Expect(flags.Overflow).To(BeFalse())
		})

		It("should not borrow when the result is non-negative", func() {
			res, flags, _ := e.Evaluate(
				w32(5), w32(3), ops.OpSUB, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(2)))
			Expect(flags.Carry).To(BeFalse())
		})

		It("should compare without changing the difference semantics", func() {
			resSub, flagsSub, _ := e.Evaluate(
				w32(3), w32(7), ops.OpSUB, ops.ModeNormal, 0, false)
			resCmp, flagsCmp, _ := e.Evaluate(
				w32(3), w32(7), ops.OpCMP, ops.ModeNormal, 0, false)

			Expect(resCmp.Primary.Equal(resSub.Primary)).To(BeTrue())
			Expect(flagsCmp).To(Equal(flagsSub))
		})
	})

	Describe("Increment, decrement, negate, absolute", func() {
		It("should increment with wraparound", func() {
			res, flags, _ := e.Evaluate(
				core.AllOnes(32), w32(0), ops.OpINC, ops.ModeNormal, 0, false)

			Expect(res.Primary.IsZero()).To(BeTrue())
			Expect(flags.Carry).To(BeTrue())
		})

		It("should decrement zero to all ones", func() {
			res, _, _ := e.Evaluate(
				w32(0), w32(0), ops.OpDEC, ops.ModeNormal, 0, false)

			Expect(res.Primary.Equal(core.AllOnes(32))).To(BeTrue())
		})

		It("should negate", func() {
			res, _, _ := e.Evaluate(
				w32(5), w32(0), ops.OpNEG, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(0xFFFFFFFB)))
		})

		It("should overflow when negating the minimum signed value", func() {
			res, flags, _ := e.Evaluate(
				core.MinSigned(32), w32(0), ops.OpNEG, ops.ModeNormal, 0, false)

			Expect(res.Primary.Equal(core.MinSigned(32))).To(BeTrue())
			Expect(flags.Overflow).To(BeTrue())
		})

		It("should take the absolute value of a negative operand", func() {
			res, _, _ := e.Evaluate(
				w32(0xFFFFFFFB), w32(0), ops.OpABS, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(5)))
		})
	})

	Describe("Min and max", func() {
		It("should select signed minimum and maximum", func() {
			neg1 := core.AllOnes(32)

			res, _, _ := e.Evaluate(neg1, w32(1), ops.OpMIN, ops.ModeNormal, 0, false)
			Expect(res.Primary.Equal(neg1)).To(BeTrue())

			res, _, _ = e.Evaluate(neg1, w32(1), ops.OpMAX, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(1)))
		})

		It("should select unsigned minimum and maximum", func() {
			neg1 := core.AllOnes(32)

			res, _, _ := e.Evaluate(neg1, w32(1), ops.OpMINU, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(1)))

			res, _, _ = e.Evaluate(neg1, w32(1), ops.OpMAXU, ops.ModeNormal, 0, false)
			Expect(res.Primary.Equal(neg1)).To(BeTrue())
		})
	})

	Describe("Multiplication", func() {
		It("should return the double-width product split across the pair", func() {
			res, flags, _ := e.Evaluate(
				core.AllOnes(32), core.AllOnes(32), ops.OpMUL, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(1)))
			Expect(res.Secondary.Uint64()).To(Equal(uint64(0xFFFFFFFE)))
			Expect(flags.Carry).To(BeTrue())
			Expect(flags.Overflow).To(BeTrue())
		})

		It("should clear carry and overflow when the product fits", func() {
			res, flags, _ := e.Evaluate(
				w32(6), w32(7), ops.OpMUL, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(42)))
			Expect(res.Secondary.IsZero()).To(BeTrue())
			Expect(flags.Carry).To(BeFalse())
			Expect(flags.Overflow).To(BeFalse())
		})
	})

	Describe("Division", func() {
		It("should divide with the remainder in the secondary word", func() {
			res, _, exc := e.Evaluate(
				w32(17), w32(5), ops.OpDIV, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.Uint64()).To(Equal(uint64(3)))
			Expect(res.Secondary.Uint64()).To(Equal(uint64(2)))
		})

		It("should return the modulo with the quotient in the secondary word", func() {
			res, _, _ := e.Evaluate(
				w32(17), w32(5), ops.OpMOD, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(2)))
			Expect(res.Secondary.Uint64()).To(Equal(uint64(3)))
		})

		It("should report division by zero with the all-ones sentinel", func() {
			res, _, exc := e.Evaluate(
				w32(17), w32(0), ops.OpDIV, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeTrue())
			Expect(exc.Code).To(Equal(core.ExcDivideByZero))
			Expect(res.Primary.Equal(core.AllOnes(32))).To(BeTrue())
			Expect(res.Secondary.IsZero()).To(BeTrue())
		})

		It("should report modulo by zero the same way", func() {
			_, _, exc := e.Evaluate(
				w32(17), w32(0), ops.OpMOD, ops.ModeNormal, 0, false)

			Expect(exc.Code).To(Equal(core.ExcDivideByZero))
		})
	})

	Describe("Logic", func() {
		It("should compute the full two-input set", func() {
			a, b := w32(0b1100), w32(0b1010)

			expected := map[ops.Op]uint64{
				ops.OpAND:  0b1000,
				ops.OpOR:   0b1110,
				ops.OpXOR:  0b0110,
				ops.OpNAND: 0xFFFFFFF7,
				ops.OpNOR:  0xFFFFFFF1,
				ops.OpXNOR: 0xFFFFFFF9,
				ops.OpANDN: 0b0100,
			}
			for op, want := range expected {
				res, flags, exc := e.Evaluate(a, b, op, ops.ModeNormal, 0, false)
				Expect(exc.Occurred).To(BeFalse(), "%s", op)
				Expect(res.Primary.Uint64()).To(Equal(want), "%s", op)
				Expect(flags.Carry).To(BeFalse(), "%s", op)
				Expect(flags.Overflow).To(BeFalse(), "%s", op)
			}
		})

		It("should invert with NOT", func() {
			res, _, _ := e.Evaluate(w32(0), w32(0), ops.OpNOT, ops.ModeNormal, 0, false)
			Expect(res.Primary.Equal(core.AllOnes(32))).To(BeTrue())
		})

		It("should set the bit-test flag only for TST", func() {
			_, flags, _ := e.Evaluate(
				w32(0b1100), w32(0b0100), ops.OpTST, ops.ModeNormal, 0, false)
			Expect(flags.BitTest).To(BeTrue())

			_, flags, _ = e.Evaluate(
				w32(0b1100), w32(0b0011), ops.OpTST, ops.ModeNormal, 0, false)
			Expect(flags.BitTest).To(BeFalse())

			_, flags, _ = e.Evaluate(
				w32(0b1100), w32(0b0100), ops.OpAND, ops.ModeNormal, 0, false)
			Expect(flags.BitTest).To(BeFalse())
		})

		It("should report even parity over the full width", func() {
			_, flags, _ := e.Evaluate(w32(0b11), w32(0), ops.OpPASSA, ops.ModeNormal, 0, false)
			Expect(flags.Parity).To(BeTrue())

			_, flags, _ = e.Evaluate(w32(0b111), w32(0), ops.OpPASSA, ops.ModeNormal, 0, false)
			Expect(flags.Parity).To(BeFalse())
		})
	})

	Describe("Shifts through the evaluator", func() {
		It("should rotate one bit left", func() {
			res, _, _ := e.Evaluate(w32(1), w32(0), ops.OpROL, ops.ModeNormal, 1, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(2)))
		})

		It("should report the last bit shifted out as carry", func() {
			_, flags, _ := e.Evaluate(
				w32(0x80000000), w32(0), ops.OpSLL, ops.ModeNormal, 1, false)
			Expect(flags.Carry).To(BeTrue())

			_, flags, _ = e.Evaluate(
				w32(1), w32(0), ops.OpSRL, ops.ModeNormal, 1, false)
			Expect(flags.Carry).To(BeTrue())
		})

		It("should read the amount from operand b when the field is zero", func() {
			res, _, _ := e.Evaluate(w32(1), w32(4), ops.OpSLL, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(16)))
		})
	})

	Describe("Bit operations through the evaluator", func() {
		It("should count leading zeros of the top bit as zero", func() {
			res, _, _ := e.Evaluate(w32(0x80000000), w32(0), ops.OpCLZ, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(0)))
		})

		It("should count leading zeros of zero as the width", func() {
			res, flags, _ := e.Evaluate(w32(0), w32(0), ops.OpCLZ, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(32)))
			Expect(flags.Zero).To(BeFalse())
		})

		It("should count set bits", func() {
			res, _, _ := e.Evaluate(
				w32(0xF0F0F0F0), w32(0), ops.OpPOPCNT, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(16)))
		})
	})

	Describe("Moves", func() {
		It("should pass operands through unchanged", func() {
			res, _, _ := e.Evaluate(w32(7), w32(9), ops.OpPASSA, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(7)))

			res, _, _ = e.Evaluate(w32(7), w32(9), ops.OpPASSB, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(9)))
		})

		It("should swap into the result pair", func() {
			res, _, _ := e.Evaluate(w32(7), w32(9), ops.OpSWAP, ops.ModeNormal, 0, false)
			Expect(res.Primary.Uint64()).To(Equal(uint64(9)))
			Expect(res.Secondary.Uint64()).To(Equal(uint64(7)))
		})
	})

	Describe("Exceptions and decode", func() {
		It("should report unknown operations with a zero result", func() {
			res, flags, exc := e.Evaluate(
				w32(1), w32(2), ops.Op(0xFFFF), ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeTrue())
			Expect(exc.Code).To(Equal(core.ExcUnknownOperation))
			Expect(res.Primary.IsZero()).To(BeTrue())
			Expect(flags.Zero).To(BeTrue())
		})

		It("should report known operations of a disabled feature as unsupported", func() {
			noDiv, err := core.NewEvaluator(32,
				core.WithFeatures(ops.FeatureAll&^ops.FeatureDivide))
			Expect(err).To(BeNil())

			_, _, exc := noDiv.Evaluate(
				w32(6), w32(3), ops.OpDIV, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeTrue())
			Expect(exc.Code).To(Equal(core.ExcUnsupportedOperation))
		})
	})

	Describe("Mode fallback", func() {
		It("should run an incompatible mode as normal without an exception", func() {
			res, _, exc := e.Evaluate(
				w32(6), w32(3), ops.OpAND, ops.ModeSaturate, 0, false)

			normal, _, _ := e.Evaluate(
				w32(6), w32(3), ops.OpAND, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.Equal(normal.Primary)).To(BeTrue())
		})

		It("should fall back when the mode's feature is disabled", func() {
			noSat, err := core.NewEvaluator(32,
				core.WithFeatures(ops.FeatureAll&^ops.FeatureSaturate))
			Expect(err).To(BeNil())

			res, _, exc := noSat.Evaluate(
				w32(0x7FFFFFFF), w32(1), ops.OpADD, ops.ModeSaturate, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.Uint64()).To(Equal(uint64(0x80000000)))
		})
	})

	Describe("Saturating arithmetic", func() {
		It("should clamp a positive overflow to the signed maximum", func() {
			res, flags, _ := e.Evaluate(
				w32(0x7FFFFFFF), w32(1), ops.OpADD, ops.ModeSaturate, 0, false)

			Expect(res.Primary.Equal(core.MaxSigned(32))).To(BeTrue())
			// Flags reflect the raw, wrapped result.
			Expect(flags.Overflow).To(BeTrue())
			Expect(flags.Negative).To(BeTrue())
		})

		It("should clamp a negative overflow to the signed minimum", func() {
			res, _, _ := e.Evaluate(
				core.MinSigned(32), w32(1), ops.OpSUB, ops.ModeSaturate, 0, false)

			Expect(res.Primary.Equal(core.MinSigned(32))).To(BeTrue())
		})

		It("should clamp a saturating multiply", func() {
			res, _, _ := e.Evaluate(
				w32(0x40000000), w32(4), ops.OpMUL, ops.ModeSaturate, 0, false)

			Expect(res.Primary.Equal(core.MaxSigned(32))).To(BeTrue())
		})

		It("should leave in-range results untouched", func() {
			res, _, _ := e.Evaluate(
				w32(100), w32(23), ops.OpADD, ops.ModeSaturate, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(123)))
		})
	})

	Describe("Vector modes", func() {
		It("should add lanes independently without cross-lane carry", func() {
			// Lane 0: 0xFF + 0x01 wraps to 0x00 and must not carry into lane 1.
			res, flags, exc := e.Evaluate(
				w32(0x000000FF), w32(0x00000001), ops.OpADD, ops.ModeSIMD8, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.IsZero()).To(BeTrue())
			Expect(flags.LaneZero).To(Equal([]bool{true, true, true, true}))
			Expect(flags.Zero).To(BeTrue())
		})

		It("should subtract lanes with per-lane wraparound", func() {
			res, flags, _ := e.Evaluate(
				w32(0x00010000), w32(0x00010001), ops.OpSUB, ops.ModeSIMD16, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(0x0000FFFF)))
			Expect(flags.LaneZero).To(Equal([]bool{false, true}))
			Expect(flags.Zero).To(BeFalse())
		})

		It("should multiply lanes modulo the lane width", func() {
			res, _, _ := e.Evaluate(
				w32(0x00100010), w32(0x00100010), ops.OpMUL, ops.ModeSIMD16, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(0x01000100)))
		})

		It("should run VADD at the narrowest configured lane in normal mode", func() {
			res, _, exc := e.Evaluate(
				w32(0x000000FF), w32(0x00000001), ops.OpVADD, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.IsZero()).To(BeTrue())
		})

		It("should report VADD as unsupported when no lane width is configured", func() {
			scalar, err := core.NewEvaluator(32, core.WithLaneWidths())
			Expect(err).To(BeNil())

			_, _, exc := scalar.Evaluate(
				w32(1), w32(2), ops.OpVADD, ops.ModeNormal, 0, false)

			Expect(exc.Occurred).To(BeTrue())
			Expect(exc.Code).To(Equal(core.ExcUnsupportedOperation))
		})

		It("should fall back to scalar when the lane width is not configured", func() {
			wide, err := core.NewEvaluator(32, core.WithLaneWidths(16))
			Expect(err).To(BeNil())

			res, _, exc := wide.Evaluate(
				w32(0x000000FF), w32(0x00000001), ops.OpADD, ops.ModeSIMD8, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(res.Primary.Uint64()).To(Equal(uint64(0x100)))
		})
	})

	Describe("Float and crypto routing", func() {
		It("should route float mode to the collaborating unit", func() {
			unit := &recordingFloatUnit{}
			fe, err := core.NewEvaluator(32, core.WithFloatUnit(unit))
			Expect(err).To(BeNil())

			res, _, exc := fe.Evaluate(
				w32(42), w32(0), ops.OpADD, ops.ModeFloat, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(unit.called).To(BeTrue())
			Expect(res.Primary.Uint64()).To(Equal(uint64(42)))
		})

		It("should fall back to normal when the float feature is disabled", func() {
			unit := &recordingFloatUnit{}
			fe, err := core.NewEvaluator(32,
				core.WithFloatUnit(unit),
				core.WithFeatures(ops.FeatureAll&^ops.FeatureFloat))
			Expect(err).To(BeNil())

			res, _, exc := fe.Evaluate(
				w32(2), w32(3), ops.OpADD, ops.ModeFloat, 0, false)

			Expect(exc.Occurred).To(BeFalse())
			Expect(unit.called).To(BeFalse())
			Expect(res.Primary.Uint64()).To(Equal(uint64(5)))
		})
	})

	Describe("Operand resizing", func() {
		It("should bring mismatched operand widths to the evaluator width", func() {
			res, _, _ := e.Evaluate(
				core.WordFromUint64(8, 0xFF),
				core.WordFromUint64(64, 1),
				ops.OpADD, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(0x100)))
		})
	})

	Describe("Wide datapaths", func() {
		It("should evaluate at 1024 bits", func() {
			e1024, err := core.NewEvaluator(1024)
			Expect(err).To(BeNil())

			a := core.AllOnes(1024)
			one := core.WordFromUint64(1024, 1)

			res, flags, _ := e1024.Evaluate(a, one, ops.OpADD, ops.ModeNormal, 0, false)

			Expect(res.Primary.IsZero()).To(BeTrue())
			Expect(flags.Carry).To(BeTrue())
			Expect(flags.Zero).To(BeTrue())
		})

		It("should count bits at 1024 bits", func() {
			e1024, err := core.NewEvaluator(1024)
			Expect(err).To(BeNil())

			res, _, _ := e1024.Evaluate(
				core.NewWord(1024), core.NewWord(1024), ops.OpCLZ, ops.ModeNormal, 0, false)

			Expect(res.Primary.Uint64()).To(Equal(uint64(1024)))
		})
	})

	Describe("Narrowest datapath", func() {
		It("should treat the aux carry as the carry out at width 8", func() {
			e8, err := core.NewEvaluator(8)
			Expect(err).To(BeNil())

			_, flags, _ := e8.Evaluate(
				core.WordFromUint64(8, 0xFF), core.WordFromUint64(8, 1),
				ops.OpADD, ops.ModeNormal, 0, false)

			Expect(flags.Carry).To(BeTrue())
			Expect(flags.AuxCarry).To(BeTrue())
		})
	})
})
