package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/alusim/ops"
	"github.com/sarchlab/alusim/timing/latency"
)

var _ = Describe("TimingConfig", func() {
	It("should provide valid defaults", func() {
		config := latency.DefaultTimingConfig()
		Expect(config.Validate()).To(BeNil())
		Expect(config.AdderLatency).To(Equal(uint64(1)))
		Expect(config.MultiplyLatency).To(Equal(uint64(3)))
		Expect(config.DivideLatencyMin).To(Equal(uint64(10)))
		Expect(config.DivideLatencyMax).To(Equal(uint64(15)))
	})

	It("should reject zero latencies", func() {
		config := latency.DefaultTimingConfig()
		config.MultiplyLatency = 0
		Expect(config.Validate()).NotTo(BeNil())
	})

	It("should reject an inverted divide range", func() {
		config := latency.DefaultTimingConfig()
		config.DivideLatencyMin = 20
		Expect(config.Validate()).NotTo(BeNil())
	})

	It("should round-trip through a JSON file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "timing.json")

		config := latency.DefaultTimingConfig()
		config.MultiplyLatency = 5
		Expect(config.SaveConfig(path)).To(BeNil())

		loaded, err := latency.LoadConfig(path)
		Expect(err).To(BeNil())
		Expect(loaded).To(Equal(config))
	})

	It("should keep defaults for keys missing from the file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "partial.json")
		Expect(os.WriteFile(path, []byte(`{"multiply_latency": 7}`), 0644)).To(BeNil())

		loaded, err := latency.LoadConfig(path)
		Expect(err).To(BeNil())
		Expect(loaded.MultiplyLatency).To(Equal(uint64(7)))
		Expect(loaded.DivideLatencyMax).To(Equal(uint64(15)))
	})

	It("should fail on a missing file", func() {
		_, err := latency.LoadConfig("/nonexistent/timing.json")
		Expect(err).NotTo(BeNil())
	})

	It("should fail on malformed JSON", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "bad.json")
		Expect(os.WriteFile(path, []byte("{"), 0644)).To(BeNil())

		_, err := latency.LoadConfig(path)
		Expect(err).NotTo(BeNil())
	})

	It("should clone independently", func() {
		config := latency.DefaultTimingConfig()
		clone := config.Clone()
		clone.AdderLatency = 9
		Expect(config.AdderLatency).To(Equal(uint64(1)))
	})
})

var _ = Describe("Table", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.NewTable()
	})

	It("should charge single cycles for simple operations", func() {
		for _, op := range []ops.Op{
			ops.OpADD, ops.OpAND, ops.OpSLL, ops.OpCLZ, ops.OpPASSA,
		} {
			Expect(table.Cycles(op, ops.ModeNormal)).To(Equal(uint64(1)), "%s", op)
			Expect(table.IsMultiCycle(op, ops.ModeNormal)).To(BeFalse(), "%s", op)
		}
	})

	It("should charge the multiply latency", func() {
		Expect(table.Cycles(ops.OpMUL, ops.ModeNormal)).To(Equal(uint64(3)))
		Expect(table.IsMultiCycle(ops.OpMUL, ops.ModeNormal)).To(BeTrue())
	})

	It("should bound divide latency by the configured range", func() {
		Expect(table.Cycles(ops.OpDIV, ops.ModeNormal)).To(Equal(uint64(15)))
		Expect(table.MinCycles(ops.OpDIV, ops.ModeNormal)).To(Equal(uint64(10)))
		Expect(table.Cycles(ops.OpMOD, ops.ModeNormal)).To(Equal(uint64(15)))
	})

	It("should charge the lane latency for lane modes", func() {
		Expect(table.Cycles(ops.OpADD, ops.ModeSIMD8)).To(Equal(uint64(2)))
		Expect(table.Cycles(ops.OpVADD, ops.ModeNormal)).To(Equal(uint64(2)))
	})

	It("should add the saturation surcharge only where the mode applies", func() {
		Expect(table.Cycles(ops.OpADD, ops.ModeSaturate)).To(Equal(uint64(2)))
		Expect(table.Cycles(ops.OpMUL, ops.ModeSaturate)).To(Equal(uint64(4)))
		// AND ignores saturate mode and pays nothing for it.
		Expect(table.Cycles(ops.OpAND, ops.ModeSaturate)).To(Equal(uint64(1)))
	})

	It("should charge collaborator latencies for float and crypto modes", func() {
		Expect(table.Cycles(ops.OpADD, ops.ModeFloat)).To(Equal(uint64(4)))
		Expect(table.Cycles(ops.OpADD, ops.ModeCrypto)).To(Equal(uint64(8)))
	})

	It("should honor a custom configuration", func() {
		config := latency.DefaultTimingConfig()
		config.MultiplyLatency = 6
		custom := latency.NewTableWithConfig(config)

		Expect(custom.Cycles(ops.OpMUL, ops.ModeNormal)).To(Equal(uint64(6)))
		Expect(custom.Config()).To(Equal(config))
	})
})
