package policy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/prodsim/sim/process"
)

var _ = Describe("Registry", func() {
	It("should create the registered policies", func() {
		p, err := New(ClearTheLargestDeviationName)
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&ClearTheLargestDeviation{}))

		p, err = New(RoundRobinName)
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&RoundRobin{}))
	})

	It("should reject an unknown name", func() {
		_, err := New("hedging-zone")

		Expect(err).To(MatchError(ErrUnknownPolicy))
		Expect(err.Error()).To(ContainSubstring("hedging-zone"))
	})

	It("should list the names", func() {
		Expect(Names()).To(Equal([]string{"cld", "round-robin"}))
	})
})

var _ = Describe("TimeToHit", func() {
	It("should use the net production rate below the target", func() {
		env := newTestEnv(0, itemSpec{1, 3, 1, 5, 5}, itemSpec{1, 3, 1, 0, 0})

		t := TimeToHit(env.m.Item(0), 5, env.demand, env.production)

		Expect(t.Float64()).To(BeNumerically("~", 5.0, 1e-12))
	})

	It("should use the demand rate above the target", func() {
		env := newTestEnv(0, itemSpec{2, 3, 1, 0, 0}, itemSpec{1, 3, 1, 0, 0})
		env.m.Item(0).AddProduction(8)

		t := TimeToHit(env.m.Item(0), 0, env.demand, env.production)

		Expect(t.Float64()).To(BeNumerically("~", 4.0, 1e-12))
	})

	It("should be infinite with a discrete process", func() {
		env := newTestEnv(0, itemSpec{1, 3, 1, 0, 5}, itemSpec{1, 3, 1, 0, 0})
		env.demand = process.NewDeterministicBatchesDemand(1)

		t := TimeToHit(env.m.Item(0), 0, env.demand, env.production)

		Expect(t.IsInfinite()).To(BeTrue())
	})

	It("should panic for an item that is not under production", func() {
		env := newTestEnv(0, itemSpec{1, 3, 1, 0, 5}, itemSpec{1, 3, 1, 0, 0})

		Expect(func() {
			TimeToHit(env.m.Item(1), 0, env.demand, env.production)
		}).To(Panic())
	})
})
