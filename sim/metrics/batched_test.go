package metrics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/prodsim/sim/timing"
)

func timingControlAt(t float64) *timing.Event {
	return timing.NewControlEvent(timing.At(t))
}

var _ = Describe("BatchedAverageSurplus", func() {
	It("should keep every batch apart", func() {
		env := newTestEnv(2)
		m := NewBatchedAverageSurplus(env, 2, 0, 10)

		env.setSurplus(0, -2)
		env.after(m, 0)
		env.after(m, 1)
		env.after(m, 4)

		env.setSurplus(0, 1)
		env.after(m, 6)
		env.after(m, 9)
		env.after(m, 10)

		Expect(m.NumBatches()).To(Equal(2))
		Expect(m.Batch(0).Statistics(0).InitialTime).To(Equal(1.0))
		Expect(m.Batch(0).Statistics(0).FinalTime).To(Equal(4.0))
		Expect(m.Batch(1).Statistics(0).FinalTime).To(Equal(9.0))

		costs := m.BatchedAverageCosts()
		Expect(costs).To(HaveLen(2))
		Expect(costs[0]).To(BeNumerically("~", 4, 1e-9))
		Expect(costs[1]).To(BeNumerically("~", 1, 1e-9))
	})
})
