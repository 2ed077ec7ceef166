package metrics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AverageSurplus", func() {
	var (
		env *testEnv
		m   *AverageSurplus
	)

	BeforeEach(func() {
		env = newTestEnv(2)
		m = NewAverageSurplus(env)
	})

	It("should average the surplus of every item", func() {
		env.setSurplus(0, -100)
		env.setSurplus(1, -100)
		env.after(m, 0)

		env.setSurplus(0, 0)
		env.after(m, 100)

		Expect(m.AverageBacklog(0)).To(BeNumerically("~", 50, 1e-9))
		Expect(m.AverageInventory(0)).To(Equal(0.0))
		Expect(m.AverageBacklog(1)).To(BeNumerically("~", 100, 1e-9))
		Expect(m.MinSurplus(0)).To(Equal(-100.0))
		Expect(m.ServiceLevel(0)).To(Equal(0.0))
		Expect(m.AverageCost(0)).To(BeNumerically("~", 100, 1e-9))
		Expect(m.TotalAverageCost()).To(BeNumerically("~", 300, 1e-9))
	})

	It("should split inventory and backlog", func() {
		env.setSurplus(0, -100)
		env.after(m, 0)

		env.setSurplus(0, 100)
		env.after(m, 200)

		Expect(m.AverageInventory(0)).To(BeNumerically("~", 25, 1e-9))
		Expect(m.AverageBacklog(0)).To(BeNumerically("~", 25, 1e-9))
		Expect(m.ServiceLevel(0)).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("should not record during the warm-up period", func() {
		env.recording = false
		env.setSurplus(0, -100)
		env.after(m, 0)

		env.recording = true
		env.setSurplus(0, 10)
		env.after(m, 10)
		env.after(m, 20)

		Expect(m.Statistics(0).InitialTime).To(Equal(10.0))
		Expect(m.AverageInventory(0)).To(BeNumerically("~", 10, 1e-9))
	})

	It("should ignore before-event invocations", func() {
		env.setSurplus(0, 5)
		env.after(m, 0)
		env.before(m, timingControlAt(10))

		Expect(m.Statistics(0).FinalTime).To(Equal(0.0))
	})
})
