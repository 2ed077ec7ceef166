package simulation

import (
	"context"
	"math"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/prodsim/config"
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/policy"
	"github.com/sarchlab/prodsim/sim/process"
	"github.com/sarchlab/prodsim/sim/recording"
	"github.com/sarchlab/prodsim/sim/timing"
)

func reliableParams() config.Params {
	p := config.DefaultParams()
	p.MeanTimeToFail = 1e9
	p.MetricsStartTime = 0
	p.NumBatches = 0

	return p
}

// backlogParams describes three items that start with a backlog of 100 and
// see no further demand.
func backlogParams(target, finalTime float64) config.Params {
	p := reliableParams()
	p.NumItems = 3
	p.DemandRates = []float64{0, 0, 0}
	p.ProductionRates = []float64{1, 1, 1}
	p.SetupTimes = []float64{1, 1, 1}
	p.SurplusTargets = []float64{target, target, target}
	p.InventoryHoldingCosts = []float64{1, 1, 1}
	p.BacklogCosts = []float64{10, 10, 10}
	p.InitialDemand = []float64{100, 100, 100}
	p.FinalTime = finalTime

	return p
}

func build(p config.Params) *Simulation {
	s, err := MakeBuilder().
		WithParams(p).
		WithoutMonitoring().
		WithoutRecording().
		Build()
	Expect(err).ToNot(HaveOccurred())

	return s
}

var _ = Describe("Builder", func() {
	It("should reject invalid params", func() {
		p := reliableParams()
		p.ProductionRates = []float64{1}

		_, err := MakeBuilder().
			WithParams(p).
			WithoutMonitoring().
			WithoutRecording().
			Build()

		Expect(err).To(MatchError(config.ErrInvalidParams))
	})

	It("should reject an unknown policy", func() {
		p := reliableParams()
		p.Policy.Name = "shortest-queue"

		_, err := MakeBuilder().
			WithParams(p).
			WithoutMonitoring().
			WithoutRecording().
			Build()

		Expect(err).To(MatchError(policy.ErrUnknownPolicy))
	})

	It("should reject an unknown process", func() {
		p := reliableParams()
		p.DemandProcess.Name = "poisson"

		_, err := MakeBuilder().
			WithParams(p).
			WithoutMonitoring().
			WithoutRecording().
			Build()

		Expect(err).To(MatchError(process.ErrUnknownProcess))
	})

	It("should panic on a monitor port without monitoring", func() {
		Expect(func() {
			_, _ = MakeBuilder().
				WithoutMonitoring().
				WithMonitorPort(8080).
				Build()
		}).To(Panic())
	})

	It("should publish the initial status", func() {
		s := build(reliableParams())

		status := s.Status()
		Expect(status.Started).To(BeFalse())
		Expect(status.Now).To(Equal(0.0))
		Expect(status.Machine.OperationalState).To(Equal("IDLE"))
		Expect(s.ID()).ToNot(BeEmpty())
	})
})

var _ = Describe("Simulation", func() {
	It("should change setups and delay the failure", func() {
		p := reliableParams()
		p.SetupTimes = []float64{20, 20}
		s := build(p)
		ms := s.Scheduler()

		ms.AddEvent(timing.NewFailureEvent(timing.At(2)))
		ms.AddEvent(timing.NewChangeoverEvent(timing.At(1), 1))

		Expect(s.Step()).To(BeTrue())

		m := s.Machine()
		Expect(ms.Now().Float64()).To(Equal(1.0))
		Expect(m.IsChangingSetups()).To(BeTrue())
		Expect(m.Setup().ID()).To(Equal(1))
		Expect(m.NextSetupCompleteTime().Float64()).To(Equal(21.0))
		Expect(ms.Schedule(timing.ScheduleFailures).NextEventTime().Float64()).
			To(Equal(22.0))
		Expect(ms.Schedule(timing.ScheduleControl).NextEventTime().Float64()).
			To(Equal(21.0))

		Expect(s.Step()).To(BeTrue())

		Expect(ms.Now().Float64()).To(Equal(21.0))
		Expect(m.OperationalState()).To(Equal(machine.Sprint))
	})

	It("should repair the machine after a failure", func() {
		s := build(reliableParams())
		ms := s.Scheduler()
		m := s.Machine()

		s.Start()
		Expect(s.Step()).To(BeTrue())
		Expect(m.OperationalState()).To(Equal(machine.Sprint))

		ms.AddEvent(timing.NewFailureEvent(timing.At(5)))
		Expect(s.Step()).To(BeTrue())

		Expect(ms.Now().Float64()).To(Equal(5.0))
		Expect(m.IsDown()).To(BeTrue())
		Expect(ms.Schedule(timing.ScheduleRepairs).Len()).To(Equal(1))
		Expect(ms.Schedule(timing.ScheduleControl).EventsComplete()).To(BeTrue())
		Expect(ms.Schedule(timing.ScheduleFailures).IsOnHold()).To(BeTrue())

		t, ok := ms.NextEventTime()
		Expect(ok).To(BeTrue())
		Expect(t.After(timing.At(5))).To(BeTrue())

		Expect(s.Step()).To(BeTrue())

		Expect(ms.Now().Equal(t)).To(BeTrue())
		Expect(m.IsUp()).To(BeTrue())
		Expect(m.OperationalState()).To(Equal(machine.Sprint))
		Expect(ms.Schedule(timing.ScheduleFailures).IsOnHold()).To(BeFalse())
		Expect(ms.Schedule(timing.ScheduleFailures).Len()).To(Equal(2))
	})

	It("should clear a backlog at the production rate", func() {
		s := build(backlogParams(0, 100))

		Expect(s.Run()).To(Succeed())

		r := s.Results()
		Expect(s.CurrentTime()).To(Equal(100.0))
		Expect(r.Items[0].AverageBacklog).To(BeNumerically("~", 50, 1e-9))
		Expect(r.Items[0].AverageInventory).To(BeNumerically("~", 0, 1e-9))
		Expect(r.Items[0].SprintFraction).To(BeNumerically("~", 1, 1e-9))
		Expect(r.Items[1].AverageBacklog).To(BeNumerically("~", 100, 1e-9))
		Expect(r.Items[2].AverageBacklog).To(BeNumerically("~", 100, 1e-9))
		Expect(r.TotalAverageCost).To(BeNumerically("~", 2500, 1e-6))
		Expect(r.Changeovers).To(Equal(1))
		Expect(r.Failures).To(Equal(0))
		Expect(r.BatchedCosts).To(BeNil())
		Expect(s.Machine().Setup().ID()).To(Equal(1))
	})

	It("should measure a surplus that crosses zero", func() {
		s := build(backlogParams(100, 200))

		Expect(s.Run()).To(Succeed())

		r := s.Results()
		Expect(r.Items[0].AverageInventory).To(BeNumerically("~", 25, 1e-9))
		Expect(r.Items[0].AverageBacklog).To(BeNumerically("~", 25, 1e-9))
		Expect(r.Items[0].ServiceLevel).To(BeNumerically("~", 0.5, 1e-9))
		Expect(r.Items[0].MinSurplus).To(BeNumerically("~", -100, 1e-9))

		offset, stats, err := s.ServiceLevelOffset(0, 0.75)
		Expect(err).ToNot(HaveOccurred())
		Expect(offset).To(BeNumerically("~", 150, 1e-3))
		Expect(stats.ServiceLevel).To(BeNumerically("~", 0.75, 1e-5))
	})

	It("should run with discrete processes", func() {
		p := reliableParams()
		p.DemandRates = []float64{0.1, 0.1}
		p.SurplusTargets = []float64{2, 2}
		p.FinalTime = 50
		p.DemandProcess = process.Params{
			Name: process.DeterministicBatches, BatchSize: 1}
		p.ProductionProcess = process.Params{
			Name: process.DeterministicBatches, BatchSize: 1}
		s := build(p)

		Expect(s.Run()).To(Succeed())

		status := s.Status()
		Expect(status.Finished).To(BeTrue())
		Expect(status.Now).To(Equal(50.0))

		for _, item := range s.Machine().Items() {
			produced := item.CumulativeProduction()
			Expect(produced).To(Equal(float64(int(produced))))
			Expect(produced).To(BeNumerically(">", 0))
		}
	})

	It("should not run twice", func() {
		s := build(backlogParams(0, 10))

		Expect(s.Run()).To(Succeed())
		Expect(s.Run()).To(MatchError(ErrAlreadyRun))
	})

	It("should block steps while paused", func() {
		s := build(reliableParams())
		s.Start()

		s.Pause()
		s.Pause()

		done := make(chan struct{})
		go func() {
			s.Step()
			close(done)
		}()

		Consistently(done, 50*time.Millisecond).ShouldNot(BeClosed())

		s.Continue()
		s.Continue()

		Eventually(done).Should(BeClosed())
	})

	It("should track progress on the monitor", func() {
		s, err := MakeBuilder().
			WithParams(backlogParams(0, 10)).
			WithoutRecording().
			Build()
		Expect(err).ToNot(HaveOccurred())

		Expect(s.Monitor()).ToNot(BeNil())
		Expect(s.progressBar.Fraction()).To(Equal(0.0))

		Expect(s.Run()).To(Succeed())

		Expect(s.progressBar.Fraction()).To(Equal(1.0))
		Expect(s.Terminate()).To(Succeed())
	})

	It("should record the run", func() {
		p := backlogParams(0, 100)
		p.NumBatches = 2
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s, err := MakeBuilder().
			WithParams(p).
			WithoutMonitoring().
			WithOutputFileName(path).
			Build()
		Expect(err).ToNot(HaveOccurred())

		Expect(s.Run()).To(Succeed())

		hooks := s.Scheduler().NumHooks()
		Expect(s.Terminate()).To(Succeed())
		Expect(s.DataRecorder()).To(BeNil())
		Expect(s.Scheduler().NumHooks()).To(Equal(hooks - 2))

		run, err := recording.OpenRun(path + ".sqlite3")
		Expect(err).ToNot(HaveOccurred())
		defer run.Close()

		ctx := context.Background()

		items, err := run.Items(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(items).To(HaveLen(3))
		Expect(items[0].AverageBacklog).To(BeNumerically("~", 50, 1e-9))
		Expect(items[0].AverageCost).To(BeNumerically("~", 500, 1e-6))

		samples := 0
		for i := 0; i < 3; i++ {
			surplus, err := run.Surplus(ctx, i)
			Expect(err).ToNot(HaveOccurred())
			samples += len(surplus)
		}
		Expect(samples).To(Equal(6))

		batches, err := run.Batches(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(batches).To(HaveLen(2))
	})
})

var _ = Describe("Failure-prone runs", func() {
	continuous := process.Params{Name: process.Continuous}
	batches := process.Params{
		Name: process.DeterministicBatches, BatchSize: 1}

	DescribeTable("should finish for every seed",
		func(policyName string, demand, production process.Params) {
			for seed := int64(1); seed <= 15; seed++ {
				p := config.DefaultParams()
				p.NumItems = 3
				p.DemandRates = []float64{0.2, 0.25, 0.15}
				p.ProductionRates = []float64{1, 1, 1}
				p.SetupTimes = []float64{1, 2, 0.5}
				p.SurplusTargets = []float64{4, 3, 5}
				p.InventoryHoldingCosts = []float64{1, 1, 1}
				p.BacklogCosts = []float64{10, 10, 10}
				p.MeanTimeToFail = 20
				p.MeanTimeToRepair = 2
				p.FinalTime = 500
				p.MetricsStartTime = 50
				p.NumBatches = 5
				p.Seed = seed
				p.Policy.Name = policyName
				p.DemandProcess = demand
				p.ProductionProcess = production

				s := build(p)

				Expect(s.Run()).To(Succeed(), "seed %d", seed)

				status := s.Status()
				Expect(status.Finished).To(BeTrue(), "seed %d", seed)
				Expect(status.Now).To(Equal(500.0), "seed %d", seed)

				r := s.Results()
				Expect(r.Failures).To(BeNumerically(">", 0), "seed %d", seed)
				Expect(r.BatchedCosts).To(HaveLen(5), "seed %d", seed)
				Expect(math.IsNaN(r.TotalAverageCost)).To(BeFalse())
			}
		},
		Entry("cld, continuous demand, continuous production",
			policy.ClearTheLargestDeviationName, continuous, continuous),
		Entry("cld, batch demand, continuous production",
			policy.ClearTheLargestDeviationName, batches, continuous),
		Entry("cld, continuous demand, batch production",
			policy.ClearTheLargestDeviationName, continuous, batches),
		Entry("cld, batch demand, batch production",
			policy.ClearTheLargestDeviationName, batches, batches),
		Entry("round-robin, continuous demand, continuous production",
			policy.RoundRobinName, continuous, continuous),
		Entry("round-robin, batch demand, continuous production",
			policy.RoundRobinName, batches, continuous),
		Entry("round-robin, continuous demand, batch production",
			policy.RoundRobinName, continuous, batches),
		Entry("round-robin, batch demand, batch production",
			policy.RoundRobinName, batches, batches),
	)
})
