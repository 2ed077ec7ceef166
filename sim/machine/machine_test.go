package machine

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/prodsim/sim/timing"
	"go.uber.org/mock/gomock"
)

func threeItems() []*Item {
	setupTimes := []float64{10, 20, 30}
	items := make([]*Item, 0, len(setupTimes))

	for i, s := range setupTimes {
		items = append(items, NewItem(i, ItemParams{
			DemandRate:        0.1,
			ProductionRate:    1,
			SetupTime:         s,
			InventoryCostRate: 1,
			BacklogCostRate:   1,
		}))
	}

	return items
}

var _ = Describe("Machine", func() {
	var (
		mockCtrl   *gomock.Controller
		production *MockDepartureSource
		clock      *timing.Clock
		ms         *timing.MasterScheduler
		m          *Machine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		production = NewMockDepartureSource(mockCtrl)
		production.EXPECT().IsDiscrete().Return(true).AnyTimes()

		clock = timing.NewClock()
		ms = timing.NewMasterScheduler(clock)
		m = NewMachine(ms, threeItems(), 0)
		m.SetProductionProcess(production)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	productionSchedule := func() *timing.Schedule {
		return ms.Schedule(timing.ScheduleProduction)
	}

	It("should start up and idle", func() {
		Expect(m.IsUp()).To(BeTrue())
		Expect(m.OperationalState()).To(Equal(Idle))
		Expect(m.Setup().ID()).To(Equal(0))
		Expect(m.Setup().IsUnderProduction()).To(BeTrue())
		Expect(m.IsChangingSetups()).To(BeFalse())
		Expect(m.IsSetupComplete()).To(BeTrue())
		Expect(productionSchedule().IsOnHold()).To(BeTrue())
	})

	It("should panic if the initial setup is out of range", func() {
		Expect(func() {
			NewMachine(ms, threeItems(), 3)
		}).To(Panic())
	})

	It("should stay in setup for the setup time of the new item", func() {
		clock.AdvanceTo(timing.At(1))

		m.StartChangeover(1)

		Expect(m.OperationalState()).To(Equal(Setup))
		Expect(m.IsChangingSetups()).To(BeTrue())
		Expect(m.IsSetupComplete()).To(BeFalse())
		Expect(m.NextSetupCompleteTime().Float64()).To(Equal(21.0))
		Expect(m.Setup().ID()).To(Equal(1))
		Expect(m.Item(0).IsUnderProduction()).To(BeFalse())
		Expect(m.Item(1).IsUnderProduction()).To(BeTrue())

		clock.AdvanceTo(timing.At(20))
		Expect(m.IsSetupComplete()).To(BeFalse())

		clock.AdvanceTo(timing.At(21))
		Expect(m.IsSetupComplete()).To(BeTrue())
		Expect(m.IsChangingSetups()).To(BeTrue())
	})

	It("should not break down in the middle of a setup", func() {
		clock.AdvanceTo(timing.At(1))
		m.StartChangeover(1)

		clock.AdvanceTo(timing.At(2))

		Expect(func() { m.BreakDown() }).To(Panic())
		Expect(m.IsUp()).To(BeTrue())
	})

	It("should break down once the setup is complete", func() {
		clock.AdvanceTo(timing.At(1))
		m.StartChangeover(1)
		clock.AdvanceTo(timing.At(21))

		m.BreakDown()

		Expect(m.IsDown()).To(BeTrue())
	})

	It("should change over to the same item immediately", func() {
		m.StartChangeover(0)

		Expect(m.OperationalState()).To(Equal(Setup))
		Expect(m.IsSetupComplete()).To(BeTrue())
		Expect(m.NextSetupCompleteTime().Float64()).To(Equal(0.0))
	})

	It("should not start a changeover during another one", func() {
		m.StartChangeover(1)

		Expect(func() { m.StartChangeover(2) }).To(Panic())
	})

	It("should not start a changeover while down", func() {
		m.BreakDown()

		Expect(func() { m.StartChangeover(1) }).To(Panic())
	})

	It("should discard the departures of the old item", func() {
		production.EXPECT().
			NextDeparture(0, gomock.Any()).
			Return(timing.NewProductionDepartureEvent(timing.At(5), 0, 1))
		m.SetSprint()
		Expect(productionSchedule().Len()).To(Equal(1))

		m.StartChangeover(1)

		Expect(productionSchedule().EventsComplete()).To(BeTrue())
		Expect(productionSchedule().IsOnHold()).To(BeTrue())
	})

	It("should request a departure when sprinting after a setup", func() {
		clock.AdvanceTo(timing.At(1))
		m.StartChangeover(1)
		clock.AdvanceTo(timing.At(21))

		production.EXPECT().
			NextDeparture(1, gomock.Any()).
			DoAndReturn(func(item int, now timing.TimeInstant) *timing.Event {
				return timing.NewProductionDepartureEvent(now.AddFloat(1), item, 1)
			})

		m.SetSprint()

		Expect(m.OperationalState()).To(Equal(Sprint))
		Expect(m.IsChangingSetups()).To(BeFalse())
		Expect(m.IsProducing()).To(BeTrue())
		Expect(productionSchedule().IsOnHold()).To(BeFalse())
		Expect(productionSchedule().NextEventTime().Float64()).To(Equal(22.0))
	})

	It("should not change state in the middle of a setup", func() {
		m.StartChangeover(1)

		Expect(func() { m.SetSprint() }).To(Panic())
		Expect(func() { m.SetIdle() }).To(Panic())
		Expect(func() { m.SetCruise() }).To(Panic())
	})

	It("should hold production when idle", func() {
		production.EXPECT().
			NextDeparture(0, gomock.Any()).
			Return(timing.NewProductionDepartureEvent(timing.At(5), 0, 1))
		m.SetSprint()

		clock.AdvanceTo(timing.At(2))
		m.SetIdle()
		m.SetIdle()
		Expect(productionSchedule().IsOnHold()).To(BeTrue())

		clock.AdvanceTo(timing.At(4))
		m.SetSprint()

		Expect(productionSchedule().NextEventTime().Float64()).To(Equal(7.0))
	})

	It("should not sprint twice", func() {
		production.EXPECT().
			NextDeparture(0, gomock.Any()).
			Return(timing.NewProductionDepartureEvent(timing.At(5), 0, 1)).
			Times(1)

		m.SetSprint()
		m.SetSprint()

		Expect(productionSchedule().Len()).To(Equal(1))
	})

	It("should not cruise with a discrete production process", func() {
		Expect(func() { m.SetCruise() }).To(Panic())
	})

	It("should cruise with a continuous production process", func() {
		continuous := NewMockDepartureSource(mockCtrl)
		continuous.EXPECT().IsDiscrete().Return(false).AnyTimes()
		m.SetProductionProcess(continuous)

		m.SetCruise()

		Expect(m.OperationalState()).To(Equal(Cruise))
		Expect(productionSchedule().IsOnHold()).To(BeFalse())
	})

	It("should not break down twice", func() {
		m.BreakDown()

		Expect(func() { m.BreakDown() }).To(Panic())
	})

	It("should not repair a machine that is up", func() {
		Expect(func() { m.Repair() }).To(Panic())
	})

	It("should not sprint while down", func() {
		m.BreakDown()

		Expect(func() { m.SetSprint() }).To(Panic())
		Expect(func() { m.SetCruise() }).To(Panic())
	})

	It("should push back production and failures by the repair time", func() {
		production.EXPECT().
			NextDeparture(0, gomock.Any()).
			Return(timing.NewProductionDepartureEvent(timing.At(5), 0, 1)).
			Times(1)
		m.SetSprint()
		ms.AddEvent(timing.NewFailureEvent(timing.At(10)))
		ms.AddEvent(timing.NewDemandArrivalEvent(timing.At(8), 2, 1))

		clock.AdvanceTo(timing.At(2))
		m.BreakDown()

		Expect(ms.Schedule(timing.ScheduleFailures).IsOnHold()).To(BeTrue())
		Expect(productionSchedule().IsOnHold()).To(BeTrue())

		clock.AdvanceTo(timing.At(6))
		m.Repair()

		Expect(m.IsUp()).To(BeTrue())
		Expect(productionSchedule().NextEventTime().Float64()).To(Equal(9.0))
		Expect(ms.Schedule(timing.ScheduleFailures).NextEventTime().Float64()).
			To(Equal(14.0))
		Expect(ms.Schedule(timing.ScheduleDemand).NextEventTime().Float64()).
			To(Equal(8.0))
	})

	It("should request a departure on repair if none is pending", func() {
		production.EXPECT().
			NextDeparture(0, gomock.Any()).
			Return(nil)
		m.SetSprint()

		m.BreakDown()
		clock.AdvanceTo(timing.At(3))

		production.EXPECT().
			NextDeparture(0, gomock.Any()).
			Return(timing.NewProductionDepartureEvent(timing.At(4), 0, 1))
		m.Repair()

		Expect(productionSchedule().NextEventTime().Float64()).To(Equal(4.0))
	})

	It("should keep production on hold on repair if idle", func() {
		m.BreakDown()
		clock.AdvanceTo(timing.At(3))

		m.Repair()

		Expect(productionSchedule().IsOnHold()).To(BeTrue())
		Expect(ms.Schedule(timing.ScheduleFailures).IsOnHold()).To(BeFalse())
	})

	It("should take a snapshot", func() {
		m.Item(2).AddDemand(4)
		clock.AdvanceTo(timing.At(1.5))

		s := m.Snapshot()
		m.Item(2).AddDemand(1)

		Expect(s.Time).To(Equal(1.5))
		Expect(s.FailureState).To(Equal("UP"))
		Expect(s.OperationalState).To(Equal("IDLE"))
		Expect(s.Setup).To(Equal(0))
		Expect(s.Items).To(HaveLen(3))
		Expect(s.Items[2].Backlog).To(Equal(4.0))
		Expect(s.Items[0].UnderProduction).To(BeTrue())
	})
})
