package simulation

import (
	"github.com/sarchlab/prodsim/config"
	"github.com/sarchlab/prodsim/datarecording"
	"github.com/sarchlab/prodsim/monitoring"
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/id"
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/metrics"
	"github.com/sarchlab/prodsim/sim/policy"
	"github.com/sarchlab/prodsim/sim/process"
	"github.com/sarchlab/prodsim/sim/recording"
	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// The number of draws discarded from the failure and repair generators.
const generatorWarmUp = 100

// Builder can be used to build a simulation.
type Builder struct {
	params                config.Params
	monitorOn             bool
	monitorPort           int
	openMonitor           bool
	recordingOn           bool
	outputFileName        string
	dataRecorder          datarecording.DataRecorder
	eventLogging          bool
	surplusSampleInterval float64
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		params:                config.DefaultParams(),
		monitorOn:             true,
		recordingOn:           true,
		surplusSampleInterval: 1,
	}
}

// WithParams sets the parameters of the run.
func (b Builder) WithParams(p config.Params) Builder {
	b.params = p
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithMonitorOpenedInBrowser opens the monitor page once the server starts.
func (b Builder) WithMonitorOpenedInBrowser() Builder {
	b.openMonitor = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithDataRecorder makes the simulation record into the given recorder.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.dataRecorder = r
	return b
}

// WithoutRecording sets the simulation to not record any data.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithEventLogging logs every event before it is handled.
func (b Builder) WithEventLogging() Builder {
	b.eventLogging = true
	return b
}

// WithSurplusSampleInterval sets the minimum simulated time between two
// recorded surplus samples.
func (b Builder) WithSurplusSampleInterval(interval float64) Builder {
	b.surplusSampleInterval = interval
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && (b.dataRecorder != nil || b.outputFileName != "") {
		panic("recording output cannot be set when recording is disabled")
	}

	if b.dataRecorder != nil && b.outputFileName != "" {
		panic("cannot set both a data recorder and an output file name")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if err := b.params.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:     id.NewXIDGenerator().Generate(),
		params: b.params,
	}

	s.clock = timing.NewClock()
	s.ms = timing.NewMasterScheduler(s.clock)

	if err := b.buildMachine(s); err != nil {
		return nil, err
	}

	b.buildGenerators(s)
	b.buildMetrics(s)
	b.buildRecorders(s)

	if b.eventLogging {
		s.ms.AcceptHook(timing.NewEventLogger(logrus.StandardLogger()))
	}

	b.buildMonitor(s)

	s.publishStatus()

	logrus.WithFields(logrus.Fields{
		"id":         s.id,
		"items":      b.params.NumItems,
		"policy":     b.params.Policy.Name,
		"demand":     b.params.DemandProcess.Name,
		"production": b.params.ProductionProcess.Name,
		"seed":       b.params.Seed,
	}).Info("simulation built")

	return s, nil
}

func (b Builder) buildMachine(s *Simulation) error {
	var err error

	itemParams := b.params.ItemParams()
	items := make([]*machine.Item, len(itemParams))

	for i, p := range itemParams {
		items[i] = machine.NewItem(i, p)
	}

	s.machine = machine.NewMachine(s.ms, items, b.params.InitialSetup)

	s.demand, err = process.NewDemandProcess(b.params.DemandProcess)
	if err != nil {
		return err
	}

	s.production, err = process.NewProductionProcess(b.params.ProductionProcess)
	if err != nil {
		return err
	}

	s.machine.SetProductionProcess(s.production)

	s.policy, err = policy.New(b.params.Policy.Name)
	if err != nil {
		return err
	}

	return nil
}

func (b Builder) buildGenerators(s *Simulation) {
	failures := process.NewExponentialGenerator(
		b.params.Seed+1, b.params.MeanTimeToFail)
	failures.WarmUp(generatorWarmUp)

	repairs := process.NewExponentialGenerator(
		b.params.Seed+2, b.params.MeanTimeToRepair)
	repairs.WarmUp(generatorWarmUp)

	s.failures = failures
	s.repairs = repairs
}

func (b Builder) buildMetrics(s *Simulation) {
	s.averageSurplus = metrics.NewAverageSurplus(s)
	s.timeFractions = metrics.NewTimeFractions(s)
	s.eventCounts = metrics.NewEventCounts(s)
	s.serviceLevel = metrics.NewServiceLevelSurplus(
		s, b.params.ConvergenceTolerance)

	s.ms.AcceptHook(s.averageSurplus)
	s.ms.AcceptHook(s.timeFractions)
	s.ms.AcceptHook(s.eventCounts)
	s.ms.AcceptHook(s.serviceLevel)

	if b.params.NumBatches > 0 {
		s.batchedAverageSurplus = metrics.NewBatchedAverageSurplus(s,
			b.params.NumBatches, b.params.MetricsStartTime, b.params.FinalTime)
		s.ms.AcceptHook(s.batchedAverageSurplus)
	}
}

func (b Builder) buildRecorders(s *Simulation) {
	if !b.recordingOn {
		return
	}

	s.dataRecorder = b.dataRecorder
	if s.dataRecorder == nil {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "prodsim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
	}

	s.recorderHooks = []hooking.Hook{
		recording.NewFailureRecorder(s.dataRecorder),
		recording.NewSurplusRecorder(s, s.dataRecorder, b.surplusSampleInterval),
	}

	for _, h := range s.recorderHooks {
		s.ms.AcceptHook(h)
	}
}

func (b Builder) buildMonitor(s *Simulation) {
	if !b.monitorOn {
		return
	}

	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterController(s)
	s.progressBar = s.monitor.CreateProgressBar("Simulation", b.params.FinalTime)
	s.ms.AcceptHook(hooking.NewFuncHook(func(ctx hooking.HookCtx) {
		if ctx.Pos == timing.HookPosAfterEvent {
			s.progressBar.Update(s.ms.Now().Float64())
		}
	}))
	s.monitor.StartServer()

	if b.openMonitor {
		if err := s.monitor.OpenInBrowser(); err != nil {
			logrus.WithError(err).Warn("cannot open the monitor in a browser")
		}
	}
}
