package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"golang.org/x/sync/errgroup"

	"fleetsim/collector"
	"fleetsim/config"
	"fleetsim/ga/planner"
	"fleetsim/ga/taskorder"
	"fleetsim/logging"
	"fleetsim/sim"
	"fleetsim/status"
)

var (
	scenarioPath = flag.String("scenario", "", "path to a scenario YAML file")
	seed         = flag.Int64("seed", 1, "base RNG seed for this run")
	logFile      = flag.String("log-file", "", "path to a log file; empty means stderr")
	statusAddr   = flag.String("status-addr", "", "address to serve GET /status on; empty disables the status server")
)

func init() {
	flag.Parse()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runApp() (err error) {
	if *scenarioPath == "" {
		return fmt.Errorf("main: --scenario is required")
	}

	logOut := os.Stderr
	if *logFile != "" {
		f, openErr := os.Create(*logFile)
		if openErr != nil {
			return fmt.Errorf("main: opening log file: %w", openErr)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(logOut)

	scenario, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		return fmt.Errorf("main: %w", err)
	}

	model, stepCollector, optCollector, err := buildModel(scenario, logger, *seed)
	if err != nil {
		return fmt.Errorf("main: %w", err)
	}
	if stepCollector != nil {
		defer stepCollector.Close()
	}
	if optCollector != nil {
		defer optCollector.Close()
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	g, gctx := errgroup.WithContext(appCtx)

	if *statusAddr != "" {
		srv := status.NewServer(*statusAddr, func() *sim.Model { return model })
		g.Go(func() error { return srv.Serve(gctx) })
	}

	g.Go(func() error {
		defer appCancel()
		model.Run()
		logger.Infof("run complete: steps=%d makespan=%.3f all_tasks_done=%v", model.Steps, model.Makespan(), model.AllTasksDone())
		return nil
	})

	return g.Wait()
}

// buildModel constructs a runnable *sim.Model from a loaded scenario,
// including its failure model, depot inventory, robot-type table, task
// set, and the genetic allocator/planner pair driving it.
func buildModel(scenario *config.ScenarioConfig, logger *logging.Logger, seed int64) (*sim.Model, *collector.StepCollector, *collector.OptCollector, error) {
	failureModel := buildFailureModel(scenario.FailureModel)

	robotTypes := scenario.RobotSetup.RobotTypeSpecs()

	modules := make([]sim.Module, 0, len(scenario.Modules))
	for _, ms := range scenario.Modules {
		modules = append(modules, sim.NewModule(ms.ID, ms.Type, ms.X, ms.Y, ms.H))
	}
	depot, err := sim.NewDepot(scenario.ModuleDepot.Position[0], scenario.ModuleDepot.Position[1], modules)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building depot: %w", err)
	}

	tasks := make(map[int]*sim.Task, len(scenario.Tasks))
	for _, ts := range scenario.Tasks {
		tasks[ts.ID] = sim.NewTask(ts.ID, ts.X, ts.Y, ts.TotalWork, ts.RemainingWork)
	}

	prefix := fmt.Sprintf("seed%04d", seed)
	stepCollector, err := collector.NewStepCollector(scenario.OutputDir, scenario.ScenarioName, prefix)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building step collector: %w", err)
	}
	optCollector, err := collector.NewOptCollector(scenario.OutputDir, scenario.ScenarioName, prefix)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building opt collector: %w", err)
	}

	model := &sim.Model{
		Space:               sim.Space{Width: scenario.Space.Width, Height: scenario.Space.Height},
		Depot:               depot,
		Workers:             make(map[int]*sim.Worker),
		Tasks:               tasks,
		FailureModel:        failureModel,
		RobotTypes:          robotTypes,
		TypePriority:        scenario.RobotSetup.TypePriority,
		TimeStep:            scenario.Sim.TimeStep,
		MaxSteps:            scenario.Sim.MaxSteps,
		ReconstructDuration: scenario.Sim.ReconstructDuration,
		HLimit:              scenario.Sim.HLimit,
		PlannerInterval:     scenario.Sim.IntervalRobotConf,
		AllocatorInterval:   scenario.Sim.IntervalTaskOrder,
		RNG:                 rand.New(rand.NewSource(seed)),
		StepCollector:       stepCollector,
		Logger:              logger,
	}

	model.Allocator = buildAllocator(scenario.TaskAllocator, seed)
	model.Planner = buildPlanner(scenario.ConfigurationPlanner, seed, optCollector)

	return model, stepCollector, optCollector, nil
}

func buildFailureModel(cc config.ComponentConfig) sim.FailureModel {
	p := cc.Params
	return &sim.WeibullFailureModel{
		Lambda:      config.ParamFloat(p, "lambda", 1000),
		K:           config.ParamFloat(p, "k", 2.0),
		FatigueMove: config.ParamStringFloatMap(p, "fatigue_move"),
		FatigueWork: config.ParamStringFloatMap(p, "fatigue_work"),
	}
}

func buildAllocator(cc config.ComponentConfig, seed int64) *taskorder.GeneticAllocator {
	p := cc.Params
	return taskorder.NewGeneticAllocator(
		config.ParamInt(p, "pop_size", 40),
		config.ParamInt(p, "generations", 50),
		config.ParamFloat(p, "elitism_rate", 0.1),
		config.ParamInt(p, "l_max", 8),
		seed,
		config.ParamInt(p, "trials", 3),
	)
}

func buildPlanner(cc config.ComponentConfig, seed int64, optCollector *collector.OptCollector) *planner.GeneticPlanner {
	p := cc.Params
	preference := config.ParamFloatSlice(p, "preference")
	if len(preference) == 0 {
		preference = []float64{0.5, 0.5}
	}
	return &planner.GeneticPlanner{
		Seed:              seed,
		NumWorkersMax:     config.ParamInt(p, "num_workers_max", 10),
		PopSize:           config.ParamInt(p, "pop_size", 40),
		Generations:       config.ParamInt(p, "generations", 50),
		Trials:            config.ParamInt(p, "trials", 3),
		Preference:        preference,
		CxMethod:          planner.CrossoverMethod(config.ParamString(p, "cx_method", string(planner.UniformCrossover))),
		PCx:               config.ParamFloat(p, "p_cx", 0.9),
		SwapProb:          config.ParamFloat(p, "swap_prob", 0.5),
		PMutGene:          config.ParamFloat(p, "p_mut_gene", 0.1),
		PActivateFromNone: config.ParamFloat(p, "p_activate_from_none", 0.5),
		PDeactivateToNone: config.ParamFloat(p, "p_deactivate_to_none", 0.2),
		OptCollector:      optCollector,
	}
}
