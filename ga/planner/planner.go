package planner

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"fleetsim/sim"
	"fleetsim/trial"
)

// selectOneFromParetoChebyshev picks a single individual from a Pareto
// front by minimizing the weighted Chebyshev distance to the front's ideal
// point, with each objective normalized against the front's own
// ideal/nadir range.
func selectOneFromParetoChebyshev(front []*Individual, weight []float64) *Individual {
	if len(front) == 0 {
		return nil
	}
	m := len(front[0].Objectives)

	ideal := make([]float64, m)
	nadir := make([]float64, m)
	for i := 0; i < m; i++ {
		ideal[i] = math.Inf(1)
		nadir[i] = math.Inf(-1)
	}
	for _, ind := range front {
		for i := 0; i < m; i++ {
			if ind.Objectives[i] < ideal[i] {
				ideal[i] = ind.Objectives[i]
			}
			if ind.Objectives[i] > nadir[i] {
				nadir[i] = ind.Objectives[i]
			}
		}
	}

	var best *Individual
	bestValue := math.Inf(1)
	for _, ind := range front {
		chebMax := 0.0
		for i := 0; i < m; i++ {
			denom := nadir[i] - ideal[i]
			norm := 0.0
			if denom > 0 {
				norm = (ind.Objectives[i] - ideal[i]) / denom
			}
			if v := weight[i] * norm; v > chebMax {
				chebMax = v
			}
		}
		if chebMax < bestValue {
			bestValue = chebMax
			best = ind
		}
	}
	if best == nil {
		best = front[0]
	}
	return best
}

// hypervolume2DMin computes the 2-objective (minimization) hypervolume
// dominated by front relative to ref, skipping points ref cannot dominate.
func hypervolume2DMin(front [][2]float64, ref [2]float64) float64 {
	var pts [][2]float64
	for _, p := range front {
		if p[0] <= ref[0] && p[1] <= ref[1] {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return 0
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	hv := 0.0
	yBest := ref[1]
	for i := len(pts) - 1; i >= 0; i-- {
		x, y := pts[i][0], pts[i][1]
		if y < yBest {
			hv += (ref[0] - x) * (yBest - y)
			yBest = y
		}
	}
	return hv
}

// OptLogger records a planner decision (the Pareto front considered and the
// configuration chosen from it). Defined here, rather than imported from the
// collector package, so planner need not depend on it — collector.OptCollector
// satisfies this interface structurally.
type OptLogger interface {
	LogOptimization(step int, front []*Individual, chosen *Individual, preference []float64) error
}

// GeneticPlanner is a sim.ConfigurationPlanner that periodically re-plans
// the worker-type vector via NSGA-II (running several independent trials
// and keeping the median-by-hypervolume front), selects one configuration
// from that front by Chebyshev-scalarized preference, then enacts it
// against the live model.
type GeneticPlanner struct {
	Seed          int64
	NumWorkersMax int
	PopSize       int
	Generations   int
	Trials        int
	Preference    []float64

	CxMethod          CrossoverMethod
	PCx               float64
	SwapProb          float64
	PMutGene          float64
	PActivateFromNone float64
	PDeactivateToNone float64

	OptCollector OptLogger

	best *Individual
}

func (p *GeneticPlanner) ensurePlan(model *sim.Model) {
	evaluator := NewConfigurationEvaluator(model)
	evaluate := func(ind *Individual) []float64 { return evaluator.Evaluate(ind) }
	stock := model.Depot.CountByType()

	type trialOutcome struct {
		front []*Individual
		hv    float64
	}

	runner := trial.NewRunner(p.Trials, p.Seed, runtime.GOMAXPROCS(0))
	results, err := runner.Run(context.Background(), func(seed int64) (interface{}, float64, error) {
		nsga := &NSGA2{
			NumWorkersMax:     p.NumWorkersMax,
			PopSize:           p.PopSize,
			Generations:       p.Generations,
			Evaluate:          evaluate,
			RNG:               rand.New(rand.NewSource(seed)),
			RobotTypes:        model.RobotTypes,
			DepotStock:        stock,
			CxMethod:          p.CxMethod,
			PCx:               p.PCx,
			SwapProb:          p.SwapProb,
			PMutGene:          p.PMutGene,
			PActivateFromNone: p.PActivateFromNone,
			PDeactivateToNone: p.PDeactivateToNone,
			PNoneInit:         0.2,
		}
		front0 := nsga.Run()
		hv := hypervolume2DMin(frontPoints(front0), [2]float64{0, 0})
		return trialOutcome{front: front0, hv: hv}, hv, nil
	})
	if err != nil {
		model.Logger.Fatalf("planner: trial run failed: %v", err)
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Value.(trialOutcome).hv < results[j].Value.(trialOutcome).hv
	})
	medianIdx := len(results) / 2
	front0 := results[medianIdx].Value.(trialOutcome).front
	chosen := selectOneFromParetoChebyshev(front0, p.Preference)
	if chosen != nil {
		p.best = chosen.Clone()
	}

	if p.OptCollector != nil && chosen != nil {
		if err := p.OptCollector.LogOptimization(model.Steps+1, front0, chosen, p.Preference); err != nil {
			// a logging failure must not halt the simulation itself.
			_ = err
		}
	}
}

func frontPoints(front []*Individual) [][2]float64 {
	points := make([][2]float64, len(front))
	for i, ind := range front {
		points[i] = [2]float64{ind.Objectives[0], ind.Objectives[1]}
	}
	return points
}

// BuildWorkers implements sim.ConfigurationPlanner. The scheduler (sim.Model.Step)
// is the single gate on how often this is called, via PlannerInterval; this
// method itself replans and enacts unconditionally every time it runs.
func (p *GeneticPlanner) BuildWorkers(model *sim.Model) {
	p.ensurePlan(model)
	if p.best == nil {
		model.Logger.Fatalf("planner: no plan individual available")
		return
	}

	for i, desired := range p.best.WorkerTypes {
		existing, exists := model.Workers[i]
		existingAlive := exists && existing.DeclaredType != ""

		switch {
		case existingAlive && desired != "":
			// Case A: keep the worker, just redeclare its target type.
			existing.DeclaredType = desired

		case existingAlive && desired == "":
			// Case B: retire the worker, returning its modules to the depot.
			if err := model.Depot.Put(existing.Modules); err != nil {
				model.Logger.Warnf("planner: returning modules from retired worker %d: %v", i, err)
			}
			delete(model.Workers, i)

		case !existingAlive && desired != "":
			// Case C: spin up a new worker, reserving its modules atomically.
			spec, ok := model.RobotTypes[desired]
			if !ok {
				continue
			}
			reserved, ok := model.Depot.Take(spec.RequiredModules)
			if !ok {
				continue
			}
			model.Workers[i] = sim.NewWorker(i, model.Depot.X, model.Depot.Y, desired, reserved)

		default:
			// Case D: nothing declared, nothing alive — ensure absence.
			delete(model.Workers, i)
		}
	}
}
