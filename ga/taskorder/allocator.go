package taskorder

import (
	"context"
	"math/rand"
	"runtime"
	"sort"

	"fleetsim/sim"
	"fleetsim/trial"
)

// GeneticAllocator is a sim.TaskAllocator that periodically re-plans every
// worker's task route and repair schedule via SimpleGA (running several
// independent trials and keeping the median-by-makespan one), then, every
// allocator tick, advances each worker along its planned route: triggering a
// reconstruction detour when the plan calls for it and the depot can cover
// the deficit, and otherwise pointing the worker at its next task.
type GeneticAllocator struct {
	PopSize     int
	Generations int
	ElitismRate float64
	LMax        int
	Seed        int64
	Trials      int

	best            *Individual
	lastRepairIndex map[int]int
}

// NewGeneticAllocator constructs an allocator with its own repair-trigger
// bookkeeping initialized.
func NewGeneticAllocator(popSize, generations int, elitismRate float64, lMax int, seed int64, trials int) *GeneticAllocator {
	return &GeneticAllocator{
		PopSize:         popSize,
		Generations:     generations,
		ElitismRate:     elitismRate,
		LMax:            lMax,
		Seed:            seed,
		Trials:          trials,
		lastRepairIndex: make(map[int]int),
	}
}

func (a *GeneticAllocator) ensurePlan(model *sim.Model) {
	workerIDs := make([]int, 0, len(model.Workers))
	for id := range model.Workers {
		workerIDs = append(workerIDs, id)
	}
	sort.Ints(workerIDs)
	numTasks := len(model.Tasks)

	if len(workerIDs) == 0 || numTasks <= 0 {
		a.best = Empty(workerIDs, numTasks, a.LMax)
		return
	}

	evaluator := &ExpectedMakespanEvaluator{Model: model}
	evaluate := func(ind *Individual) []float64 { return evaluator.Evaluate(ind) }

	runner := trial.NewRunner(a.Trials, a.Seed, runtime.GOMAXPROCS(0))
	results, err := runner.Run(context.Background(), func(seed int64) (interface{}, float64, error) {
		ga := NewSimpleGA(workerIDs, numTasks, a.LMax, a.PopSize, a.Generations, a.ElitismRate, evaluate, rand.New(rand.NewSource(seed)))
		ind := ga.Run()
		return ind, ind.Objectives[0], nil
	})
	if err != nil {
		model.Logger.Fatalf("taskorder: trial run failed: %v", err)
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Value.(*Individual).Objectives[0] < results[j].Value.(*Individual).Objectives[0]
	})
	medianIdx := len(results) / 2
	a.best = results[medianIdx].Value.(*Individual)
}

func (a *GeneticAllocator) currentWork(worker *sim.Worker, ind *Individual, model *sim.Model) int {
	route := ind.Routes[worker.ID]
	n := 0
	for _, taskID := range route {
		t := model.Tasks[taskID]
		if t == nil || t.Status != sim.TaskDone {
			break
		}
		n++
	}
	return n
}

// AssignTasks implements sim.TaskAllocator. The scheduler (sim.Model.Step) is
// the single gate on how often this is called, via AllocatorInterval; this
// method replans unconditionally every time it runs.
func (a *GeneticAllocator) AssignTasks(model *sim.Model) {
	a.ensurePlan(model)

	ind := a.best
	if ind == nil {
		return
	}
	stock := model.Depot.CountByType()

	workerIDs := make([]int, 0, len(model.Workers))
	for id := range model.Workers {
		workerIDs = append(workerIDs, id)
	}
	sort.Ints(workerIDs)

	for _, wid := range workerIDs {
		w := model.Workers[wid]

		if w.Mode == sim.WorkerGoReconstruction || w.Mode == sim.WorkerReconstruction {
			continue
		}

		route := ind.Routes[wid]
		if len(route) == 0 {
			w.TargetTaskID = -1
			w.Mode = sim.WorkerIdle
			continue
		}

		currentWork := a.currentWork(w, ind, model)
		if currentWork >= len(route) {
			w.TargetTaskID = -1
			w.Mode = sim.WorkerIdle
			continue
		}

		deficits := w.DeficitsForDeclaredType(model.RobotTypes)

		flags := ind.Repairs[wid]
		lastTriggered, hasTriggered := a.lastRepairIndex[wid]
		goRepair := currentWork < len(flags) && flags[currentWork] && (!hasTriggered || lastTriggered != currentWork)

		if goRepair && sim.CanCover(deficits, stock) {
			w.TargetTaskID = -1
			w.Mode = sim.WorkerGoReconstruction
			a.lastRepairIndex[wid] = currentWork
			continue
		}

		// Safety fallback: a declared-type deficit outside the planned repair
		// schedule still sends the worker to reconstruct if the depot can
		// cover it. If the scheduled repair for this index is also due, mark
		// it triggered too, so it isn't performed a second time once this
		// reconstruction clears the deficit.
		if len(deficits) > 0 && sim.CanCover(deficits, stock) {
			w.TargetTaskID = -1
			w.Mode = sim.WorkerGoReconstruction
			if currentWork < len(flags) && flags[currentWork] {
				a.lastRepairIndex[wid] = currentWork
			}
			continue
		}

		nextTaskID := route[currentWork]
		if model.Tasks[nextTaskID] == nil {
			model.Logger.Fatalf("taskorder: task %d not found for worker %d", nextTaskID, wid)
			continue
		}
		w.TargetTaskID = nextTaskID
		w.Mode = sim.WorkerWork
	}
}
