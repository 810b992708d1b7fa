package sim

import (
	"math"
	"sort"
)

// WorkerMode is the worker's phase in the idle/work/reconstruction cycle.
type WorkerMode int

const (
	WorkerIdle WorkerMode = iota
	WorkerWork
	WorkerGoReconstruction
	WorkerReconstruction
)

// Worker carries a bundle of Modules, is assigned a DeclaredType by the
// configuration planner, and executes whatever task the allocator targets it
// at. Its realized capability (speed/throughput) depends on which modules it
// actually still has, not on DeclaredType alone — modules fail over time.
type Worker struct {
	ID           int
	X, Y         float64
	Modules      []Module
	DeclaredType string
	Mode         WorkerMode

	TargetTaskID int // meaningful only in WorkerWork

	ReconstructRemaining float64
	reconDeficit         map[string]int
	reconExcessIDs       map[int]struct{}

	wasReconstructingThisStep bool
}

// NewWorker builds an idle worker at the given position with the given
// module loadout.
func NewWorker(id int, x, y float64, declaredType string, modules []Module) *Worker {
	return &Worker{
		ID:           id,
		X:            x,
		Y:            y,
		Modules:      modules,
		DeclaredType: declaredType,
		Mode:         WorkerIdle,
		TargetTaskID: -1,
	}
}

// ModuleCounts tallies surviving modules by type.
func (w *Worker) ModuleCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range w.Modules {
		counts[m.Type]++
	}
	return counts
}

// RealizedType resolves the worker's currently-satisfied robot type from its
// surviving modules, independent of DeclaredType.
func (w *Worker) RealizedType(robotTypes map[string]RobotTypeSpec, typePriority map[string]int) string {
	return InferRealizedType(w.ModuleCounts(), robotTypes, typePriority)
}

// Performance returns the (speed, throughput) granted by the worker's
// realized type, or (0, 0) if it currently satisfies no type.
func (w *Worker) Performance(robotTypes map[string]RobotTypeSpec, typePriority map[string]int) (speed, throughput float64) {
	rtype := w.RealizedType(robotTypes, typePriority)
	if rtype == "" {
		return 0, 0
	}
	spec := robotTypes[rtype]
	return spec.Speed, spec.Throughput
}

// DeficitsForDeclaredType computes, for the worker's DeclaredType, how many
// modules of each required type the worker is currently missing.
func (w *Worker) DeficitsForDeclaredType(robotTypes map[string]RobotTypeSpec) map[string]int {
	counts := w.ModuleCounts()
	req := robotTypes[w.DeclaredType].RequiredModules
	deficits := make(map[string]int)
	for t, need := range req {
		if have := counts[t]; have < need {
			deficits[t] = need - have
		}
	}
	return deficits
}

const distEpsilon = 1e-8

// moveToward advances (x, y) toward (tx, ty) at the given speed for up to dt
// time, returning whether the target was reached this call, how much time was
// actually spent moving, and how much dt remains unused (nonzero only on
// arrival with time to spare).
func moveToward(x, y *float64, tx, ty, speed, dt float64) (arrived bool, timeUsed, dtRemaining float64) {
	dx := tx - *x
	dy := ty - *y
	dist := math.Hypot(dx, dy)
	if dist < distEpsilon {
		return true, 0, dt
	}
	if speed <= 0 {
		return false, 0, 0
	}
	reachTime := dist / speed
	if reachTime <= dt {
		*x, *y = tx, ty
		return true, reachTime, dt - reachTime
	}
	frac := dt / reachTime
	*x += dx * frac
	*y += dy * frac
	return false, dt, 0
}

// Step advances the worker by one simulation tick, dispatching on Mode, then
// rolls for module failure.
func (w *Worker) Step(model *Model) {
	w.wasReconstructingThisStep = false
	dt := model.TimeStep

	switch w.Mode {
	case WorkerIdle:
		// nothing to do; the allocator is responsible for transitions out of idle.
	case WorkerWork:
		w.stepWork(model, dt)
	case WorkerGoReconstruction:
		w.stepGoReconstruction(model, dt)
	case WorkerReconstruction:
		w.stepReconstruction(model, dt)
	}

	w.rollFailures(model)
}

func (w *Worker) stepWork(model *Model, dt float64) {
	task := model.Tasks[w.TargetTaskID]
	if task == nil || task.Status == TaskDone {
		w.Mode = WorkerIdle
		w.TargetTaskID = -1
		return
	}

	speed, throughput := w.Performance(model.RobotTypes, model.TypePriority)

	arrived, timeUsed, remaining := moveToward(&w.X, &w.Y, task.X, task.Y, speed, dt)
	w.accrueFatigue(model, ActionMove, timeUsed)

	if arrived && remaining > 0 && throughput > 0 {
		task.AddWork(throughput * remaining)
		w.accrueFatigue(model, ActionWork, remaining)
	}
}

func (w *Worker) stepGoReconstruction(model *Model, dt float64) {
	speed, _ := w.Performance(model.RobotTypes, model.TypePriority)

	arrived, timeUsed, remaining := moveToward(&w.X, &w.Y, model.Depot.X, model.Depot.Y, speed, dt)
	w.accrueFatigue(model, ActionMove, timeUsed)

	if arrived {
		w.enterReconstruction(model)
		if remaining > 0 {
			w.wasReconstructingThisStep = true
			w.stepReconstruction(model, remaining)
		}
	}
}

// enterReconstruction computes which modules the worker must shed (excess,
// highest fatigue first) and which it must acquire (deficit against its
// DeclaredType's requirements), then transitions into WorkerReconstruction.
func (w *Worker) enterReconstruction(model *Model) {
	req := model.RobotTypes[w.DeclaredType].RequiredModules

	byType := make(map[string][]Module)
	for _, m := range w.Modules {
		byType[m.Type] = append(byType[m.Type], m)
	}

	excess := make(map[int]struct{})
	for t, ms := range byType {
		need := req[t]
		if len(ms) <= need {
			continue
		}
		sort.Slice(ms, func(i, j int) bool { return ms[i].H < ms[j].H })
		for _, m := range ms[need:] {
			excess[m.ID] = struct{}{}
		}
	}

	deficit := make(map[string]int)
	for t, need := range req {
		if have := len(byType[t]); have < need {
			deficit[t] = need - have
		}
	}

	w.reconExcessIDs = excess
	w.reconDeficit = deficit
	w.ReconstructRemaining = model.ReconstructDuration
	w.Mode = WorkerReconstruction
}

func (w *Worker) stepReconstruction(model *Model, dt float64) {
	w.wasReconstructingThisStep = true
	w.ReconstructRemaining -= dt
	if w.ReconstructRemaining > 1e-9 {
		return
	}

	kept := w.Modules[:0]
	var excessModules []Module
	for _, m := range w.Modules {
		if _, drop := w.reconExcessIDs[m.ID]; drop {
			excessModules = append(excessModules, m)
		} else {
			kept = append(kept, m)
		}
	}

	if err := model.Depot.Put(excessModules); err != nil {
		model.Logger.Fatalf("worker %d: returning excess modules to depot: %v", w.ID, err)
	}

	acquired := model.Depot.TakeBestEffort(w.reconDeficit)
	for i := range acquired {
		acquired[i].H = 0
		acquired[i].DH = 0
	}
	kept = append(kept, acquired...)

	w.Modules = kept
	w.reconDeficit = nil
	w.reconExcessIDs = nil
	w.ReconstructRemaining = 0
	w.Mode = WorkerIdle
	w.TargetTaskID = -1
}

func (w *Worker) accrueFatigue(model *Model, action Action, time float64) {
	if time <= 0 {
		return
	}
	rates := model.FailureModel.Fatigue(action)
	for i := range w.Modules {
		rate := rates[w.Modules[i].Type]
		if rate <= 0 {
			continue
		}
		w.Modules[i].DH += rate * time
	}
}

// rollFailures applies the end-of-step Bernoulli failure check to every
// module's accrued DH, then folds surviving DH into H. Workers that spent any
// part of this step in reconstruction are exempt: their modules' DH is
// simply discarded.
func (w *Worker) rollFailures(model *Model) {
	if w.wasReconstructingThisStep {
		for i := range w.Modules {
			w.Modules[i].DH = 0
		}
		return
	}

	survivors := w.Modules[:0]
	for _, m := range w.Modules {
		if m.DH <= 0 {
			survivors = append(survivors, m)
			continue
		}
		p := model.FailureModel.FailureProbStep(m.H, m.DH)
		if model.RNG.Float64() < p {
			continue // failed; dropped from the worker
		}
		m.H += m.DH
		m.DH = 0
		survivors = append(survivors, m)
	}
	w.Modules = survivors
}
