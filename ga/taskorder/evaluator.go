package taskorder

import (
	"math"

	"fleetsim/sim"
)

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// ExpectedMakespanEvaluator scores an Individual's route/repair plan by
// estimating, per worker, the expected time to clear its route — advancing
// expected fatigue-derived performance along the way, without simulating
// actual failures — and returning the worst (max) such time as the
// individual's single objective.
type ExpectedMakespanEvaluator struct {
	Model *sim.Model
}

// Evaluate returns [expectedMakespan], or [+Inf] if the individual
// references a worker the model no longer has, or if any worker's route
// stalls out (reaches zero expected speed/throughput while work remains).
func (e *ExpectedMakespanEvaluator) Evaluate(ind *Individual) []float64 {
	makespan := 0.0
	for _, wid := range ind.WorkerIDs {
		worker := e.Model.Workers[wid]
		if worker == nil {
			return []float64{math.Inf(1)}
		}
		t := e.estimateWorkerTime(worker, ind)
		if math.IsInf(t, 1) {
			return []float64{math.Inf(1)}
		}
		if t > makespan {
			makespan = t
		}
	}
	return []float64{makespan}
}

func (e *ExpectedMakespanEvaluator) estimateWorkerTime(worker *sim.Worker, ind *Individual) float64 {
	route := ind.Routes[worker.ID]
	flags := ind.Repairs[worker.ID]

	modules := make([]sim.Module, len(worker.Modules))
	copy(modules, worker.Modules)

	curX, curY := worker.X, worker.Y
	depotX, depotY := e.Model.Depot.X, e.Model.Depot.Y

	total := 0.0

	for i, taskID := range route {
		task := e.Model.Tasks[taskID]
		if task == nil || task.Status == sim.TaskDone {
			continue
		}

		if i < len(flags) && flags[i] {
			speed, _ := e.expectedPerformance(modules)
			goDist := dist(curX, curY, depotX, depotY)
			if speed <= 0 && goDist > 1e-6 {
				return math.Inf(1)
			}
			goTime := 0.0
			if goDist >= 1e-6 {
				goTime = goDist / speed
			}
			total += goTime
			e.advanceFatigue(modules, sim.ActionMove, goTime)
			curX, curY = depotX, depotY

			total += e.Model.ReconstructDuration

			if worker.DeclaredType != "" {
				modules = e.applyReconstruction(modules, worker.DeclaredType)
			}
		}

		speed, throughput := e.expectedPerformance(modules)
		if speed <= 0 || throughput <= 0 {
			return math.Inf(1)
		}

		moveDist := dist(curX, curY, task.X, task.Y)
		moveTime := moveDist / speed
		total += moveTime
		e.advanceFatigue(modules, sim.ActionMove, moveTime)
		curX, curY = task.X, task.Y

		speed, throughput = e.expectedPerformance(modules)
		if speed <= 0 || throughput <= 0 {
			return math.Inf(1)
		}

		workTime := task.RemainingWork / throughput
		total += workTime
		e.advanceFatigue(modules, sim.ActionWork, workTime)
	}

	return total
}

func (e *ExpectedMakespanEvaluator) advanceFatigue(modules []sim.Module, action sim.Action, time float64) {
	if time <= 0 {
		return
	}
	rates := e.Model.FailureModel.Fatigue(action)
	for i := range modules {
		modules[i].H += rates[modules[i].Type] * time
	}
}

// expectedPerformance computes the expected (speed, throughput) a worker
// would realize given its current expected module survival: for each module
// type, the Poisson-binomial distribution over how many of that type
// survive, combined into a joint distribution over realized robot type
// (resolved by type_priority, as in InferRealizedType), weighted by
// per-type speed/throughput.
func (e *ExpectedMakespanEvaluator) expectedPerformance(modules []sim.Module) (speed, throughput float64) {
	byType := make(map[string][]sim.Module)
	for _, m := range modules {
		byType[m.Type] = append(byType[m.Type], m)
	}

	type countDist struct {
		modType string
		pmf     []float64
	}
	var dists []countDist
	for modType, ms := range byType {
		ps := make([]float64, len(ms))
		for i, m := range ms {
			pFail := e.Model.FailureModel.FailureProb(m.H)
			pSurv := 1.0 - pFail
			if pSurv < 0 {
				pSurv = 0
			} else if pSurv > 1 {
				pSurv = 1
			}
			ps[i] = pSurv
		}
		dists = append(dists, countDist{modType, sim.PoissonBinomialPMF(ps)})
	}

	type joint struct {
		counts map[string]int
		p      float64
	}
	joints := []joint{{counts: map[string]int{}, p: 1.0}}
	for _, d := range dists {
		var next []joint
		for _, j := range joints {
			for k, pk := range d.pmf {
				if pk <= 0 {
					continue
				}
				cc := make(map[string]int, len(j.counts)+1)
				for t, n := range j.counts {
					cc[t] = n
				}
				cc[d.modType] = k
				next = append(next, joint{counts: cc, p: j.p * pk})
			}
		}
		joints = next
	}

	for _, j := range joints {
		rtype := sim.InferRealizedType(j.counts, e.Model.RobotTypes, e.Model.TypePriority)
		if rtype == "" {
			continue
		}
		spec := e.Model.RobotTypes[rtype]
		speed += j.p * spec.Speed
		throughput += j.p * spec.Throughput
	}

	return speed, throughput
}

func (e *ExpectedMakespanEvaluator) applyReconstruction(modules []sim.Module, declaredType string) []sim.Module {
	spec, ok := e.Model.RobotTypes[declaredType]
	if !ok {
		return modules
	}

	out := make([]sim.Module, len(modules))
	counts := make(map[string]int)
	for i, m := range modules {
		m.H = 0
		m.DH = 0
		out[i] = m
		counts[m.Type]++
	}

	for modType, need := range spec.RequiredModules {
		add := need - counts[modType]
		for i := 0; i < add; i++ {
			out = append(out, sim.Module{ID: -1, Type: modType})
		}
	}

	return out
}
