// Package taskorder implements the single-objective genetic algorithm that
// decides each worker's task route and repair schedule, and the
// sim.TaskAllocator that enacts it step by step.
package taskorder

import (
	"fmt"
	"sort"
)

// Individual is the two-layer GA representation: for each worker id, an
// ordered route of task ids, and a fixed-length repair-flag sequence
// indicating, for each position in the route, whether the worker should
// detour to the depot for reconstruction before attempting that task.
type Individual struct {
	WorkerIDs []int
	NumTasks  int
	LMax      int

	Routes  map[int][]int
	Repairs map[int][]bool

	Objectives []float64
}

// NewIndividual normalizes routes/repairs against worker_ids (missing
// entries become empty routes / all-false repair flags) and validates task
// coverage.
func NewIndividual(workerIDs []int, numTasks, lMax int, routes map[int][]int, repairs map[int][]bool) (*Individual, error) {
	seen := make(map[int]struct{}, len(workerIDs))
	for _, wid := range workerIDs {
		if _, dup := seen[wid]; dup {
			return nil, fmt.Errorf("taskorder: worker_ids contains duplicate %d", wid)
		}
		seen[wid] = struct{}{}
	}

	ind := &Individual{
		WorkerIDs: append([]int(nil), workerIDs...),
		NumTasks:  numTasks,
		LMax:      lMax,
		Routes:    make(map[int][]int, len(workerIDs)),
		Repairs:   make(map[int][]bool, len(workerIDs)),
	}
	for _, wid := range workerIDs {
		ind.Routes[wid] = append([]int(nil), routes[wid]...)
		if flags, ok := repairs[wid]; ok {
			ind.Repairs[wid] = append([]bool(nil), flags...)
		} else {
			ind.Repairs[wid] = make([]bool, lMax)
		}
		if len(ind.Repairs[wid]) != lMax {
			return nil, fmt.Errorf("taskorder: repairs[%d] length %d != L_max %d", wid, len(ind.Repairs[wid]), lMax)
		}
	}

	if !ind.CheckTaskCoverage() {
		return nil, fmt.Errorf("taskorder: task assignment is not a permutation of 0..%d", numTasks-1)
	}
	return ind, nil
}

// Empty builds a valid individual with no tasks routed to any worker. Used
// as a degenerate plan when there are no workers or no tasks.
func Empty(workerIDs []int, numTasks, lMax int) *Individual {
	ind := &Individual{
		WorkerIDs: append([]int(nil), workerIDs...),
		NumTasks:  numTasks,
		LMax:      lMax,
		Routes:    make(map[int][]int, len(workerIDs)),
		Repairs:   make(map[int][]bool, len(workerIDs)),
	}
	for _, wid := range workerIDs {
		ind.Routes[wid] = nil
		ind.Repairs[wid] = make([]bool, lMax)
	}
	return ind
}

// Clone returns a deep copy.
func (ind *Individual) Clone() *Individual {
	c := &Individual{
		WorkerIDs:  append([]int(nil), ind.WorkerIDs...),
		NumTasks:   ind.NumTasks,
		LMax:       ind.LMax,
		Routes:     make(map[int][]int, len(ind.Routes)),
		Repairs:    make(map[int][]bool, len(ind.Repairs)),
		Objectives: append([]float64(nil), ind.Objectives...),
	}
	for wid, route := range ind.Routes {
		c.Routes[wid] = append([]int(nil), route...)
	}
	for wid, flags := range ind.Repairs {
		c.Repairs[wid] = append([]bool(nil), flags...)
	}
	return c
}

// TaskIDs returns every task id across every worker's route, in worker-id
// then within-route order.
func (ind *Individual) TaskIDs() []int {
	var ids []int
	for _, wid := range ind.WorkerIDs {
		ids = append(ids, ind.Routes[wid]...)
	}
	return ids
}

// CountTasksPerWorker returns, for each worker id, the length of its route.
func (ind *Individual) CountTasksPerWorker() map[int]int {
	counts := make(map[int]int, len(ind.WorkerIDs))
	for _, wid := range ind.WorkerIDs {
		counts[wid] = len(ind.Routes[wid])
	}
	return counts
}

// CheckTaskCoverage reports whether every task in 0..NumTasks-1 appears in
// exactly one worker's route.
func (ind *Individual) CheckTaskCoverage() bool {
	ids := ind.TaskIDs()
	if len(ids) != ind.NumTasks {
		return false
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			return false
		}
	}
	return true
}
