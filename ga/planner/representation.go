// Package planner implements the NSGA-II multi-objective genetic algorithm
// that decides the robot fleet's configuration (which workers exist and
// what robot type each is declared as), and the sim.ConfigurationPlanner
// that enacts the chosen configuration against a sim.Model.
package planner

import "fleetsim/sim"

// Individual is a worker-type vector: WorkerTypes[i] names the robot type
// worker i should be declared as, or "" to mean "do not use this worker".
type Individual struct {
	NumWorkersMax int
	WorkerTypes   []string

	Objectives []float64
}

// Empty builds an individual with every worker unused.
func Empty(numWorkersMax int) *Individual {
	return &Individual{NumWorkersMax: numWorkersMax, WorkerTypes: make([]string, numWorkersMax)}
}

// FromWorkerTypes builds an individual directly from a gene vector.
func FromWorkerTypes(workerTypes []string) *Individual {
	return &Individual{NumWorkersMax: len(workerTypes), WorkerTypes: append([]string(nil), workerTypes...)}
}

// Clone returns a deep copy.
func (ind *Individual) Clone() *Individual {
	return &Individual{
		NumWorkersMax: ind.NumWorkersMax,
		WorkerTypes:   append([]string(nil), ind.WorkerTypes...),
		Objectives:    append([]float64(nil), ind.Objectives...),
	}
}

// ActiveWorkerIDs returns the indices of workers with a non-empty type.
func (ind *Individual) ActiveWorkerIDs() []int {
	var ids []int
	for i, rt := range ind.WorkerTypes {
		if rt != "" {
			ids = append(ids, i)
		}
	}
	return ids
}

// CountRobotTypes tallies how many workers are declared as each type.
func (ind *Individual) CountRobotTypes() map[string]int {
	out := make(map[string]int)
	for _, rt := range ind.WorkerTypes {
		if rt != "" {
			out[rt]++
		}
	}
	return out
}

// TotalRequiredModules sums the module requirements of every declared
// worker type in the individual.
func (ind *Individual) TotalRequiredModules(robotTypes map[string]sim.RobotTypeSpec) map[string]int {
	total := make(map[string]int)
	for _, rt := range ind.WorkerTypes {
		if rt == "" {
			continue
		}
		spec := robotTypes[rt]
		for t, n := range spec.RequiredModules {
			total[t] += n
		}
	}
	return total
}

// Deficits returns, for each module type, how much short of
// TotalRequiredModules the given stock falls (omitted if zero).
func (ind *Individual) Deficits(robotTypes map[string]sim.RobotTypeSpec, stock map[string]int) map[string]int {
	total := ind.TotalRequiredModules(robotTypes)
	deficits := make(map[string]int)
	for t, need := range total {
		if have := stock[t]; have < need {
			deficits[t] = need - have
		}
	}
	return deficits
}

// IsFeasible reports whether stock can satisfy every declared worker's
// module requirements simultaneously.
func (ind *Individual) IsFeasible(robotTypes map[string]sim.RobotTypeSpec, stock map[string]int) bool {
	return len(ind.Deficits(robotTypes, stock)) == 0
}
