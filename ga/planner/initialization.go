package planner

import (
	"math/rand"
	"sort"

	"fleetsim/sim"
)

const defaultMaxRetry = 2000

// RandomIndividual builds a configuration that is feasible against
// depotStock, visiting the worker slots in shuffled order and retrying from
// scratch up to defaultMaxRetry times before falling back to the empty
// (all-workers-unused) configuration.
func RandomIndividual(numWorkersMax int, robotTypes map[string]sim.RobotTypeSpec, depotStock map[string]int, rng *rand.Rand, pNone float64) *Individual {
	allTypes := make([]string, 0, len(robotTypes))
	for t := range robotTypes {
		allTypes = append(allTypes, t)
	}
	sort.Strings(allTypes)

	canAdd := func(rt string, stock map[string]int) bool {
		for t, need := range robotTypes[rt].RequiredModules {
			if stock[t] < need {
				return false
			}
		}
		return true
	}
	consume := func(rt string, stock map[string]int) {
		for t, need := range robotTypes[rt].RequiredModules {
			stock[t] -= need
		}
	}

	for attempt := 0; attempt < defaultMaxRetry; attempt++ {
		stockLocal := make(map[string]int, len(depotStock))
		for t, n := range depotStock {
			stockLocal[t] = n
		}
		genes := make([]string, numWorkersMax)

		for _, i := range rng.Perm(numWorkersMax) {
			if rng.Float64() < pNone {
				continue
			}
			var feasible []string
			for _, rt := range allTypes {
				if canAdd(rt, stockLocal) {
					feasible = append(feasible, rt)
				}
			}
			if len(feasible) == 0 {
				continue
			}
			rt := feasible[rng.Intn(len(feasible))]
			genes[i] = rt
			consume(rt, stockLocal)
		}

		ind := FromWorkerTypes(genes)
		if ind.IsFeasible(robotTypes, depotStock) {
			return ind
		}
	}

	return Empty(numWorkersMax)
}

// RandomPopulation builds n feasible-or-empty individuals.
func RandomPopulation(n, numWorkersMax int, robotTypes map[string]sim.RobotTypeSpec, depotStock map[string]int, rng *rand.Rand, pNone float64) []*Individual {
	pop := make([]*Individual, n)
	for i := range pop {
		pop[i] = RandomIndividual(numWorkersMax, robotTypes, depotStock, rng, pNone)
	}
	return pop
}
