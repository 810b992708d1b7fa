package planner

import (
	"math/rand"
	"sort"

	"fleetsim/sim"
)

// Mutate returns a mutated copy of individual, consulting robotTypes for the
// set of types a "none" gene may activate into. pMutInd gates whether
// mutation happens at all; pMutGene gates each gene independently; an
// inactive ("") gene activates into a random type with probability
// pActivateFromNone; an active gene deactivates with probability
// pDeactivateToNone, else reassigns to a random different type (keeping its
// type when no other type exists).
func Mutate(individual *Individual, rng *rand.Rand, robotTypes map[string]sim.RobotTypeSpec, pMutInd, pMutGene, pActivateFromNone, pDeactivateToNone float64) *Individual {
	if rng.Float64() >= pMutInd {
		return individual.Clone()
	}

	allTypes := make([]string, 0, len(robotTypes))
	for t := range robotTypes {
		allTypes = append(allTypes, t)
	}
	sort.Strings(allTypes)
	if len(allTypes) == 0 {
		return individual.Clone()
	}

	g := append([]string(nil), individual.WorkerTypes...)
	for i, cur := range g {
		if rng.Float64() >= pMutGene {
			continue
		}
		if cur == "" {
			if rng.Float64() < pActivateFromNone {
				g[i] = allTypes[rng.Intn(len(allTypes))]
			}
			continue
		}
		if rng.Float64() < pDeactivateToNone {
			g[i] = ""
		} else {
			others := make([]string, 0, len(allTypes))
			for _, t := range allTypes {
				if t != cur {
					others = append(others, t)
				}
			}
			if len(others) > 0 {
				g[i] = others[rng.Intn(len(others))]
			}
		}
	}
	return FromWorkerTypes(g)
}
