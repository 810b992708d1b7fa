package taskorder

import "math/rand"

func assignTasksRoundRobin(workerIDs []int, numTasks int, rng *rand.Rand) map[int][]int {
	taskIDs := make([]int, numTasks)
	for i := range taskIDs {
		taskIDs[i] = i
	}
	rng.Shuffle(len(taskIDs), func(i, j int) { taskIDs[i], taskIDs[j] = taskIDs[j], taskIDs[i] })

	routes := make(map[int][]int, len(workerIDs))
	for _, wid := range workerIDs {
		routes[wid] = nil
	}
	n := len(workerIDs)
	for i, t := range taskIDs {
		wid := workerIDs[i%n]
		routes[wid] = append(routes[wid], t)
	}
	for _, wid := range workerIDs {
		rng.Shuffle(len(routes[wid]), func(i, j int) { routes[wid][i], routes[wid][j] = routes[wid][j], routes[wid][i] })
	}
	return routes
}

func randomRepairFlags(workerIDs []int, lMax int, rng *rand.Rand, repairProb float64) map[int][]bool {
	repairs := make(map[int][]bool, len(workerIDs))
	for _, wid := range workerIDs {
		flags := make([]bool, lMax)
		for i := range flags {
			flags[i] = rng.Float64() < repairProb
		}
		repairs[wid] = flags
	}
	return repairs
}

// RandomIndividual builds one individual with tasks assigned round-robin
// (in shuffled order, then per-worker route order shuffled) and random
// repair flags.
func RandomIndividual(workerIDs []int, numTasks, lMax int, rng *rand.Rand, repairProb float64) *Individual {
	routes := assignTasksRoundRobin(workerIDs, numTasks, rng)
	repairs := randomRepairFlags(workerIDs, lMax, rng, repairProb)
	ind, err := NewIndividual(workerIDs, numTasks, lMax, routes, repairs)
	if err != nil {
		panic(err) // construction here is internally consistent by design
	}
	return ind
}

// RandomPopulation builds n independently-random individuals.
func RandomPopulation(n int, workerIDs []int, numTasks, lMax int, rng *rand.Rand, repairProb float64) []*Individual {
	pop := make([]*Individual, n)
	for i := range pop {
		pop[i] = RandomIndividual(workerIDs, numTasks, lMax, rng, repairProb)
	}
	return pop
}
