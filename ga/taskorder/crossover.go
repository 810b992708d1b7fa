package taskorder

import "math/rand"

// Crossover produces a child individual from two parents: routes via an
// SREX-like swap-then-repair, repair flags via uniform crossover.
func Crossover(a, b *Individual, rng *rand.Rand) (*Individual, error) {
	childRoutes := srexLikeCrossoverRoutes(a, b, rng, 0.5)
	childRoutes = repairRouteFeasibility(childRoutes, a.WorkerIDs, a.NumTasks, a.LMax, rng)
	childRepairs := uniformCrossoverRepairs(a, b, rng)

	return NewIndividual(a.WorkerIDs, a.NumTasks, a.LMax, childRoutes, childRepairs)
}

func routeSimilarity(r1, r2 []int) int {
	set := make(map[int]struct{}, len(r2))
	for _, t := range r2 {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range r1 {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// srexLikeCrossoverRoutes selects a subset S of worker indices (each
// included independently with probability pSelect, or one at random if S
// would otherwise be empty) and, for each worker in S, replaces its route
// with the most-similar route from parent b — ties among equally-similar
// donor routes are broken by iterating candidates in an RNG-shuffled order
// and keeping the first maximal match seen.
func srexLikeCrossoverRoutes(a, b *Individual, rng *rand.Rand, pSelect float64) map[int][]int {
	workerIDs := a.WorkerIDs
	W := len(workerIDs)

	child := make(map[int][]int, W)
	for _, wid := range workerIDs {
		child[wid] = append([]int(nil), a.Routes[wid]...)
	}

	var selected []int
	for i := range workerIDs {
		if rng.Float64() < pSelect {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		selected = []int{rng.Intn(W)}
	}

	indices := make([]int, W)
	for i := range indices {
		indices[i] = i
	}

	for _, i := range selected {
		wid := workerIDs[i]
		baseRoute := a.Routes[wid]

		order := append([]int(nil), indices...)
		rng.Shuffle(len(order), func(x, y int) { order[x], order[y] = order[y], order[x] })

		bestK := order[0]
		bestSim := -1
		for _, k := range order {
			sim := routeSimilarity(baseRoute, b.Routes[workerIDs[k]])
			if sim > bestSim {
				bestSim = sim
				bestK = k
			}
		}
		child[wid] = append([]int(nil), b.Routes[workerIDs[bestK]]...)
	}

	return child
}

// repairRouteFeasibility restores a valid permutation: duplicate task
// occurrences across routes are collapsed to their last occurrence (by
// worker index then position), and tasks left unassigned are inserted, in
// shuffled order, into the shortest route with spare capacity under L_max
// (the first such in workerIDs order on ties; falling back to a random route
// if none has spare capacity) at a random position.
func repairRouteFeasibility(routes map[int][]int, workerIDs []int, numTasks, lMax int, rng *rand.Rand) map[int][]int {
	out := make(map[int][]int, len(workerIDs))
	for _, wid := range workerIDs {
		out[wid] = append([]int(nil), routes[wid]...)
	}

	type occurrence struct {
		widIdx, pos int
	}
	appearances := make([][]occurrence, numTasks)
	for wi, wid := range workerIDs {
		for pos, t := range out[wid] {
			if t >= 0 && t < numTasks {
				appearances[t] = append(appearances[t], occurrence{wi, pos})
			}
		}
	}

	for t := 0; t < numTasks; t++ {
		occs := appearances[t]
		if len(occs) <= 1 {
			continue
		}
		// keep the last occurrence, drop the rest; remove highest positions
		// first within each worker so earlier removals don't shift later ones.
		toRemove := occs[:len(occs)-1]
		byWorker := make(map[int][]int)
		for _, o := range toRemove {
			byWorker[o.widIdx] = append(byWorker[o.widIdx], o.pos)
		}
		for wi, positions := range byWorker {
			wid := workerIDs[wi]
			sortDesc(positions)
			route := out[wid]
			for _, pos := range positions {
				if pos >= 0 && pos < len(route) {
					route = append(route[:pos], route[pos+1:]...)
				}
			}
			out[wid] = route
		}
	}

	assigned := make(map[int]struct{}, numTasks)
	for _, wid := range workerIDs {
		for _, t := range out[wid] {
			assigned[t] = struct{}{}
		}
	}

	var unassigned []int
	for t := 0; t < numTasks; t++ {
		if _, ok := assigned[t]; !ok {
			unassigned = append(unassigned, t)
		}
	}
	rng.Shuffle(len(unassigned), func(i, j int) { unassigned[i], unassigned[j] = unassigned[j], unassigned[i] })

	for _, t := range unassigned {
		wid, found := 0, false
		for _, cand := range workerIDs {
			if len(out[cand]) < lMax && (!found || len(out[cand]) < len(out[wid])) {
				wid, found = cand, true
			}
		}
		if !found {
			wid = workerIDs[rng.Intn(len(workerIDs))]
		}
		pos := rng.Intn(len(out[wid]) + 1)
		route := out[wid]
		route = append(route, 0)
		copy(route[pos+1:], route[pos:])
		route[pos] = t
		out[wid] = route
	}

	return out
}

func sortDesc(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] < s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func uniformCrossoverRepairs(a, b *Individual, rng *rand.Rand) map[int][]bool {
	out := make(map[int][]bool, len(a.WorkerIDs))
	for _, wid := range a.WorkerIDs {
		flags := make([]bool, a.LMax)
		for l := 0; l < a.LMax; l++ {
			if rng.Float64() < 0.5 {
				flags[l] = a.Repairs[wid][l]
			} else {
				flags[l] = b.Repairs[wid][l]
			}
		}
		out[wid] = flags
	}
	return out
}
