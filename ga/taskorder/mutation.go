package taskorder

import "math/rand"

const (
	defaultPRouteSwap     = 0.40
	defaultPRouteInsert   = 0.35
	defaultPRouteExchange = 0.25
	defaultRepairFlipRate = 1.0
)

// Mutate destructively perturbs child with probability mutationRate: one
// route-layer operator (intra-worker swap, intra-worker remove-and-reinsert,
// or inter-worker task exchange, chosen by the p_route_* proportions) plus an
// expected repairFlipRate bit flips across the repair layer.
func Mutate(child *Individual, rng *rand.Rand, mutationRate float64) {
	if rng.Float64() >= mutationRate {
		return
	}
	mutateRoutes(child, rng, defaultPRouteSwap, defaultPRouteInsert, defaultPRouteExchange)
	mutateRepairs(child, rng, defaultRepairFlipRate)
}

func mutateRoutes(child *Individual, rng *rand.Rand, pSwap, pInsert, pExchange float64) {
	total := pSwap + pInsert + pExchange
	if total <= 0 {
		return
	}
	roll := rng.Float64() * total

	switch {
	case roll < pSwap:
		mutateIntraWorkerSwap(child, rng)
	case roll < pSwap+pInsert:
		mutateIntraWorkerRemoveInsert(child, rng)
	default:
		mutateInterWorkerExchange(child, rng)
	}
}

// candidateWorkersWithMinLen returns worker ids whose route has at least
// minLen tasks.
func candidateWorkersWithMinLen(child *Individual, minLen int) []int {
	var out []int
	for _, wid := range child.WorkerIDs {
		if len(child.Routes[wid]) >= minLen {
			out = append(out, wid)
		}
	}
	return out
}

func mutateIntraWorkerSwap(child *Individual, rng *rand.Rand) {
	candidates := candidateWorkersWithMinLen(child, 2)
	if len(candidates) == 0 {
		return
	}
	wid := candidates[rng.Intn(len(candidates))]
	route := child.Routes[wid]
	i := rng.Intn(len(route))
	j := rng.Intn(len(route))
	route[i], route[j] = route[j], route[i]
}

func mutateIntraWorkerRemoveInsert(child *Individual, rng *rand.Rand) {
	candidates := candidateWorkersWithMinLen(child, 1)
	if len(candidates) == 0 {
		return
	}
	wid := candidates[rng.Intn(len(candidates))]
	route := child.Routes[wid]
	i := rng.Intn(len(route))
	t := route[i]
	route = append(route[:i], route[i+1:]...)
	pos := rng.Intn(len(route) + 1)
	route = append(route, 0)
	copy(route[pos+1:], route[pos:])
	route[pos] = t
	child.Routes[wid] = route
}

func mutateInterWorkerExchange(child *Individual, rng *rand.Rand) {
	candidates := candidateWorkersWithMinLen(child, 1)
	if len(candidates) < 2 {
		return
	}
	wi := candidates[rng.Intn(len(candidates))]
	wj := candidates[rng.Intn(len(candidates))]
	if wi == wj {
		return
	}
	ri, rj := child.Routes[wi], child.Routes[wj]
	pi := rng.Intn(len(ri))
	pj := rng.Intn(len(rj))
	ri[pi], rj[pj] = rj[pj], ri[pi]
}

func mutateRepairs(child *Individual, rng *rand.Rand, flipRate float64) {
	total := 0
	for _, wid := range child.WorkerIDs {
		total += len(child.Repairs[wid])
	}
	if total == 0 {
		return
	}
	pFlip := flipRate / float64(total)
	for _, wid := range child.WorkerIDs {
		flags := child.Repairs[wid]
		for i := range flags {
			if rng.Float64() < pFlip {
				flags[i] = !flags[i]
			}
		}
	}
}
