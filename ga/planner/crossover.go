package planner

import (
	"fmt"
	"math/rand"
)

// CrossoverMethod selects the gene-mixing strategy used by Crossover.
type CrossoverMethod string

const (
	OnePointCrossover CrossoverMethod = "one_point"
	UniformCrossover  CrossoverMethod = "uniform"
)

// Crossover produces two children from two parents using the named method.
// With probability 1-pCx no recombination occurs and copies of the parents
// are returned unchanged.
func Crossover(p1, p2 *Individual, rng *rand.Rand, method CrossoverMethod, pCx, swapProb float64) (*Individual, *Individual, error) {
	switch method {
	case OnePointCrossover:
		return onePointCrossover(p1, p2, rng, pCx)
	case UniformCrossover:
		return uniformCrossover(p1, p2, rng, pCx, swapProb)
	default:
		return nil, nil, fmt.Errorf("planner: unknown crossover method %q", method)
	}
}

func onePointCrossover(p1, p2 *Individual, rng *rand.Rand, pCx float64) (*Individual, *Individual, error) {
	if p1.NumWorkersMax != p2.NumWorkersMax {
		return nil, nil, fmt.Errorf("planner: parents have different num_workers_max")
	}
	n := p1.NumWorkersMax
	if n <= 1 || rng.Float64() >= pCx {
		return p1.Clone(), p2.Clone(), nil
	}

	cut := 1 + rng.Intn(n-1)
	c1 := append(append([]string(nil), p1.WorkerTypes[:cut]...), p2.WorkerTypes[cut:]...)
	c2 := append(append([]string(nil), p2.WorkerTypes[:cut]...), p1.WorkerTypes[cut:]...)
	return FromWorkerTypes(c1), FromWorkerTypes(c2), nil
}

func uniformCrossover(p1, p2 *Individual, rng *rand.Rand, pCx, swapProb float64) (*Individual, *Individual, error) {
	if p1.NumWorkersMax != p2.NumWorkersMax {
		return nil, nil, fmt.Errorf("planner: parents have different num_workers_max")
	}
	if rng.Float64() >= pCx {
		return p1.Clone(), p2.Clone(), nil
	}

	n := p1.NumWorkersMax
	g1 := append([]string(nil), p1.WorkerTypes...)
	g2 := append([]string(nil), p2.WorkerTypes...)
	for i := 0; i < n; i++ {
		if rng.Float64() < swapProb {
			g1[i], g2[i] = g2[i], g1[i]
		}
	}
	return FromWorkerTypes(g1), FromWorkerTypes(g2), nil
}
