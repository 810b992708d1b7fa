package planner

import (
	"math"
	"math/rand"

	"fleetsim/sim"
)

// EvaluateFunc scores an individual with two objectives, both minimized.
type EvaluateFunc func(*Individual) []float64

// NSGA2 is a standard NSGA-II multi-objective genetic algorithm operating
// over configuration Individuals.
type NSGA2 struct {
	NumWorkersMax int
	PopSize       int
	Generations   int
	Evaluate      EvaluateFunc
	RNG           *rand.Rand

	RobotTypes map[string]sim.RobotTypeSpec
	DepotStock map[string]int

	CxMethod          CrossoverMethod
	PCx               float64
	SwapProb          float64
	PMutGene          float64
	PActivateFromNone float64
	PDeactivateToNone float64
	PNoneInit         float64
}

type scored struct {
	ind      *Individual
	rank     int
	distance float64
}

// dominates reports whether a strictly dominates b (a is no worse in every
// objective and strictly better in at least one), for minimization.
func dominates(a, b []float64) bool {
	betterInAny := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			betterInAny = true
		}
	}
	return betterInAny
}

func fastNonDominatedSort(pop []*scored) [][]*scored {
	n := len(pop)
	dominated := make([][]int, n)
	dominationCount := make([]int, n)

	var fronts [][]*scored
	front0 := []int{}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(pop[i].ind.Objectives, pop[j].ind.Objectives) {
				dominated[i] = append(dominated[i], j)
			} else if dominates(pop[j].ind.Objectives, pop[i].ind.Objectives) {
				dominationCount[i]++
			}
		}
		if dominationCount[i] == 0 {
			pop[i].rank = 0
			front0 = append(front0, i)
		}
	}

	current := front0
	rank := 0
	for len(current) > 0 {
		var frontInds []*scored
		var next []int
		for _, i := range current {
			frontInds = append(frontInds, pop[i])
			for _, j := range dominated[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					pop[j].rank = rank + 1
					next = append(next, j)
				}
			}
		}
		fronts = append(fronts, frontInds)
		current = next
		rank++
	}

	return fronts
}

func crowdingDistance(front []*scored) {
	n := len(front)
	if n == 0 {
		return
	}
	for _, s := range front {
		s.distance = 0
	}
	if n <= 2 {
		for _, s := range front {
			s.distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].ind.Objectives)
	for m := 0; m < numObjectives; m++ {
		sorted := append([]*scored(nil), front...)
		sortByObjective(sorted, m)

		sorted[0].distance = math.Inf(1)
		sorted[n-1].distance = math.Inf(1)

		fmin := sorted[0].ind.Objectives[m]
		fmax := sorted[n-1].ind.Objectives[m]
		span := fmax - fmin
		if span <= 0 {
			continue
		}
		for i := 1; i < n-1; i++ {
			if math.IsInf(sorted[i].distance, 1) {
				continue
			}
			sorted[i].distance += (sorted[i+1].ind.Objectives[m] - sorted[i-1].ind.Objectives[m]) / span
		}
	}
}

func sortByObjective(s []*scored, obj int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].ind.Objectives[obj] > s[j].ind.Objectives[obj]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// crowdedBetter implements the NSGA-II partial order: lower rank wins, ties
// broken by larger crowding distance.
func crowdedBetter(a, b *scored) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.distance > b.distance
}

func (n *NSGA2) tournamentSelect(pop []*scored) *Individual {
	a := pop[n.RNG.Intn(len(pop))]
	b := pop[n.RNG.Intn(len(pop))]
	if crowdedBetter(a, b) {
		return a.ind
	}
	return b.ind
}

// Run executes the full NSGA-II generational loop and returns the first
// (best) Pareto front of the final population.
func (n *NSGA2) Run() []*Individual {
	pop := RandomPopulation(n.PopSize, n.NumWorkersMax, n.RobotTypes, n.DepotStock, n.RNG, n.PNoneInit)
	for _, ind := range pop {
		ind.Objectives = n.Evaluate(ind)
	}

	for gen := 0; gen < n.Generations; gen++ {
		scoredPop := scorePopulation(pop)
		fronts := fastNonDominatedSort(scoredPop)
		for _, f := range fronts {
			crowdingDistance(f)
		}

		offspring := make([]*Individual, 0, n.PopSize)
		for len(offspring) < n.PopSize {
			p1 := n.tournamentSelect(scoredPop)
			p2 := n.tournamentSelect(scoredPop)

			c1, c2, err := Crossover(p1, p2, n.RNG, n.CxMethod, n.PCx, n.SwapProb)
			if err != nil {
				c1, c2 = p1.Clone(), p2.Clone()
			}
			c1 = Mutate(c1, n.RNG, n.RobotTypes, 1.0, n.PMutGene, n.PActivateFromNone, n.PDeactivateToNone)
			c2 = Mutate(c2, n.RNG, n.RobotTypes, 1.0, n.PMutGene, n.PActivateFromNone, n.PDeactivateToNone)
			c1.Objectives = n.Evaluate(c1)
			c2.Objectives = n.Evaluate(c2)
			offspring = append(offspring, c1, c2)
		}
		offspring = offspring[:n.PopSize]

		combined := append(append([]*Individual(nil), pop...), offspring...)
		pop = n.selectNextGeneration(combined)
	}

	scoredPop := scorePopulation(pop)
	fronts := fastNonDominatedSort(scoredPop)
	if len(fronts) == 0 {
		return nil
	}
	front0 := make([]*Individual, len(fronts[0]))
	for i, s := range fronts[0] {
		front0[i] = s.ind
	}
	return front0
}

func scorePopulation(pop []*Individual) []*scored {
	out := make([]*scored, len(pop))
	for i, ind := range pop {
		out[i] = &scored{ind: ind}
	}
	return out
}

// selectNextGeneration fills a new population of size PopSize from combined
// by taking whole fronts in order until the next front would overflow, then
// filling the remainder by crowding distance within that front.
func (n *NSGA2) selectNextGeneration(combined []*Individual) []*Individual {
	scoredPop := scorePopulation(combined)
	fronts := fastNonDominatedSort(scoredPop)

	next := make([]*Individual, 0, n.PopSize)
	for _, front := range fronts {
		crowdingDistance(front)
		if len(next)+len(front) <= n.PopSize {
			for _, s := range front {
				next = append(next, s.ind)
			}
			continue
		}
		remaining := n.PopSize - len(next)
		sortByCrowding(front)
		for i := 0; i < remaining; i++ {
			next = append(next, front[i].ind)
		}
		break
	}
	return next
}

func sortByCrowding(s []*scored) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].distance < s[j].distance; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
