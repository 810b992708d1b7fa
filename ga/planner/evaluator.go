package planner

import (
	"math"

	"fleetsim/sim"
)

// ConfigurationEvaluator scores a configuration Individual against a
// sim.Model with two objectives, both to be minimized:
//
//  1. negated total nominal performance (sum of speed+throughput over every
//     declared worker type) — minimizing the negation maximizes capability.
//  2. negated minimum post-allocation module reserve across types —
//     minimizing the negation maximizes the worst-case spare stock.
//
// A configuration that would exceed depot capacity, or that declares no
// worker at all, is assigned WorstObjectives.
type ConfigurationEvaluator struct {
	Model           *sim.Model
	WorstObjectives [2]float64
}

// NewConfigurationEvaluator builds an evaluator with the conventional
// +Inf/+Inf worst-case objective pair.
func NewConfigurationEvaluator(model *sim.Model) *ConfigurationEvaluator {
	return &ConfigurationEvaluator{Model: model, WorstObjectives: [2]float64{math.Inf(1), math.Inf(1)}}
}

// Evaluate returns [obj1, obj2] per the scheme above.
func (e *ConfigurationEvaluator) Evaluate(ind *Individual) []float64 {
	if e.violatesDepotCapacity(ind) || e.violatesAllNone(ind) {
		return []float64{e.WorstObjectives[0], e.WorstObjectives[1]}
	}

	totalNominal := 0.0
	for _, rt := range ind.WorkerTypes {
		if rt == "" {
			continue
		}
		spec, ok := e.Model.RobotTypes[rt]
		if !ok {
			continue
		}
		totalNominal += spec.Speed + spec.Throughput
	}

	reserveVariation := e.reserveVariationMinRemain(ind)

	return []float64{-totalNominal, -reserveVariation}
}

// computeNeedTotal sums, per module type, the additional modules needed to
// realize ind: the deficit against current holdings for workers that
// already exist and are alive, or the full requirement for workers that
// would need to be created from scratch.
func (e *ConfigurationEvaluator) computeNeedTotal(ind *Individual) map[string]int {
	need := make(map[string]int)
	for i, desired := range ind.WorkerTypes {
		if desired == "" {
			continue
		}
		spec, ok := e.Model.RobotTypes[desired]
		if !ok {
			continue
		}

		w, alive := e.Model.Workers[i]
		if alive {
			have := w.ModuleCounts()
			for t, req := range spec.RequiredModules {
				if deficit := req - have[t]; deficit > 0 {
					need[t] += deficit
				}
			}
		} else {
			for t, req := range spec.RequiredModules {
				need[t] += req
			}
		}
	}
	return need
}

func (e *ConfigurationEvaluator) reserveVariationMinRemain(ind *Individual) float64 {
	stock := e.Model.Depot.CountByType()
	need := e.computeNeedTotal(ind)

	minRemain := math.Inf(1)
	for t, have := range stock {
		remain := have - need[t]
		if remain < 0 {
			remain = 0
		}
		if remain < minRemain {
			minRemain = remain
		}
	}
	if math.IsInf(minRemain, 1) {
		return 0
	}
	return minRemain
}

func (e *ConfigurationEvaluator) violatesDepotCapacity(ind *Individual) bool {
	stock := e.Model.Depot.CountByType()
	need := e.computeNeedTotal(ind)
	for t, n := range need {
		if stock[t] < n {
			return true
		}
	}
	return false
}

func (e *ConfigurationEvaluator) violatesAllNone(ind *Individual) bool {
	for _, rt := range ind.WorkerTypes {
		if rt != "" {
			return false
		}
	}
	return true
}
