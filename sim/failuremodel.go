package sim

import "math"

// Action names the kind of activity a module's fatigue accrues from.
type Action int

const (
	ActionMove Action = iota
	ActionWork
)

// FailureModel maps cumulative fatigue to failure probability, and names the
// per-action fatigue accrual rate for each module type.
type FailureModel interface {
	// Fatigue returns the module-type -> rate map for the given action.
	Fatigue(action Action) map[string]float64
	// FailureProb is the cumulative failure probability at fatigue H, in [0,1].
	FailureProb(H float64) float64
	// FailureProbStep is P(fail this step | survived to H), given a fatigue
	// increment deltaH accrued during the step.
	FailureProbStep(H, deltaH float64) float64
}

// WeibullFailureModel is the reference failure model: F(x) = 1 - exp(-(x/Lambda)^K).
type WeibullFailureModel struct {
	Lambda      float64
	K           float64
	FatigueMove map[string]float64
	FatigueWork map[string]float64
}

func (w *WeibullFailureModel) Fatigue(action Action) map[string]float64 {
	switch action {
	case ActionMove:
		return w.FatigueMove
	case ActionWork:
		return w.FatigueWork
	default:
		panic("sim: unknown action")
	}
}

func (w *WeibullFailureModel) cdf(x float64) float64 {
	if x <= 0 || w.Lambda <= 0 || w.K <= 0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow(x/w.Lambda, w.K))
}

func (w *WeibullFailureModel) FailureProb(H float64) float64 {
	return w.cdf(H)
}

func (w *WeibullFailureModel) FailureProbStep(H, deltaH float64) float64 {
	if deltaH <= 0 || w.Lambda <= 0 || w.K <= 0 {
		return 0
	}
	fOld := w.cdf(H)
	if fOld >= 1.0 {
		return 1.0
	}
	fNew := w.cdf(H + deltaH)
	return (fNew - fOld) / (1.0 - fOld)
}

// PoissonBinomialPMF computes, via the standard O(n^2) DP, the distribution
// over the number of successes (survivals) among independent Bernoulli trials
// with success probabilities ps. The returned slice has length len(ps)+1 and
// sums to 1 (within floating-point error).
func PoissonBinomialPMF(ps []float64) []float64 {
	dp := []float64{1.0}
	for _, p := range ps {
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		next := make([]float64, len(dp)+1)
		for k, v := range dp {
			next[k] += v * (1 - p)
			next[k+1] += v * p
		}
		dp = next
	}
	return dp
}
