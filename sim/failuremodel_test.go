package sim

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWeibullFailureModel(t *testing.T) {
	Convey("Given a Weibull failure model", t, func() {
		w := &WeibullFailureModel{
			Lambda:      1000,
			K:           2.0,
			FatigueMove: map[string]float64{"arm": 1.0},
			FatigueWork: map[string]float64{"arm": 2.0},
		}

		Convey("Fatigue returns the per-action rate map", func() {
			So(w.Fatigue(ActionMove), ShouldResemble, map[string]float64{"arm": 1.0})
			So(w.Fatigue(ActionWork), ShouldResemble, map[string]float64{"arm": 2.0})
		})

		Convey("FailureProb is 0 at zero fatigue and increases monotonically", func() {
			So(w.FailureProb(0), ShouldEqual, 0)
			So(w.FailureProb(2000), ShouldBeGreaterThan, w.FailureProb(1000))
		})

		Convey("FailureProbStep is 0 when deltaH is 0", func() {
			So(w.FailureProbStep(500, 0), ShouldEqual, 0)
		})

		Convey("FailureProbStep returns 1 once prior cumulative failure probability saturates", func() {
			p := w.FailureProbStep(1e9, 10)
			So(p, ShouldEqual, 1.0)
		})

		Convey("Fatigue panics on an unknown action", func() {
			So(func() { w.Fatigue(Action(99)) }, ShouldPanic)
		})
	})
}

func TestPoissonBinomialPMF(t *testing.T) {
	Convey("Given a set of independent survival probabilities", t, func() {
		Convey("A single certain success concentrates all mass at k=1", func() {
			pmf := PoissonBinomialPMF([]float64{1.0})
			So(pmf, ShouldResemble, []float64{0.0, 1.0})
		})

		Convey("A single certain failure concentrates all mass at k=0", func() {
			pmf := PoissonBinomialPMF([]float64{0.0})
			So(pmf, ShouldResemble, []float64{1.0, 0.0})
		})

		Convey("The PMF over n trials always sums to 1", func() {
			pmf := PoissonBinomialPMF([]float64{0.3, 0.5, 0.9})
			sum := 0.0
			for _, p := range pmf {
				sum += p
			}
			So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			So(len(pmf), ShouldEqual, 4)
		})
	})
}
