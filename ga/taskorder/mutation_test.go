package taskorder

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMutatePreservesCoverage(t *testing.T) {
	Convey("Given a valid individual", t, func() {
		rng := rand.New(rand.NewSource(7))
		ind := RandomIndividual([]int{1, 2, 3}, 12, 4, rng, 0.3)

		Convey("Repeated mutation at full rate always leaves a valid task partition", func() {
			for i := 0; i < 50; i++ {
				Mutate(ind, rng, 1.0)
				So(ind.CheckTaskCoverage(), ShouldBeTrue)
			}
		})

		Convey("A mutation rate of 0 never perturbs the individual", func() {
			before := ind.Clone()
			Mutate(ind, rng, 0.0)
			So(ind.Routes, ShouldResemble, before.Routes)
			So(ind.Repairs, ShouldResemble, before.Repairs)
		})
	})
}
