package planner

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fleetsim/sim"
)

func TestRandomIndividualFeasibility(t *testing.T) {
	Convey("Given a robot type and a limited depot stock", t, func() {
		rng := rand.New(rand.NewSource(2))
		robotTypes := map[string]sim.RobotTypeSpec{
			"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}},
		}
		stock := map[string]int{"wheel": 3}

		Convey("RandomIndividual always returns a feasible configuration", func() {
			for i := 0; i < 20; i++ {
				ind := RandomIndividual(5, robotTypes, stock, rng, 0.3)
				So(ind.IsFeasible(robotTypes, stock), ShouldBeTrue)
			}
		})
	})

	Convey("Given zero depot stock", t, func() {
		rng := rand.New(rand.NewSource(2))
		robotTypes := map[string]sim.RobotTypeSpec{
			"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}},
		}
		stock := map[string]int{}

		Convey("RandomIndividual falls back to the empty configuration", func() {
			ind := RandomIndividual(4, robotTypes, stock, rng, 0.0)
			So(ind.ActiveWorkerIDs(), ShouldBeEmpty)
		})
	})
}

func TestRandomPopulationSize(t *testing.T) {
	Convey("Given a population size request", t, func() {
		rng := rand.New(rand.NewSource(2))
		robotTypes := map[string]sim.RobotTypeSpec{
			"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}},
		}
		pop := RandomPopulation(10, 4, robotTypes, map[string]int{"wheel": 4}, rng, 0.5)

		Convey("It returns exactly that many individuals", func() {
			So(len(pop), ShouldEqual, 10)
		})
	})
}
