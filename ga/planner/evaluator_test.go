package planner

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fleetsim/sim"
)

func plannerEvalModel() *sim.Model {
	depot, _ := sim.NewDepot(0, 0, []sim.Module{
		sim.NewModule(1, "wheel", 0, 0, 0),
		sim.NewModule(2, "wheel", 0, 0, 0),
	})
	return &sim.Model{
		Depot:   depot,
		Workers: map[int]*sim.Worker{},
		RobotTypes: map[string]sim.RobotTypeSpec{
			"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}, Speed: 1, Throughput: 2},
		},
		RNG: rand.New(rand.NewSource(1)),
	}
}

func TestConfigurationEvaluator(t *testing.T) {
	Convey("Given a model with two spare wheel modules in the depot", t, func() {
		model := plannerEvalModel()
		evaluator := NewConfigurationEvaluator(model)

		Convey("A feasible single-worker configuration scores finite negated objectives", func() {
			ind := FromWorkerTypes([]string{"scout"})
			objectives := evaluator.Evaluate(ind)
			So(objectives[0], ShouldEqual, -3.0)
			So(objectives[1], ShouldEqual, -1.0)
		})

		Convey("A configuration exceeding depot capacity gets worst objectives", func() {
			ind := FromWorkerTypes([]string{"scout", "scout", "scout"})
			objectives := evaluator.Evaluate(ind)
			So(objectives, ShouldResemble, []float64{evaluator.WorstObjectives[0], evaluator.WorstObjectives[1]})
		})

		Convey("An all-none configuration gets worst objectives", func() {
			ind := Empty(3)
			objectives := evaluator.Evaluate(ind)
			So(objectives, ShouldResemble, []float64{evaluator.WorstObjectives[0], evaluator.WorstObjectives[1]})
		})
	})
}
