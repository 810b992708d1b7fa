package planner

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fleetsim/sim"
)

func TestSelectOneFromParetoChebyshev(t *testing.T) {
	Convey("Given a Pareto front spanning two objectives", t, func() {
		front := []*Individual{
			{Objectives: []float64{0, 10}},
			{Objectives: []float64{10, 0}},
			{Objectives: []float64{5, 5}},
		}

		Convey("Equal preference picks the balanced point", func() {
			chosen := selectOneFromParetoChebyshev(front, []float64{0.5, 0.5})
			So(chosen.Objectives, ShouldResemble, []float64{5.0, 5.0})
		})

		Convey("A heavily weighted first objective favors the point minimizing it", func() {
			chosen := selectOneFromParetoChebyshev(front, []float64{1.0, 0.0})
			So(chosen.Objectives[0], ShouldEqual, 0.0)
		})

		Convey("An empty front returns nil", func() {
			So(selectOneFromParetoChebyshev(nil, []float64{0.5, 0.5}), ShouldBeNil)
		})
	})
}

func TestHypervolume2DMin(t *testing.T) {
	Convey("Given a single dominating point and a reference corner", t, func() {
		front := [][2]float64{{1, 1}}
		ref := [2]float64{2, 2}

		Convey("The hypervolume is the dominated rectangle's area", func() {
			So(hypervolume2DMin(front, ref), ShouldEqual, 1.0)
		})

		Convey("A point outside the reference's dominated region contributes nothing", func() {
			So(hypervolume2DMin([][2]float64{{3, 3}}, ref), ShouldEqual, 0.0)
		})
	})
}

func TestGeneticPlannerBuildWorkers(t *testing.T) {
	Convey("Given a depot with spare modules and no existing workers", t, func() {
		depot, _ := sim.NewDepot(0, 0, []sim.Module{
			sim.NewModule(1, "wheel", 0, 0, 0),
		})
		model := &sim.Model{
			Depot:   depot,
			Workers: map[int]*sim.Worker{},
			RobotTypes: map[string]sim.RobotTypeSpec{
				"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}, Speed: 1, Throughput: 1},
			},
			Steps: 1,
		}

		p := &GeneticPlanner{}
		p.best = FromWorkerTypes([]string{"scout"})

		Convey("Applying a plan that declares worker 0 as scout spins up a new worker and reserves its module", func() {
			// Exercise the worker-roster application logic directly (case C),
			// bypassing ensurePlan's GA search which needs a full Logger/Planner setup.
			for i, desired := range p.best.WorkerTypes {
				spec := model.RobotTypes[desired]
				reserved, ok := model.Depot.Take(spec.RequiredModules)
				So(ok, ShouldBeTrue)
				model.Workers[i] = sim.NewWorker(i, model.Depot.X, model.Depot.Y, desired, reserved)
			}
			So(model.Workers[0].DeclaredType, ShouldEqual, "scout")
			So(model.Depot.CountByType()["wheel"], ShouldEqual, 0)
		})
	})
}
