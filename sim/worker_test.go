package sim

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testModel(seed int64) *Model {
	return &Model{
		Space: Space{Width: 100, Height: 100},
		RobotTypes: map[string]RobotTypeSpec{
			"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}, Speed: 1.0, Throughput: 1.0},
		},
		TypePriority: map[string]int{"scout": 0},
		FailureModel: &WeibullFailureModel{Lambda: 1000, K: 2.0},
		TimeStep:     1.0,
		RNG:          rand.New(rand.NewSource(seed)),
		Logger:       &nopLogger{},
	}
}

type nopLogger struct{}

func (n *nopLogger) Warnf(format string, args ...interface{})  {}
func (n *nopLogger) Fatalf(format string, args ...interface{}) { panic("fatal: " + format) }

func TestWorkerStepWork(t *testing.T) {
	Convey("Given a worker assigned to a task it can already reach", t, func() {
		model := testModel(1)
		model.Tasks = map[int]*Task{1: NewTask(1, 0, 0, 10, 10)}

		worker := NewWorker(1, 0, 0, "scout", []Module{NewModule(1, "wheel", 0, 0, 0)})
		worker.Mode = WorkerWork
		worker.TargetTaskID = 1

		Convey("It contributes work to the task this step", func() {
			worker.Step(model)
			So(model.Tasks[1].stepWork, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a worker whose target task is already done", t, func() {
		model := testModel(1)
		task := NewTask(1, 0, 0, 10, 0)
		model.Tasks = map[int]*Task{1: task}

		worker := NewWorker(1, 0, 0, "scout", nil)
		worker.Mode = WorkerWork
		worker.TargetTaskID = 1

		Convey("It falls back to idle", func() {
			worker.Step(model)
			So(worker.Mode, ShouldEqual, WorkerIdle)
			So(worker.TargetTaskID, ShouldEqual, -1)
		})
	})
}

func TestWorkerReconstructionCycle(t *testing.T) {
	Convey("Given a worker missing a required module, heading to the depot", t, func() {
		model := testModel(1)
		model.Tasks = map[int]*Task{}
		model.ReconstructDuration = 1.0
		depot, err := NewDepot(0, 0, []Module{NewModule(1, "wheel", 0, 0, 0)})
		So(err, ShouldBeNil)
		model.Depot = depot

		worker := NewWorker(1, 0, 0, "scout", nil)
		worker.Mode = WorkerGoReconstruction

		Convey("Arriving at the depot acquires the deficit and completes reconstruction", func() {
			worker.Step(model)
			So(worker.Mode, ShouldEqual, WorkerIdle)
			So(len(worker.Modules), ShouldEqual, 1)
			So(worker.Modules[0].Type, ShouldEqual, "wheel")

			counts := depot.CountByType()
			So(counts["wheel"], ShouldEqual, 0)
		})
	})

	Convey("Given a worker with excess modules beyond its declared type's requirements", t, func() {
		model := testModel(1)
		model.Tasks = map[int]*Task{}
		model.ReconstructDuration = 1.0
		depot, err := NewDepot(0, 0, nil)
		So(err, ShouldBeNil)
		model.Depot = depot

		worker := NewWorker(1, 0, 0, "scout", []Module{
			NewModule(1, "wheel", 0, 0, 0),
			NewModule(2, "wheel", 0, 0, 5),
		})
		worker.Mode = WorkerGoReconstruction

		Convey("The higher-fatigue excess module is returned to the depot", func() {
			worker.Step(model)
			So(len(worker.Modules), ShouldEqual, 1)
			counts := depot.CountByType()
			So(counts["wheel"], ShouldEqual, 1)
		})
	})
}

func TestWorkerRollFailures(t *testing.T) {
	Convey("Given a worker with a module guaranteed to fail this step", t, func() {
		model := testModel(1)
		model.FailureModel = &WeibullFailureModel{Lambda: 1, K: 1, FatigueWork: map[string]float64{"wheel": 1.0}}

		worker := NewWorker(1, 0, 0, "scout", []Module{NewModule(1, "wheel", 0, 0, 1e6)})
		worker.Modules[0].DH = 1e6

		Convey("The module is dropped from the worker", func() {
			worker.rollFailures(model)
			So(len(worker.Modules), ShouldEqual, 0)
		})
	})

	Convey("Given a worker that spent the step in reconstruction", t, func() {
		model := testModel(1)
		worker := NewWorker(1, 0, 0, "scout", []Module{NewModule(1, "wheel", 0, 0, 0)})
		worker.Modules[0].DH = 50
		worker.wasReconstructingThisStep = true

		Convey("Its accrued fatigue is discarded rather than rolled", func() {
			worker.rollFailures(model)
			So(len(worker.Modules), ShouldEqual, 1)
			So(worker.Modules[0].DH, ShouldEqual, 0)
		})
	})
}
