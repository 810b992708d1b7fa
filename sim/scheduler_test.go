package sim

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeCollector struct {
	calls int
}

func (f *fakeCollector) CollectStep(step int, tasks map[int]*Task) error {
	f.calls++
	return nil
}

func TestModelRun(t *testing.T) {
	Convey("Given a model with one worker and one small task", t, func() {
		depot, err := NewDepot(0, 0, nil)
		So(err, ShouldBeNil)

		task := NewTask(1, 0, 0, 1, 1)
		worker := NewWorker(1, 0, 0, "scout", []Module{NewModule(1, "wheel", 0, 0, 0)})
		worker.Mode = WorkerWork
		worker.TargetTaskID = 1

		collector := &fakeCollector{}

		model := &Model{
			Space:        Space{Width: 10, Height: 10},
			Depot:        depot,
			Workers:      map[int]*Worker{1: worker},
			Tasks:        map[int]*Task{1: task},
			FailureModel: &WeibullFailureModel{Lambda: 1e9, K: 2.0},
			RobotTypes: map[string]RobotTypeSpec{
				"scout": {Name: "scout", RequiredModules: map[string]int{"wheel": 1}, Speed: 1, Throughput: 1},
			},
			TypePriority:  map[string]int{"scout": 0},
			TimeStep:      1.0,
			MaxSteps:      10,
			RNG:           rand.New(rand.NewSource(1)),
			StepCollector: collector,
			Logger:        &nopLogger{},
		}

		Convey("Run steps until the task completes, and reports it via Makespan", func() {
			model.Run()
			So(model.AllTasksDone(), ShouldBeTrue)
			So(model.Steps, ShouldBeLessThan, 10)
			So(model.Makespan(), ShouldBeGreaterThan, 0)
			So(collector.calls, ShouldEqual, model.Steps)
		})
	})

	Convey("Given a model whose task can never finish within MaxSteps", t, func() {
		depot, err := NewDepot(0, 0, nil)
		So(err, ShouldBeNil)

		task := NewTask(1, 0, 0, 1e9, 1e9)
		model := &Model{
			Depot:         depot,
			Workers:       map[int]*Worker{},
			Tasks:         map[int]*Task{1: task},
			FailureModel:  &WeibullFailureModel{Lambda: 1e9, K: 2.0},
			TimeStep:      1.0,
			MaxSteps:      3,
			RNG:           rand.New(rand.NewSource(1)),
			Logger:        &nopLogger{},
		}

		Convey("Makespan falls back to MaxSteps*TimeStep", func() {
			model.Run()
			So(model.Steps, ShouldEqual, 3)
			So(model.Makespan(), ShouldEqual, 3.0)
		})
	})
}
