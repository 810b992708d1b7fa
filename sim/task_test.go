package sim

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTaskLifecycle(t *testing.T) {
	Convey("Given a new task with remaining work", t, func() {
		task := NewTask(1, 0, 0, 10, 10)
		So(task.Status, ShouldEqual, TaskPending)

		Convey("A step with no worker contribution keeps it pending", func() {
			task.BeginStep()
			task.EndStep(1)
			So(task.Status, ShouldEqual, TaskPending)
		})

		Convey("A step with partial work transitions to in-progress", func() {
			task.BeginStep()
			task.AddWork(4)
			task.EndStep(1)
			So(task.Status, ShouldEqual, TaskInProgress)
			So(task.RemainingWork, ShouldEqual, 6)
		})

		Convey("Work that exceeds remaining work latches the task done", func() {
			task.BeginStep()
			task.AddWork(100)
			task.EndStep(5)
			So(task.Status, ShouldEqual, TaskDone)
			So(task.RemainingWork, ShouldEqual, 0)
			So(task.FinishedStep, ShouldEqual, 5)
		})

		Convey("A done task ignores further steps", func() {
			task.BeginStep()
			task.AddWork(100)
			task.EndStep(5)
			task.BeginStep()
			task.AddWork(50)
			task.EndStep(6)
			So(task.FinishedStep, ShouldEqual, 5)
		})
	})

	Convey("Given a task constructed with zero remaining work", t, func() {
		task := NewTask(2, 0, 0, 10, 0)
		Convey("It is immediately done", func() {
			So(task.Status, ShouldEqual, TaskDone)
			So(task.FinishedStep, ShouldEqual, 0)
		})
	})
}
