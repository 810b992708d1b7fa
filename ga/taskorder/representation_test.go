package taskorder

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewIndividual(t *testing.T) {
	Convey("Given worker ids and a full task permutation split across them", t, func() {
		workerIDs := []int{1, 2}
		routes := map[int][]int{1: {0, 2}, 2: {1}}

		Convey("A valid partition constructs successfully", func() {
			ind, err := NewIndividual(workerIDs, 3, 2, routes, nil)
			So(err, ShouldBeNil)
			So(ind.CheckTaskCoverage(), ShouldBeTrue)
			So(ind.Repairs[1], ShouldResemble, []bool{false, false})
		})

		Convey("A duplicate worker id is rejected", func() {
			_, err := NewIndividual([]int{1, 1}, 3, 2, routes, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("A route that skips a task id fails coverage", func() {
			bad := map[int][]int{1: {0, 2}, 2: {2}}
			_, err := NewIndividual(workerIDs, 3, 2, bad, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("A repairs slice of the wrong length is rejected", func() {
			repairs := map[int][]bool{1: {true}}
			_, err := NewIndividual(workerIDs, 3, 2, routes, repairs)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEmptyIndividual(t *testing.T) {
	Convey("Given Empty with no tasks", t, func() {
		ind := Empty([]int{1, 2}, 0, 4)
		Convey("It trivially satisfies task coverage", func() {
			So(ind.CheckTaskCoverage(), ShouldBeTrue)
			So(ind.CountTasksPerWorker(), ShouldResemble, map[int]int{1: 0, 2: 0})
		})
	})
}

func TestIndividualClone(t *testing.T) {
	Convey("Given an individual with routes and repair flags", t, func() {
		ind, err := NewIndividual([]int{1}, 1, 2, map[int][]int{1: {0}}, map[int][]bool{1: {true, false}})
		So(err, ShouldBeNil)
		ind.Objectives = []float64{42}

		Convey("Clone produces an independent deep copy", func() {
			c := ind.Clone()
			c.Routes[1][0] = 99
			c.Repairs[1][0] = false
			c.Objectives[0] = 0

			So(ind.Routes[1][0], ShouldEqual, 0)
			So(ind.Repairs[1][0], ShouldBeTrue)
			So(ind.Objectives[0], ShouldEqual, 42)
		})
	})
}
