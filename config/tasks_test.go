package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadTasksCSV(t *testing.T) {
	Convey("Given a tasks.csv asset", t, func() {
		dir := t.TempDir()

		Convey("Without a remaining_work column, it defaults to total_work", func() {
			path := writeFile(t, dir, "tasks.csv", "id,x,y,total_work\n1,0,0,10\n")
			specs, err := LoadTasksCSV(path)
			So(err, ShouldBeNil)
			So(specs[0].RemainingWork, ShouldEqual, 10)
		})

		Convey("With a remaining_work column, it overrides the default per row", func() {
			path := writeFile(t, dir, "tasks.csv", "id,x,y,total_work,remaining_work\n1,0,0,10,4\n2,0,0,5,\n")
			specs, err := LoadTasksCSV(path)
			So(err, ShouldBeNil)
			So(specs[0].RemainingWork, ShouldEqual, 4)
			So(specs[1].RemainingWork, ShouldEqual, 5)
		})

		Convey("Missing total_work fails", func() {
			path := writeFile(t, dir, "tasks.csv", "id,x,y\n1,0,0\n")
			_, err := LoadTasksCSV(path)
			So(err, ShouldNotBeNil)
		})
	})
}
