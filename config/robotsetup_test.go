package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const validRobotSetup = `
modules:
  - wheel
  - arm
robot_types:
  scout:
    required_modules:
      wheel: 1
    performance:
      speed: 2.0
      throughput: 1.0
type_priority:
  scout: 0
`

const mismatchedRobotSetup = `
robot_types:
  scout:
    required_modules:
      wheel: 1
type_priority:
  scout: 0
  hauler: 1
`

func TestLoadRobotSetup(t *testing.T) {
	Convey("Given a robot_setup.yaml asset", t, func() {
		dir := t.TempDir()

		Convey("With type_priority naming exactly the robot_types set, it loads cleanly", func() {
			path := writeFile(t, dir, "robot_setup.yaml", validRobotSetup)
			rs, err := LoadRobotSetup(path)
			So(err, ShouldBeNil)
			So(rs.RobotTypes["scout"].Performance.Speed, ShouldEqual, 2.0)

			specs := rs.RobotTypeSpecs()
			So(specs["scout"].Speed, ShouldEqual, 2.0)
			So(specs["scout"].RequiredModules["wheel"], ShouldEqual, 1)
		})

		Convey("With an extra type_priority entry not in robot_types, it fails", func() {
			path := writeFile(t, dir, "robot_setup.yaml", mismatchedRobotSetup)
			_, err := LoadRobotSetup(path)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "hauler")
		})

		Convey("With no robot_types declared, it fails", func() {
			path := writeFile(t, dir, "robot_setup.yaml", "robot_types: {}\ntype_priority: {}\n")
			_, err := LoadRobotSetup(path)
			So(err, ShouldNotBeNil)
		})
	})
}
