package sim

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDedupeByID(t *testing.T) {
	Convey("Given a set of modules", t, func() {
		Convey("When all ids are distinct", func() {
			modules := []Module{
				NewModule(1, "arm", 0, 0, 0),
				NewModule(2, "wheel", 0, 0, 0),
			}
			err := DedupeByID(modules)
			So(err, ShouldBeNil)
		})

		Convey("When two modules share an id", func() {
			modules := []Module{
				NewModule(1, "arm", 0, 0, 0),
				NewModule(1, "wheel", 0, 0, 0),
			}
			err := DedupeByID(modules)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "1")
		})
	})
}

func TestModuleClone(t *testing.T) {
	Convey("Given a module", t, func() {
		m := NewModule(1, "arm", 1, 2, 0)
		Convey("Clone returns an independent value copy", func() {
			c := m.Clone()
			c.H = 100
			So(m.H, ShouldEqual, 0)
			So(c.ID, ShouldEqual, m.ID)
		})
	})
}
