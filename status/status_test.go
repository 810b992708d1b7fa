package status

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fleetsim/sim"
)

func statusTestModel() *sim.Model {
	depot, _ := sim.NewDepot(0, 0, []sim.Module{sim.NewModule(1, "wheel", 0, 0, 0)})
	return &sim.Model{
		Depot:    depot,
		Workers:  map[int]*sim.Worker{1: sim.NewWorker(1, 0, 0, "scout", nil)},
		Tasks:    map[int]*sim.Task{0: sim.NewTask(0, 0, 0, 10, 10)},
		MaxSteps: 100,
		Steps:    3,
		TimeStep: 1.0,
	}
}

func TestHandleStatus(t *testing.T) {
	Convey("Given a Server polling a live model", t, func() {
		model := statusTestModel()
		srv := NewServer(":0", func() *sim.Model { return model })

		Convey("GET /status returns a JSON snapshot of the current model state", func() {
			req := httptest.NewRequest("GET", "/status", nil)
			rec := httptest.NewRecorder()
			srv.handleStatus(rec, req)

			So(rec.Code, ShouldEqual, 200)

			var snap Snapshot
			err := json.Unmarshal(rec.Body.Bytes(), &snap)
			So(err, ShouldBeNil)
			So(snap.Step, ShouldEqual, 3)
			So(snap.MaxSteps, ShouldEqual, 100)
			So(snap.WorkerCount, ShouldEqual, 1)
			So(snap.TaskCount, ShouldEqual, 1)
			So(snap.TasksDone, ShouldEqual, 0)
			So(snap.DepotStock["wheel"], ShouldEqual, 1)
		})
	})

	Convey("Given a Server with no model yet", t, func() {
		srv := NewServer(":0", func() *sim.Model { return nil })

		Convey("GET /status responds with 503", func() {
			req := httptest.NewRequest("GET", "/status", nil)
			rec := httptest.NewRecorder()
			srv.handleStatus(rec, req)
			So(rec.Code, ShouldEqual, 503)
		})
	})
}
