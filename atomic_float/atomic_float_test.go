package atomic_float

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAtomicFloat64(t *testing.T) {
	Convey("Given an AtomicFloat64", t, func() {
		af := NewAtomicFloat64(0.0)

		Convey("AtomicRead returns the initial value", func() {
			So(af.AtomicRead(), ShouldEqual, 0.0)
		})

		Convey("AtomicSet overwrites the value", func() {
			So(af.AtomicSet(42.5), ShouldBeTrue)
			So(af.AtomicRead(), ShouldEqual, 42.5)
		})

		Convey("When multiple writers AtomicAdd concurrently", func() {
			numOps := 3000
			numWriters := 200

			start := make(chan struct{})
			wg := sync.WaitGroup{}
			wg.Add(numWriters)
			adder := func() {
				<-start
				for i := 0; i < numOps; i++ {
					for succeeded := false; !succeeded; _, succeeded = af.AtomicAdd(1.0) {
					}
				}
				wg.Done()
			}

			for i := 0; i < numWriters; i++ {
				go adder()
			}

			time.Sleep(time.Millisecond * 10)
			close(start)
			wg.Wait()

			So(af.AtomicRead(), ShouldEqual, float64(numOps*numWriters))
		})
	})
}
