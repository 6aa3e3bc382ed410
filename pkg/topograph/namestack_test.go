package topograph

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNameStack(t *testing.T) {
	Convey("Given a NameStack seeded with \"network\"", t, func() {
		s := NewNameStack("network")

		Convey("Then Full returns the root segment alone", func() {
			So(s.Full(), ShouldEqual, "network")
		})

		Convey("When a bare segment is entered", func() {
			s.Enter("a", -1)

			Convey("Then Full joins it with a dot", func() {
				So(s.Full(), ShouldEqual, "network.a")
			})

			Convey("And leaving it restores the previous scope", func() {
				s.Leave()
				So(s.Full(), ShouldEqual, "network")
			})
		})

		Convey("When an indexed segment is entered", func() {
			s.Enter("ring", 2)

			Convey("Then Full renders the bracketed index", func() {
				So(s.Full(), ShouldEqual, "network.ring[2]")
			})
		})

		Convey("When Qualify is called without mutating the stack", func() {
			qualified := s.Qualify("g", 1)

			Convey("Then it appends the local name without pushing", func() {
				So(qualified, ShouldEqual, "network.g[1]")
				So(s.Full(), ShouldEqual, "network")
			})
		})
	})
}
