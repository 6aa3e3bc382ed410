package topograph

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGraph_AddEdge(t *testing.T) {
	Convey("Given an empty graph with two nodes", t, func() {
		g := NewGraph()
		a := g.AddNode("a", NodeNode, nil)
		b := g.AddNode("b", NodeNode, nil)

		Convey("When an edge is added between them", func() {
			err := g.AddEdge(a, b, nil)

			Convey("Then both endpoints see each other as adjacent", func() {
				So(err, ShouldBeNil)
				So(g.AreAdjacent(a, b), ShouldBeTrue)
				So(g.AreAdjacent(b, a), ShouldBeTrue)
			})

			Convey("And adding the same edge again is a no-op success", func() {
				So(g.AddEdge(a, b, nil), ShouldBeNil)
				So(len(g.Nodes[a].Adj), ShouldEqual, 1)
			})
		})

		Convey("When a self-loop is attempted", func() {
			err := g.AddEdge(a, a, nil)

			Convey("Then it fails with ErrConn", func() {
				So(IsKind(err, ErrConn), ShouldBeTrue)
			})
		})

		Convey("When an out-of-range index is given", func() {
			err := g.AddEdge(a, 99, nil)

			Convey("Then it fails with ErrConn", func() {
				So(IsKind(err, ErrConn), ShouldBeTrue)
			})
		})
	})
}

func TestGraph_FindNode(t *testing.T) {
	Convey("Given a graph where a node has been replaced", t, func() {
		g := NewGraph()
		idx := g.AddNode("x", NodeNode, nil)
		g.Nodes[idx].Type = NodeReplaced

		Convey("When FindNode looks it up by name", func() {
			found := g.FindNode("x")

			Convey("Then the replaced node is skipped", func() {
				So(found, ShouldEqual, -1)
			})
		})
	})
}

func TestGraph_Serialize(t *testing.T) {
	Convey("Given a graph with one node-node edge via a gate", t, func() {
		g := NewGraph()
		a := g.AddNode("network.a", NodeNode, nil)
		gate := g.AddNode("network.a.g", NodeGate, nil)
		b := g.AddNode("network.b", NodeNode, nil)
		g.AddEdge(a, gate, nil)
		g.AddEdge(gate, b, nil)

		Convey("When serialized without gates", func() {
			out := g.Serialize(false)

			Convey("Then only the two node-type vertices appear", func() {
				So(out, ShouldContainSubstring, "network.a\"")
				So(out, ShouldContainSubstring, "network.b\"")
				So(out, ShouldNotContainSubstring, "network.a.g")
			})
		})

		Convey("When serialized with gates", func() {
			out := g.Serialize(true)

			Convey("Then the gate vertex and both of its edges appear", func() {
				So(out, ShouldContainSubstring, "network.a.g")
				So(out, ShouldContainSubstring, "n0 -- n1;")
				So(out, ShouldContainSubstring, "n1 -- n2;")
			})
		})
	})
}
