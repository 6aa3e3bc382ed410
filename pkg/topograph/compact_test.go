package topograph

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompact_DyadChain(t *testing.T) {
	Convey("Given two nodes joined through a two-gate chain", t, func() {
		g := NewGraph()
		a := g.AddNode("network.a", NodeNode, nil)
		ga := g.AddNode("network.a.g", NodeGate, nil)
		gb := g.AddNode("network.b.g", NodeGate, nil)
		b := g.AddNode("network.b", NodeNode, nil)
		So(g.AddEdge(a, ga, nil), ShouldBeNil)
		So(g.AddEdge(ga, gb, nil), ShouldBeNil)
		So(g.AddEdge(gb, b, nil), ShouldBeNil)

		Convey("When compacted", func() {
			out, err := Compact(g)

			Convey("Then only the two original nodes survive, directly connected", func() {
				So(err, ShouldBeNil)
				So(len(out.Nodes), ShouldEqual, 2)
				na := out.FindNode("network.a")
				nb := out.FindNode("network.b")
				So(na, ShouldNotEqual, -1)
				So(nb, ShouldNotEqual, -1)
				So(out.AreAdjacent(na, nb), ShouldBeTrue)
			})
		})
	})
}

func TestCompact_DanglingGate(t *testing.T) {
	Convey("Given a node with one unconnected scalar gate", t, func() {
		g := NewGraph()
		a := g.AddNode("network.a", NodeNode, nil)
		ga := g.AddNode("network.a.g", NodeGate, nil)
		So(g.AddEdge(a, ga, nil), ShouldBeNil)

		Convey("When compacted", func() {
			out, err := Compact(g)

			Convey("Then the dangling gate is dropped and the node keeps no edges", func() {
				So(err, ShouldBeNil)
				So(len(out.Nodes), ShouldEqual, 1)
				So(out.Nodes[0].Name, ShouldEqual, "network.a")
				So(len(out.Nodes[0].Adj), ShouldEqual, 0)
			})
		})
	})
}

func TestCompact_IsolatedNodeSurvives(t *testing.T) {
	Convey("Given a single node with no gates and no edges at all", t, func() {
		g := NewGraph()
		g.AddNode("network", NodeNode, nil)

		Convey("When compacted", func() {
			out, err := Compact(g)

			Convey("Then the node survives rather than being dropped as empty", func() {
				So(err, ShouldBeNil)
				So(len(out.Nodes), ShouldEqual, 1)
				So(out.Nodes[0].Name, ShouldEqual, "network")
			})
		})
	})
}

func TestCompact_BadGate(t *testing.T) {
	Convey("Given a gate with three neighbors", t, func() {
		g := NewGraph()
		a := g.AddNode("a", NodeNode, nil)
		gate := g.AddNode("a.g", NodeGate, nil)
		x := g.AddNode("x", NodeNode, nil)
		y := g.AddNode("y", NodeNode, nil)
		So(g.AddEdge(a, gate, nil), ShouldBeNil)
		So(g.AddEdge(gate, x, nil), ShouldBeNil)
		So(g.AddEdge(gate, y, nil), ShouldBeNil)

		Convey("When compacted", func() {
			_, err := Compact(g)

			Convey("Then it fails with ErrBadGate", func() {
				So(IsKind(err, ErrBadGate), ShouldBeTrue)
			})
		})
	})
}

func TestCompact_RingOfFour(t *testing.T) {
	Convey("Given four nodes wired into a ring through gate pairs", t, func() {
		g := NewGraph()
		var nodes []int
		for i := 0; i < 4; i++ {
			nodes = append(nodes, g.AddNode("ring.node[0]", NodeNode, nil))
		}
		for i := 0; i < 4; i++ {
			next := (i + 1) % 4
			ga := g.AddNode("ring.g1", NodeGate, nil)
			gb := g.AddNode("ring.g2", NodeGate, nil)
			So(g.AddEdge(nodes[i], ga, nil), ShouldBeNil)
			So(g.AddEdge(ga, gb, nil), ShouldBeNil)
			So(g.AddEdge(gb, nodes[next], nil), ShouldBeNil)
		}

		Convey("When compacted", func() {
			out, err := Compact(g)

			Convey("Then the four nodes survive with exactly four edges between them", func() {
				So(err, ShouldBeNil)
				So(len(out.Nodes), ShouldEqual, 4)
				total := 0
				for _, n := range out.Nodes {
					total += len(n.Adj)
				}
				So(total/2, ShouldEqual, 4)
			})
		})
	})
}
