package topograph

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func elaborateJSON(t *testing.T, src string) *Graph {
	t.Helper()
	def, err := ParseNetworkDefinition([]byte(src))
	So(err, ShouldBeNil)
	g, err := Elaborate(def)
	So(err, ShouldBeNil)
	out, err := Compact(g)
	So(err, ShouldBeNil)
	return out
}

func TestElaborate_SingleNode(t *testing.T) {
	Convey("Given a network of one simple module with no gates", t, func() {
		src := `[
			{"simplemodule": {"name": "Host", "gates": []}},
			{"network": {"module": "Host"}}
		]`

		Convey("When elaborated and compacted", func() {
			g := elaborateJSON(t, src)

			Convey("Then the graph has exactly one node", func() {
				So(len(g.Nodes), ShouldEqual, 1)
				So(g.Nodes[0].Name, ShouldEqual, "network")
			})
		})
	})
}

func TestElaborate_Dyad(t *testing.T) {
	Convey("Given two host instances wired gate-to-gate", t, func() {
		src := `[
			{"simplemodule": {"name": "Host", "gates": [{"g": "0"}]}},
			{"module": {
				"name": "Net",
				"submodules": [
					{"name": "a", "module": "Host"},
					{"name": "b", "module": "Host"}
				],
				"connections": [
					{"from": "a.g", "to": "b.g"}
				]
			}},
			{"network": {"module": "Net"}}
		]`

		Convey("When elaborated and compacted", func() {
			g := elaborateJSON(t, src)

			Convey("Then there are exactly two nodes directly connected", func() {
				So(len(g.Nodes), ShouldEqual, 2)
				a := g.FindNode("network.a")
				b := g.FindNode("network.b")
				So(a, ShouldNotEqual, -1)
				So(b, ShouldNotEqual, -1)
				So(g.AreAdjacent(a, b), ShouldBeTrue)
			})
		})
	})
}

func TestElaborate_RingOfFour(t *testing.T) {
	Convey("Given an indexed submodule of size four looped into a ring", t, func() {
		src := `[
			{"simplemodule": {"name": "Host", "gates": [{"g": "2"}]}},
			{"module": {
				"name": "Ring",
				"submodules": [
					{"name": "node", "module": "Host", "size": "4"}
				],
				"connections": [
					{"loop": "i", "start": "0", "end": "4", "conn":
						{"from": "node[i].g[0]", "to": "node[mod(i+1,4)].g[1]"}
					}
				]
			}},
			{"network": {"module": "Ring"}}
		]`

		Convey("When elaborated and compacted", func() {
			g := elaborateJSON(t, src)

			Convey("Then four nodes survive with four connecting edges", func() {
				So(len(g.Nodes), ShouldEqual, 4)
				total := 0
				for _, n := range g.Nodes {
					total += len(n.Adj)
				}
				So(total/2, ShouldEqual, 4)
			})
		})
	})
}

func TestElaborate_LoopConnection_BadRange(t *testing.T) {
	Convey("Given a loop connection whose start is past its end", t, func() {
		src := `[
			{"simplemodule": {"name": "Host", "gates": [{"g": "0"}]}},
			{"module": {
				"name": "Ring",
				"submodules": [
					{"name": "node", "module": "Host", "size": "4"}
				],
				"connections": [
					{"loop": "i", "start": "4", "end": "0", "conn":
						{"from": "node[i].g", "to": "node[mod(i+1,4)].g"}
					}
				]
			}},
			{"network": {"module": "Ring"}}
		]`

		Convey("When elaborated", func() {
			def, err := ParseNetworkDefinition([]byte(src))
			So(err, ShouldBeNil)
			_, err = Elaborate(def)

			Convey("Then it fails with ErrLoop", func() {
				So(IsKind(err, ErrLoop), ShouldBeTrue)
			})
		})
	})
}

func TestElaborate_ConditionalSubmodule(t *testing.T) {
	Convey("Given a conditional submodule gated on a network param", t, func() {
		src := `[
			{"simplemodule": {"name": "Host", "gates": []}},
			{"module": {
				"name": "Net",
				"submodules": [
					{"if": "flag", "then": {"name": "a", "module": "Host"}}
				]
			}},
			{"network": {"module": "Net", "params": [{"flag": "1"}]}}
		]`

		Convey("When the condition is true", func() {
			g := elaborateJSON(t, src)

			Convey("Then the then-branch submodule is instantiated", func() {
				So(len(g.Nodes), ShouldEqual, 1)
				So(g.FindNode("network.a"), ShouldNotEqual, -1)
			})
		})

		Convey("When the condition is false", func() {
			falseSrc := `[
				{"simplemodule": {"name": "Host", "gates": []}},
				{"module": {
					"name": "Net",
					"submodules": [
						{"if": "flag", "then": {"name": "a", "module": "Host"}}
					]
				}},
				{"network": {"module": "Net", "params": [{"flag": "0"}]}}
			]`
			g := elaborateJSON(t, falseSrc)

			Convey("Then nothing is instantiated", func() {
				So(len(g.Nodes), ShouldEqual, 0)
			})
		})
	})
}

func TestElaborate_CartesianProduct(t *testing.T) {
	Convey("Given a Cartesian product of two small compound modules", t, func() {
		src := `[
			{"simplemodule": {"name": "Host", "gates": []}},
			{"module": {
				"name": "Line",
				"submodules": [
					{"name": "n0", "module": "Host"},
					{"name": "n1", "module": "Host"}
				],
				"connections": [
					{"from": "n0", "to": "n1"}
				]
			}},
			{"module": {
				"name": "Edge",
				"submodules": [
					{"name": "x", "module": "Host"},
					{"name": "y", "module": "Host"}
				],
				"connections": [
					{"from": "x", "to": "y"}
				]
			}},
			{"module": {
				"name": "Grid",
				"submodules": [
					{"cartesian": [
						{"name": "line", "module": "Line"},
						{"name": "edge", "module": "Edge"}
					]}
				]
			}},
			{"network": {"module": "Grid"}}
		]`

		Convey("When elaborated and compacted", func() {
			g := elaborateJSON(t, src)

			Convey("Then the product has four vertices", func() {
				So(len(g.Nodes), ShouldEqual, 4)
			})
		})
	})
}

func TestElaborate_Replace(t *testing.T) {
	Convey("Given a placeholder node matched for replacement", t, func() {
		src := `[
			{"simplemodule": {"name": "Placeholder", "gates": [{"g": "0"}]}},
			{"simplemodule": {"name": "Real", "gates": [{"g": "0"}]}},
			{"module": {
				"name": "Net",
				"submodules": [
					{"name": "a", "module": "Placeholder"},
					{"name": "b", "module": "Placeholder"}
				],
				"connections": [
					{"from": "a.g", "to": "b.g"}
				],
				"replace": [
					{"nodes": "network\\.a$", "with": {"name": "a", "module": "Real"}}
				]
			}},
			{"network": {"module": "Net"}}
		]`

		Convey("When elaborated and compacted", func() {
			g := elaborateJSON(t, src)

			Convey("Then the replacement lands at the same name and keeps the old wiring", func() {
				newNode := g.FindNode("network.a")
				b := g.FindNode("network.b")
				So(newNode, ShouldNotEqual, -1)
				So(b, ShouldNotEqual, -1)
				So(g.AreAdjacent(newNode, b), ShouldBeTrue)
			})
		})
	})
}
