package topograph

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func path3() *Graph {
	g := NewGraph()
	a := g.AddNode("a", NodeNode, nil)
	b := g.AddNode("b", NodeNode, nil)
	c := g.AddNode("c", NodeNode, nil)
	g.AddEdge(a, b, nil)
	g.AddEdge(b, c, nil)
	return g
}

func edge2() *Graph {
	g := NewGraph()
	x := g.AddNode("x", NodeNode, nil)
	y := g.AddNode("y", NodeNode, nil)
	g.AddEdge(x, y, nil)
	return g
}

func TestCartesianProduct(t *testing.T) {
	Convey("Given a 3-path and a single edge", t, func() {
		a, b := path3(), edge2()

		Convey("When the Cartesian product is computed", func() {
			prod := cartesianProduct(a, b)

			Convey("Then it has |A|*|B| vertices", func() {
				So(len(prod.Nodes), ShouldEqual, 6)
			})

			Convey("And the expected grid edges exist", func() {
				ab := prod.FindNode("(a,x)")
				bb := prod.FindNode("(b,x)")
				So(prod.AreAdjacent(ab, bb), ShouldBeTrue)

				ax := prod.FindNode("(a,x)")
				ay := prod.FindNode("(a,y)")
				So(prod.AreAdjacent(ax, ay), ShouldBeTrue)

				ax2 := prod.FindNode("(a,x)")
				by := prod.FindNode("(b,y)")
				So(prod.AreAdjacent(ax2, by), ShouldBeFalse)
			})
		})
	})
}

func TestMergeAttrs(t *testing.T) {
	Convey("Given two attribute strings", t, func() {
		x, y := "color=red", "weight=2"

		Convey("When both are present", func() {
			merged := mergeAttrs(&x, &y)

			Convey("Then they are concatenated", func() {
				So(*merged, ShouldEqual, "color=red, weight=2")
			})
		})

		Convey("When only one is present", func() {
			So(*mergeAttrs(&x, nil), ShouldEqual, x)
			So(*mergeAttrs(nil, &y), ShouldEqual, y)
		})

		Convey("When neither is present", func() {
			So(mergeAttrs(nil, nil), ShouldBeNil)
		})
	})
}

func TestTensorProduct(t *testing.T) {
	Convey("Given a 3-path and a single edge", t, func() {
		a, b := path3(), edge2()

		Convey("When the tensor product is computed", func() {
			prod := tensorProduct(a, b)

			Convey("Then diagonal vertices are adjacent, axis-aligned ones are not", func() {
				ax := prod.FindNode("(a,x)")
				by := prod.FindNode("(b,y)")
				So(prod.AreAdjacent(ax, by), ShouldBeTrue)

				bx := prod.FindNode("(b,x)")
				So(prod.AreAdjacent(ax, bx), ShouldBeFalse)
			})
		})
	})
}

func TestRootProduct(t *testing.T) {
	Convey("Given a 3-path as the hub and a rooted star of two nodes", t, func() {
		hub := path3()
		star := NewGraph()
		root := star.AddNode("root", NodeNode, nil)
		leaf := star.AddNode("leaf", NodeNode, nil)
		star.AddEdge(root, leaf, nil)

		Convey("When the root product attaches star at each hub vertex", func() {
			prod, err := rootProduct(hub, star, "root")

			Convey("Then each hub vertex keeps its own identity and gains one leaf copy", func() {
				So(err, ShouldBeNil)
				a := prod.FindNode("a")
				leafA := prod.FindNode("(a,leaf)")
				So(a, ShouldNotEqual, -1)
				So(leafA, ShouldNotEqual, -1)
				So(prod.AreAdjacent(a, leafA), ShouldBeTrue)
			})

			Convey("And the hub's own edges are preserved", func() {
				a := prod.FindNode("a")
				b := prod.FindNode("b")
				So(prod.AreAdjacent(a, b), ShouldBeTrue)
			})
		})

		Convey("When the root name does not exist in the second operand", func() {
			_, err := rootProduct(hub, star, "nope")

			Convey("Then it fails with ErrRoot", func() {
				So(IsKind(err, ErrRoot), ShouldBeTrue)
			})
		})
	})
}
