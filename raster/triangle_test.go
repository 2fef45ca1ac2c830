package raster

import (
	"math"
	"testing"
)

func v(x, y float64) Vertex {
	return Vertex{X: x, Y: y, InvW: 1}
}

func coverage(vp Viewport, tris [][3]Vertex) []int {
	counts := make([]int, vp.Width*vp.Height)
	for _, tri := range tris {
		vp.Triangle(tri[0], tri[1], tri[2], func(f Fragment) {
			counts[f.Y*vp.Width+f.X]++
		})
	}
	return counts
}

func TestSharedEdgesCoveredOnce(t *testing.T) {
	vp := Viewport{8, 8}

	type spec struct {
		tris   [][3]Vertex
		minXY  int
		maxXY  int
		expect string
	}
	specs := []spec{
		// quad split along its diagonal; the diagonal crosses pixel centers
		{
			tris:   [][3]Vertex{{v(1, 1), v(5, 1), v(5, 5)}, {v(1, 1), v(5, 5), v(1, 5)}},
			minXY:  1,
			maxXY:  4,
			expect: "quad",
		},
		// same quad with mixed winding
		{
			tris:   [][3]Vertex{{v(1, 1), v(5, 5), v(5, 1)}, {v(1, 1), v(5, 5), v(1, 5)}},
			minXY:  1,
			maxXY:  4,
			expect: "mixed winding quad",
		},
		// fan whose shared vertex sits exactly on a pixel center
		{
			tris: [][3]Vertex{
				{v(3.5, 3.5), v(1, 1), v(6, 1)},
				{v(3.5, 3.5), v(6, 1), v(6, 6)},
				{v(3.5, 3.5), v(6, 6), v(1, 6)},
				{v(3.5, 3.5), v(1, 6), v(1, 1)},
			},
			minXY:  1,
			maxXY:  5,
			expect: "fan",
		},
	}

	for index, s := range specs {
		counts := coverage(vp, s.tris)
		for y := 0; y < vp.Height; y++ {
			for x := 0; x < vp.Width; x++ {
				exp := 0
				if x >= s.minXY && x <= s.maxXY && y >= s.minXY && y <= s.maxXY {
					exp = 1
				}
				if got := counts[y*vp.Width+x]; got != exp {
					t.Fatalf("[spec %d] %s: expected pixel (%d, %d) to be covered %d times; got %d", index, s.expect, x, y, exp, got)
				}
			}
		}
	}
}

func TestDegenerateTriangle(t *testing.T) {
	vp := Viewport{8, 8}
	counts := coverage(vp, [][3]Vertex{{v(1, 1), v(3, 3), v(6, 6)}})
	for i, c := range counts {
		if c != 0 {
			t.Fatalf("expected degenerate triangle to cover nothing; pixel %d covered %d times", i, c)
		}
	}
}

func TestViewportClipping(t *testing.T) {
	vp := Viewport{4, 4}
	covered := 0
	vp.Triangle(v(-10, -10), v(20, -10), v(-10, 20), func(f Fragment) {
		if f.X < 0 || f.Y < 0 || f.X >= vp.Width || f.Y >= vp.Height {
			t.Fatalf("fragment (%d, %d) outside viewport", f.X, f.Y)
		}
		covered++
	})
	if covered != 16 {
		t.Fatalf("expected all 16 pixels to be covered; got %d", covered)
	}
}

func TestInterpolation(t *testing.T) {
	vp := Viewport{16, 16}
	v0 := Vertex{X: 0, Y: 0, Z: 0, InvW: 1}
	v1 := Vertex{X: 16, Y: 0, Z: 1, InvW: 1}
	v2 := Vertex{X: 0, Y: 16, Z: 0, InvW: 1}

	vp.Triangle(v0, v1, v2, func(f Fragment) {
		sum := f.Bary[0] + f.Bary[1] + f.Bary[2]
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("expected barycentric weights to sum to 1; got %f", sum)
		}
		expDepth := (float64(f.X) + 0.5) / 16
		if math.Abs(f.Depth-expDepth) > 1e-9 {
			t.Fatalf("expected depth at (%d, %d) to be %f; got %f", f.X, f.Y, expDepth, f.Depth)
		}
		if math.Abs(f.Bary[1]-expDepth) > 1e-9 {
			t.Fatalf("expected weight for v1 to follow x; got %f", f.Bary[1])
		}
	})
}

func TestPerspectiveCorrectWeights(t *testing.T) {
	vp := Viewport{16, 16}
	// v1 is twice as far away as the other vertices
	v0 := Vertex{X: 0, Y: 0, InvW: 1}
	v1 := Vertex{X: 16, Y: 0, InvW: 0.5}
	v2 := Vertex{X: 0, Y: 16, InvW: 1}

	vp.Triangle(v0, v1, v2, func(f Fragment) {
		if f.X != 7 || f.Y != 0 {
			return
		}
		// screen space weight for v1 is 7.5/16; the perspective
		// correct weight must be smaller
		linear := 7.5 / 16
		if f.Bary[1] >= linear {
			t.Fatalf("expected perspective correct weight < %f; got %f", linear, f.Bary[1])
		}
	})
}
