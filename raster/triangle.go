// Package raster implements a scanline-free, edge function based triangle
// rasterizer used by the CPU render passes.
package raster

import "math"

// A triangle vertex in window space. X and Y are measured in pixels with the
// origin at the top-left corner of the grid; pixel (x, y) is sampled at its
// center (x+0.5, y+0.5).
type Vertex struct {
	X, Y float64

	// Window space depth in [0, 1].
	Z float64

	// Reciprocal of the clip space w coordinate; set to 1 for orthographic
	// projections.
	InvW float64
}

// A covered pixel.
type Fragment struct {
	X, Y int

	// Depth interpolated linearly in window space.
	Depth float64

	// Perspective correct barycentric weights for the input vertices in
	// the order they were passed to Triangle.
	Bary [3]float64
}

// The grid a triangle is rasterized into.
type Viewport struct {
	Width, Height int
}

// Rasterize a triangle invoking emit for every pixel center it covers. Pixel
// centers that lie exactly on an edge are resolved with a top-left fill
// rule so that triangles sharing an edge never cover the same pixel twice
// and never leave a gap between them. Triangles are processed regardless
// of their winding; degenerate triangles cover nothing.
func (vp Viewport) Triangle(v0, v1, v2 Vertex, emit func(Fragment)) {
	verts := [3]Vertex{v0, v1, v2}
	order := [3]int{0, 1, 2}

	area := edge(verts[0], verts[1], verts[2].X, verts[2].Y)
	if area == 0 || math.IsNaN(area) {
		return
	}

	// Normalize winding so that all edge functions are positive inside.
	if area < 0 {
		verts[1], verts[2] = verts[2], verts[1]
		order[1], order[2] = order[2], order[1]
		area = -area
	}

	minX := int(math.Floor(math.Min(verts[0].X, math.Min(verts[1].X, verts[2].X))))
	maxX := int(math.Ceil(math.Max(verts[0].X, math.Max(verts[1].X, verts[2].X))))
	minY := int(math.Floor(math.Min(verts[0].Y, math.Min(verts[1].Y, verts[2].Y))))
	maxY := int(math.Ceil(math.Max(verts[0].Y, math.Max(verts[1].Y, verts[2].Y))))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > vp.Width-1 {
		maxX = vp.Width - 1
	}
	if maxY > vp.Height-1 {
		maxY = vp.Height - 1
	}

	// Edge i is the edge opposite to vertex i.
	edges := [3][2]Vertex{
		{verts[1], verts[2]},
		{verts[2], verts[0]},
		{verts[0], verts[1]},
	}
	var topLeft [3]bool
	for i, e := range edges {
		topLeft[i] = isTopLeft(e[0], e[1])
	}

	invArea := 1.0 / area
	var w [3]float64
	var frag Fragment
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
	nextPixel:
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			for i, e := range edges {
				w[i] = edge(e[0], e[1], px, py)
				if w[i] < 0 || (w[i] == 0 && !topLeft[i]) {
					continue nextPixel
				}
			}

			b0, b1, b2 := w[0]*invArea, w[1]*invArea, w[2]*invArea

			frag.X, frag.Y = x, y
			frag.Depth = b0*verts[0].Z + b1*verts[1].Z + b2*verts[2].Z

			p0, p1, p2 := b0*verts[0].InvW, b1*verts[1].InvW, b2*verts[2].InvW
			if sum := p0 + p1 + p2; sum != 0 {
				p0, p1, p2 = p0/sum, p1/sum, p2/sum
			} else {
				p0, p1, p2 = b0, b1, b2
			}
			frag.Bary[order[0]] = p0
			frag.Bary[order[1]] = p1
			frag.Bary[order[2]] = p2

			emit(frag)
		}
	}
}

// Evaluate the edge function for edge a->b at point (px, py). The result is
// positive when the point lies on the inner side of a normalized triangle.
func edge(a, b Vertex, px, py float64) float64 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// Check if an edge of a normalized triangle owns the pixel centers lying on
// it. Two normalized triangles sharing an edge traverse it in opposite
// directions so exactly one of them owns it.
func isTopLeft(a, b Vertex) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dy < 0 || (dy == 0 && dx > 0)
}
