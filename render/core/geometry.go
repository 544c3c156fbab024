package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex matches the WGSL VertexInput of toon.wgsl.
type Vertex struct {
	Pos    [3]float32
	Normal [3]float32
}

// Geometry is an indexed triangle list. Renderers cache GPU buffers per
// *Geometry, so a geometry must not be mutated once it has been drawn.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

func (g *Geometry) addVertex(pos, normal mgl32.Vec3) {
	g.Vertices = append(g.Vertices, Vertex{Pos: pos, Normal: normal})
}

func (g *Geometry) addTriangle(a, b, c int) {
	g.Indices = append(g.Indices, uint32(a), uint32(b), uint32(c))
}

// Bounds returns the axis-aligned box around all vertices.
func (g *Geometry) Bounds() (min, max mgl32.Vec3) {
	if len(g.Vertices) == 0 {
		return
	}
	min, max = g.Vertices[0].Pos, g.Vertices[0].Pos
	for _, v := range g.Vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], v.Pos[i])
			max[i] = math32.Max(max[i], v.Pos[i])
		}
	}
	return
}

// NewTorus builds a ring of the given radius swept by a tube, lying in the XY
// plane. Vertices form a (radialSegs+1) x (tubularSegs+1) grid so the seams
// carry duplicate vertices.
func NewTorus(radius, tube float32, radialSegs, tubularSegs int) *Geometry {
	radialSegs = max(radialSegs, 3)
	tubularSegs = max(tubularSegs, 3)
	g := &Geometry{}

	for j := 0; j <= radialSegs; j++ {
		for i := 0; i <= tubularSegs; i++ {
			u := float32(i) / float32(tubularSegs) * 2 * math32.Pi
			v := float32(j) / float32(radialSegs) * 2 * math32.Pi

			pos := mgl32.Vec3{
				(radius + tube*math32.Cos(v)) * math32.Cos(u),
				(radius + tube*math32.Cos(v)) * math32.Sin(u),
				tube * math32.Sin(v),
			}
			center := mgl32.Vec3{radius * math32.Cos(u), radius * math32.Sin(u), 0}
			g.addVertex(pos, pos.Sub(center).Normalize())
		}
	}

	for j := 1; j <= radialSegs; j++ {
		for i := 1; i <= tubularSegs; i++ {
			a := (tubularSegs+1)*j + i - 1
			b := (tubularSegs+1)*(j-1) + i - 1
			c := (tubularSegs+1)*(j-1) + i
			d := (tubularSegs+1)*j + i
			g.addTriangle(a, b, d)
			g.addTriangle(b, c, d)
		}
	}
	return g
}

// NewCone builds a cone along Y, apex up, centred on the origin, with a
// closed base.
func NewCone(radius, height float32, radialSegs int) *Geometry {
	return NewCylinder(0, radius, height, radialSegs, 1)
}

// NewCylinder builds a truncated cone along Y. A zero radius end gets no cap.
func NewCylinder(radiusTop, radiusBottom, height float32, radialSegs, heightSegs int) *Geometry {
	radialSegs = max(radialSegs, 3)
	heightSegs = max(heightSegs, 1)
	halfHeight := height / 2
	slope := (radiusBottom - radiusTop) / height
	g := &Geometry{}

	rows := make([][]int, 0, heightSegs+1)
	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		radius := v*(radiusBottom-radiusTop) + radiusTop
		row := make([]int, 0, radialSegs+1)
		for x := 0; x <= radialSegs; x++ {
			theta := float32(x) / float32(radialSegs) * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)
			row = append(row, len(g.Vertices))
			g.addVertex(
				mgl32.Vec3{radius * sin, -v*height + halfHeight, radius * cos},
				mgl32.Vec3{sin, slope, cos}.Normalize(),
			)
		}
		rows = append(rows, row)
	}

	for x := 0; x < radialSegs; x++ {
		for y := 0; y < heightSegs; y++ {
			a := rows[y][x]
			b := rows[y+1][x]
			c := rows[y+1][x+1]
			d := rows[y][x+1]
			// Degenerate triangles at a pointed end are skipped.
			if radiusTop > 0 || y != 0 {
				g.addTriangle(a, b, d)
			}
			if radiusBottom > 0 || y != heightSegs-1 {
				g.addTriangle(b, c, d)
			}
		}
	}

	if radiusTop > 0 {
		g.addCap(radiusTop, halfHeight, radialSegs, true)
	}
	if radiusBottom > 0 {
		g.addCap(radiusBottom, halfHeight, radialSegs, false)
	}
	return g
}

func (g *Geometry) addCap(radius, halfHeight float32, radialSegs int, top bool) {
	sign := float32(1)
	if !top {
		sign = -1
	}
	normal := mgl32.Vec3{0, sign, 0}

	centerStart := len(g.Vertices)
	for x := 0; x < radialSegs; x++ {
		g.addVertex(mgl32.Vec3{0, halfHeight * sign, 0}, normal)
	}
	ringStart := len(g.Vertices)
	for x := 0; x <= radialSegs; x++ {
		theta := float32(x) / float32(radialSegs) * 2 * math32.Pi
		g.addVertex(mgl32.Vec3{radius * math32.Sin(theta), halfHeight * sign, radius * math32.Cos(theta)}, normal)
	}

	for x := 0; x < radialSegs; x++ {
		c := centerStart + x
		i := ringStart + x
		if top {
			g.addTriangle(i, i+1, c)
		} else {
			g.addTriangle(i+1, i, c)
		}
	}
}

// NewTorusKnot builds a (p, q) torus knot tube. The curve winds p times around
// the axis of rotational symmetry and q times around the torus interior.
func NewTorusKnot(radius, tube float32, tubularSegs, radialSegs, p, q int) *Geometry {
	tubularSegs = max(tubularSegs, 3)
	radialSegs = max(radialSegs, 3)
	if p == 0 {
		p = 2
	}
	if q == 0 {
		q = 3
	}
	g := &Geometry{}

	for i := 0; i <= tubularSegs; i++ {
		u := float32(i) / float32(tubularSegs) * float32(p) * 2 * math32.Pi

		p1 := torusKnotPoint(u, p, q, radius)
		p2 := torusKnotPoint(u+0.01, p, q, radius)

		// Frenet-like frame along the curve.
		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n).Normalize()
		n = b.Cross(t).Normalize()

		for j := 0; j <= radialSegs; j++ {
			v := float32(j) / float32(radialSegs) * 2 * math32.Pi
			cx := -tube * math32.Cos(v)
			cy := tube * math32.Sin(v)

			pos := p1.Add(n.Mul(cx)).Add(b.Mul(cy))
			g.addVertex(pos, pos.Sub(p1).Normalize())
		}
	}

	for j := 1; j <= tubularSegs; j++ {
		for i := 1; i <= radialSegs; i++ {
			a := (radialSegs+1)*(j-1) + (i - 1)
			b := (radialSegs+1)*j + (i - 1)
			c := (radialSegs+1)*j + i
			d := (radialSegs+1)*(j-1) + i
			g.addTriangle(a, b, d)
			g.addTriangle(b, c, d)
		}
	}
	return g
}

func torusKnotPoint(u float32, p, q int, radius float32) mgl32.Vec3 {
	cu := math32.Cos(u)
	su := math32.Sin(u)
	quOverP := float32(q) / float32(p) * u
	cs := math32.Cos(quOverP)

	return mgl32.Vec3{
		radius * (2 + cs) * 0.5 * cu,
		radius * (2 + cs) * su * 0.5,
		radius * math32.Sin(quOverP) * 0.5,
	}
}
