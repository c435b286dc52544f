package render

import (
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Sphere tessellation. Coarse on purpose: socket markers are small and
// translucent, so a low-poly sphere reads fine and keeps the draw
// cheap even for large trees.
const (
	sphereSegmentsU = 6
	sphereSegmentsV = 4
)

// mesh is an indexed position-only vertex buffer.
type mesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	mode       uint32
}

// newMesh uploads vertices and indices to the GPU. Vertices are tightly
// packed xyz triples.
func newMesh(vertices []float32, indices []uint32, mode uint32) *mesh {
	m := &mesh{
		indexCount: int32(len(indices)),
		mode:       mode,
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)

	return m
}

func (m *mesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// sphereGeometry builds a unit uv sphere with the given number of
// longitude (u) and latitude (v) segments.
func sphereGeometry(uSegs, vSegs int) ([]float32, []uint32) {
	var vertices []float32
	var indices []uint32

	// Rings of (uSegs+1) vertices from pole to pole; the seam column is
	// duplicated so indexing stays uniform.
	for v := 0; v <= vSegs; v++ {
		phi := gomath.Pi * float64(v) / float64(vSegs)
		y := gomath.Cos(phi)
		ringRadius := gomath.Sin(phi)

		for u := 0; u <= uSegs; u++ {
			theta := 2 * gomath.Pi * float64(u) / float64(uSegs)
			x := ringRadius * gomath.Cos(theta)
			z := ringRadius * gomath.Sin(theta)

			vertices = append(vertices, float32(x), float32(y), float32(z))
		}
	}

	stride := uint32(uSegs + 1)
	for v := 0; v < vSegs; v++ {
		for u := 0; u < uSegs; u++ {
			a := uint32(v)*stride + uint32(u)
			b := a + stride

			indices = append(indices,
				a, b, a+1,
				a+1, b, b+1,
			)
		}
	}

	return vertices, indices
}

// cubeEdgeGeometry builds the 12 edges of a unit cube centered at the
// origin, for GL_LINES.
func cubeEdgeGeometry() ([]float32, []uint32) {
	vertices := []float32{
		-0.5, -0.5, -0.5,
		0.5, -0.5, -0.5,
		0.5, 0.5, -0.5,
		-0.5, 0.5, -0.5,
		-0.5, -0.5, 0.5,
		0.5, -0.5, 0.5,
		0.5, 0.5, 0.5,
		-0.5, 0.5, 0.5,
	}

	indices := []uint32{
		0, 1, 1, 2, 2, 3, 3, 0, // back face
		4, 5, 5, 6, 6, 7, 7, 4, // front face
		0, 4, 1, 5, 2, 6, 3, 7, // connecting edges
	}

	return vertices, indices
}
