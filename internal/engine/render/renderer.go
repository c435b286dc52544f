// Package render draws the socket tree and placed module instances
// with a single flat-color OpenGL program.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/socketforge/internal/engine/shader"
	"github.com/Faultbox/socketforge/pkg/math"
)

const vertexShaderSrc = `
#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uModel;
uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

const fragmentShaderSrc = `
#version 410 core

uniform vec4 uColor;

out vec4 fragColor;

void main() {
    fragColor = uColor;
}
`

// Renderer owns the GL program and shared meshes. Create it after the
// GL context exists; all methods must run on the context thread.
type Renderer struct {
	program   uint32
	uModel    int32
	uViewProj int32
	uColor    int32

	sphere *mesh
	cube   *mesh

	viewProj math.Mat4
}

// New initializes OpenGL and compiles the flat-color program.
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	program, err := shader.CompileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling flat-color program: %w", err)
	}

	r := &Renderer{
		program:   program,
		uModel:    shader.GetUniform(program, "uModel"),
		uViewProj: shader.GetUniform(program, "uViewProj"),
		uColor:    shader.GetUniform(program, "uColor"),
	}

	verts, indices := sphereGeometry(sphereSegmentsU, sphereSegmentsV)
	r.sphere = newMesh(verts, indices, gl.TRIANGLES)

	verts, indices = cubeEdgeGeometry()
	r.cube = newMesh(verts, indices, gl.LINES)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return r, nil
}

// BeginFrame clears the framebuffer and stores the view-projection
// matrix used for every draw until the next BeginFrame.
func (r *Renderer) BeginFrame(viewProj math.Mat4, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.08, 0.09, 0.11, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.viewProj = viewProj
}

// drawMesh draws one mesh with the given model transform and color.
func (r *Renderer) drawMesh(m *mesh, model math.Mat4, color [4]float32) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(r.uViewProj, 1, false, r.viewProj.Ptr())
	gl.Uniform4f(r.uColor, color[0], color[1], color[2], color[3])

	gl.BindVertexArray(m.vao)
	gl.DrawElements(m.mode, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.sphere.delete()
	r.cube.delete()
	gl.DeleteProgram(r.program)
}
