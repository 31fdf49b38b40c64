// Package renderer draws the clip timeline, the active range, the playhead
// and a top-down body marker with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/engine/shader"
	"github.com/Faultbox/animseq/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	// Shader program for flat colored 2D geometry
	program *shader.Program

	// Quad batch, re-uploaded every frame
	quadVAO    uint32
	quadVBO    uint32
	scratch    []float32
	wireframe  bool
	brightness float32
}

const pausedBrightness = 0.6

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		brightness: 1,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// 2D overlay only, painter's order
	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	// Create shader program
	var err error
	r.program, err = shader.Compile(quadShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.createQuadBatch()

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	// Nothing to do for now - batched draws would be flushed here
}

// DrawView lays out and draws one timeline view. A paused view is dimmed.
func (r *Renderer) DrawView(v View) {
	r.brightness = 1
	if v.Paused {
		r.brightness = pausedBrightness
	}
	r.DrawQuads(Layout(v))
}

// DrawQuads uploads and draws a batch of quads.
func (r *Renderer) DrawQuads(quads []Quad) {
	if len(quads) == 0 {
		return
	}
	r.scratch = vertices(quads, r.scratch)

	r.program.Use()
	gl.Uniform1f(r.program.Uniform("uBrightness"), r.brightness)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.scratch)*4, unsafe.Pointer(&r.scratch[0]), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quads)*6))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// ToggleWireframe switches polygon fill mode and returns the new setting.
func (r *Renderer) ToggleWireframe() bool {
	r.wireframe = !r.wireframe
	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	logger.Debug("wireframe toggled", zap.Bool("enabled", r.wireframe))
	return r.wireframe
}

var quadShader = shader.Source{
	Name: "quad",
	Vertex: `
		#version 410 core

		layout (location = 0) in vec2 aPos;
		layout (location = 1) in vec3 aColor;

		out vec3 vertexColor;

		void main() {
			gl_Position = vec4(aPos, 0.0, 1.0);
			vertexColor = aColor;
		}
	`,
	Fragment: `
		#version 410 core

		in vec3 vertexColor;
		out vec4 FragColor;

		uniform float uBrightness;

		void main() {
			FragColor = vec4(vertexColor * uBrightness, 1.0);
		}
	`,
}

// createQuadBatch sets up the VAO/VBO the quad batch streams into.
func (r *Renderer) createQuadBatch() {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 5*4, nil)
	gl.EnableVertexAttribArray(0)

	// Color attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 5*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)

	// Unbind
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("quad batch created",
		zap.Uint32("vao", r.quadVAO),
		zap.Uint32("vbo", r.quadVBO),
	)
}
