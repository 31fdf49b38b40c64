// Package ui wraps the ImGui SDL backend used by the clip browser.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/logger"
)

// Backend owns the ImGui window and its GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	glReady bool
}

// NewBackend creates the window. OpenGL is initialized for frame readback;
// when that fails the UI still runs but ReadFrontBuffer returns an error.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		logger.Warn("OpenGL init failed, frame readback disabled", zap.Error(err))
	} else {
		b.glReady = true
	}
	return b, nil
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area, excluding the menu bar.
func Viewport() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// ReadFrontBuffer reads the last presented frame as bottom-up RGBA rows in
// framebuffer pixels, which differ from logical pixels on HiDPI displays.
func (b *Backend) ReadFrontBuffer() ([]byte, int, int, error) {
	if !b.glReady {
		return nil, 0, 0, fmt.Errorf("OpenGL not initialized")
	}

	io := imgui.CurrentIO()
	displaySize := io.DisplaySize()
	fbScale := io.DisplayFramebufferScale()
	width := int(displaySize.X * fbScale.X)
	height := int(displaySize.Y * fbScale.Y)
	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("invalid viewport %dx%d", width, height)
	}

	pixels := make([]byte, width*height*4)
	gl.ReadBuffer(gl.FRONT)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.ReadBuffer(gl.BACK)
	return pixels, width, height, nil
}

// KeyPressed reports a key press this frame.
func KeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
