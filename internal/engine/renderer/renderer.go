// Package renderer provides the OpenGL frame host for custom map layers.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/mapmodel/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// ClearColor is the map background, RGBA.
	ClearColor [4]float32
}

// DefaultClearColor is a light map-paper background.
var DefaultClearColor = [4]float32{0.93, 0.92, 0.89, 1.0}

// Renderer owns the frame: it clears, sets the viewport and drives the
// layer stack.
type Renderer struct {
	config Config
	layers *Stack
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.ClearColor == ([4]float32{}) {
		cfg.ClearColor = DefaultClearColor
	}
	r := &Renderer{
		config: cfg,
		layers: NewStack(),
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

	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Layers returns the layer stack drawn every frame.
func (r *Renderer) Layers() *Stack {
	return r.layers
}

// Close deinitializes every layer.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.layers.Deinitialize()
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
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) > 0 {
		gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
		gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
	return pixels, width, height
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.Flush()
}
