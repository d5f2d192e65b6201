// Package viewer implements the model viewer main loop: an SDL window hosting
// a model layer over a map camera.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/mapmodel/internal/assets"
	"github.com/Faultbox/mapmodel/internal/config"
	"github.com/Faultbox/mapmodel/internal/engine/camera"
	"github.com/Faultbox/mapmodel/internal/engine/debug"
	"github.com/Faultbox/mapmodel/internal/engine/input"
	"github.com/Faultbox/mapmodel/internal/engine/layer"
	"github.com/Faultbox/mapmodel/internal/engine/renderer"
	"github.com/Faultbox/mapmodel/internal/engine/window"
	"github.com/Faultbox/mapmodel/internal/logger"
)

// Title is the window title.
const Title = "mapmodel viewer"

// panSpeed is the keyboard pan rate in screen pixels per second.
const panSpeed = 400.0

// Viewer is the main viewer instance.
type Viewer struct {
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.MapCamera
	models   *layer.ModelLayer
	shots    *debug.ScreenshotCapture
	log      *zap.Logger

	screenshotPending bool
}

// New creates the window, GL context and model layer from cfg.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{log: logger.Named("viewer")}

	specs, err := ModelSpecs(cfg)
	if err != nil {
		return nil, err
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("models", len(specs)),
	)

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.FromConfig(Title, cfg.Window))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.camera = NewCamera(cfg.Camera)
	v.camera.SetViewport(width, height)

	v.models, err = layer.New(layer.NewGLDevice(), assets.NewImporter(), specs)
	if err != nil {
		v.Close()
		return nil, err
	}
	v.renderer.Layers().Add(v.models)
	if err := v.renderer.Layers().Initialize(); err != nil {
		// A program failure leaves the layer undrawn; keep the window up so
		// the log can be read alongside it.
		v.log.Error("layer initialization failed", zap.Error(err))
	}

	v.input = input.New()
	v.shots = debug.NewScreenshotCapture("screenshots", "mapmodel")

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// ModelSpecs converts the configured models into layer specs.
func ModelSpecs(cfg *config.Config) ([]layer.ModelSpec, error) {
	specs := make([]layer.ModelSpec, 0, len(cfg.Models))
	for i, m := range cfg.Models {
		p, err := m.Placement()
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		name := m.Name
		if name == "" {
			name = m.Path
		}
		specs = append(specs, layer.ModelSpec{
			Name:        name,
			Path:        m.Path,
			Placement:   p,
			FlipWinding: m.FlipWinding,
		})
	}
	return specs, nil
}

// NewCamera creates the map camera described by cfg.
func NewCamera(cfg config.CameraConfig) *camera.MapCamera {
	c := camera.NewMapCamera(cfg.Latitude, cfg.Longitude, cfg.Zoom)
	c.Pitch = cfg.Pitch
	c.Bearing = cfg.Bearing
	if cfg.FOVDegrees > 0 {
		c.FOV = cfg.FOVDegrees
	}
	return c
}

// FrameParams returns what the host hands to layers for the camera's view.
func FrameParams(c *camera.MapCamera) layer.FrameParams {
	return layer.FrameParams{
		Projection: c.Projection(),
		Zoom:       c.Zoom,
		Latitude:   c.Latitude,
	}
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.handleKeys(dt)

		// 2. Render
		v.renderer.Begin()
		v.renderer.Layers().Render(FrameParams(v.camera))
		if v.screenshotPending {
			v.captureScreenshot()
		}
		v.renderer.End()

		// 3. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := v.window.DrawableSize()
			v.renderer.Resize(width, height)
			v.camera.SetViewport(width, height)
		case input.EventMouseMove:
			switch {
			case v.input.IsButtonHeld(sdl.BUTTON_LEFT):
				v.camera.HandleDrag(float64(event.DeltaX), float64(event.DeltaY))
			case v.input.IsButtonHeld(sdl.BUTTON_RIGHT):
				v.camera.HandleRotate(float64(event.DeltaX), float64(event.DeltaY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(float64(event.DeltaY))
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F5:
				if err := v.renderer.Layers().Restore(); err != nil {
					v.log.Error("layer restore failed", zap.Error(err))
				}
			case sdl.SCANCODE_F12:
				v.screenshotPending = true
			case sdl.SCANCODE_P:
				v.log.Info("camera",
					zap.Float64("latitude", v.camera.Latitude),
					zap.Float64("longitude", v.camera.Longitude),
					zap.Float64("zoom", v.camera.Zoom),
					zap.Float64("pitch", v.camera.Pitch),
					zap.Float64("bearing", v.camera.Bearing))
			}
		}
	}
}

func (v *Viewer) handleKeys(dt float64) {
	var forward, right float64
	if input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if forward != 0 || right != 0 {
		v.camera.HandleMovement(forward, right, panSpeed*dt)
	}
}

// captureScreenshot saves the frame drawn so far.
func (v *Viewer) captureScreenshot() {
	v.screenshotPending = false
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
