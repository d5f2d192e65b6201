// Package camera provides a map camera producing projection matrices in
// world-pixel space.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/mapmodel/internal/engine/placement"
)

// MapCamera looks at a point on the map from above.
//
// Projection maps world pixels at the current zoom to clip space: x and y in
// [0, WorldSize(Zoom)), z in units of 2^Zoom pixels.
type MapCamera struct {
	// Center of the view
	Latitude  float64 // degrees
	Longitude float64 // degrees

	Zoom    float64
	Pitch   float64 // degrees from straight down
	Bearing float64 // degrees clockwise from north
	FOV     float64 // vertical, degrees

	// Viewport in pixels
	Width  int
	Height int

	// Constraints
	MinZoom  float64
	MaxZoom  float64
	MaxPitch float64

	// Sensitivity
	DragSensitivity float64 // degrees per pixel
	ZoomSensitivity float64 // zoom levels per wheel step
}

// NewMapCamera creates a camera over lat/lon with default limits.
func NewMapCamera(lat, lon, zoom float64) *MapCamera {
	return &MapCamera{
		Latitude:        lat,
		Longitude:       lon,
		Zoom:            zoom,
		FOV:             36.87,
		Width:           1280,
		Height:          720,
		MinZoom:         0,
		MaxZoom:         22,
		MaxPitch:        60,
		DragSensitivity: 0.25,
		ZoomSensitivity: 0.25,
	}
}

// CameraToCenterDistance returns the eye distance to the center in pixels.
func (c *MapCamera) CameraToCenterDistance() float64 {
	return 0.5 / math.Tan(mgl64.DegToRad(c.FOV)/2) * float64(c.Height)
}

// Aspect returns the viewport aspect ratio.
func (c *MapCamera) Aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// CenterPixels returns the view center in world pixels at the current zoom.
func (c *MapCamera) CenterPixels() (x, y float64) {
	m := placement.FromLatLng(c.Latitude, c.Longitude, 0)
	ws := placement.WorldSize(c.Zoom)
	return m.X * ws, m.Y * ws
}

// Projection returns the projection matrix for the current view.
func (c *MapCamera) Projection() mgl64.Mat4 {
	fov := mgl64.DegToRad(c.FOV)
	pitch := mgl64.DegToRad(c.Pitch)
	halfFov := fov / 2
	dist := c.CameraToCenterDistance()

	// Far plane reaches the top edge of the pitched ground plane.
	groundAngle := math.Pi/2 + pitch
	topHalf := math.Sin(halfFov) * dist / math.Sin(math.Pi-groundAngle-halfFov)
	far := (math.Cos(math.Pi/2-pitch)*topHalf + dist) * 1.01
	near := float64(c.Height) / 50

	x, y := c.CenterPixels()

	m := mgl64.Perspective(fov, c.Aspect(), near, far)
	m = m.Mul4(mgl64.Scale3D(1, -1, 1))
	m = m.Mul4(mgl64.Translate3D(0, 0, -dist))
	m = m.Mul4(mgl64.HomogRotate3DX(pitch))
	m = m.Mul4(mgl64.HomogRotate3DZ(-mgl64.DegToRad(c.Bearing)))
	m = m.Mul4(mgl64.Translate3D(-x, -y, 0))
	return m.Mul4(mgl64.Scale3D(1, 1, math.Pow(2, c.Zoom)))
}

// HandleDrag pans the center by a mouse drag in screen pixels.
func (c *MapCamera) HandleDrag(deltaX, deltaY float64) {
	ws := placement.WorldSize(c.Zoom)
	b := mgl64.DegToRad(c.Bearing)
	// Screen delta rotated into map axes.
	dx := deltaX*math.Cos(b) - deltaY*math.Sin(b)
	dy := deltaX*math.Sin(b) + deltaY*math.Cos(b)

	m := placement.FromLatLng(c.Latitude, c.Longitude, 0)
	m.X -= dx / ws
	m.Y -= dy / ws
	c.Latitude, c.Longitude = m.LatLng()
}

// HandleRotate changes bearing and pitch by a drag in screen pixels.
func (c *MapCamera) HandleRotate(deltaX, deltaY float64) {
	c.Bearing = math.Mod(c.Bearing+deltaX*c.DragSensitivity, 360)
	c.Pitch = clamp(c.Pitch-deltaY*c.DragSensitivity, 0, c.MaxPitch)
}

// HandleZoom changes zoom by wheel steps.
func (c *MapCamera) HandleZoom(delta float64) {
	c.Zoom = clamp(c.Zoom+delta*c.ZoomSensitivity, c.MinZoom, c.MaxZoom)
}

// HandleMovement pans by keyboard input; speed is in screen pixels.
func (c *MapCamera) HandleMovement(forward, right, speed float64) {
	c.HandleDrag(-right*speed, forward*speed)
}

// SetViewport updates the viewport size.
func (c *MapCamera) SetViewport(width, height int) {
	c.Width = width
	c.Height = height
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
