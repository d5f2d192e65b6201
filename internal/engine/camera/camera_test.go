package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/mapmodel/internal/engine/placement"
)

func ndc(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	clip := m.Mul4x1(v.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func worldPixels(c *MapCamera, lat, lon float64) mgl64.Vec3 {
	m := placement.FromLatLng(lat, lon, 0)
	ws := placement.WorldSize(c.Zoom)
	return mgl64.Vec3{m.X * ws, m.Y * ws, 0}
}

func TestCenterProjectsToOrigin(t *testing.T) {
	tests := []struct {
		name           string
		pitch, bearing float64
	}{
		{"top down", 0, 0},
		{"pitched", 45, 0},
		{"rotated", 30, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMapCamera(60.1712, 24.9441, 17)
			c.Pitch, c.Bearing = tt.pitch, tt.bearing

			p := ndc(c.Projection(), worldPixels(c, c.Latitude, c.Longitude))
			if math.Abs(p.X()) > 1e-9 || math.Abs(p.Y()) > 1e-9 {
				t.Errorf("center projects to %v, want origin", p)
			}
			if p.Z() <= -1 || p.Z() >= 1 {
				t.Errorf("center depth %g outside the clip range", p.Z())
			}
		})
	}
}

func TestScreenOrientation(t *testing.T) {
	c := NewMapCamera(0, 0, 10)
	proj := c.Projection()

	east := ndc(proj, worldPixels(c, 0, 0.01))
	if east.X() <= 0 || math.Abs(east.Y()) > 1e-9 {
		t.Errorf("east projects to %v, want +x", east)
	}
	north := ndc(proj, worldPixels(c, 0.01, 0))
	if north.Y() <= 0 || math.Abs(north.X()) > 1e-9 {
		t.Errorf("north projects to %v, want +y", north)
	}
}

func TestWithMercatorViewProjection(t *testing.T) {
	c := NewMapCamera(60.1712, 24.9441, 16.5)
	c.Pitch = 40
	vp := placement.MercatorViewProjection(c.Projection(), c.Zoom)

	m := placement.FromLatLng(c.Latitude, c.Longitude, 0)
	p := ndc(vp, mgl64.Vec3{m.X, m.Y, 0})
	if math.Abs(p.X()) > 1e-6 || math.Abs(p.Y()) > 1e-6 {
		t.Errorf("Mercator center projects to %v, want origin", p)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewMapCamera(0, 0, 21.9)
	c.HandleZoom(10)
	if c.Zoom != c.MaxZoom {
		t.Errorf("zoom = %g, want %g", c.Zoom, c.MaxZoom)
	}
	c.Zoom = 0.1
	c.HandleZoom(-10)
	if c.Zoom != c.MinZoom {
		t.Errorf("zoom = %g, want %g", c.Zoom, c.MinZoom)
	}
}

func TestHandleDrag(t *testing.T) {
	c := NewMapCamera(60.1712, 24.9441, 15)

	c.HandleDrag(100, 0)
	if c.Longitude >= 24.9441 {
		t.Errorf("dragging right should move the center west, got lon %g", c.Longitude)
	}
	c.HandleDrag(-100, 0)
	if math.Abs(c.Longitude-24.9441) > 1e-9 || math.Abs(c.Latitude-60.1712) > 1e-9 {
		t.Errorf("opposite drags should cancel, got %g, %g", c.Latitude, c.Longitude)
	}

	c.HandleMovement(1, 0, 50)
	if c.Latitude <= 60.1712 {
		t.Errorf("moving forward should move north, got lat %g", c.Latitude)
	}
}

func TestHandleRotate(t *testing.T) {
	c := NewMapCamera(0, 0, 10)
	c.HandleRotate(0, -1000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %g, want %g", c.Pitch, c.MaxPitch)
	}
	c.HandleRotate(4, 0)
	if c.Bearing != 4*c.DragSensitivity {
		t.Errorf("bearing = %g", c.Bearing)
	}
}
