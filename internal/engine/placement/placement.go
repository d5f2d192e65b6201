package placement

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Placement errors.
var (
	ErrInvalidScale    = errors.New("scale must be positive")
	ErrInvalidLatitude = errors.New("latitude out of range")
	ErrInvalidAxis     = errors.New("unknown rotation axis")
)

// Axis selects the single object-space axis a placement rotates about.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lower-case axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis parses "x", "y" or "z" (case-insensitive). An empty string is
// AxisX.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// Placement positions a model on the globe.
type Placement struct {
	Latitude  float64 // degrees
	Longitude float64 // degrees
	Altitude  float64 // meters
	Scale     float64 // meters per object-space unit
	Rotation  float64 // radians
	Axis      Axis
}

// Validate checks that the placement can produce an invertible matrix.
func (p Placement) Validate() error {
	if !(p.Scale > 0) {
		return fmt.Errorf("%w: %g", ErrInvalidScale, p.Scale)
	}
	// cos(±90°) makes MeterInMercatorUnits blow up.
	if !(math.Abs(p.Latitude) < 90) {
		return fmt.Errorf("%w: %g", ErrInvalidLatitude, p.Latitude)
	}
	if p.Axis < AxisX || p.Axis > AxisZ {
		return fmt.Errorf("%w: %d", ErrInvalidAxis, int(p.Axis))
	}
	return nil
}

// ModelMatrix returns the matrix taking object-space coordinates to Mercator
// coordinates: I * T(mercator) * R(axis, rotation) * S(scale in meters).
// Rotation and scale therefore act in the model's local frame before the
// translation places it in the world.
func ModelMatrix(p Placement) mgl64.Mat4 {
	mercator := FromLatLng(p.Latitude, p.Longitude, p.Altitude)
	finalScale := p.Scale * MeterInMercatorUnits(p.Latitude)

	m := mgl64.Ident4()
	m = m.Mul4(mgl64.Translate3D(mercator.X, mercator.Y, mercator.Z))
	m = m.Mul4(rotation(p.Axis, p.Rotation))
	m = m.Mul4(mgl64.Scale3D(finalScale, finalScale, finalScale))
	return m
}

func rotation(axis Axis, angle float64) mgl64.Mat4 {
	switch axis {
	case AxisY:
		return mgl64.HomogRotate3DY(angle)
	case AxisZ:
		return mgl64.HomogRotate3DZ(angle)
	default:
		return mgl64.HomogRotate3DX(angle)
	}
}

// MercatorViewProjection scales a camera projection that works in world
// pixels so it accepts normalized Mercator coordinates. Depth scales by
// TileSize at every zoom; only X and Y follow the tile pyramid.
func MercatorViewProjection(projection mgl64.Mat4, zoom float64) mgl64.Mat4 {
	scale := math.Pow(2, zoom)
	worldSize := WorldSize(zoom)
	return projection.Mul4(mgl64.Scale3D(worldSize, worldSize, worldSize/scale))
}

// Compose returns the model-view-projection matrix vp * model.
func Compose(viewProjection, model mgl64.Mat4) mgl64.Mat4 {
	return viewProjection.Mul4(model)
}

// FormatMatrix renders m row by row for debug output.
func FormatMatrix(m mgl64.Mat4) string {
	var b strings.Builder
	for row := 0; row < 4; row++ {
		fmt.Fprintf(&b, "%.9g %.9g %.9g %.9g", m.At(row, 0), m.At(row, 1), m.At(row, 2), m.At(row, 3))
		if row < 3 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
