// Package placement computes the transforms that put object-space meshes at
// geographic coordinates inside a Web-Mercator world and project that world
// to clip space.
package placement

import (
	"math"
)

const (
	// EarthRadius is the WGS84 equatorial radius in meters.
	EarthRadius = 6378137.0

	// TileSize is the edge length in pixels of a zoom-0 world.
	TileSize = 512.0

	// LatitudeMax is the latitude at which Web-Mercator becomes square.
	LatitudeMax = 85.051128779806604
)

// MercatorCoordinate is a position in normalized Mercator space: X and Y
// span [0,1) over the whole world, Z is altitude in the same units.
type MercatorCoordinate struct {
	X, Y, Z float64
}

// FromLatLng projects a geographic position. Latitude is clamped to
// ±LatitudeMax and altitude is given in meters.
func FromLatLng(latitude, longitude, altitude float64) MercatorCoordinate {
	lat := clamp(latitude, -LatitudeMax, LatitudeMax)
	return MercatorCoordinate{
		X: (180 + longitude) / 360,
		Y: (180 - (180/math.Pi)*math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))) / 360,
		Z: altitude * MeterInMercatorUnits(lat),
	}
}

// LatLng converts back to latitude and longitude in degrees.
func (c MercatorCoordinate) LatLng() (latitude, longitude float64) {
	longitude = c.X*360 - 180
	y2 := 180 - c.Y*360
	latitude = 360/math.Pi*math.Atan(math.Exp(y2*math.Pi/180)) - 90
	return latitude, longitude
}

// MeterInMercatorUnits returns the length of one meter in Mercator units at
// the given latitude. Mercator stretches distances by 1/cos(latitude).
func MeterInMercatorUnits(latitude float64) float64 {
	return 1 / (EarthRadius * 2 * math.Pi * math.Cos(latitude*math.Pi/180))
}

// WorldSize returns the world edge length in pixels at zoom.
func WorldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
