// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/mapmodel/internal/engine/placement"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Models  []ModelConfig `yaml:"models"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds the initial map camera.
type CameraConfig struct {
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	Zoom       float64 `yaml:"zoom"`
	Pitch      float64 `yaml:"pitch"`       // degrees
	Bearing    float64 `yaml:"bearing"`     // degrees
	FOVDegrees float64 `yaml:"fov_degrees"` // vertical field of view
}

// ModelConfig describes one mesh file and where to place it.
type ModelConfig struct {
	Name            string  `yaml:"name"`
	Path            string  `yaml:"path"`
	Latitude        float64 `yaml:"latitude"`
	Longitude       float64 `yaml:"longitude"`
	Altitude        float64 `yaml:"altitude"`
	Scale           float64 `yaml:"scale"`
	RotationDegrees float64 `yaml:"rotation_degrees"`
	Axis            string  `yaml:"axis"`
	// FlipWinding overrides the per-format winding default when set.
	FlipWinding *bool `yaml:"flip_winding,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Configuration errors.
var (
	ErrNoModels     = errors.New("no models configured")
	ErrInvalidModel = errors.New("invalid model")
	ErrInvalidZoom  = errors.New("camera zoom must not be negative")
)

// Helsinki Central Railway Station market square.
const (
	defaultLatitude  = 60.1712
	defaultLongitude = 24.9441
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			Latitude:   defaultLatitude,
			Longitude:  defaultLongitude,
			Zoom:       17,
			Pitch:      45,
			Bearing:    0,
			FOVDegrees: 36.87,
		},
		Models: []ModelConfig{
			{
				Name:            "default",
				Path:            "model.obj",
				Latitude:        defaultLatitude,
				Longitude:       defaultLongitude,
				Scale:           10,
				RotationDegrees: 90,
				Axis:            "x",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Placement converts the model's YAML settings into a placement.
func (m ModelConfig) Placement() (placement.Placement, error) {
	axis, err := placement.ParseAxis(m.Axis)
	if err != nil {
		return placement.Placement{}, err
	}
	p := placement.Placement{
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Altitude:  m.Altitude,
		Scale:     m.Scale,
		Rotation:  m.RotationDegrees * math.Pi / 180,
		Axis:      axis,
	}
	return p, p.Validate()
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return ErrNoModels
	}
	for i, m := range c.Models {
		if m.Path == "" {
			return fmt.Errorf("%w %d (%s): empty path", ErrInvalidModel, i, m.Name)
		}
		if _, err := m.Placement(); err != nil {
			return fmt.Errorf("%w %d (%s): %w", ErrInvalidModel, i, m.Name, err)
		}
	}
	if c.Camera.Zoom < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidZoom, c.Camera.Zoom)
	}
	return nil
}
