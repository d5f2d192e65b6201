// Package layer implements a custom map layer that draws imported meshes
// placed at geographic coordinates.
//
// The host drives a ModelLayer through Initialize, Render, ContextLost and
// Deinitialize from its render loop, one call at a time. GPU work goes
// through a Device so the lifecycle can run without a graphics context.
package layer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/mapmodel/internal/assets"
	"github.com/Faultbox/mapmodel/internal/engine/mesh"
	"github.com/Faultbox/mapmodel/internal/engine/placement"
	"github.com/Faultbox/mapmodel/internal/engine/shader"
	"github.com/Faultbox/mapmodel/internal/logger"
	"github.com/Faultbox/mapmodel/pkg/math"
)

// ErrDestroyed is returned by Initialize after Deinitialize.
var ErrDestroyed = errors.New("layer destroyed")

// Host is the callback contract a map renderer uses to drive a custom layer.
type Host interface {
	Initialize() error
	Render(params FrameParams)
	ContextLost()
	Deinitialize()
}

// FrameParams carries the host camera for one frame.
type FrameParams struct {
	// Projection maps world pixels at the current zoom to clip space.
	Projection mgl64.Mat4
	Zoom       float64
	// Latitude of the camera center. The Mercator view-projection does not
	// depend on it; it is logged with the first frame after each Initialize.
	Latitude float64
}

// State is the lifecycle state of a ModelLayer.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateContextLost
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateContextLost:
		return "context lost"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Importer loads meshes for the layer. *assets.Importer implements it.
type Importer interface {
	Import(path string, opts assets.Options) assets.Result
}

// ModelSpec describes one model to place.
type ModelSpec struct {
	Name      string
	Path      string
	Placement placement.Placement
	// FlipWinding overrides the file format default when non-nil.
	FlipWinding *bool
}

// Model is a placed mesh owned by the layer.
type Model struct {
	ID        uuid.UUID
	Name      string
	Path      string
	Mesh      *mesh.Mesh
	Placement placement.Placement
	Transform mgl64.Mat4
	// Fallback is set when the import failed and the fallback triangle is drawn.
	Fallback bool

	gpu      MeshHandle
	uploaded bool
}

// ModelLayer draws a list of models. It implements Host.
type ModelLayer struct {
	device   Device
	importer Importer
	program  shader.ProgramSource
	specs    []ModelSpec

	state     State
	models    []*Model
	imported  bool
	prog      ProgramHandle
	hasProg   bool
	lastFrame  mgl64.Mat4
	frames     int
	firstFrame bool

	log *zap.Logger
}

var _ Host = (*ModelLayer)(nil)

// Option configures a ModelLayer.
type Option func(*ModelLayer)

// WithProgram replaces the default model shader program.
func WithProgram(src shader.ProgramSource) Option {
	return func(l *ModelLayer) {
		l.program = src
	}
}

// WithLogger replaces the layer's logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *ModelLayer) {
		l.log = log
	}
}

// New creates a layer for specs. Placements are validated here so that
// Initialize only fails on GPU errors.
func New(device Device, importer Importer, specs []ModelSpec, opts ...Option) (*ModelLayer, error) {
	for i, s := range specs {
		if err := s.Placement.Validate(); err != nil {
			return nil, fmt.Errorf("model %d (%s): %w", i, s.Name, err)
		}
	}

	l := &ModelLayer{
		device:   device,
		importer: importer,
		program:  shader.ModelProgram,
		specs:    append([]ModelSpec(nil), specs...),
		log:      logger.Named("layer"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// State returns the current lifecycle state.
func (l *ModelLayer) State() State {
	return l.state
}

// Models returns the placed models. The slice is empty before the first
// successful Initialize and after Deinitialize.
func (l *ModelLayer) Models() []*Model {
	return l.models
}

// LastViewProjection returns the Mercator view-projection of the last
// drawn frame.
func (l *ModelLayer) LastViewProjection() mgl64.Mat4 {
	return l.lastFrame
}

// Frames returns how many frames were drawn.
func (l *ModelLayer) Frames() int {
	return l.frames
}

// Initialize creates GPU resources. Models are imported on the first call
// only; after a context loss the retained meshes are uploaded again.
func (l *ModelLayer) Initialize() error {
	switch l.state {
	case StateDestroyed:
		l.log.Warn("initialize after deinitialize ignored")
		return ErrDestroyed
	case StateReady:
		l.log.Warn("initialize while ready ignored")
		return nil
	}

	prog, err := l.device.CreateProgram(l.program)
	if err != nil {
		l.log.Error("program creation failed", zap.Error(err))
		return fmt.Errorf("creating program: %w", err)
	}
	l.prog, l.hasProg = prog, true

	if !l.imported {
		l.importModels()
	}

	for _, m := range l.models {
		h, err := l.device.UploadMesh(m.Mesh)
		if err != nil {
			l.log.Error("mesh upload failed", zap.String("model", m.Name), zap.Error(err))
			l.releaseGPU()
			return fmt.Errorf("uploading %s: %w", m.Name, err)
		}
		m.gpu, m.uploaded = h, true
	}

	l.firstFrame = true
	l.transition(StateReady)
	return nil
}

func (l *ModelLayer) importModels() {
	l.models = make([]*Model, 0, len(l.specs))
	for _, s := range l.specs {
		m := &Model{
			ID:        uuid.New(),
			Name:      s.Name,
			Path:      s.Path,
			Placement: s.Placement,
			Transform: placement.ModelMatrix(s.Placement),
		}

		res := l.importer.Import(s.Path, assets.Options{FlipWinding: s.FlipWinding})
		if res.OK() {
			m.Mesh = res.Mesh
		} else {
			l.log.Warn("using fallback triangle",
				zap.Stringer("id", m.ID),
				zap.String("model", s.Name),
				zap.Error(res.Err))
			m.Mesh = mesh.FallbackTriangle()
			m.Fallback = true
		}

		l.log.Debug("model placed",
			zap.Stringer("id", m.ID),
			zap.String("model", s.Name),
			zap.String("transform", placement.FormatMatrix(m.Transform)))
		l.models = append(l.models, m)
	}
	l.imported = true
}

// Render draws every model. The Mercator view-projection is computed once
// per frame and shared by all models.
func (l *ModelLayer) Render(params FrameParams) {
	if l.state != StateReady {
		l.log.Debug("render ignored", zap.Stringer("state", l.state))
		return
	}

	vp := placement.MercatorViewProjection(params.Projection, params.Zoom)
	l.lastFrame = vp
	if l.firstFrame {
		l.firstFrame = false
		l.log.Debug("first frame",
			zap.Float64("zoom", params.Zoom),
			zap.Float64("latitude", params.Latitude),
			zap.Int("models", len(l.models)))
	}

	l.device.BeginFrame()
	for _, m := range l.models {
		mvp := math.FromFloat64(placement.Compose(vp, m.Transform))
		l.device.Draw(l.prog, m.gpu, mvp)
	}
	l.device.EndFrame()
	l.frames++
}

// ContextLost forgets all GPU handles without touching the lost context.
// Imported meshes are kept for the next Initialize.
func (l *ModelLayer) ContextLost() {
	if l.state != StateReady {
		l.log.Warn("context loss ignored", zap.Stringer("state", l.state))
		return
	}

	l.prog, l.hasProg = ProgramHandle{}, false
	for _, m := range l.models {
		m.gpu, m.uploaded = MeshHandle{}, false
	}
	l.transition(StateContextLost)
}

// Deinitialize releases GPU resources and drops all models. The layer
// cannot be initialized again.
func (l *ModelLayer) Deinitialize() {
	if l.state == StateDestroyed {
		l.log.Warn("deinitialize ignored", zap.Stringer("state", l.state))
		return
	}

	l.releaseGPU()
	l.models = nil
	l.transition(StateDestroyed)
}

// releaseGPU deletes every live handle.
func (l *ModelLayer) releaseGPU() {
	for _, m := range l.models {
		if m.uploaded {
			l.device.DeleteMesh(m.gpu)
			m.gpu, m.uploaded = MeshHandle{}, false
		}
	}
	if l.hasProg {
		l.device.DeleteProgram(l.prog)
		l.prog, l.hasProg = ProgramHandle{}, false
	}
}

func (l *ModelLayer) transition(to State) {
	l.log.Info("layer state", zap.Stringer("from", l.state), zap.Stringer("to", to), zap.Int("models", len(l.models)))
	l.state = to
}
