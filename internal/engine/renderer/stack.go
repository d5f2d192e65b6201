package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/mapmodel/internal/engine/layer"
	"github.com/Faultbox/mapmodel/internal/logger"
)

// Stack drives custom layers through their lifecycle in insertion order.
// Calls are serial; no layer callback runs while another is executing.
type Stack struct {
	layers []layer.Host
	ready  []bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Add appends a layer. It is initialized on the next Initialize.
func (s *Stack) Add(h layer.Host) {
	s.layers = append(s.layers, h)
	s.ready = append(s.ready, false)
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Initialize initializes every layer that is not ready. Layers that fail
// are skipped when rendering; the first error is returned.
func (s *Stack) Initialize() error {
	var first error
	for i, h := range s.layers {
		if s.ready[i] {
			continue
		}
		if err := h.Initialize(); err != nil {
			logger.Error("layer initialize failed", zap.Int("layer", i), zap.Error(err))
			if first == nil {
				first = fmt.Errorf("layer %d: %w", i, err)
			}
			continue
		}
		s.ready[i] = true
	}
	return first
}

// Render draws every ready layer.
func (s *Stack) Render(params layer.FrameParams) {
	for i, h := range s.layers {
		if s.ready[i] {
			h.Render(params)
		}
	}
}

// ContextLost notifies every ready layer that the context is gone.
func (s *Stack) ContextLost() {
	for i, h := range s.layers {
		if s.ready[i] {
			h.ContextLost()
			s.ready[i] = false
		}
	}
}

// Restore simulates a context loss followed by recreation.
func (s *Stack) Restore() error {
	logger.Info("restoring layers after context loss", zap.Int("layers", len(s.layers)))
	s.ContextLost()
	return s.Initialize()
}

// Deinitialize tears every layer down and empties the stack.
func (s *Stack) Deinitialize() {
	for _, h := range s.layers {
		h.Deinitialize()
	}
	s.layers = nil
	s.ready = nil
}
