// Package assets imports mesh files into indexed meshes.
//
// Import never hands out a partial mesh: a Result carries either a built mesh
// or a typed ImportError, and substituting default geometry is left to the
// caller.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/mapmodel/internal/assets/gltfsource"
	"github.com/Faultbox/mapmodel/internal/assets/objsource"
	"github.com/Faultbox/mapmodel/internal/engine/mesh"
	"github.com/Faultbox/mapmodel/internal/logger"
)

// ErrUnknownFormat is returned for file extensions no decoder handles.
var ErrUnknownFormat = errors.New("unknown mesh format")

// FailureKind classifies import failures.
type FailureKind int

const (
	// ParseFailure means the document was unreadable or malformed.
	ParseFailure FailureKind = iota + 1
	// EmptyMeshFailure means the document produced no triangles.
	EmptyMeshFailure
)

func (k FailureKind) String() string {
	switch k {
	case ParseFailure:
		return "parse"
	case EmptyMeshFailure:
		return "empty mesh"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// ImportError describes why a file could not be imported.
type ImportError struct {
	Kind FailureKind
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importing %s: %s failure: %v", e.Path, e.Kind, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Format identifies a mesh file format.
type Format int

const (
	FormatOBJ Format = iota + 1
	FormatGLTF
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatGLTF:
		return "gltf"
	default:
		return "unknown"
	}
}

// FormatOf picks a format from the file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return FormatOBJ, true
	case ".gltf", ".glb":
		return FormatGLTF, true
	default:
		return 0, false
	}
}

// DefaultFlipWinding reports whether a format's faces need their winding
// reversed for the map's coordinate space.
func DefaultFlipWinding(f Format) bool {
	return f == FormatOBJ
}

// Options controls a single import.
type Options struct {
	// FlipWinding overrides the format default when non-nil.
	FlipWinding *bool
}

// Result is the outcome of an import: Mesh is set exactly when Err is nil.
type Result struct {
	Mesh     *mesh.Mesh
	Stats    mesh.Stats
	Format   Format
	Warnings []string
	Err      *ImportError
}

// OK reports whether the import produced a mesh.
func (r Result) OK() bool {
	return r.Err == nil
}

// Importer imports mesh files and caches the built meshes by path and
// winding. Cached meshes are shared and must not be modified.
type Importer struct {
	cache *cache
}

// NewImporter creates an importer with an empty cache.
func NewImporter() *Importer {
	return &Importer{cache: newCache()}
}

// Import reads and builds the mesh at path.
func (im *Importer) Import(path string, opts Options) Result {
	log := logger.Named("assets")

	format, ok := FormatOf(path)
	if !ok {
		err := &ImportError{Kind: ParseFailure, Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))}
		log.Warn("import failed", zap.String("path", path), zap.Error(err))
		return Result{Err: err}
	}

	flip := DefaultFlipWinding(format)
	if opts.FlipWinding != nil {
		flip = *opts.FlipWinding
	}

	key := cacheKey{path: path, flip: flip}
	if cached, ok := im.cache.Get(key); ok {
		log.Debug("import cache hit", zap.String("path", path))
		return cached
	}

	log.Debug("importing", zap.String("path", path), zap.Stringer("format", format), zap.Bool("flip_winding", flip))

	res := importFile(path, format, mesh.BuildOptions{FlipWinding: flip})
	for _, w := range res.Warnings {
		log.Warn("decoder warning", zap.String("path", path), zap.String("warning", w))
	}
	if res.Err != nil {
		log.Warn("import failed", zap.String("path", path), zap.Stringer("kind", res.Err.Kind), zap.Error(res.Err.Err))
		return res
	}

	log.Info("imported mesh",
		zap.String("path", path),
		zap.Int("vertices", len(res.Mesh.Positions)),
		zap.Int("triangles", res.Mesh.TriangleCount()),
		zap.Int("cache_hits", res.Stats.CacheHits),
		zap.Bool("normals_synthesized", res.Stats.NormalsSynthesized))
	if res.Stats.DegenerateNormals > 0 {
		log.Debug("vertices without normals", zap.String("path", path), zap.Int("count", res.Stats.DegenerateNormals))
	}

	im.cache.Set(key, res)
	return res
}

// CacheStats returns cache hit and miss counts.
func (im *Importer) CacheStats() (hits, misses int) {
	return im.cache.Stats()
}

// Clear drops all cached meshes.
func (im *Importer) Clear() {
	im.cache.Clear()
}

// Import imports path without caching.
func Import(path string, opts Options) Result {
	return NewImporter().Import(path, opts)
}

func importFile(path string, format Format, opts mesh.BuildOptions) Result {
	var (
		src      *mesh.Source
		warnings []string
		err      error
	)
	switch format {
	case FormatOBJ:
		src, warnings, err = objsource.Load(path)
	case FormatGLTF:
		src, warnings, err = gltfsource.Load(path)
	}
	if err != nil {
		return Result{Format: format, Warnings: warnings, Err: &ImportError{Kind: ParseFailure, Path: path, Err: err}}
	}

	m, stats, err := mesh.Build(src, opts)
	if err != nil {
		kind := ParseFailure
		if errors.Is(err, mesh.ErrEmptyMesh) {
			kind = EmptyMeshFailure
		}
		return Result{Format: format, Warnings: warnings, Err: &ImportError{Kind: kind, Path: path, Err: err}}
	}

	return Result{Mesh: m, Stats: stats, Format: format, Warnings: warnings}
}

type cacheKey struct {
	path string
	flip bool
}

// cache is an in-memory store of successful imports.
type cache struct {
	data map[cacheKey]Result
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

func newCache() *cache {
	return &cache{
		data: make(map[cacheKey]Result),
	}
}

func (c *cache) Get(key cacheKey) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return res, ok
}

func (c *cache) Set(key cacheKey, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = res
}

func (c *cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[cacheKey]Result)
	c.hits = 0
	c.misses = 0
}

func (c *cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
