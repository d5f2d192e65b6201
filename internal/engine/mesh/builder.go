package mesh

import "fmt"

// Builder deduplicates source corners into an indexed mesh.
// A Builder may be reused for many sources but not concurrently.
type Builder struct {
	opts  BuildOptions
	cache *AttributeCache
}

// NewBuilder creates a builder with the given options.
func NewBuilder(opts BuildOptions) *Builder {
	return &Builder{
		opts:  opts,
		cache: NewAttributeCache(),
	}
}

// Build creates a mesh from src. Corners with identical attribute keys share
// one output vertex. If any output vertex lacks a normal, all normals are
// synthesized from the triangles.
//
// On error no mesh is returned.
func (b *Builder) Build(src *Source) (*Mesh, Stats, error) {
	b.cache.Clear()

	stats := Stats{Faces: len(src.Faces)}
	out := &Mesh{
		Indices: make([]uint32, 0, len(src.Faces)*3),
	}

	for fi, face := range src.Faces {
		var tri [3]uint32
		for j, corner := range face {
			if err := checkCorner(src, corner); err != nil {
				return nil, Stats{}, fmt.Errorf("face %d corner %d: %w", fi, j, err)
			}

			key := keyOf(corner)
			if idx, ok := b.cache.TryGet(key); ok {
				tri[j] = idx
				stats.CacheHits++
				continue
			}

			idx := uint32(len(out.Positions))
			b.cache.Set(key, idx)
			tri[j] = idx

			out.Positions = append(out.Positions, src.Positions[corner.Position])
			if corner.Normal >= 0 {
				out.Normals = append(out.Normals, src.Normals[corner.Normal])
			}
		}

		if b.opts.FlipWinding {
			out.Indices = append(out.Indices, tri[0], tri[2], tri[1])
		} else {
			out.Indices = append(out.Indices, tri[0], tri[1], tri[2])
		}
	}

	if len(out.Indices) == 0 || len(out.Positions) == 0 {
		return nil, Stats{}, ErrEmptyMesh
	}

	if len(out.Normals) != len(out.Positions) {
		out.Normals = nil
		stats.NormalsSynthesized = true
		stats.DegenerateNormals = SynthesizeNormals(out)
	}

	return out, stats, nil
}

// Build is a convenience wrapper around a one-off Builder.
func Build(src *Source, opts BuildOptions) (*Mesh, Stats, error) {
	return NewBuilder(opts).Build(src)
}

// checkCorner validates the indices a corner will dereference.
func checkCorner(src *Source, c Corner) error {
	if c.Position < 0 || int(c.Position) >= len(src.Positions) {
		return fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, c.Position, len(src.Positions))
	}
	if c.Normal >= 0 && int(c.Normal) >= len(src.Normals) {
		return fmt.Errorf("%w: normal %d of %d", ErrIndexOutOfRange, c.Normal, len(src.Normals))
	}
	if c.TexCoord >= 0 && int(c.TexCoord) >= len(src.TexCoords) {
		return fmt.Errorf("%w: texcoord %d of %d", ErrIndexOutOfRange, c.TexCoord, len(src.TexCoords))
	}
	return nil
}

