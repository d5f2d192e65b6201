// Package gltfsource reads triangle primitives from glTF 2.0 documents into a
// mesh.Source. Every primitive's vertices are appended in document order and
// node transforms are not applied.
package gltfsource

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/mapmodel/internal/engine/mesh"
	"github.com/Faultbox/mapmodel/pkg/math"
)

// Decode reads a .gltf or .glb stream. Buffers must be embedded.
func Decode(r io.Reader) (*mesh.Source, []string, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, nil, errors.Wrap(err, "decoding gltf")
	}
	return Convert(doc)
}

// Load opens a .gltf or .glb file, resolving external buffers relative to it.
func Load(path string) (*mesh.Source, []string, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s", path)
	}
	src, warnings, err := Convert(doc)
	if err != nil {
		return nil, warnings, errors.Wrapf(err, "loading %s", path)
	}
	return src, warnings, nil
}

// Convert flattens every triangle primitive of doc into one source.
// Primitives drawn in other modes are skipped with a warning.
func Convert(doc *gltf.Document) (*mesh.Source, []string, error) {
	src := &mesh.Source{}
	var warnings []string

	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				warnings = append(warnings, fmt.Sprintf("mesh %d primitive %d: skipped non-triangle mode", mi, pi))
				continue
			}
			if err := appendPrimitive(doc, prim, src); err != nil {
				return nil, warnings, errors.Wrapf(err, "mesh %d primitive %d", mi, pi)
			}
		}
	}
	return src, warnings, nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, src *mesh.Source) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return errors.New("primitive has no POSITION attribute")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return errors.Wrap(err, "reading positions")
	}

	posBase := int32(len(src.Positions))
	normalBase, texBase := mesh.NoIndex, mesh.NoIndex

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return err
		}
		normals, err := modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return errors.Wrap(err, "reading normals")
		}
		if len(normals) == len(positions) {
			normalBase = int32(len(src.Normals))
			for _, n := range normals {
				src.Normals = append(src.Normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
			}
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acr, nil)
		if err != nil {
			return errors.Wrap(err, "reading texture coordinates")
		}
		if len(uvs) == len(positions) {
			texBase = int32(len(src.TexCoords))
			for _, uv := range uvs {
				src.TexCoords = append(src.TexCoords, math.Vec2{X: uv[0], Y: uv[1]})
			}
		}
	}

	for _, p := range positions {
		src.Positions = append(src.Positions, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return err
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return errors.Wrap(err, "reading indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, i := range indices {
		if int(i) >= len(positions) {
			return errors.Wrapf(mesh.ErrIndexOutOfRange, "index %d of %d vertices", i, len(positions))
		}
	}

	// A corner shares one index across all attributes.
	corner := func(i uint32) mesh.Corner {
		c := mesh.Corner{Position: posBase + int32(i), Normal: mesh.NoIndex, TexCoord: mesh.NoIndex}
		if normalBase != mesh.NoIndex {
			c.Normal = normalBase + int32(i)
		}
		if texBase != mesh.NoIndex {
			c.TexCoord = texBase + int32(i)
		}
		return c
	}
	for i := 0; i+2 < len(indices); i += 3 {
		src.Faces = append(src.Faces, mesh.Face{corner(indices[i]), corner(indices[i+1]), corner(indices[i+2])})
	}
	return nil
}

func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d of %d", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}
