// Package objsource adapts the g3n Wavefront OBJ decoder to mesh.Source.
//
// Polygons are fan-triangulated around their first corner. Normal and
// texture coordinate references outside the decoded attribute arrays are
// treated as absent; out-of-range position references are passed through so
// the mesh builder can reject them.
package objsource

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"github.com/pkg/errors"

	"github.com/Faultbox/mapmodel/internal/engine/mesh"
	"github.com/Faultbox/mapmodel/pkg/math"
)

// ErrNotOBJ is returned when a stream yields no geometry and contains lines
// that are not OBJ statements. The decoder skips such lines silently.
var ErrNotOBJ = errors.New("no OBJ statements found")

var keywords = map[string]bool{
	"v": true, "vn": true, "vt": true, "vp": true,
	"f": true, "l": true, "p": true,
	"o": true, "g": true, "s": true,
	"mtllib": true, "usemtl": true,
}

// Decode parses an OBJ stream. Material libraries are ignored.
// The returned warnings come from the decoder and from skipped faces.
func Decode(r io.Reader) (*mesh.Source, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading obj")
	}
	dec, err := obj.DecodeReader(bytes.NewReader(data), strings.NewReader(""))
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding obj")
	}
	src, warnings, err := convert(dec)
	if err != nil {
		return nil, warnings, err
	}
	if len(src.Positions) == 0 && len(src.Faces) == 0 {
		if line, ok := foreignLine(data); ok {
			return nil, warnings, errors.Wrapf(ErrNotOBJ, "line %d", line)
		}
	}
	return src, warnings, nil
}

// foreignLine returns the number of the first non-blank line that is neither
// a comment nor a known statement.
func foreignLine(data []byte) (int, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(nil, len(data)+1)
	for n := 1; sc.Scan(); n++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if !keywords[fields[0]] {
			return n, true
		}
	}
	return 0, false
}

// Load opens and decodes an OBJ file.
func Load(path string) (*mesh.Source, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	src, warnings, err := Decode(f)
	if err != nil {
		return nil, warnings, errors.Wrapf(err, "loading %s", path)
	}
	return src, warnings, nil
}

func convert(dec *obj.Decoder) (*mesh.Source, []string, error) {
	src := &mesh.Source{
		Positions: vec3s(dec.Vertices),
		Normals:   vec3s(dec.Normals),
		TexCoords: vec2s(dec.Uvs),
	}
	warnings := append([]string(nil), dec.Warnings...)

	for _, object := range dec.Objects {
		for i, face := range object.Faces {
			n := len(face.Vertices)
			if n < 3 {
				warnings = append(warnings, fmt.Sprintf("object %s: skipped face %d with fewer than 3 corners", object.Name, i))
				continue
			}
			corner := func(k int) mesh.Corner {
				return mesh.Corner{
					Position: position(face.Vertices[k]),
					Normal:   optional(face.Normals, k, len(src.Normals)),
					TexCoord: optional(face.Uvs, k, len(src.TexCoords)),
				}
			}
			first := corner(0)
			for k := 1; k+1 < n; k++ {
				src.Faces = append(src.Faces, mesh.Face{first, corner(k), corner(k + 1)})
			}
		}
	}
	return src, warnings, nil
}

func position(idx int) int32 {
	if idx < 0 || idx > stdmath.MaxInt32 {
		return stdmath.MaxInt32
	}
	return int32(idx)
}

// optional resolves the k-th reference of a per-corner index list, returning
// mesh.NoIndex when it is missing or does not address one of count elements.
func optional(refs []int, k, count int) int32 {
	if k >= len(refs) {
		return mesh.NoIndex
	}
	idx := refs[k]
	if idx < 0 || idx >= count {
		return mesh.NoIndex
	}
	return int32(idx)
}

func vec3s(flat []float32) []math.Vec3 {
	if len(flat) < 3 {
		return nil
	}
	out := make([]math.Vec3, len(flat)/3)
	for i := range out {
		out[i] = math.Vec3{X: flat[i*3], Y: flat[i*3+1], Z: flat[i*3+2]}
	}
	return out
}

func vec2s(flat []float32) []math.Vec2 {
	if len(flat) < 2 {
		return nil
	}
	out := make([]math.Vec2, len(flat)/2)
	for i := range out {
		out[i] = math.Vec2{X: flat[i*2], Y: flat[i*2+1]}
	}
	return out
}
