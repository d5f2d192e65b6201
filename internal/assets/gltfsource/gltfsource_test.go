package gltfsource

import (
	"bytes"
	"errors"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/mapmodel/internal/engine/mesh"
)

var squarePositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func squareDoc(withNormals bool, indices []uint32) *gltf.Document {
	doc := gltf.NewDocument()
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, squarePositions),
	}
	if withNormals {
		attributes["NORMAL"] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	prim := &gltf.Primitive{Attributes: attributes}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "square", Primitives: []*gltf.Primitive{prim}})
	return doc
}

func TestConvertIndexed(t *testing.T) {
	src, warnings, err := Convert(squareDoc(false, []uint32{0, 1, 2, 0, 2, 3}))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(src.Positions) != 4 || len(src.Faces) != 2 {
		t.Fatalf("got %d positions, %d faces; want 4, 2", len(src.Positions), len(src.Faces))
	}
	want := mesh.Face{{Position: 0, Normal: -1, TexCoord: -1}, {Position: 2, Normal: -1, TexCoord: -1}, {Position: 3, Normal: -1, TexCoord: -1}}
	if src.Faces[1] != want {
		t.Errorf("face 1 = %+v, want %+v", src.Faces[1], want)
	}

	m, stats, err := mesh.Build(src, mesh.BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !stats.NormalsSynthesized {
		t.Error("normals should be synthesized")
	}
	for i, n := range m.Normals {
		if n.Z < 0.999 {
			t.Errorf("normal %d = %+v, want (0,0,1) without a winding flip", i, n)
		}
	}
}

func TestConvertSharedCornerIndex(t *testing.T) {
	src, _, err := Convert(squareDoc(true, []uint32{0, 1, 2, 0, 2, 3}))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for i, face := range src.Faces {
		for j, c := range face {
			if c.Normal != c.Position {
				t.Errorf("face %d corner %d: normal %d, position %d", i, j, c.Normal, c.Position)
			}
		}
	}

	_, stats, err := mesh.Build(src, mesh.BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if stats.NormalsSynthesized {
		t.Error("authored normals should be kept")
	}
}

func TestConvertNonIndexed(t *testing.T) {
	src, _, err := Convert(squareDoc(false, nil))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	// Four vertices drawn without indices form one triangle; the rest is dropped.
	if len(src.Faces) != 1 {
		t.Errorf("faces = %d, want 1", len(src.Faces))
	}
}

func TestConvertSkipsNonTriangles(t *testing.T) {
	doc := squareDoc(false, nil)
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	src, warnings, err := Convert(doc)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(src.Faces) != 0 {
		t.Errorf("faces = %d, want 0", len(src.Faces))
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
	if _, _, err := mesh.Build(src, mesh.BuildOptions{}); !errors.Is(err, mesh.ErrEmptyMesh) {
		t.Errorf("Build() error = %v, want ErrEmptyMesh", err)
	}
}

func TestConvertErrors(t *testing.T) {
	t.Run("index out of range", func(t *testing.T) {
		_, _, err := Convert(squareDoc(false, []uint32{0, 1, 7}))
		if !errors.Is(err, mesh.ErrIndexOutOfRange) {
			t.Errorf("error = %v, want ErrIndexOutOfRange", err)
		}
	})

	t.Run("missing position", func(t *testing.T) {
		doc := squareDoc(false, nil)
		delete(doc.Meshes[0].Primitives[0].Attributes, "POSITION")
		if _, _, err := Convert(doc); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestDecodeBinary(t *testing.T) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(squareDoc(true, []uint32{0, 1, 2, 0, 2, 3})); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	src, _, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(src.Positions) != 4 || len(src.Normals) != 4 || len(src.Faces) != 2 {
		t.Errorf("got %d positions, %d normals, %d faces", len(src.Positions), len(src.Normals), len(src.Faces))
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not gltf"))); err == nil {
		t.Error("Decode() should fail on garbage")
	}
}
