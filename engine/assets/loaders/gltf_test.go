package loaders

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/math"
)

// buildTriangleGLTF assembles a one-primitive document: three positions,
// u16 indices, no normals or UVs. Positions first in the buffer, indices
// after.
func buildTriangleGLTF(t *testing.T) string {
	t.Helper()

	positions := []float32{
		0.0, 0.5, 0.0,
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
	}
	indices := []uint16{0, 1, 2}

	buf := make([]byte, 0, len(positions)*4+len(indices)*2)
	for _, f := range positions {
		buf = binary.LittleEndian.AppendUint32(buf, math32.Float32bits(f))
	}
	indexOffset := len(buf)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": %d},
    {"buffer": 0, "byteOffset": %d, "byteLength": %d}
  ],
  "buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}]
}`, indexOffset, indexOffset, len(indices)*2, base64.StdEncoding.EncodeToString(buf), len(buf))

	path := filepath.Join(t.TempDir(), "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestGLTFLoaderTriangle(t *testing.T) {
	loader := &GLTFLoader{}
	meshes, err := loader.Load(buildTriangleGLTF(t))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	mesh := meshes[0]
	assert.Equal(t, "tri", mesh.Name)
	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)

	assert.Equal(t, math.NewVec3(0, 0.5, 0), mesh.Vertices[0].Position)
	assert.Equal(t, math.NewVec3(-0.5, -0.5, 0), mesh.Vertices[1].Position)
	assert.Equal(t, math.NewVec3(0.5, -0.5, 0), mesh.Vertices[2].Position)

	// No NORMAL or TEXCOORD_0 accessors: attributes come back zeroed.
	for _, v := range mesh.Vertices {
		assert.Equal(t, math.NewVec3Zero(), v.Normal)
		assert.Equal(t, math.NewVec2(0, 0), v.UV)
	}
}

func TestGLTFLoaderIdentityIndicesWhenAbsent(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	buf := make([]byte, 0, len(positions)*4)
	for _, f := range positions {
		buf = binary.LittleEndian.AppendUint32(buf, math32.Float32bits(f))
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
  "buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}]
}`, len(buf), base64.StdEncoding.EncodeToString(buf), len(buf))

	path := filepath.Join(t.TempDir(), "points.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loader := &GLTFLoader{}
	meshes, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, []uint32{0, 1, 2}, meshes[0].Indices)
	assert.Equal(t, "mesh-0", meshes[0].Name)
}

func TestGLTFLoaderRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.gltf")
	require.NoError(t, os.WriteFile(path, []byte(`{"asset": {"version": "1.0"}}`), 0o644))

	loader := &GLTFLoader{}
	_, err := loader.Load(path)
	assert.ErrorContains(t, err, "unsupported glTF version")
}

// A zero-count accessor with an offset past the end of its buffer must
// come back as an error, not index out of range.
func TestGLTFLoaderRejectsZeroCountAccessor(t *testing.T) {
	buf := []byte{0, 0, 0, 0}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"bufferView": 0, "byteOffset": 100, "componentType": 5126, "count": 0, "type": "VEC3"}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
  "buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}]
}`, len(buf), base64.StdEncoding.EncodeToString(buf), len(buf))

	path := filepath.Join(t.TempDir(), "empty.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loader := &GLTFLoader{}
	_, err := loader.Load(path)
	assert.ErrorContains(t, err, "invalid count")
}

func TestGLTFLoaderRejectsAccessorOverrun(t *testing.T) {
	buf := []byte{0, 0, 0, 0}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"bufferView": 0, "byteOffset": 100, "componentType": 5126, "count": 1, "type": "VEC3"}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
  "buffers": [{"uri": "data:application/octet-stream;base64,%s", "byteLength": %d}]
}`, len(buf), base64.StdEncoding.EncodeToString(buf), len(buf))

	path := filepath.Join(t.TempDir(), "overrun.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loader := &GLTFLoader{}
	_, err := loader.Load(path)
	assert.ErrorContains(t, err, "overruns buffer")
}

func TestGLTFLoaderExternalBuffer(t *testing.T) {
	dir := t.TempDir()

	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	buf := make([]byte, 0, len(positions)*4)
	for _, f := range positions {
		buf = binary.LittleEndian.AppendUint32(buf, math32.Float32bits(f))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mesh.bin"), buf, 0o644))

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "meshes": [{"name": "ext", "primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
  "buffers": [{"uri": "mesh.bin", "byteLength": %d}]
}`, len(buf), len(buf))

	path := filepath.Join(dir, "ext.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loader := &GLTFLoader{}
	meshes, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, math.NewVec3(1, 0, 0), meshes[0].Vertices[1].Position)
}
