package loaders

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/math"
)

// Component types and accessor element kinds from the glTF 2.0 schema.
const (
	gltfComponentUByte  = 5121
	gltfComponentUShort = 5123
	gltfComponentUInt   = 5125
	gltfComponentFloat  = 5126
)

type gltfDocument struct {
	Asset       gltfAsset      `json:"asset"`
	Meshes      []gltfMesh     `json:"meshes"`
	Accessors   []gltfAccessor `json:"accessors"`
	BufferViews []gltfView     `json:"bufferViews"`
	Buffers     []gltfBuffer   `json:"buffers"`
}

type gltfAsset struct {
	Version string `json:"version"`
}

type gltfMesh struct {
	Name       string          `json:"name"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type gltfView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

type gltfBuffer struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`

	data []byte
}

// MeshData is the loader's output for one glTF primitive: deinterleaved
// attributes recombined into the engine's vertex layout, plus u32
// indices. Primitives without an index accessor get an identity index
// list; missing normals and UVs are zero-filled.
type MeshData struct {
	Name     string
	Vertices []math.Vertex3D
	Indices  []uint32
}

type GLTFLoader struct{}

// Load parses a .gltf JSON document and returns one MeshData per
// primitive. Buffers referenced through data: URIs are decoded inline;
// other URIs are read relative to the document's directory.
func (gl *GLTFLoader) Load(path string) ([]*MeshData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return gl.parse(raw, filepath.Dir(path))
}

func (gl *GLTFLoader) parse(raw []byte, baseDir string) ([]*MeshData, error) {
	var doc gltfDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("unsupported glTF version %q", doc.Asset.Version)
	}

	for i := range doc.Buffers {
		if err := loadGLTFBuffer(&doc.Buffers[i], baseDir); err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
	}

	var out []*MeshData
	for _, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			md, err := buildPrimitive(&doc, mesh.Name, pi, &prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
			}
			out = append(out, md)
		}
	}
	return out, nil
}

func loadGLTFBuffer(buf *gltfBuffer, baseDir string) error {
	if strings.HasPrefix(buf.URI, "data:") {
		comma := strings.IndexByte(buf.URI, ',')
		if comma < 0 {
			return fmt.Errorf("malformed data URI")
		}
		data, err := base64.StdEncoding.DecodeString(buf.URI[comma+1:])
		if err != nil {
			return fmt.Errorf("failed to decode data URI: %w", err)
		}
		buf.data = data
	} else {
		data, err := os.ReadFile(filepath.Join(baseDir, buf.URI))
		if err != nil {
			return err
		}
		buf.data = data
	}
	if len(buf.data) < buf.ByteLength {
		return fmt.Errorf("buffer holds %d bytes, document declares %d", len(buf.data), buf.ByteLength)
	}
	return nil
}

func buildPrimitive(doc *gltfDocument, meshName string, primIndex int, prim *gltfPrimitive) (*MeshData, error) {
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := readVec3(doc, posIndex)
	if err != nil {
		return nil, fmt.Errorf("POSITION: %w", err)
	}

	vertices := make([]math.Vertex3D, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
	}

	if ni, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := readVec3(doc, ni)
		if err != nil {
			return nil, fmt.Errorf("NORMAL: %w", err)
		}
		for i := range vertices {
			if i < len(normals) {
				vertices[i].Normal = normals[i]
			}
		}
	}
	if ti, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := readVec2(doc, ti)
		if err != nil {
			return nil, fmt.Errorf("TEXCOORD_0: %w", err)
		}
		for i := range vertices {
			if i < len(uvs) {
				vertices[i].UV = uvs[i]
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	name := meshName
	if name == "" {
		name = fmt.Sprintf("mesh-%d", primIndex)
	} else if primIndex > 0 {
		name = fmt.Sprintf("%s-%d", name, primIndex)
	}

	return &MeshData{Name: name, Vertices: vertices, Indices: indices}, nil
}

// accessorBytes resolves an accessor to its backing bytes plus the
// element stride (the view's byteStride, or tight packing when absent).
func accessorBytes(doc *gltfDocument, index, elementSize int) ([]byte, int, *gltfAccessor, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, 0, nil, fmt.Errorf("accessor %d out of range", index)
	}
	acc := &doc.Accessors[index]
	if acc.Count <= 0 {
		return nil, 0, nil, fmt.Errorf("accessor %d has invalid count %d", index, acc.Count)
	}
	if acc.BufferView == nil {
		return nil, 0, nil, fmt.Errorf("accessor %d has no buffer view", index)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, 0, nil, fmt.Errorf("buffer view %d out of range", *acc.BufferView)
	}
	view := &doc.BufferViews[*acc.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
		return nil, 0, nil, fmt.Errorf("buffer %d out of range", view.Buffer)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}

	start := view.ByteOffset + acc.ByteOffset
	need := start + (acc.Count-1)*stride + elementSize
	data := doc.Buffers[view.Buffer].data
	if start < 0 || need > len(data) {
		return nil, 0, nil, fmt.Errorf("accessor %d overruns buffer (%d > %d)", index, need, len(data))
	}
	return data[start:], stride, acc, nil
}

func readVec3(doc *gltfDocument, index int) ([]math.Vec3, error) {
	data, stride, acc, err := accessorBytes(doc, index, 12)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC3" || acc.ComponentType != gltfComponentFloat {
		return nil, fmt.Errorf("accessor %d is %s/%d, want VEC3/float", index, acc.Type, acc.ComponentType)
	}
	out := make([]math.Vec3, acc.Count)
	for i := 0; i < acc.Count; i++ {
		base := i * stride
		out[i] = math.NewVec3(f32At(data, base), f32At(data, base+4), f32At(data, base+8))
	}
	return out, nil
}

func readVec2(doc *gltfDocument, index int) ([]math.Vec2, error) {
	data, stride, acc, err := accessorBytes(doc, index, 8)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC2" || acc.ComponentType != gltfComponentFloat {
		return nil, fmt.Errorf("accessor %d is %s/%d, want VEC2/float", index, acc.Type, acc.ComponentType)
	}
	out := make([]math.Vec2, acc.Count)
	for i := 0; i < acc.Count; i++ {
		base := i * stride
		out[i] = math.NewVec2(f32At(data, base), f32At(data, base+4))
	}
	return out, nil
}

// readIndices widens u8 and u16 index accessors to the u32 the index
// buffers use.
func readIndices(doc *gltfDocument, index int) ([]uint32, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	var elementSize int
	switch doc.Accessors[index].ComponentType {
	case gltfComponentUByte:
		elementSize = 1
	case gltfComponentUShort:
		elementSize = 2
	case gltfComponentUInt:
		elementSize = 4
	default:
		return nil, fmt.Errorf("accessor %d: unsupported index component type %d", index, doc.Accessors[index].ComponentType)
	}

	data, stride, acc, err := accessorBytes(doc, index, elementSize)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("accessor %d is %s, want SCALAR", index, acc.Type)
	}

	out := make([]uint32, acc.Count)
	for i := 0; i < acc.Count; i++ {
		base := i * stride
		switch elementSize {
		case 1:
			out[i] = uint32(data[base])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[base:]))
		case 4:
			out[i] = binary.LittleEndian.Uint32(data[base:])
		}
	}
	return out, nil
}

func f32At(data []byte, offset int) float32 {
	return math32.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}
