package metadata

import (
	"encoding/binary"

	"github.com/chewxy/math32"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/math"
)

// PackVertices serializes vertices into the interleaved little-endian
// layout the vertex shader consumes: position, normal, uv at a 32-byte
// stride.
func PackVertices(vertices []math.Vertex3D) []byte {
	out := make([]byte, 0, len(vertices)*math.Vertex3DStride)
	for _, v := range vertices {
		out = appendFloat32(out, v.Position.X, v.Position.Y, v.Position.Z)
		out = appendFloat32(out, v.Normal.X, v.Normal.Y, v.Normal.Z)
		out = appendFloat32(out, v.UV.X, v.UV.Y)
	}
	return out
}

// PackIndices serializes indices as little-endian uint32 values.
func PackIndices(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}

func appendFloat32(dst []byte, values ...float32) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint32(dst, math32.Float32bits(v))
	}
	return dst
}
