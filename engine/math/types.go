package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat4 is a 4x4 matrix stored column-major: Data[col*4+row]. This matches
// the memory layout GPU uniform blocks expect, so Data can be copied to a
// uniform buffer without reshuffling.
type Mat4 struct {
	Data [16]float32
}

// Vertex3D is a single vertex as the GPU vertex buffers store it:
// position, normal, uv, interleaved at a 32-byte stride.
type Vertex3D struct {
	Position Vec3
	Normal   Vec3
	UV       Vec2
}

// Vertex3DStride is the byte stride of one interleaved vertex.
const Vertex3DStride = 32
