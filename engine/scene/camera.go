package scene

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/jbryan2ufl/go-graphics-sandbox/engine/math"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
)

/**
 * @brief A perspective camera entity. The GPU-visible state is one uniform
 * buffer holding the combined view-projection matrix; UpdateUniform derives
 * it from the public fields and the camera-sync routine pushes it to the
 * GPU once per frame, so a field change made before the render phase is
 * visible in the same frame's uniform.
 */
type Camera struct {
	Eye    math.Vec3
	Center math.Vec3
	Up     math.Vec3

	Fov         float32
	AspectRatio float32
	ZNear       float32
	ZFar        float32

	view       math.Mat4
	projection math.Mat4
	uniform    math.Mat4

	// Uniform | CopyDst buffer, 64 bytes. Unrealized until the deferred
	// create for it executes.
	Buffer *metadata.Buffer
}

func NewCamera(aspectRatio float32) *Camera {
	c := &Camera{
		Eye:         math.NewVec3(0.0, 0.0, 5.0),
		Center:      math.NewVec3Zero(),
		Up:          math.NewVec3Up(),
		Fov:         math.DegToRad(70.0),
		AspectRatio: aspectRatio,
		ZNear:       0.1,
		ZFar:        1000.0,
		Buffer:      metadata.NewBuffer(metadata.BufferUsageUniform | metadata.BufferUsageCopyDst),
	}
	c.UpdateUniform()
	return c
}

// UpdateUniform recomputes view, projection and the combined uniform from
// the current fields. Pure function of the fields: calling it twice with
// no changes in between produces bit-identical output.
func (c *Camera) UpdateUniform() {
	c.view = math.NewMat4LookAt(c.Eye, c.Center, c.Up)
	c.projection = math.NewMat4Perspective(c.Fov, c.AspectRatio, c.ZNear, c.ZFar)
	c.uniform = c.projection.Mul(c.view)
}

// ViewProjection returns the combined matrix as of the last UpdateUniform.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.uniform
}

// UniformBytes serializes the combined matrix as 16 little-endian float32
// values, the layout the shader's uniform block expects.
func (c *Camera) UniformBytes() []byte {
	out := make([]byte, 64)
	for i, f := range c.uniform.Data {
		binary.LittleEndian.PutUint32(out[i*4:], math32.Float32bits(f))
	}
	return out
}

// DebugString formats the full camera state for the debug overlay.
func (c *Camera) DebugString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Eye: (%.3f, %.3f, %.3f)\n", c.Eye.X, c.Eye.Y, c.Eye.Z)
	fmt.Fprintf(&sb, "Center: (%.3f, %.3f, %.3f)\n", c.Center.X, c.Center.Y, c.Center.Z)
	fmt.Fprintf(&sb, "Up: (%.3f, %.3f, %.3f)\n", c.Up.X, c.Up.Y, c.Up.Z)
	fmt.Fprintf(&sb, "FOV: %.4f  Z: [%.2f, %.2f]\n", c.Fov, c.ZNear, c.ZFar)
	sb.WriteString("View:\n")
	sb.WriteString(prettyMat4(&c.view))
	sb.WriteString("Projection:\n")
	sb.WriteString(prettyMat4(&c.projection))
	sb.WriteString("Uniform:\n")
	sb.WriteString(prettyMat4(&c.uniform))
	return sb.String()
}

func prettyMat4(m *math.Mat4) string {
	var sb strings.Builder
	for row := 0; row < 4; row++ {
		sb.WriteString("    [ ")
		for col := 0; col < 4; col++ {
			fmt.Fprintf(&sb, "%8.4f", m.Data[col*4+row])
			if col != 3 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(" ]\n")
	}
	return sb.String()
}
