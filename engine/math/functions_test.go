package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	assert.Equal(t, NewVec3(0, 0, 1), x.Cross(y))
	assert.Equal(t, NewVec3(0, 0, -1), y.Cross(x))
}

func TestVec3Normalized(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalized()
	assert.InDelta(t, 0.6, v.X, 1e-6)
	assert.InDelta(t, 0.8, v.Z, 1e-6)
	assert.InDelta(t, 1.0, v.Length(), 1e-6)

	// Zero vector must not produce NaNs.
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalized())
}

func TestMat4MulIdentity(t *testing.T) {
	m := NewMat4Perspective(DegToRad(70), 16.0/9.0, 0.1, 1000.0)
	assert.Equal(t, m, m.Mul(NewMat4Identity()))
	assert.Equal(t, m, NewMat4Identity().Mul(m))
}

// A camera at +5 on z looking at the origin translates points by -5 in z
// and leaves the axes untouched.
func TestMat4LookAtAxisAligned(t *testing.T) {
	view := NewMat4LookAt(NewVec3(0, 0, 5), NewVec3Zero(), NewVec3Up())

	assert.InDelta(t, 1.0, view.Data[0], 1e-6)  // right = +x
	assert.InDelta(t, 1.0, view.Data[5], 1e-6)  // up = +y
	assert.InDelta(t, 1.0, view.Data[10], 1e-6) // -forward = +z
	assert.InDelta(t, 0.0, view.Data[12], 1e-6)
	assert.InDelta(t, 0.0, view.Data[13], 1e-6)
	assert.InDelta(t, -5.0, view.Data[14], 1e-6)
	assert.InDelta(t, 1.0, view.Data[15], 1e-6)
}

func TestMat4PerspectiveShape(t *testing.T) {
	proj := NewMat4Perspective(DegToRad(90), 1.0, 1.0, 10.0)

	// tan(45 deg) == 1, so both focal terms are 1.
	assert.InDelta(t, 1.0, proj.Data[0], 1e-5)
	assert.InDelta(t, 1.0, proj.Data[5], 1e-5)
	assert.InDelta(t, -11.0/9.0, proj.Data[10], 1e-5)
	assert.InDelta(t, -1.0, proj.Data[11], 1e-6)
	assert.InDelta(t, -20.0/9.0, proj.Data[14], 1e-5)
	assert.InDelta(t, 0.0, proj.Data[15], 1e-6)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(0.5, 1, 2))
	assert.Equal(t, float32(2), Clamp(3, 1, 2))
	assert.Equal(t, float32(1.5), Clamp(1.5, 1, 2))
}
