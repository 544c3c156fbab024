package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a position, an Euler rotation in radians applied X then Y then
// Z (intrinsic, so the matrix is Rx*Ry*Rz), and a scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.Vec3{0, 0, 0},
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func EulerXYZ(r mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r.X()).
		Mul4(mgl32.HomogRotate3DY(r.Y())).
		Mul4(mgl32.HomogRotate3DZ(r.Z()))
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(EulerXYZ(t.Rotation)).Mul4(scale)
}

// WorldToObject inverts ObjectToWorld from its parts instead of a general 4x4 inverse.
func (t Transform) WorldToObject() mgl32.Mat4 {
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := EulerXYZ(t.Rotation).Transpose()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}
