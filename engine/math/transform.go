package math

func TransformCreate() Transform {
	return Transform{
		Position: NewVec3Zero(),
		Rotation: NewQuatIdentity(),
		Scale:    NewVec3One(),
	}
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
	}
}

// TransformFromMat4 decomposes an affine matrix, see Mat4.Decompose.
func TransformFromMat4(m Mat4) Transform {
	return m.Decompose()
}

// ToMat4 composes scale, then rotation, then translation.
func (t Transform) ToMat4() Mat4 {
	return NewMat4Scale(t.Scale).Mul(t.Rotation.ToMat4()).Mul(NewMat4Translation(t.Position))
}

// ScaleTranslation returns a copy with the translation multiplied by factor.
// Rotation and scale are unit-less and stay untouched.
func (t Transform) ScaleTranslation(factor float32) Transform {
	t.Position = t.Position.MulScalar(factor)
	return t
}

// Relative returns t expressed in the space of parent, both given in the same space.
func (t Transform) Relative(parent Transform) Transform {
	return t.ToMat4().Mul(parent.ToMat4().Inverse()).Decompose()
}

func (t Transform) Compare(other Transform, tolerance float32) bool {
	return t.Position.Compare(other.Position, tolerance) &&
		t.Rotation.Compare(other.Rotation, tolerance) &&
		t.Scale.Compare(other.Scale, tolerance)
}
