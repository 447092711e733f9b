package math

import "testing"

func TestQuaternionBasisRoundTrip(t *testing.T) {
	cases := []Quaternion{
		NewQuatIdentity(),
		NewQuatFromAxisAngle(NewVec3(0, 1, 0), 1.2),
		NewQuatFromAxisAngle(NewVec3(1, 0, 0), -2.9),
		NewQuatFromAxisAngle(NewVec3(0, 0, 1).Add(NewVec3(1, 1, 0)).Normalized(), 3.0),
	}
	for _, q := range cases {
		m := q.ToMat4()
		var basis [9]float32
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				basis[row*3+col] = m.Data[row*4+col]
			}
		}
		got := NewQuatFromBasis(basis)
		if !got.Compare(q, 1e-4) {
			t.Errorf("round trip of %+v gave %+v", q, got)
		}
	}
}

func TestTransformDecomposeRoundTrip(t *testing.T) {
	tr := TransformFromPositionRotationScale(
		NewVec3(1, -2, 3),
		NewQuatFromAxisAngle(NewVec3(0, 1, 0), 0.7),
		NewVec3(2, 2, 2),
	)
	got := TransformFromMat4(tr.ToMat4())
	if !got.Compare(tr, 1e-4) {
		t.Errorf("decompose = %+v, want %+v", got, tr)
	}
}

func TestMat4InverseIsInverse(t *testing.T) {
	tr := TransformFromPositionRotationScale(
		NewVec3(4, 5, 6),
		NewQuatFromAxisAngle(NewVec3(1, 0, 0), 0.3),
		NewVec3(1, 2, 3),
	)
	m := tr.ToMat4()
	if got := m.Mul(m.Inverse()); !got.Compare(NewMat4Identity(), 1e-4) {
		t.Errorf("m * inverse(m) = %v", got.Data)
	}
}

func TestTransformRelative(t *testing.T) {
	parent := TransformFromPositionRotationScale(NewVec3(0, 10, 0), NewQuatFromAxisAngle(NewVec3(0, 0, 1), 1.5707964), NewVec3One())
	local := TransformFromPositionRotationScale(NewVec3(1, 0, 0), NewQuatIdentity(), NewVec3One())
	world := TransformFromMat4(local.ToMat4().Mul(parent.ToMat4()))

	got := world.Relative(parent)
	if !got.Compare(local, 1e-4) {
		t.Errorf("Relative = %+v, want %+v", got, local)
	}
}

func TestPointTransformIsRowVector(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	if got := NewVec3Zero().Transform(m); !got.Compare(NewVec3(1, 2, 3), K_FLOAT_EPSILON) {
		t.Errorf("Transform = %+v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(15, 1, 12) != 12 || Clamp(-1, 0, 8) != 0 || Clamp(3, 1, 12) != 3 {
		t.Error("Clamp returned an out of range value")
	}
}
