package types

import "testing"

func TestOrthoLookAtMapsBoxCorners(t *testing.T) {
	view := LookAtV(XYZ(0, 2, 0), XYZ(0, -2, 0), XYZ(0, 0, -1))
	proj := Ortho4(-1, 1, -1, 1, 0, 4)
	m := proj.Mul4(view)

	type spec struct {
		in  Vec3
		exp Vec3
	}
	specs := []spec{
		{XYZ(0, 2, 0), XYZ(0, 0, -1)},
		{XYZ(0, -2, 0), XYZ(0, 0, 1)},
		{XYZ(0, 0, 0), XYZ(0, 0, 0)},
		{XYZ(1, 0, 0), XYZ(1, 0, 0)},
	}

	for index, s := range specs {
		out := m.TransformPoint(s.in)
		if !ApproxEqual(out, s.exp, 1e-5) {
			t.Fatalf("[spec %d] expected %v to map to %v; got %v", index, s.in, s.exp, out)
		}
	}
}

func TestRotateZeroAxis(t *testing.T) {
	if Rotate4(1.0, Vec3{}) != Ident4() {
		t.Fatal("expected rotation around a zero axis to yield the identity matrix")
	}
}

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	m := Scale4(XYZ(2, 1, 1))
	n := m.NormalMatrix().TransformDir(XYZ(1, 1, 0)).Normalize()
	exp := XYZ(0.5, 1, 0).Normalize()
	if !ApproxEqual(n, exp, 1e-5) {
		t.Fatalf("expected transformed normal to be %v; got %v", exp, n)
	}
}

func TestQuatMatchesRotationMatrix(t *testing.T) {
	axis := XYZ(1, 2, 3)
	angle := float32(0.7)

	q := QuatFromAxisAngle(axis, angle)
	v := XYZ(-1, 0.5, 2)

	fromQuat := q.Rotate(v)
	fromQuatMat := q.Mat4().TransformDir(v)
	fromRot := Rotate4(angle, axis).TransformDir(v)

	if !ApproxEqual(fromQuat, fromRot, 1e-4) {
		t.Fatalf("expected quaternion rotation %v to match matrix rotation %v", fromQuat, fromRot)
	}
	if !ApproxEqual(fromQuatMat, fromRot, 1e-4) {
		t.Fatalf("expected quaternion matrix rotation %v to match matrix rotation %v", fromQuatMat, fromRot)
	}
}
