package scene

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/vao/types"
)

// Mouse buttons understood by the manipulator.
const (
	ButtonRotate = 0
	ButtonZoom   = 1
)

const (
	// Scale applied to vertical drags while zooming.
	zoomScale float32 = 1.0

	// Arcball radius relative to half the smallest viewport dimension.
	ballSize float32 = 2.0
)

type operation uint8

const (
	opNone operation = iota
	opRotation
	opZoom
)

// An arcball Manipulator accumulates a rotation and zoom matrix from mouse
// drags. Dragging with the rotate button spins the scene around the
// reference point; dragging vertically with the zoom button scales it.
type Manipulator struct {
	reference types.Vec3
	matrix    types.Mat4

	op   operation
	x, y float32
	v    types.Vec3

	invertX, invertY bool

	// Viewport size in pixels.
	width, height int
}

// Create a manipulator for a viewport of the given size.
func NewManipulator(width, height int) *Manipulator {
	return &Manipulator{
		matrix: types.Ident4(),
		width:  width,
		height: height,
	}
}

// Update the viewport size.
func (m *Manipulator) SetViewport(width, height int) {
	m.width, m.height = width, height
}

// Set the point the rotation pivots around.
func (m *Manipulator) SetReferencePoint(p types.Vec3) {
	m.reference = p
}

// Set whether each mouse axis is inverted.
func (m *Manipulator) SetInvertAxis(invertX, invertY bool) {
	m.invertX, m.invertY = invertX, invertY
}

// Discard the accumulated transformation.
func (m *Manipulator) Reset() {
	m.matrix = types.Ident4()
	m.op = opNone
}

// Get the accumulated matrix for a camera looking down -Z.
func (m *Manipulator) Matrix() types.Mat4 {
	return m.MatrixFor(types.XYZ(0, 0, -1))
}

// Get the accumulated matrix adjusted for a camera looking along lookDir
// (center - eye).
func (m *Manipulator) MatrixFor(lookDir types.Vec3) types.Mat4 {
	toRef := types.Translate4(m.reference)
	fromRef := types.Translate4(m.reference.Mul(-1))

	manipDir := types.XYZ(0, 0, -1)
	lookDir = lookDir.Normalize()
	if lookDir.Sub(manipDir).Len() < 0.01 {
		return toRef.Mul4(m.matrix).Mul4(fromRef)
	}

	w := lookDir.Cross(manipDir)
	theta := asin(w.Len())
	return toRef.
		Mul4(types.Rotate4(-theta, w)).
		Mul4(m.matrix).
		Mul4(types.Rotate4(theta, w)).
		Mul4(fromRef)
}

// Handle a mouse button event. Only one operation can be active at a time.
func (m *Manipulator) MouseClick(button int, pressed bool, x, y float32) {
	m.setOperation(ButtonRotate, opRotation, button, pressed, x, y)
	m.setOperation(ButtonZoom, opZoom, button, pressed, x, y)
}

// Handle a cursor movement event.
func (m *Manipulator) MouseMotion(x, y float32) {
	switch m.op {
	case opNone:
		return
	case opRotation:
		v := m.sphereCoordinates(x, y)
		w := m.v.Cross(v)
		theta := asin(w.Len()) * ballSize
		if theta != 0 {
			m.matrix = types.Rotate4(theta, w).Mul4(m.matrix)
		}
		m.v = v
	case opZoom:
		if m.height > 0 {
			scale := 1 + zoomScale*(y-m.y)/float32(m.height)
			m.matrix = types.Scale4(types.XYZ(scale, scale, scale)).Mul4(m.matrix)
		}
	}

	m.x, m.y = x, y
}

func (m *Manipulator) setOperation(button int, op operation, pressedButton int, pressed bool, x, y float32) {
	if pressedButton != button {
		return
	}

	if pressed && m.op == opNone {
		m.op = op
		m.x, m.y = x, y
		m.v = m.sphereCoordinates(x, y)
	} else if !pressed && m.op == op {
		m.op = opNone
	}
}

// Project a cursor position onto the arcball.
func (m *Manipulator) sphereCoordinates(x, y float32) types.Vec3 {
	w, h := float32(m.width), float32(m.height)
	if m.invertX {
		x = w - x
	}
	if m.invertY {
		y = h - y
	}

	radius := math32.Min(w/2, h/2) * ballSize
	if radius <= 0 {
		return types.XYZ(0, 0, 1)
	}

	vx := (x - w/2) / radius
	vy := (h - y - h/2) / radius
	var vz float32

	dist := math32.Hypot(vx, vy)
	if dist > 1 {
		vx /= dist
		vy /= dist
	} else {
		vz = math32.Sqrt(1 - vx*vx - vy*vy)
	}
	return types.XYZ(vx, vy, vz)
}

func asin(v float32) float32 {
	return math32.Asin(math32.Min(1, v))
}
