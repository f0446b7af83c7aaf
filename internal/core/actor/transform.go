package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	DefaultLook = mgl64.Vec3{0, 0, -1}
	DefaultUp   = mgl64.Vec3{0, 1, 0}
)

// Transform holds translation, rotation (Euler degrees: pitch about X, yaw
// about Y, roll about Z) and scale. The world matrix is rebuilt lazily the
// first time it is read after any component changes.
type Transform struct {
	translation mgl64.Vec3
	rotation    mgl64.Vec3
	scale       mgl64.Vec3

	// look/up before rotation is applied
	originalLook mgl64.Vec3
	originalUp   mgl64.Vec3

	world mgl64.Mat4
	dirty bool
}

func NewTransform(translation, rotation, scale, look, up mgl64.Vec3) *Transform {
	if look.Len() == 0 {
		look = DefaultLook
	}
	if up.Len() == 0 {
		up = DefaultUp
	}
	return &Transform{
		translation:  translation,
		rotation:     rotation,
		scale:        scale,
		originalLook: look.Normalize(),
		originalUp:   up.Normalize(),
		dirty:        true,
	}
}

// NewTransformAt is a transform with no rotation and the default look/up basis.
func NewTransformAt(translation, scale mgl64.Vec3) *Transform {
	return NewTransform(translation, mgl64.Vec3{}, scale, DefaultLook, DefaultUp)
}

// Identity is a transform at the origin with unit scale.
func Identity() *Transform {
	return NewTransformAt(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
}

func (t *Transform) Translation() mgl64.Vec3 { return t.translation }
func (t *Transform) Rotation() mgl64.Vec3    { return t.rotation }
func (t *Transform) Scale() mgl64.Vec3       { return t.scale }

func (t *Transform) SetTranslation(v mgl64.Vec3) {
	t.translation = v
	t.dirty = true
}

func (t *Transform) TranslateBy(delta mgl64.Vec3) {
	t.SetTranslation(t.translation.Add(delta))
}

func (t *Transform) SetRotation(degrees mgl64.Vec3) {
	t.rotation = degrees
	t.dirty = true
}

func (t *Transform) RotateBy(degrees mgl64.Vec3) {
	t.SetRotation(t.rotation.Add(degrees))
}

func (t *Transform) SetScale(v mgl64.Vec3) {
	t.scale = v
	t.dirty = true
}

// ScaleBy multiplies the scale component-wise.
func (t *Transform) ScaleBy(factor mgl64.Vec3) {
	t.SetScale(mgl64.Vec3{t.scale[0] * factor[0], t.scale[1] * factor[1], t.scale[2] * factor[2]})
}

// Orientation converts the Euler rotation to a quaternion (yaw, then pitch, then roll).
func (t *Transform) Orientation() mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(t.rotation[1]),
		mgl64.DegToRad(t.rotation[0]),
		mgl64.DegToRad(t.rotation[2]),
		mgl64.YXZ,
	)
}

func (t *Transform) Look() mgl64.Vec3 {
	return t.Orientation().Rotate(t.originalLook).Normalize()
}

func (t *Transform) Up() mgl64.Vec3 {
	return t.Orientation().Rotate(t.originalUp).Normalize()
}

func (t *Transform) Right() mgl64.Vec3 {
	return t.Look().Cross(t.Up()).Normalize()
}

// FaceTowards sets yaw and pitch so that Look points along dir. Roll is
// kept. Assumes the default look basis.
func (t *Transform) FaceTowards(dir mgl64.Vec3) {
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	pitch := mgl64.RadToDeg(math.Asin(mgl64.Clamp(dir[1], -1, 1)))
	yaw := mgl64.RadToDeg(math.Atan2(-dir[0], -dir[2]))
	t.SetRotation(mgl64.Vec3{pitch, yaw, t.rotation[2]})
}

// World returns scale, then rotation, then translation as one matrix.
func (t *Transform) World() mgl64.Mat4 {
	if t.dirty {
		s := mgl64.Scale3D(t.scale[0], t.scale[1], t.scale[2])
		r := t.Orientation().Mat4()
		tr := mgl64.Translate3D(t.translation[0], t.translation[1], t.translation[2])
		t.world = tr.Mul4(r).Mul4(s)
		t.dirty = false
	}
	return t.world
}

// Radius approximates a bounding sphere from the largest scale component.
func (t *Transform) Radius() float64 {
	r := t.scale[0]
	if t.scale[1] > r {
		r = t.scale[1]
	}
	if t.scale[2] > r {
		r = t.scale[2]
	}
	return r / 2
}

// Clone returns an independent copy.
func (t *Transform) Clone() *Transform {
	c := *t
	return &c
}
