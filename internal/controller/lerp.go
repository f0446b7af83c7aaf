package controller

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type lerpTarget uint8

const (
	lerpTranslation lerpTarget = iota
	lerpRotation
	lerpScale
)

// SineLerpController oscillates one transform component about the value it
// had on the first tick: value = base + Axis * Trig.At(elapsed). Elapsed time
// only advances while the controller is playing, so a paused lerp resumes
// where it stopped.
type SineLerpController struct {
	actor.Base
	Axis mgl64.Vec3
	Trig TrigonometricParameters

	target  lerpTarget
	base    mgl64.Vec3
	hasBase bool
	elapsed time.Duration
}

func newSineLerp(id string, typ actor.ControllerType, target lerpTarget, axis mgl64.Vec3, trig TrigonometricParameters) *SineLerpController {
	return &SineLerpController{
		Base:   actor.NewBase(id, typ),
		Axis:   axis,
		Trig:   trig,
		target: target,
	}
}

// NewTranslationSineLerp bobs the owner's position along axis.
func NewTranslationSineLerp(id string, axis mgl64.Vec3, trig TrigonometricParameters) *SineLerpController {
	return newSineLerp(id, actor.ControllerTranslationLerp, lerpTranslation, axis, trig)
}

// NewRotationSineLerp swings the owner's rotation (degrees) about axis.
func NewRotationSineLerp(id string, axis mgl64.Vec3, trig TrigonometricParameters) *SineLerpController {
	return newSineLerp(id, actor.ControllerRotation, lerpRotation, axis, trig)
}

// NewScaleSineLerp pulses the owner's scale along axis.
func NewScaleSineLerp(id string, axis mgl64.Vec3, trig TrigonometricParameters) *SineLerpController {
	return newSineLerp(id, actor.ControllerScaleLerp, lerpScale, axis, trig)
}

func (c *SineLerpController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() {
		return
	}
	if !c.hasBase {
		c.base = c.get(a.Transform)
		c.hasBase = true
	}
	c.elapsed += dt
	c.set(a.Transform, c.base.Add(c.Axis.Mul(c.Offset())))
}

// Offset is the current displacement from the base value.
func (c *SineLerpController) Offset() float64 {
	return c.Trig.At(c.elapsed.Seconds())
}

// Elapsed returns the playing time accumulated so far.
func (c *SineLerpController) Elapsed() time.Duration { return c.elapsed }

// Reset forgets the captured base and the accumulated time.
func (c *SineLerpController) Reset() {
	c.hasBase = false
	c.elapsed = 0
}

func (c *SineLerpController) get(t *actor.Transform) mgl64.Vec3 {
	switch c.target {
	case lerpRotation:
		return t.Rotation()
	case lerpScale:
		return t.Scale()
	}
	return t.Translation()
}

func (c *SineLerpController) set(t *actor.Transform, v mgl64.Vec3) {
	switch c.target {
	case lerpRotation:
		t.SetRotation(v)
	case lerpScale:
		t.SetScale(v)
	default:
		t.SetTranslation(v)
	}
}

// ColorSineLerpController blends the owner's colour between Start and End.
// The blend factor is (1 + Trig.At(elapsed)) / 2, clamped to [0, 1], so an
// amplitude of 1 sweeps the whole range.
type ColorSineLerpController struct {
	actor.Base
	Start, End mgl64.Vec3
	Trig       TrigonometricParameters

	elapsed time.Duration
}

func NewColorSineLerp(id string, start, end mgl64.Vec3, trig TrigonometricParameters) *ColorSineLerpController {
	return &ColorSineLerpController{
		Base:  actor.NewBase(id, actor.ControllerColorLerp),
		Start: start,
		End:   end,
		Trig:  trig,
	}
}

func (c *ColorSineLerpController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() {
		return
	}
	c.elapsed += dt
	f := mgl64.Clamp((1+c.Trig.At(c.elapsed.Seconds()))/2, 0, 1)
	a.Appearance.Color = c.Start.Add(c.End.Sub(c.Start).Mul(f))
}
