package controller

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// RotationController spins its owner at a constant rate, in degrees per
// second about each axis.
type RotationController struct {
	actor.Base
	Speed mgl64.Vec3
}

func NewRotationController(id string, degreesPerSecond mgl64.Vec3) *RotationController {
	return &RotationController{
		Base:  actor.NewBase(id, actor.ControllerRotation),
		Speed: degreesPerSecond,
	}
}

func (c *RotationController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() {
		return
	}
	a.Transform.RotateBy(c.Speed.Mul(dt.Seconds()))
}
