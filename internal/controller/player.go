package controller

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/go-gl/mathgl/mgl64"
)

// PlayerController walks its owner on the ground plane: forward/back along
// the horizontal look direction, strafe along right, turn about Y.
type PlayerController struct {
	actor.Base
	Keys  input.MoveKeys
	Speed MoveParameters

	in input.Source
}

func NewPlayerController(id string, in input.Source, keys input.MoveKeys, speed MoveParameters) *PlayerController {
	return &PlayerController{
		Base:  actor.NewBase(id, actor.ControllerPlayer),
		Keys:  keys,
		Speed: speed,
		in:    in,
	}
}

func (c *PlayerController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() || c.in == nil {
		return
	}
	secs := dt.Seconds()
	t := a.Transform

	if yaw := turn(c.in, c.Keys, c.Speed.RotationSpeed*secs); yaw != 0 {
		t.RotateBy(mgl64.Vec3{0, yaw, 0})
	}

	look := t.Look()
	look[1] = 0
	if look.Len() == 0 {
		return
	}
	look = look.Normalize()
	right := look.Cross(actor.DefaultUp)

	var move mgl64.Vec3
	if c.in.KeyDown(c.Keys.Forward) {
		move = move.Add(look.Mul(c.Speed.MoveSpeed))
	}
	if c.in.KeyDown(c.Keys.Back) {
		move = move.Sub(look.Mul(c.Speed.MoveSpeed))
	}
	if c.in.KeyDown(c.Keys.Right) {
		move = move.Add(right.Mul(c.Speed.StrafeSpeed))
	}
	if c.in.KeyDown(c.Keys.Left) {
		move = move.Sub(right.Mul(c.Speed.StrafeSpeed))
	}
	if move.Len() > 0 {
		t.TranslateBy(move.Mul(secs))
	}
}
