package controller

import (
	"math"
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/go-gl/mathgl/mgl64"
)

const maxPitch = 89

// MoveParameters are the speeds shared by input-driven controllers.
type MoveParameters struct {
	MoveSpeed        float64 `toml:"move_speed" yaml:"move_speed"`               // units/s
	StrafeSpeed      float64 `toml:"strafe_speed" yaml:"strafe_speed"`           // units/s
	RotationSpeed    float64 `toml:"rotation_speed" yaml:"rotation_speed"`       // deg/s
	MouseSensitivity float64 `toml:"mouse_sensitivity" yaml:"mouse_sensitivity"` // deg per cell
}

var DefaultMove = MoveParameters{
	MoveSpeed:        6,
	StrafeSpeed:      4,
	RotationSpeed:    90,
	MouseSensitivity: 0.5,
}

// FlightCameraController flies its owner freely: forward/back along the look
// vector, strafe along right, rise/fall along world up, turn with keys or
// the mouse. Pitch is clamped short of straight up or down.
type FlightCameraController struct {
	actor.Base
	Keys  input.MoveKeys
	Speed MoveParameters

	in input.Source
}

func NewFlightCameraController(id string, in input.Source, keys input.MoveKeys, speed MoveParameters) *FlightCameraController {
	return &FlightCameraController{
		Base:  actor.NewBase(id, actor.ControllerFlightCamera),
		Keys:  keys,
		Speed: speed,
		in:    in,
	}
}

func (c *FlightCameraController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() || c.in == nil {
		return
	}
	secs := dt.Seconds()
	t := a.Transform

	var move mgl64.Vec3
	look, right := t.Look(), t.Right()
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
	if c.in.KeyDown(c.Keys.Up) {
		move = move.Add(actor.DefaultUp.Mul(c.Speed.MoveSpeed))
	}
	if c.in.KeyDown(c.Keys.Down) {
		move = move.Sub(actor.DefaultUp.Mul(c.Speed.MoveSpeed))
	}
	if move.Len() > 0 {
		t.TranslateBy(move.Mul(secs))
	}

	yaw := turn(c.in, c.Keys, c.Speed.RotationSpeed*secs)
	md := c.in.MouseDelta()
	yaw -= md[0] * c.Speed.MouseSensitivity
	pitch := -md[1] * c.Speed.MouseSensitivity
	if yaw != 0 || pitch != 0 {
		r := t.Rotation()
		r[0] = mgl64.Clamp(r[0]+pitch, -maxPitch, maxPitch)
		r[1] += yaw
		t.SetRotation(r)
	}
}

// turn returns the yaw change requested by the turn keys. Positive yaw turns left.
func turn(in input.Source, keys input.MoveKeys, step float64) float64 {
	var yaw float64
	if in.KeyDown(keys.TurnLeft) {
		yaw += step
	}
	if in.KeyDown(keys.TurnRight) {
		yaw -= step
	}
	return yaw
}

// ThirdPersonParameters place the camera behind and above a target.
type ThirdPersonParameters struct {
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	Elevation   float64 `yaml:"elevation"`    // degrees above the target's horizon
	LerpSpeed   float64 `yaml:"lerp_speed"`   // 1/s, 0 snaps
	ScrollSpeed float64 `yaml:"scroll_speed"` // distance per wheel notch
}

var DefaultThirdPerson = ThirdPersonParameters{
	Distance:    12,
	MinDistance: 2,
	Elevation:   25,
	LerpSpeed:   6,
	ScrollSpeed: 1,
}

// ThirdPersonController keeps its owner (a camera) behind Target, easing
// towards the desired position and always facing the target.
type ThirdPersonController struct {
	actor.Base
	Target *actor.Actor
	Params ThirdPersonParameters

	in input.Source
}

func NewThirdPersonController(id string, target *actor.Actor, in input.Source, p ThirdPersonParameters) *ThirdPersonController {
	return &ThirdPersonController{
		Base:   actor.NewBase(id, actor.ControllerThirdPerson),
		Target: target,
		Params: p,
		in:     in,
	}
}

// Desired returns where the camera should sit for the target's current pose.
func (c *ThirdPersonController) Desired() mgl64.Vec3 {
	tt := c.Target.Transform
	back := tt.Look().Mul(-1)
	lift := mgl64.QuatRotate(-mgl64.DegToRad(c.Params.Elevation), tt.Right())
	return tt.Translation().Add(lift.Rotate(back).Mul(c.Params.Distance))
}

func (c *ThirdPersonController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() || c.Target == nil {
		return
	}
	if c.in != nil {
		if s := c.in.ScrollDelta(); s != 0 {
			c.Params.Distance = math.Max(c.Params.MinDistance, c.Params.Distance-s*c.Params.ScrollSpeed)
		}
	}

	want := c.Desired()
	pos := a.Transform.Translation()
	f := 1.0
	if c.Params.LerpSpeed > 0 {
		f = 1 - math.Exp(-c.Params.LerpSpeed*dt.Seconds())
	}
	pos = pos.Add(want.Sub(pos).Mul(f))
	a.Transform.SetTranslation(pos)
	a.Transform.FaceTowards(c.Target.Transform.Translation().Sub(pos))
}
