package controller

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/scripting"
	"go.uber.org/zap"
)

// ScriptRunner runs a named controller function.
type ScriptRunner interface {
	CallController(fn string, st scripting.ControllerState) (scripting.ControllerState, error)
}

// ScriptController hands its owner's transform and alpha to a Lua function
// each tick and applies what comes back. A failing script is logged once and
// the controller stops.
type ScriptController struct {
	actor.Base
	Function string

	scripts ScriptRunner
	elapsed time.Duration
	log     *zap.Logger
}

func NewScriptController(id, function string, scripts ScriptRunner, log *zap.Logger) *ScriptController {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptController{
		Base:     actor.NewBase(id, actor.ControllerScript),
		Function: function,
		scripts:  scripts,
		log:      log,
	}
}

func (c *ScriptController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() {
		return
	}
	c.elapsed += dt
	t := a.Transform
	out, err := c.scripts.CallController(c.Function, scripting.ControllerState{
		ActorID:     a.ID(),
		DT:          dt.Seconds(),
		Elapsed:     c.elapsed.Seconds(),
		Translation: t.Translation(),
		Rotation:    t.Rotation(),
		Scale:       t.Scale(),
		Alpha:       a.Appearance.Alpha,
	})
	if err != nil {
		c.log.Error("script controller failed",
			zap.String("actor", a.ID()),
			zap.String("controller", c.ID()),
			zap.Error(err))
		c.SetPlayStatus(actor.PlayStatusStopped)
		return
	}
	if out.Translation != t.Translation() {
		t.SetTranslation(out.Translation)
	}
	if out.Rotation != t.Rotation() {
		t.SetRotation(out.Rotation)
	}
	if out.Scale != t.Scale() {
		t.SetScale(out.Scale)
	}
	a.Appearance.Alpha = out.Alpha
}
