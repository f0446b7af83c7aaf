package controller

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/go-gl/mathgl/mgl64"
)

// UIProgressController counts Pickup/OnPickup values and stretches its owner
// along X to show current/max. Reaching max publishes Player/OnWin [id] once.
type UIProgressController struct {
	actor.Base

	current, max float64
	baseScale    mgl64.Vec3
	hasBase      bool
	won          bool

	bus Bus
	sub event.Subscription
}

func NewUIProgressController(id string, start, max float64, bus Bus) *UIProgressController {
	if max <= 0 {
		max = 1
	}
	c := &UIProgressController{
		Base:    actor.NewBase(id, actor.ControllerProgress),
		current: mgl64.Clamp(start, 0, max),
		max:     max,
		bus:     bus,
	}
	if bus != nil {
		c.sub = bus.Subscribe(event.CategoryPickup, c.handlePickup)
	}
	return c
}

func (c *UIProgressController) handlePickup(e event.Data) {
	if e.Action != event.OnPickup || c.won {
		return
	}
	v, ok := e.FloatParam(1)
	if !ok {
		v = 1
	}
	c.current = mgl64.Clamp(c.current+v, 0, c.max)
	if c.current >= c.max {
		c.won = true
		c.bus.Publish(event.New(event.CategoryPlayer, event.OnWin, c.ID()))
	}
}

func (c *UIProgressController) Tick(a *actor.Actor, _ time.Duration) {
	if !c.Playing() {
		return
	}
	if !c.hasBase {
		c.baseScale = a.Transform.Scale()
		c.hasBase = true
	}
	s := c.baseScale
	s[0] *= c.Fraction()
	a.Transform.SetScale(s)
}

func (c *UIProgressController) Current() float64  { return c.current }
func (c *UIProgressController) Fraction() float64 { return c.current / c.max }
func (c *UIProgressController) Won() bool         { return c.won }

// Close stops listening for pickups.
func (c *UIProgressController) Close() {
	if c.bus != nil {
		c.bus.Unsubscribe(c.sub)
	}
}
