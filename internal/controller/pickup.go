package controller

import (
	"math"
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/go-gl/mathgl/mgl64"
)

// PickupParameters describe the collect animation. Rates are per second.
type PickupParameters struct {
	Value          float64       `yaml:"value"`           // reported with the pickup event
	RotationSpeed  float64       `yaml:"rotation_speed"`  // degrees about Y
	Rise           mgl64.Vec3    `yaml:"rise"`            // units
	ScaleRate      float64       `yaml:"scale_rate"`      // multiplicative, 1 = unchanged
	AlphaRate      float64       `yaml:"alpha_rate"`      // additive, negative fades
	AlphaThreshold float64       `yaml:"alpha_threshold"` // finished at or below
	Lifetime       time.Duration `yaml:"lifetime"`        // 0 = until faded
}

// DefaultPickup spins the item up and out of view in about two seconds.
var DefaultPickup = PickupParameters{
	Value:          1,
	RotationSpeed:  900,
	Rise:           mgl64.Vec3{0, 1.2, 0},
	ScaleRate:      0.55,
	AlphaRate:      -0.45,
	AlphaThreshold: 0.1,
}

// PickupController plays the collect animation on its owner. When the owner
// has faded out (or the lifetime expires) it publishes Pickup/OnPickup
// [id, value] and Actor/OnRemoveActor [id], then stops itself.
type PickupController struct {
	actor.Base
	Params PickupParameters

	events  Publisher
	elapsed time.Duration
	done    bool
}

func NewPickupController(id string, p PickupParameters, events Publisher) *PickupController {
	return &PickupController{
		Base:   actor.NewBase(id, actor.ControllerPickup),
		Params: p,
		events: events,
	}
}

func (c *PickupController) Tick(a *actor.Actor, dt time.Duration) {
	if !c.Playing() || c.done {
		return
	}
	secs := dt.Seconds()
	c.elapsed += dt

	p := c.Params
	a.Transform.RotateBy(mgl64.Vec3{0, p.RotationSpeed * secs, 0})
	a.Transform.TranslateBy(p.Rise.Mul(secs))
	if p.ScaleRate > 0 && p.ScaleRate != 1 {
		f := math.Pow(p.ScaleRate, secs)
		a.Transform.ScaleBy(mgl64.Vec3{f, f, f})
	}
	a.Appearance.Alpha = mgl64.Clamp(a.Appearance.Alpha+p.AlphaRate*secs, 0, 1)

	if a.Appearance.Alpha > p.AlphaThreshold && (p.Lifetime <= 0 || c.elapsed < p.Lifetime) {
		return
	}
	c.done = true
	c.SetPlayStatus(actor.PlayStatusStopped)
	if c.events != nil {
		c.events.Publish(event.New(event.CategoryPickup, event.OnPickup, a.ID(), p.Value))
		c.events.Publish(event.New(event.CategoryActor, event.OnRemoveActor, a.ID()))
	}
}

// Done reports whether the animation has finished and the events were sent.
func (c *PickupController) Done() bool { return c.done }
