// Package picking selects the actor under the centre of the active camera's
// view and reports it through ObjectPicked events.
package picking

import (
	"fmt"
	"math"
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	"github.com/gdlib/gdengine/internal/core/system"
	"github.com/go-gl/mathgl/mgl64"
)

// NoneText is sent with OnNonePicked.
const NoneText = "no object selected"

type World interface {
	Each(func(*actor.Actor))
	Status() actor.StatusType
}

type Cameras interface {
	HasActive() bool
	ActiveCamera() *manager.Camera
}

type Publisher interface {
	Publish(event.Data)
}

// Picker casts a ray from the active camera along its look vector each frame
// and publishes ObjectPicked/OnObjectPicked [id, distance] for the nearest
// pickable actor within MaxDistance, or ObjectPicked/OnNonePicked [NoneText].
type Picker struct {
	MaxDistance float64
	// Pickable filters candidates; nil accepts every drawn actor that is not a
	// camera, helper, zone or UI element.
	Pickable func(*actor.Actor) bool

	world   World
	cameras Cameras
	events  Publisher
}

func NewPicker(world World, cameras Cameras, events Publisher, maxDistance float64) *Picker {
	return &Picker{
		MaxDistance: maxDistance,
		world:       world,
		cameras:     cameras,
		events:      events,
	}
}

func (p *Picker) Phase() system.Phase { return system.PhasePostUpdate }

func (p *Picker) Update(_ time.Duration) {
	if !p.world.Status().Has(actor.StatusUpdated) || !p.cameras.HasActive() {
		return
	}
	if id, dist, ok := p.Pick(); ok {
		p.events.Publish(event.New(event.CategoryObjectPicked, event.OnObjectPicked, id, dist))
		return
	}
	p.events.Publish(event.New(event.CategoryObjectPicked, event.OnNonePicked, NoneText))
}

// Pick returns the nearest hit along the active camera's look ray.
func (p *Picker) Pick() (string, float64, bool) {
	cam := p.cameras.ActiveCamera()
	origin := cam.Transform.Translation()
	dir := cam.Transform.Look()

	bestID, best := "", math.Inf(1)
	p.world.Each(func(a *actor.Actor) {
		if a == cam.Actor || !p.pickable(a) {
			return
		}
		d, ok := RaySphere(origin, dir, a.Transform.Translation(), a.Transform.Radius())
		if ok && d <= p.MaxDistance && d < best {
			bestID, best = a.ID(), d
		}
	})
	if bestID == "" {
		return "", 0, false
	}
	return bestID, best, true
}

func (p *Picker) pickable(a *actor.Actor) bool {
	if p.Pickable != nil {
		return p.Pickable(a)
	}
	switch a.Kind() {
	case actor.KindCamera, actor.KindHelper, actor.KindUITexture, actor.KindUIText, actor.KindZone:
		return false
	}
	return a.Drawable()
}

// RaySphere returns the distance along a unit-length dir from origin to the
// first point of the sphere. An origin inside the sphere hits at 0.
func RaySphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := center.Sub(origin)
	r2 := radius * radius
	if oc.LenSqr() <= r2 {
		return 0, true
	}
	t := oc.Dot(dir)
	if t < 0 {
		return 0, false
	}
	d2 := oc.LenSqr() - t*t
	if d2 > r2 {
		return 0, false
	}
	return t - math.Sqrt(r2-d2), true
}

// Pointer is a text overlay that follows ObjectPicked events.
type Pointer struct {
	text string
	sub  event.Subscription
	bus  *event.Dispatcher
}

func NewPointer(d *event.Dispatcher) *Pointer {
	p := &Pointer{text: NoneText, bus: d}
	p.sub = d.Subscribe(event.CategoryObjectPicked, p.handle)
	return p
}

func (p *Pointer) handle(e event.Data) {
	switch e.Action {
	case event.OnObjectPicked:
		id, _ := e.StringParam(0)
		dist, _ := e.FloatParam(1)
		p.text = fmt.Sprintf("%s [%.2f]", id, dist)
	case event.OnNonePicked:
		if s, ok := e.StringParam(0); ok {
			p.text = s
		}
	}
}

func (p *Pointer) Text() string    { return p.text }
func (p *Pointer) Lines() []string { return []string{p.text} }

func (p *Pointer) Close() { p.bus.Unsubscribe(p.sub) }
