package actor

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Appearance is the colour state controllers may lerp.
type Appearance struct {
	Color mgl64.Vec3 // linear RGB, 0..1
	Alpha float64
}

// Visual references renderer-owned resources. Actors without one are never
// submitted for drawing.
type Visual struct {
	Mesh     string
	Material string
	Texture  string
}

// Actor is a flat entity: identity, status flags, transform, appearance,
// optional visual and an ordered controller list. Behaviour differences are
// expressed by attached controllers and by Kind, not by embedding.
// Accessed only from the frame loop goroutine.
type Actor struct {
	id     string
	kind   Kind
	status StatusType

	Transform  *Transform
	Appearance Appearance
	Visual     *Visual

	controllers []Controller
}

func New(id string, kind Kind, status StatusType, t *Transform) *Actor {
	if t == nil {
		t = Identity()
	}
	return &Actor{
		id:         id,
		kind:       kind,
		status:     status,
		Transform:  t,
		Appearance: Appearance{Color: mgl64.Vec3{1, 1, 1}, Alpha: 1},
	}
}

func (a *Actor) ID() string             { return a.id }
func (a *Actor) Kind() Kind             { return a.kind }
func (a *Actor) SetKind(k Kind)         { a.kind = k }
func (a *Actor) Status() StatusType     { return a.status }
func (a *Actor) SetStatus(s StatusType) { a.status = s }

// HasStatus reports whether every bit of f is set on the actor.
func (a *Actor) HasStatus(f StatusType) bool { return a.status.Has(f) }

// Drawable reports whether the draw pass should submit this actor.
func (a *Actor) Drawable() bool {
	return a.status.Has(StatusDrawn) && a.Visual != nil
}

// AttachController appends c; controllers tick in attachment order.
// Attaching to a nil actor or attaching an already-owned controller is a
// setup bug and panics.
func (a *Actor) AttachController(c Controller) {
	if a == nil {
		panic("actor: AttachController on nil actor")
	}
	if c == nil {
		panic(fmt.Sprintf("actor %q: AttachController(nil)", a.id))
	}
	if owner := c.Owner(); owner != nil {
		panic(fmt.Sprintf("actor %q: controller %q already attached to %q", a.id, c.ID(), owner.id))
	}
	c.bind(a)
	a.controllers = append(a.controllers, c)
}

// DetachController removes the first controller with the given id.
func (a *Actor) DetachController(id string) bool {
	for i, c := range a.controllers {
		if c.ID() == id {
			c.bind(nil)
			a.controllers = append(a.controllers[:i], a.controllers[i+1:]...)
			return true
		}
	}
	return false
}

// Controller returns the first attached controller with the given id.
func (a *Actor) Controller(id string) (Controller, bool) {
	for _, c := range a.controllers {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Controllers returns a copy of the attachment-ordered list.
func (a *Actor) Controllers() []Controller {
	out := make([]Controller, len(a.controllers))
	copy(out, a.controllers)
	return out
}

// SetControllerPlayStatus sets status on every controller accepted by match
// (all controllers when match is nil) and returns how many changed.
func (a *Actor) SetControllerPlayStatus(status PlayStatus, match func(Controller) bool) int {
	n := 0
	for _, c := range a.controllers {
		if match != nil && !match(c) {
			continue
		}
		c.SetPlayStatus(status)
		n++
	}
	return n
}

// Update ticks every Playing controller in attachment order. An actor without
// the Updated flag receives no ticks. Controllers attached during the pass
// start ticking next frame.
func (a *Actor) Update(dt time.Duration) {
	if !a.status.Has(StatusUpdated) {
		return
	}
	n := len(a.controllers)
	for i := 0; i < n && i < len(a.controllers); i++ {
		c := a.controllers[i]
		if c.PlayStatus() != PlayStatusPlaying {
			continue
		}
		c.Tick(a, dt)
	}
}

func (a *Actor) String() string {
	return fmt.Sprintf("%s(%s)", a.id, a.kind)
}
