package manager

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/render"
	"go.uber.org/zap"
)

// ObjectManager owns the authoritative actor list and drives the per-frame
// update and draw passes. Removal requested while the update pass is running
// (directly or through an Actor/OnRemoveActor event) is applied at Flush.
type ObjectManager struct {
	actors  *Collection[*actor.Actor]
	cameras *CameraManager
	status  actor.StatusType
	events  *event.Dispatcher
	subs    []event.Subscription
	log     *zap.Logger
}

func NewObjectManager(cameras *CameraManager, d *event.Dispatcher, capacity int, status actor.StatusType, log *zap.Logger) *ObjectManager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &ObjectManager{
		actors:  NewCollection[*actor.Actor](capacity),
		cameras: cameras,
		status:  status,
		events:  d,
		log:     log,
	}
	if d != nil {
		m.subs = append(m.subs,
			d.Subscribe(event.CategoryActor, m.handleActorEvent),
			d.Subscribe(event.CategoryMainMenu, m.handleMenuEvent),
		)
	}
	return m
}

func (m *ObjectManager) handleActorEvent(e event.Data) {
	switch e.Action {
	case event.OnRemoveActor:
		id, ok := e.StringParam(0)
		if !ok {
			return
		}
		if _, found := m.Remove(ByID(id)); found {
			m.log.Debug("actor removed by event", zap.String("actor", id))
		}
	case event.OnAddActor:
		v, _ := e.Param(0)
		if a, ok := v.(*actor.Actor); ok && a != nil {
			m.Add(a)
		}
	}
}

func (m *ObjectManager) handleMenuEvent(e event.Data) {
	m.status = menuStatus(e, m.status)
}

// Add appends an actor. O(1) amortized.
func (m *ObjectManager) Add(a *actor.Actor) {
	if a == nil {
		panic("object manager: Add(nil)")
	}
	m.actors.Add(a)
}

func (m *ObjectManager) AddAll(actors ...*actor.Actor) {
	for _, a := range actors {
		m.Add(a)
	}
}

// Remove removes and returns the first actor accepted by match; false when
// nothing matches. Never removes more than one.
func (m *ObjectManager) Remove(match func(*actor.Actor) bool) (*actor.Actor, bool) {
	return m.actors.Remove(match)
}

// RemoveAll removes every actor accepted by match and returns the count.
func (m *ObjectManager) RemoveAll(match func(*actor.Actor) bool) int {
	return m.actors.RemoveAll(match)
}

// Find returns the first live actor accepted by match.
func (m *ObjectManager) Find(match func(*actor.Actor) bool) (*actor.Actor, bool) {
	return m.actors.Find(match)
}

// Each visits live actors in insertion order.
func (m *ObjectManager) Each(fn func(*actor.Actor)) {
	m.actors.Each(fn)
}

func (m *ObjectManager) Actors() []*actor.Actor { return m.actors.Items() }
func (m *ObjectManager) Len() int               { return m.actors.Len() }

func (m *ObjectManager) Status() actor.StatusType     { return m.status }
func (m *ObjectManager) SetStatus(s actor.StatusType) { m.status = s }

// Update ticks the controllers of every Updated actor in insertion order.
func (m *ObjectManager) Update(dt time.Duration) {
	if !m.status.Has(actor.StatusUpdated) {
		return
	}
	m.actors.Each(func(a *actor.Actor) {
		a.Update(dt)
	})
}

// Flush applies additions and removals deferred during the frame.
func (m *ObjectManager) Flush() {
	m.actors.Flush()
}

// Draw submits every Drawn actor that has a visual, using the active
// camera's view and projection, and returns the number of submissions.
// Drawing without an active camera is a setup bug and panics.
func (m *ObjectManager) Draw(r render.Renderer) int {
	if !m.status.Has(actor.StatusDrawn) {
		return 0
	}
	cam := m.cameras.ActiveCamera()
	view := cam.View()
	proj := cam.ProjectionMatrix()

	n := 0
	m.actors.Each(func(a *actor.Actor) {
		if !a.Drawable() {
			return
		}
		r.Draw(render.DrawCall{
			ActorID:    a.ID(),
			Visual:     *a.Visual,
			World:      a.Transform.World(),
			View:       view,
			Projection: proj,
			Color:      a.Appearance.Color,
			Alpha:      a.Appearance.Alpha,
		})
		n++
	})
	return n
}

// Close unsubscribes from the dispatcher.
func (m *ObjectManager) Close() {
	for _, s := range m.subs {
		m.events.Unsubscribe(s)
	}
	m.subs = nil
}
