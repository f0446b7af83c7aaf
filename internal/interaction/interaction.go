// Package interaction resolves what happens when the player overlaps another
// actor. Overlap is a bounding-sphere test; the response depends on the
// other actor's kind.
package interaction

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/system"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// World is the actor list the system scans.
type World interface {
	Each(func(*actor.Actor))
	Status() actor.StatusType
}

type Publisher interface {
	Publish(event.Data)
}

// Overlaps reports whether the bounding spheres of a and b touch.
func Overlaps(a, b *actor.Actor) bool {
	d := a.Transform.Translation().Sub(b.Transform.Translation()).Len()
	return d <= a.Transform.Radius()+b.Transform.Radius()
}

// System runs in PhasePostUpdate, after controllers have moved the player.
//
//   - collidable ammo: its pickup controller is started, or when it has none
//     Pickup/OnPickup and Actor/OnRemoveActor are published directly
//   - collidable activatable: every controller on it is set playing, once
//   - collidable decorator: the player is pushed back to its last free position
//   - zone: Camera/OnCameraSetActive with the zone's camera, on entry
type System struct {
	world  World
	events Publisher
	player *actor.Actor

	zones    map[string]string // zone actor id -> camera id
	inside   map[string]bool
	consumed map[*actor.Actor]bool
	lastFree mgl64.Vec3
	hasFree  bool

	log *zap.Logger
}

func NewSystem(world World, events Publisher, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{
		world:    world,
		events:   events,
		zones:    make(map[string]string),
		inside:   make(map[string]bool),
		consumed: make(map[*actor.Actor]bool),
		log:      log,
	}
}

func (s *System) Phase() system.Phase { return system.PhasePostUpdate }

func (s *System) SetPlayer(p *actor.Actor) {
	s.player = p
	s.hasFree = false
}

// AddZone makes entering zoneID switch to cameraID.
func (s *System) AddZone(zoneID, cameraID string) {
	s.zones[zoneID] = cameraID
}

func (s *System) Update(_ time.Duration) {
	p := s.player
	if p == nil || !s.world.Status().Has(actor.StatusUpdated) || !p.HasStatus(actor.StatusUpdated) {
		return
	}

	blocked := false
	seen := make(map[*actor.Actor]bool, len(s.consumed))
	seenIDs := make(map[string]bool, len(s.inside))
	s.world.Each(func(o *actor.Actor) {
		seen[o] = true
		seenIDs[o.ID()] = true
		if o == p || o.Status() == actor.StatusOff {
			return
		}
		hit := Overlaps(p, o)
		switch o.Kind() {
		case actor.KindCollidableAmmo:
			if hit {
				s.collect(o)
			}
		case actor.KindCollidableActivatable:
			if hit && !s.consumed[o] {
				s.consumed[o] = true
				n := o.SetControllerPlayStatus(actor.PlayStatusPlaying, nil)
				s.log.Debug("activated", zap.String("actor", o.ID()), zap.Int("controllers", n))
			}
		case actor.KindCollidableDecorator:
			if hit {
				blocked = true
			}
		case actor.KindZone:
			s.zone(o, hit)
		}
	})
	s.prune(seen, seenIDs)

	if blocked && s.hasFree {
		p.Transform.SetTranslation(s.lastFree)
		return
	}
	if !blocked {
		s.lastFree = p.Transform.Translation()
		s.hasFree = true
	}
}

// prune forgets actors that have left the world so they can be collected.
func (s *System) prune(seen map[*actor.Actor]bool, seenIDs map[string]bool) {
	for o := range s.consumed {
		if !seen[o] {
			delete(s.consumed, o)
		}
	}
	for id := range s.inside {
		if !seenIDs[id] {
			delete(s.inside, id)
		}
	}
}

func (s *System) collect(o *actor.Actor) {
	if s.consumed[o] {
		return
	}
	s.consumed[o] = true
	started := o.SetControllerPlayStatus(actor.PlayStatusPlaying, func(c actor.Controller) bool {
		return c.Type() == actor.ControllerPickup
	})
	if started > 0 {
		return
	}
	s.events.Publish(event.New(event.CategoryPickup, event.OnPickup, o.ID(), 1.0))
	s.events.Publish(event.New(event.CategoryActor, event.OnRemoveActor, o.ID()))
}

func (s *System) zone(o *actor.Actor, hit bool) {
	was := s.inside[o.ID()]
	s.inside[o.ID()] = hit
	if !hit || was {
		return
	}
	cam, ok := s.zones[o.ID()]
	if !ok {
		s.log.Warn("zone without camera", zap.String("zone", o.ID()))
		return
	}
	s.events.Publish(event.New(event.CategoryCamera, event.OnCameraSetActive, cam))
}
