package interaction

import (
	"testing"
	"time"

	"github.com/gdlib/gdengine/internal/controller"
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/go-gl/mathgl/mgl64"
)

type world struct {
	actors []*actor.Actor
	status actor.StatusType
}

func (w *world) Each(fn func(*actor.Actor)) {
	for _, a := range w.actors {
		fn(a)
	}
}

func (w *world) Status() actor.StatusType { return w.status }

const live = actor.StatusDrawn | actor.StatusUpdated

func at(id string, kind actor.Kind, x float64) *actor.Actor {
	return actor.New(id, kind, live, actor.NewTransformAt(mgl64.Vec3{x, 0, 0}, mgl64.Vec3{1, 1, 1}))
}

func setup(others ...*actor.Actor) (*System, *actor.Actor, *world, *event.Dispatcher) {
	player := at("player", actor.KindPlayer, 0)
	w := &world{actors: append([]*actor.Actor{player}, others...), status: live}
	d := event.NewDispatcher(8, nil)
	s := NewSystem(w, d, nil)
	s.SetPlayer(player)
	return s, player, w, d
}

func TestOverlaps(t *testing.T) {
	a := at("a", actor.KindDecorator, 0)
	if !Overlaps(a, at("b", actor.KindDecorator, 1)) {
		t.Fatal("touching spheres do not overlap")
	}
	if Overlaps(a, at("c", actor.KindDecorator, 1.01)) {
		t.Fatal("separate spheres overlap")
	}
}

func TestAmmoWithoutPickupControllerPublishesOnce(t *testing.T) {
	s, _, _, d := setup(at("ammo", actor.KindCollidableAmmo, 0.5))
	s.Update(time.Millisecond)
	if d.Pending() != 2 {
		t.Fatalf("pending = %d, want pickup and remove", d.Pending())
	}
	d.Update()
	s.Update(time.Millisecond)
	if d.Pending() != 0 {
		t.Fatal("ammo collected twice")
	}
}

func TestAmmoStartsPickupController(t *testing.T) {
	ammo := at("ammo", actor.KindCollidableAmmo, 0.5)
	pc := controller.NewPickupController("pickup", controller.DefaultPickup, nil)
	pc.SetPlayStatus(actor.PlayStatusStopped)
	ammo.AttachController(pc)

	s, _, _, d := setup(ammo)
	s.Update(time.Millisecond)
	if pc.PlayStatus() != actor.PlayStatusPlaying {
		t.Fatal("pickup controller not started")
	}
	if d.Pending() != 0 {
		t.Fatal("events published while the pickup animation runs")
	}
}

func TestActivatableTurnsControllersOn(t *testing.T) {
	box := at("box", actor.KindCollidableActivatable, 0.9)
	spin := controller.NewRotationController("spin", mgl64.Vec3{0, 90, 0})
	spin.SetPlayStatus(actor.PlayStatusStopped)
	box.AttachController(spin)

	s, _, _, _ := setup(box)
	s.Update(time.Millisecond)
	if spin.PlayStatus() != actor.PlayStatusPlaying {
		t.Fatal("activatable controller still stopped")
	}
}

func TestDecoratorBlocksPlayer(t *testing.T) {
	wall := at("wall", actor.KindCollidableDecorator, 3)
	s, player, _, _ := setup(wall)
	s.Update(time.Millisecond)

	player.Transform.SetTranslation(mgl64.Vec3{2.5, 0, 0})
	s.Update(time.Millisecond)
	if player.Transform.Translation() != (mgl64.Vec3{}) {
		t.Fatalf("player walked into wall: %v", player.Transform.Translation())
	}
}

func TestZoneSwitchesCameraOnEntry(t *testing.T) {
	zone := at("zone-1", actor.KindZone, 10)
	zone.SetStatus(actor.StatusUpdated)
	s, player, _, d := setup(zone)
	s.AddZone("zone-1", "chase")
	var got []string
	d.Subscribe(event.CategoryCamera, func(e event.Data) {
		id, _ := e.StringParam(0)
		got = append(got, id)
	})

	s.Update(time.Millisecond)
	player.Transform.SetTranslation(mgl64.Vec3{9.5, 0, 0})
	s.Update(time.Millisecond)
	d.Update()
	s.Update(time.Millisecond)
	d.Update()
	if len(got) != 1 || got[0] != "chase" {
		t.Fatalf("camera events = %v", got)
	}

	player.Transform.SetTranslation(mgl64.Vec3{})
	s.Update(time.Millisecond)
	player.Transform.SetTranslation(mgl64.Vec3{9.5, 0, 0})
	s.Update(time.Millisecond)
	d.Update()
	if len(got) != 2 {
		t.Fatalf("re-entry did not switch: %v", got)
	}
}

func TestPausedWorldIsIgnored(t *testing.T) {
	s, _, w, d := setup(at("ammo", actor.KindCollidableAmmo, 0.5))
	w.status = actor.StatusDrawn
	s.Update(time.Millisecond)
	if d.Pending() != 0 {
		t.Fatal("interaction ran while paused")
	}
}

func TestRemovedActorsAreForgotten(t *testing.T) {
	ammo := at("ammo", actor.KindCollidableAmmo, 0.5)
	zone := at("zone-1", actor.KindZone, 0.5)
	s, _, w, _ := setup(ammo, zone)
	s.AddZone("zone-1", "chase")
	s.Update(time.Millisecond)
	if !s.consumed[ammo] || !s.inside["zone-1"] {
		t.Fatal("collected ammo or entered zone not tracked")
	}

	w.actors = w.actors[:1]
	s.Update(time.Millisecond)
	if len(s.consumed) != 0 || len(s.inside) != 0 {
		t.Fatalf("stale entries consumed=%d inside=%d", len(s.consumed), len(s.inside))
	}
}
