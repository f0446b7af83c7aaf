package manager

import (
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
)

// menuStatus maps MainMenu pause/play to a manager status: paused keeps the
// world drawn but frozen.
func menuStatus(e event.Data, current actor.StatusType) actor.StatusType {
	switch e.Action {
	case event.OnPause:
		return actor.StatusDrawn
	case event.OnPlay:
		return actor.StatusDrawn | actor.StatusUpdated
	}
	return current
}

// ByID matches an actor by id.
func ByID(id string) func(*actor.Actor) bool {
	return func(a *actor.Actor) bool { return a.ID() == id }
}

// ByKind matches an actor by kind.
func ByKind(k actor.Kind) func(*actor.Actor) bool {
	return func(a *actor.Actor) bool { return a.Kind() == k }
}

// CameraByID matches a camera by id.
func CameraByID(id string) func(*Camera) bool {
	return func(c *Camera) bool { return c.ID() == id }
}
