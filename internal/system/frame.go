package system

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	coresys "github.com/gdlib/gdengine/internal/core/system"
)

// EventSystem drains the dispatcher once per frame. Phase 1 (Events).
type EventSystem struct {
	events *event.Dispatcher
}

func NewEventSystem(d *event.Dispatcher) *EventSystem {
	return &EventSystem{events: d}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	s.events.Update()
}

// UpdateSystem ticks cameras, then actors. Phase 2 (Update).
type UpdateSystem struct {
	cameras *manager.CameraManager
	objects *manager.ObjectManager
}

func NewUpdateSystem(cameras *manager.CameraManager, objects *manager.ObjectManager) *UpdateSystem {
	return &UpdateSystem{cameras: cameras, objects: objects}
}

func (s *UpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *UpdateSystem) Update(dt time.Duration) {
	s.cameras.Update(dt)
	s.objects.Update(dt)
}
