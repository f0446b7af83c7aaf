package system

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	coresys "github.com/gdlib/gdengine/internal/core/system"
	"github.com/gdlib/gdengine/internal/render"
)

type debugToggler interface {
	ToggleDebug()
}

// DrawSystem renders the world through the active camera's viewport.
// Phase 6 (Draw).
type DrawSystem struct {
	objects  *manager.ObjectManager
	cameras  *manager.CameraManager
	renderer render.FrameRenderer
	last     int
}

func NewDrawSystem(objects *manager.ObjectManager, cameras *manager.CameraManager, r render.FrameRenderer, d *event.Dispatcher) *DrawSystem {
	s := &DrawSystem{objects: objects, cameras: cameras, renderer: r}
	if t, ok := r.(debugToggler); ok && d != nil {
		d.Subscribe(event.CategoryDebug, func(e event.Data) {
			if e.Action == event.OnToggleDebug {
				t.ToggleDebug()
			}
		})
	}
	return s
}

func (s *DrawSystem) Phase() coresys.Phase { return coresys.PhaseDraw }

func (s *DrawSystem) Update(_ time.Duration) {
	s.renderer.BeginFrame(s.cameras.ActiveCamera().Viewport)
	s.last = s.objects.Draw(s.renderer)
	s.renderer.EndFrame()
}

// LastDrawn is the number of actors submitted in the last frame.
func (s *DrawSystem) LastDrawn() int { return s.last }
