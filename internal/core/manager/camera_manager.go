package manager

import (
	"fmt"
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"go.uber.org/zap"
)

// CameraManager owns the registered cameras and the single active one.
// The first camera added becomes active; from then on there is always an
// active camera unless every camera is removed.
type CameraManager struct {
	cameras *Collection[*Camera]
	active  *Camera
	status  actor.StatusType
	events  *event.Dispatcher
	subs    []event.Subscription
	log     *zap.Logger
}

func NewCameraManager(d *event.Dispatcher, capacity int, status actor.StatusType, log *zap.Logger) *CameraManager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &CameraManager{
		cameras: NewCollection[*Camera](capacity),
		status:  status,
		events:  d,
		log:     log,
	}
	if d != nil {
		m.subs = append(m.subs,
			d.Subscribe(event.CategoryCamera, m.handleCameraEvent),
			d.Subscribe(event.CategoryMainMenu, m.handleMenuEvent),
		)
	}
	return m
}

func (m *CameraManager) handleCameraEvent(e event.Data) {
	switch e.Action {
	case event.OnCameraSetActive:
		id, ok := e.StringParam(0)
		if !ok {
			m.log.Warn("camera set-active event without id", zap.Stringer("event", e))
			return
		}
		if !m.SetActiveCamera(CameraByID(id)) {
			m.log.Warn("camera not found", zap.String("camera", id))
		}
	case event.OnCameraCycle:
		m.CycleActive()
	}
}

func (m *CameraManager) handleMenuEvent(e event.Data) {
	m.status = menuStatus(e, m.status)
}

// Add registers a camera. Only camera-kind actors are accepted.
func (m *CameraManager) Add(c *Camera) {
	if c == nil || c.Actor == nil {
		panic("camera manager: Add(nil)")
	}
	if c.Kind() != actor.KindCamera {
		panic(fmt.Sprintf("camera manager: %q is %s, not a camera", c.ID(), c.Kind()))
	}
	m.cameras.Add(c)
	if m.active == nil {
		m.setActive(c)
	}
}

// Remove unregisters the first camera accepted by match. Removing the active
// camera hands the designation to the first remaining camera.
func (m *CameraManager) Remove(match func(*Camera) bool) (*Camera, bool) {
	c, ok := m.cameras.Remove(match)
	if ok {
		m.ensureActive()
	}
	return c, ok
}

// RemoveAll unregisters every camera accepted by match.
func (m *CameraManager) RemoveAll(match func(*Camera) bool) int {
	n := m.cameras.RemoveAll(match)
	if n > 0 {
		m.ensureActive()
	}
	return n
}

// HasActive reports whether a camera is designated. False only before the
// first camera is added (or after all are removed).
func (m *CameraManager) HasActive() bool { return m.active != nil }

// ActiveCamera returns the designated camera. Asking for it when no camera
// is registered is a setup bug and panics.
func (m *CameraManager) ActiveCamera() *Camera {
	if m.active == nil {
		panic("camera manager: no active camera")
	}
	return m.active
}

// SetActiveCamera designates the first camera accepted by match.
func (m *CameraManager) SetActiveCamera(match func(*Camera) bool) bool {
	c, ok := m.cameras.Find(match)
	if !ok {
		return false
	}
	m.setActive(c)
	return true
}

// CycleActive advances to the next camera in registration order, wrapping
// from the last back to the first.
func (m *CameraManager) CycleActive() {
	cams := m.cameras.Items()
	if len(cams) == 0 {
		return
	}
	next := 0
	for i, c := range cams {
		if c == m.active {
			next = (i + 1) % len(cams)
			break
		}
	}
	m.setActive(cams[next])
}

func (m *CameraManager) setActive(c *Camera) {
	if m.active == c {
		return
	}
	m.active = c
	m.log.Info("active camera", zap.String("camera", c.ID()))
}

func (m *CameraManager) ensureActive() {
	if m.active != nil && m.cameras.Contains(m.active) {
		return
	}
	m.active = nil
	if cams := m.cameras.Items(); len(cams) > 0 {
		m.setActive(cams[0])
	}
}

// Update ticks the controllers of every camera while the manager is updated.
func (m *CameraManager) Update(dt time.Duration) {
	if !m.status.Has(actor.StatusUpdated) {
		return
	}
	m.cameras.Each(func(c *Camera) {
		c.Update(dt)
	})
}

// Flush applies camera additions and removals deferred during Update.
func (m *CameraManager) Flush() {
	m.cameras.Flush()
	m.ensureActive()
}

func (m *CameraManager) Status() actor.StatusType     { return m.status }
func (m *CameraManager) SetStatus(s actor.StatusType) { m.status = s }
func (m *CameraManager) Len() int                     { return m.cameras.Len() }

// Cameras returns the registered cameras in registration order.
func (m *CameraManager) Cameras() []*Camera { return m.cameras.Items() }

// Close unsubscribes from the dispatcher.
func (m *CameraManager) Close() {
	for _, s := range m.subs {
		m.events.Unsubscribe(s)
	}
	m.subs = nil
}
