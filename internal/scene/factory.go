// Package scene builds actors, cameras and their controllers from scene
// definitions. Every Build produces fresh, independent objects.
package scene

import (
	"errors"
	"fmt"

	"github.com/gdlib/gdengine/internal/controller"
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	"github.com/gdlib/gdengine/internal/data"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/gdlib/gdengine/internal/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownController = errors.New("unknown controller type")
	ErrUnknownKind       = errors.New("unknown actor kind")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrMissingTarget     = errors.New("missing target")
	ErrNoScripting       = errors.New("scripting disabled")
)

const defaultStatus = actor.StatusDrawn | actor.StatusUpdated

// Deps are the runtime services controllers are wired to.
type Deps struct {
	Events  *event.Dispatcher
	Input   input.Source
	Scripts controller.ScriptRunner // nil disables script controllers
	Screen  render.Viewport         // used for full-screen camera viewports
	Move    controller.MoveParameters
	Log     *zap.Logger
}

// Scene is the result of a Build, ready to be installed into the managers.
type Scene struct {
	Name    string
	Cameras []*manager.Camera
	Actors  []*actor.Actor
	Player  *actor.Actor
	Zones   map[string]string // zone id -> camera id

	closers []func()
}

// Build turns a definition into live objects. Errors name the offending
// actor or controller and wrap one of the package's sentinel errors where
// one applies.
func Build(def *data.SceneDef, deps Deps) (*Scene, error) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Move == (controller.MoveParameters{}) {
		deps.Move = controller.DefaultMove
	}
	s := &Scene{Name: def.Name, Zones: make(map[string]string)}
	b := &builder{deps: deps, scene: s, byID: make(map[string]*actor.Actor)}

	// actors first so camera controllers can resolve their targets
	for i := range def.Actors {
		a, err := b.actor(&def.Actors[i])
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Actors = append(s.Actors, a)
	}
	for i := range def.Cameras {
		c, err := b.camera(&def.Cameras[i])
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Cameras = append(s.Cameras, c)
	}
	if def.Player != "" {
		p, ok := b.byID[def.Player]
		if !ok {
			s.Close()
			return nil, fmt.Errorf("player %q: %w", def.Player, ErrMissingTarget)
		}
		s.Player = p
	}
	deps.Log.Info("scene built",
		zap.String("scene", def.Name),
		zap.Int("actors", len(s.Actors)),
		zap.Int("cameras", len(s.Cameras)))
	return s, nil
}

// Install adds the scene's actors and cameras to the managers.
func (s *Scene) Install(objects *manager.ObjectManager, cameras *manager.CameraManager) {
	for _, c := range s.Cameras {
		cameras.Add(c)
	}
	objects.AddAll(s.Actors...)
}

// Close releases event subscriptions held by the scene's controllers.
func (s *Scene) Close() {
	for _, fn := range s.closers {
		fn()
	}
	s.closers = nil
}

type builder struct {
	deps  Deps
	scene *Scene
	byID  map[string]*actor.Actor
}

func parseStatus(s string) (actor.StatusType, error) {
	if s == "" {
		return defaultStatus, nil
	}
	st, ok := actor.ParseStatus(s)
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownStatus)
	}
	return st, nil
}

func (b *builder) actor(d *data.ActorDef) (*actor.Actor, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	kind := actor.KindDecorator
	if d.Kind != "" {
		k, ok := actor.ParseKind(d.Kind)
		if !ok {
			return nil, fmt.Errorf("actor %s: kind %q: %w", id, d.Kind, ErrUnknownKind)
		}
		kind = k
	}
	status, err := parseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("actor %s: %w", id, err)
	}
	scale := mgl64.Vec3{1, 1, 1}
	if d.Scale != nil {
		scale = *d.Scale
	}
	a := actor.New(id, kind, status, actor.NewTransform(d.Translation, d.Rotation, scale, actor.DefaultLook, actor.DefaultUp))
	if d.Color != nil {
		a.Appearance.Color = *d.Color
	}
	if d.Alpha != nil {
		a.Appearance.Alpha = *d.Alpha
	}
	if d.Visual != nil {
		a.Visual = &actor.Visual{Mesh: d.Visual.Mesh, Material: d.Visual.Material, Texture: d.Visual.Texture}
	}
	if kind == actor.KindZone {
		if d.ZoneCamera == "" {
			return nil, fmt.Errorf("zone %s: camera: %w", id, ErrMissingTarget)
		}
		b.scene.Zones[id] = d.ZoneCamera
	}
	b.byID[id] = a
	if err := b.attach(a, d.Controllers); err != nil {
		return nil, err
	}
	return a, nil
}

func (b *builder) camera(d *data.CameraDef) (*manager.Camera, error) {
	status, err := parseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("camera %s: %w", d.ID, err)
	}
	vp := render.Viewport{X: d.Viewport.X, Y: d.Viewport.Y, Width: d.Viewport.Width, Height: d.Viewport.Height}
	if vp.Width == 0 || vp.Height == 0 {
		vp = b.deps.Screen
	}
	proj := projection(d.Projection, vp)
	t := actor.NewTransform(d.Translation, d.Rotation, mgl64.Vec3{1, 1, 1}, actor.DefaultLook, actor.DefaultUp)
	c := manager.NewCamera(d.ID, t, proj, vp, status)
	c.DrawDepth = d.DrawDepth
	b.byID[d.ID] = c.Actor
	if err := b.attach(c.Actor, d.Controllers); err != nil {
		return nil, err
	}
	return c, nil
}

func projection(d data.ProjectionDef, vp render.Viewport) manager.ProjectionParameters {
	p := manager.StandardShallowSixteenNine
	if d.Preset == "deep" {
		p = manager.StandardDeepSixteenNine
	}
	if vp.Width > 0 && vp.Height > 0 {
		p.AspectRatio = vp.AspectRatio()
	}
	if d.FieldOfView > 0 {
		p.FieldOfView = d.FieldOfView
	}
	if d.AspectRatio > 0 {
		p.AspectRatio = d.AspectRatio
	}
	if d.NearClip > 0 {
		p.NearClip = d.NearClip
	}
	if d.FarClip > 0 {
		p.FarClip = d.FarClip
	}
	return p
}

// publisher and bus keep a nil dispatcher from becoming a non-nil interface.
func (b *builder) publisher() controller.Publisher {
	if b.deps.Events == nil {
		return nil
	}
	return b.deps.Events
}

func (b *builder) bus() controller.Bus {
	if b.deps.Events == nil {
		return nil
	}
	return b.deps.Events
}

func (b *builder) attach(a *actor.Actor, defs []data.ControllerDef) error {
	for i := range defs {
		c, err := b.controller(a, &defs[i], i)
		if err != nil {
			return fmt.Errorf("actor %s: %w", a.ID(), err)
		}
		a.AttachController(c)
	}
	return nil
}

func (b *builder) controller(owner *actor.Actor, d *data.ControllerDef, index int) (actor.Controller, error) {
	typ, ok := actor.ParseControllerType(d.Type)
	if !ok {
		return nil, fmt.Errorf("controller %q: %w", d.Type, ErrUnknownController)
	}
	id := d.ID
	if id == "" {
		id = fmt.Sprintf("%s/%s#%d", owner.ID(), typ, index)
	}
	play, ok := actor.ParsePlayStatus(d.Status)
	if !ok {
		return nil, fmt.Errorf("controller %s: play status %q: %w", id, d.Status, ErrUnknownStatus)
	}

	move := b.deps.Move
	if d.Move != nil {
		move = *d.Move
	}

	var c actor.Controller
	switch typ {
	case actor.ControllerRotation:
		if d.Oscillate {
			c = controller.NewRotationSineLerp(id, d.Axis, d.Trig)
		} else {
			c = controller.NewRotationController(id, d.Speed)
		}
	case actor.ControllerTranslationLerp:
		c = controller.NewTranslationSineLerp(id, d.Axis, d.Trig)
	case actor.ControllerScaleLerp:
		c = controller.NewScaleSineLerp(id, d.Axis, d.Trig)
	case actor.ControllerColorLerp:
		c = controller.NewColorSineLerp(id, d.StartColor, d.EndColor, d.Trig)
	case actor.ControllerPickup:
		p := controller.DefaultPickup
		if d.Pickup != nil {
			p = *d.Pickup
		}
		c = controller.NewPickupController(id, p, b.publisher())
	case actor.ControllerProgress:
		pc := controller.NewUIProgressController(id, d.Start, d.Max, b.bus())
		b.scene.closers = append(b.scene.closers, pc.Close)
		c = pc
	case actor.ControllerFlightCamera:
		keys := input.DefaultCameraKeys
		if d.Keys != nil {
			keys = *d.Keys
		}
		c = controller.NewFlightCameraController(id, b.deps.Input, keys, move)
	case actor.ControllerPlayer:
		keys := input.DefaultPlayerKeys
		if d.Keys != nil {
			keys = *d.Keys
		}
		c = controller.NewPlayerController(id, b.deps.Input, keys, move)
	case actor.ControllerThirdPerson:
		target, ok := b.byID[d.Target]
		if !ok {
			return nil, fmt.Errorf("controller %s: target %q: %w", id, d.Target, ErrMissingTarget)
		}
		p := controller.DefaultThirdPerson
		if d.ThirdPerson != nil {
			p = *d.ThirdPerson
		}
		c = controller.NewThirdPersonController(id, target, b.deps.Input, p)
	case actor.ControllerScript:
		if b.deps.Scripts == nil {
			return nil, fmt.Errorf("controller %s: %w", id, ErrNoScripting)
		}
		if d.Function == "" {
			return nil, fmt.Errorf("controller %s: function: %w", id, ErrMissingTarget)
		}
		c = controller.NewScriptController(id, d.Function, b.deps.Scripts, b.deps.Log)
	default:
		return nil, fmt.Errorf("controller %q: %w", d.Type, ErrUnknownController)
	}
	c.SetPlayStatus(play)
	return c, nil
}
