package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/gdlib/gdengine/internal/controller"
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	"github.com/gdlib/gdengine/internal/data"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/gdlib/gdengine/internal/render"
	"github.com/gdlib/gdengine/internal/scripting"
	"github.com/go-gl/mathgl/mgl64"
)

const courtyard = `
name: courtyard
player: player
cameras:
  - id: flight camera 1
    translation: [0, 5, 20]
    controllers:
      - type: flight_camera
  - id: chase
    projection: { preset: deep, fov: 60 }
    viewport: { width: 80, height: 20 }
    controllers:
      - type: third_person
        target: player
actors:
  - id: player
    kind: player
    controllers:
      - type: player
  - id: gate
    kind: zone
    status: updated
    zone_camera: chase
  - kind: collidable_ammo
    visual: { mesh: cube }
    controllers:
      - type: pickup
        status: stopped
  - id: bar
    kind: ui_texture
    controllers:
      - type: progress
        max: 3
`

func deps() Deps {
	return Deps{
		Events: event.NewDispatcher(8, nil),
		Input:  input.NewState(),
		Screen: render.Viewport{Width: 40, Height: 20},
	}
}

func build(t *testing.T, src string, d Deps) (*Scene, error) {
	t.Helper()
	def, err := data.ParseScene([]byte(src))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	return Build(def, d)
}

func TestBuildCourtyard(t *testing.T) {
	s, err := build(t, courtyard, deps())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Close()

	if len(s.Cameras) != 2 || len(s.Actors) != 4 {
		t.Fatalf("cameras = %d actors = %d", len(s.Cameras), len(s.Actors))
	}
	if s.Player == nil || s.Player.ID() != "player" {
		t.Fatalf("player = %v", s.Player)
	}
	if s.Zones["gate"] != "chase" {
		t.Fatalf("zones = %v", s.Zones)
	}

	fly := s.Cameras[0]
	if fly.Viewport != (render.Viewport{Width: 40, Height: 20}) || fly.Projection.AspectRatio != 2 {
		t.Fatalf("flight camera viewport %v aspect %v", fly.Viewport, fly.Projection.AspectRatio)
	}
	chase := s.Cameras[1]
	if chase.Projection.FarClip != manager.StandardDeepSixteenNine.FarClip || chase.Projection.FieldOfView != 60 {
		t.Fatalf("chase projection = %+v", chase.Projection)
	}
	tp, ok := chase.Controllers()[0].(*controller.ThirdPersonController)
	if !ok || tp.Target != s.Player {
		t.Fatal("third-person target not resolved")
	}

	ammo := s.Actors[2]
	if ammo.ID() == "" || ammo.Kind() != actor.KindCollidableAmmo {
		t.Fatalf("ammo = %v", ammo)
	}
	if pc := ammo.Controllers()[0]; pc.PlayStatus() != actor.PlayStatusStopped || pc.ID() != ammo.ID()+"/pickup#0" {
		t.Fatalf("pickup controller %s is %s", pc.ID(), pc.PlayStatus())
	}
	if s.Actors[1].Status() != actor.StatusUpdated {
		t.Fatalf("zone status = %v", s.Actors[1].Status())
	}
}

func TestBuildInstallsIntoManagers(t *testing.T) {
	d := deps()
	s, err := build(t, courtyard, d)
	if err != nil {
		t.Fatal(err)
	}
	cams := manager.NewCameraManager(d.Events, 4, actor.StatusDrawn|actor.StatusUpdated, nil)
	objs := manager.NewObjectManager(cams, d.Events, 8, actor.StatusDrawn|actor.StatusUpdated, nil)
	s.Install(objs, cams)
	if objs.Len() != 4 || cams.Len() != 2 || cams.ActiveCamera().ID() != "flight camera 1" {
		t.Fatalf("objects = %d cameras = %d", objs.Len(), cams.Len())
	}
}

func TestBuildIsFresh(t *testing.T) {
	a, err := build(t, courtyard, deps())
	if err != nil {
		t.Fatal(err)
	}
	b, err := build(t, courtyard, deps())
	if err != nil {
		t.Fatal(err)
	}
	a.Player.Transform.TranslateBy(mgl64.Vec3{5, 0, 0})
	if b.Player.Transform.Translation() != (mgl64.Vec3{}) {
		t.Fatal("builds share state")
	}
	if a.Actors[2].ID() == b.Actors[2].ID() {
		t.Fatal("generated ids collide")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown kind", "cameras: [{id: c}]\nactors: [{id: a, kind: dragon}]\n", ErrUnknownKind},
		{"unknown controller", "cameras: [{id: c}]\nactors: [{id: a, controllers: [{type: teleport}]}]\n", ErrUnknownController},
		{"bad status", "cameras: [{id: c}]\nactors: [{id: a, status: visible}]\n", ErrUnknownStatus},
		{"missing target", "cameras: [{id: c, controllers: [{type: third_person, target: ghost}]}]\n", ErrMissingTarget},
		{"zone without camera", "cameras: [{id: c}]\nactors: [{id: z, kind: zone}]\n", ErrMissingTarget},
		{"missing player", "player: p\ncameras: [{id: c}]\n", ErrMissingTarget},
		{"script without engine", "cameras: [{id: c}]\nactors: [{id: a, controllers: [{type: script, function: f}]}]\n", ErrNoScripting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.src, deps())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildWithoutDispatcher(t *testing.T) {
	s, err := build(t, courtyard, Deps{})
	if err != nil {
		t.Fatal(err)
	}
	ammo := s.Actors[2]
	ammo.SetControllerPlayStatus(actor.PlayStatusPlaying, nil)
	for i := 0; i < 100; i++ {
		ammo.Update(50e6)
	}
}

func TestBuildShippedScene(t *testing.T) {
	def, err := data.LoadScene("../../data/yaml/courtyard.yaml")
	if err != nil {
		t.Fatal(err)
	}
	scripts, err := scripting.NewEngine("../../scripts", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer scripts.Close()

	d := deps()
	d.Scripts = scripts
	s, err := Build(def, d)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if len(s.Cameras) != 3 || s.Player == nil || s.Player.ID() != "player" {
		t.Fatalf("cameras %d, player %v", len(s.Cameras), s.Player)
	}
	if s.Zones["tower zone"] != "tower camera" {
		t.Fatalf("zones = %v", s.Zones)
	}

	cameras := manager.NewCameraManager(d.Events, 4, actor.StatusDrawn|actor.StatusUpdated, nil)
	objects := manager.NewObjectManager(cameras, d.Events, 32, actor.StatusDrawn|actor.StatusUpdated, nil)
	s.Install(objects, cameras)
	for i := 0; i < 10; i++ {
		cameras.Update(33 * time.Millisecond)
		objects.Update(33 * time.Millisecond)
	}
	lantern, _ := objects.Find(manager.ByID("lantern"))
	if r := lantern.Transform.Rotation(); r[1] <= 0 {
		t.Fatalf("script did not turn the lantern: %v", r)
	}
}
