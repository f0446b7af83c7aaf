package controller

import (
	"math"
	"testing"
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/gdlib/gdengine/internal/scripting"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const eps = 1e-6

// near compares by distance; mgl64's ApproxEqualThreshold squares the
// tolerance when a component is zero.
func near(got, want mgl64.Vec3, tol float64) bool { return got.Sub(want).Len() <= tol }

func seconds(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

func newActor(id string) *actor.Actor {
	return actor.New(id, actor.KindDecorator, actor.StatusDrawn|actor.StatusUpdated, nil)
}

func TestTranslationSineLerpQuarterAndHalfPeriod(t *testing.T) {
	a := newActor("bob")
	a.Transform.SetTranslation(mgl64.Vec3{0, 5, 0})
	c := NewTranslationSineLerp("lerp", mgl64.Vec3{0, 1, 0}, TrigonometricParameters{Amplitude: 0.1, Frequency: 1})
	a.AttachController(c)

	// The offset is A*sin(f*t) from the starting translation, not an
	// accumulated drift: a quarter period peaks at base+A and half a period
	// is back at base, the midpoint of the swing. Period is 2*pi seconds
	// here; tick a quarter of it in small steps.
	const steps = 100
	for i := 0; i < steps; i++ {
		a.Update(seconds(math.Pi / 2 / steps))
	}
	if y := a.Transform.Translation()[1]; math.Abs(y-5.1) > eps {
		t.Fatalf("quarter period y = %v, want 5.1", y)
	}
	for i := 0; i < steps; i++ {
		a.Update(seconds(math.Pi / 2 / steps))
	}
	if y := a.Transform.Translation()[1]; math.Abs(y-5) > eps {
		t.Fatalf("half period y = %v, want 5", y)
	}
}

func TestRotationSineLerpQuarterPeriod(t *testing.T) {
	a := newActor("pendulum")
	a.Transform.SetRotation(mgl64.Vec3{0, 0, 10})
	a.AttachController(NewRotationSineLerp("swing", mgl64.Vec3{0, 0, 1}, TrigonometricParameters{Amplitude: 0.1, Frequency: 1}))

	// same swing about the starting rotation: the quarter period is the peak
	for i := 0; i < 100; i++ {
		a.Update(seconds(math.Pi / 2 / 100))
	}
	if z := a.Transform.Rotation()[2]; math.Abs(z-10.1) > eps {
		t.Fatalf("quarter period roll = %v, want 10.1", z)
	}
}

func TestPausedLerpKeepsElapsed(t *testing.T) {
	a := newActor("bob")
	c := NewScaleSineLerp("pulse", mgl64.Vec3{1, 1, 1}, TrigonometricParameters{Amplitude: 0.5, Frequency: 2})
	a.AttachController(c)
	a.Update(seconds(0.25))
	before := a.Transform.Scale()

	c.SetPlayStatus(actor.PlayStatusPaused)
	a.Update(seconds(10))
	c.Tick(a, seconds(10))
	if c.Elapsed() != seconds(0.25) || a.Transform.Scale() != before {
		t.Fatalf("paused lerp advanced: elapsed %v scale %v", c.Elapsed(), a.Transform.Scale())
	}
}

func TestColorSineLerp(t *testing.T) {
	a := newActor("lamp")
	c := NewColorSineLerp("glow", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, TrigonometricParameters{Amplitude: 1, Frequency: 1})
	a.AttachController(c)
	a.Update(seconds(math.Pi / 2))
	if !near(a.Appearance.Color, mgl64.Vec3{1, 0, 0}, eps) {
		t.Fatalf("color at peak = %v", a.Appearance.Color)
	}
}

func TestRotationController(t *testing.T) {
	a := newActor("spinner")
	a.AttachController(NewRotationController("spin", mgl64.Vec3{0, 90, 0}))
	a.Update(seconds(0.5))
	a.Update(seconds(0.5))
	if !near(a.Transform.Rotation(), mgl64.Vec3{0, 90, 0}, eps) {
		t.Fatalf("rotation = %v", a.Transform.Rotation())
	}
}

func TestPickupPublishesWhenFaded(t *testing.T) {
	d := event.NewDispatcher(4, nil)
	var got []event.Data
	d.Subscribe(event.CategoryPickup, func(e event.Data) { got = append(got, e) })
	d.Subscribe(event.CategoryActor, func(e event.Data) { got = append(got, e) })

	a := newActor("ammo-1")
	c := NewPickupController("pickup", PickupParameters{
		Value:          3,
		RotationSpeed:  180,
		Rise:           mgl64.Vec3{0, 1, 0},
		ScaleRate:      0.5,
		AlphaRate:      -1,
		AlphaThreshold: 0.1,
	}, d)
	a.AttachController(c)

	a.Update(seconds(0.5))
	if c.Done() || d.Pending() != 0 {
		t.Fatal("pickup finished early")
	}
	if y := a.Transform.Translation()[1]; math.Abs(y-0.5) > eps {
		t.Fatalf("rise y = %v", y)
	}
	a.Update(seconds(0.5))
	if !c.Done() || c.PlayStatus() != actor.PlayStatusStopped {
		t.Fatal("pickup did not finish")
	}
	d.Update()
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	// drained newest first
	if got[0].Action != event.OnRemoveActor || got[1].Action != event.OnPickup {
		t.Fatalf("events = %v", got)
	}
	if v, _ := got[1].FloatParam(1); v != 3 {
		t.Fatalf("pickup value = %v", v)
	}

	a.Update(seconds(1))
	if d.Pending() != 0 {
		t.Fatal("finished pickup published again")
	}
}

func TestPickupLifetime(t *testing.T) {
	d := event.NewDispatcher(4, nil)
	a := newActor("ammo-2")
	c := NewPickupController("pickup", PickupParameters{Lifetime: time.Second}, d)
	a.AttachController(c)
	a.Update(seconds(0.6))
	a.Update(seconds(0.6))
	if !c.Done() || d.Pending() != 2 {
		t.Fatalf("done = %v pending = %d", c.Done(), d.Pending())
	}
}

func TestUIProgressCountsPickupsAndWins(t *testing.T) {
	d := event.NewDispatcher(4, nil)
	var wins int
	d.Subscribe(event.CategoryPlayer, func(e event.Data) {
		if e.Action == event.OnWin {
			wins++
		}
	})

	bar := newActor("progress")
	bar.Transform.SetScale(mgl64.Vec3{4, 1, 1})
	c := NewUIProgressController("progress", 0, 2, d)
	defer c.Close()
	bar.AttachController(c)

	d.Publish(event.New(event.CategoryPickup, event.OnPickup, "ammo-1", 1.0))
	d.Update()
	bar.Update(time.Millisecond)
	if c.Fraction() != 0.5 || bar.Transform.Scale()[0] != 2 {
		t.Fatalf("fraction = %v scale = %v", c.Fraction(), bar.Transform.Scale())
	}

	d.Publish(event.New(event.CategoryPickup, event.OnPickup, "ammo-2", 1.0))
	d.Update()
	d.Update()
	if !c.Won() || wins != 1 {
		t.Fatalf("won = %v wins = %d", c.Won(), wins)
	}
	d.Publish(event.New(event.CategoryPickup, event.OnPickup, "ammo-3", 1.0))
	d.Update()
	d.Update()
	if wins != 1 || c.Current() != 2 {
		t.Fatalf("wins = %d current = %v", wins, c.Current())
	}
}

func TestFlightCameraMovesAlongLook(t *testing.T) {
	in := input.NewState()
	cam := actor.New("cam", actor.KindCamera, actor.StatusUpdated, nil)
	c := NewFlightCameraController("fly", in, input.DefaultCameraKeys, MoveParameters{MoveSpeed: 2, StrafeSpeed: 1, RotationSpeed: 90})
	cam.AttachController(c)

	in.Press("w")
	in.Press("d")
	cam.Update(seconds(1))
	if !near(cam.Transform.Translation(), mgl64.Vec3{1, 0, -2}, eps) {
		t.Fatalf("position = %v", cam.Transform.Translation())
	}

	in.BeginFrame()
	in.Press("z")
	cam.Update(seconds(1))
	if !near(cam.Transform.Look(), mgl64.Vec3{-1, 0, 0}, eps) {
		t.Fatalf("look after turning left = %v", cam.Transform.Look())
	}
}

func TestFlightCameraClampsPitch(t *testing.T) {
	in := input.NewState()
	cam := actor.New("cam", actor.KindCamera, actor.StatusUpdated, nil)
	cam.AttachController(NewFlightCameraController("fly", in, input.DefaultCameraKeys, MoveParameters{MouseSensitivity: 1}))
	in.MoveMouse(0, 500)
	in.MoveMouse(0, 0)
	cam.Update(seconds(0.1))
	if p := cam.Transform.Rotation()[0]; p != maxPitch {
		t.Fatalf("pitch = %v", p)
	}
}

func TestThirdPersonSitsBehindAndAbove(t *testing.T) {
	target := newActor("player")
	target.Transform.SetTranslation(mgl64.Vec3{1, 0, 0})
	cam := actor.New("chase", actor.KindCamera, actor.StatusUpdated, nil)
	c := NewThirdPersonController("follow", target, nil, ThirdPersonParameters{Distance: 10, Elevation: 30})
	cam.AttachController(c)
	cam.Update(seconds(0.1))

	want := mgl64.Vec3{1, 5, 10 * math.Cos(math.Pi/6)}
	if !near(cam.Transform.Translation(), want, eps) {
		t.Fatalf("camera at %v, want %v", cam.Transform.Translation(), want)
	}
	toTarget := target.Transform.Translation().Sub(want).Normalize()
	if !near(cam.Transform.Look(), toTarget, eps) {
		t.Fatalf("look = %v, want %v", cam.Transform.Look(), toTarget)
	}
}

func TestThirdPersonScrollZoom(t *testing.T) {
	in := input.NewState()
	target := newActor("player")
	cam := actor.New("chase", actor.KindCamera, actor.StatusUpdated, nil)
	c := NewThirdPersonController("follow", target, in, ThirdPersonParameters{Distance: 5, MinDistance: 2, ScrollSpeed: 2})
	cam.AttachController(c)
	in.Scroll(1)
	cam.Update(seconds(0.1))
	if c.Params.Distance != 3 {
		t.Fatalf("distance = %v", c.Params.Distance)
	}
	cam.Update(seconds(0.1))
	if c.Params.Distance != 2 {
		t.Fatalf("distance below minimum: %v", c.Params.Distance)
	}
}

func TestPlayerWalksOnGroundPlane(t *testing.T) {
	in := input.NewState()
	p := actor.New("player", actor.KindPlayer, actor.StatusDrawn|actor.StatusUpdated, nil)
	p.Transform.SetRotation(mgl64.Vec3{-30, 0, 0})
	p.AttachController(NewPlayerController("walk", in, input.DefaultPlayerKeys, MoveParameters{MoveSpeed: 3}))
	in.Press("up")
	p.Update(seconds(1))
	if !near(p.Transform.Translation(), mgl64.Vec3{0, 0, -3}, eps) {
		t.Fatalf("position = %v", p.Transform.Translation())
	}
}

func TestScriptController(t *testing.T) {
	e, err := scripting.NewEngine(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if err := e.DoString(`
function drift(ctx) return { translation = { x = ctx.elapsed } } end
function crash(ctx) error("boom") end
`); err != nil {
		t.Fatal(err)
	}

	a := newActor("scripted")
	a.AttachController(NewScriptController("drift", "drift", e, nil))
	a.Update(seconds(0.5))
	a.Update(seconds(0.5))
	if x := a.Transform.Translation()[0]; math.Abs(x-1) > eps {
		t.Fatalf("x = %v", x)
	}

	core, logs := observer.New(zapcore.ErrorLevel)
	b := newActor("broken")
	c := NewScriptController("crash", "crash", e, zap.New(core))
	b.AttachController(c)
	b.Update(seconds(0.1))
	b.Update(seconds(0.1))
	if c.PlayStatus() != actor.PlayStatusStopped || logs.Len() != 1 {
		t.Fatalf("status = %v logs = %d", c.PlayStatus(), logs.Len())
	}
}
