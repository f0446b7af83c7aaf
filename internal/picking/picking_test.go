package picking

import (
	"math"
	"testing"
	"time"

	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/core/event"
	"github.com/gdlib/gdengine/internal/core/manager"
	"github.com/gdlib/gdengine/internal/render"
	"github.com/go-gl/mathgl/mgl64"
)

func drawn(id string, pos mgl64.Vec3) *actor.Actor {
	a := actor.New(id, actor.KindDecorator, actor.StatusDrawn|actor.StatusUpdated,
		actor.NewTransformAt(pos, mgl64.Vec3{2, 2, 2}))
	a.Visual = &actor.Visual{Mesh: "cube"}
	return a
}

func setup(t *testing.T, actors ...*actor.Actor) (*Picker, *event.Dispatcher) {
	t.Helper()
	d := event.NewDispatcher(8, nil)
	cams := manager.NewCameraManager(d, 2, actor.StatusDrawn|actor.StatusUpdated, nil)
	cams.Add(manager.NewCamera("eye", actor.NewTransformAt(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{1, 1, 1}),
		manager.StandardShallowSixteenNine, render.Viewport{Width: 16, Height: 9}, actor.StatusUpdated))
	objs := manager.NewObjectManager(cams, d, 8, actor.StatusDrawn|actor.StatusUpdated, nil)
	objs.AddAll(actors...)
	objs.Flush()
	return NewPicker(objs, cams, d, 100), d
}

func TestRaySphere(t *testing.T) {
	tests := []struct {
		name   string
		center mgl64.Vec3
		want   float64
		hit    bool
	}{
		{"ahead", mgl64.Vec3{0, 0, -5}, 4, true},
		{"behind", mgl64.Vec3{0, 0, 5}, 0, false},
		{"beside", mgl64.Vec3{3, 0, -5}, 0, false},
		{"inside", mgl64.Vec3{0, 0, -0.5}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := RaySphere(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, tt.center, 1)
			if ok != tt.hit || math.Abs(d-tt.want) > 1e-9 {
				t.Fatalf("RaySphere = %v, %v", d, ok)
			}
		})
	}
}

func TestPickerSelectsNearest(t *testing.T) {
	p, d := setup(t, drawn("far", mgl64.Vec3{0, 0, -20}), drawn("near", mgl64.Vec3{0, 0, 0}), drawn("off", mgl64.Vec3{10, 0, 0}))
	ptr := NewPointer(d)
	defer ptr.Close()

	p.Update(time.Millisecond)
	d.Update()
	if ptr.Text() != "near [9.00]" {
		t.Fatalf("pointer = %q", ptr.Text())
	}
}

func TestPickerReportsNone(t *testing.T) {
	p, d := setup(t, drawn("off", mgl64.Vec3{10, 0, 0}))
	ptr := NewPointer(d)
	var none int
	d.Subscribe(event.CategoryObjectPicked, func(e event.Data) {
		if e.Action == event.OnNonePicked {
			none++
		}
	})
	p.Update(time.Millisecond)
	d.Update()
	if none != 1 || ptr.Lines()[0] != NoneText {
		t.Fatalf("none = %d pointer = %q", none, ptr.Text())
	}
}

func TestPickerRespectsMaxDistance(t *testing.T) {
	p, _ := setup(t, drawn("far", mgl64.Vec3{0, 0, -200}))
	if _, _, ok := p.Pick(); ok {
		t.Fatal("picked beyond max distance")
	}
}
