package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

type lines []string

func (l lines) Lines() []string { return l }

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(40, 20)
	t.Cleanup(s.Fini)
	return s
}

func box(id string, at mgl64.Vec3, scale float64, color mgl64.Vec3) DrawCall {
	return DrawCall{
		ActorID:    id,
		World:      mgl64.Translate3D(at[0], at[1], at[2]).Mul4(mgl64.Scale3D(scale, scale, scale)),
		View:       mgl64.LookAtV(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}),
		Projection: mgl64.Perspective(mgl64.DegToRad(45), 2, 0.1, 100),
		Color:      color,
		Alpha:      1,
	}
}

func TestTerminalRendererProjectsToCenter(t *testing.T) {
	s := newScreen(t)
	r := NewTerminalRenderer(s)
	r.BeginFrame(r.ScreenViewport())
	r.Draw(box("a", mgl64.Vec3{}, 2, mgl64.Vec3{1, 1, 1}))
	r.EndFrame()

	if ch, _, _, _ := s.GetContent(20, 10); ch != '█' {
		t.Fatalf("center cell = %q", ch)
	}
	if ch, _, _, _ := s.GetContent(1, 1); ch == '█' {
		t.Fatal("corner cell was filled")
	}
	if draws, culled := r.Stats(); draws != 1 || culled != 0 {
		t.Fatalf("draws = %d culled = %d", draws, culled)
	}
}

func TestTerminalRendererDepthTest(t *testing.T) {
	s := newScreen(t)
	r := NewTerminalRenderer(s)
	red := tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 0, 0))

	r.BeginFrame(r.ScreenViewport())
	r.Draw(box("near", mgl64.Vec3{0, 0, 2}, 1, mgl64.Vec3{1, 0, 0}))
	r.Draw(box("far", mgl64.Vec3{0, 0, -5}, 6, mgl64.Vec3{0, 1, 0}))
	r.EndFrame()

	if _, _, st, _ := s.GetContent(20, 10); st != red {
		t.Fatal("far box overwrote the near one")
	}
}

func TestTerminalRendererCullsBehindCamera(t *testing.T) {
	s := newScreen(t)
	r := NewTerminalRenderer(s)
	r.BeginFrame(r.ScreenViewport())
	r.Draw(box("behind", mgl64.Vec3{0, 0, 20}, 1, mgl64.Vec3{1, 1, 1}))
	r.EndFrame()
	if draws, culled := r.Stats(); draws != 0 || culled != 1 {
		t.Fatalf("draws = %d culled = %d", draws, culled)
	}
}

func TestTerminalRendererOverlayAndHUD(t *testing.T) {
	s := newScreen(t)
	r := NewTerminalRenderer(s)
	r.AddOverlay(lines{"box-1 [4.00]"})
	r.SetDebug(true)
	r.BeginFrame(r.ScreenViewport())
	r.EndFrame()

	if ch, _, _, _ := s.GetContent(0, 0); ch != 'b' {
		t.Fatalf("overlay first cell = %q", ch)
	}
	if ch, _, _, _ := s.GetContent(0, 19); ch != 'f' {
		t.Fatalf("hud first cell = %q", ch)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.BeginFrame(Viewport{Width: 4, Height: 2})
	r.Draw(DrawCall{ActorID: "a"})
	r.Draw(DrawCall{ActorID: "b"})
	r.EndFrame()
	r.BeginFrame(Viewport{Width: 4, Height: 2})
	r.Draw(DrawCall{ActorID: "c"})
	r.EndFrame()
	if ids := r.IDs(); len(ids) != 1 || ids[0] != "c" || r.Frames != 2 {
		t.Fatalf("ids = %v frames = %d", ids, r.Frames)
	}
	if r.Viewport.AspectRatio() != 2 {
		t.Fatalf("aspect = %v", r.Viewport.AspectRatio())
	}
}
