package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const bobScript = `
function bob(ctx)
  return { translation = { y = ctx.translation.y + ctx.dt }, alpha = 0.5 }
end
`

func newEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestCallControllerAppliesReturnedFields(t *testing.T) {
	e := newEngine(t, map[string]string{"bob.lua": bobScript})
	if !e.Has("bob") {
		t.Fatal("bob not loaded")
	}
	in := ControllerState{
		ActorID:     "box",
		DT:          0.5,
		Translation: mgl64.Vec3{1, 2, 3},
		Scale:       mgl64.Vec3{1, 1, 1},
		Alpha:       1,
	}
	out, err := e.CallController("bob", in)
	if err != nil {
		t.Fatalf("CallController: %v", err)
	}
	if out.Translation != (mgl64.Vec3{1, 2.5, 3}) {
		t.Fatalf("translation = %v", out.Translation)
	}
	if out.Alpha != 0.5 || out.Scale != in.Scale {
		t.Fatalf("state = %+v", out)
	}
}

func TestLibLoadsFirst(t *testing.T) {
	e := newEngine(t, map[string]string{
		"lib/util.lua": `function double(v) return v * 2 end`,
		"grow.lua":     `function grow(ctx) return { scale = { x = double(ctx.scale.x) } } end`,
	})
	out, err := e.CallController("grow", ControllerState{Scale: mgl64.Vec3{1, 1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if out.Scale != (mgl64.Vec3{2, 1, 1}) {
		t.Fatalf("scale = %v", out.Scale)
	}
}

func TestCallControllerErrors(t *testing.T) {
	e := newEngine(t, map[string]string{
		"bad.lua": `
function broken(ctx) error("boom") end
function wrong(ctx) return 7 end
function idle(ctx) end
`,
	})
	if _, err := e.CallController("missing", ControllerState{}); !errors.Is(err, ErrFunctionNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
	if _, err := e.CallController("broken", ControllerState{}); err == nil {
		t.Fatal("runtime error not returned")
	}
	if _, err := e.CallController("wrong", ControllerState{}); err == nil {
		t.Fatal("non-table return accepted")
	}
	in := ControllerState{ActorID: "a", Alpha: 0.3}
	out, err := e.CallController("idle", in)
	if err != nil || out != in {
		t.Fatalf("nil return changed state: %+v %v", out, err)
	}
}

func TestNewEngineReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, nil); err == nil {
		t.Fatal("syntax error not reported")
	}
}
