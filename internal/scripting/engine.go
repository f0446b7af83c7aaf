package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var ErrFunctionNotFound = errors.New("lua function not found")

// Engine wraps a single gopher-lua VM for controller scripts.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: lib/ first, then the top level.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.registerHelpers()

	if err := e.loadDir(filepath.Join(scriptsDir, "lib")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lib scripts: %w", err)
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

func (e *Engine) registerHelpers() {
	e.vm.SetGlobal("log_info", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
}

// Has reports whether a global function with that name is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// ControllerState is what a script sees of its owner each tick, and what it
// hands back.
type ControllerState struct {
	ActorID     string
	DT          float64 // seconds
	Elapsed     float64 // seconds
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3
	Scale       mgl64.Vec3
	Alpha       float64
}

// CallController calls fn(ctx) and returns ctx updated with whatever fields
// the returned table sets. A nil return leaves the state unchanged.
func (e *Engine) CallController(fn string, st ControllerState) (ControllerState, error) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		return st, fmt.Errorf("%s: %w", fn, ErrFunctionNotFound)
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LString(st.ActorID))
	t.RawSetString("dt", lua.LNumber(st.DT))
	t.RawSetString("elapsed", lua.LNumber(st.Elapsed))
	t.RawSetString("translation", e.vecTable(st.Translation))
	t.RawSetString("rotation", e.vecTable(st.Rotation))
	t.RawSetString("scale", e.vecTable(st.Scale))
	t.RawSetString("alpha", lua.LNumber(st.Alpha))

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return st, fmt.Errorf("call %s: %w", fn, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return st, nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return st, fmt.Errorf("%s returned %s, want table", fn, result.Type())
	}
	st.Translation = lVec(rt, "translation", st.Translation)
	st.Rotation = lVec(rt, "rotation", st.Rotation)
	st.Scale = lVec(rt, "scale", st.Scale)
	if a, ok := rt.RawGetString("alpha").(lua.LNumber); ok {
		st.Alpha = float64(a)
	}
	return st, nil
}

// --- Lua helpers ---

func (e *Engine) vecTable(v mgl64.Vec3) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(v[0]))
	t.RawSetString("y", lua.LNumber(v[1]))
	t.RawSetString("z", lua.LNumber(v[2]))
	return t
}

// lVec reads an {x,y,z} field; missing components keep def.
func lVec(t *lua.LTable, key string, def mgl64.Vec3) mgl64.Vec3 {
	vt, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return def
	}
	for i, k := range []string{"x", "y", "z"} {
		if n, ok := vt.RawGetString(k).(lua.LNumber); ok {
			def[i] = float64(n)
		}
	}
	return def
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
