// Package input is the narrow input contract that camera and player
// controllers poll, plus a frame-scoped key state and a terminal source.
package input

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Key names a key the way scene and config files do: a lower-case rune
// ("w") or a lower-case special key name ("up", "f1", "esc").
type Key string

func ParseKey(s string) Key { return Key(strings.ToLower(strings.TrimSpace(s))) }

// Source is polled by controllers once per tick.
type Source interface {
	KeyDown(k Key) bool
	FirstPress(k Key) bool
	MouseDelta() mgl64.Vec2
	ScrollDelta() float64
}

// MoveKeys binds movement to keys. Zero keys are never down.
type MoveKeys struct {
	Forward   Key `toml:"forward" yaml:"forward"`
	Back      Key `toml:"back" yaml:"back"`
	Left      Key `toml:"left" yaml:"left"`
	Right     Key `toml:"right" yaml:"right"`
	Up        Key `toml:"up" yaml:"up"`
	Down      Key `toml:"down" yaml:"down"`
	TurnLeft  Key `toml:"turn_left" yaml:"turn_left"`
	TurnRight Key `toml:"turn_right" yaml:"turn_right"`
}

var (
	DefaultCameraKeys = MoveKeys{Forward: "w", Back: "s", Left: "a", Right: "d", Up: "r", Down: "f", TurnLeft: "z", TurnRight: "x"}
	DefaultPlayerKeys = MoveKeys{Forward: "up", Back: "down", TurnLeft: "left", TurnRight: "right"}
)

// State is a frame-scoped snapshot of input. Keys pressed during a frame stay
// down until the next BeginFrame.
type State struct {
	down  map[Key]bool
	prev  map[Key]bool
	mouse mgl64.Vec2
	last  mgl64.Vec2
	seen  bool
	delta mgl64.Vec2
	wheel float64
}

func NewState() *State {
	return &State{
		down: make(map[Key]bool),
		prev: make(map[Key]bool),
	}
}

// BeginFrame rolls the current keys into the previous frame and clears the
// per-frame deltas.
func (s *State) BeginFrame() {
	s.prev, s.down = s.down, s.prev
	clear(s.down)
	s.delta = mgl64.Vec2{}
	s.wheel = 0
}

func (s *State) Press(k Key)   { s.down[k] = true }
func (s *State) Release(k Key) { delete(s.down, k) }

// MoveMouse records an absolute pointer position; the first sample yields no delta.
func (s *State) MoveMouse(x, y float64) {
	p := mgl64.Vec2{x, y}
	if s.seen {
		s.delta = s.delta.Add(p.Sub(s.last))
	}
	s.last = p
	s.seen = true
	s.mouse = p
}

func (s *State) Scroll(d float64) { s.wheel += d }

func (s *State) KeyDown(k Key) bool {
	return k != "" && s.down[k]
}

func (s *State) FirstPress(k Key) bool {
	return k != "" && s.down[k] && !s.prev[k]
}

func (s *State) MouseDelta() mgl64.Vec2 { return s.delta }
func (s *State) ScrollDelta() float64   { return s.wheel }

// Mouse returns the last pointer position.
func (s *State) Mouse() mgl64.Vec2 { return s.mouse }
