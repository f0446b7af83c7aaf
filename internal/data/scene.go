package data

import (
	"fmt"
	"os"

	"github.com/gdlib/gdengine/internal/controller"
	"github.com/gdlib/gdengine/internal/input"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// VisualDef names renderer-owned resources.
type VisualDef struct {
	Mesh     string `yaml:"mesh"`
	Material string `yaml:"material"`
	Texture  string `yaml:"texture"`
}

// ProjectionDef is either a preset ("shallow", "deep") or explicit values.
// Explicit non-zero values override the preset.
type ProjectionDef struct {
	Preset      string  `yaml:"preset"`
	FieldOfView float64 `yaml:"fov"`
	AspectRatio float64 `yaml:"aspect"`
	NearClip    float64 `yaml:"near"`
	FarClip     float64 `yaml:"far"`
}

// ViewportDef in cells. A zero width or height means the whole screen.
type ViewportDef struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ControllerDef declares one controller. Which fields apply depends on Type.
type ControllerDef struct {
	ID     string `yaml:"id"`
	Type   string `yaml:"type"`
	Status string `yaml:"status"` // playing (default), paused, stopped

	Speed       mgl64.Vec3                         `yaml:"speed"` // rotation, deg/s
	Axis        mgl64.Vec3                         `yaml:"axis"`  // sine lerps
	Trig        controller.TrigonometricParameters `yaml:"trig"`
	Oscillate   bool                               `yaml:"oscillate"` // rotation: sine swing instead of constant spin
	StartColor  mgl64.Vec3                         `yaml:"start_color"`
	EndColor    mgl64.Vec3                         `yaml:"end_color"`
	Pickup      *controller.PickupParameters       `yaml:"pickup"`
	Start       float64                            `yaml:"start"` // progress
	Max         float64                            `yaml:"max"`
	Keys        *input.MoveKeys                    `yaml:"keys"`
	Move        *controller.MoveParameters         `yaml:"move"`
	Target      string                             `yaml:"target"` // third person
	ThirdPerson *controller.ThirdPersonParameters  `yaml:"third_person"`
	Function    string                             `yaml:"function"` // script
}

// ActorDef declares one actor. Actors without an id get a generated one.
type ActorDef struct {
	ID          string          `yaml:"id"`
	Kind        string          `yaml:"kind"`
	Status      string          `yaml:"status"` // e.g. "drawn|updated"
	Translation mgl64.Vec3      `yaml:"translation"`
	Rotation    mgl64.Vec3      `yaml:"rotation"`
	Scale       *mgl64.Vec3     `yaml:"scale"` // default 1,1,1
	Color       *mgl64.Vec3     `yaml:"color"` // default white
	Alpha       *float64        `yaml:"alpha"` // default 1
	Visual      *VisualDef      `yaml:"visual"`
	ZoneCamera  string          `yaml:"zone_camera"`
	Controllers []ControllerDef `yaml:"controllers"`
}

// CameraDef declares a camera actor.
type CameraDef struct {
	ID          string          `yaml:"id"`
	Status      string          `yaml:"status"`
	Translation mgl64.Vec3      `yaml:"translation"`
	Rotation    mgl64.Vec3      `yaml:"rotation"`
	Projection  ProjectionDef   `yaml:"projection"`
	Viewport    ViewportDef     `yaml:"viewport"`
	DrawDepth   float64         `yaml:"draw_depth"`
	Controllers []ControllerDef `yaml:"controllers"`
}

// SceneDef is the root of a scene file.
type SceneDef struct {
	Name    string      `yaml:"name"`
	Player  string      `yaml:"player"` // id of the actor driven by interaction
	Cameras []CameraDef `yaml:"cameras"`
	Actors  []ActorDef  `yaml:"actors"`
}

// LoadScene loads a scene yaml file.
func LoadScene(path string) (*SceneDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes a scene and checks that ids are unique.
func ParseScene(raw []byte) (*SceneDef, error) {
	var s SceneDef
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if len(s.Cameras) == 0 {
		return nil, fmt.Errorf("scene %q has no cameras", s.Name)
	}
	seen := make(map[string]bool, len(s.Cameras)+len(s.Actors))
	check := func(id string) error {
		if id == "" {
			return nil
		}
		if seen[id] {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = true
		return nil
	}
	for i, c := range s.Cameras {
		if c.ID == "" {
			return nil, fmt.Errorf("camera %d has no id", i)
		}
		if err := check(c.ID); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Actors {
		if err := check(a.ID); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Count returns the number of declared cameras and actors.
func (s *SceneDef) Count() int {
	return len(s.Cameras) + len(s.Actors)
}
