package actor

import (
	"fmt"
	"time"
)

// PlayStatus is a controller's own run state, independent of its owner's flags.
type PlayStatus uint8

const (
	PlayStatusPlaying PlayStatus = iota
	PlayStatusPaused
	PlayStatusStopped
)

func (s PlayStatus) String() string {
	switch s {
	case PlayStatusPlaying:
		return "playing"
	case PlayStatusPaused:
		return "paused"
	case PlayStatusStopped:
		return "stopped"
	}
	return fmt.Sprintf("PlayStatus(%d)", uint8(s))
}

// ParsePlayStatus accepts "playing", "paused", "stopped" (and "on"/"off").
func ParsePlayStatus(s string) (PlayStatus, bool) {
	switch s {
	case "", "playing", "on":
		return PlayStatusPlaying, true
	case "paused":
		return PlayStatusPaused, true
	case "stopped", "off":
		return PlayStatusStopped, true
	}
	return 0, false
}

// ControllerType tags the built-in behaviours.
type ControllerType uint8

const (
	ControllerRotation ControllerType = iota
	ControllerTranslationLerp
	ControllerColorLerp
	ControllerScaleLerp
	ControllerPickup
	ControllerProgress
	ControllerFlightCamera
	ControllerThirdPerson
	ControllerPlayer
	ControllerScript
)

var controllerTypeNames = map[ControllerType]string{
	ControllerRotation:        "rotation",
	ControllerTranslationLerp: "translation_lerp",
	ControllerColorLerp:       "color_lerp",
	ControllerScaleLerp:       "scale_lerp",
	ControllerPickup:          "pickup",
	ControllerProgress:        "progress",
	ControllerFlightCamera:    "flight_camera",
	ControllerThirdPerson:     "third_person",
	ControllerPlayer:          "player",
	ControllerScript:          "script",
}

func (t ControllerType) String() string {
	if n, ok := controllerTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseControllerType maps a scene-file name to a ControllerType.
func ParseControllerType(s string) (ControllerType, bool) {
	for t, n := range controllerTypeNames {
		if n == s {
			return t, true
		}
	}
	return 0, false
}

// Controller is a per-frame behaviour attached to exactly one Actor.
// Implementations embed Base, which carries identity, play status and owner.
type Controller interface {
	ID() string
	Type() ControllerType
	PlayStatus() PlayStatus
	SetPlayStatus(PlayStatus)
	Owner() *Actor

	// Tick applies the behaviour to its owner. Only called while Playing.
	Tick(a *Actor, dt time.Duration)

	bind(a *Actor)
}

// Base implements the bookkeeping half of Controller.
type Base struct {
	id     string
	typ    ControllerType
	status PlayStatus
	owner  *Actor
}

func NewBase(id string, typ ControllerType) Base {
	return Base{id: id, typ: typ, status: PlayStatusPlaying}
}

func (b *Base) ID() string                 { return b.id }
func (b *Base) Type() ControllerType       { return b.typ }
func (b *Base) PlayStatus() PlayStatus     { return b.status }
func (b *Base) SetPlayStatus(s PlayStatus) { b.status = s }
func (b *Base) Owner() *Actor              { return b.owner }

// Playing is the guard every Tick starts with; a tick on a paused or stopped
// controller is a no-op.
func (b *Base) Playing() bool { return b.status == PlayStatusPlaying }

func (b *Base) bind(a *Actor) { b.owner = a }
