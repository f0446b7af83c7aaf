// Package controller holds the built-in behaviours that scenes attach to
// actors. Every controller embeds actor.Base and does nothing unless it is
// Playing.
package controller

import (
	"math"

	"github.com/gdlib/gdengine/internal/core/event"
)

// Publisher is the part of the dispatcher a controller publishes through.
type Publisher interface {
	Publish(event.Data)
}

// Bus is a Publisher that can also be subscribed to.
type Bus interface {
	Publisher
	Subscribe(event.Category, event.Handler) event.Subscription
	Unsubscribe(event.Subscription) bool
}

// TrigonometricParameters drive the sine lerps:
// offset(t) = Amplitude * sin(Frequency*t + Phase), t in seconds,
// Frequency in radians per second, Phase in radians.
type TrigonometricParameters struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Phase     float64 `yaml:"phase"`
}

func (p TrigonometricParameters) At(seconds float64) float64 {
	return p.Amplitude * math.Sin(p.Frequency*seconds+p.Phase)
}
