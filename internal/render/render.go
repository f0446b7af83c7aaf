// Package render defines what the core submits to a renderer and provides a
// recording renderer and a terminal renderer.
package render

import (
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is a screen-space sub-rectangle in pixels (or cells).
type Viewport struct {
	X, Y          int
	Width, Height int
}

// AspectRatio is width over height; 1 for a degenerate viewport.
func (v Viewport) AspectRatio() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Pad shrinks the viewport by the given margins.
func (v Viewport) Pad(left, top, right, bottom int) Viewport {
	return Viewport{
		X:      v.X + left,
		Y:      v.Y + top,
		Width:  v.Width - left - right,
		Height: v.Height - top - bottom,
	}
}

// DrawCall is one actor submission: the visual reference plus the matrices
// needed to place it.
type DrawCall struct {
	ActorID    string
	Visual     actor.Visual
	World      mgl64.Mat4
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Color      mgl64.Vec3
	Alpha      float64
}

// Renderer accepts draw submissions. Resources behind Visual are owned by
// the renderer, never by the core.
type Renderer interface {
	Draw(call DrawCall)
}

// FrameRenderer is a Renderer that needs frame boundaries.
type FrameRenderer interface {
	Renderer
	BeginFrame(vp Viewport)
	EndFrame()
}

// Overlay is drawn after the world pass (HUD text, pointer).
type Overlay interface {
	Lines() []string
}
