package manager

import (
	"github.com/gdlib/gdengine/internal/core/actor"
	"github.com/gdlib/gdengine/internal/render"
	"github.com/go-gl/mathgl/mgl64"
)

// ProjectionParameters describe a perspective projection. FieldOfView is in degrees.
type ProjectionParameters struct {
	FieldOfView float64
	AspectRatio float64
	NearClip    float64
	FarClip     float64
}

var (
	StandardShallowSixteenNine = ProjectionParameters{FieldOfView: 45, AspectRatio: 16.0 / 9.0, NearClip: 0.1, FarClip: 500}
	StandardDeepSixteenNine    = ProjectionParameters{FieldOfView: 45, AspectRatio: 16.0 / 9.0, NearClip: 0.1, FarClip: 2500}
)

func (p ProjectionParameters) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(p.FieldOfView), p.AspectRatio, p.NearClip, p.FarClip)
}

// Camera is an actor of KindCamera with a projection policy and a viewport.
// A controller attached to the embedded Actor drives its transform.
type Camera struct {
	*actor.Actor
	Projection ProjectionParameters
	Viewport   render.Viewport
	DrawDepth  float64
}

func NewCamera(id string, t *actor.Transform, proj ProjectionParameters, vp render.Viewport, status actor.StatusType) *Camera {
	return &Camera{
		Actor:      actor.New(id, actor.KindCamera, status, t),
		Projection: proj,
		Viewport:   vp,
	}
}

// View looks from the camera position along its look vector.
func (c *Camera) View() mgl64.Mat4 {
	pos := c.Transform.Translation()
	return mgl64.LookAtV(pos, pos.Add(c.Transform.Look()), c.Transform.Up())
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return c.Projection.Projection()
}

// ViewProjection is projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.View())
}
