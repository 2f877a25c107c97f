package scene

import (
	m "math"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// Camera is a simple perspective fly camera driving the frame's render view.
type Camera struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32

	FOV       float32
	NearPlane float32
	FarPlane  float32
}

func NewCamera() *Camera {
	return &Camera{
		Position:  math.Vec3{Z: 10.0},
		Yaw:       -math.K_PI / 2.0,
		FOV:       math.DegToRad(60.0),
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
}

// Direction returns the unit view direction from yaw and pitch.
func (c *Camera) Direction() math.Vec3 {
	cosPitch := float32(m.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: float32(m.Cos(float64(c.Yaw))) * cosPitch,
		Y: float32(m.Sin(float64(c.Pitch))),
		Z: float32(m.Sin(float64(c.Yaw))) * cosPitch,
	}.Normalized()
}

// Move translates the camera along its view direction and the world up axis.
func (c *Camera) Move(forward, right, up float32) {
	direction := c.Direction()
	worldUp := math.Vec3{Y: 1.0}
	rightAxis := direction.Cross(worldUp).Normalized()
	c.Position = c.Position.
		Add(direction.Scale(forward)).
		Add(rightAxis.Scale(right)).
		Add(worldUp.Scale(up))
}

// ApplyTo writes the camera state into the render view for the frame. The
// projection left here is unjittered; the renderer applies the temporal
// jitter during view preparation.
func (c *Camera) ApplyTo(view *metadata.RenderView, width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	direction := c.Direction()
	view.Position = c.Position
	view.Direction = direction
	view.NearPlane = c.NearPlane
	view.FarPlane = c.FarPlane
	view.FOV = c.FOV
	view.ScreenSize = math.Vec2{X: float32(width), Y: float32(height)}
	view.View = math.NewMat4LookAt(c.Position, c.Position.Add(direction), math.Vec3{Y: 1.0})
	view.Projection = math.NewMat4Perspective(c.FOV, float32(width)/float32(height), c.NearPlane, c.FarPlane)
	view.IsOrthographic = false
}
