package pulse

import (
	"math"
	"structs"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"
)

const (
	cameraFovY = math.Pi / 4
	cameraNear = 0.01
	cameraFar  = 100

	minCameraDistance = 0.05

	// keep the camera from flipping over at the poles
	maxCameraPitch = math.Pi/2 - 0.001
)

// Camera orbits around Target. Yaw and Pitch are in radians.
type Camera struct {
	Distance float32
	Yaw      float32
	Pitch    float32
	Target   mgl32.Vec3
	Aspect   float32
}

func NewCamera(distance, yaw, pitch float32, target mgl32.Vec3, aspect float32) *Camera {
	c := &Camera{Distance: distance, Yaw: yaw, Target: target, Aspect: aspect}
	c.AddPitch(pitch)
	return c
}

// DefaultCamera looks at the origin from one unit away
func DefaultCamera(width, height uint32) *Camera {
	return NewCamera(1, 0.5, 1, mgl32.Vec3{}, float32(width)/float32(height))
}

func (c *Camera) AddYaw(delta float32) {
	c.Yaw += delta
}

func (c *Camera) AddPitch(delta float32) {
	c.Pitch = mgl32.Clamp(c.Pitch+delta, -maxCameraPitch, maxCameraPitch)
}

func (c *Camera) AddZoom(delta float32) {
	c.Distance = max(c.Distance+delta, minCameraDistance)
}

func (c *Camera) SetAspect(width, height uint32) {
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) Position() mgl32.Vec3 {
	cosPitch := f32.Cos(c.Pitch)

	offset := mgl32.Vec3{
		cosPitch * f32.Cos(c.Yaw),
		f32.Sin(c.Pitch),
		cosPitch * f32.Sin(c.Yaw),
	}

	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) ProjView() mgl32.Mat4 {
	proj := mgl32.Perspective(cameraFovY, c.Aspect, cameraNear, cameraFar)
	view := mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// CameraUniform matches the wgsl struct
//
//	struct Camera {
//	    proj_view: mat4x4<f32>,
//	    inv_proj_view: mat4x4<f32>,
//	    position: vec4<f32>,
//	}
type CameraUniform struct {
	_ structs.HostLayout

	ProjView    mgl32.Mat4
	InvProjView mgl32.Mat4
	Position    mgl32.Vec4
}

func (c *Camera) Uniform() CameraUniform {
	projView := c.ProjView()

	return CameraUniform{
		ProjView:    projView,
		InvProjView: projView.Inv(),
		Position:    c.Position().Vec4(1),
	}
}

var CameraLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "Camera.Layout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment | wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		},
	},
}
