package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

const SurfaceFormat = wgpu.TextureFormatBGRA8Unorm

// SurfaceSource is a window we can render into
type SurfaceSource interface {
	Size() (width, height uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

type ContextOptions struct {
	// present with wgpu.PresentModeImmediate instead of wgpu.PresentModeFifo
	DisableVSync bool

	// resolution of the hdr backbuffer, defaults to 1280x720
	BackbufferWidth  uint32
	BackbufferHeight uint32
}

func (opts ContextOptions) withDefaults() ContextOptions {
	if opts.BackbufferWidth == 0 || opts.BackbufferHeight == 0 {
		opts.BackbufferWidth = DefaultBackbufferWidth
		opts.BackbufferHeight = DefaultBackbufferHeight
	}

	return opts
}

// Context owns the surface and every resource that is shared between
// techniques: the global and camera uniforms, the hdr backbuffer, the
// rgb texture and the present pipeline.
type Context struct {
	backend Backend

	// only set if the context acquired the device itself
	device *Device

	surfaceConfig wgpu.SurfaceConfiguration

	layouts  *LayoutCache
	samplers *SamplerCache

	camera  *Camera
	globals GlobalUniform

	globalBinding *UniformBinding[globalUniformData]
	cameraBinding *UniformBinding[CameraUniform]

	backbuffer *HdrBackbuffer
	rgbTexture *Texture
	present    *PresentPipeline

	screenshots *Screenshotter
}

// Create acquires a device for the given window and creates a Context rendering into it.
func Create(window SurfaceSource, camera *Camera, opts ContextOptions) (*Context, error) {
	dev, err := NewDevice(window.SurfaceDescriptor())
	if err != nil {
		return nil, err
	}

	width, height := window.Size()

	ctx, err := NewContext(NewBackend(dev), width, height, camera, opts)
	if err != nil {
		dev.Release()
		return nil, err
	}

	ctx.device = dev

	return ctx, nil
}

// NewContext configures the surface of backend to width x height and creates all
// shared resources. If camera is nil, the DefaultCamera is used.
func NewContext(backend Backend, width, height uint32, camera *Camera, opts ContextOptions) (ctx *Context, err error) {
	if width == 0 || height == 0 {
		return nil, &InitializationError{
			Stage: "configure surface",
			Err:   fmt.Errorf("invalid surface size %dx%d", width, height),
		}
	}

	opts = opts.withDefaults()

	presentMode := wgpu.PresentModeFifo
	if opts.DisableVSync {
		presentMode = wgpu.PresentModeImmediate
	}

	if camera == nil {
		camera = DefaultCamera(width, height)
	}

	ctx = &Context{
		backend:  backend,
		layouts:  NewLayoutCache(backend),
		samplers: NewSamplerCache(backend),
		camera:   camera,

		surfaceConfig: wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      SurfaceFormat,
			Width:       width,
			Height:      height,
			PresentMode: presentMode,
			AlphaMode:   wgpu.CompositeAlphaModeAuto,
		},
	}

	defer func() {
		if err != nil {
			ctx.Release()
			ctx = nil
		}
	}()

	if err := ctx.configureSurface(); err != nil {
		return ctx, &InitializationError{Stage: "configure surface", Err: err}
	}

	ctx.globalBinding, err = newUniformBinding[globalUniformData](backend, ctx.layouts, "GlobalUniform", &GlobalUniformLayout)
	if err != nil {
		return ctx, fmt.Errorf("create global uniform: %w", err)
	}

	ctx.cameraBinding, err = newUniformBinding[CameraUniform](backend, ctx.layouts, "CameraUniform", &CameraLayout)
	if err != nil {
		return ctx, fmt.Errorf("create camera uniform: %w", err)
	}

	ctx.backbuffer, err = NewHdrBackbuffer(backend, ctx.layouts, ctx.samplers, opts.BackbufferWidth, opts.BackbufferHeight)
	if err != nil {
		return ctx, fmt.Errorf("create hdr backbuffer: %w", err)
	}

	ctx.rgbTexture, err = ctx.newRGBTexture()
	if err != nil {
		return ctx, err
	}

	ctx.present, err = NewPresentPipeline(backend, ctx.layouts, ctx.surfaceConfig.Format)
	if err != nil {
		return ctx, err
	}

	ctx.globals.Resolution = [2]uint32{width, height}

	return ctx, nil
}

func (c *Context) configureSurface() error {
	slog.Debug("Configure surface",
		slog.Int("width", int(c.surfaceConfig.Width)),
		slog.Int("height", int(c.surfaceConfig.Height)),
	)

	config := c.surfaceConfig
	if err := c.backend.ConfigureSurface(&config); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}

	// keep values the backend resolved, e.g. the alpha mode
	c.surfaceConfig = config

	return nil
}

func (c *Context) newRGBTexture() (*Texture, error) {
	return NewTextureFromDesc(c.backend, &wgpu.TextureDescriptor{
		Label:         "RGBTexture",
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		Dimension:     wgpu.TextureDimension2D,
		Format:        RGBTextureFormat,
		MipLevelCount: 1,
		SampleCount:   1,
		Size: wgpu.Extent3D{
			Width:              c.surfaceConfig.Width,
			Height:             c.surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
	})
}

// Resize reconfigures the surface and recreates the rgb texture. Requests with
// a zero width or height are ignored. The backbuffer keeps its resolution.
func (c *Context) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}

	previous := c.surfaceConfig

	c.surfaceConfig.Width = width
	c.surfaceConfig.Height = height

	// nothing is replaced until both the texture and the surface succeeded
	rgbTexture, err := c.newRGBTexture()
	if err != nil {
		c.surfaceConfig = previous
		return err
	}

	if err := c.configureSurface(); err != nil {
		c.backend.Release(rgbTexture)
		c.surfaceConfig = previous
		return err
	}

	c.backend.Release(c.rgbTexture)
	c.rgbTexture = rgbTexture

	c.camera.SetAspect(width, height)

	return nil
}

// Update refreshes the global and camera uniforms. Each is written with a single queue write.
func (c *Context) Update(timing Timing, pointer Pointer) error {
	c.globals = GlobalUniform{
		Time:       float32(timing.Elapsed.Seconds()),
		TimeDelta:  float32(timing.Delta.Seconds()),
		Frame:      timing.Frame,
		Resolution: [2]uint32{c.surfaceConfig.Width, c.surfaceConfig.Height},
		Pointer:    pointer,
	}

	globals := c.globals.gpuData()
	if err := c.globalBinding.update(c.backend, &globals); err != nil {
		return fmt.Errorf("update global uniform: %w", err)
	}

	camera := c.camera.Uniform()
	if err := c.cameraBinding.update(c.backend, &camera); err != nil {
		return fmt.Errorf("update camera uniform: %w", err)
	}

	return nil
}

// Render tone maps the backbuffer into the next surface texture and into the
// rgb texture, then presents the surface texture. If the surface was lost, it is
// reconfigured before the *SurfaceError is returned, so the next call can succeed.
func (c *Context) Render() error {
	surface, err := c.backend.AcquireSurfaceTexture()
	if err != nil {
		if SurfaceErrorKindOf(err) == SurfaceLost {
			slog.Warn("Surface lost, reconfigure", slog.String("err", err.Error()))

			if cerr := c.configureSurface(); cerr != nil {
				return errors.Join(err, cerr)
			}
		}

		return err
	}

	defer c.backend.Release(surface)

	clearBlack := ColorBlack.ToWGPU()

	desc := &wgpu.RenderPassDescriptor{
		Label: "Present",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       surface.View,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearBlack,
			},
			{
				View:       c.rgbTexture.View,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearBlack,
			},
		},
	}

	err = c.backend.RenderPass(desc, func(pass PassRecorder) {
		c.present.record(pass, c.globalBinding.BindGroup, c.backbuffer.RenderBindGroup)
	})

	if err != nil {
		return fmt.Errorf("present pass: %w", err)
	}

	c.backend.Present()

	return nil
}

// CaptureFrame reads back the rgb texture written by the last Render call.
func (c *Context) CaptureFrame() (Screenshot, error) {
	if c.screenshots == nil {
		screenshots, err := NewScreenshotter(c.backend, c.rgbTexture.Width, c.rgbTexture.Height)
		if err != nil {
			return Screenshot{}, err
		}

		c.screenshots = screenshots
	}

	return c.screenshots.Capture(c.rgbTexture)
}

func (c *Context) Backend() Backend {
	return c.backend
}

func (c *Context) Device() *wgpu.Device {
	return c.backend.Device()
}

func (c *Context) Queue() *wgpu.Queue {
	return c.backend.Queue()
}

func (c *Context) Limits() wgpu.Limits {
	return c.backend.Limits()
}

// HasFeature reports whether the device was created with the given feature enabled.
func (c *Context) HasFeature(feature wgpu.FeatureName) bool {
	return c.device != nil && c.device.HasFeature(feature)
}

// SurfaceConfiguration returns a copy of the current surface configuration
func (c *Context) SurfaceConfiguration() wgpu.SurfaceConfiguration {
	return c.surfaceConfig
}

func (c *Context) Camera() *Camera {
	return c.camera
}

// Globals returns the values uploaded by the last call to Update
func (c *Context) Globals() GlobalUniform {
	return c.globals
}

// GlobalBindGroup is the bind group to set at SlotGlobals
func (c *Context) GlobalBindGroup() *wgpu.BindGroup {
	return c.globalBinding.BindGroup
}

// CameraBindGroup is the bind group to set at SlotCamera
func (c *Context) CameraBindGroup() *wgpu.BindGroup {
	return c.cameraBinding.BindGroup
}

func (c *Context) Backbuffer() *HdrBackbuffer {
	return c.backbuffer
}

func (c *Context) RGBTexture() *Texture {
	return c.rgbTexture
}

// BindGroupLayout returns the shared layout for desc, see LayoutCache.
func (c *Context) BindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return c.layouts.Get(desc)
}

// Sampler returns a shared sampler, see SamplerCache.
func (c *Context) Sampler(desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return c.samplers.Get(desc)
}

// Release releases all owned resources in reverse order of creation
func (c *Context) Release() {
	if c.screenshots != nil {
		c.screenshots.Release()
		c.screenshots = nil
	}

	if c.present != nil {
		c.present.release(c.backend)
		c.present = nil
	}

	if c.rgbTexture != nil {
		c.backend.Release(c.rgbTexture)
		c.rgbTexture = nil
	}

	if c.backbuffer != nil {
		c.backbuffer.release(c.backend)
		c.backbuffer = nil
	}

	if c.cameraBinding != nil {
		c.cameraBinding.release(c.backend)
		c.cameraBinding = nil
	}

	if c.globalBinding != nil {
		c.globalBinding.release(c.backend)
		c.globalBinding = nil
	}

	c.samplers.Purge()
	c.layouts.Purge()

	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
}
