package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// ErrInitialization is matched by every error returned while acquiring
// the adapter, device or surface.
var ErrInitialization = errors.New("gpu initialization failed")

// InitializationError records the acquisition stage that failed.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}

// optional features requested when the adapter supports them
var optionalFeatures = []wgpu.FeatureName{
	wgpu.FeatureNameTimestampQuery,
}

// Device encapsulates the low level state of the webgpu context,
// this includes the Device, Queue, Surface and the active Adapter
type Device struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter

	Features []wgpu.FeatureName
	Limits   wgpu.Limits
}

// NewDevice acquires a high performance adapter that is able to present to
// the surface described by sd and requests a device using the adapters limits.
func NewDevice(sd *wgpu.SurfaceDescriptor) (st *Device, err error) {
	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Device{}

	// create the webgpu instance
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// create a Surface based on the window
	st.Surface = instance.CreateSurface(sd)
	if st.Surface == nil {
		return st, &InitializationError{Stage: "create surface", Err: errors.New("no surface")}
	}

	// create an adapter that can render to the Surface
	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    st.Surface,
		PowerPreference:      wgpu.PowerPreferenceHighPerformance,
	})

	if err != nil {
		return st, &InitializationError{Stage: "request adapter", Err: err}
	}

	for _, feature := range optionalFeatures {
		if st.Adapter.HasFeature(feature) {
			st.Features = append(st.Features, feature)
		}
	}

	st.Limits = st.Adapter.GetLimits().Limits

	st.Device, err = st.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Selis",
		RequiredFeatures: st.Features,
		RequiredLimits:   &wgpu.RequiredLimits{Limits: st.Limits},
	})

	if err != nil {
		return st, &InitializationError{Stage: "request device", Err: err}
	}

	st.Queue = st.Device.GetQueue()

	slog.Info("Acquired gpu device", slog.String("renderer", st.Info().String()))

	return st, nil
}

func (d *Device) HasFeature(feature wgpu.FeatureName) bool {
	return slices.Contains(d.Features, feature)
}

func (d *Device) Info() RendererInfo {
	info := d.Adapter.GetInfo()

	return RendererInfo{
		DeviceName:    info.Name,
		DeviceType:    info.AdapterType.String(),
		VendorName:    vendorName(info.VendorId),
		Backend:       info.BackendType.String(),
		SurfaceFormat: wgpu.TextureFormatBGRA8Unorm.String(),
	}
}

func (d *Device) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}

// RendererInfo describes the adapter that backs a Device.
type RendererInfo struct {
	DeviceName    string
	DeviceType    string
	VendorName    string
	Backend       string
	SurfaceFormat string
}

func (r RendererInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "device:  %s\n", r.DeviceName)
	fmt.Fprintf(&sb, "type:    %s\n", r.DeviceType)
	fmt.Fprintf(&sb, "vendor:  %s\n", r.VendorName)
	fmt.Fprintf(&sb, "backend: %s\n", r.Backend)
	fmt.Fprintf(&sb, "surface: %s", r.SurfaceFormat)
	return sb.String()
}

// pci vendor ids
var vendorNames = map[uint32]string{
	0x1002: "AMD",
	0x1010: "ImgTec",
	0x10DE: "NVIDIA Corporation",
	0x13B5: "ARM",
	0x5143: "Qualcomm",
	0x8086: "INTEL Corporation",
}

func vendorName(id uint32) string {
	if name, ok := vendorNames[id]; ok {
		return name
	}

	return "Unknown vendor"
}
