package pulse

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var ColorBlack = ColorLinearRGBA(0, 0, 0, 1)
var ColorTransparent = ColorLinearRGBA(0, 0, 0, 0)

// Color is a straight rgba color in linear rgb color space
type Color mgl32.Vec4

func ColorLinearRGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// ColorSRGBA converts non linear srgb encoded values, as picked from
// an image or a color picker, into linear rgb space.
func ColorSRGBA(r, g, b, a float32) Color {
	return ColorLinearRGBA(degamma(r), degamma(g), degamma(b), a)
}

// ToWGPU returns the color as a clear value for a render pass attachment
func (c Color) ToWGPU() wgpu.Color {
	return wgpu.Color{
		R: float64(c[0]),
		G: float64(c[1]),
		B: float64(c[2]),
		A: float64(c[3]),
	}
}

func degamma(value float32) float32 {
	x := float64(value)

	// https://www.w3.org/TR/css-color-4/#color-conversion-code
	sign := math.Copysign(1, x)
	abs := math.Abs(x)
	if abs <= 0.04045 {
		return float32(x / 12.92)
	}

	return float32(sign * math.Pow((abs+0.055)/1.055, 2.4))
}
