package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f64"
)

func DegreeToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RotateAroundCenter returns the source-to-destination matrix that rotates a w*h image
// clockwise (y axis pointing down) by deg degrees, and the size of the expanded canvas
// that holds the whole result.
func RotateAroundCenter(w, h int, deg float64) (m mgl64.Mat3, nw, nh int) {
	rot := mgl64.HomogRotate2D(DegreeToRadians(deg))

	cx, cy := float64(w)/2, float64(h)/2
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range [4][2]float64{{0, 0}, {float64(w), 0}, {0, float64(h)}, {float64(w), float64(h)}} {
		p := rot.Mul3x1(mgl64.Vec3{corner[0] - cx, corner[1] - cy, 1})
		x, y := p.X()+cx, p.Y()+cy
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	// tolerate float noise so 90 degree turns keep exact sizes
	const eps = 1e-9
	nw = int(math.Ceil(maxX-eps) - math.Floor(minX+eps))
	nh = int(math.Ceil(maxY-eps) - math.Floor(minY+eps))

	m = mgl64.Translate2D(float64(nw)/2, float64(nh)/2).Mul3(rot).Mul3(mgl64.Translate2D(-cx, -cy))
	return m, nw, nh
}

// Aff3 converts a homogeneous 2D matrix to the x/image affine form.
func Aff3(m mgl64.Mat3) f64.Aff3 {
	return f64.Aff3{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
	}
}
