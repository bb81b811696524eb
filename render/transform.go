package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/utils"
)

func Kernel(name string) draw.Interpolator {
	switch name {
	case config.ResampleApproxBiLinear:
		return draw.ApproxBiLinear
	case config.ResampleBiLinear:
		return draw.BiLinear
	case config.ResampleCatmullRom:
		return draw.CatmullRom
	}
	return draw.NearestNeighbor
}

func empty(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// clone copies img into a new image with bounds starting at (0,0).
func clone(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	dst := empty(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	dst := empty(w, h)
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i+0] = c.R
		dst.Pix[i+1] = c.G
		dst.Pix[i+2] = c.B
		dst.Pix[i+3] = c.A
	}
	return dst
}

func resize(img *image.NRGBA, w, h int, k draw.Interpolator) *image.NRGBA {
	dst := empty(w, h)
	k.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// centerPad grows the canvas by (cx, cy) and moves the image so its center lands on the new anchor.
func centerPad(img *image.NRGBA, cx, cy int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	nw, nh := w+cx, h+cy
	if nw <= 0 || nh <= 0 {
		return empty(0, 0)
	}
	dst := empty(nw, nh)
	at := image.Pt(utils.FloorDiv(nw, 2)-cx, utils.FloorDiv(nh, 2)-cy)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}, img, img.Bounds().Min, draw.Src)
	return dst
}

// applyOpacity scales the alpha channel in place.
func applyOpacity(img *image.NRGBA, opacity float64) {
	for i := 3; i < len(img.Pix); i += 4 {
		a := int(float64(img.Pix[i]) * opacity)
		if a < 0 {
			a = 0
		} else if a > 0xff {
			a = 0xff
		}
		img.Pix[i] = uint8(a)
	}
}

func flip(img *image.NRGBA, horizontal, vertical bool) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	dst := empty(w, h)
	for y := 0; y < h; y++ {
		sy := y
		if vertical {
			sy = h - 1 - y
		}
		for x := 0; x < w; x++ {
			sx := x
			if horizontal {
				sx = w - 1 - x
			}
			copy(dst.Pix[dst.PixOffset(x, y):dst.PixOffset(x, y)+4], img.Pix[img.PixOffset(sx, sy):img.PixOffset(sx, sy)+4])
		}
	}
	return dst
}

// zoom scales by (zx, zy); a negative factor mirrors that axis.
// A size that rounds to zero or less gives a transparent image of the unzoomed size.
func zoom(img *image.NRGBA, zx, zy float64, k draw.Interpolator) *image.NRGBA {
	if zx < 0 || zy < 0 {
		img = flip(img, zx < 0, zy < 0)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	nw := int(math.Round(float64(w) * math.Abs(zx)))
	nh := int(math.Round(float64(h) * math.Abs(zy)))
	if nw == w && nh == h {
		return img
	}
	if nw <= 0 || nh <= 0 {
		return empty(w, h)
	}
	return resize(img, nw, nh, k)
}

// offset shifts the image content, wrapping around the edges.
func offset(img *image.NRGBA, dx, dy int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 || (dx%w == 0 && dy%h == 0) {
		return img
	}
	dst := empty(w, h)
	for y := 0; y < h; y++ {
		ty := ((y+dy)%h + h) % h
		for x := 0; x < w; x++ {
			tx := ((x+dx)%w + w) % w
			copy(dst.Pix[dst.PixOffset(tx, ty):dst.PixOffset(tx, ty)+4], img.Pix[img.PixOffset(x, y):img.PixOffset(x, y)+4])
		}
	}
	return dst
}

// rotate turns the image clockwise by deg degrees, growing the canvas to fit.
// Quarter turns are exact transposes.
func rotate(img *image.NRGBA, deg float64) *image.NRGBA {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg == 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return img
	}
	if deg == 90 || deg == 180 || deg == 270 {
		return quarterTurn(img, int(deg)/90)
	}
	m, nw, nh := utils.RotateAroundCenter(w, h, deg)
	dst := empty(nw, nh)
	draw.NearestNeighbor.Transform(dst, utils.Aff3(m), img, img.Bounds(), draw.Src, nil)
	return dst
}

// quarterTurn rotates the image clockwise by n*90 degrees.
func quarterTurn(img *image.NRGBA, n int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.NRGBA
	if n == 2 {
		dst = empty(w, h)
	} else {
		dst = empty(h, w)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var tx, ty int
			switch n {
			case 1:
				tx, ty = h-1-y, x
			case 2:
				tx, ty = w-1-x, h-1-y
			default:
				tx, ty = y, w-1-x
			}
			so := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			do := dst.PixOffset(tx, ty)
			copy(dst.Pix[do:do+4], img.Pix[so:so+4])
		}
	}
	return dst
}
