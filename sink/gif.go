package sink

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// GIFFile collects frames into one looping animated gif written on Close.
type GIFFile struct {
	Path    string
	delay   int
	palette color.Palette
	anim    gif.GIF
}

func NewGIFFile(path string, fps int) *GIFFile {
	delay := 1
	if fps > 0 && 100/fps > 1 {
		delay = 100 / fps
	}
	// index 0 is reserved for transparency
	pal := append(color.Palette{color.Transparent}, palette.Plan9[:255]...)
	return &GIFFile{Path: path, delay: delay, palette: pal}
}

func (g *GIFFile) Accept(tick int, frame *image.NRGBA) error {
	b := frame.Bounds()
	p := image.NewPaletted(b, g.palette)
	draw.FloydSteinberg.Draw(p, b, frame, b.Min)
	// gif has no partial transparency
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if frame.NRGBAAt(x, y).A < 0x80 {
				p.SetColorIndex(x, y, 0)
			}
		}
	}
	g.anim.Image = append(g.anim.Image, p)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	g.anim.Disposal = append(g.anim.Disposal, gif.DisposalBackground)
	return nil
}

func (g *GIFFile) Close() error {
	if len(g.anim.Image) == 0 {
		return nil
	}
	f, err := os.Create(g.Path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create '%s'", g.Path)
	}
	if err := gif.EncodeAll(f, &g.anim); err != nil {
		f.Close()
		return errors.Wrapf(err, "Failed to encode '%s'", g.Path)
	}
	return f.Close()
}
