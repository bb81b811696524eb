package tim

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/readat"
)

const TIM_MAGIC = 0x10

const (
	FLAG_PMODE_MASK = 0x7
	FLAG_CLUT       = 0x8
	BLOCK_HEADER    = 0xc
)

var (
	ErrFormat          = errors.New("tim: invalid format")
	ErrClutOutOfRange  = errors.New("tim: clut out of range")
	ErrUnsupportedMode = errors.New("tim: unsupported pixel mode")
)

type TIM struct {
	Flags      uint32
	Bpp        int
	HasClut    bool
	ClutX      uint16
	ClutY      uint16
	ClutColors int
	ClutCount  int
	ImageX     uint16
	ImageY     uint16
	Width      int
	Height     int
	Clut       []uint16 `json:"-"`
	Data       []byte   `json:"-"`
}

func (t *TIM) String() string {
	return fmt.Sprintf("TIM %dx%d %dbpp cluts: %d colors: %d", t.Width, t.Height, t.Bpp, t.ClutCount, t.ClutColors)
}

// Color15 converts a 15 bit PlayStation color. Full black with the stp bit cleared is the transparent color.
func Color15(raw uint16) color.NRGBA {
	if raw == 0 {
		return color.NRGBA{}
	}
	c5 := func(v uint16) uint8 {
		v &= 0x1f
		return uint8(v<<3 | v>>2)
	}
	return color.NRGBA{
		R: c5(raw),
		G: c5(raw >> 5),
		B: c5(raw >> 10),
		A: 0xff,
	}
}

func NewFromData(buf []byte) (*TIM, error) {
	r := readat.NewBytesReader(buf)
	if magic := r.U32(); r.Err() != nil || magic != TIM_MAGIC {
		return nil, errors.Wrapf(ErrFormat, "magic 0x%x", magic)
	}

	t := &TIM{Flags: r.U32()}
	switch t.Flags & FLAG_PMODE_MASK {
	case 0:
		t.Bpp = 4
	case 1:
		t.Bpp = 8
	case 2:
		t.Bpp = 16
	case 3:
		t.Bpp = 24
	default:
		return nil, errors.Wrapf(ErrUnsupportedMode, "flags 0x%x", t.Flags)
	}
	t.HasClut = t.Flags&FLAG_CLUT != 0

	if t.HasClut {
		blockStart := r.Pos()
		size := int64(r.U32())
		t.ClutX = r.U16()
		t.ClutY = r.U16()
		t.ClutColors = int(r.U16())
		t.ClutCount = int(r.U16())
		if r.Err() != nil {
			return nil, errors.Wrapf(ErrFormat, "clut block: %v", r.Err())
		}
		if size < BLOCK_HEADER || blockStart+size > int64(len(buf)) || int64(t.ClutColors*t.ClutCount*2) > size-BLOCK_HEADER {
			return nil, errors.Wrapf(ErrFormat, "clut of %d*%d colors does not fit block of %d bytes", t.ClutColors, t.ClutCount, size)
		}
		t.Clut = make([]uint16, t.ClutColors*t.ClutCount)
		for i := range t.Clut {
			t.Clut[i] = r.U16()
		}
		if r.Err() != nil {
			return nil, errors.Wrapf(ErrFormat, "clut block: %v", r.Err())
		}
		r.Seek(blockStart + size)
	}

	r.U32()
	t.ImageX = r.U16()
	t.ImageY = r.U16()
	w := int(r.U16())
	t.Height = int(r.U16())
	switch t.Bpp {
	case 4:
		t.Width = w * 4
	case 8:
		t.Width = w * 2
	case 16:
		t.Width = w
	case 24:
		t.Width = w * 2 / 3
	}
	t.Data = r.Bytes(w * 2 * t.Height)
	if r.Err() != nil {
		return nil, errors.Wrapf(ErrFormat, "image block: %v", r.Err())
	}
	return t, nil
}

func (t *TIM) AsPalette(clut int) ([]color.NRGBA, error) {
	if !t.HasClut {
		return nil, errors.Wrapf(ErrClutOutOfRange, "%dbpp image has no clut", t.Bpp)
	}
	if clut < 0 || clut >= t.ClutCount {
		return nil, errors.Wrapf(ErrClutOutOfRange, "clut %d of %d", clut, t.ClutCount)
	}

	palette := make([]color.NRGBA, t.ClutColors)
	for i, raw := range t.Clut[clut*t.ClutColors : (clut+1)*t.ClutColors] {
		palette[i] = Color15(raw)
	}
	return palette, nil
}

func (t *TIM) AsPaletteIndexes() []byte {
	indexes := make([]byte, t.Width*t.Height)
	switch t.Bpp {
	case 8:
		copy(indexes, t.Data)
	case 4:
		for i := range indexes {
			val := t.Data[i/2]
			if i&1 == 0 {
				indexes[i] = val & 0xf
			} else {
				indexes[i] = val >> 4
			}
		}
	}
	return indexes
}

// Image renders the picture. clut selects the palette of indexed images and is ignored otherwise.
func (t *TIM) Image(clut int) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))

	switch t.Bpp {
	case 4, 8:
		palette, err := t.AsPalette(clut)
		if err != nil {
			return nil, err
		}
		for i, idx := range t.AsPaletteIndexes() {
			if int(idx) < len(palette) {
				img.SetNRGBA(i%t.Width, i/t.Width, palette[idx])
			}
		}
	case 16:
		for i := 0; i < t.Width*t.Height; i++ {
			raw := uint16(t.Data[i*2]) | uint16(t.Data[i*2+1])<<8
			img.SetNRGBA(i%t.Width, i/t.Width, Color15(raw))
		}
	case 24:
		// rows are padded to whole 16 bit units
		stride := len(t.Data) / max(t.Height, 1)
		for y := 0; y < t.Height; y++ {
			for x := 0; x < t.Width; x++ {
				p := t.Data[y*stride+x*3:]
				img.SetNRGBA(x, y, color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff})
			}
		}
	}
	return img, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Decode(buf []byte, clut int) (*image.NRGBA, error) {
	t, err := NewFromData(buf)
	if err != nil {
		return nil, err
	}
	return t.Image(clut)
}

type Info struct {
	Width     int
	Height    int
	Bpp       int
	ClutCount int
}

func DecodeInfo(buf []byte) (Info, error) {
	t, err := NewFromData(buf)
	if err != nil {
		return Info{}, err
	}
	return Info{Width: t.Width, Height: t.Height, Bpp: t.Bpp, ClutCount: t.ClutCount}, nil
}
