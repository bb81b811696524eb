package tim

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/pkg/errors"
)

func buildTim(flags uint32, clutColors, clutCount int, clut []uint16, w16, h int, data []byte) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	binary.Write(&b, le, uint32(TIM_MAGIC))
	binary.Write(&b, le, flags)
	if flags&FLAG_CLUT != 0 {
		binary.Write(&b, le, uint32(BLOCK_HEADER+len(clut)*2))
		binary.Write(&b, le, []uint16{0, 480, uint16(clutColors), uint16(clutCount)})
		binary.Write(&b, le, clut)
	}
	binary.Write(&b, le, uint32(BLOCK_HEADER+len(data)))
	binary.Write(&b, le, []uint16{320, 0, uint16(w16), uint16(h)})
	b.Write(data)
	return b.Bytes()
}

func TestColor15(t *testing.T) {
	var tests = []struct {
		raw uint16
		c   color.NRGBA
	}{
		{0x0000, color.NRGBA{}},
		{0x8000, color.NRGBA{0, 0, 0, 0xff}},
		{0x001f, color.NRGBA{0xff, 0, 0, 0xff}},
		{0x03e0, color.NRGBA{0, 0xff, 0, 0xff}},
		{0x7c00, color.NRGBA{0, 0, 0xff, 0xff}},
		{0x0421, color.NRGBA{8, 8, 8, 0xff}},
	}
	for _, test := range tests {
		if got := Color15(test.raw); got != test.c {
			t.Errorf("Color15(0x%04x)=%v, expected %v", test.raw, got, test.c)
		}
	}
}

func TestDecode4bpp(t *testing.T) {
	clut := make([]uint16, 32)
	clut[1] = 0x001f
	clut[2] = 0x03e0
	clut[16+1] = 0x7c00
	// 4x2 pixels, low nibble first
	data := []byte{0x21, 0x00, 0x00, 0x12}
	buf := buildTim(FLAG_CLUT|0, 16, 2, clut, 1, 2, data)

	info, err := DecodeInfo(buf)
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}
	if info != (Info{Width: 4, Height: 2, Bpp: 4, ClutCount: 2}) {
		t.Errorf("info %+v", info)
	}

	img, err := Decode(buf, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.NRGBAAt(0, 0) != (color.NRGBA{0xff, 0, 0, 0xff}) || img.NRGBAAt(1, 0) != (color.NRGBA{0, 0xff, 0, 0xff}) {
		t.Errorf("first row %v %v", img.NRGBAAt(0, 0), img.NRGBAAt(1, 0))
	}
	if img.NRGBAAt(2, 0).A != 0 || img.NRGBAAt(2, 1) != (color.NRGBA{0, 0xff, 0, 0xff}) || img.NRGBAAt(3, 1) != (color.NRGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("second row %v %v", img.NRGBAAt(2, 1), img.NRGBAAt(3, 1))
	}

	img, err = Decode(buf, 1)
	if err != nil {
		t.Fatalf("Decode clut 1: %v", err)
	}
	if img.NRGBAAt(0, 0) != (color.NRGBA{0, 0, 0xff, 0xff}) {
		t.Errorf("clut 1 pixel %v", img.NRGBAAt(0, 0))
	}

	if _, err := Decode(buf, 2); !errors.Is(err, ErrClutOutOfRange) {
		t.Errorf("Decode clut 2: %v", err)
	}
}

func TestDecode8bppAnd16bpp(t *testing.T) {
	clut := make([]uint16, 256)
	clut[200] = 0x7fff
	buf := buildTim(FLAG_CLUT|1, 256, 1, clut, 1, 1, []byte{200, 0})
	img, err := Decode(buf, 0)
	if err != nil {
		t.Fatalf("Decode 8bpp: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.NRGBAAt(0, 0) != (color.NRGBA{0xff, 0xff, 0xff, 0xff}) || img.NRGBAAt(1, 0).A != 0 {
		t.Errorf("8bpp image %v", img.Pix)
	}

	buf = buildTim(2, 0, 0, nil, 2, 1, []byte{0x1f, 0x00, 0x00, 0x00})
	img, err = Decode(buf, 5)
	if err != nil {
		t.Fatalf("Decode 16bpp: %v", err)
	}
	if img.NRGBAAt(0, 0) != (color.NRGBA{0xff, 0, 0, 0xff}) || img.NRGBAAt(1, 0).A != 0 {
		t.Errorf("16bpp image %v", img.Pix)
	}
}

func TestDecodeBroken(t *testing.T) {
	if _, err := Decode([]byte{0x11, 0, 0, 0, 0, 0, 0, 0}, 0); !errors.Is(err, ErrFormat) {
		t.Errorf("bad magic: %v", err)
	}
	buf := buildTim(2, 0, 0, nil, 2, 2, make([]byte, 8))
	if _, err := Decode(buf[:len(buf)-1], 0); !errors.Is(err, ErrFormat) {
		t.Errorf("truncated: %v", err)
	}
	if _, err := Decode(buildTim(FLAG_CLUT|0, 16, 1, make([]uint16, 16), 1, 1, make([]byte, 2))[:20], 0); !errors.Is(err, ErrFormat) {
		t.Errorf("truncated clut: %v", err)
	}
	// clut dimensions larger than the block they sit in
	if _, err := Decode(buildTim(FLAG_CLUT|0, 0xffff, 0xffff, make([]uint16, 16), 1, 1, make([]byte, 2)), 0); !errors.Is(err, ErrFormat) {
		t.Errorf("oversized clut: %v", err)
	}
}
