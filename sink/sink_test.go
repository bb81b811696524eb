package sink

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/sammargh/gfdmtools/config"
)

func testFrame() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(1, 1, color.NRGBA{0xff, 0, 0, 0xff})
	return img
}

func TestPNGSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "anim")
	s, err := NewPNGSequence(dir)
	if err != nil {
		t.Fatalf("NewPNGSequence: %v", err)
	}
	for _, tick := range []int{3, 4} {
		if err := s.Accept(tick, testFrame()); err != nil {
			t.Fatalf("Accept: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "frame_00004.png"))
	if err != nil {
		t.Fatalf("frame file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if r, _, _, a := img.At(1, 1).RGBA(); r != 0xffff || a != 0xffff {
		t.Errorf("pixel %v", img.At(1, 1))
	}
	if s.Written != 2 {
		t.Errorf("written %d", s.Written)
	}
}

func TestFactory(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{config.FormatPNG, config.FormatBMP, config.FormatGIF} {
		s, err := New(config.Output{Format: format, FPS: 60, Dir: dir}, "clip_"+format)
		if err != nil {
			t.Fatalf("New(%s): %v", format, err)
		}
		s = WithProgress(s, 2, func(done, total int) {
			if total != 2 || done < 1 || done > 2 {
				t.Errorf("progress %d/%d", done, total)
			}
		})
		s.Accept(0, testFrame())
		s.Accept(1, testFrame())
		if err := s.Close(); err != nil {
			t.Fatalf("Close(%s): %v", format, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "clip_bmp", "frame_00001.bmp"))
	if err != nil {
		t.Fatalf("bmp frame: %v", err)
	}
	if _, err := bmp.Decode(f); err != nil {
		t.Errorf("bmp.Decode: %v", err)
	}
	f.Close()

	f, err = os.Open(filepath.Join(dir, "clip_gif.gif"))
	if err != nil {
		t.Fatalf("gif: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}
	if len(anim.Image) != 2 || anim.Delay[0] != 1 {
		t.Errorf("gif %d frames, delay %v", len(anim.Image), anim.Delay)
	}
	if _, _, _, a := anim.Image[0].At(0, 0).RGBA(); a != 0 {
		t.Errorf("transparent pixel became opaque")
	}

	if _, err := New(config.Output{Format: "avi", Dir: dir}, "x"); err == nil {
		t.Errorf("unknown format accepted")
	}
}

func TestMemory(t *testing.T) {
	var m Memory
	m.Accept(7, testFrame())
	if len(m.Frames) != 1 || m.Frames[0].Tick != 7 {
		t.Errorf("frames %+v", m.Frames)
	}
}
