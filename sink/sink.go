package sink

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/sammargh/gfdmtools/config"
)

type Frame struct {
	Tick  int
	Image *image.NRGBA
}

// Sink receives rendered frames in increasing tick order.
type Sink interface {
	Accept(tick int, frame *image.NRGBA) error
	Close() error
}

type Memory struct {
	Frames []Frame
}

func (m *Memory) Accept(tick int, frame *image.NRGBA) error {
	m.Frames = append(m.Frames, Frame{Tick: tick, Image: frame})
	return nil
}

func (m *Memory) Close() error { return nil }

type encodeFunc func(w io.Writer, img image.Image) error

// Sequence writes every frame into its own file named after the tick.
type Sequence struct {
	Dir     string
	Pattern string
	encode  encodeFunc
	Written int
}

func NewPNGSequence(dir string) (*Sequence, error) {
	return newSequence(dir, "frame_%05d.png", png.Encode)
}

func NewBMPSequence(dir string) (*Sequence, error) {
	return newSequence(dir, "frame_%05d.bmp", bmp.Encode)
}

func newSequence(dir, pattern string, encode encodeFunc) (*Sequence, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, errors.Wrapf(err, "Failed to create output dir '%s'", dir)
	}
	return &Sequence{Dir: dir, Pattern: pattern, encode: encode}, nil
}

func (s *Sequence) Path(tick int) string {
	return filepath.Join(s.Dir, fmt.Sprintf(s.Pattern, tick))
}

func (s *Sequence) Accept(tick int, frame *image.NRGBA) error {
	f, err := os.Create(s.Path(tick))
	if err != nil {
		return errors.Wrapf(err, "Failed to create frame file")
	}
	if err := s.encode(f, frame); err != nil {
		f.Close()
		return errors.Wrapf(err, "Failed to encode frame %d", tick)
	}
	s.Written++
	return f.Close()
}

func (s *Sequence) Close() error { return nil }

// New creates the sink selected by the output config. name is used for single file outputs.
func New(out config.Output, name string) (Sink, error) {
	switch out.Format {
	case config.FormatPNG:
		return NewPNGSequence(filepath.Join(out.Dir, name))
	case config.FormatBMP:
		return NewBMPSequence(filepath.Join(out.Dir, name))
	case config.FormatGIF:
		if err := os.MkdirAll(out.Dir, 0777); err != nil {
			return nil, errors.Wrapf(err, "Failed to create output dir '%s'", out.Dir)
		}
		return NewGIFFile(filepath.Join(out.Dir, name+".gif"), out.FPS), nil
	}
	return nil, errors.Errorf("Unknown output format %q", out.Format)
}

type progress struct {
	Sink
	done, total int
	report      func(done, total int)
}

func (p *progress) Accept(tick int, frame *image.NRGBA) error {
	if err := p.Sink.Accept(tick, frame); err != nil {
		return err
	}
	p.done++
	p.report(p.done, p.total)
	return nil
}

// WithProgress calls report after every accepted frame.
func WithProgress(s Sink, total int, report func(done, total int)) Sink {
	return &progress{Sink: s, total: total, report: report}
}
