package render

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/sammargh/gfdmtools/config"
	"github.com/sammargh/gfdmtools/pack/aebg"
	"github.com/sammargh/gfdmtools/sink"
	"github.com/sammargh/gfdmtools/sprite"
	"github.com/sammargh/gfdmtools/utils"
)

var ErrNoCanvas = errors.New("render: timeline has no canvas entry")

type Frame = sink.Frame

// Compositor draws resolved slot states into frames of the canvas size times the upscale factor.
// Compose is safe for concurrent use when the provider is.
type Compositor struct {
	Canvas   aebg.Canvas
	Upscale  int
	provider sprite.Provider
	kernel   draw.Interpolator

	mu     sync.Mutex
	issues []error
	failed map[string]bool
}

func NewCompositor(canvas aebg.Canvas, provider sprite.Provider, cfg config.Render) *Compositor {
	upscale := cfg.Upscale
	if upscale < 1 {
		upscale = 1
	}
	return &Compositor{
		Canvas:   canvas,
		Upscale:  upscale,
		provider: provider,
		kernel:   Kernel(cfg.Resample),
		failed:   make(map[string]bool),
	}
}

// Size of the produced frames.
func (c *Compositor) Size() (int, int) {
	return c.Canvas.Width * c.Upscale, c.Canvas.Height * c.Upscale
}

// Issues returns the sprite lookups that failed so far, one per sprite and palette.
func (c *Compositor) Issues() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.issues...)
}

func (c *Compositor) issue(tick int, s *aebg.SlotState, err error) {
	key := fmt.Sprintf("%s:%d", s.Filename, s.Clut)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed[key] {
		return
	}
	c.failed[key] = true
	err = errors.Wrapf(err, "tick %d slot %d sprite '%s' clut %d", tick, s.Slot, s.Filename, s.Clut)
	log.Printf("[render] %v", err)
	c.issues = append(c.issues, err)
}

// Compose draws the slots of one tick, highest slot first.
func (c *Compositor) Compose(tick int, slots []aebg.SlotState) *image.NRGBA {
	fw, fh := c.Size()
	frame := empty(fw, fh)
	for i := len(slots) - 1; i >= 0; i-- {
		s := &slots[i]
		img, err := c.sprite(s)
		if err != nil {
			c.issue(tick, s, err)
			continue
		}
		img = c.transform(img, &s.RenderState)
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		if w <= 0 || h <= 0 {
			continue
		}
		layer := empty(fw, fh)
		c.place(layer, img, &s.RenderState)
		blend(frame, layer, s.BlendMode)
	}
	return frame
}

// sprite returns a private copy of the slot bitmap scaled by the upscale factor.
func (c *Compositor) sprite(s *aebg.SlotState) (*image.NRGBA, error) {
	u := c.Upscale
	if s.Fill != nil {
		return solid(s.Fill.Width*u, s.Fill.Height*u, s.Fill.Color), nil
	}
	if s.Filename == "" {
		return nil, errors.Wrapf(sprite.ErrAssetNotFound, "no source")
	}
	img, err := c.provider.Sprite(s.Filename, s.Clut)
	if err != nil {
		return nil, err
	}
	if u == 1 {
		return clone(img), nil
	}
	return resize(img, img.Bounds().Dx()*u, img.Bounds().Dy()*u, c.kernel), nil
}

func (c *Compositor) transform(img *image.NRGBA, s *aebg.RenderState) *image.NRGBA {
	u := c.Upscale
	if s.CenterX != 0 || s.CenterY != 0 {
		img = centerPad(img, s.CenterX*u, s.CenterY*u)
	}
	if s.Opacity != 1 {
		applyOpacity(img, s.Opacity)
	}
	img = zoom(img, s.ZoomX, s.ZoomY, c.kernel)
	img = offset(img, s.OffsetX*u, s.OffsetY*u)
	return rotate(img, s.Rotation)
}

// Position of the top left corner of a sprite of the given size inside the frame.
func (c *Compositor) Position(s *aebg.RenderState, w, h int) (int, int) {
	fw, fh := c.Size()
	u := float64(c.Upscale)
	px := int(s.X*u - float64(utils.FloorDiv(fw, 2)) + float64(utils.FloorDiv(fw-w, 2)))
	py := int(s.Y*u - float64(utils.FloorDiv(fh, 2)) + float64(utils.FloorDiv(fh-h, 2)))
	return px, py
}

func (c *Compositor) place(layer, img *image.NRGBA, s *aebg.RenderState) {
	fw, fh := layer.Bounds().Dx(), layer.Bounds().Dy()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	px, py := c.Position(s, w, h)

	put := func(x, y int) {
		draw.Draw(layer, image.Rect(x, y, x+w, y+h), img, img.Bounds().Min, draw.Src)
	}

	switch s.Tile {
	case aebg.TILE_BOTH:
		for y := 0; y < fh; y += h {
			for x := 0; x < fw; x += w {
				put(x, y)
			}
		}
	case aebg.TILE_HORIZONTAL:
		for x := 0; x < fw; x += w {
			put(x, py)
		}
	case aebg.TILE_VERTICAL:
		for y := 0; y < fh; y += h {
			put(px, y)
		}
	default:
		put(px, py)
	}
}

// Render composes the output ticks of the timeline and hands the frames to s in tick order.
// Sprite failures are appended to the timeline issues.
func Render(tl *aebg.Timeline, provider sprite.Provider, s sink.Sink, cfg config.Render) error {
	if !tl.HasCanvas {
		return ErrNoCanvas
	}
	c := NewCompositor(tl.Canvas, provider, cfg)
	defer func() { tl.Issues = append(tl.Issues, c.Issues()...) }()

	ticks := tl.OutputTicks(cfg.ClipToCanvas, cfg.FillGaps)
	if cfg.Workers <= 1 {
		for _, tick := range ticks {
			if err := s.Accept(tick, c.Compose(tick, tl.At(tick))); err != nil {
				return errors.Wrapf(err, "tick %d", tick)
			}
		}
		return nil
	}
	return renderParallel(c, tl, ticks, s, cfg.Workers)
}

func renderParallel(c *Compositor, tl *aebg.Timeline, ticks []int, s sink.Sink, workers int) error {
	results := make([]chan *image.NRGBA, len(ticks))
	for i := range results {
		results[i] = make(chan *image.NRGBA, 1)
	}
	jobs := make(chan int)
	// bounds the frames held in memory while waiting for an earlier tick
	window := make(chan struct{}, workers*2)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(jobs)
		for i := range ticks {
			select {
			case window <- struct{}{}:
			case <-done:
				return
			}
			select {
			case jobs <- i:
			case <-done:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] <- c.Compose(ticks[i], tl.At(ticks[i]))
			}
		}()
	}

	for i, tick := range ticks {
		frame := <-results[i]
		<-window
		if err := s.Accept(tick, frame); err != nil {
			return errors.Wrapf(err, "tick %d", tick)
		}
	}
	wg.Wait()
	return nil
}

// DecodeAndRender parses an AEBG buffer and renders every output tick into memory.
// names replaces the file name table when not nil.
func DecodeAndRender(data []byte, provider sprite.Provider, names aebg.NameTable, cfg config.Render) ([]Frame, error) {
	f, err := aebg.Parse(data)
	if err != nil {
		return nil, err
	}
	tl, err := aebg.Resolve(f, aebg.Options{Names: names, SkipUnknown: cfg.SkipUnknownOpcodes})
	if err != nil {
		return nil, err
	}
	var m sink.Memory
	if err := Render(tl, provider, &m, cfg); err != nil {
		return nil, err
	}
	return m.Frames, nil
}
