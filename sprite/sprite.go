package sprite

import (
	"image"
	"image/draw"
	"math"

	"github.com/pkg/errors"
)

var ErrAssetNotFound = errors.New("sprite: asset not found")

// Provider returns the bitmap of a named sprite drawn with the given palette.
// Returned images are shared and must not be modified.
type Provider interface {
	Sprite(name string, clut int) (*image.NRGBA, error)
}

type Decoder func(data []byte, clut int) (*image.NRGBA, error)

type Kind int

const (
	KIND_DIRECT Kind = iota
	KIND_ENCODED
	KIND_COMPOSITE
)

func (k Kind) String() string {
	switch k {
	case KIND_DIRECT:
		return "direct"
	case KIND_ENCODED:
		return "encoded"
	case KIND_COMPOSITE:
		return "composite"
	}
	return "unknown"
}

// Region is one cell of a sheet image split into Columns x Rows cells.
type Region struct {
	Data    []byte `json:"-"`
	X       int
	Y       int
	Columns int
	Rows    int
}

// Ref is where the pixels of a sprite come from.
type Ref struct {
	Kind    Kind
	Image   *image.NRGBA `json:"-"`
	Data    []byte       `json:"-"`
	Regions []Region
}

func Direct(img *image.NRGBA) Ref    { return Ref{Kind: KIND_DIRECT, Image: img} }
func Encoded(data []byte) Ref        { return Ref{Kind: KIND_ENCODED, Data: data} }
func Composite(regions []Region) Ref { return Ref{Kind: KIND_COMPOSITE, Regions: regions} }

func (ref *Ref) render(decode Decoder, clut int) (*image.NRGBA, error) {
	switch ref.Kind {
	case KIND_DIRECT:
		return ref.Image, nil
	case KIND_ENCODED:
		return decode(ref.Data, clut)
	case KIND_COMPOSITE:
		return ref.renderComposite(decode, clut)
	}
	return nil, errors.Errorf("sprite: unknown ref kind %v", ref.Kind)
}

// renderComposite crops the cell out of every region image and stacks the crops top to bottom.
func (ref *Ref) renderComposite(decode Decoder, clut int) (*image.NRGBA, error) {
	crops := make([]image.Image, 0, len(ref.Regions))
	for i, region := range ref.Regions {
		sheet, err := decode(region.Data, clut)
		if err != nil {
			return nil, errors.Wrapf(err, "region %d", i)
		}
		crops = append(crops, sheet.SubImage(region.Bounds(sheet.Bounds())))
	}
	if len(crops) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
	}

	w, h := crops[0].Bounds().Dx(), crops[0].Bounds().Dy()
	result := image.NewNRGBA(image.Rect(0, 0, w, h*len(crops)))
	for i, crop := range crops {
		b := crop.Bounds()
		draw.Draw(result, image.Rect(0, h*i, b.Dx(), h*i+b.Dy()), crop, b.Min, draw.Src)
	}
	return result, nil
}

// Bounds of the region cell inside a sheet of the given size, rounded to whole pixels.
func (region *Region) Bounds(sheet image.Rectangle) image.Rectangle {
	cw := float64(sheet.Dx()) / float64(region.Columns)
	ch := float64(sheet.Dy()) / float64(region.Rows)
	return image.Rect(
		int(math.Round(cw*float64(region.X))),
		int(math.Round(ch*float64(region.Y))),
		int(math.Round(cw*float64(region.X+1))),
		int(math.Round(ch*float64(region.Y+1))),
	).Add(sheet.Min)
}
