package render

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/sammargh/gfdmtools/pack/aebg"
)

func saturate(v int) uint8 {
	if v > 0xff {
		return 0xff
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

// blend merges a layer of the frame size into the frame.
func blend(frame, layer *image.NRGBA, mode aebg.BlendMode) {
	switch mode {
	case aebg.BLEND_ADDITIVE:
		blendAdditive(frame, layer)
	case aebg.BLEND_SUBTRACTIVE:
		blendSubtractive(frame, layer)
	default:
		draw.Draw(frame, frame.Bounds(), layer, layer.Bounds().Min, draw.Over)
	}
}

// blendAdditive adds the layer color weighted by its alpha, clamping every channel.
func blendAdditive(frame, layer *image.NRGBA) {
	for i := 0; i+3 < len(frame.Pix) && i+3 < len(layer.Pix); i += 4 {
		a := int(layer.Pix[i+3])
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			frame.Pix[i+c] = saturate(int(frame.Pix[i+c]) + int(layer.Pix[i+c])*a/0xff)
		}
		frame.Pix[i+3] = saturate(int(frame.Pix[i+3]) + a)
	}
}

// blendSubtractive subtracts the layer color weighted by its alpha and keeps the frame alpha.
func blendSubtractive(frame, layer *image.NRGBA) {
	for i := 0; i+3 < len(frame.Pix) && i+3 < len(layer.Pix); i += 4 {
		a := int(layer.Pix[i+3])
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			frame.Pix[i+c] = saturate(int(frame.Pix[i+c]) - int(layer.Pix[i+c])*a/0xff)
		}
	}
}
