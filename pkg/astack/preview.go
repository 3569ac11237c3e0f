package astack

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const previewMaxWidth = 256

// RenderPreview shrinks the running aggregate to thumbnail size and
// stamps a label on it.
func RenderPreview(fb *FrameBuffer, label string) image.Image {
	thumb := fb.Downsample(previewMaxWidth)

	dc := gg.NewContextForImage(thumb.ToRGBA())
	dc.SetRGB(1, 1, 1)
	dc.DrawString(label, 6, 14)
	return dc.Image()
}

// WriteRejectMap renders how many samples sigma clipping rejected at
// each pixel, blue (none) through red (all frames). Satellite trails
// and hot pixels light up, which is the quickest way to see what the
// clip actually did.
func WriteRejectMap(agg *Aggregate, filename string) error {
	rejects := agg.RejectedCounts()
	if rejects == nil || agg.Frames() == 0 || len(agg.retained) == 0 {
		return fmt.Errorf("no rejection data to map")
	}

	ref := agg.retained[0]
	img := image.NewRGBA(image.Rect(0, 0, ref.W, ref.H))

	cold := colorful.Color{R: 0.10, G: 0.15, B: 0.60}
	hot := colorful.Color{R: 0.85, G: 0.10, B: 0.10}

	for y := 0; y < ref.H; y++ {
		for x := 0; x < ref.W; x++ {
			worst := 0
			for c := 0; c < Channels; c++ {
				if n := rejects[(y*ref.W+x)*Channels+c]; n > worst {
					worst = n
				}
			}

			frac := float64(worst) / float64(agg.Frames())
			r, g, b := cold.BlendLab(hot, frac).Clamped().RGB255()
			img.Set(x, y, color.RGBA{r, g, b, 0xff})
		}
	}

	return WriteImage(img, filename)
}
