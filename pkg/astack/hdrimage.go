package astack

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
)

// hdrFrame adapts a FrameBuffer to hdr.Image so the pre-clamp float
// aggregate can go out as RGBE for inspection in HDR-aware tools.
// Samples scale from the working 0-255 range down to 0-1; anything
// the 8-bit output would have clipped survives here.
type hdrFrame struct {
	fb *FrameBuffer
}

// Implement image.Image
func (hf hdrFrame)ColorModel() color.Model { return hdrcolor.RGBModel }
func (hf hdrFrame)Bounds() image.Rectangle { return image.Rect(0, 0, hf.fb.W, hf.fb.H) }
func (hf hdrFrame)At(x, y int) color.Color { return hf.HDRAt(x, y) }

// Implement hdr.Image
func (hf hdrFrame)Size() int { return hf.fb.W * hf.fb.H }
func (hf hdrFrame)HDRAt(x, y int) hdrcolor.Color {
	return hdrcolor.RGB{
		R: hf.fb.At(x, y, 0) / 255.0,
		G: hf.fb.At(x, y, 1) / 255.0,
		B: hf.fb.At(x, y, 2) / 255.0,
	}
}

func WriteHDR(fb *FrameBuffer, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	if err := rgbe.Encode(writer, hdrFrame{fb}); err != nil {
		return fmt.Errorf("rgbe encode '%s': %v", filename, err)
	}
	return nil
}
