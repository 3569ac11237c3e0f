package astack

import(
	"image"
	"image/color"
	"math"
)

// Channels is the number of samples per pixel. Everything is decoded
// to RGB; alpha carries no light and is dropped.
const Channels = 3

// A FrameBuffer is a dense grid of float64 samples decoded from one
// input frame: row-major, three channels per pixel, working range
// [0, 255]. A buffer is owned by exactly one pipeline stage at a
// time; ownership moves decode -> queue -> aggregate and the data is
// never shared between goroutines.
type FrameBuffer struct {
	W, H int
	Pix  []float64 // len == W * H * Channels
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		W:   w,
		H:   h,
		Pix: make([]float64, w*h*Channels),
	}
}

// NewFrameBufferFromImage flattens a decoded image into the working
// float representation. 16-bit sources are scaled down to the 8-bit
// working range, since that's the range the output is clamped to.
func NewFrameBufferFromImage(img image.Image) *FrameBuffer {
	bounds := img.Bounds()
	fb := NewFrameBuffer(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			fb.Pix[i+0] = float64(r >> 8)
			fb.Pix[i+1] = float64(g >> 8)
			fb.Pix[i+2] = float64(b >> 8)
			i += Channels
		}
	}

	return fb
}

func (fb *FrameBuffer)At(x, y, c int) float64     { return fb.Pix[(y*fb.W+x)*Channels+c] }
func (fb *FrameBuffer)Set(x, y, c int, v float64) { fb.Pix[(y*fb.W+x)*Channels+c] = v }

func (fb *FrameBuffer)SameSize(o *FrameBuffer) bool { return fb.W == o.W && fb.H == o.H }

func (fb *FrameBuffer)Clone() *FrameBuffer {
	out := NewFrameBuffer(fb.W, fb.H)
	copy(out.Pix, fb.Pix)
	return out
}

// ToRGBA clamps every sample to [0, 255] and rounds to 8 bits.
func (fb *FrameBuffer)ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.W, fb.H))

	for y := 0; y < fb.H; y++ {
		for x := 0; x < fb.W; x++ {
			img.Set(x, y, color.RGBA{
				uint8(clampRound(fb.At(x, y, 0))),
				uint8(clampRound(fb.At(x, y, 1))),
				uint8(clampRound(fb.At(x, y, 2))),
				0xff,
			})
		}
	}

	return img
}

func clampRound(v float64) int {
	if v < 0 { return 0 }
	if v > 255 { return 255 }
	return int(math.Round(v))
}

// Downsample box-averages the buffer down so its width is at most
// maxW. Used for preview thumbnails only; the aggregate itself is
// never scaled.
func (fb *FrameBuffer)Downsample(maxW int) *FrameBuffer {
	if fb.W <= maxW {
		return fb
	}

	factor := (fb.W + maxW - 1) / maxW
	w := fb.W / factor
	h := fb.H / factor
	if w < 1 { w = 1 }
	if h < 1 { h = 1 }

	out := NewFrameBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < Channels; c++ {
				sum := 0.0
				for dy := 0; dy < factor; dy++ {
					for dx := 0; dx < factor; dx++ {
						sum += fb.At(x*factor+dx, y*factor+dy, c)
					}
				}
				out.Set(x, y, c, sum/float64(factor*factor))
			}
		}
	}

	return out
}
