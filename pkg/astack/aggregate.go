package astack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// A Policy is the per-pixel reduction used to combine frames.
type Policy int

const (
	Mean Policy = iota
	Maximum
	Minimum
	SigmaClip
)

func (p Policy)String() string {
	switch p {
	case Mean:      return "mean"
	case Maximum:   return "maximum"
	case Minimum:   return "minimum"
	case SigmaClip: return "sigmaclip"
	}
	return "unknown"
}

// ParsePolicy resolves the config/flag string into a Policy, once, at
// session construction.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "mean", "average": return Mean, nil
	case "maximum", "max":      return Maximum, nil
	case "minimum", "min":      return Minimum, nil
	case "sigmaclip", "sigma":  return SigmaClip, nil
	default:
		return Mean, fmt.Errorf("no stacking policy named '%s'", s)
	}
}

// A DimensionMismatchError reports a frame whose geometry doesn't
// match the frames already folded into the aggregate. Frames are
// never resampled to fit; a mismatch means the selection is wrong.
type DimensionMismatchError struct {
	Path         string
	WantW, WantH int
	GotW, GotH   int
}

func (e *DimensionMismatchError)Error() string {
	return fmt.Sprintf("frame '%s' is %dx%d, stack is %dx%d", e.Path, e.GotW, e.GotH, e.WantW, e.WantH)
}

// An Aggregate folds frames into a running result under one Policy,
// chosen at construction and fixed for the session's duration. It is
// owned and mutated by the consumer goroutine only; nothing here
// needs a lock.
//
// Mean, Maximum and Minimum keep a single running buffer. SigmaClip
// has no meaningful running value - it must see every sample at every
// pixel before it can reject anything, so it retains all the buffers
// and does the work in Result.
type Aggregate struct {
	Policy         Policy
	SigmaThreshold float64 // rejection threshold, in standard deviations

	n        int
	running  *FrameBuffer
	retained []*FrameBuffer
	rejected []int // per sample: how many frames sigma clipping threw out
}

func NewAggregate(policy Policy, sigmaThreshold float64) *Aggregate {
	if sigmaThreshold <= 0 {
		sigmaThreshold = DefaultSigmaThreshold
	}
	return &Aggregate{Policy: policy, SigmaThreshold: sigmaThreshold}
}

// Frames is how many frames have been folded in so far.
func (a *Aggregate)Frames() int { return a.n }

// Update folds one frame into the aggregate. The record's buffer is
// owned by the aggregate after this call; the caller must not touch
// it again.
func (a *Aggregate)Update(rec FrameRecord) error {
	fb := rec.Buffer

	if ref := a.reference(); ref != nil && !ref.SameSize(fb) {
		return &DimensionMismatchError{rec.Path, ref.W, ref.H, fb.W, fb.H}
	}

	a.n++

	if a.Policy == SigmaClip {
		a.retained = append(a.retained, fb)
		return nil
	}

	if a.running == nil {
		// First frame: the running value just is the frame.
		a.running = fb
		return nil
	}

	switch a.Policy {

	case Mean:
		// Incremental weighted average: running = (running*(n-1) + frame) / n
		n := float64(a.n)
		for i, v := range fb.Pix {
			a.running.Pix[i] += (v - a.running.Pix[i]) / n
		}

	case Maximum:
		for i, v := range fb.Pix {
			if v > a.running.Pix[i] {
				a.running.Pix[i] = v
			}
		}

	case Minimum:
		for i, v := range fb.Pix {
			if v < a.running.Pix[i] {
				a.running.Pix[i] = v
			}
		}
	}

	return nil
}

func (a *Aggregate)reference() *FrameBuffer {
	if a.running != nil {
		return a.running
	}
	if len(a.retained) > 0 {
		return a.retained[0]
	}
	return nil
}

// HasPreview reports whether the running value means anything
// mid-stack. Sigma clipping has nothing to show until finalization.
func (a *Aggregate)HasPreview() bool { return a.Policy != SigmaClip && a.running != nil }

func (a *Aggregate)Preview() *FrameBuffer { return a.running }

// Result produces the final combined buffer. For sigma clipping this
// is where all the real work happens; for the streaming policies it
// just hands back the running buffer.
func (a *Aggregate)Result() (*FrameBuffer, error) {
	if a.n == 0 {
		return nil, fmt.Errorf("aggregate has no frames")
	}
	if a.Policy != SigmaClip {
		return a.running, nil
	}
	return a.sigmaClip(), nil
}

// sigmaClip does outlier-rejecting averaging: at each sample
// position, any frame deviating from the cross-frame mean by more
// than SigmaThreshold population standard deviations is dropped, and
// the survivors are averaged. A position where every frame got
// dropped comes out as 0.
func (a *Aggregate)sigmaClip() *FrameBuffer {
	frames := a.retained
	out := NewFrameBuffer(frames[0].W, frames[0].H)
	a.rejected = make([]int, len(out.Pix))

	vals := make([]float64, len(frames))
	for i := range out.Pix {
		for j, fb := range frames {
			vals[j] = fb.Pix[i]
		}

		mean := stat.Mean(vals, nil)
		limit := a.SigmaThreshold * stat.PopStdDev(vals, nil)

		sum, kept := 0.0, 0
		for _, v := range vals {
			if math.Abs(v-mean) > limit {
				a.rejected[i]++
				continue
			}
			sum += v
			kept++
		}

		if kept > 0 {
			out.Pix[i] = sum / float64(kept)
		}
	}

	return out
}

// RejectedCounts is per-sample rejection counts; populated only after
// a SigmaClip Result call.
func (a *Aggregate)RejectedCounts() []int { return a.rejected }
