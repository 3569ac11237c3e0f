package astack

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// ExposureTime reads the EXIF exposure duration from a frame file, as
// the exact rational the camera wrote. A file with no usable EXIF
// contributes a zero-length exposure - plenty of converted files lose
// their tags along the way, and a missing tag shouldn't kill a whole
// stacking run, it just under-reports the total.
func ExposureTime(filename string) Rational {
	reader, err := os.Open(filename)
	if err != nil {
		return ZeroDuration
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ZeroDuration
	}

	tag, err := ex.Get(exif.ExposureTime)
	if err != nil {
		return ZeroDuration
	}

	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return ZeroDuration
	}

	return Rational{num, den}
}

// SumExposures totals the exposure durations over the whole
// selection, exactly. Computed once, before any stacking starts, and
// immutable afterwards.
func SumExposures(filenames []string) Rational {
	total := ZeroDuration
	for _, f := range filenames {
		total = total.Add(ExposureTime(f))
	}
	return total
}
