package astack

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/skypies/util/histogram"
	"golang.org/x/image/tiff"

	"github.com/seankd/astrostack/pkg/sound"
)

// A PersistenceError names the output path that could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError)Error() string { return fmt.Sprintf("writing output '%s': %v", e.Path, e.Err) }
func (e *PersistenceError)Unwrap() error { return e.Err }

// finalize converts the completed aggregate into the output image:
// clamp to [0,255], round to 8 bits, write the container, stamp the
// summed exposure onto it, and tell the sink we're done. Runs once,
// after the consumer has folded in every frame.
func (s *Session)finalize() (string, error) {
	result, err := s.agg.Result()
	if err != nil {
		return "", err
	}

	outPath := s.outputPath()
	stem := strings.TrimSuffix(outPath, filepath.Ext(outPath))

	if s.DumpHDR {
		if err := WriteHDR(result, stem+".hdr"); err != nil {
			log.Printf("HDR dump failed: %v\n", err)
		}
	}
	if s.DumpRejectMap && s.agg.Policy == SigmaClip {
		if err := WriteRejectMap(s.agg, stem+"-rejects.png"); err != nil {
			log.Printf("reject map failed: %v\n", err)
		}
	}

	// The one unconditional preview: the finished aggregate. For
	// sigma clipping it is also the first, since nothing meaningful
	// existed before now.
	s.sink.Preview(RenderPreview(result, fmt.Sprintf("%d frames, %s", s.agg.Frames(), s.agg.Policy)))

	if err := WriteImage(result.ToRGBA(), outPath); err != nil {
		return "", err
	}

	if !s.TotalExposure.IsZero() {
		writeExposureTag(outPath, s.TotalExposure)
	}

	if s.Verbosity > 0 {
		logLuminanceHistogram(result)
	}

	s.sink.Finished(outPath)
	if s.Chime {
		if err := sound.PlayCompletion(); err != nil {
			log.Printf("completion chime: %v\n", err)
		}
	}

	log.Printf("output written '%s'\n", outPath)
	return outPath, nil
}

// outputPath derives the output filename from the first input's
// basename, the policy, and the exact exposure total:
// IMG_0001_sigmaclip_12.50s.png
func (s *Session)outputPath() string {
	first := s.Files[0]
	base := strings.TrimSuffix(filepath.Base(first), filepath.Ext(first))

	dir := s.OutputDir
	if dir == "" {
		dir = filepath.Dir(first)
	}

	name := fmt.Sprintf("%s_%s_%.2fs.%s", base, s.agg.Policy, s.TotalExposure.Seconds(), s.OutputFormat)
	return filepath.Join(dir, name)
}

// WriteImage encodes into the container named by the path's
// extension: TIFF for .tif/.tiff, PNG otherwise.
func WriteImage(img image.Image, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return &PersistenceError{filename, err}
	}
	defer writer.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		err = tiff.Encode(writer, img, nil)
	default:
		err = png.Encode(writer, img)
	}

	if err != nil {
		return &PersistenceError{filename, err}
	}
	return nil
}

// writeExposureTag stamps the summed exposure onto the output as the
// standard ExposureTime rational, via exiftool. None of the pure-Go
// encoders we use write EXIF, and exiftool handles every container we
// emit; without it the output is still fine, just untagged.
func writeExposureTag(filename string, d Rational) {
	if _, err := exec.LookPath("exiftool"); err != nil {
		log.Printf("exiftool not found; output has no exposure metadata\n")
		return
	}

	cmd := exec.Command("exiftool", "-m", "-overwrite_original",
		fmt.Sprintf("-ExposureTime=%d/%d", d.Num, d.Den), filename)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("exiftool on '%s': %v (%s)\n", filename, err, strings.TrimSpace(string(out)))
	}
}

// logLuminanceHistogram summarizes the output brightness spread,
// handy for sanity-checking a stack without opening it.
func logLuminanceHistogram(fb *FrameBuffer) {
	hist := histogram.Histogram{NumBuckets: 32, ValMin: 0, ValMax: 256}

	for i := 0; i < len(fb.Pix); i += Channels {
		lum := (fb.Pix[i] + fb.Pix[i+1] + fb.Pix[i+2]) / 3.0
		hist.Add(histogram.ScalarVal(clampRound(lum)))
	}

	log.Printf("output luminance: %v\n", hist)
}
