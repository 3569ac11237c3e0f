package astack

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// A DecodeError names the frame file that could not be turned into a
// pixel buffer, so the caller can decide between aborting the whole
// stack and skipping the one file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError)Error() string { return fmt.Sprintf("decode '%s': %v", e.Path, e.Err) }
func (e *DecodeError)Unwrap() error { return e.Err }

// LoadFrame decodes one frame file into a FrameBuffer. Frames are
// expected to be developed raws - 8 or 16 bit TIFF, or PNG/JPEG.
func LoadFrame(filename string) (*FrameBuffer, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, &DecodeError{filename, err}
	}
	defer reader.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(filename)) {

	case ".tif", ".tiff":
		img, err = tiff.Decode(reader)

	default:
		img, _, err = image.Decode(reader)
	}

	if err != nil {
		return nil, &DecodeError{filename, err}
	}

	return NewFrameBufferFromImage(img), nil
}
