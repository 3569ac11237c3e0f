package astack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFramePNG(t *testing.T) {
	dir := t.TempDir()
	path := writeUniformPNG(t, dir, "frame.png", 5, 3, 200)

	fb, err := LoadFrame(path)
	require.NoError(t, err)

	assert.Equal(t, 5, fb.W)
	assert.Equal(t, 3, fb.H)
	assert.Len(t, fb.Pix, 5*3*Channels)
	for _, v := range fb.Pix {
		assert.Equal(t, 200.0, v)
	}
}

func TestLoadFrameMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.tif")

	_, err := LoadFrame(path)
	require.Error(t, err)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, path, decErr.Path)
	assert.Contains(t, err.Error(), path)
}

func TestLoadFrameCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("this is not a png"), 0644))

	_, err := LoadFrame(path)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, path, decErr.Path)
}

func TestExposureTimeWithoutExif(t *testing.T) {
	dir := t.TempDir()
	path := writeUniformPNG(t, dir, "noexif.png", 2, 2, 1)

	// A file with no EXIF block contributes zero, not an error.
	assert.Equal(t, ZeroDuration, ExposureTime(path))
	assert.Equal(t, ZeroDuration, ExposureTime(filepath.Join(dir, "missing.jpg")))
}

func TestSumExposuresWithoutExif(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeUniformPNG(t, dir, "a.png", 2, 2, 1),
		writeUniformPNG(t, dir, "b.png", 2, 2, 1),
	}

	total := SumExposures(files)
	assert.True(t, total.IsZero())
	assert.Equal(t, 0.0, total.Seconds())
}
