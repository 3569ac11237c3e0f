package astack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.yaml")
	contents := `
policy: sigmaclip
sigmathreshold: 2.5
outputformat: tif
queuedepth: 4
skipbadframes: true
chime: false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, SigmaClip, cfg.GetPolicy())
	assert.Equal(t, 2.5, cfg.SigmaThreshold)
	assert.Equal(t, "tif", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.QueueDepth)
	assert.True(t, cfg.SkipBadFrames)
	assert.False(t, cfg.Chime)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := Config{} // everything unset
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, Mean, cfg.GetPolicy())
	assert.Equal(t, "png", cfg.OutputFormat)
	assert.Equal(t, DefaultSigmaThreshold, cfg.SigmaThreshold)
	assert.Equal(t, DefaultQueueDepth, cfg.QueueDepth)
	assert.Equal(t, DefaultPreviewEvery, cfg.PreviewEvery)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
}

func TestConfigFinalizeRejectsBadValues(t *testing.T) {
	cfg := NewConfig()
	cfg.Policy = "median"
	assert.Error(t, cfg.Finalize())

	cfg = NewConfig()
	cfg.OutputFormat = "webp"
	assert.Error(t, cfg.Finalize())
}

func TestConfigAsYamlRoundTrips(t *testing.T) {
	cfg := NewConfig()
	cfg.Policy = "maximum"

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg.AsYaml()), 0644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "maximum", loaded.Policy)
}
