package astack

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultQueueDepth     = 8
	DefaultSigmaThreshold = 2.0
	DefaultPreviewEvery   = 100
	DefaultPollIntervalMs = 250
)

/* Example config file ...

policy: sigmaclip
sigmathreshold: 2.0
outputdir: /data/stacks
outputformat: png
queuedepth: 8
previewevery: 100
skipbadframes: true
chime: false
*/

type Config struct {
	Verbosity      int
	Policy         string
	SigmaThreshold float64
	OutputDir      string // default: alongside the first input
	OutputFormat   string // png or tif
	QueueDepth     int
	PreviewEvery   int
	PollIntervalMs int
	SkipBadFrames  bool // skip undecodable frames instead of aborting
	Chime          bool
	DumpHDR        bool // also write the unclamped aggregate as RGBE
	DumpRejectMap  bool // sigmaclip only: write a map of rejected samples

	// Value we resolve in Finalize, for access by the rest of the app
	policy Policy
}

func NewConfig() Config {
	return Config{
		Policy:         "mean",
		SigmaThreshold: DefaultSigmaThreshold,
		OutputFormat:   "png",
		QueueDepth:     DefaultQueueDepth,
		PreviewEvery:   DefaultPreviewEvery,
		PollIntervalMs: DefaultPollIntervalMs,
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("config read '%s': %v", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("config parse '%s': %v", filename, err)
	}

	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Finalize does sanity checks and resolves derived values. Call it
// once, after flags and config files have had their say.
func (c *Config)Finalize() error {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return err
	}
	c.policy = policy

	switch c.OutputFormat {
	case "", "png":
		c.OutputFormat = "png"
	case "tif", "tiff":
	default:
		return fmt.Errorf("no output format named '%s'", c.OutputFormat)
	}

	if c.SigmaThreshold <= 0 { c.SigmaThreshold = DefaultSigmaThreshold }
	if c.QueueDepth <= 0     { c.QueueDepth = DefaultQueueDepth }
	if c.PreviewEvery <= 0   { c.PreviewEvery = DefaultPreviewEvery }
	if c.PollIntervalMs <= 0 { c.PollIntervalMs = DefaultPollIntervalMs }

	return nil
}

func (c Config)GetPolicy() Policy { return c.policy }

func (c Config)PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
