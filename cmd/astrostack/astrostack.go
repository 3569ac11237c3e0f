package main

import(
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/seankd/astrostack/pkg/astack"
)

var(
	fVerbosity      int
	fPolicy         string
	fSigmaThreshold float64
	fOutputDir      string
	fOutputFormat   string
	fQueueDepth     int
	fPreviewPath    string
	fSkipBadFrames  bool
	fChime          bool
	fDumpHDR        bool
	fDumpRejectMap  bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fPolicy, "policy", "mean", "how to reduce the stack: mean, maximum, minimum, sigmaclip")
	flag.Float64Var(&fSigmaThreshold, "sigma", astack.DefaultSigmaThreshold, "sigmaclip rejection threshold, in stddevs")
	flag.StringVar(&fOutputDir, "outdir", "", "where to write the stacked image (default: alongside the first input)")
	flag.StringVar(&fOutputFormat, "format", "png", "output container: png or tif")
	flag.IntVar(&fQueueDepth, "queuedepth", astack.DefaultQueueDepth, "decoded frames buffered between decode and aggregation")
	flag.StringVar(&fPreviewPath, "preview", "", "write preview thumbnails to this file as stacking runs")
	flag.BoolVar(&fSkipBadFrames, "skipbad", false, "skip undecodable frames instead of aborting")
	flag.BoolVar(&fChime, "chime", true, "play a sound when the stack is done")
	flag.BoolVar(&fDumpHDR, "dumphdr", false, "also write the unclamped aggregate as RGBE")
	flag.BoolVar(&fDumpRejectMap, "rejectmap", false, "sigmaclip only: write a map of rejected samples")
	flag.Parse()

	log.Printf("astrostack starting\n")
}

func main() {
	cfg := astack.NewConfig()
	files := []string{}

	// Args can be frame files, directories of frames, or a yaml config
	if err := gather(&cfg, &files, flag.Args()...); err != nil {
		log.Fatal(err)
	}

	// Override the config file with command line args, if relevant
	if fPolicy != "" { cfg.Policy = fPolicy }
	if fSigmaThreshold > 0 { cfg.SigmaThreshold = fSigmaThreshold }
	if fOutputDir != "" { cfg.OutputDir = fOutputDir }
	if fOutputFormat != "" { cfg.OutputFormat = fOutputFormat }
	if fQueueDepth > 0 { cfg.QueueDepth = fQueueDepth }

	// Just set the bool vars
	cfg.Verbosity = fVerbosity
	cfg.SkipBadFrames = fSkipBadFrames
	cfg.Chime = fChime
	cfg.DumpHDR = fDumpHDR
	cfg.DumpRejectMap = fDumpRejectMap

	sink := &astack.LogSink{Verbosity: cfg.Verbosity, PreviewPath: fPreviewPath}

	session, err := astack.NewSession(cfg, files, sink)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	if _, err := session.Run(context.Background()); err != nil {
		log.Fatalf("stacking failed: %v\n", err)
	}
}

func gather(cfg *astack.Config, files *[]string, args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := gather(cfg, files, filepath.Join(arg, content.Name())); err != nil {
					return err
				}
			}

		default: // is a file; yaml is config, anything else is a frame
			if strings.ToLower(filepath.Ext(arg)) == ".yaml" {
				loaded, err := astack.LoadConfig(arg)
				if err != nil {
					return fmt.Errorf("config %s: %v", arg, err)
				}
				*cfg = loaded
				log.Printf("Loaded base configuration from %s\n", arg)
			} else {
				*files = append(*files, arg)
			}
		}
	}

	return nil
}
