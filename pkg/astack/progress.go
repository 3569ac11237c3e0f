package astack

import (
	"image"
	"log"
)

// Telemetry is a point-in-time resource sample, taken on every
// consumer poll tick.
type Telemetry struct {
	CPUPercent    float64
	MemoryPercent float64
	Goroutines    int
	QueueDepth    int
}

// A ProgressSink receives everything the pipeline wants to tell the
// outside world: status text, frame counts, resource telemetry,
// preview images, and the terminal finished event. Implementations
// live with the caller - a CLI, a GUI, a test harness - and the
// pipeline fires events at it from the consumer goroutine without
// ever waiting on it.
type ProgressSink interface {
	Status(msg string)
	Progress(done, total int)
	Telemetry(t Telemetry)
	Preview(img image.Image)
	Finished(outputPath string)
}

// A LogSink reports pipeline events through the standard logger, and
// optionally writes preview thumbnails to a fixed path as they
// arrive.
type LogSink struct {
	Verbosity   int
	PreviewPath string // empty disables preview writing
}

func (ls *LogSink)Status(msg string) { log.Printf("%s\n", msg) }

func (ls *LogSink)Progress(done, total int) {
	if ls.Verbosity > 0 || done == total {
		log.Printf("stacked %d/%d frames\n", done, total)
	}
}

func (ls *LogSink)Telemetry(t Telemetry) {
	// One line per poll tick is a lot; keep quiet unless asked.
	if ls.Verbosity > 1 {
		log.Printf("cpu %.1f%%, mem %.1f%%, %d goroutines, %d frames queued\n",
			t.CPUPercent, t.MemoryPercent, t.Goroutines, t.QueueDepth)
	}
}

func (ls *LogSink)Preview(img image.Image) {
	if ls.PreviewPath == "" {
		return
	}
	if err := WriteImage(img, ls.PreviewPath); err != nil {
		log.Printf("preview write failed: %v\n", err)
	}
}

func (ls *LogSink)Finished(outputPath string) {
	log.Printf("finished: %s\n", outputPath)
}

type nopSink struct{}

func (nopSink)Status(string)        {}
func (nopSink)Progress(int, int)    {}
func (nopSink)Telemetry(Telemetry)  {}
func (nopSink)Preview(image.Image)  {}
func (nopSink)Finished(string)      {}
