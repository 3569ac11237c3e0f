package astack

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/codahale/hdrhistogram"
	"golang.org/x/sync/errgroup"
)

// A Session is one stacking run: the selected frame files, the
// reduction policy, the summed exposure, and the output. Create it
// once the file selection is confirmed; it is spent after Run
// returns.
type Session struct {
	Config
	Files         []string
	TotalExposure Rational

	// Decode turns one file into a buffer. Defaults to LoadFrame;
	// swappable so tests can feed synthetic frames.
	Decode func(string) (*FrameBuffer, error)

	agg   *Aggregate
	queue *FrameQueue
	sink  ProgressSink

	decodeLatency *hdrhistogram.Histogram
}

func NewSession(cfg Config, files []string, sink ProgressSink) (*Session, error) {
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = nopSink{}
	}

	return &Session{
		Config: cfg,
		Files:  files,
		Decode: LoadFrame,
		sink:   sink,
		// Decode latencies in microseconds, anywhere from sub-ms
		// PNG thumbnails up to ~30s monster TIFFs.
		decodeLatency: hdrhistogram.New(1, 30_000_000, 3),
	}, nil
}

// Stack is the one-call entry point: stack the files under cfg's
// policy and return the output path. An empty selection reports
// itself to the sink and returns without doing anything.
func Stack(ctx context.Context, cfg Config, files []string, sink ProgressSink) (string, error) {
	session, err := NewSession(cfg, files, sink)
	if err != nil {
		return "", err
	}
	return session.Run(ctx)
}

// Run executes the whole pipeline: exposure totalling up front, then
// a decode producer and an aggregation consumer joined by the frame
// queue, then finalization once every frame is folded in. The
// aggregate is never finalized from a partial state - any producer or
// consumer error aborts before the output is touched.
func (s *Session)Run(ctx context.Context) (string, error) {
	if len(s.Files) == 0 {
		s.sink.Status("no files selected")
		return "", nil
	}

	s.TotalExposure = SumExposures(s.Files)
	log.Printf("stacking %d frames, policy %s, total exposure %s (%.2fs)\n",
		len(s.Files), s.GetPolicy(), s.TotalExposure, s.TotalExposure.Seconds())

	s.agg = NewAggregate(s.GetPolicy(), s.SigmaThreshold)
	s.queue = NewFrameQueue(s.QueueDepth)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.produce(gctx) })
	g.Go(func() error { return s.consume(gctx) })

	if err := g.Wait(); err != nil {
		return "", err
	}

	if s.Verbosity > 0 {
		s.logDecodeLatency()
	}

	return s.finalize()
}

// produce decodes every selected file, in selection order, and hands
// each buffer to the queue. Decode order only matters for progress
// reporting; the reducers don't care.
func (s *Session)produce(ctx context.Context) error {
	defer s.queue.Close()

	for i, path := range s.Files {
		start := time.Now()

		fb, err := s.Decode(path)
		if err != nil {
			if s.SkipBadFrames {
				log.Printf("skipping bad frame: %v\n", err)
				s.sink.Status(fmt.Sprintf("skipped %s", filepath.Base(path)))
				continue
			}
			return err
		}

		_ = s.decodeLatency.RecordValue(time.Since(start).Microseconds())

		if err := s.queue.Push(ctx, FrameRecord{Index: i, Path: path, Buffer: fb}); err != nil {
			return err
		}
	}

	return nil
}

// consume folds queued frames into the aggregate, one at a time -
// the aggregate has a single owner and never sees concurrent
// mutation. Every poll tick, frame or not, takes a telemetry sample.
func (s *Session)consume(ctx context.Context) error {
	total := len(s.Files)
	done := 0
	sampler := NewTelemetrySampler(s.queue)

	for {
		rec, ok, open := s.queue.Poll(s.PollInterval())
		s.sink.Telemetry(sampler.Sample())

		if !open {
			break
		}
		if !ok {
			// Timed out; nothing to fold this tick.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		if err := s.agg.Update(rec); err != nil {
			return err
		}
		done++
		s.sink.Progress(done, total)

		if s.agg.HasPreview() && done%s.PreviewEvery == 0 {
			s.sink.Preview(RenderPreview(s.agg.Preview(), fmt.Sprintf("%d/%d frames", done, total)))
		}
	}

	if done == 0 {
		return fmt.Errorf("no frames were decoded")
	}

	return nil
}

func (s *Session)logDecodeLatency() {
	if s.decodeLatency.TotalCount() == 0 {
		return
	}
	log.Printf("decode latency: p50=%.1fms p90=%.1fms max=%.1fms\n",
		float64(s.decodeLatency.ValueAtQuantile(50))/1000.0,
		float64(s.decodeLatency.ValueAtQuantile(90))/1000.0,
		float64(s.decodeLatency.Max())/1000.0)
}
