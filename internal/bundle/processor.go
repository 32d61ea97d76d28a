// Package bundle traces many aperture samples through one optical chain.
package bundle

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"seqtrace/internal/tracer"
)

// Config holds the shared, read-only inputs of a bundle run.
type Config struct {
	Tracer    *tracer.Tracer
	Elements  []tracer.Element
	Reference tracer.Reference
	Launch    Launch
	Workers   int

	Logger   *slog.Logger
	Progress time.Duration // 0 disables progress reports
}

// Trace is the outcome of one aperture sample.
type Trace struct {
	Aperture Aperture
	Result   tracer.Result
}

// Run traces every aperture using a worker pool. Results keep the order of
// apertures. If ctx is cancelled, Run stops handing out work and returns
// ctx.Err() together with the traces finished so far; unfinished entries
// have no points.
func Run(ctx context.Context, cfg Config, apertures []Aperture) ([]Trace, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	total := len(apertures)
	results := make([]Trace, total)
	var processed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						log.Info("tracing", "done", p, "total", total, "rays_per_sec", rate)
					}
				}
			}
		}()
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				a := apertures[idx]
				results[idx] = Trace{
					Aperture: a,
					Result:   cfg.Tracer.Trace(cfg.Elements, cfg.Launch.Ray(a), cfg.Reference),
				}
				processed.Add(1)
			}
		}()
	}

	var err error
feed:
	for i := range apertures {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	close(done)

	log.Debug("bundle finished", "traced", processed.Load(), "total", total,
		"elapsed", time.Since(start))
	return results, err
}
