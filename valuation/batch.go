package valuation

import (
	"context"
	"runtime"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

// BatchConfig bounds a batch run. Zero values fall back to NumCPU workers
// and no per-bond timeout.
type BatchConfig struct {
	Concurrency    int
	PerBondTimeout time.Duration
}

// ValueBatch values every input on a worker pool, one task per bond.
// Results keep the input order. A bond that times out or fails produces a
// Partial bundle; nothing aborts the batch.
func (e *Engine) ValueBatch(ctx context.Context, inputs []Input, cfg BatchConfig) []IndicatorBundle {
	workers := cfg.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]IndicatorBundle, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			bondCtx := gctx
			if cfg.PerBondTimeout > 0 {
				var cancel context.CancelFunc
				bondCtx, cancel = context.WithTimeout(gctx, cfg.PerBondTimeout)
				defer cancel()
			}
			out[i] = e.Value(bondCtx, in)
			return nil
		})
	}
	// Workers never return errors; failures live in the bundles.
	_ = g.Wait()

	if e.logger != nil {
		complete := 0
		for _, b := range out {
			if b.Completeness == Complete {
				complete++
			}
		}
		e.logger.Info().
			Int("bonds", len(out)).
			Int("complete", complete).
			Int("partial", len(out)-complete).
			Msg("valuation batch finished")
	}
	return out
}

// DefaultLogger returns a console logger at the given level, for callers
// that want batch progress without wiring their own.
func DefaultLogger(level log.Level) *log.Logger {
	return &log.Logger{
		Level:  level,
		Writer: &log.ConsoleWriter{},
	}
}
