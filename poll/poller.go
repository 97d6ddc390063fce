// Package poll drains the sensor FIFO in a loop and hands decoded samples
// to a sink.
//
// The loop alternates between two states. While the FIFO holds at least one
// full block the poller is draining: it reads a block, decodes it and emits
// the sample. Once the count drops below a block it is idle and polls the
// count again, immediately by default or after the configured interval.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/mpupoll/mpu"
)

// Source is the FIFO side of a sensor.
type Source interface {
	FIFOCount(ctx context.Context) (int, error)
	ReadBlock(ctx context.Context, block *[mpu.BlockSize]byte) error
}

// Sink consumes decoded samples.
type Sink interface {
	Emit(ctx context.Context, sample mpu.Sample) error
}

type SinkFunc func(ctx context.Context, sample mpu.Sample) error

func (f SinkFunc) Emit(ctx context.Context, sample mpu.Sample) error {
	return f(ctx, sample)
}

// Stats counts the work done by a poller.
type Stats struct {
	Samples int `yaml:"samples"`
	Polls   int `yaml:"polls"`
	Drains  int `yaml:"drains"`
}

type Opts struct {
	// Interval is the pause between idle polls. Zero means no pause.
	Interval time.Duration
	// OverflowWarning logs a warning when the FIFO count exceeds it. Zero
	// disables the check.
	OverflowWarning int
}

type Option func(*Opts)

func WithInterval(interval time.Duration) Option {
	return func(o *Opts) {
		o.Interval = interval
	}
}

func WithOverflowWarning(threshold int) Option {
	return func(o *Opts) {
		o.OverflowWarning = threshold
	}
}

type Poller struct {
	src   Source
	sink  Sink
	opts  Opts
	block [mpu.BlockSize]byte
	stats Stats
}

func New(src Source, sink Sink, opts ...Option) *Poller {
	o := Opts{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Poller{src: src, sink: sink, opts: o}
}

// Drain reads blocks while the FIFO count is at least one block and returns
// the number of samples emitted. Any transport or sink error ends the drain.
func (p *Poller) Drain(ctx context.Context) (int, error) {
	emitted := 0
	warned := false
	for {
		if err := ctx.Err(); err != nil {
			return emitted, err
		}
		count, err := p.src.FIFOCount(ctx)
		if err != nil {
			return emitted, fmt.Errorf("poll: could not read fifo count: %w", err)
		}
		p.stats.Polls++
		if p.opts.OverflowWarning > 0 && count > p.opts.OverflowWarning && !warned {
			slog.Warn("fifo count above threshold", "count", count, "threshold", p.opts.OverflowWarning)
			warned = true
		}
		if count < mpu.BlockSize {
			if emitted > 0 {
				p.stats.Drains++
			}
			return emitted, nil
		}
		err = p.src.ReadBlock(ctx, &p.block)
		if err != nil {
			return emitted, fmt.Errorf("poll: could not read fifo block: %w", err)
		}
		err = p.sink.Emit(ctx, mpu.Decode(p.block))
		if err != nil {
			return emitted, fmt.Errorf("poll: could not emit sample: %w", err)
		}
		emitted++
		p.stats.Samples++
	}
}

// Run drains the FIFO until the context is cancelled or an error occurs. It
// returns ctx.Err() on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	slog.Debug("starting fifo poller", "interval", p.opts.Interval, "overflow_warning", p.opts.OverflowWarning)
	for {
		_, err := p.Drain(ctx)
		if err != nil {
			return err
		}
		if p.opts.Interval <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.opts.Interval):
		}
	}
}

func (p *Poller) Stats() Stats {
	return p.stats
}
