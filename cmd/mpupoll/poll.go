package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/mpupoll/cmd/mpupoll/console"
	"github.com/mklimuk/mpupoll/config"
	"github.com/mklimuk/mpupoll/mpu"
	"github.com/mklimuk/mpupoll/poll"
)

var pollCmd = cli.Command{
	Name:  "poll",
	Usage: "configure the sensor and print FIFO samples until interrupted",
	Flags: append(deviceFlags(),
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "pause between idle FIFO polls (0 polls continuously)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "sample output (line, log, yaml)",
		},
		&cli.IntFlag{
			Name:  "overflow-warn",
			Usage: "warn when the FIFO count exceeds this many bytes (0 disables)",
		},
		&cli.IntFlag{
			Name:    "samples",
			Aliases: []string{"n"},
			Usage:   "stop after this many samples (0 runs until interrupted)",
		},
		&cli.BoolFlag{
			Name:  "skip-configure",
			Usage: "keep the current device configuration",
		},
	),
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, cfg config.Config, dev *mpu.Device) error {
			if c.IsSet("interval") {
				cfg.Poll.Interval = c.Duration("interval")
			}
			if c.IsSet("output") {
				cfg.Output = c.String("output")
			}
			if c.IsSet("overflow-warn") {
				cfg.Poll.OverflowWarn = c.Int("overflow-warn")
			}
			if err := cfg.Validate(); err != nil {
				return console.Exit(1, "configuration error: %s", console.Red(err))
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			stats, err := runPoll(ctx, cfg, dev, pollOpts{
				out:           console.Writer(),
				samples:       c.Int("samples"),
				skipConfigure: c.Bool("skip-configure"),
			})
			console.Printf("\n")
			console.PInfof(console.PictoFinish, "%s samples in %s drains", console.White(stats.Samples), console.White(stats.Drains))
			if err != nil {
				return console.Exit(1, "polling error: %s", console.Red(err))
			}
			return nil
		})
	},
}

type pollOpts struct {
	out           io.Writer
	samples       int
	skipConfigure bool
}

// runPoll configures the device and polls its FIFO until ctx is done, the
// sample limit is reached or a transport error occurs. Cancellation is not
// reported as an error.
func runPoll(ctx context.Context, cfg config.Config, dev *mpu.Device, opts pollOpts) (poll.Stats, error) {
	if !opts.skipConfigure {
		err := dev.Configure(ctx)
		if err != nil {
			return poll.Stats{}, err
		}
	}
	sink, err := newSink(cfg.Output, opts.out)
	if err != nil {
		return poll.Stats{}, err
	}
	if opts.samples > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		sink = &limitSink{next: sink, limit: opts.samples, cancel: cancel}
	}
	p := poll.New(dev, sink,
		poll.WithInterval(cfg.Poll.Interval),
		poll.WithOverflowWarning(cfg.Poll.OverflowWarn),
	)
	err = p.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	return p.Stats(), err
}
