package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/mpupoll"
	"github.com/mklimuk/mpupoll/adapter"
	"github.com/mklimuk/mpupoll/cmd/mpupoll/console"
	"github.com/mklimuk/mpupoll/config"
	"github.com/mklimuk/mpupoll/i2c"
	"github.com/mklimuk/mpupoll/mpu"
	"github.com/mklimuk/mpupoll/snsctx"
)

type registerBusCloser interface {
	mpupoll.RegisterBus
	Close() error
}

// bridgeBus exposes register access on a raw I2C bridge.
type bridgeBus struct {
	mpupoll.RegisterBus
	closer interface{ Close() error }
}

func (b *bridgeBus) Close() error {
	return b.closer.Close()
}

func deviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter (generic, nanopi, raspi, mcp2221, sim)",
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "I2C bus device for the generic adapter",
		},
		&cli.IntFlag{
			Name:  "bus",
			Usage: "I2C bus number for gobot adapters (-1 for board default)",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "sensor address",
		},
		&cli.IntFlag{
			Name:  "usb-index",
			Usage: "MCP2221 index when several bridges are attached",
			Value: -1,
		},
	}
}

// loadConfig reads the configuration file and applies command line overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		addr, err := config.ParseAddress(c.String("address"))
		if err != nil {
			return cfg, err
		}
		cfg.Address = config.Address(addr)
	}
	return cfg, cfg.Validate()
}

func commandContext(c *cli.Context) context.Context {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	if c.IsSet("usb-index") && c.Int("usb-index") >= 0 {
		ctx = snsctx.SetDeviceIndex(ctx, c.Int("usb-index"))
	}
	return ctx
}

func openBus(ctx context.Context, cfg config.Config) (registerBusCloser, error) {
	slog.Debug("opening bus", "adapter", cfg.Adapter, "device", cfg.Device, "bus", cfg.Bus)
	switch cfg.Adapter {
	case config.AdapterGeneric:
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, err
		}
		return bus, nil
	case config.AdapterNanoPi:
		bus, err := i2c.NewNanoPiBus(cfg.Bus)
		if err != nil {
			return nil, err
		}
		return bus, nil
	case config.AdapterRaspi:
		bus, err := i2c.NewRaspiBus(cfg.Bus)
		if err != nil {
			return nil, err
		}
		return bus, nil
	case config.AdapterMCP2221:
		bridge := adapter.NewMCP2221()
		if err := bridge.Init(ctx); err != nil {
			return nil, err
		}
		return &bridgeBus{RegisterBus: mpupoll.NewRegisterBus(bridge), closer: bridge}, nil
	case config.AdapterSim:
		return mpu.NewSimulator(
			mpu.WithSimulatedAddress(byte(cfg.Address)),
			mpu.WithFeed(syntheticFeed(cfg.Registers.SampleRateDivider)),
		), nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrUnknownAdapter, cfg.Adapter)
}

// withDevice opens the configured bus, hands a device to fn and closes the
// bus afterwards.
func withDevice(c *cli.Context, fn func(ctx context.Context, cfg config.Config, dev *mpu.Device) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return console.Exit(1, "configuration error: %s", console.Red(err))
	}
	ctx := commandContext(c)
	bus, err := openBus(ctx, cfg)
	if err != nil {
		return console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	defer func() {
		err := bus.Close()
		if err != nil {
			console.Errorf("error closing bus: %s", console.Red(err))
		}
	}()
	dev := mpu.NewDevice(bus, mpu.WithAddress(byte(cfg.Address)), mpu.WithSettings(cfg.Registers))
	return fn(ctx, cfg, dev)
}

// syntheticFeed generates blocks at the output rate implied by the sample
// rate divider: a slow sine on the accelerometer and a constant gyro offset.
func syntheticFeed(divider byte) mpu.FeedFunc {
	var mx sync.Mutex
	period := time.Second / time.Duration(1000/(1+int(divider)))
	start := time.Now()
	produced := 0
	return func(ctx context.Context) []byte {
		mx.Lock()
		defer mx.Unlock()
		due := int(time.Since(start) / period)
		var data []byte
		for ; produced < due; produced++ {
			phase := float64(produced) * period.Seconds() * 2 * math.Pi
			block := mpu.Encode(mpu.Sample{
				AccX:  int(2000 * math.Sin(phase)),
				AccY:  int(2000 * math.Cos(phase)),
				AccZ:  -16384,
				GyroX: 5,
				GyroY: -3,
				GyroZ: 1,
			})
			data = append(data, block[:]...)
		}
		return data
	}
}
