package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/mpupoll/cmd/mpupoll/console"
	"github.com/mklimuk/mpupoll/config"
	"github.com/mklimuk/mpupoll/mpu"
)

var configureCmd = cli.Command{
	Name:  "configure",
	Usage: "write the FIFO configuration sequence",
	Flags: append(deviceFlags(),
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "do not ask for confirmation when the device id is unknown",
		},
	),
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, cfg config.Config, dev *mpu.Device) error {
			if !c.Bool("force") {
				id, err := dev.DeviceID(ctx)
				if err != nil {
					return console.Exit(1, "error reading device id: %s", console.Red(err))
				}
				if _, known := mpu.KnownDevice(id); !known {
					answer, err := console.NoOrYes(fmt.Sprintf("unknown device id %#x, configure anyway?", id))
					if err != nil {
						return console.Exit(1, "prompt error: %s", console.Red(err))
					}
					if answer != console.Yes {
						return nil
					}
				}
			}
			err := dev.Configure(ctx)
			if err != nil {
				return console.Exit(1, "error configuring device: %s", console.Red(err))
			}
			for _, w := range cfg.Registers.Sequence() {
				console.Infof("%s", registerLine(w))
			}
			return nil
		})
	},
}

func registerLine(w mpu.RegisterWrite) string {
	return fmt.Sprintf("%-24s 0x%02x = %s", w.Name, w.Register, console.White(fmt.Sprintf("0b%08b", w.Value)))
}

var fifoCmd = cli.Command{
	Name: "fifo",
	Subcommands: cli.Commands{
		&fifoCountCmd,
	},
}

var fifoCountCmd = cli.Command{
	Name:  "count",
	Usage: "print the number of bytes buffered in the FIFO",
	Flags: deviceFlags(),
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, cfg config.Config, dev *mpu.Device) error {
			count, err := dev.FIFOCount(ctx)
			if err != nil {
				return console.Exit(1, "error reading fifo count: %s", console.Red(err))
			}
			console.Printf("%s bytes (%s samples)\n", console.White(count), console.White(count/mpu.BlockSize))
			return nil
		})
	},
}

var idCmd = cli.Command{
	Name:  "id",
	Usage: "print the device identification",
	Flags: deviceFlags(),
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, cfg config.Config, dev *mpu.Device) error {
			id, err := dev.DeviceID(ctx)
			if err != nil {
				return console.Exit(1, "error reading device id: %s", console.Red(err))
			}
			name, known := mpu.KnownDevice(id)
			if !known {
				console.Warnf("unknown device id %#x", id)
				return nil
			}
			console.PInfof(console.PictoPin, "%s (id %#x at %#x)", console.White(name), id, dev.Address())
			return nil
		})
	},
}

var tempCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "print the die temperature",
	Flags:   deviceFlags(),
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, cfg config.Config, dev *mpu.Device) error {
			temp, err := dev.Temperature(ctx)
			if err != nil {
				return console.Exit(1, "error getting temperature read: %s", console.Red(err))
			}
			console.Printf("%s %s\n", console.PictoThermometer, console.White(fmt.Sprintf("%.2f", temp)))
			return nil
		})
	},
}
