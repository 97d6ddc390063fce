package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/mpupoll/cmd/mpupoll/console"
	"github.com/mklimuk/mpupoll/config"
	"github.com/mklimuk/mpupoll/mpu"
)

var errQuit = errors.New("quit")

const shellHelp = `r <reg>          read a register
w <reg> <value>  write a register
count            read the FIFO count
sample           read one FIFO block
id               read the device id
q                quit`

var regsCmd = cli.Command{
	Name:    "registers",
	Aliases: []string{"regs"},
	Usage:   "interactive register shell",
	Flags:   deviceFlags(),
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, cfg config.Config, dev *mpu.Device) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          fmt.Sprintf("mpu@%#x> ", dev.Address()),
				InterruptPrompt: "^C",
				EOFPrompt:       "q",
			})
			if err != nil {
				return console.Exit(1, "could not start shell: %s", console.Red(err))
			}
			defer func() { _ = rl.Close() }()
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return console.Exit(1, "shell error: %s", console.Red(err))
				}
				out, err := execShellLine(ctx, dev, line)
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					console.Errorf("%s", err)
					continue
				}
				if out != "" {
					console.Printf("%s\n", out)
				}
			}
		})
	},
}

// execShellLine runs a single shell command against the device.
func execShellLine(ctx context.Context, dev *mpu.Device, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	switch fields[0] {
	case "r", "read":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: r <reg>")
		}
		reg, err := parseByte(fields[1])
		if err != nil {
			return "", err
		}
		val, err := dev.ReadRegister(ctx, reg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%02x = 0x%02x (0b%08b)", reg, val, val), nil
	case "w", "write":
		if len(fields) != 3 {
			return "", fmt.Errorf("usage: w <reg> <value>")
		}
		reg, err := parseByte(fields[1])
		if err != nil {
			return "", err
		}
		val, err := parseByte(fields[2])
		if err != nil {
			return "", err
		}
		err = dev.WriteRegister(ctx, reg, val)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%02x <- 0x%02x", reg, val), nil
	case "count":
		count, err := dev.FIFOCount(ctx)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(count), nil
	case "sample":
		count, err := dev.FIFOCount(ctx)
		if err != nil {
			return "", err
		}
		if count < mpu.BlockSize {
			return "", fmt.Errorf("fifo holds %d bytes, need %d", count, mpu.BlockSize)
		}
		s, err := dev.ReadSample(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("X:%d, Y:%d, Z:%d, Xg:%d, Yg:%d, Zg:%d", s.AccX, s.AccY, s.AccZ, s.GyroX, s.GyroY, s.GyroZ), nil
	case "id":
		id, err := dev.DeviceID(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%#x", id), nil
	case "h", "help", "?":
		return shellHelp, nil
	case "q", "quit", "exit":
		return "", errQuit
	}
	return "", fmt.Errorf("unknown command %q (try help)", fields[0])
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q: %w", s, err)
	}
	return byte(v), nil
}
