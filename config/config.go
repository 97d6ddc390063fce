// Package config loads poller settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/mpupoll/mpu"
)

const (
	AdapterGeneric = "generic"
	AdapterNanoPi  = "nanopi"
	AdapterRaspi   = "raspi"
	AdapterMCP2221 = "mcp2221"
	AdapterSim     = "sim"
)

const (
	OutputLine = "line"
	OutputLog  = "log"
	OutputYAML = "yaml"
)

var ErrUnknownAdapter = errors.New("unknown adapter")
var ErrUnknownOutput = errors.New("unknown output")

// Address is a 7-bit device address. In YAML it may be written as a number
// or as a string with a 0x prefix.
type Address byte

func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	addr, err := ParseAddress(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = Address(addr)
	return nil
}

func (a Address) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%#x", byte(a)), nil
}

// ParseAddress accepts decimal, 0x hex, 0o octal and 0b binary notation.
func ParseAddress(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if v > 0x7F {
		return 0, fmt.Errorf("invalid address %q: not a 7-bit address", s)
	}
	return byte(v), nil
}

type Poll struct {
	Interval     time.Duration `yaml:"interval"`
	OverflowWarn int           `yaml:"overflow_warn"`
}

type Config struct {
	Adapter string `yaml:"adapter"`
	Device  string `yaml:"device"`
	// Bus is the gobot bus number; -1 selects the adaptor default.
	Bus       int          `yaml:"bus"`
	Address   Address      `yaml:"address"`
	Output    string       `yaml:"output"`
	Poll      Poll         `yaml:"poll"`
	Registers mpu.Settings `yaml:"registers"`
}

// Default returns the settings used when no file is given: a Linux I2C bus
// at /dev/i2c-0, the sensor at 0x68 and a busy-wait poll loop.
func Default() Config {
	return Config{
		Adapter:   AdapterGeneric,
		Device:    "/dev/i2c-0",
		Bus:       -1,
		Address:   Address(mpu.DefaultAddress),
		Output:    OutputLine,
		Registers: mpu.DefaultSettings(),
	}
}

// Load reads the file at path on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("could not open config file: %w", err)
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not decode config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterGeneric, AdapterNanoPi, AdapterRaspi, AdapterMCP2221, AdapterSim:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAdapter, c.Adapter)
	}
	switch c.Output {
	case OutputLine, OutputLog, OutputYAML:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOutput, c.Output)
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("negative poll interval: %s", c.Poll.Interval)
	}
	return nil
}
