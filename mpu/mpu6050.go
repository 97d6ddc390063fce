// Package mpu drives the FIFO of InvenSense MPU6050/MPU6500 style motion
// sensors over a register bus.
//
// A Device is configured once with Configure, after which FIFOCount reports
// how many bytes are buffered and ReadBlock pulls one accel+gyro block from
// the FIFO data register. Decode turns a block into a Sample.
package mpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/mpupoll"
)

// Settings holds the values written by Configure, one per register.
type Settings struct {
	SampleRateDivider byte `yaml:"sample_rate_divider"`
	Config            byte `yaml:"config"`
	GyroConfig        byte `yaml:"gyro_config"`
	AccelConfig       byte `yaml:"accel_config"`
	AccelFilter       byte `yaml:"accel_filter"`
	UserControl       byte `yaml:"user_control"`
	FIFOEnable        byte `yaml:"fifo_enable"`
}

// DefaultSettings enables the FIFO for accel and all three gyro axes with a
// divider of 12 and the 5 Hz low-pass filter.
func DefaultSettings() Settings {
	return Settings{
		SampleRateDivider: 12,
		Config:            0b01000110,
		GyroConfig:        0b00000000,
		AccelConfig:       0b00000110,
		AccelFilter:       0b00000000,
		UserControl:       0b11001100,
		FIFOEnable:        FIFOGyroX | FIFOGyroY | FIFOGyroZ | FIFOAccel,
	}
}

// RegisterWrite is a single configuration transaction.
type RegisterWrite struct {
	Name     string
	Register byte
	Value    byte
}

// Sequence returns the configuration writes in the order they must be sent.
func (s Settings) Sequence() []RegisterWrite {
	return []RegisterWrite{
		{Name: "sample rate divider", Register: regSampleRateDiv, Value: s.SampleRateDivider},
		{Name: "low-pass filter", Register: regConfig, Value: s.Config},
		{Name: "gyro range", Register: regGyroConfig, Value: s.GyroConfig},
		{Name: "accel range", Register: regAccelConfig, Value: s.AccelConfig},
		{Name: "accel high-pass filter", Register: regAccelFilter, Value: s.AccelFilter},
		{Name: "power management", Register: regUserCtrl, Value: s.UserControl},
		{Name: "fifo enable", Register: regFIFOEnable, Value: s.FIFOEnable},
	}
}

// Device represents a single motion sensor reachable at a fixed address.
type Device struct {
	transport mpupoll.RegisterBus
	address   byte
	settings  Settings
}

type DeviceConfig struct {
	Address  byte
	Settings Settings
}

type DeviceOption func(*DeviceConfig)

func WithAddress(address byte) DeviceOption {
	return func(c *DeviceConfig) {
		c.Address = address
	}
}

func WithSettings(settings Settings) DeviceOption {
	return func(c *DeviceConfig) {
		c.Settings = settings
	}
}

// NewDevice creates a sensor connector on the given transport. The bus is
// owned by the caller and must outlive the device.
func NewDevice(trans mpupoll.RegisterBus, opts ...DeviceOption) *Device {
	config := &DeviceConfig{
		Address:  DefaultAddress,
		Settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return &Device{transport: trans, address: config.Address, settings: config.Settings}
}

func (d *Device) Address() byte {
	return d.address
}

// Configure writes the configuration sequence. Values are not read back and
// the first failing write aborts the sequence.
func (d *Device) Configure(ctx context.Context) error {
	for _, w := range d.settings.Sequence() {
		slog.Debug("writing register", "name", w.Name, "register", fmt.Sprintf("0x%02x", w.Register), "value", fmt.Sprintf("0b%08b", w.Value))
		err := d.transport.WriteByteData(ctx, d.address, w.Register, w.Value)
		if err != nil {
			return fmt.Errorf("mpu: could not set %s: %w", w.Name, err)
		}
	}
	return nil
}

// FIFOCount returns the number of bytes currently buffered in the FIFO.
func (d *Device) FIFOCount(ctx context.Context) (int, error) {
	high, err := d.transport.ReadByteData(ctx, d.address, regFIFOCountH)
	if err != nil {
		return 0, fmt.Errorf("mpu: could not read fifo count high byte: %w", err)
	}
	low, err := d.transport.ReadByteData(ctx, d.address, regFIFOCountL)
	if err != nil {
		return 0, fmt.Errorf("mpu: could not read fifo count low byte: %w", err)
	}
	return int(high)<<8 | int(low), nil
}

// ReadBlock fills block with BlockSize consecutive reads of the FIFO data
// register. The device advances its read pointer on every read.
func (d *Device) ReadBlock(ctx context.Context, block *[BlockSize]byte) error {
	for i := range block {
		val, err := d.transport.ReadByteData(ctx, d.address, regFIFORW)
		if err != nil {
			return fmt.Errorf("mpu: could not read fifo byte %d: %w", i, err)
		}
		block[i] = val
	}
	return nil
}

// ReadSample reads and decodes one block. The caller must make sure the FIFO
// holds at least BlockSize bytes.
func (d *Device) ReadSample(ctx context.Context) (Sample, error) {
	var block [BlockSize]byte
	err := d.ReadBlock(ctx, &block)
	if err != nil {
		return Sample{}, err
	}
	return Decode(block), nil
}

// DeviceID returns the six identification bits of WHO_AM_I.
func (d *Device) DeviceID(ctx context.Context) (byte, error) {
	raw, err := d.transport.ReadByteData(ctx, d.address, regWhoAmI)
	if err != nil {
		return 0, fmt.Errorf("mpu: could not read device id: %w", err)
	}
	return (raw >> 1) & 0b00111111, nil
}

// Temperature returns the die temperature in Celsius.
func (d *Device) Temperature(ctx context.Context) (float32, error) {
	high, err := d.transport.ReadByteData(ctx, d.address, regTempOutH)
	if err != nil {
		return 0, fmt.Errorf("mpu: could not read temperature high byte: %w", err)
	}
	low, err := d.transport.ReadByteData(ctx, d.address, regTempOutL)
	if err != nil {
		return 0, fmt.Errorf("mpu: could not read temperature low byte: %w", err)
	}
	return convertTemperature(high, low), nil
}

// ReadRegister reads an arbitrary register.
func (d *Device) ReadRegister(ctx context.Context, register byte) (byte, error) {
	val, err := d.transport.ReadByteData(ctx, d.address, register)
	if err != nil {
		return 0, fmt.Errorf("mpu: could not read register %#x: %w", register, err)
	}
	return val, nil
}

// WriteRegister writes an arbitrary register.
func (d *Device) WriteRegister(ctx context.Context, register, value byte) error {
	err := d.transport.WriteByteData(ctx, d.address, register, value)
	if err != nil {
		return fmt.Errorf("mpu: could not write register %#x: %w", register, err)
	}
	return nil
}

func convertTemperature(high, low byte) float32 {
	return float32(Combine(high, low))/temperatureSensitivity + temperatureOffset
}
