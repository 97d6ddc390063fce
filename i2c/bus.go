package i2c

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/mpupoll"
	"github.com/mklimuk/mpupoll/snsctx"
)

var _ mpupoll.I2CBus = &GenericBus{}
var _ mpupoll.RegisterBus = &GenericBus{}

// GenericBus is a host I2C bus opened through periph.io, e.g. /dev/i2c-1 on
// Linux boards.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return newGenericBus(bus), nil
}

func newGenericBus(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{bus: bus}
}

// SetSpeed changes the bus clock.
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	err := b.bus.SetSpeed(f)
	if err != nil {
		return fmt.Errorf("could not set bus speed to %s: %w", f, err)
	}
	return nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	trace(ctx, "read", address, buffer)
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	trace(ctx, "write", address, buffer)
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// ReadByteData reads a register in a single write-then-read transaction.
func (b *GenericBus) ReadByteData(ctx context.Context, address, register byte) (byte, error) {
	buf := []byte{0x00}
	err := b.bus.Tx(uint16(address), []byte{register}, buf)
	if err != nil {
		return 0, fmt.Errorf("could not read register %#x of %x: %w", register, address, err)
	}
	trace(ctx, "read register", address, []byte{register, buf[0]})
	return buf[0], nil
}

func (b *GenericBus) WriteByteData(ctx context.Context, address, register, value byte) error {
	return b.WriteToAddr(ctx, address, []byte{register, value})
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}

func trace(ctx context.Context, op string, address byte, data []byte) {
	if !snsctx.IsVerbose(ctx) {
		return
	}
	slog.Debug("i2c "+op, "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(data))
}
