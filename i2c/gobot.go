package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/mklimuk/mpupoll"
)

var _ mpupoll.RegisterBus = &GobotBus{}

// GobotAdaptor is a gobot platform adaptor exposing I2C connections.
type GobotAdaptor interface {
	i2c.Connector
	Connect() error
	Finalize() error
}

// GobotBus accesses device registers through a gobot board adaptor. One
// connection is opened per device address and kept until Close.
type GobotBus struct {
	mx      sync.Mutex
	adaptor GobotAdaptor
	bus     int
	conns   map[byte]i2c.Connection
}

// NewGobotBus connects the adaptor. A negative bus number selects the
// adaptor's default bus.
func NewGobotBus(adaptor GobotAdaptor, bus int) (*GobotBus, error) {
	err := adaptor.Connect()
	if err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	if bus < 0 {
		bus = adaptor.DefaultI2cBus()
	}
	return &GobotBus{
		adaptor: adaptor,
		bus:     bus,
		conns:   make(map[byte]i2c.Connection),
	}, nil
}

// NewNanoPiBus opens an I2C bus of a FriendlyELEC NanoPi NEO board.
func NewNanoPiBus(bus int) (*GobotBus, error) {
	return NewGobotBus(nanopi.NewNeoAdaptor(), bus)
}

// NewRaspiBus opens an I2C bus of a Raspberry Pi.
func NewRaspiBus(bus int) (*GobotBus, error) {
	return NewGobotBus(raspi.NewAdaptor(), bus)
}

func (b *GobotBus) ReadByteData(ctx context.Context, address, register byte) (byte, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return 0, err
	}
	val, err := conn.ReadByteData(register)
	if err != nil {
		return 0, fmt.Errorf("could not read register %#x of %x: %w", register, address, err)
	}
	trace(ctx, "read register", address, []byte{register, val})
	return val, nil
}

func (b *GobotBus) WriteByteData(ctx context.Context, address, register, value byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	trace(ctx, "write register", address, []byte{register, value})
	err = conn.WriteByteData(register, value)
	if err != nil {
		return fmt.Errorf("could not write register %#x of %x: %w", register, address, err)
	}
	return nil
}

// Close closes all device connections and finalizes the adaptor.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for addr, conn := range b.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close connection to %x: %w", addr, err))
		}
		delete(b.conns, addr)
	}
	if err := b.adaptor.Finalize(); err != nil {
		errs = append(errs, fmt.Errorf("adaptor finalize error: %w", err))
	}
	return errors.Join(errs...)
}

func (b *GobotBus) connection(address byte) (i2c.Connection, error) {
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.adaptor.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %x on bus %d: %w", address, b.bus, err)
	}
	b.conns[address] = conn
	return conn, nil
}
