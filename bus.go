// Package mpupoll holds the bus contracts shared by the sensor driver and
// the bus implementations.
package mpupoll

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus moves raw buffers to and from a device address.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// RegisterBus reads and writes single byte-wide registers of a device.
type RegisterBus interface {
	ReadByteData(ctx context.Context, address, register byte) (byte, error)
	WriteByteData(ctx context.Context, address, register, value byte) error
}
