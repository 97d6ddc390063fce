package mpupoll

import (
	"context"
	"fmt"
)

var _ RegisterBus = &registerBus{}

type registerBus struct {
	bus I2CBus
}

// NewRegisterBus exposes register access on top of a raw I2CBus. A register
// write is sent as [register, value]; a read sets the register pointer first
// and then reads a single byte.
func NewRegisterBus(bus I2CBus) RegisterBus {
	return &registerBus{bus: bus}
}

func (r *registerBus) WriteByteData(ctx context.Context, address, register, value byte) error {
	err := r.bus.WriteToAddr(ctx, address, []byte{register, value})
	if err != nil {
		return fmt.Errorf("could not write register %#x: %w", register, err)
	}
	return nil
}

func (r *registerBus) ReadByteData(ctx context.Context, address, register byte) (byte, error) {
	err := r.bus.WriteToAddr(ctx, address, []byte{register})
	if err != nil {
		return 0, fmt.Errorf("could not set register pointer %#x: %w", register, err)
	}
	buf := []byte{0x00}
	err = r.bus.ReadFromAddr(ctx, address, buf)
	if err != nil {
		return 0, fmt.Errorf("could not read register %#x: %w", register, err)
	}
	return buf[0], nil
}
