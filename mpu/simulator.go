package mpu

import (
	"context"
	"errors"
	"sync"

	"github.com/mklimuk/mpupoll"
)

var _ mpupoll.RegisterBus = &Simulator{}

// ErrNoDevice is returned by the simulator for transactions addressed to a
// device it does not emulate.
var ErrNoDevice = errors.New("sim: no device at address")

// FIFOCapacity is the size of the simulated FIFO in bytes.
const FIFOCapacity = 1024

const (
	configFIFOMode  = 0b01000000
	userCtrlFIFORst = 0b00000100
	whoAmIMPU6500   = 0x70
)

// FeedFunc produces bytes to push into the simulated FIFO. It is called on
// every FIFO count read.
type FeedFunc func(ctx context.Context) []byte

// FailureFunc decides whether a transaction fails. op is "read" or "write".
type FailureFunc func(op string, register byte) error

// Simulator emulates the register file and FIFO of a motion sensor so that
// the poller can run without hardware.
//
// Example usage:
//
//	sim := NewSimulator()
//	sim.Push(Sample{AccX: 10, AccY: 20, AccZ: -30})
//	dev := NewDevice(sim)
type Simulator struct {
	mx        sync.Mutex
	address   byte
	registers [256]byte
	fifo      []byte
	feed      FeedFunc
	failure   FailureFunc
	writes    []RegisterWrite
}

type SimulatorOpts struct {
	Address byte
	WhoAmI  byte
	Feed    FeedFunc
	Failure FailureFunc
}

type SimulatorOpt func(*SimulatorOpts)

func WithSimulatedAddress(address byte) SimulatorOpt {
	return func(o *SimulatorOpts) {
		o.Address = address
	}
}

func WithWhoAmI(value byte) SimulatorOpt {
	return func(o *SimulatorOpts) {
		o.WhoAmI = value
	}
}

func WithFeed(feed FeedFunc) SimulatorOpt {
	return func(o *SimulatorOpts) {
		o.Feed = feed
	}
}

func WithFailure(failure FailureFunc) SimulatorOpt {
	return func(o *SimulatorOpts) {
		o.Failure = failure
	}
}

func NewSimulator(opts ...SimulatorOpt) *Simulator {
	o := &SimulatorOpts{
		Address: DefaultAddress,
		WhoAmI:  whoAmIMPU6500,
	}
	for _, opt := range opts {
		opt(o)
	}
	s := &Simulator{
		address: o.Address,
		feed:    o.Feed,
		failure: o.Failure,
	}
	s.registers[regWhoAmI] = o.WhoAmI
	return s
}

// Push appends encoded samples to the FIFO.
func (s *Simulator) Push(samples ...Sample) {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, sample := range samples {
		block := Encode(sample)
		s.push(block[:])
	}
}

// PushBytes appends raw bytes to the FIFO.
func (s *Simulator) PushBytes(data ...byte) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.push(data)
}

// SetRegister sets a register value without recording a write.
func (s *Simulator) SetRegister(register, value byte) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.registers[register] = value
}

// Register returns the current value of a register.
func (s *Simulator) Register(register byte) byte {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.registers[register]
}

// Writes returns the register writes received so far, in order.
func (s *Simulator) Writes() []RegisterWrite {
	s.mx.Lock()
	defer s.mx.Unlock()
	res := make([]RegisterWrite, len(s.writes))
	copy(res, s.writes)
	return res
}

// Buffered returns the number of bytes in the FIFO.
func (s *Simulator) Buffered() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.fifo)
}

func (s *Simulator) WriteByteData(ctx context.Context, address, register, value byte) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if err := s.check(address, "write", register); err != nil {
		return err
	}
	s.writes = append(s.writes, RegisterWrite{Register: register, Value: value})
	if register == regUserCtrl && value&userCtrlFIFORst > 0 {
		s.fifo = s.fifo[:0]
		value &^= userCtrlFIFORst
	}
	s.registers[register] = value
	return nil
}

func (s *Simulator) ReadByteData(ctx context.Context, address, register byte) (byte, error) {
	s.mx.Lock()
	if err := s.check(address, "read", register); err != nil {
		s.mx.Unlock()
		return 0, err
	}
	feed := s.feed
	s.mx.Unlock()

	// the feed runs unlocked so that it may call Push
	if register == regFIFOCountH && feed != nil {
		data := feed(ctx)
		s.PushBytes(data...)
	}

	s.mx.Lock()
	defer s.mx.Unlock()
	switch register {
	case regFIFOCountH:
		return byte(len(s.fifo) >> 8), nil
	case regFIFOCountL:
		return byte(len(s.fifo)), nil
	case regFIFORW:
		if len(s.fifo) == 0 {
			return 0, nil
		}
		val := s.fifo[0]
		s.fifo = s.fifo[1:]
		return val, nil
	}
	return s.registers[register], nil
}

// Close is a no-op so that the simulator can stand in for real buses.
func (s *Simulator) Close() error {
	return nil
}

func (s *Simulator) check(address byte, op string, register byte) error {
	if address != s.address {
		return ErrNoDevice
	}
	if s.failure != nil {
		return s.failure(op, register)
	}
	return nil
}

func (s *Simulator) push(data []byte) {
	for _, b := range data {
		if len(s.fifo) >= FIFOCapacity {
			if s.registers[regConfig]&configFIFOMode > 0 {
				// FIFO_MODE set: new data is dropped once full
				return
			}
			s.fifo = s.fifo[1:]
		}
		s.fifo = append(s.fifo, b)
	}
}

// Encode is the inverse of Decode.
func Encode(s Sample) [BlockSize]byte {
	var block [BlockSize]byte
	values := []int16{int16(s.AccX), int16(s.AccY), int16(-s.AccZ), int16(s.GyroX), int16(s.GyroY), int16(s.GyroZ)}
	for i, v := range values {
		block[2*i] = byte(uint16(v) >> 8)
		block[2*i+1] = byte(uint16(v))
	}
	return block
}
