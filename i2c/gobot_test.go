package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/mpupoll/mpu"
)

type MockAdaptor struct {
	mock.Mock
}

func (m *MockAdaptor) GetI2cConnection(address int, busNr int) (i2c.Connection, error) {
	args := m.Called(address, busNr)
	conn, _ := args.Get(0).(i2c.Connection)
	return conn, args.Error(1)
}

func (m *MockAdaptor) DefaultI2cBus() int {
	return m.Called().Int(0)
}

func (m *MockAdaptor) Connect() error {
	return m.Called().Error(0)
}

func (m *MockAdaptor) Finalize() error {
	return m.Called().Error(0)
}

// fakeConnection backs the register calls with the simulator. Methods the
// bus does not use are left to the embedded nil interface.
type fakeConnection struct {
	i2c.Connection
	sim     *mpu.Simulator
	address byte
	closed  bool
}

func (c *fakeConnection) ReadByteData(reg uint8) (uint8, error) {
	return c.sim.ReadByteData(context.Background(), c.address, reg)
}

func (c *fakeConnection) WriteByteData(reg uint8, val uint8) error {
	return c.sim.WriteByteData(context.Background(), c.address, reg, val)
}

func (c *fakeConnection) Close() error {
	c.closed = true
	return nil
}

func TestGobotBus_Device(t *testing.T) {
	sim := mpu.NewSimulator()
	conn := &fakeConnection{sim: sim, address: mpu.DefaultAddress}
	adaptor := new(MockAdaptor)
	adaptor.On("Connect").Return(nil).Once()
	adaptor.On("DefaultI2cBus").Return(2).Once()
	adaptor.On("GetI2cConnection", mpu.DefaultAddress, 2).Return(conn, nil).Once()
	adaptor.On("Finalize").Return(nil).Once()

	bus, err := NewGobotBus(adaptor, -1)
	require.NoError(t, err)
	dev := mpu.NewDevice(bus)
	ctx := context.Background()

	require.NoError(t, dev.Configure(ctx))
	sim.Push(mpu.Sample{AccX: 10, AccY: 20, AccZ: -30, GyroX: 5, GyroY: 6, GyroZ: 7})
	count, err := dev.FIFOCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, mpu.BlockSize, count)
	sample, err := dev.ReadSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, mpu.Sample{AccX: 10, AccY: 20, AccZ: -30, GyroX: 5, GyroY: 6, GyroZ: 7}, sample)
	assert.Len(t, sim.Writes(), 7)

	require.NoError(t, bus.Close())
	assert.True(t, conn.closed)
	adaptor.AssertExpectations(t)
}

func TestGobotBus_Errors(t *testing.T) {
	failure := errors.New("no such bus")

	adaptor := new(MockAdaptor)
	adaptor.On("Connect").Return(failure).Once()
	_, err := NewGobotBus(adaptor, 1)
	assert.ErrorIs(t, err, failure)

	adaptor = new(MockAdaptor)
	adaptor.On("Connect").Return(nil).Once()
	adaptor.On("GetI2cConnection", mpu.DefaultAddress, 1).Return(nil, failure).Twice()
	bus, err := NewGobotBus(adaptor, 1)
	require.NoError(t, err)
	_, err = bus.ReadByteData(context.Background(), mpu.DefaultAddress, 0x75)
	assert.ErrorIs(t, err, failure)
	err = bus.WriteByteData(context.Background(), mpu.DefaultAddress, 0x19, 0x0C)
	assert.ErrorIs(t, err, failure)
	adaptor.AssertExpectations(t)
}
