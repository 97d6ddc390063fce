package mpu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_FIFOCount(t *testing.T) {
	sim := NewSimulator()
	dev := NewDevice(sim)
	ctx := context.Background()

	count, err := dev.FIFOCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	sim.Push(make([]Sample, 30)...)
	count, err = dev.FIFOCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 360, count)
}

func TestSimulator_ReadPastEmpty(t *testing.T) {
	sim := NewSimulator()
	sim.PushBytes(0x01)
	ctx := context.Background()

	val, err := sim.ReadByteData(ctx, DefaultAddress, regFIFORW)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), val)
	val, err = sim.ReadByteData(ctx, DefaultAddress, regFIFORW)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), val)
	assert.Equal(t, 0, sim.Buffered())
}

func TestSimulator_WrongAddress(t *testing.T) {
	sim := NewSimulator()
	_, err := sim.ReadByteData(context.Background(), AlternativeAddress, regWhoAmI)
	assert.ErrorIs(t, err, ErrNoDevice)
	err = sim.WriteByteData(context.Background(), AlternativeAddress, regConfig, 0x00)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestSimulator_Overflow(t *testing.T) {
	tests := []struct {
		name   string
		config byte
		first  byte
	}{
		{name: "overwrite oldest", config: 0x00, first: 0x02},
		{name: "block new data", config: configFIFOMode, first: 0x01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulator()
			sim.SetRegister(regConfig, tt.config)
			data := make([]byte, FIFOCapacity+1)
			data[0] = 0x01
			data[1] = 0x02
			sim.PushBytes(data...)
			assert.Equal(t, FIFOCapacity, sim.Buffered())
			val, err := sim.ReadByteData(context.Background(), DefaultAddress, regFIFORW)
			require.NoError(t, err)
			assert.Equal(t, tt.first, val)
		})
	}
}

func TestSimulator_FIFOReset(t *testing.T) {
	sim := NewSimulator()
	sim.Push(Sample{AccX: 1})
	require.NoError(t, sim.WriteByteData(context.Background(), DefaultAddress, regUserCtrl, 0b01000100))
	assert.Equal(t, 0, sim.Buffered())
	assert.Equal(t, byte(0b01000000), sim.Register(regUserCtrl))
}

func TestSimulator_Feed(t *testing.T) {
	calls := 0
	sim := NewSimulator(WithFeed(func(ctx context.Context) []byte {
		calls++
		block := Encode(Sample{AccX: calls})
		return block[:]
	}))
	dev := NewDevice(sim)
	ctx := context.Background()

	count, err := dev.FIFOCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, count)
	sample, err := dev.ReadSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sample.AccX)
	assert.Equal(t, 1, calls)
}

func TestSimulator_Failure(t *testing.T) {
	failure := errors.New("device not present")
	sim := NewSimulator(WithFailure(func(op string, register byte) error {
		if op == "write" && register == regFIFOEnable {
			return failure
		}
		return nil
	}))
	err := NewDevice(sim).Configure(context.Background())
	require.ErrorIs(t, err, failure)
	assert.Len(t, sim.Writes(), 6)
}
