package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/mpupoll/mpu"
	"github.com/mklimuk/mpupoll/snsctx"
)

func TestGenericBus_RegisterAccess(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{0x19, 0x0C}},
			{Addr: 0x68, W: []byte{0x72}, R: []byte{0x01}},
			{Addr: 0x68, W: []byte{0x73}, R: []byte{0x0C}},
		},
	}
	bus := newGenericBus(playback)
	ctx := snsctx.SetVerbose(context.Background(), true)

	require.NoError(t, bus.WriteByteData(ctx, 0x68, 0x19, 0x0C))
	high, err := bus.ReadByteData(ctx, 0x68, 0x72)
	require.NoError(t, err)
	low, err := bus.ReadByteData(ctx, 0x68, 0x73)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), high)
	assert.Equal(t, byte(0x0C), low)
	require.NoError(t, bus.Close())
}

func TestGenericBus_RawAccess(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{0x75}},
			{Addr: 0x68, R: []byte{0x70}},
		},
	}
	bus := newGenericBus(playback)
	ctx := context.Background()

	require.NoError(t, bus.WriteToAddr(ctx, 0x68, []byte{0x75}))
	buf := make([]byte, 1)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x68, buf))
	assert.Equal(t, byte(0x70), buf[0])
	require.NoError(t, bus.Release(ctx))
	require.NoError(t, bus.SetSpeed(400*physic.KiloHertz))
	require.NoError(t, bus.Close())
}

func TestGenericBus_Errors(t *testing.T) {
	bus := newGenericBus(&i2ctest.Playback{DontPanic: true})
	ctx := context.Background()

	assert.Error(t, bus.WriteByteData(ctx, 0x68, 0x19, 0x0C))
	_, err := bus.ReadByteData(ctx, 0x68, 0x72)
	assert.Error(t, err)
	assert.Error(t, bus.ReadFromAddr(ctx, 0x68, make([]byte, 1)))
}

func TestGenericBus_DrivesDevice(t *testing.T) {
	ops := []i2ctest.IO{
		{Addr: 0x68, W: []byte{0x72}, R: []byte{0x00}},
		{Addr: 0x68, W: []byte{0x73}, R: []byte{0x0C}},
	}
	data := []byte{0x00, 0x0A, 0x00, 0x14, 0x00, 0x1E, 0x00, 0x05, 0x00, 0x06, 0x00, 0x07}
	for _, b := range data {
		ops = append(ops, i2ctest.IO{Addr: 0x68, W: []byte{0x74}, R: []byte{b}})
	}
	bus := newGenericBus(&i2ctest.Playback{Ops: ops})
	dev := mpu.NewDevice(bus)
	ctx := context.Background()

	count, err := dev.FIFOCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
	sample, err := dev.ReadSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, mpu.Sample{AccX: 10, AccY: 20, AccZ: -30, GyroX: 5, GyroY: 6, GyroZ: 7}, sample)
	require.NoError(t, bus.Close())
}
