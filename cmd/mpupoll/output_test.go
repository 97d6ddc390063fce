package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/mpupoll/config"
	"github.com/mklimuk/mpupoll/mpu"
	"github.com/mklimuk/mpupoll/poll"
)

func TestNewSink(t *testing.T) {
	tests := []struct {
		output   string
		expected interface{}
	}{
		{config.OutputLine, &lineSink{}},
		{config.OutputLog, logSink{}},
		{config.OutputYAML, &yamlSink{}},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			sink, err := newSink(tt.output, io.Discard)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, sink)
		})
	}
	_, err := newSink("xml", io.Discard)
	assert.ErrorIs(t, err, config.ErrUnknownOutput)
}

func TestLimitSink(t *testing.T) {
	var got []mpu.Sample
	cancelled := 0
	sink := &limitSink{
		next: poll.SinkFunc(func(ctx context.Context, sample mpu.Sample) error {
			got = append(got, sample)
			return nil
		}),
		limit:  2,
		cancel: func() { cancelled++ },
	}
	require.NoError(t, sink.Emit(context.Background(), mpu.Sample{AccX: 1}))
	assert.Equal(t, 0, cancelled)
	require.NoError(t, sink.Emit(context.Background(), mpu.Sample{AccX: 2}))
	assert.Equal(t, 1, cancelled)
	assert.Len(t, got, 2)
}

func TestLimitSink_Error(t *testing.T) {
	failing := errors.New("closed pipe")
	cancelled := false
	sink := &limitSink{
		next: poll.SinkFunc(func(ctx context.Context, sample mpu.Sample) error {
			return failing
		}),
		limit:  1,
		cancel: func() { cancelled = true },
	}
	assert.ErrorIs(t, sink.Emit(context.Background(), mpu.Sample{}), failing)
	assert.False(t, cancelled)
	assert.Equal(t, 0, sink.seen)
}
