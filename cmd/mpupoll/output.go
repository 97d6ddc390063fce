package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/mpupoll/cmd/mpupoll/console"
	"github.com/mklimuk/mpupoll/config"
	"github.com/mklimuk/mpupoll/mpu"
	"github.com/mklimuk/mpupoll/poll"
)

// lineSink overwrites a single console line with the latest sample.
type lineSink struct {
	w io.Writer
}

func (s *lineSink) Emit(ctx context.Context, sample mpu.Sample) error {
	_, err := fmt.Fprintf(s.w, "X:%s, Y:%s, Z:%s, Xg:%s, Yg:%s, Zg:%s   \r",
		console.White(sample.AccX), console.White(sample.AccY), console.White(sample.AccZ),
		console.White(sample.GyroX), console.White(sample.GyroY), console.White(sample.GyroZ))
	return err
}

type logSink struct{}

func (logSink) Emit(ctx context.Context, sample mpu.Sample) error {
	slog.InfoContext(ctx, "sample",
		"acc_x", sample.AccX, "acc_y", sample.AccY, "acc_z", sample.AccZ,
		"gyro_x", sample.GyroX, "gyro_y", sample.GyroY, "gyro_z", sample.GyroZ)
	return nil
}

// yamlSink writes one YAML document per sample.
type yamlSink struct {
	enc *yaml.Encoder
}

func (s *yamlSink) Emit(ctx context.Context, sample mpu.Sample) error {
	return s.enc.Encode(sample)
}

func newSink(output string, w io.Writer) (poll.Sink, error) {
	switch output {
	case config.OutputLine:
		return &lineSink{w: w}, nil
	case config.OutputLog:
		return logSink{}, nil
	case config.OutputYAML:
		return &yamlSink{enc: yaml.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrUnknownOutput, output)
}

// limitSink cancels the poll once limit samples went through.
type limitSink struct {
	next   poll.Sink
	limit  int
	seen   int
	cancel context.CancelFunc
}

func (s *limitSink) Emit(ctx context.Context, sample mpu.Sample) error {
	err := s.next.Emit(ctx, sample)
	if err != nil {
		return err
	}
	s.seen++
	if s.seen >= s.limit {
		s.cancel()
	}
	return nil
}
