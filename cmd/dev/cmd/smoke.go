package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
)

// SmokeCmd runs the built poller against the simulated sensor.
func SmokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Poll the simulated sensor with the built binary",
		Long: `Run the poller against the in-memory sensor simulator.

The binary is expected in dist/, build it first:
  dev build

Examples:
  # Read 100 samples as YAML
  dev smoke --samples 100 --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := cmd.Flags().GetInt("samples")
			if err != nil {
				return fmt.Errorf("could not get samples flag: %w", err)
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("could not get output flag: %w", err)
			}
			return smoke(cmd.Context(), samples, output)
		},
	}
	cmd.Flags().Int("samples", 50, "number of samples to read")
	cmd.Flags().String("output", "log", "sample output (line, log, yaml)")
	return cmd
}

// smoke configures the simulated sensor and polls it until samples have
// been read. It fails when the binary is missing or exits non-zero.
func smoke(ctx context.Context, samples int, output string) error {
	if _, err := os.Stat(binary); err != nil {
		return fmt.Errorf("binary not found, run dev build first: %w", err)
	}
	runs := [][]string{
		{"configure", "--adapter", "sim", "--force"},
		{"poll", "--adapter", "sim", "--samples", strconv.Itoa(samples), "--output", output},
	}
	for _, args := range runs {
		slog.Info("running poller", "binary", binary, "args", args)
		poller := exec.CommandContext(ctx, binary, args...)
		poller.Stdout = os.Stdout
		poller.Stderr = os.Stderr
		if err := poller.Run(); err != nil {
			return fmt.Errorf("smoke run %q failed: %w", args[0], err)
		}
	}
	return nil
}
