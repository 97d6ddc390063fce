package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// TestCmd runs the unit tests. With --smoke the built binary is polled
// against the simulated sensor afterwards.
func TestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run unit tests, optionally followed by a simulator smoke run",
		RunE: func(cmd *cobra.Command, args []string) error {
			withSmoke, err := cmd.Flags().GetBool("smoke")
			if err != nil {
				return fmt.Errorf("could not get smoke flag: %w", err)
			}
			err = test.Test()
			if err != nil {
				return fmt.Errorf("unit tests failed: %w", err)
			}
			if !withSmoke {
				return nil
			}
			return smoke(cmd.Context(), 20, "yaml")
		},
	}
	cmd.Flags().Bool("smoke", false, "poll the simulated sensor with the built binary after the tests")
	return cmd
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Lint the driver, poller and CLI packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}
			slog.Info("lint passed")
			return nil
		},
	}
}

// IntegrationTestCmd runs the integration suite and then a short poll of the
// simulated sensor so that the CLI wiring is exercised end to end.
func IntegrationTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Run integration tests and a simulator smoke run",
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := cmd.Flags().GetInt("samples")
			if err != nil {
				return fmt.Errorf("could not get samples flag: %w", err)
			}
			err = test.Integ()
			if err != nil {
				return fmt.Errorf("integration tests failed: %w", err)
			}
			return smoke(cmd.Context(), samples, "log")
		},
	}
	cmd.Flags().Int("samples", 100, "number of samples read from the simulator")
	return cmd
}
