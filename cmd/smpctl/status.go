package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/robomotion/go-smp/motion"
	"github.com/robomotion/go-smp/smp"
)

var watchInterval time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show position, velocity, current and the status flags",
	Long: `Query the module state once, or continuously with --watch: the
module is put into periodic reporting mode and every report is printed
until the command is interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watchInterval > 0 {
			err := mod.StreamState(ctx, watchInterval, printState)
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		}

		state, err := mod.GetState(ctx)
		if err != nil {
			return err
		}
		printState(state)

		return nil
	},
}

func printState(s motion.State) {
	fmt.Printf("position: %g  velocity: %g  current: %g  status: %s",
		s.Position, s.Velocity, s.Current, s.Status)
	if s.ErrorCode != 0 {
		fmt.Printf("  error: %s (0x%02X)", smp.ErrorCategory(s.ErrorCode), s.ErrorCode)
	}
	fmt.Println()
}

var errorCmd = &cobra.Command{
	Use:   "error",
	Short: "Show detailed information on the pending error",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		detail, err := mod.GetDetailedErrorInfo(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s (0x%02X), data %g\n",
			detail.Severity, detail.Category(), detail.Code, detail.Data)

		return nil
	},
}

func init() {
	statusCmd.Flags().DurationVar(&watchInterval, "watch", 0, "report continuously at this interval")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(errorCmd)
}
