package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	moveRelative bool
	moveWait     bool
)

var moveCmd = &cobra.Command{
	Use:   "move <position> [velocity [acceleration [current [jerk]]]]",
	Short: "Move the axis to a position",
	Long: `Move the axis to an absolute position, or with --relative to a
position relative to the current one. Trailing optional arguments set
velocity, acceleration, current and jerk for this move only.

With --wait the command blocks until the module reports the position
as reached. Interrupting a waiting move (Ctrl+C) sends a stop command
before exiting, so the axis never keeps moving unattended.`,
	Args: cobra.RangeArgs(1, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make([]float64, len(args))
		for i, arg := range args {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}
			values[i] = v
		}
		position, optional := values[0], values[1:]

		mod, err := newModule()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if moveWait {
			var pos float64
			if moveRelative {
				pos, err = mod.MovePosRelBlocking(ctx, position, optional...)
			} else {
				pos, err = mod.MovePosBlocking(ctx, position, optional...)
			}
			if err != nil {
				return err
			}

			fmt.Printf("position reached: %g\n", pos)

			return nil
		}

		var est float64
		if moveRelative {
			est, err = mod.MovePosRel(ctx, position, optional...)
		} else {
			est, err = mod.MovePos(ctx, position, optional...)
		}
		if err != nil {
			return err
		}

		if est > 0 {
			fmt.Printf("moving, estimated time: %gs\n", est)
		} else {
			fmt.Println("moving")
		}

		return nil
	},
}

func init() {
	moveCmd.Flags().BoolVarP(&moveRelative, "relative", "r", false, "position is relative to the current one")
	moveCmd.Flags().BoolVarP(&moveWait, "wait", "w", false, "block until the position is reached")

	rootCmd.AddCommand(moveCmd)
}
