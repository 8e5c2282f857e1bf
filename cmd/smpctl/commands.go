package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Run a reference movement",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		return mod.Reference(context.Background())
	},
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the module reports its position as reached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pos, err := mod.WaitUntilPositionReached(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("position reached: %g\n", pos)

		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current motion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		return mod.Stop(context.Background())
	},
}

var ackCmd = &cobra.Command{
	Use:   "ack",
	Short: "Acknowledge the pending error message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		return mod.Ack(context.Background())
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Restart the module",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		return mod.Reboot(context.Background())
	},
}

var userCmd = &cobra.Command{
	Use:   "user [password]",
	Short: "Change the access level",
	Long: `Change the module's access level. Without a password the default
User level is selected; otherwise the password determines the level.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		password := ""
		if len(args) == 1 {
			password = args[0]
		}

		level, err := mod.ChangeUserLevel(context.Background(), password)
		if err != nil {
			return err
		}

		fmt.Printf("access level: %s\n", level)

		return nil
	},
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the communication self-tests in both directions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := mod.CheckMCPCCommunication(ctx); err != nil {
			return fmt.Errorf("module to host: %w", err)
		}
		fmt.Println("module to host: ok")

		if err := mod.CheckPCMCCommunication(ctx); err != nil {
			return fmt.Errorf("host to module: %w", err)
		}
		fmt.Println("host to module: ok")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(referenceCmd)
	rootCmd.AddCommand(waitCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(selftestCmd)
}
