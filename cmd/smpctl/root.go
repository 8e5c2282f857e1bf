package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/robomotion/go-smp/logger"
	"github.com/robomotion/go-smp/motion"
	"github.com/robomotion/go-smp/rs232"
)

var (
	portName    string
	baudRate    int
	moduleID    uint8
	readTimeout time.Duration
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "smpctl",
	Short: "Control a Schunk motion module over RS-232",
	Long: `Smpctl drives a Schunk motion module over a serial line.

It speaks the Schunk Motion Protocol: reference runs, absolute and
relative positioning (optionally blocking until the position is
reached), state queries, error acknowledgement and configuration
parameter access.

Connection:
  smpctl --port /dev/ttyUSB0 --id 11 [--baud 9600] <command>`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", rs232.DefaultBaudRate, "baud rate")
	rootCmd.PersistentFlags().Uint8VarP(&moduleID, "id", "i", 0x0B, "module address")
	rootCmd.PersistentFlags().DurationVar(&readTimeout, "timeout", rs232.DefaultReadTimeout, "serial read timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log frame traces")

	_ = rootCmd.MarkPersistentFlagRequired("port")
}

// newModule builds the motion module from the persistent connection
// flags.
func newModule() (*motion.Module, error) {
	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	cfg, err := rs232.NewConnectionConfig(portName, moduleID,
		rs232.WithBaudRate(baudRate),
		rs232.WithReadTimeout(readTimeout),
	)
	if err != nil {
		return nil, err
	}

	conn, err := rs232.NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	return motion.NewModule(conn), nil
}
