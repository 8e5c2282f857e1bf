package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robomotion/go-smp/motion"
	"github.com/robomotion/go-smp/smp"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration parameters",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known parameter names",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range motion.ParameterNames() {
			fmt.Println(name)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Read one parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		name := args[0]
		value, err := mod.GetParam(context.Background(), name)
		if err != nil {
			return err
		}

		fmt.Println(formatParam(name, value))

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Write one parameter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseParamValue(args[1])
		if err != nil {
			return err
		}

		mod, err := newModule()
		if err != nil {
			return err
		}

		return mod.SetParam(context.Background(), args[0], value)
	},
}

var configIdentCmd = &cobra.Command{
	Use:   "ident",
	Short: "Show the module identification block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := newModule()
		if err != nil {
			return err
		}

		ident, err := mod.Identify(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("module type:      %s\n", ident.ModuleType)
		fmt.Printf("order number:     %d\n", ident.OrderNumber)
		fmt.Printf("firmware version: %d\n", ident.FirmwareVersion)
		fmt.Printf("protocol version: %d\n", ident.ProtocolVersion)
		fmt.Printf("hardware version: %d\n", ident.HardwareVersion)
		fmt.Printf("firmware date:    %s\n", ident.FirmwareDate)

		return nil
	},
}

// formatParam renders a parameter value, decoding the enum parameters
// to their manual names.
func formatParam(name string, value smp.Value) string {
	switch name {
	case "communication_mode":
		return motion.CommunicationModeName(value.(byte))
	case "unit_system":
		return motion.UnitSystemName(value.(byte))
	}

	if b, ok := value.([]byte); ok {
		return fmt.Sprintf("% X", b)
	}

	return fmt.Sprintf("%v", value)
}

// parseParamValue parses a command line value: a float when it has a
// decimal point, an unsigned integer otherwise.
func parseParamValue(s string) (smp.Value, error) {
	if !strings.HasPrefix(s, "0x") && strings.ContainsAny(s, ".eE") {
		return strconv.ParseFloat(s, 64)
	}

	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return nil, err
	}

	return int(n), nil
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configIdentCmd)

	rootCmd.AddCommand(configCmd)
}
