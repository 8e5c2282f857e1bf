// Smpctl is a command line tool for driving a Schunk motion module
// over RS-232: reference runs, positioning moves, state queries and
// configuration access.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
