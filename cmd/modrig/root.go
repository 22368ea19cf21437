package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modrig",
	Short: "Module-lifecycle orchestrator for engine runtimes",
	Long: `modrig discovers registered engine modules, loads them in a
deterministic dependency-respecting order, forwards engine lifecycle
events to them and tears everything down cleanly.

Quick start:
  modrig run        # Run the host simulator with the built-in modules
  modrig validate   # Validate a configuration file`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: environment variables)")
}

func main() {
	Execute()
}
