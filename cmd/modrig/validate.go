package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modrig/modrig/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("no config file given, use --config")
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		excluded := cfg.Modules.ResolveExcluded(cfg.Host.Platform, cfg.Host.Mode)

		fmt.Printf("config OK\n")
		fmt.Printf("  platform:  %s\n", cfg.Host.Platform)
		fmt.Printf("  mode:      %s\n", cfg.Host.Mode)
		fmt.Printf("  excluded:  %d module(s)\n", len(excluded))
		for _, name := range excluded {
			fmt.Printf("    - %s\n", name)
		}
		fmt.Printf("  overrides: %d\n", len(cfg.Modules.Overrides))
		fmt.Printf("  journal:   %s\n", cfg.Journal.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
