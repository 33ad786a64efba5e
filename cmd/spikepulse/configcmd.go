package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikepulse/internal/config"
)

var (
	flagInitPath  string
	flagInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the game configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file for editing",
	Long: `Write the built-in default configuration to the user config path
(~/.spikepulse/configs/spikepulse.yaml) so it can be edited. The play
and serve commands pick it up automatically.

Examples:
  spikepulse config init
  spikepulse config init --path ./configs/spikepulse.yaml
  spikepulse config init --force`,
	Args: cobra.NoArgs,
	Run:  runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&flagInitPath, "path", "", "Destination file (default: user config path)")
	configInitCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) {
	path := flagInitPath
	if path == "" {
		path = config.UserConfigPath()
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot resolve the user config path; pass --path")
		os.Exit(1)
	}

	if _, err := os.Stat(path); err == nil && !flagInitForce {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, config.DefaultYAML(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote default config to %s\n", path)
}
