// spikepulse is a terminal side-scrolling runner: jump, dash and flip
// gravity to thread an endless spike field.
//
// Usage:
//
//	spikepulse play           - Play in the current terminal
//	spikepulse serve          - Start SSH server for remote play
//	spikepulse scores         - Show the best runs
//	spikepulse version        - Print the version
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.spikepulse/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikepulse/internal/config"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spikepulse",
	Short: "Spikepulse - a gravity-flipping runner for your terminal",
	Long: `Spikepulse is a terminal runner. The pulse never stops: jump over
ground spikes, dash through gaps, and flip gravity to run along the
ceiling when the floor gets crowded.

Available commands:
  play     - Play in the current terminal
  serve    - Start SSH server for remote play
  scores   - View the best runs

Examples:
  spikepulse play
  spikepulse play --difficulty hard
  spikepulse serve --ssh :2222
  spikepulse scores`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.spikepulse/scores.db", "Path to scores database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadGameConfig resolves the game configuration from the flag-supplied
// path and applies the requested difficulty preset.
func loadGameConfig(path, difficulty string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if difficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(difficulty))
	}
	return cfg, nil
}
