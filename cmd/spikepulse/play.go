package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikepulse/internal/platform/tui"
	"github.com/vovakirdan/spikepulse/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the current terminal",
	Long: `Start a run in the current terminal.

Controls:
  Space/W/Up - Jump
  D/X/Right  - Dash
  G/S/Down   - Flip gravity
  P          - Pause
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  spikepulse play
  spikepulse play --difficulty easy
  spikepulse play --config ./my-spikepulse.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the run still works
		store = nil
	}

	// An explicit --difficulty becomes the remembered default; without it,
	// the last choice is reused.
	difficulty := flagDifficulty
	if store != nil {
		if difficulty == "" {
			if v, ok := store.GetSetting("difficulty", "").(string); ok {
				difficulty = v
			}
		} else {
			//nolint:errcheck // Best-effort preference save
			store.SetSetting("difficulty", difficulty)
		}
	}

	cfg, err := loadGameConfig(flagConfig, difficulty)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(tui.Options{
		Config:   cfg,
		Store:    store,
		Seed:     flagSeed,
		TickRate: flagFPS,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
