package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/spikepulse/internal/game"
	"github.com/vovakirdan/spikepulse/internal/platform/tui"
	"github.com/vovakirdan/spikepulse/internal/storage"
)

var flagPlainScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs",
	Long: `Display the best recorded runs.

Opens an interactive table when attached to a terminal; use --plain to
print a plain text listing instead.

Examples:
  spikepulse scores
  spikepulse scores --plain`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlainScores, "plain", false, "Print a plain text listing")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlainScores && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		if _, runErr := tui.RunScoreboard(store, width, height); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error showing scoreboard: %v\n", runErr)
			os.Exit(1)
		}
		return
	}

	printScores(store)
}

// printScores writes the plain text listing used outside a terminal.
func printScores(store *storage.Store) {
	runs, err := store.TopRuns(game.Mode, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Spikepulse - Best Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'spikepulse play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-10s  %s\n", "Rank", "Score", "Distance", "Date")
	fmt.Printf("  %-4s  %-10s  %-10s  %s\n", "----", "-----", "--------", "----")
	for i, entry := range runs {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-10.0f  %s\n", i+1, entry.Score, entry.Distance, dateStr)
	}

	fmt.Println()
	if high, err := store.HighScore(game.Mode); err == nil {
		fmt.Printf("Best: %d\n", high)
	}
}
