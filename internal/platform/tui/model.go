package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/game"
	"github.com/vovakirdan/spikepulse/internal/state"
	"github.com/vovakirdan/spikepulse/internal/storage"
)

// Options configures a terminal session.
type Options struct {
	Config   config.Config
	Store    *storage.Store // nil disables persistence
	Seed     int64          // 0 seeds from the clock
	TickRate int            // frames per second, 0 means 60
	Logger   *log.Logger
}

// Model is the Bubble Tea model driving one game session.
type Model struct {
	game     *game.Game
	keys     *KeyMapper
	tickRate int
	quitting bool
}

// NewModel assembles a game and wraps it in a Bubble Tea model.
func NewModel(opts Options) (Model, error) {
	g, err := game.New(game.Options{
		Config: opts.Config,
		Seed:   opts.Seed,
		Store:  opts.Store,
		Logger: opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	tickRate := opts.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	return Model{
		game:     g,
		keys:     NewKeyMapper(),
		tickRate: tickRate,
	}, nil
}

// Init moves the game to the menu and starts the frame loop.
func (m Model) Init() tea.Cmd {
	m.game.Menu()
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.game.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.BlurMsg:
		// Losing terminal focus pauses an active run.
		if m.game.States.Is(state.Playing) {
			m.game.TogglePause()
		}
		return m, nil

	case TickMsg:
		m.game.Tick(time.Time(msg))
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// Backing out of the menu leaves the program.
	if action == core.ActionBack && m.game.States.Is(state.Menu) {
		m.quitting = true
		return m, tea.Quit
	}

	if action != core.ActionNone {
		m.game.HandleAction(action)
	}
	return m, nil
}

// saveScreenshot dumps the current frame to a text file.
func (m Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".spikepulse", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("spikepulse_%s.txt", timestamp))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.game.Screen.String()), 0o600)
}

// View renders the composited frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderScreen(m.game.Screen)
}

// Run starts a terminal session and blocks until the player quits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer model.game.Destroy()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	_, err = p.Run()
	return err
}
