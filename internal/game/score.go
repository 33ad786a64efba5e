package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
	"github.com/vovakirdan/spikepulse/internal/storage"
)

// Mode is the run variant recorded with every score.
const Mode = "classic"

// ScorePayload is the payload of "score:updated" events.
type ScorePayload struct {
	Score     int
	Distance  float64
	HighScore int
}

// Score tracks distance traveled as the run score, keeps the HUD readout
// current, and persists finished runs.
type Score struct {
	bus    *events.Bus
	states *state.Manager
	store  *storage.Store // nil disables persistence
	logger *log.Logger

	distance float64
	score    int
	high     int
	saved    bool

	hud *render.Object
}

// NewScore creates the score module. A nil store keeps scoring in-memory
// only.
func NewScore(store *storage.Store) *Score {
	return &Score{store: store}
}

func (s *Score) Name() string { return "score" }

func (s *Score) Init(ctx *engine.Context) error {
	s.bus = ctx.Bus
	s.states = ctx.States
	s.logger = ctx.Logger

	if s.store != nil {
		high, err := s.store.HighScore(Mode)
		if err != nil {
			return fmt.Errorf("score: loading high score: %w", err)
		}
		s.high = high
	}

	s.hud = render.NewObject("score-hud", render.KindText)
	s.hud.X, s.hud.Y = 2, 0
	s.hud.Color = core.ColorBrightWhite
	s.hud.ZIndex = 100
	s.refreshHUD()
	s.bus.Emit("renderer:add-object", render.AddObjectPayload{
		Layer: render.LayerUI, Object: s.hud,
	})

	s.bus.OnOwned("player:updated", func(ev events.Event) {
		if ps, ok := ev.Payload.(PlayerState); ok {
			s.distance = ps.X
		}
	}, s)
	return nil
}

// OnStateChange resets on run start and saves the finished run on game
// over.
func (s *Score) OnStateChange(from, to string, data any) {
	switch {
	case to == state.Playing && from != state.Paused:
		s.distance = 0
		s.score = 0
		s.saved = false
		s.refreshHUD()
	case to == state.GameOver:
		s.saveRun()
	}
}

// Update converts distance to score and publishes changes.
func (s *Score) Update(dt float64) {
	if !s.states.Is(state.Playing) {
		return
	}

	score := int(s.distance)
	if score == s.score {
		return
	}
	s.score = score
	if s.score > s.high {
		s.high = s.score
	}
	s.refreshHUD()
	s.bus.Emit("score:updated", ScorePayload{
		Score:     s.score,
		Distance:  s.distance,
		HighScore: s.high,
	})
}

func (s *Score) saveRun() {
	if s.saved {
		return
	}
	s.saved = true
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveRun(Mode, s.score, s.distance); err != nil && s.logger != nil {
		s.logger.Error("saving run", "error", err)
	}
}

func (s *Score) refreshHUD() {
	s.hud.Text = fmt.Sprintf(" SCORE %05d   HI %05d ", s.score, s.high)
}

// Current returns the live score.
func (s *Score) Current() int {
	return s.score
}

// HighScore returns the best score seen this session, including the
// persisted one loaded at startup.
func (s *Score) HighScore() int {
	return s.high
}

// Destroy drops the module's bus subscriptions.
func (s *Score) Destroy() {
	s.bus.OffOwner(s)
}
