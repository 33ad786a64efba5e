// Package config provides YAML-based configuration loading and the
// difficulty progression model for Spikepulse.
package config

// Config is the full game configuration.
type Config struct {
	Canvas     CanvasConfig           `yaml:"canvas"`
	Renderer   RendererConfig         `yaml:"renderer"`
	Layers     map[string]LayerConfig `yaml:"layers"`
	Physics    PhysicsConfig          `yaml:"physics"`
	Player     PlayerConfig           `yaml:"player"`
	Obstacles  ObstaclesConfig        `yaml:"obstacles"`
	Difficulty DifficultyConfig       `yaml:"difficulty"`
}

// CanvasConfig defines the drawing surface.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RendererConfig selects rendering features and optimizations.
type RendererConfig struct {
	EnableEffects   bool               `yaml:"enable_effects"`
	EnableParticles bool               `yaml:"enable_particles"`
	CullMargin      float64            `yaml:"cull_margin"`
	Optimization    OptimizationConfig `yaml:"optimization"`
}

// OptimizationConfig tunes the renderer and effects optimizations.
type OptimizationConfig struct {
	EnableDirtyRegions  bool `yaml:"enable_dirty_regions"`
	EnableObjectPooling bool `yaml:"enable_object_pooling"`
	MaxParticles        int  `yaml:"max_particles"`
}

// LayerConfig describes one render layer.
type LayerConfig struct {
	ZIndex   int     `yaml:"z_index"`
	Alpha    float64 `yaml:"alpha"`
	Visible  bool    `yaml:"visible"`
	Parallax float64 `yaml:"parallax"`
	Static   bool    `yaml:"static"`
}

// PhysicsConfig defines the movement parameters of the run.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	JumpImpulse   float64 `yaml:"jump_impulse"`
	MaxFallSpeed  float64 `yaml:"max_fall_speed"`
	BaseSpeed     float64 `yaml:"base_speed"`
	DashSpeed     float64 `yaml:"dash_speed"`
	DashDuration  float64 `yaml:"dash_duration"`
	DashCooldown  float64 `yaml:"dash_cooldown"`
	GroundOffset  int     `yaml:"ground_offset"`
	CeilingOffset int     `yaml:"ceiling_offset"`
}

// PlayerConfig defines the player's fixed screen position and size.
type PlayerConfig struct {
	X      int `yaml:"x"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ObstaclesConfig defines spike generation parameters.
type ObstaclesConfig struct {
	MinWidth   int `yaml:"min_width"`
	MaxWidth   int `yaml:"max_width"`
	MinHeight  int `yaml:"min_height"`
	MaxHeight  int `yaml:"max_height"`
	MinSpacing int `yaml:"min_spacing"`
	MaxSpacing int `yaml:"max_spacing"`
	// CeilingShare is the fraction of obstacles spawned hanging from the
	// ceiling instead of standing on the ground.
	CeilingShare float64 `yaml:"ceiling_share"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Multiplier added to scroll speed at max difficulty
	SpacingReduction int     `yaml:"spacing_reduction"` // Obstacle spacing reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset. The "fixed"
// preset disables progression entirely.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
