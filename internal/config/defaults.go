package config

import (
	_ "embed"
)

//go:embed defaults/spikepulse.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file, used by the
// "config init" command to seed a user config.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hardcoded default configuration, the fallback of last
// resort when even the embedded YAML fails to parse.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:  80,
			Height: 24,
		},
		Renderer: RendererConfig{
			EnableEffects:   true,
			EnableParticles: true,
			CullMargin:      4,
			Optimization: OptimizationConfig{
				EnableDirtyRegions:  true,
				EnableObjectPooling: true,
				MaxParticles:        256,
			},
		},
		Layers: map[string]LayerConfig{
			"background": {ZIndex: 0, Alpha: 1.0, Visible: true, Parallax: 0.0, Static: true},
			"world":      {ZIndex: 10, Alpha: 1.0, Visible: true, Parallax: 1.0},
			"entities":   {ZIndex: 20, Alpha: 1.0, Visible: true, Parallax: 1.0},
			"ui":         {ZIndex: 100, Alpha: 1.0, Visible: true, Parallax: 0.0},
		},
		Physics: PhysicsConfig{
			Gravity:       60.0,
			JumpImpulse:   -22.0,
			MaxFallSpeed:  40.0,
			BaseSpeed:     18.0,
			DashSpeed:     45.0,
			DashDuration:  0.18,
			DashCooldown:  0.8,
			GroundOffset:  2,
			CeilingOffset: 1,
		},
		Player: PlayerConfig{
			X:      10,
			Width:  2,
			Height: 2,
		},
		Obstacles: ObstaclesConfig{
			MinWidth:     1,
			MaxWidth:     3,
			MinHeight:    2,
			MaxHeight:    5,
			MinSpacing:   28,
			MaxSpacing:   48,
			CeilingShare: 0.35,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 2000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  1.5,
				SpacingReduction: 16,
			},
		},
	}
}
