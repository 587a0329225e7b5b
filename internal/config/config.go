// Package config provides YAML-based configuration loading for Blast.
package config

// BlastConfig contains all configuration for the Blast game.
type BlastConfig struct {
	Board        BoardConfig        `yaml:"board"`
	Rules        RulesConfig        `yaml:"rules"`
	Generation   GenerationConfig   `yaml:"generation"`
	Presentation PresentationConfig `yaml:"presentation"`
	Log          LogConfig          `yaml:"log"`
	LevelsDir    string             `yaml:"levels_dir"`
}

// BoardConfig bounds the board size a level may request.
type BoardConfig struct {
	MinSize int `yaml:"min_size"`
	MaxSize int `yaml:"max_size"`
}

// RulesConfig defines the special tile rules.
type RulesConfig struct {
	SpecialThreshold int `yaml:"special_threshold"` // group size that spawns a rocket
}

// GenerationConfig defines refill parameters.
type GenerationConfig struct {
	OverflowChance float64 `yaml:"overflow_chance"` // 0.0 - 1.0
}

// PresentationConfig defines animation timing in ticks.
type PresentationConfig struct {
	FallTicks     int `yaml:"fall_ticks"`
	PopTicks      int `yaml:"pop_ticks"`
	EndDelayTicks int `yaml:"end_delay_ticks"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate clamps values that would break the game into a usable range.
func (c *BlastConfig) Validate() {
	c.Board.MinSize = clampInt(c.Board.MinSize, 1, 64)
	c.Board.MaxSize = clampInt(c.Board.MaxSize, c.Board.MinSize, 64)
	if c.Rules.SpecialThreshold < 2 {
		c.Rules.SpecialThreshold = 2
	}
	c.Generation.OverflowChance = clampFloat(c.Generation.OverflowChance, 0, 1)
	c.Presentation.FallTicks = clampInt(c.Presentation.FallTicks, 0, 120)
	c.Presentation.PopTicks = clampInt(c.Presentation.PopTicks, 0, 120)
	c.Presentation.EndDelayTicks = clampInt(c.Presentation.EndDelayTicks, 0, 600)
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "info"
	}
	if c.LevelsDir == "" {
		c.LevelsDir = "levels"
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
