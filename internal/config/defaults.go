package config

import (
	_ "embed"
)

//go:embed defaults/blast.yaml
var defaultBlastYAML []byte

// DefaultBlastConfig returns the default Blast configuration.
func DefaultBlastConfig() BlastConfig {
	return BlastConfig{
		Board: BoardConfig{
			MinSize: 4,
			MaxSize: 12,
		},
		Rules: RulesConfig{
			SpecialThreshold: 5,
		},
		Generation: GenerationConfig{
			OverflowChance: 0.15,
		},
		Presentation: PresentationConfig{
			FallTicks:     6,
			PopTicks:      4,
			EndDelayTicks: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
		LevelsDir: "levels",
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBlastYAML
}
