package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"gopkg.in/yaml.v3"
)

// LegacyLevel is the flat JSON layout used by the first level pack.
// JSON is valid YAML, so the same decoder reads it.
type LegacyLevel struct {
	LevelNumber int `yaml:"level_number"`
	GridWidth   int `yaml:"grid_width"`
	GridHeight  int `yaml:"grid_height"`
	MoveCount   int `yaml:"move_count"`

	Red     int `yaml:"red"`
	Green   int `yaml:"green"`
	Yellow  int `yaml:"yellow"`
	Purple  int `yaml:"purple"`
	Blue    int `yaml:"blue"`
	Duck    int `yaml:"duck"`
	Balloon int `yaml:"balloon"`

	AllowManualBoardGeneration bool          `yaml:"allowManualBoardGeneration"`
	BoardBlocks                []LegacyBlock `yaml:"boardBlocks"`
}

// LegacyBlock is one explicitly placed block.
type LegacyBlock struct {
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	BlockType string `yaml:"blockType"`
}

// ParseLegacyJSON parses a flat JSON level file.
func ParseLegacyJSON(data []byte) (Level, error) {
	var ll LegacyLevel
	if err := yaml.Unmarshal(data, &ll); err != nil {
		return Level{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if ll.LevelNumber <= 0 {
		return Level{}, fmt.Errorf("missing level_number")
	}

	level := Level{
		ID:     levelID(ll.LevelNumber),
		Name:   fmt.Sprintf("Level %d", ll.LevelNumber),
		Number: ll.LevelNumber,
		Width:  ll.GridWidth,
		Height: ll.GridHeight,
		Moves:  ll.MoveCount,
		Goals:  make(map[core.Kind]int),
	}

	counts := []struct {
		kind core.Kind
		n    int
	}{
		{core.KindRed, ll.Red},
		{core.KindGreen, ll.Green},
		{core.KindBlue, ll.Blue},
		{core.KindYellow, ll.Yellow},
		{core.KindPurple, ll.Purple},
		{core.KindDuck, ll.Duck},
		{core.KindBalloon, ll.Balloon},
	}
	for _, c := range counts {
		if c.n > 0 {
			level.Goals[c.kind] = c.n
		}
	}

	if !ll.AllowManualBoardGeneration {
		return level, nil
	}
	for _, b := range ll.BoardBlocks {
		k, ok := core.ParseKind(b.BlockType)
		if !ok {
			level.Diagnostics = append(level.Diagnostics,
				core.Diagf(core.DiagUnknownKind, "block (%d,%d): unknown type %q", b.X, b.Y, b.BlockType))
			continue
		}
		level.Layout = append(level.Layout, core.Placement{At: core.C(b.X, b.Y), Kind: k})
	}
	return level, nil
}
