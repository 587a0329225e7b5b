package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Number   int               `yaml:"number"`
	Size     YAMLSize          `yaml:"size"`
	Moves    int               `yaml:"moves"`
	Goals    map[string]int    `yaml:"goals"`
	Quotas   map[string]int    `yaml:"quotas,omitempty"`
	Rows     []string          `yaml:"rows,omitempty"` // top row first
	Layout   []YAMLTile        `yaml:"layout,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLTile represents a single explicitly placed tile.
type YAMLTile struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Kind   string `yaml:"kind"`
	Orient string `yaml:"orient,omitempty"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	level := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Number:   yl.Number,
		Width:    yl.Size.W,
		Height:   yl.Size.H,
		Moves:    yl.Moves,
		Metadata: yl.Metadata,
	}
	if level.ID == "" {
		if level.Number <= 0 {
			return Level{}, fmt.Errorf("level has neither id nor number")
		}
		level.ID = levelID(level.Number)
	}
	if level.Name == "" {
		level.Name = level.ID
	}

	level.Goals = parseCounts(yl.Goals, "goals", &level.Diagnostics)
	level.Quotas = parseCounts(yl.Quotas, "quotas", &level.Diagnostics)

	if len(yl.Rows) > 0 {
		w, h, layout, err := core.ParseRows(yl.Rows...)
		if err != nil {
			return Level{}, fmt.Errorf("rows: %w", err)
		}
		if level.Width == 0 && level.Height == 0 {
			level.Width, level.Height = w, h
		}
		// rows are anchored to the bottom-left corner of the board
		level.Layout = append(level.Layout, layout...)
	}

	for _, t := range yl.Layout {
		k, ok := core.ParseKind(t.Kind)
		if !ok {
			level.Diagnostics = append(level.Diagnostics,
				core.Diagf(core.DiagUnknownKind, "layout (%d,%d): unknown kind %q", t.X, t.Y, t.Kind))
			continue // Skip invalid kinds
		}
		p := core.Placement{At: core.C(t.X, t.Y), Kind: k}
		if t.Orient != "" {
			o, ok := core.ParseOrientation(t.Orient)
			if !ok {
				level.Diagnostics = append(level.Diagnostics,
					core.Diagf(core.DiagUnknownKind, "layout (%d,%d): unknown orientation %q", t.X, t.Y, t.Orient))
			}
			p.Orientation = o
		}
		level.Layout = append(level.Layout, p)
	}

	return level, nil
}
