// Package levels provides level loading functionality for Blast.
// This package depends on core but core does not depend on levels.
package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

// Level represents a complete level definition.
type Level struct {
	ID          string
	Name        string
	Number      int
	Width       int
	Height      int
	Moves       int
	Goals       map[core.Kind]int
	Quotas      map[core.Kind]int
	Layout      []core.Placement
	Metadata    map[string]string
	Diagnostics []core.Diagnostic
	FilePath    string
}

// Spec converts the level into the resolver input. Blocker quotas fall back
// to the goal counts when the file sets none.
func (l *Level) Spec() core.LevelSpec {
	goals := make(map[core.Kind]int, len(l.Goals))
	for k, n := range l.Goals {
		goals[k] = n
	}
	var quotas map[core.Kind]int
	if l.Quotas != nil {
		quotas = make(map[core.Kind]int, len(l.Quotas))
		for k, n := range l.Quotas {
			quotas[k] = n
		}
	}
	layout := make([]core.Placement, len(l.Layout))
	copy(layout, l.Layout)

	return core.LevelSpec{
		Width:  l.Width,
		Height: l.Height,
		Moves:  l.Moves,
		Goals:  goals,
		Quotas: quotas,
		Layout: layout,
	}
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root   string
	Logger *log.Logger // optional; skipped files are reported at warn level
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by number, then ID, for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			if l.Logger != nil {
				l.Logger.Warn("skipping level file", "path", path, "err", err)
			}
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Number != levels[j].Number {
			return levels[i].Number < levels[j].Number
		}
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	return Level{
		ID:          parsed.ID,
		Name:        parsed.Name,
		Number:      parsed.Number,
		Width:       parsed.Width,
		Height:      parsed.Height,
		Moves:       parsed.Moves,
		Goals:       parsed.Goals,
		Quotas:      parsed.Quotas,
		Layout:      parsed.Layout,
		Metadata:    parsed.Metadata,
		Diagnostics: parsed.Diagnostics,
		FilePath:    path,
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in load order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".json":
		return formats.ParseLegacyJSON(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
