// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

// Level represents a parsed level ready for use.
type Level struct {
	ID          string
	Name        string
	Number      int
	Width       int
	Height      int
	Moves       int
	Goals       map[core.Kind]int
	Quotas      map[core.Kind]int // nil when the file does not set quotas
	Layout      []core.Placement
	Metadata    map[string]string
	Diagnostics []core.Diagnostic
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// parseCounts converts a kind-name map into kind counts, reporting unknown names.
func parseCounts(in map[string]int, what string, diags *[]core.Diagnostic) map[core.Kind]int {
	if in == nil {
		return nil
	}
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[core.Kind]int, len(in))
	for _, name := range names {
		k, ok := core.ParseKind(name)
		if !ok {
			*diags = append(*diags, core.Diagf(core.DiagUnknownKind, "%s: unknown kind %q", what, name))
			continue
		}
		out[k] += in[name]
	}
	return out
}

func levelID(number int) string {
	return fmt.Sprintf("level-%02d", number)
}
