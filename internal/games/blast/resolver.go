package blast

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

// NewResolver builds a resolver with the configured rules and a random
// source seeded from seed. The same config and seed always produce the same
// boards, which is what replays rely on.
func NewResolver(cfg config.BlastConfig, seed int64, logger *log.Logger) *core.Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts := core.DefaultOptions()
	opts.Rules = core.Rules{SpecialThreshold: cfg.Rules.SpecialThreshold}
	opts.OverflowChance = cfg.Generation.OverflowChance
	opts.MinSize = cfg.Board.MinSize
	opts.MaxSize = cfg.Board.MaxSize
	opts.Rand = rand.New(rand.NewSource(seed))
	opts.Logger = logger
	return core.NewResolver(opts)
}
