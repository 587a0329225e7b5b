package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Presentation ticks per second
	Seed     int64 // RNG seed; 0 means the platform picks one from the clock

	// StartLevel selects the first level by ID. Empty starts at the first one.
	StartLevel string
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the status a game reports to the platform after each tick.
type GameState struct {
	Score     int
	Level     string
	MovesLeft int
	Won       bool // Current level completed
	GameOver  bool // Current level finished, won or lost
	Paused    bool
	Busy      bool // A cascade is still being presented
}

// StepResult is returned by Game.Step() after each tick.
type StepResult struct {
	State GameState
}
