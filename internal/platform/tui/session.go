package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// Deps are the shared resources a session builds games from.
type Deps struct {
	Config config.BlastConfig
	Levels []levels.Level
	Store  *storage.Store // optional journal
	Logger *log.Logger
}

// NewGame creates a Blast game wired to the journal, if there is one.
func (d Deps) NewGame() *blast.Game {
	opts := blast.Options{
		Config: d.Config,
		Levels: d.Levels,
		Logger: d.Logger,
	}
	if d.Store != nil {
		opts.Journal = d.Store
	}
	return blast.New(opts)
}

func (d Deps) runSource() RunSource {
	if d.Store == nil {
		return nil
	}
	return d.Store
}

type screenMode int

const (
	modeMenu screenMode = iota
	modeGame
	modeHistory
)

// SessionModel manages the full flow in one program:
// level menu -> game -> menu, with the run history reachable from the menu.
type SessionModel struct {
	deps     Deps
	config   core.RuntimeConfig
	mode     screenMode
	menu     LevelMenuModel
	history  HistoryModel
	game     GameModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps Deps, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		deps:   deps,
		config: cfg,
		menu:   NewLevelMenuModel(deps.Levels, cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.mode {
	case modeGame:
		return m.updateGame(msg)
	case modeHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(LevelMenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsHistory():
		m.history = NewHistoryModel(m.deps.runSource(), m.config.ScreenW, m.config.ScreenH)
		m.mode = modeHistory
		return m, m.history.Init()

	case m.menu.Selected() != "":
		cfg := m.config
		cfg.StartLevel = m.menu.Selected()
		cfg.Seed = 0
		m.game = NewGameModel(m.deps.NewGame(), cfg)
		m.game.Start()
		m.mode = modeGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	if history, ok := next.(HistoryModel); ok {
		m.history = history
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.mode = modeMenu
	m.menu = NewLevelMenuModel(m.deps.Levels, m.config.ScreenW, m.config.ScreenH)
	return m, m.menu.Init()
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case modeGame:
		return m.game.View()
	case modeHistory:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu, game and history flow in a local terminal.
func RunSession(deps Deps, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(deps, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
