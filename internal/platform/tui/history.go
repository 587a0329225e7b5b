package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blast/internal/storage"
)

const maxRuns = 200

// RunSource lists recorded runs, newest first.
type RunSource interface {
	RecentRuns(limit int) ([]storage.Run, error)
}

var _ RunSource = (*storage.Store)(nil)

// HistoryKeyMap defines the key bindings for the history view.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.PrevFilter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next level"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel shows recorded runs in a table, filterable by level.
type HistoryModel struct {
	runs      []storage.Run
	filters   []string // "" means all levels
	filter    int
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	theme     Theme
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel loads recent runs from src. A nil source shows an empty table.
func NewHistoryModel(src RunSource, width, height int) HistoryModel {
	m := HistoryModel{
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		theme:  DefaultTheme(),
		width:  width,
		height: height,
	}
	if src != nil {
		m.runs, m.loadErr = src.RecentRuns(maxRuns)
	}
	m.filters = runFilters(m.runs)
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// runFilters returns "" followed by every level ID in first-seen order.
func runFilters(runs []storage.Run) []string {
	filters := []string{""}
	seen := make(map[string]bool)
	for _, r := range runs {
		if !seen[r.LevelID] {
			seen[r.LevelID] = true
			filters = append(filters, r.LevelID)
		}
	}
	return filters
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 10},
		{Title: "Level", Width: 12},
		{Title: "Outcome", Width: 13},
		{Title: "Taps", Width: 5},
		{Title: "Moves", Width: 6},
		{Title: "Seed", Width: 20},
		{Title: "Date", Width: 13},
	}
	// Drop the seed column on narrow terminals.
	if m.width < 96 {
		columns = append(columns[:5], columns[6])
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
	)
	t.SetStyles(m.theme.TableStyles())
	return t
}

func (m *HistoryModel) visibleRuns() []storage.Run {
	want := m.filters[m.filter]
	if want == "" {
		return m.runs
	}
	var out []storage.Run
	for _, r := range m.runs {
		if r.LevelID == want {
			out = append(out, r)
		}
	}
	return out
}

func (m *HistoryModel) updateTableRows() {
	wide := len(m.table.Columns()) == 7
	runs := m.visibleRuns()
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		row := table.Row{
			shortID(r.ID),
			r.LevelID,
			r.Outcome,
			fmt.Sprintf("%d", r.Taps),
			fmt.Sprintf("%d", r.Moves),
		}
		if wide {
			row = append(row, fmt.Sprintf("%d", r.Seed))
		}
		rows[i] = append(row, r.CreatedAt.Format("Jan 02 15:04"))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(m.filters)
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = (m.filter - 1 + len(m.filters)) % len(m.filters)
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "RUN HISTORY"
	if f := m.filters[m.filter]; f != "" {
		title += " - " + f
	}

	parts := []string{
		centerText(m.theme.MenuTitle.Render(title), m.width),
		"",
		centerText(m.theme.Panel.Render(m.renderTableContent()), m.width),
	}
	if summary := m.summary(); summary != "" {
		parts = append(parts, centerText(m.theme.MenuDescription.Render(summary), m.width))
	}
	parts = append(parts, m.theme.Controls.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m HistoryModel) renderTableContent() string {
	if m.loadErr != nil {
		return m.theme.OutcomeBad.Render("Could not load runs: " + m.loadErr.Error())
	}
	if len(m.visibleRuns()) == 0 {
		return m.theme.Empty.Render("No runs recorded yet.\nPlay a level to start the journal!")
	}
	return m.table.View()
}

// summary counts outcomes of the visible runs.
func (m HistoryModel) summary() string {
	runs := m.visibleRuns()
	if len(runs) == 0 {
		return ""
	}
	won := 0
	for _, r := range runs {
		if r.Outcome == storage.OutcomeCompleted {
			won++
		}
	}
	return fmt.Sprintf("%d runs, %d completed", len(runs), won)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen in its own program.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(src RunSource, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewHistoryModel(src, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
