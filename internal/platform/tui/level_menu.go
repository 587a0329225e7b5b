package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
)

// LevelMenuModel is the level picker shown before a game starts.
type LevelMenuModel struct {
	levels       []levels.Level
	cursor       int
	width        int
	height       int
	keyMapper    *KeyMapper
	theme        Theme
	selected     string
	choosing     bool
	quitting     bool
	history      bool
	scrollOffset int
}

// NewLevelMenuModel creates a level selection model.
func NewLevelMenuModel(lvls []levels.Level, width, height int) LevelMenuModel {
	return LevelMenuModel{
		levels:    lvls,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		theme:     DefaultTheme(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		if len(m.levels) == 0 {
			return m, nil
		}
		m.choosing = false
		m.selected = m.levels[m.cursor].ID
		return m, tea.Quit
	case MenuActionHistory:
		m.history = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LevelMenuModel) visibleItems() int {
	return max(3, m.height-10)
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *LevelMenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the level selection.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("B L A S T"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(m.theme.Empty.Render("No levels found.\nPoint --levels at a directory of level files."), m.width))
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.Controls.Render("Tab: History  |  Q: Quit"), m.width))
		return b.String()
	}

	b.WriteString(centerText(m.theme.MenuDescription.Render("Select a level:"), m.width))
	b.WriteString("\n\n")

	end := min(len(m.levels), m.scrollOffset+m.visibleItems())
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(centerText(m.renderItem(i), m.width))
		b.WriteString("\n")
	}
	if end < len(m.levels) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := m.theme.Controls.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: History  |  Q: Quit")
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

func (m LevelMenuModel) renderItem(i int) string {
	l := m.levels[i]
	cursor := "  "
	style := m.theme.MenuItemNormal
	if i == m.cursor {
		cursor = "> "
		style = m.theme.MenuItemActive
	}
	name := style.Render(fmt.Sprintf("%s%2d. %-18s", cursor, i+1, l.Name))
	info := m.theme.MenuDescription.Render(fmt.Sprintf(" %2dx%-2d %3d moves ", l.Width, l.Height, l.Moves))
	return name + info + m.theme.MenuGoal.Render(goalSummary(l))
}

// goalSummary lists a level's goals in a stable order.
func goalSummary(l levels.Level) string {
	parts := make([]string, 0, len(l.Goals))
	for _, k := range slices.Sorted(maps.Keys(l.Goals)) {
		parts = append(parts, fmt.Sprintf("%s %d", k, l.Goals[k]))
	}
	return strings.Join(parts, ", ")
}

// Selected returns the chosen level ID, or "" if still choosing.
func (m LevelMenuModel) Selected() string {
	if m.choosing {
		return ""
	}
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user asked for the run history.
func (m LevelMenuModel) WantsHistory() bool {
	return m.history
}

// centerText centers possibly styled text within the given width.
func centerText(text string, width int) string {
	if lipgloss.Width(text) >= width {
		return text
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
