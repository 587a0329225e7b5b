package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the lipgloss styles used by the menus and the history view.
type Theme struct {
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuGoal        lipgloss.Style
	Controls        lipgloss.Style

	Panel      lipgloss.Style
	Empty      lipgloss.Style
	OutcomeWin lipgloss.Style
	OutcomeBad lipgloss.Style

	TableBorder     lipgloss.Color
	TableSelectedFg lipgloss.Color
	TableSelectedBg lipgloss.Color
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuGoal:        lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		Controls:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Empty:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
		OutcomeWin: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		OutcomeBad: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		TableBorder:     lipgloss.Color("240"),
		TableSelectedFg: lipgloss.Color("229"),
		TableSelectedBg: lipgloss.Color("57"),
	}
}

// TableStyles returns bubbles table styles derived from the theme.
func (t Theme) TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.TableBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(t.TableSelectedFg).
		Background(t.TableSelectedBg).
		Bold(false)
	return s
}
