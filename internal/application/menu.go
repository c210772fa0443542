package application

import (
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	COMMAND MENU
---------------------------------------- */

type MenuItem struct {
	Label  string
	Key    string // shortcut shown next to the label
	Action func(m *Model) tea.Cmd
}

type Menu struct {
	Title string
	Items []MenuItem
}

func buildMenu() *Menu {
	return &Menu{
		Title: "Commands",
		Items: []MenuItem{
			{Label: "Load another file", Key: "ctrl+o", Action: func(m *Model) tea.Cmd {
				return m.openPrompt()
			}},
			{Label: "Clear search", Key: "ctrl+u", Action: func(m *Model) tea.Cmd {
				return m.clearSearch()
			}},
			{Label: "Jump to top", Key: "home", Action: func(m *Model) tea.Cmd {
				m.viewport.GotoTop()
				return nil
			}},
			{Label: "Quit", Key: "ctrl+c", Action: func(m *Model) tea.Cmd {
				return tea.Quit
			}},
		},
	}
}

/* ----------------------------------------
	MENU NAVIGATION
---------------------------------------- */

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc", "ctrl+k":
		m.mode = modeSearch
		return m.search.Focus()
	case "enter":
		item := m.menu.Items[m.cursor]
		m.mode = modeSearch
		focus := m.search.Focus()
		if item.Action == nil {
			return focus
		}
		return tea.Batch(focus, item.Action(m))
	}
	return nil
}

func (m *Model) menuView() string {
	s := titleStyle.Render(m.menu.Title) + "\n\n"
	for i, item := range m.menu.Items {
		line := item.Label
		if item.Key != "" {
			line += "  " + helpStyle.Render(item.Key)
		}
		if i == m.cursor {
			s += selectedStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}
	return s + "\n" + helpStyle.Render("↑/↓ move • enter select • esc back")
}
