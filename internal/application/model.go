// Package application is the terminal browser: a search box over the cards
// of one in-memory session, ranked as the user types.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/applicants/internal/core"
)

type mode int

const (
	modeSearch mode = iota
	modeOpen
	modeMenu
)

// chromeHeight is the number of lines around the viewport: title, search
// box, banner, status and help.
const chromeHeight = 6

// ingestMsg reports a finished file load.
type ingestMsg struct {
	path   string
	result core.IngestResult
	err    error
}

type Model struct {
	ctx     context.Context
	session *core.Session

	search   textinput.Model
	path     textinput.Model
	viewport viewport.Model

	mode   mode
	menu   *Menu
	cursor int

	pending []string // files queued from the command line
	loading bool
	status  string
	err     error
	width   int
	height  int
}

// NewModel builds a browser over session that loads files in order on start.
func NewModel(ctx context.Context, session *core.Session, files ...string) *Model {
	search := textinput.New()
	search.Placeholder = "search applicants"
	search.Prompt = "> "
	search.CharLimit = 256
	search.Focus()

	path := textinput.New()
	path.Placeholder = "path/to/responses.csv"
	path.Prompt = "open: "

	return &Model{
		ctx:      ctx,
		session:  session,
		search:   search,
		path:     path,
		viewport: viewport.New(80, 20),
		menu:     buildMenu(),
		pending:  files,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.nextPending())
}

// nextPending starts loading the next queued file, if any.
func (m *Model) nextPending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	path := m.pending[0]
	m.pending = m.pending[1:]
	m.loading = true
	m.status = "loading " + path + "..."
	return ingestFile(m.ctx, m.session, path)
}

// ingestFile loads one CSV file into session off the UI goroutine.
func ingestFile(ctx context.Context, session *core.Session, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ingestMsg{path: path, err: &core.FileAccessError{Name: path, Err: err}}
		}
		defer f.Close()

		res, err := session.IngestReader(ctx, filepath.Base(path), f)
		return ingestMsg{path: path, result: res, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.search.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case ingestMsg:
		return m, m.handleIngest(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeMenu:
			return m, m.updateMenu(msg)
		case modeOpen:
			return m, m.updateOpen(msg)
		}
		return m, m.updateSearch(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleIngest(msg ingestMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		slog.Warn("ingest failed", "path", msg.path, "error", msg.err)
		return m.nextPending()
	}

	m.err = nil
	res := msg.result
	m.status = fmt.Sprintf("loaded %d applicants from %s", res.Parsed, filepath.Base(msg.path))
	if res.Skipped > 0 {
		m.status += fmt.Sprintf(" (%d rows skipped, first at line %d)", res.Skipped, res.FailedRows[0].LineNumber)
	}

	// Ingest resets the ranking to file order.
	m.search.SetValue("")
	m.refresh()
	m.viewport.GotoTop()
	return m.nextPending()
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return tea.Quit
	case "ctrl+o":
		return m.openPrompt()
	case "ctrl+k":
		m.mode = modeMenu
		m.cursor = 0
		m.search.Blur()
		return nil
	case "ctrl+u":
		return m.clearSearch()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.session.Search(q)
		m.refresh()
		m.viewport.GotoTop()
	}
	return cmd
}

func (m *Model) updateOpen(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeSearch
		m.path.Blur()
		return m.search.Focus()
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		m.mode = modeSearch
		m.path.Blur()
		focus := m.search.Focus()
		if path == "" {
			return focus
		}
		m.pending = append(m.pending, path)
		if m.loading {
			return focus
		}
		return tea.Batch(focus, m.nextPending())
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return cmd
}

func (m *Model) openPrompt() tea.Cmd {
	m.mode = modeOpen
	m.search.Blur()
	m.path.SetValue("")
	return m.path.Focus()
}

func (m *Model) clearSearch() tea.Cmd {
	if m.search.Value() == "" {
		return nil
	}
	m.search.SetValue("")
	m.session.Search("")
	m.refresh()
	m.viewport.GotoTop()
	return nil
}

// refresh redraws the card list from the session.
func (m *Model) refresh() {
	m.viewport.SetContent(renderCards(m.session.View(), m.width))
}

// renderCards lays cards out best match first. Sentinels become dividers and
// matched runes of the top card are highlighted.
func renderCards(v core.View, width int) string {
	var b strings.Builder
	divider := dividerStyle.Render(strings.Repeat("─", max(min(width, 60), 10)))

	for i, card := range v.Cards {
		if card == "" {
			b.WriteString(divider)
			b.WriteString("\n")
			continue
		}
		if i == 0 && v.Query != "" {
			b.WriteString(highlight(card, core.MatchPositions(card, v.Query)))
		} else {
			b.WriteString(card)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func highlight(card string, positions []int) string {
	if len(positions) == 0 {
		return card
	}
	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var b strings.Builder
	i := 0
	for _, r := range card {
		if matched[i] && r != '\n' {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
		i++
	}
	return b.String()
}

func (m *Model) View() string {
	if m.mode == modeMenu {
		return m.menuView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Applicants"))
	b.WriteString("\n")

	if m.mode == modeOpen {
		b.WriteString(m.path.View())
	} else {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	v := m.session.View()
	if v.Parsed {
		b.WriteString(bannerStyle.Render(fmt.Sprintf("found %d records", v.Records)))
	} else {
		b.WriteString(statusStyle.Render("no applicants loaded (ctrl+o to open a file)"))
	}
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(core.FormatUserError(m.err)))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type to search • ctrl+o open • ctrl+k commands • pgup/pgdn scroll • esc quit"))
	return b.String()
}
