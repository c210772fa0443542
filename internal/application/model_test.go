package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/applicants/internal/core"
)

const adaCSV = "Timestamp,First Name,Last Name\n2021-01-01 09:00,Ada,Lovelace\n2021-01-02 10:00,Grace,Hopper\n"

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestModel(t *testing.T, files ...string) (*Model, *core.Session) {
	t.Helper()
	sess := core.NewSession()
	m := NewModel(context.Background(), sess, files...)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, sess
}

// runIngest executes cmd and feeds its ingest result back into the model.
func runIngest(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(ingestMsg)
	require.True(t, ok, "expected an ingest message")
	_, next := m.Update(msg)
	return next
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModel_LoadsFilesInOrder(t *testing.T) {
	first := writeCSV(t, "a.csv", adaCSV)
	second := writeCSV(t, "b.csv", "First Name\nAlan\n")
	m, sess := newTestModel(t, first, second)

	next := runIngest(t, m, m.nextPending())
	assert.Contains(t, m.status, "loaded 2 applicants from a.csv")

	next = runIngest(t, m, next)
	assert.Nil(t, next)
	assert.Contains(t, m.status, "loaded 1 applicants from b.csv")

	records := sess.Records()
	require.Len(t, records, 5)
	assert.Equal(t, 3, records[3].Index)
	assert.Contains(t, m.View(), "found 5 records")
}

func TestModel_SearchOnEveryKeystroke(t *testing.T) {
	m, sess := newTestModel(t, writeCSV(t, "a.csv", adaCSV))
	runIngest(t, m, m.nextPending())

	typeText(m, "Grace")

	assert.Equal(t, "Grace", sess.View().Query)
	assert.True(t, strings.HasPrefix(sess.Cards()[0], "2.\n"))
	assert.Contains(t, m.viewport.View(), "Hopper")
}

func TestModel_IngestResetsQuery(t *testing.T) {
	path := writeCSV(t, "a.csv", adaCSV)
	m, sess := newTestModel(t, path)
	runIngest(t, m, m.nextPending())
	typeText(m, "Ada")

	runIngest(t, m, ingestFile(context.Background(), sess, path))

	assert.Equal(t, "", m.search.Value())
	assert.Equal(t, "", sess.View().Query)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, sess.Order())
}

func TestModel_IngestErrorShown(t *testing.T) {
	m, sess := newTestModel(t, filepath.Join(t.TempDir(), "missing.csv"))
	runIngest(t, m, m.nextPending())

	var accessErr *core.FileAccessError
	require.ErrorAs(t, m.err, &accessErr)
	assert.Contains(t, m.View(), "FILE005")
	assert.False(t, sess.Parsed())
}

func TestModel_OpenPrompt(t *testing.T) {
	m, sess := newTestModel(t)
	path := writeCSV(t, "a.csv", adaCSV)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Equal(t, modeOpen, m.mode)

	typeText(m, path)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modeSearch, m.mode)
	require.NotNil(t, cmd)
	assert.Empty(t, m.pending)
	assert.True(t, m.loading)

	msg, ok := ingestFile(context.Background(), sess, path)().(ingestMsg)
	require.True(t, ok)
	m.Update(msg)
	assert.True(t, sess.Parsed())
}

func TestModel_OpenPromptEscCancels(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	typeText(m, "whatever.csv")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeSearch, m.mode)
	assert.Empty(t, m.pending)
	assert.False(t, m.loading)
}

func TestModel_MenuClearSearch(t *testing.T) {
	m, sess := newTestModel(t, writeCSV(t, "a.csv", adaCSV))
	runIngest(t, m, m.nextPending())
	typeText(m, "Ada")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	require.Equal(t, modeMenu, m.mode)
	assert.Contains(t, m.View(), "Clear search")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, "", m.search.Value())
	assert.Equal(t, "", sess.View().Query)
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderCards_DividersAndHighlight(t *testing.T) {
	out := renderCards(core.View{
		Cards: []string{"1.\n• First Name:     Ada\n", ""},
		Query: "ada",
	}, 40)

	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, strings.Repeat("─", 40))
}

func TestHighlight_NoPositionsIsIdentity(t *testing.T) {
	assert.Equal(t, "plain", highlight("plain", nil))
}
