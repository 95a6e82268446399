package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bouqlink/bouqlink/pkg/themes"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ThemeListModel, keys ...string) (ThemeListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ThemeListModel)
	}
	return m, cmd
}

func TestThemeListModelStartsOnCurrent(t *testing.T) {
	list := themes.All()
	m := NewThemeListModel(list, "y2k")
	if list[m.Cursor].ID != "y2k" {
		t.Errorf("cursor on %q, want y2k", list[m.Cursor].ID)
	}
	if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.Height {
		t.Errorf("cursor %d outside window [%d, %d)", m.Cursor, m.Offset, m.Offset+m.Height)
	}
}

func TestThemeListModelNavigation(t *testing.T) {
	list := themes.All()
	m := NewThemeListModel(list, themes.DefaultID)

	m, _ = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("up at top moved cursor to %d", m.Cursor)
	}
	m, _ = press(m, "down", "j", "k")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}

	m, cmd := press(m, "enter")
	if m.Selected == nil || m.Selected.ID != list[1].ID {
		t.Fatalf("selected = %v, want %s", m.Selected, list[1].ID)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestThemeListModelScrolls(t *testing.T) {
	list := themes.All()
	m := NewThemeListModel(list, themes.DefaultID)
	m.Height = 3

	keys := make([]string, len(list)+2)
	for i := range keys {
		keys[i] = "down"
	}
	m, _ = press(m, keys...)
	if m.Cursor != len(list)-1 {
		t.Errorf("cursor = %d, want last", m.Cursor)
	}
	if m.Offset != len(list)-3 {
		t.Errorf("offset = %d, want %d", m.Offset, len(list)-3)
	}
}

func TestThemeListModelHomeEnd(t *testing.T) {
	list := themes.All()
	m := NewThemeListModel(list, themes.DefaultID)
	m.Height = 3

	m, _ = press(m, "end")
	if m.Cursor != len(list)-1 || m.Offset != len(list)-3 {
		t.Errorf("end: cursor=%d offset=%d", m.Cursor, m.Offset)
	}
	m, _ = press(m, "home")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("home: cursor=%d offset=%d", m.Cursor, m.Offset)
	}
}

func TestThemeListModelCategoryFilter(t *testing.T) {
	list := themes.All()
	m := NewThemeListModel(list, themes.DefaultID)

	m, _ = press(m, "tab")
	first := list[0].Category
	if len(m.Themes) == 0 || len(m.Themes) > len(list) {
		t.Fatalf("filtered to %d themes", len(m.Themes))
	}
	for _, th := range m.Themes {
		if th.Category != first {
			t.Errorf("theme %s in category %s, want %s", th.ID, th.Category, first)
		}
	}
	if !strings.Contains(m.View(), "("+first+")") {
		t.Error("view should name the active category")
	}

	for range m.categories {
		m, _ = press(m, "tab")
	}
	if len(m.Themes) != len(list) {
		t.Errorf("cycling back should show all %d themes, got %d", len(list), len(m.Themes))
	}
}

func TestThemeListModelQuit(t *testing.T) {
	m, cmd := press(NewThemeListModel(themes.All(), ""), "q")
	if m.Selected != nil || cmd == nil {
		t.Errorf("quit: selected=%v cmd=%v", m.Selected, cmd)
	}
}

func TestThemeListModelView(t *testing.T) {
	list := themes.All()
	m := NewThemeListModel(list, "bauhaus")
	view := m.View()

	for _, want := range []string{"Select Theme", list[0].Name, "Bauhaus", fmt.Sprintf("/%d]", len(list))} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if got := translateSurveyErr(terminal.InterruptErr); !errors.Is(got, errAborted) {
		t.Errorf("interrupt -> %v, want errAborted", got)
	}
	other := errors.New("boom")
	if got := translateSurveyErr(other); got != other {
		t.Errorf("other error rewritten to %v", got)
	}
}
