package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bouqlink/bouqlink/pkg/themes"
)

var (
	pickerCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRose)
	pickerDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	pickerHeadStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// ThemeListModel is the bubbletea model behind the interactive theme
// picker. Themes holds the rows currently shown; tab narrows them to one
// category at a time.
type ThemeListModel struct {
	Themes   []themes.Theme
	Cursor   int
	Selected *themes.Theme
	Height   int
	Offset   int

	all        []themes.Theme
	categories []string
	category   int // index into categories, -1 for all
}

// NewThemeListModel creates a picker with the cursor on current.
func NewThemeListModel(list []themes.Theme, current string) ThemeListModel {
	m := ThemeListModel{Themes: list, Height: 12, all: list, category: -1}
	for _, t := range list {
		if !slices.Contains(m.categories, t.Category) {
			m.categories = append(m.categories, t.Category)
		}
	}
	if i := slices.IndexFunc(list, func(t themes.Theme) bool { return t.ID == current }); i >= 0 {
		m.move(i)
	}
	return m
}

// move shifts the cursor by delta, clamped to the list, and scrolls the
// window so the cursor stays visible.
func (m *ThemeListModel) move(delta int) {
	if len(m.Themes) == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Themes)-1)
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
}

// cycleCategory advances the filter: all, then each category in turn.
func (m *ThemeListModel) cycleCategory() {
	m.category++
	if m.category >= len(m.categories) {
		m.category = -1
	}
	m.Themes = m.all
	if m.category >= 0 {
		m.Themes = nil
		for _, t := range m.all {
			if t.Category == m.categories[m.category] {
				m.Themes = append(m.Themes, t)
			}
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m ThemeListModel) Init() tea.Cmd { return nil }

func (m ThemeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-9, 5)
		m.move(0)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Themes))
		case "end", "G":
			m.move(len(m.Themes))
		case "tab":
			m.cycleCategory()
		case "enter":
			if len(m.Themes) > 0 {
				picked := m.Themes[m.Cursor]
				m.Selected = &picked
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ThemeListModel) View() string {
	var b strings.Builder

	filter := "all"
	if m.category >= 0 {
		filter = m.categories[m.category]
	}
	fmt.Fprintf(&b, "%s %s\n", StyleTitle.Render("Select Theme"), pickerDimStyle.Render("("+filter+")"))
	b.WriteString(pickerDimStyle.Render("↑/↓ move  tab category  ⏎ pick  q quit"))
	b.WriteString("\n\n")

	visible := m.Themes[m.Offset:min(m.Offset+m.Height, len(m.Themes))]
	rows := make([][]string, len(visible))
	for i, t := range visible {
		marker := " "
		if m.Offset+i == m.Cursor {
			marker = "✿"
		}
		rows[i] = []string{marker, t.Name, t.Category, swatch(t)}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(pickerDimStyle).
		Headers("", "Theme", "Category", "Colours").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return pickerHeadStyle
			case m.Offset+row == m.Cursor:
				return pickerCursorStyle
			case col == 2:
				return pickerDimStyle
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(tbl.Render())
	b.WriteString("\n")

	if len(m.Themes) > 0 {
		b.WriteString(pickerDimStyle.Render(m.Themes[m.Cursor].Description))
		b.WriteString("\n")
	}
	b.WriteString(pickerDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Themes)), len(m.Themes))))
	return b.String()
}

// swatch renders background, accent, secondary and text colours as blocks.
func swatch(t themes.Theme) string {
	var b strings.Builder
	for _, c := range []string{t.Colors.Background, t.Colors.Accent, t.Colors.Secondary, t.Colors.Text} {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("██"))
	}
	return b.String()
}

// pickTheme runs the picker and returns the chosen id, or "" when the user
// quit without choosing.
func pickTheme(list []themes.Theme, current string) (string, error) {
	final, err := tea.NewProgram(NewThemeListModel(list, current)).Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(ThemeListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
