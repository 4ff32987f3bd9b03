package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timepick-cli/internal/picker"
)

// pickerModal is the popup for one open picker: a focused column and a cursor per
// column. Selection state lives in the picker itself.
type pickerModal struct {
	p      *picker.Picker
	label  string
	col    int
	cursor [3]int
	status string
	done   bool
}

func newPickerModal(p *picker.Picker, label string) *pickerModal {
	m := &pickerModal{p: p, label: label}
	m.syncCursors()
	return m
}

// syncCursors puts every cursor on its column's selected choice.
func (m *pickerModal) syncCursors() {
	for i, col := range picker.AllColumns {
		for j, c := range m.p.Columns().Get(col) {
			if c.Selected {
				m.cursor[i] = j
			}
		}
	}
}

func (m *pickerModal) column() picker.Column { return picker.AllColumns[m.col] }

func (m *pickerModal) current() (picker.Choice, bool) {
	choices := m.p.Columns().Get(m.column())
	i := m.cursor[m.col]
	if i < 0 || i >= len(choices) {
		return picker.Choice{}, false
	}
	return choices[i], true
}

func (m *pickerModal) moveColumn(delta int) {
	n := len(picker.AllColumns)
	m.col = (m.col + delta + n) % n
}

func (m *pickerModal) moveCursor(delta int) {
	n := len(m.p.Columns().Get(m.column()))
	if n == 0 {
		return
	}
	m.cursor[m.col] = (m.cursor[m.col] + delta + n) % n
}

// selectCurrent applies the choice under the cursor. It reports false, leaving the
// selection alone, when the choice is disabled.
func (m *pickerModal) selectCurrent() bool {
	c, ok := m.current()
	if !ok {
		return false
	}
	if c.Selected {
		return true
	}
	if c.Disabled || !m.p.Select(m.column(), c.Value) {
		m.status = c.Label + " is not available"
		return false
	}
	m.status = ""
	return true
}

// update handles one key. The returned bool is true once the picker has been
// confirmed or cancelled and the popup should close.
func (m *pickerModal) update(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "h", "shift+tab":
		m.moveColumn(-1)
	case "right", "l", "tab":
		m.moveColumn(1)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case " ":
		m.selectCurrent()
	case "enter":
		if m.selectCurrent() {
			m.p.Confirm()
			m.done = true
		}
	case "esc":
		m.p.Cancel()
		m.done = true
	}
	return m.done
}

func (m *pickerModal) view(termW int) string {
	bodyW := modalBodyWidth(termW)
	colW := (bodyW - 2) / len(picker.AllColumns)

	panes := make([]string, 0, len(picker.AllColumns))
	for i, col := range picker.AllColumns {
		var b strings.Builder
		head := lipgloss.NewStyle().Bold(true)
		if i != m.col {
			head = styleMuted()
		}
		b.WriteString(head.Render(strings.ToUpper(string(col[:1])) + string(col[1:])))
		for j, c := range m.p.Columns().Get(col) {
			b.WriteString("\n")
			b.WriteString(renderChoice(c, i == m.col && j == m.cursor[i]))
		}
		panes = append(panes, normalizePane(b.String(), colW, 0))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	footer := "value " + m.p.Value()
	if m.status != "" {
		footer = lipgloss.NewStyle().Foreground(colorError).Render(m.status)
	}
	body += "\n\n" + footer + "\n" + styleMuted().Render("space select  enter confirm  esc cancel")
	return renderModalBox(m.label, body, bodyW)
}

func renderChoice(c picker.Choice, cursor bool) string {
	text := " " + c.Label + " "
	marker := "  "
	if cursor {
		marker = "> "
	}
	switch {
	case c.Selected:
		text = styleAccent().Render(text)
	case c.Disabled:
		text = styleDisabled().Render(text)
	case cursor:
		text = styleSelected().Render(text)
	}
	return marker + text
}
