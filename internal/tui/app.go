package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"timepick-cli/internal/config"
	"timepick-cli/internal/docs"
	"timepick-cli/internal/session"
	"timepick-cli/internal/store"
)

const labelWidth = 18

// appModel is the form: one row per configured field. Text and date fields are edited
// in place and committed when focus leaves them; time fields open a picker popup.
type appModel struct {
	sess   *session.Session
	dir    string
	ids    []string
	inputs map[string]*textinput.Model
	focus  int

	modal    *pickerModal
	showHelp bool
	status   string

	width  int
	height int
}

func newAppModel(sess *session.Session, dir string) appModel {
	m := appModel{
		sess:   sess,
		dir:    dir,
		inputs: map[string]*textinput.Model{},
	}
	for _, f := range sess.Fields() {
		m.ids = append(m.ids, f.ID)
		if f.Kind == config.KindTime {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		if f.Kind == config.KindDate {
			ti.Placeholder = "YYYY-MM-DD"
		}
		ti.SetValue(f.Value)
		m.inputs[f.ID] = &ti
	}
	if st, err := sess.DB.LoadTUIState(context.Background()); err == nil {
		for i, id := range m.ids {
			if id == st.FocusedField {
				m.focus = i
			}
		}
	}
	m.applyFocus()
	return m
}

// quit commits any pending edit and remembers the focused field for the next launch.
func (m *appModel) quit() tea.Cmd {
	m.commitFocused()
	st := &store.TUIState{FocusedField: m.focusedID()}
	if err := m.sess.DB.SaveTUIState(context.Background(), st); err != nil {
		m.sess.Log.Warn("save tui state", zap.Error(err))
	}
	return tea.Quit
}

func (m appModel) Init() tea.Cmd { return textinput.Blink }

func (m *appModel) focusedID() string {
	if len(m.ids) == 0 {
		return ""
	}
	return m.ids[m.focus]
}

func (m *appModel) focusedInput() *textinput.Model {
	return m.inputs[m.focusedID()]
}

func (m *appModel) applyFocus() {
	id := m.focusedID()
	for fid, in := range m.inputs {
		if fid == id {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// commitFocused writes an edited text or date field back to the form, which notifies
// any picker watching it.
func (m *appModel) commitFocused() {
	id := m.focusedID()
	in, ok := m.inputs[id]
	if !ok {
		return
	}
	f, err := m.sess.Field(id)
	if err != nil || f.Value == in.Value() {
		return
	}
	if _, err := m.sess.SetField(id, in.Value()); err != nil {
		m.status = err.Error()
		return
	}
	m.sess.Log.Debug("field committed", zap.String("field", id), zap.String("value", in.Value()))
	m.status = ""
}

func (m *appModel) moveFocus(delta int) {
	if len(m.ids) == 0 {
		return
	}
	m.commitFocused()
	n := len(m.ids)
	m.focus = (m.focus + delta + n) % n
	m.applyFocus()
}

func (m *appModel) openPicker() {
	id := m.focusedID()
	p, ok := m.sess.Pickers.Open(id)
	if !ok {
		return
	}
	label := id
	if f, err := m.sess.Field(id); err == nil {
		label = f.Label
	}
	m.modal = newPickerModal(p, label)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd := m.quit()
			return m, cmd
		}
		if m.modal != nil {
			if m.modal.update(msg) {
				m.modal = nil
			}
			return m, nil
		}
		if m.showHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}

		in := m.focusedInput()
		switch msg.String() {
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "enter":
			if in != nil {
				m.commitFocused()
				return m, nil
			}
			m.openPicker()
			return m, nil
		}
		if in == nil {
			switch msg.String() {
			case "q":
				cmd := m.quit()
				return m, cmd
			case "?":
				m.showHelp = true
			}
			return m, nil
		}
		updated, cmd := in.Update(msg)
		*in = updated
		return m, cmd
	}

	if in := m.focusedInput(); in != nil {
		updated, cmd := in.Update(msg)
		*in = updated
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Render(fmt.Sprintf("timepick  Dir=%s", emptyAsDash(m.dir)))

	width := m.width
	if width <= 0 {
		width = 80
	}

	if m.showHelp {
		keys, _ := docs.Get("keys")
		return strings.Join([]string{header, RenderMarkdown(keys, width-4)}, "\n\n")
	}

	rows := make([]string, 0, len(m.ids))
	for i, f := range m.sess.Fields() {
		rows = append(rows, m.renderRow(f, i == m.focus, width))
	}
	body := strings.Join(rows, "\n")

	footer := "tab/shift+tab: move  enter: open picker  ?: help  q: quit"
	if m.status != "" {
		footer = lipgloss.NewStyle().Foreground(colorError).Render(m.status)
	} else {
		footer = styleMuted().Render(footer)
	}

	if m.modal != nil {
		box := m.modal.view(width)
		if m.height > 0 {
			return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		body += "\n\n" + box
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) renderRow(f session.Field, focused bool, width int) string {
	label := normalizePane(f.Label, labelWidth, 1)
	label = lipgloss.NewStyle().Foreground(colorChromeFg).Render(label)
	if focused {
		label = lipgloss.NewStyle().Bold(true).Render(normalizePane(f.Label, labelWidth, 1))
	}

	valueW := width - labelWidth - 4
	if valueW > 40 {
		valueW = 40
	}

	var value string
	if in, ok := m.inputs[f.ID]; ok {
		value = renderInputLine(valueW, in.View())
	} else {
		value = normalizePane(" "+emptyAsDash(f.Value), valueW, 1)
		if focused {
			value = styleSelected().Render(value)
		}
	}

	row := label + " " + value
	if len(f.Problems) > 0 {
		row += " " + styleMuted().Render(fmt.Sprintf("(%d option warnings)", len(f.Problems)))
	}
	marker := "  "
	if focused {
		marker = "> "
	}
	return marker + row
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
