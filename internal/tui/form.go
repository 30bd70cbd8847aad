package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csrent/csrent-cli/internal/admin"
	"github.com/csrent/csrent-cli/internal/resource"
)

// formModel edits one record. Fields with Options are cycled with
// left/right/space instead of typed.
type formModel struct {
	title  string
	submit string
	id     string

	fields []resource.Field
	inputs []textinput.Model
	choice []int
	focus  int
}

func newFormModel(spec admin.FormSpec, values resource.Form) formModel {
	f := formModel{
		title:  spec.Title,
		submit: spec.Submit,
		id:     values[resource.FieldID],
		fields: spec.Fields,
		inputs: make([]textinput.Model, len(spec.Fields)),
		choice: make([]int, len(spec.Fields)),
	}
	for i, field := range spec.Fields {
		if len(field.Options) > 0 {
			f.choice[i] = optionIndex(field.Options, values[field.Name])
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.Cursor.SetMode(cursor.CursorStatic)
		in.Placeholder = field.Placeholder
		in.SetValue(values[field.Name])
		if field.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	return f
}

func optionIndex(opts []resource.Option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return 0
}

// Values returns the raw form contents, including the hidden id.
func (f formModel) Values() resource.Form {
	out := resource.Form{}
	if f.id != "" {
		out[resource.FieldID] = f.id
	}
	for i, field := range f.fields {
		if len(field.Options) > 0 {
			out[field.Name] = field.Options[f.choice[i]].Value
			continue
		}
		out[field.Name] = f.inputs[i].Value()
	}
	return out
}

func (f *formModel) Focus() tea.Cmd {
	return f.focusField(f.focus)
}

func (f *formModel) Blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *formModel) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = clamp(i, 0, len(f.fields)-1)
	f.Blur()
	if len(f.fields[f.focus].Options) > 0 {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

// Update handles a key while the form has focus.
func (f *formModel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "down", "enter", "ctrl+n":
		return f.focusField((f.focus + 1) % len(f.fields))
	case "up", "shift+tab", "ctrl+p":
		return f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
	}
	field := f.fields[f.focus]
	if opts := field.Options; len(opts) > 0 {
		switch msg.String() {
		case "right", "l", " ":
			f.choice[f.focus] = (f.choice[f.focus] + 1) % len(opts)
		case "left", "h":
			f.choice[f.focus] = (f.choice[f.focus] - 1 + len(opts)) % len(opts)
		}
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f formModel) View(width int, focused bool) string {
	inner := maxInt(20, width-4)
	lines := []string{titleStyle.Render(f.title), ""}
	for i, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		ls := labelStyle
		if focused && i == f.focus {
			ls = focusLabel
		}
		lines = append(lines, ls.Render(label))

		if opts := field.Options; len(opts) > 0 {
			lines = append(lines, renderOptions(opts, f.choice[i], focused && i == f.focus))
		} else {
			in := f.inputs[i]
			in.Width = inner - 2
			lines = append(lines, "› "+in.View())
		}
	}
	lines = append(lines, "", buttonStyle(focused).Render(f.submit)+"  "+mutedStyle.Render("ctrl+s save · esc cancel"))
	return panelStyle(focused).Width(inner).Render(strings.Join(lines, "\n"))
}

func renderOptions(opts []resource.Option, selected int, focused bool) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		s := mutedStyle
		if i == selected {
			s = lipgloss.NewStyle().Bold(true).Foreground(csrentText)
			if focused {
				s = s.Foreground(csrentAccent)
			}
			parts[i] = s.Render("◉ " + o.Label)
			continue
		}
		parts[i] = s.Render("○ " + o.Label)
	}
	return strings.Join(parts, "  ")
}
