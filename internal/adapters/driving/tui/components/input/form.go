// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
)

// Field describes one labelled input of a Form.
type Field struct {
	Label       string
	Placeholder string
	// Secret masks the value while typing.
	Secret bool
}

// Form is a vertical stack of labelled text inputs. Tab and shift+tab move
// focus between fields; every other message goes to the focused field.
type Form struct {
	styles *styles.Styles
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	width  int
}

// NewForm creates a form with the first field focused.
func NewForm(s *styles.Styles, title string, fields ...Field) *Form {
	if s == nil {
		s = styles.DefaultStyles()
	}

	f := &Form{
		styles: s,
		title:  title,
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
		width:  50,
	}
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 256
		ti.Width = f.width
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels[i] = field.Label
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Init starts the cursor blinking.
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			return f, f.setFocus((f.focus + 1) % len(f.inputs))
		case "shift+tab", "up":
			return f, f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *Form) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

// View renders the form.
func (f *Form) View() string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(f.styles.Subtitle.Render(f.title))
		b.WriteString("\n\n")
	}
	for i, ti := range f.inputs {
		label := f.styles.Muted.Render(f.labels[i])
		if i == f.focus {
			label = f.styles.Title.Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.styles.InputField.Render(ti.View()))
		b.WriteString("\n")
	}
	return b.String()
}

// Values returns the trimmed value of every field in order.
func (f *Form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, ti := range f.inputs {
		values[i] = strings.TrimSpace(ti.Value())
	}
	return values
}

// SetValues fills fields in order. Extra values are ignored.
func (f *Form) SetValues(values ...string) {
	for i, v := range values {
		if i >= len(f.inputs) {
			return
		}
		f.inputs[i].SetValue(v)
	}
}

// Focused returns the index of the focused field.
func (f *Form) Focused() int {
	return f.focus
}

// Len returns the number of fields.
func (f *Form) Len() int {
	return len(f.inputs)
}

// SetWidth sets the width of every field.
func (f *Form) SetWidth(width int) {
	f.width = max(width-6, 20)
	for i := range f.inputs {
		f.inputs[i].Width = f.width
	}
}

// Reset clears every field and focuses the first one.
func (f *Form) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	if len(f.inputs) > 0 {
		f.setFocus(0)
	}
}
