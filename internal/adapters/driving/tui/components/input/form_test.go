package input

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
)

func userForm() *Form {
	return NewForm(styles.DefaultStyles(), "New user",
		Field{Label: "Email"},
		Field{Label: "Username"},
		Field{Label: "Password", Secret: true},
	)
}

func typeText(f *Form, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewForm(t *testing.T) {
	f := userForm()

	require.NotNil(t, f)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 0, f.Focused())
	assert.Equal(t, []string{"", "", ""}, f.Values())
	assert.Equal(t, textinput.EchoPassword, f.inputs[2].EchoMode)
	assert.Equal(t, textinput.EchoNormal, f.inputs[0].EchoMode)
}

func TestNewForm_NilStyles(t *testing.T) {
	f := NewForm(nil, "", Field{Label: "Value"})

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
}

func TestForm_Init(t *testing.T) {
	assert.NotNil(t, userForm().Init())
}

func TestForm_TypingGoesToFocusedField(t *testing.T) {
	f := userForm()

	typeText(f, "a@b.c")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "alice")

	assert.Equal(t, []string{"a@b.c", "alice", ""}, f.Values())
}

func TestForm_TabCycles(t *testing.T) {
	f := userForm()

	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, f.Focused())
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, f.Focused())

	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, f.Focused())
}

func TestForm_SetValuesAndReset(t *testing.T) {
	f := userForm()

	f.SetValues(" x@y.z ", "bob", "pw", "ignored")
	assert.Equal(t, []string{"x@y.z", "bob", "pw"}, f.Values())

	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f.Reset()
	assert.Equal(t, []string{"", "", ""}, f.Values())
	assert.Equal(t, 0, f.Focused())
}

func TestForm_View(t *testing.T) {
	f := userForm()
	f.SetValues("", "", "secret")

	view := f.View()

	assert.Contains(t, view, "New user")
	assert.Contains(t, view, "Email")
	assert.Contains(t, view, "Password")
	assert.NotContains(t, view, "secret")
}

func TestForm_SetWidth(t *testing.T) {
	f := userForm()

	f.SetWidth(80)
	assert.Equal(t, 74, f.inputs[0].Width)

	f.SetWidth(10)
	assert.Equal(t, 20, f.inputs[0].Width)
}

func TestForm_Empty(t *testing.T) {
	f := NewForm(nil, "")

	updated, cmd := f.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, f, updated)
	assert.Nil(t, cmd)
	assert.Empty(t, f.Values())
}
