package users

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/services"
)

func newTestView(t *testing.T, users int) (*View, *services.UserService) {
	t.Helper()
	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("users.page_size", "5"))
	svc := services.NewUserService(memory.NewUserStore(), settings)
	if users > 0 {
		_, err := svc.Generate(context.Background(), users)
		require.NoError(t, err)
	}
	view := NewView(styles.DefaultStyles(), svc)
	view.SetDimensions(200, 40)
	run(view, view.Init())
	return view, svc
}

// run feeds the result of cmd back into the view until no command remains.
func run(v *View, cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = v.Update(msg)
	}
}

// press sends a key and drains the commands it produces. Keys that open a
// form return a blinking cursor command and must use Update directly.
func press(v *View, msg tea.KeyMsg) {
	_, cmd := v.Update(msg)
	run(v, cmd)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeText(v *View, s string) {
	for _, r := range s {
		v.Update(runeKey(r))
	}
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Equal(t, ModeList, view.Mode())
}

func TestView_Init_Empty(t *testing.T) {
	view, _ := newTestView(t, 0)

	require.NotNil(t, view.Page())
	assert.Zero(t, view.Page().Total)
	assert.Contains(t, view.View(), "No users.")
}

func TestView_Init_NilService(t *testing.T) {
	view := NewView(nil, nil)

	run(view, view.Init())

	assert.Equal(t, status.StateError, view.Status().State())
}

func TestView_Init_FirstPage(t *testing.T) {
	view, _ := newTestView(t, 12)

	page := view.Page()
	require.NotNil(t, page)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Users, 5)
	assert.Equal(t, int64(1), page.Users[0].ID)

	output := view.View()
	assert.Contains(t, output, "email1@example.com")
	assert.Contains(t, output, "user5")
	assert.NotContains(t, output, "user6")
	assert.NotContains(t, output, "password1")
	assert.Contains(t, output, "1/3")
	assert.Contains(t, output, "(12 users)")
}

func TestView_Paging(t *testing.T) {
	view, _ := newTestView(t, 12)

	press(view, runeKey('l'))
	assert.Equal(t, 1, view.Page().Index)
	assert.Equal(t, int64(6), view.Page().Users[0].ID)

	press(view, runeKey('l'))
	assert.Equal(t, 2, view.Page().Index)
	assert.Len(t, view.Page().Users, 2)

	press(view, runeKey('l'))
	assert.Equal(t, 2, view.Page().Index)

	press(view, runeKey('h'))
	assert.Equal(t, 1, view.Page().Index)
	assert.Contains(t, view.View(), "2/3")
}

func TestView_SelectRows(t *testing.T) {
	view, _ := newTestView(t, 3)

	for range 5 {
		view.Update(runeKey('j'))
	}
	assert.Equal(t, 2, view.Selected())

	view.Update(runeKey('k'))
	assert.Equal(t, 1, view.Selected())
}

func TestView_AddUser(t *testing.T) {
	view, svc := newTestView(t, 2)

	view.Update(runeKey('a'))
	require.Equal(t, ModeForm, view.Mode())
	assert.Contains(t, view.View(), "New user")

	typeText(view, "alice@example.com")
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(view, "alice")
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(view, "s3cret")
	assert.NotContains(t, view.View(), "s3cret")

	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeList, view.Mode())
	assert.Equal(t, status.StateDone, view.Status().State())
	assert.Equal(t, "Created user 3", view.Status().Message())
	lookup, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "alice", lookup.User.Username)
	assert.Equal(t, 3, view.Page().Total)
}

func TestView_AddUserInvalid(t *testing.T) {
	view, svc := newTestView(t, 0)

	view.Update(runeKey('a'))
	typeText(view, "only-email@example.com")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeForm, view.Mode())
	assert.Equal(t, status.StateError, view.Status().State())
	assert.Contains(t, view.View(), "username is required")
	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestView_EditUser(t *testing.T) {
	view, svc := newTestView(t, 3)
	view.Update(runeKey('j'))

	view.Update(runeKey('e'))
	require.Equal(t, ModeForm, view.Mode())
	assert.Contains(t, view.View(), "Edit user 2")
	assert.Equal(t, []string{"email2@example.com", "user2", "password2"}, view.form.Values())

	view.form.SetValues("new@example.com", "renamed", "password2")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Updated user 2", view.Status().Message())
	lookup, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "renamed", lookup.User.Username)
	assert.Equal(t, "new@example.com", lookup.User.Email)
	assert.Equal(t, "renamed", view.Page().Users[1].Username)
}

func TestView_FormCancel(t *testing.T) {
	view, _ := newTestView(t, 1)

	view.Update(runeKey('a'))
	view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ModeList, view.Mode())
	assert.Nil(t, view.form)
}

func TestView_DeleteConfirmed(t *testing.T) {
	view, svc := newTestView(t, 3)
	view.Update(runeKey('j'))

	view.Update(runeKey('d'))
	require.Equal(t, ModeConfirmDelete, view.Mode())
	assert.Contains(t, view.View(), "Delete user 2 (user2)?")

	press(view, runeKey('y'))

	assert.Equal(t, ModeList, view.Mode())
	assert.Equal(t, "Deleted user 2", view.Status().Message())
	_, err := svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, view.Page().Total)
}

func TestView_DeleteDenied(t *testing.T) {
	view, _ := newTestView(t, 3)

	view.Update(runeKey('d'))
	press(view, runeKey('n'))

	assert.Equal(t, ModeList, view.Mode())
	assert.Equal(t, 3, view.Page().Total)
}

func TestView_DeleteLastRowStepsBack(t *testing.T) {
	view, _ := newTestView(t, 6)
	press(view, runeKey('l'))
	require.Equal(t, 1, view.Page().Index)
	require.Len(t, view.Page().Users, 1)

	view.Update(runeKey('d'))
	press(view, runeKey('y'))

	assert.Equal(t, 0, view.Page().Index)
	assert.Equal(t, 5, view.Page().Total)
	assert.Equal(t, status.StateDone, view.Status().State())
}

func TestView_Find(t *testing.T) {
	view, _ := newTestView(t, 20)

	view.Update(runeKey('/'))
	require.Equal(t, ModeFind, view.Mode())
	typeText(view, "17")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeList, view.Mode())
	require.NotNil(t, view.Found())
	assert.Equal(t, int64(17), view.Found().User.ID)
	assert.Positive(t, view.Found().Comparisons)
	assert.Contains(t, view.Status().Message(), "Found user 17 in")
	assert.Contains(t, view.View(), "User{id=17, email='email17@example.com'")
}

func TestView_FindMissing(t *testing.T) {
	view, _ := newTestView(t, 2)

	view.Update(runeKey('/'))
	typeText(view, "99")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, view.Found())
	assert.Equal(t, status.StateError, view.Status().State())
	assert.Contains(t, view.Status().Message(), "not found")
}

func TestView_FindInvalidID(t *testing.T) {
	view, _ := newTestView(t, 2)

	view.Update(runeKey('/'))
	typeText(view, "abc")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeFind, view.Mode())
	assert.Equal(t, status.StateError, view.Status().State())
}

func TestView_Generate(t *testing.T) {
	view, _ := newTestView(t, 0)

	view.Update(runeKey('g'))
	require.Equal(t, ModeGenerate, view.Mode())
	assert.Contains(t, view.View(), "Generate users")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ModeList, view.Mode())
	assert.Equal(t, status.StateWorking, view.Status().State())
	run(view, view.generate(GenerateCount))

	assert.Equal(t, "Generated 100 users", view.Status().Message())
	assert.Equal(t, GenerateCount, view.Page().Total)
	assert.Equal(t, 20, view.Page().Pages)
}

func TestView_GenerateInvalidCount(t *testing.T) {
	view, _ := newTestView(t, 0)

	view.Update(runeKey('g'))
	for range len("100") {
		view.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	typeText(view, "0")
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeGenerate, view.Mode())
	assert.Equal(t, status.StateError, view.Status().State())
	assert.Contains(t, view.Status().Message(), "positive count")
}

func TestView_Reload(t *testing.T) {
	view, svc := newTestView(t, 1)
	_, err := svc.Generate(context.Background(), 4)
	require.NoError(t, err)

	press(view, runeKey('r'))

	assert.Equal(t, 5, view.Page().Total)
}

func TestView_EscGoesToMenu(t *testing.T) {
	view, _ := newTestView(t, 0)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	view, _ := newTestView(t, 2)
	view.Update(runeKey('a'))

	view.Reset()

	assert.Equal(t, ModeList, view.Mode())
	assert.Nil(t, view.Found())
	assert.Equal(t, status.StateReady, view.Status().State())
}

func TestView_WithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view := NewView(nil, nil).WithContext(ctx)

	assert.Equal(t, ctx, view.ctx)
}
