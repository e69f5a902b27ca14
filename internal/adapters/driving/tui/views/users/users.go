// Package users provides the paged user table view for the TUI.
package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/input"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

// GenerateCount is the default of the generate dialog.
const GenerateCount = 100

var errNoService = errors.New("user service not available")

// Mode is what the view is doing.
type Mode int

const (
	ModeList Mode = iota
	ModeForm
	ModeFind
	ModeGenerate
	ModeConfirmDelete
)

// View pages through the user table and edits rows.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	userService driving.UserService
	status      *status.Bar
	ctx         context.Context
	paginator   paginator.Model

	page     *domain.UserPage
	selected int
	mode     Mode

	// form is the add, edit or find form.
	form *input.Form
	// editing is the user being edited, nil when adding.
	editing *domain.User
	// found is the result of the last lookup.
	found *domain.UserLookup

	width  int
	height int
	ready  bool
}

// NewView creates a new user table view.
func NewView(s *styles.Styles, userService driving.UserService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.TableHelp()...)

	p := paginator.New()
	p.Type = paginator.Arabic

	return &View{
		styles:      s,
		keymap:      km,
		userService: userService,
		status:      bar,
		ctx:         context.Background(),
		paginator:   p,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current page.
func (v *View) Init() tea.Cmd {
	return v.loadPage(v.paginator.Page)
}

func (v *View) loadPage(index int) tea.Cmd {
	svc, ctx := v.userService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.UsersLoaded{Err: errNoService}
		}
		page, err := svc.Page(ctx, index, 0)
		return messages.UsersLoaded{Page: page, Err: err}
	}
}

func (v *View) save(user domain.User, create bool) tea.Cmd {
	svc, ctx := v.userService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.UserSaved{Err: errNoService}
		}
		if create {
			created, err := svc.Create(ctx, user)
			if err != nil {
				return messages.UserSaved{Created: true, Err: err}
			}
			return messages.UserSaved{User: *created, Created: true}
		}
		return messages.UserSaved{User: user, Err: svc.Update(ctx, user)}
	}
}

func (v *View) remove(id int64) tea.Cmd {
	svc, ctx := v.userService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.UserDeleted{ID: id, Err: errNoService}
		}
		return messages.UserDeleted{ID: id, Err: svc.Delete(ctx, id)}
	}
}

func (v *View) find(id int64) tea.Cmd {
	svc, ctx := v.userService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.UserFound{ID: id, Err: errNoService}
		}
		lookup, err := svc.Get(ctx, id)
		return messages.UserFound{ID: id, Lookup: lookup, Err: err}
	}
}

func (v *View) generate(n int) tea.Cmd {
	svc, ctx := v.userService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.UsersGenerated{Err: errNoService}
		}
		count, err := svc.Generate(ctx, n)
		return messages.UsersGenerated{Count: count, Err: err}
	}
}

// Update handles messages for the user table view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.UsersLoaded:
		return v.handleLoaded(msg)

	case messages.UserSaved:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		verb := "Updated"
		if msg.Created {
			verb = "Created"
		}
		v.status.Done(fmt.Sprintf("%s user %d", verb, msg.User.ID))
		return v, v.loadPage(v.paginator.Page)

	case messages.UserDeleted:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.status.Done(fmt.Sprintf("Deleted user %d", msg.ID))
		return v, v.loadPage(v.paginator.Page)

	case messages.UsersGenerated:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.status.Done(fmt.Sprintf("Generated %s users", humanize.Comma(int64(msg.Count))))
		return v, v.loadPage(v.paginator.Page)

	case messages.UserFound:
		if msg.Err != nil {
			v.found = nil
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.found = msg.Lookup
		v.status.Done(fmt.Sprintf("Found user %d in %d comparisons", msg.ID, msg.Lookup.Comparisons))
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ModeForm, ModeFind, ModeGenerate:
			return v.handleFormKeys(msg)
		case ModeConfirmDelete:
			return v.handleConfirmKeys(msg)
		case ModeList:
			return v.handleListKeys(msg)
		}
	}

	var cmd tea.Cmd
	if v.form != nil {
		v.form, cmd = v.form.Update(msg)
		return v, cmd
	}
	v.status, cmd = v.status.Update(msg)
	return v, cmd
}

func (v *View) handleLoaded(msg messages.UsersLoaded) (*View, tea.Cmd) {
	if msg.Err != nil {
		// The last page emptied: step back one.
		if errors.Is(msg.Err, domain.ErrInvalidInput) && v.paginator.Page > 0 {
			v.paginator.Page--
			return v, v.loadPage(v.paginator.Page)
		}
		v.status.Fail(msg.Err)
		return v, nil
	}
	v.page = msg.Page
	v.paginator.PerPage = max(msg.Page.Size, 1)
	v.paginator.TotalPages = max(msg.Page.Pages, 1)
	v.paginator.Page = msg.Page.Index
	v.selected = min(v.selected, max(len(msg.Page.Users)-1, 0))
	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.page != nil && v.selected < len(v.page.Users)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.PrevPage):
		if !v.paginator.OnFirstPage() {
			v.paginator.PrevPage()
			v.selected = 0
			return v, v.loadPage(v.paginator.Page)
		}
	case key.Matches(msg, v.keymap.NextPage):
		if !v.paginator.OnLastPage() {
			v.paginator.NextPage()
			v.selected = 0
			return v, v.loadPage(v.paginator.Page)
		}
	case key.Matches(msg, v.keymap.Add):
		v.editing = nil
		return v, v.openForm("New user")
	case key.Matches(msg, v.keymap.Edit):
		if u, ok := v.current(); ok {
			v.editing = &u
			cmd := v.openForm(fmt.Sprintf("Edit user %d", u.ID))
			v.form.SetValues(u.Email, u.Username, u.Password)
			return v, cmd
		}
	case key.Matches(msg, v.keymap.Delete):
		if _, ok := v.current(); ok {
			v.mode = ModeConfirmDelete
		}
	case key.Matches(msg, v.keymap.Find):
		v.mode = ModeFind
		v.form = input.NewForm(v.styles, "Find user", input.Field{Label: "ID", Placeholder: "42"})
		v.form.SetWidth(v.width)
		return v, v.form.Init()
	case key.Matches(msg, v.keymap.Generate):
		v.mode = ModeGenerate
		v.form = input.NewForm(v.styles, "Generate users", input.Field{Label: "Count"})
		v.form.SetValues(strconv.Itoa(GenerateCount))
		v.form.SetWidth(v.width)
		return v, v.form.Init()
	case key.Matches(msg, v.keymap.Reload):
		v.status.Clear()
		return v, v.loadPage(v.paginator.Page)
	}
	return v, nil
}

func (v *View) openForm(title string) tea.Cmd {
	v.mode = ModeForm
	v.form = input.NewForm(v.styles, title,
		input.Field{Label: "Email", Placeholder: "name@example.com"},
		input.Field{Label: "Username"},
		input.Field{Label: "Password", Secret: true},
	)
	v.form.SetWidth(v.width)
	return v.form.Init()
}

func (v *View) closeForm() {
	v.mode = ModeList
	v.form = nil
	v.editing = nil
}

func (v *View) handleFormKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		v.closeForm()
		return v, nil
	case key.Matches(msg, v.keymap.Select):
		return v.submit()
	}
	var cmd tea.Cmd
	v.form, cmd = v.form.Update(msg)
	return v, cmd
}

func (v *View) submit() (*View, tea.Cmd) {
	values := v.form.Values()

	if v.mode == ModeFind {
		id, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil || id <= 0 {
			v.status.Fail(fmt.Errorf("%w: %q is not a user ID", domain.ErrInvalidInput, values[0]))
			return v, nil
		}
		v.closeForm()
		return v, v.find(id)
	}

	if v.mode == ModeGenerate {
		n, err := strconv.Atoi(values[0])
		if err != nil || n <= 0 {
			v.status.Fail(fmt.Errorf("%w: %q is not a positive count", domain.ErrInvalidInput, values[0]))
			return v, nil
		}
		v.closeForm()
		return v, tea.Batch(
			v.status.Start(fmt.Sprintf("Generating %s users...", humanize.Comma(int64(n)))),
			v.generate(n),
		)
	}

	user := domain.User{Email: values[0], Username: values[1], Password: values[2]}
	if err := user.Validate(); err != nil {
		v.status.Fail(err)
		return v, nil
	}
	create := v.editing == nil
	if !create {
		user.ID = v.editing.ID
	}
	v.closeForm()
	return v, v.save(user, create)
}

func (v *View) handleConfirmKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Confirm):
		v.mode = ModeList
		if u, ok := v.current(); ok {
			return v, v.remove(u.ID)
		}
	case key.Matches(msg, v.keymap.Deny):
		v.mode = ModeList
	}
	return v, nil
}

func (v *View) current() (domain.User, bool) {
	if v.page == nil || v.selected < 0 || v.selected >= len(v.page.Users) {
		return domain.User{}, false
	}
	return v.page.Users[v.selected], true
}

// View renders the table, a form or the delete prompt.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Users"))
	b.WriteString("\n\n")

	if v.form != nil {
		b.WriteString(v.form.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[Tab] Next field  [Enter] Submit  [Esc] Cancel"))
		b.WriteString("\n")
		if v.status.State() == status.StateError {
			b.WriteString(v.status.View())
		}
		return b.String()
	}

	if v.page == nil || v.page.Total == 0 {
		b.WriteString(v.styles.Muted.Render("No users. Press a to add one or g to generate some."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.renderTable())
		b.WriteString("\n")
		b.WriteString(v.paginator.View())
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  (%s users)", humanize.Comma(int64(v.page.Total)))))
		b.WriteString("\n")
	}

	if v.found != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Border.Padding(0, 1).Render(v.found.User.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.mode == ModeConfirmDelete {
		if u, ok := v.current(); ok {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete user %d (%s)? [y/n]", u.ID, u.Username)))
			return b.String()
		}
	}
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderTable() string {
	rows := make([][]string, 0, len(v.page.Users))
	for _, u := range v.page.Users {
		rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Email, u.Username})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.styles.Muted).
		Headers("ID", "Email", "Username").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return v.styles.TableHeader
			case row == v.selected:
				return v.styles.Selected.Padding(0, 1)
			default:
				return v.styles.Normal.Padding(0, 1)
			}
		}).
		Render()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.status.SetWidth(width)
	if v.form != nil {
		v.form.SetWidth(width)
	}
}

// Reset closes any form and clears the last lookup.
func (v *View) Reset() {
	v.closeForm()
	v.found = nil
	v.status.Clear()
}

// Page returns the loaded page.
func (v *View) Page() *domain.UserPage {
	return v.page
}

// Selected returns the index of the selected row on the page.
func (v *View) Selected() int {
	return v.selected
}

// Mode returns what the view is doing.
func (v *View) Mode() Mode {
	return v.mode
}

// Found returns the last lookup result.
func (v *View) Found() *domain.UserLookup {
	return v.found
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
