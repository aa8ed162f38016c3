package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/service"
	"github.com/noah-isme/employee-admin-client/pkg/config"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenList
	screenDetail
	screenForm
	screenConfirm
)

type layout int

const (
	layoutList layout = iota
	layoutGrid
)

const gridColumns = 3

type (
	gateMsg     struct{ decision service.Decision }
	loginMsg    struct{ err error }
	listMsg     struct{ snap service.ListSnapshot }
	noteMsg     struct{ note *models.Notification }
	actionMsg   struct{ err error }
	mutationMsg struct{ err error }
	deleteMsg   struct{ err error }
	logoutMsg   struct{ err error }
)

type themeMsg struct {
	mode models.ThemeMode
	err  error
}

// Model is the root bubbletea model of the browser.
type Model struct {
	ctx         context.Context
	deps        Deps
	listEvents  chan listMsg
	noteEvents  chan noteMsg
	unsubscribe []func()

	screen  screen
	layout  layout
	styles  Styles
	width   int
	spinner spinner.Model
	table   table.Model
	search  textinput.Model

	searching bool
	login     loginForm
	form      employeeForm
	list      service.ListSnapshot
	cursor    int
	target    *models.Employee
	note      *models.Notification
	user      *models.User
	status    string
}

// New builds the browser model. List and notification changes made outside
// the event loop, such as debounced searches, are delivered through one-slot
// channels that always hold the latest value.
func New(ctx context.Context, deps Deps, mode models.ThemeMode) Model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "name"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 22},
			{Title: "Age", Width: 5},
			{Title: "Class", Width: 10},
			{Title: "Subjects", Width: 28},
			{Title: "Attendance", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(config.DefaultPageSize+1),
	)

	m := Model{
		ctx:        ctx,
		deps:       deps,
		listEvents: make(chan listMsg, 1),
		noteEvents: make(chan noteMsg, 1),
		styles:     NewStyles(mode),
		spinner:    sp,
		table:      tbl,
		search:     search,
		login:      newLoginForm(),
	}
	if deps.List != nil {
		m.unsubscribe = append(m.unsubscribe, deps.List.Subscribe(func(s service.ListSnapshot) { replaceLatest(m.listEvents, listMsg{snap: s}) }))
	}
	if deps.Notifications != nil {
		m.unsubscribe = append(m.unsubscribe, deps.Notifications.Subscribe(func(n *models.Notification) { replaceLatest(m.noteEvents, noteMsg{note: n}) }))
	}
	return m
}

// replaceLatest stores v in the one-slot channel ch, discarding an unread
// older value so the newest state is never lost.
func replaceLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close stops listening to service events.
func (m Model) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
}

func (m Model) waitForEvent() tea.Cmd {
	lists, notes := m.listEvents, m.noteEvents
	return func() tea.Msg {
		select {
		case msg := <-lists:
			return msg
		case msg := <-notes:
			return msg
		}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.resolve(), m.waitForEvent())
}

func (m Model) resolve() tea.Cmd {
	return func() tea.Msg { return gateMsg{decision: m.deps.Gate.Resolve(m.ctx)} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case gateMsg:
		return m.onGate(msg.decision)
	case loginMsg:
		if msg.err != nil {
			m.status = appErrors.UserMessage(msg.err)
			return m, nil
		}
		m.status = ""
		m.screen = screenLoading
		return m, m.resolve()
	case listMsg:
		m.setList(msg.snap)
		return m, m.waitForEvent()
	case noteMsg:
		m.note = msg.note
		return m, m.waitForEvent()
	case actionMsg:
		m.status = ""
		if msg.err != nil && !errors.Is(msg.err, appErrors.ErrInvalidState) {
			m.status = appErrors.UserMessage(msg.err)
		}
		m.setList(m.deps.List.Snapshot())
		return m, nil
	case mutationMsg:
		return m.onMutation(msg.err), nil
	case deleteMsg:
		m.target = nil
		m.screen = screenList
		m.setList(m.deps.List.Snapshot())
		return m, nil
	case themeMsg:
		if msg.err == nil {
			m.styles = NewStyles(msg.mode)
		}
		return m, nil
	case logoutMsg:
		if msg.err != nil {
			m.status = appErrors.UserMessage(msg.err)
			return m, nil
		}
		m.user = nil
		m.screen = screenLoading
		return m, m.resolve()
	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onGate(d service.Decision) (tea.Model, tea.Cmd) {
	switch d.State {
	case service.GateAuthenticated:
		m.user = d.User
		m.screen = screenList
		return m, func() tea.Msg { return actionMsg{err: m.deps.List.Mount(m.ctx)} }
	case service.GateUnauthenticated:
		m.user = nil
		m.login = newLoginForm()
		m.screen = screenLogin
	default:
		m.screen = screenLoading
	}
	return m, nil
}

func (m Model) onMutation(err error) Model {
	if err == nil {
		m.form = employeeForm{}
		m.screen = screenList
		m.setList(m.deps.List.Snapshot())
		return m
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Code == appErrors.ErrValidation.Code {
		m.form.errors = appErr.Fields
	}
	return m
}

func (m *Model) setList(s service.ListSnapshot) {
	m.list = s
	rows := make([]table.Row, 0, len(s.Items))
	for _, e := range s.Items {
		rows = append(rows, table.Row{
			e.Name,
			strconv.Itoa(e.Age),
			e.Class,
			strings.Join(e.Subjects, ", "),
			strconv.FormatFloat(e.Attendance, 'f', -1, 64) + "%",
		})
	}
	m.table.SetRows(rows)
	if m.cursor >= len(s.Items) {
		m.cursor = len(s.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.table.SetCursor(m.cursor)
}

func (m Model) selected() (models.Employee, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list.Items) {
		return models.Employee{}, false
	}
	return m.list.Items[m.cursor], true
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case screenLogin:
		return m.onLoginKey(msg)
	case screenList:
		return m.onListKey(msg)
	case screenDetail:
		if msg.String() == "esc" || msg.String() == "enter" || msg.String() == "q" {
			m.target = nil
			m.screen = screenList
		}
		return m, nil
	case screenForm:
		return m.onFormKey(msg)
	case screenConfirm:
		return m.onConfirmKey(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) onLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.login.next()
		return m, nil
	case "esc":
		return m, tea.Quit
	case "enter":
		req := models.LoginRequest{
			Email:    strings.TrimSpace(m.login.email.Value()),
			Password: m.login.password.Value(),
		}
		return m, func() tea.Msg {
			_, err := m.deps.Auth.Login(m.ctx, req)
			return loginMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m Model) onListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.deps.List.SetSearch(m.search.Value())
		return m, cmd
	}

	ctx := m.ctx
	list := m.deps.List
	step := 1
	if m.layout == layoutGrid {
		step = gridColumns
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "up", "k":
		m.moveCursor(-step)
	case "down", "j":
		m.moveCursor(step)
	case "h":
		if m.layout == layoutGrid {
			m.moveCursor(-1)
		}
	case "l":
		if m.layout == layoutGrid {
			m.moveCursor(1)
		}
	case "right", "n", "]":
		return m, action(func() error { return list.NextPage(ctx) })
	case "left", "p", "[":
		return m, action(func() error { return list.PrevPage(ctx) })
	case "+", "-":
		size := cyclePageSize(m.list.State.PageSize, msg.String() == "+")
		return m, action(func() error { return list.SetPageSize(ctx, size) })
	case "s":
		field := nextSortField(m.list.State.SortBy)
		order := m.list.State.SortOrder
		return m, action(func() error { return list.SetSort(ctx, field, order) })
	case "o":
		field := m.list.State.SortBy
		order := m.list.State.SortOrder.Toggle()
		return m, action(func() error { return list.SetSort(ctx, field, order) })
	case "r":
		return m, action(func() error { return list.Refetch(ctx) })
	case "v":
		if m.layout == layoutList {
			m.layout = layoutGrid
		} else {
			m.layout = layoutList
		}
	case "t":
		theme := m.deps.Theme
		return m, func() tea.Msg {
			mode, err := theme.Toggle(ctx)
			return themeMsg{mode: mode, err: err}
		}
	case "E":
		if m.deps.Exports == nil {
			return m, nil
		}
		exports, items, state := m.deps.Exports, m.list.Items, m.list.State
		return m, action(func() error {
			_, err := exports.Submit(exportFormat, items, state)
			return err
		})
	case "x":
		if m.note != nil {
			m.deps.Notifications.Dismiss(m.note.ID)
		}
	case "enter":
		if emp, ok := m.selected(); ok {
			m.target = &emp
			m.screen = screenDetail
		}
	case "a":
		m.form = newEmployeeForm(m.deps.Mutations.OpenCreate())
		m.screen = screenForm
	case "e":
		if emp, ok := m.selected(); ok {
			m.form = newEmployeeForm(m.deps.Mutations.OpenEdit(emp))
			m.screen = screenForm
		}
	case "d":
		if emp, ok := m.selected(); ok {
			m.target = &emp
			m.screen = screenConfirm
		}
	case "L":
		session := m.deps.Session
		return m, func() tea.Msg { return logoutMsg{err: session.Logout(ctx)} }
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.list.Items) {
		return
	}
	m.cursor = next
	m.table.SetCursor(next)
}

func (m Model) onFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.deps.Mutations.CloseDialog()
		m.form = employeeForm{}
		m.screen = screenList
		return m, nil
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "enter", "ctrl+s":
		if msg.String() == "enter" && m.form.focus != fieldCount-1 {
			m.form.move(1)
			return m, nil
		}
		values, err := m.form.values()
		if err != nil {
			m.form.errors = appErrors.FromError(err).Fields
			return m, nil
		}
		m.form.errors = nil
		mutations := m.deps.Mutations
		ctx := m.ctx
		dialog := mutations.Dialog()
		return m, func() tea.Msg {
			if dialog.Mode == models.DialogEdit {
				_, err := mutations.Update(ctx, dialog.EmployeeID, values)
				return mutationMsg{err: err}
			}
			_, err := mutations.Create(ctx, values)
			return mutationMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) onConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.target == nil {
		m.screen = screenList
		return m, nil
	}
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
		answer = false
	default:
		return m, nil
	}
	emp := *m.target
	mutations := m.deps.Mutations
	ctx := m.ctx
	return m, func() tea.Msg {
		return deleteMsg{err: mutations.Delete(ctx, emp, func(models.Employee) bool { return answer })}
	}
}

// exportFormat is what the browser's export key writes.
const exportFormat = "csv"

func action(fn func() error) tea.Cmd {
	return func() tea.Msg { return actionMsg{err: fn()} }
}

func cyclePageSize(current int, up bool) int {
	sizes := config.AllowedPageSizes
	for i, s := range sizes {
		if s != current {
			continue
		}
		if up {
			return sizes[(i+1)%len(sizes)]
		}
		return sizes[(i-1+len(sizes))%len(sizes)]
	}
	return config.DefaultPageSize
}

func nextSortField(current models.SortField) models.SortField {
	for i, f := range models.SortFields {
		if f == current {
			return models.SortFields[(i+1)%len(models.SortFields)]
		}
	}
	return models.SortByName
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString("\n\n")

	switch m.screen {
	case screenLoading:
		sb.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("Checking session..."))
	case screenLogin:
		sb.WriteString(m.styles.Title.Render("Sign in"))
		sb.WriteString("\n\n")
		sb.WriteString(m.login.view())
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Help.Render("tab switch field • enter sign in • esc quit"))
	case screenList:
		sb.WriteString(m.listView())
	case screenDetail:
		sb.WriteString(m.detailView())
	case screenForm:
		title := "New employee"
		if m.deps.Mutations.Dialog().Mode == models.DialogEdit {
			title = "Edit employee"
		}
		sb.WriteString(m.styles.Title.Render(title))
		sb.WriteString("\n\n")
		sb.WriteString(m.form.view(m.styles))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("tab next field • enter on last field or ctrl+s save • esc cancel"))
	case screenConfirm:
		if m.target != nil {
			sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Delete %s?", m.target.Name)))
			sb.WriteString("\n\n")
			sb.WriteString(m.styles.Help.Render("y delete • n cancel"))
		}
	}

	if m.status != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Error.Render(m.status))
	}
	if m.note != nil {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Notification(*m.note))
	}
	return sb.String() + "\n"
}

func (m Model) header() string {
	title := m.styles.Accent.Render("Employee Admin")
	who := ""
	if m.user != nil {
		who = m.styles.Muted.Render(fmt.Sprintf("%s (%s)", m.user.Email, m.user.Role))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", who, "  ", m.styles.Muted.Render(string(m.styles.Mode)))
}

func (m Model) listView() string {
	var sb strings.Builder
	state := m.list.State
	sb.WriteString(m.search.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("page %d • %d per page • sort %s %s", state.Page+1, state.PageSize, state.SortBy, state.SortOrder)))
	if m.list.Loading {
		sb.WriteString(" " + m.spinner.View())
	}
	sb.WriteString("\n\n")

	switch {
	case m.list.Err != nil:
		sb.WriteString(m.styles.Error.Render(appErrors.UserMessage(m.list.Err)))
	case len(m.list.Items) == 0 && !m.list.Loading:
		sb.WriteString(m.styles.Muted.Render("No employees found."))
	case m.layout == layoutGrid:
		sb.WriteString(m.gridView())
	default:
		sb.WriteString(m.table.View())
	}

	sb.WriteString("\n\n")
	next := "last page"
	if m.list.HasNextPage {
		next = "n next page"
	}
	sb.WriteString(m.styles.Help.Render(fmt.Sprintf("/ search • %s • p prev • +/- size • s sort • o order • v view • E export • a add • e edit • d delete • t theme • L logout • q quit", next)))
	return sb.String()
}

func (m Model) gridView() string {
	rows := make([]string, 0, len(m.list.Items)/gridColumns+1)
	var cards []string
	for i, e := range m.list.Items {
		style := m.styles.Card
		if i == m.cursor {
			style = m.styles.Selected
		}
		body := fmt.Sprintf("%s\n%d yrs • %s\n%s%% attendance", m.styles.Title.Render(e.Name), e.Age, e.Class, strconv.FormatFloat(e.Attendance, 'f', -1, 64))
		cards = append(cards, style.Render(body))
		if len(cards) == gridColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
			cards = nil
		}
	}
	if len(cards) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) detailView() string {
	if m.target == nil {
		return ""
	}
	e := m.target
	lines := []string{
		m.styles.Title.Render(e.Name),
		fmt.Sprintf("ID:         %s", e.ID),
		fmt.Sprintf("Age:        %d", e.Age),
		fmt.Sprintf("Class:      %s", e.Class),
		fmt.Sprintf("Subjects:   %s", strings.Join(e.Subjects, ", ")),
		fmt.Sprintf("Attendance: %s%%", strconv.FormatFloat(e.Attendance, 'f', -1, 64)),
	}
	if e.CreatedAt != "" {
		lines = append(lines, fmt.Sprintf("Created:    %s", e.CreatedAt))
	}
	if e.UpdatedAt != "" {
		lines = append(lines, fmt.Sprintf("Updated:    %s", e.UpdatedAt))
	}
	lines = append(lines, "", m.styles.Help.Render("esc back"))
	return strings.Join(lines, "\n")
}
