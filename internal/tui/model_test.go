package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/service"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

type fakeGate struct{ decision service.Decision }

func (g fakeGate) Resolve(context.Context) service.Decision { return g.decision }

type fakeList struct {
	snap      service.ListSnapshot
	mounted   int
	pageSizes []int
	sorts     []models.SortField
	searches  []string
}

func (f *fakeList) Mount(context.Context) error { f.mounted++; return nil }

func (f *fakeList) Snapshot() service.ListSnapshot { return f.snap }

func (f *fakeList) Subscribe(func(service.ListSnapshot)) func() { return func() {} }

func (f *fakeList) NextPage(context.Context) error { return nil }

func (f *fakeList) PrevPage(context.Context) error { return nil }

func (f *fakeList) Refetch(context.Context) error { return nil }

func (f *fakeList) SetSearch(text string) { f.searches = append(f.searches, text) }

func (f *fakeList) SetPageSize(_ context.Context, size int) error {
	f.pageSizes = append(f.pageSizes, size)
	return nil
}

func (f *fakeList) SetSort(_ context.Context, field models.SortField, _ models.SortOrder) error {
	f.sorts = append(f.sorts, field)
	return nil
}

type fakeMutator struct {
	dialog    models.FormDialog
	created   []dto.EmployeeFormValues
	confirms  []bool
	createErr error
}

func (f *fakeMutator) OpenCreate() dto.EmployeeFormValues {
	f.dialog = models.FormDialog{Mode: models.DialogCreate}
	return dto.DefaultFormValues()
}

func (f *fakeMutator) OpenEdit(emp models.Employee) dto.EmployeeFormValues {
	f.dialog = models.FormDialog{Mode: models.DialogEdit, EmployeeID: emp.ID}
	return dto.FormValuesFromEmployee(emp)
}

func (f *fakeMutator) CloseDialog() { f.dialog = models.FormDialog{} }

func (f *fakeMutator) Dialog() models.FormDialog { return f.dialog }

func (f *fakeMutator) Create(_ context.Context, values dto.EmployeeFormValues) (*models.Employee, error) {
	f.created = append(f.created, values)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.dialog = models.FormDialog{}
	return &models.Employee{ID: "1", Name: values.Name}, nil
}

func (f *fakeMutator) Update(context.Context, string, dto.EmployeeFormValues) (*models.Employee, error) {
	return &models.Employee{}, nil
}

func (f *fakeMutator) Delete(_ context.Context, emp models.Employee, confirm service.ConfirmFunc) error {
	ok := confirm(emp)
	f.confirms = append(f.confirms, ok)
	if !ok {
		return appErrors.ErrCancelled
	}
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func listModel(t *testing.T) (Model, *fakeList, *fakeMutator) {
	t.Helper()
	list := &fakeList{snap: service.ListSnapshot{
		State: models.DefaultListQueryState(8),
		Items: []models.Employee{{ID: "e1", Name: "Anna", Age: 30, Class: "A", Attendance: 95}, {ID: "e2", Name: "Bo", Age: 41, Class: "B"}},
	}}
	mut := &fakeMutator{}
	user := &models.User{ID: "u1", Email: "admin@example.com", Role: models.RoleAdmin}
	m := New(context.Background(), Deps{
		Gate:      fakeGate{decision: service.Decision{State: service.GateAuthenticated, User: user}},
		List:      list,
		Mutations: mut,
	}, models.ThemeLight)

	next, cmd := m.Update(gateMsg{decision: service.Decision{State: service.GateAuthenticated, User: user}})
	m = next.(Model)
	require.Equal(t, screenList, m.screen)
	next, _ = m.Update(cmd())
	m = next.(Model)
	require.Equal(t, 1, list.mounted)
	return m, list, mut
}

func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestUnauthenticatedGateShowsLogin(t *testing.T) {
	m := New(context.Background(), Deps{}, models.ThemeDark)
	next, _ := m.Update(gateMsg{decision: service.Decision{State: service.GateUnauthenticated, Redirect: service.LoginRoute}})
	m = next.(Model)
	assert.Equal(t, screenLogin, m.screen)
	assert.Contains(t, m.View(), "Sign in")
}

func TestListKeysDriveController(t *testing.T) {
	m, list, _ := listModel(t)

	m = run(t, m, key("+"))
	m = run(t, m, key("s"))
	assert.Equal(t, []int{16}, list.pageSizes)
	assert.Equal(t, []models.SortField{models.SortByAge}, list.sorts)

	next, _ := m.Update(key("/"))
	m = next.(Model)
	require.True(t, m.searching)
	m = run(t, m, key("a"))
	m = run(t, m, key("n"))
	assert.Equal(t, []string{"a", "an"}, list.searches)
}

func TestDeleteDeclinedIssuesNoDelete(t *testing.T) {
	m, _, mut := listModel(t)

	m = run(t, m, key("d"))
	require.Equal(t, screenConfirm, m.screen)
	m = run(t, m, key("n"))

	assert.Equal(t, []bool{false}, mut.confirms)
	assert.Equal(t, screenList, m.screen)
}

func TestDeleteConfirmed(t *testing.T) {
	m, _, mut := listModel(t)

	m = run(t, m, key("j"))
	m = run(t, m, key("d"))
	require.Equal(t, "e2", m.target.ID)
	m = run(t, m, key("y"))

	assert.Equal(t, []bool{true}, mut.confirms)
}

func TestFormRemoteFailureStaysOpen(t *testing.T) {
	m, _, mut := listModel(t)
	mut.createErr = appErrors.Clone(appErrors.ErrRemote, "Name already exists")

	m = run(t, m, key("a"))
	require.Equal(t, screenForm, m.screen)
	m.form.inputs[fieldName].SetValue("Anna")
	m.form.inputs[fieldClass].SetValue("A")
	m = run(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, mut.created, 1)
	assert.Equal(t, "Anna", mut.created[0].Name)
	assert.Equal(t, screenForm, m.screen)
}

func TestFormRejectsNonNumericAge(t *testing.T) {
	m, _, mut := listModel(t)

	m = run(t, m, key("a"))
	m.form.inputs[fieldAge].SetValue("old")
	m = run(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Empty(t, mut.created)
	assert.Contains(t, m.form.errors, "age")
}

func TestGridToggleAndCursor(t *testing.T) {
	m, _, _ := listModel(t)
	m = run(t, m, key("v"))
	assert.Equal(t, layoutGrid, m.layout)
	m = run(t, m, key("l"))
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "Bo")
}

func TestCyclePageSize(t *testing.T) {
	assert.Equal(t, 16, cyclePageSize(8, true))
	assert.Equal(t, 4, cyclePageSize(32, true))
	assert.Equal(t, 32, cyclePageSize(4, false))
	assert.Equal(t, 8, cyclePageSize(10, true))
}

func TestNextSortField(t *testing.T) {
	assert.Equal(t, models.SortByAge, nextSortField(models.SortByName))
	assert.Equal(t, models.SortByName, nextSortField(models.SortByAttendance))
}

func TestStylesFollowTheme(t *testing.T) {
	assert.Equal(t, models.ThemeDark, NewStyles(models.ThemeDark).Mode)
	assert.Equal(t, models.ThemeLight, NewStyles(models.ThemeMode("")).Mode)
}

type fakeExporter struct {
	formats []string
	counts  []int
}

func (f *fakeExporter) Submit(format string, items []models.Employee, _ models.ListQueryState) (string, error) {
	f.formats = append(f.formats, format)
	f.counts = append(f.counts, len(items))
	return "job-1", nil
}

func TestExportKeySubmitsCurrentPage(t *testing.T) {
	m, _, _ := listModel(t)
	m = run(t, m, key("E"))

	exports := &fakeExporter{}
	m.deps.Exports = exports
	m = run(t, m, key("E"))

	assert.Equal(t, []string{"csv"}, exports.formats)
	assert.Equal(t, []int{2}, exports.counts)
	assert.Equal(t, screenList, m.screen)
}

func TestListEventsKeepLatestSnapshot(t *testing.T) {
	m := New(context.Background(), Deps{}, models.ThemeLight)
	for i := 0; i < 100; i++ {
		replaceLatest(m.listEvents, listMsg{snap: service.ListSnapshot{Loading: true}})
	}
	final := service.ListSnapshot{Items: []models.Employee{{ID: "e9", Name: "Zed"}}}
	replaceLatest(m.listEvents, listMsg{snap: final})

	msg := m.waitForEvent()()
	got, ok := msg.(listMsg)
	require.True(t, ok)
	assert.False(t, got.snap.Loading)
	assert.Equal(t, final.Items, got.snap.Items)
	assert.Empty(t, m.listEvents)
}

func TestNotificationEventsAreNotBlockedByListEvents(t *testing.T) {
	m := New(context.Background(), Deps{}, models.ThemeLight)
	replaceLatest(m.listEvents, listMsg{})
	replaceLatest(m.noteEvents, noteMsg{note: &models.Notification{ID: "n1", Message: "Employee added!"}})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		switch msg := m.waitForEvent()().(type) {
		case listMsg:
			seen["list"] = true
		case noteMsg:
			seen["note"] = true
			assert.Equal(t, "Employee added!", msg.note.Message)
		}
	}
	assert.Equal(t, map[string]bool{"list": true, "note": true}, seen)
}
