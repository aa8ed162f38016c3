package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// loginForm collects credentials.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "Email:    "
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{email: email, password: password}
}

func (f *loginForm) next() {
	f.focus = (f.focus + 1) % 2
	if f.focus == 0 {
		f.password.Blur()
		f.email.Focus()
		return
	}
	f.email.Blur()
	f.password.Focus()
}

func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (f loginForm) view() string {
	return f.email.View() + "\n" + f.password.View()
}

const (
	fieldName = iota
	fieldAge
	fieldClass
	fieldSubjects
	fieldAttendance
	fieldCount
)

var fieldKeys = [fieldCount]string{"name", "age", "class", "subjects", "attendance"}

// employeeForm edits the create and update payload.
type employeeForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	errors map[string]string
}

func newEmployeeForm(values dto.EmployeeFormValues) employeeForm {
	labels := [fieldCount]string{"Name:       ", "Age:        ", "Class:      ", "Subjects:   ", "Attendance: "}
	initial := [fieldCount]string{
		values.Name,
		strconv.Itoa(values.Age),
		values.Class,
		strings.Join(values.Subjects, ", "),
		strconv.FormatFloat(values.Attendance, 'f', -1, 64),
	}
	var f employeeForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = labels[i]
		in.CharLimit = 256
		in.SetValue(initial[i])
		f.inputs[i] = in
	}
	f.inputs[fieldSubjects].Placeholder = "comma separated"
	f.inputs[fieldName].Focus()
	return f
}

func (f *employeeForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f employeeForm) update(msg tea.Msg) (employeeForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// values parses the inputs. Unparseable numbers are reported as field errors
// before any validation runs.
func (f employeeForm) values() (dto.EmployeeFormValues, error) {
	values := dto.EmployeeFormValues{
		Name:     f.inputs[fieldName].Value(),
		Class:    f.inputs[fieldClass].Value(),
		Subjects: dto.ParseSubjects(f.inputs[fieldSubjects].Value()),
	}
	fields := map[string]string{}
	age, err := strconv.Atoi(strings.TrimSpace(f.inputs[fieldAge].Value()))
	if err != nil {
		fields["age"] = "age must be a whole number"
	}
	values.Age = age
	attendance, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[fieldAttendance].Value()), 64)
	if err != nil {
		fields["attendance"] = "attendance must be a number"
	}
	values.Attendance = attendance
	if len(fields) > 0 {
		return values, appErrors.Validation("invalid employee", fields)
	}
	return values, nil
}

func (f employeeForm) view(s Styles) string {
	var sb strings.Builder
	for i, in := range f.inputs {
		sb.WriteString(in.View())
		if msg, ok := f.errors[fieldKeys[i]]; ok {
			sb.WriteString("  ")
			sb.WriteString(s.Error.Render(msg))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
