package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

func TestFormValuesRoundTrip(t *testing.T) {
	created := models.Employee{
		ID:         "e1",
		Name:       "Anna",
		Age:        31,
		Class:      "10-A",
		Subjects:   []string{"Math", "Physics"},
		Attendance: 97.5,
		CreatedAt:  "2024-01-01T00:00:00Z",
	}
	submitted := EmployeeFormValues{Name: "Anna", Age: 31, Class: "10-A", Subjects: []string{"Math", "Physics"}, Attendance: 97.5}

	assert.Equal(t, submitted, FormValuesFromEmployee(created))
}

func TestFormValuesFromEmployeeCopiesSubjects(t *testing.T) {
	emp := models.Employee{Subjects: []string{"Math"}}
	values := FormValuesFromEmployee(emp)
	values.AddSubject("Art")
	assert.Equal(t, []string{"Math"}, emp.Subjects)
}

func TestAddSubjectKeepsOrderAndRejectsDuplicates(t *testing.T) {
	values := DefaultFormValues()
	assert.True(t, values.AddSubject("Math"))
	assert.True(t, values.AddSubject(" Art "))
	assert.False(t, values.AddSubject("Math"))
	assert.False(t, values.AddSubject("   "))
	assert.Equal(t, []string{"Math", "Art"}, values.Subjects)

	values.RemoveSubject("Math")
	assert.Equal(t, []string{"Art"}, values.Subjects)
}

func TestParseSubjects(t *testing.T) {
	assert.Equal(t, []string{"Math", "Art"}, ParseSubjects("Math, Art,,Math"))
	assert.Empty(t, ParseSubjects(""))
}

func TestDefaultFormValues(t *testing.T) {
	values := DefaultFormValues()
	assert.Equal(t, 18, values.Age)
	assert.Equal(t, 100.0, values.Attendance)
	assert.Empty(t, values.Name)
}

func TestValidateEmployeeForm(t *testing.T) {
	v := validator.New()
	valid := EmployeeFormValues{Name: "Anna", Age: 0, Class: "A", Subjects: []string{"Math"}, Attendance: 100}
	require.NoError(t, Validate(v, valid, "invalid employee"))

	cases := map[string]struct {
		values EmployeeFormValues
		field  string
	}{
		"blank name":        {EmployeeFormValues{Name: "  ", Class: "A"}.Normalize(), "name"},
		"age too high":      {EmployeeFormValues{Name: "A", Age: 121, Class: "A"}, "age"},
		"negative age":      {EmployeeFormValues{Name: "A", Age: -1, Class: "A"}, "age"},
		"missing class":     {EmployeeFormValues{Name: "A"}, "class"},
		"duplicate subject": {EmployeeFormValues{Name: "A", Class: "A", Subjects: []string{"Math", "Math"}}, "subjects"},
		"attendance > 100":  {EmployeeFormValues{Name: "A", Class: "A", Attendance: 100.5}, "attendance"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(v, tc.values, "invalid employee")
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
			assert.Contains(t, appErrors.FromError(err).Fields, tc.field)
		})
	}
}

func TestInputAlwaysCarriesSubjectsArray(t *testing.T) {
	input := EmployeeFormValues{Name: "A"}.Input()
	assert.Equal(t, []string{}, input["subjects"])
}
