package dto

import (
	"strings"

	"github.com/noah-isme/employee-admin-client/internal/models"
)

// EmployeeFormValues is the payload of the create and update forms. It maps
// one-to-one onto the service's EmployeeInput.
type EmployeeFormValues struct {
	Name       string   `json:"name" validate:"required"`
	Age        int      `json:"age" validate:"gte=0,lte=120"`
	Class      string   `json:"class" validate:"required"`
	Subjects   []string `json:"subjects" validate:"unique,dive,required"`
	Attendance float64  `json:"attendance" validate:"gte=0,lte=100"`
}

// DefaultFormValues are the values a blank create form starts with.
func DefaultFormValues() EmployeeFormValues {
	return EmployeeFormValues{Age: 18, Attendance: 100, Subjects: []string{}}
}

// FormValuesFromEmployee maps a record onto the edit form.
func FormValuesFromEmployee(e models.Employee) EmployeeFormValues {
	subjects := make([]string, len(e.Subjects))
	copy(subjects, e.Subjects)
	return EmployeeFormValues{
		Name:       e.Name,
		Age:        e.Age,
		Class:      e.Class,
		Subjects:   subjects,
		Attendance: e.Attendance,
	}
}

// Normalize trims text fields so blank input fails the required checks.
func (v EmployeeFormValues) Normalize() EmployeeFormValues {
	out := v
	out.Name = strings.TrimSpace(v.Name)
	out.Class = strings.TrimSpace(v.Class)
	out.Subjects = make([]string, 0, len(v.Subjects))
	for _, s := range v.Subjects {
		out.Subjects = append(out.Subjects, strings.TrimSpace(s))
	}
	return out
}

// AddSubject appends label unless it is blank or already present.
func (v *EmployeeFormValues) AddSubject(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, existing := range v.Subjects {
		if existing == label {
			return false
		}
	}
	v.Subjects = append(v.Subjects, label)
	return true
}

// RemoveSubject drops label, keeping the order of the rest.
func (v *EmployeeFormValues) RemoveSubject(label string) {
	kept := v.Subjects[:0]
	for _, existing := range v.Subjects {
		if existing != label {
			kept = append(kept, existing)
		}
	}
	v.Subjects = kept
}

// ParseSubjects splits a comma separated list into distinct labels.
func ParseSubjects(raw string) []string {
	values := EmployeeFormValues{Subjects: []string{}}
	for _, part := range strings.Split(raw, ",") {
		values.AddSubject(part)
	}
	return values.Subjects
}

// Input renders the values as GraphQL EmployeeInput variables.
func (v EmployeeFormValues) Input() map[string]any {
	subjects := v.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	return map[string]any{
		"name":       v.Name,
		"age":        v.Age,
		"class":      v.Class,
		"subjects":   subjects,
		"attendance": v.Attendance,
	}
}
