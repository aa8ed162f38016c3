package models

// Employee is a record returned by the employee service. Timestamps are kept in
// the service's string form.
type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Class      string   `json:"class"`
	Subjects   []string `json:"subjects"`
	Attendance float64  `json:"attendance"`
	CreatedAt  string   `json:"createdAt,omitempty"`
	UpdatedAt  string   `json:"updatedAt,omitempty"`
}
