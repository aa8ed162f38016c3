package models

// DialogMode says whether the employee form creates or edits a record.
type DialogMode string

const (
	DialogClosed DialogMode = ""
	DialogCreate DialogMode = "create"
	DialogEdit   DialogMode = "edit"
)

// FormDialog is the state of the employee form dialog.
type FormDialog struct {
	Mode       DialogMode
	EmployeeID string
	Initial    *Employee
}

// Open reports whether the dialog is showing.
func (d FormDialog) Open() bool {
	return d.Mode != DialogClosed
}
