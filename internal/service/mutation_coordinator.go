package service

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// Notification texts for successful mutations.
const (
	MessageEmployeeAdded   = "Employee added!"
	MessageEmployeeUpdated = "Employee updated!"
	MessageEmployeeDeleted = "Employee deleted!"
)

const messageDeleteRejected = "Employee could not be deleted"

type employeeWriter interface {
	Create(ctx context.Context, values dto.EmployeeFormValues) (*models.Employee, error)
	Update(ctx context.Context, id string, values dto.EmployeeFormValues) (*models.Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type listRefetcher interface {
	Refetch(ctx context.Context) error
}

type mutationNotifier interface {
	Success(message string) models.Notification
	Error(message string) models.Notification
}

// ConfirmFunc asks the user to confirm deleting emp.
type ConfirmFunc func(emp models.Employee) bool

// MutationCoordinator runs create, update and delete, then reports the
// outcome and refreshes the list with its current state.
type MutationCoordinator struct {
	repo      employeeWriter
	list      listRefetcher
	notifier  mutationNotifier
	validator *validator.Validate
	logger    *zap.Logger

	mu     sync.Mutex
	dialog models.FormDialog
}

// NewMutationCoordinator constructs a MutationCoordinator.
func NewMutationCoordinator(repo employeeWriter, list listRefetcher, notifier mutationNotifier, validate *validator.Validate, logger *zap.Logger) *MutationCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MutationCoordinator{repo: repo, list: list, notifier: notifier, validator: validate, logger: logger}
}

// OpenCreate shows a blank form.
func (m *MutationCoordinator) OpenCreate() dto.EmployeeFormValues {
	m.mu.Lock()
	m.dialog = models.FormDialog{Mode: models.DialogCreate}
	m.mu.Unlock()
	return dto.DefaultFormValues()
}

// OpenEdit shows the form prefilled from emp.
func (m *MutationCoordinator) OpenEdit(emp models.Employee) dto.EmployeeFormValues {
	initial := emp
	m.mu.Lock()
	m.dialog = models.FormDialog{Mode: models.DialogEdit, EmployeeID: emp.ID, Initial: &initial}
	m.mu.Unlock()
	return dto.FormValuesFromEmployee(emp)
}

// CloseDialog hides the form.
func (m *MutationCoordinator) CloseDialog() {
	m.mu.Lock()
	m.dialog = models.FormDialog{}
	m.mu.Unlock()
}

// Dialog returns the form dialog state.
func (m *MutationCoordinator) Dialog() models.FormDialog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialog
}

// Create validates values and creates an employee.
func (m *MutationCoordinator) Create(ctx context.Context, values dto.EmployeeFormValues) (*models.Employee, error) {
	values = values.Normalize()
	if err := dto.Validate(m.validator, values, "invalid employee"); err != nil {
		return nil, err
	}
	created, err := m.repo.Create(ctx, values)
	if err != nil {
		return nil, m.fail("create", err)
	}
	m.succeed(ctx, "create", created.ID, MessageEmployeeAdded)
	return created, nil
}

// Update validates values and replaces employee id.
func (m *MutationCoordinator) Update(ctx context.Context, id string, values dto.EmployeeFormValues) (*models.Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("invalid employee", map[string]string{"id": "id is required"})
	}
	values = values.Normalize()
	if err := dto.Validate(m.validator, values, "invalid employee"); err != nil {
		return nil, err
	}
	updated, err := m.repo.Update(ctx, id, values)
	if err != nil {
		return nil, m.fail("update", err)
	}
	m.succeed(ctx, "update", id, MessageEmployeeUpdated)
	return updated, nil
}

// Delete removes emp after confirm approves it. A declined confirmation
// returns ErrCancelled without contacting the service.
func (m *MutationCoordinator) Delete(ctx context.Context, emp models.Employee, confirm ConfirmFunc) error {
	if strings.TrimSpace(emp.ID) == "" {
		return appErrors.Validation("invalid employee", map[string]string{"id": "id is required"})
	}
	if confirm == nil || !confirm(emp) {
		m.logger.Debug("delete cancelled", zap.String("employee_id", emp.ID))
		return appErrors.Clone(appErrors.ErrCancelled, "delete cancelled")
	}
	deleted, err := m.repo.Delete(ctx, emp.ID)
	if err != nil {
		return m.fail("delete", err)
	}
	if !deleted {
		return m.fail("delete", appErrors.Clone(appErrors.ErrRemote, messageDeleteRejected))
	}
	m.succeed(ctx, "delete", emp.ID, MessageEmployeeDeleted)
	return nil
}

func (m *MutationCoordinator) fail(op string, err error) error {
	m.logger.Warn("employee mutation failed", zap.String("operation", op), zap.Error(err))
	if m.notifier != nil {
		m.notifier.Error(appErrors.UserMessage(err))
	}
	return err
}

func (m *MutationCoordinator) succeed(ctx context.Context, op, id, message string) {
	m.logger.Info("employee mutation succeeded", zap.String("operation", op), zap.String("employee_id", id))
	if m.notifier != nil {
		m.notifier.Success(message)
	}
	m.CloseDialog()
	if m.list == nil {
		return
	}
	if err := m.list.Refetch(ctx); err != nil {
		m.logger.Warn("refetch after mutation failed", zap.String("operation", op), zap.Error(err))
	}
}
