package tui

import (
	"context"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/internal/service"
)

type gate interface {
	Resolve(ctx context.Context) service.Decision
}

type authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
}

type sessionEnder interface {
	Logout(ctx context.Context) error
}

type listController interface {
	Mount(ctx context.Context) error
	Snapshot() service.ListSnapshot
	Subscribe(fn func(service.ListSnapshot)) func()
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	SetPageSize(ctx context.Context, size int) error
	SetSort(ctx context.Context, field models.SortField, order models.SortOrder) error
	SetSearch(text string)
	Refetch(ctx context.Context) error
}

type mutator interface {
	OpenCreate() dto.EmployeeFormValues
	OpenEdit(emp models.Employee) dto.EmployeeFormValues
	CloseDialog()
	Dialog() models.FormDialog
	Create(ctx context.Context, values dto.EmployeeFormValues) (*models.Employee, error)
	Update(ctx context.Context, id string, values dto.EmployeeFormValues) (*models.Employee, error)
	Delete(ctx context.Context, emp models.Employee, confirm service.ConfirmFunc) error
}

type notifier interface {
	Current() (models.Notification, bool)
	Subscribe(fn func(*models.Notification)) func()
	Dismiss(id string) bool
}

type themeStore interface {
	Get(ctx context.Context) (models.ThemeMode, error)
	Toggle(ctx context.Context) (models.ThemeMode, error)
}

type exporter interface {
	Submit(format string, items []models.Employee, state models.ListQueryState) (string, error)
}

// Deps are the services the browser drives. Exports is optional.
type Deps struct {
	Gate          gate
	Auth          authenticator
	Session       sessionEnder
	List          listController
	Mutations     mutator
	Notifications notifier
	Theme         themeStore
	Exports       exporter
}
