package repository

import (
	"context"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
	"github.com/noah-isme/employee-admin-client/pkg/gateway"
)

// GraphQLDoer executes a single GraphQL operation.
type GraphQLDoer interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// EmployeeRepository reads and writes employees through the GraphQL gateway.
// Every call goes to the network; nothing is cached.
type EmployeeRepository struct {
	gql GraphQLDoer
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(gql GraphQLDoer) *EmployeeRepository {
	return &EmployeeRepository{gql: gql}
}

// List returns one page of employees.
func (r *EmployeeRepository) List(ctx context.Context, params dto.ListParams) ([]models.Employee, error) {
	var out struct {
		Employees []models.Employee `json:"employees"`
	}
	req := gateway.Request{OperationName: "GetEmployees", Query: getEmployeesQuery, Variables: params.Variables()}
	if err := r.gql.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Employees == nil {
		out.Employees = []models.Employee{}
	}
	return out.Employees, nil
}

// FindByID returns a single employee.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var out struct {
		Employee *models.Employee `json:"employee"`
	}
	req := gateway.Request{OperationName: "GetEmployee", Query: getEmployeeQuery, Variables: map[string]any{"id": id}}
	if err := r.gql.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Employee == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	return out.Employee, nil
}

// Create inserts a new employee and returns the stored record.
func (r *EmployeeRepository) Create(ctx context.Context, values dto.EmployeeFormValues) (*models.Employee, error) {
	var out struct {
		CreateEmployee *models.Employee `json:"createEmployee"`
	}
	req := gateway.Request{
		OperationName: "CreateEmployee",
		Query:         createEmployeeMutation,
		Variables:     map[string]any{"input": values.Input()},
	}
	if err := r.gql.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.CreateEmployee == nil {
		return nil, appErrors.Clone(appErrors.ErrRemote, "employee was not created")
	}
	return out.CreateEmployee, nil
}

// Update replaces the editable fields of employee id.
func (r *EmployeeRepository) Update(ctx context.Context, id string, values dto.EmployeeFormValues) (*models.Employee, error) {
	var out struct {
		UpdateEmployee *models.Employee `json:"updateEmployee"`
	}
	req := gateway.Request{
		OperationName: "UpdateEmployee",
		Query:         updateEmployeeMutation,
		Variables:     map[string]any{"id": id, "input": values.Input()},
	}
	if err := r.gql.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.UpdateEmployee == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	return out.UpdateEmployee, nil
}

// Delete removes employee id and reports whether the service deleted it.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteEmployee bool `json:"deleteEmployee"`
	}
	req := gateway.Request{OperationName: "DeleteEmployee", Query: deleteEmployeeMutation, Variables: map[string]any{"id": id}}
	if err := r.gql.Do(ctx, req, &out); err != nil {
		return false, err
	}
	return out.DeleteEmployee, nil
}
