package repository

const employeeFields = `
      id
      name
      age
      class
      subjects
      attendance
      createdAt
      updatedAt`

const (
	getEmployeesQuery = `query GetEmployees($filter: EmployeeFilter, $page: Int, $limit: Int, $sortBy: String, $sortOrder: String) {
    employees(filter: $filter, page: $page, limit: $limit, sortBy: $sortBy, sortOrder: $sortOrder) {` + employeeFields + `
    }
  }`

	getEmployeeQuery = `query GetEmployee($id: ID!) {
    employee(id: $id) {` + employeeFields + `
    }
  }`

	createEmployeeMutation = `mutation CreateEmployee($input: EmployeeInput!) {
    createEmployee(input: $input) {` + employeeFields + `
    }
  }`

	updateEmployeeMutation = `mutation UpdateEmployee($id: ID!, $input: EmployeeInput!) {
    updateEmployee(id: $id, input: $input) {` + employeeFields + `
    }
  }`

	deleteEmployeeMutation = `mutation DeleteEmployee($id: ID!) {
    deleteEmployee(id: $id)
  }`

	meQuery = `query Me {
    me {
      id
      email
      role
    }
  }`

	loginMutation = `mutation Login($email: String!, $password: String!) {
    login(email: $email, password: $password) {
      token
      user {
        id
        email
        role
      }
    }
  }`

	registerMutation = `mutation Register($email: String!, $password: String!, $role: UserRole!) {
    register(email: $email, password: $password, role: $role) {
      token
      user {
        id
        email
        role
      }
    }
  }`
)
