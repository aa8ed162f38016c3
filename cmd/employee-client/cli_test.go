package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "secret1"
	testToken    = "tok-admin"
)

// fakeGraphQL is an in-memory employee service speaking the client's operations.
type fakeGraphQL struct {
	mu        sync.Mutex
	employees []models.Employee
	ops       []string
	nextID    int
}

type graphQLBody struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func newFakeGraphQL(t *testing.T, seed int) *fakeGraphQL {
	t.Helper()
	f := &fakeGraphQL{}
	for i := 1; i <= seed; i++ {
		f.add(fmt.Sprintf("Employee %02d", i), "A1", 20+i)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/graphql", f.handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("APP_ENV", "development")
	t.Setenv("GRAPHQL_ENDPOINT", srv.URL+"/graphql")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "storage.json"))
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("LOG_OUTPUT", filepath.Join(dir, "client.log"))
	t.Setenv("METRICS_ADDR", "")
	return f
}

func (f *fakeGraphQL) add(name, class string, age int) models.Employee {
	f.nextID++
	emp := models.Employee{
		ID:         fmt.Sprintf("e-%d", f.nextID),
		Name:       name,
		Age:        age,
		Class:      class,
		Subjects:   []string{"Math"},
		Attendance: 95,
	}
	f.employees = append(f.employees, emp)
	return emp
}

func (f *fakeGraphQL) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeGraphQL) resetOperations() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = nil
}

func (f *fakeGraphQL) handle(c *gin.Context) {
	var body graphQLBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, body.OperationName)

	authorized := c.GetHeader("Authorization") == "Bearer "+testToken
	user := gin.H{"id": "u-1", "email": testEmail, "role": "ADMIN"}
	fail := func(message string) {
		c.JSON(http.StatusOK, gin.H{"data": nil, "errors": []gin.H{{"message": message}}})
	}
	vars := body.Variables

	switch body.OperationName {
	case "Login":
		if vars["email"] != testEmail || vars["password"] != testPassword {
			fail("Invalid credentials")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"login": gin.H{"token": testToken, "user": user}}})
		return
	case "Me":
		if !authorized {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"me": nil}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"me": user}})
		return
	}

	if !authorized {
		fail("Unauthorized")
		return
	}

	switch body.OperationName {
	case "GetEmployees":
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"employees": f.page(vars)}})
	case "GetEmployee":
		emp, ok := f.find(vars["id"])
		if !ok {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"employee": nil}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"employee": emp}})
	case "CreateEmployee":
		input, _ := vars["input"].(map[string]any)
		name, _ := input["name"].(string)
		for _, e := range f.employees {
			if e.Name == name {
				fail("Name already exists")
				return
			}
		}
		class, _ := input["class"].(string)
		age, _ := input["age"].(float64)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"createEmployee": f.add(name, class, int(age))}})
	case "DeleteEmployee":
		for i, e := range f.employees {
			if e.ID == vars["id"] {
				f.employees = append(f.employees[:i], f.employees[i+1:]...)
				c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleteEmployee": true}})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleteEmployee": false}})
	default:
		fail("unknown operation " + body.OperationName)
	}
}

func (f *fakeGraphQL) find(id any) (models.Employee, bool) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, true
		}
	}
	return models.Employee{}, false
}

func (f *fakeGraphQL) page(vars map[string]any) []models.Employee {
	items := make([]models.Employee, 0, len(f.employees))
	search := ""
	if filter, ok := vars["filter"].(map[string]any); ok {
		search, _ = filter["name"].(string)
	}
	for _, e := range f.employees {
		if strings.Contains(strings.ToLower(e.Name), strings.ToLower(search)) {
			items = append(items, e)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	page, _ := vars["page"].(float64)
	limit, _ := vars["limit"].(float64)
	start := (int(page) - 1) * int(limit)
	if start >= len(items) {
		return []models.Employee{}
	}
	end := start + int(limit)
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &out)
	return out.String(), err
}

func login(t *testing.T) {
	t.Helper()
	out, err := runCLI(t, "", "login", "--email", testEmail, "--password", testPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as "+testEmail+" (ADMIN)")
}

func TestLoginThenWhoamiUsesStoredToken(t *testing.T) {
	newFakeGraphQL(t, 0)
	login(t)

	out, err := runCLI(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, testEmail)
	assert.Contains(t, out, "ADMIN")
}

func TestLoginReadsPasswordFromInput(t *testing.T) {
	newFakeGraphQL(t, 0)

	out, err := runCLI(t, testPassword+"\n", "login", "--email", testEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as")
}

func TestLoginFailureKeepsRemoteMessage(t *testing.T) {
	newFakeGraphQL(t, 0)

	_, err := runCLI(t, "", "login", "--email", testEmail, "--password", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", appErrors.UserMessage(err))

	_, err = runCLI(t, "", "whoami")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}

func TestProtectedCommandWithoutSessionMakesNoListCall(t *testing.T) {
	fake := newFakeGraphQL(t, 3)

	_, err := runCLI(t, "", "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
	assert.NotContains(t, fake.operations(), "GetEmployees")
}

func TestLogoutForgetsToken(t *testing.T) {
	newFakeGraphQL(t, 0)
	login(t)

	out, err := runCLI(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = runCLI(t, "", "whoami")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}

func TestListPrintsRequestedPage(t *testing.T) {
	fake := newFakeGraphQL(t, 10)
	login(t)

	out, err := runCLI(t, "", "list", "--limit", "4", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee 05")
	assert.Contains(t, out, "Employee 08")
	assert.NotContains(t, out, "Employee 04")
	assert.Contains(t, out, "page 2, 4 per page, more available")

	var lists int
	for _, op := range fake.operations() {
		if op == "GetEmployees" {
			lists++
		}
	}
	assert.Equal(t, 1, lists)
}

func TestListSearchAndLastPage(t *testing.T) {
	newFakeGraphQL(t, 10)
	login(t)

	out, err := runCLI(t, "", "list", "--search", "employee 1")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee 10")
	assert.NotContains(t, out, "Employee 01")
	assert.NotContains(t, out, "more available")
}

func TestListRejectsUnknownPageSize(t *testing.T) {
	newFakeGraphQL(t, 1)
	login(t)

	_, err := runCLI(t, "", "list", "--limit", "5")
	require.Error(t, err)
}

func TestCreatePrintsNotification(t *testing.T) {
	newFakeGraphQL(t, 0)
	login(t)

	out, err := runCLI(t, "", "create", "--name", "Anna", "--age", "30", "--class", "B2", "--subjects", "Math, Art", "--attendance", "88.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee added!")
	assert.Contains(t, out, "Anna")
}

func TestCreateDuplicateReturnsServiceMessage(t *testing.T) {
	newFakeGraphQL(t, 1)
	login(t)

	_, err := runCLI(t, "", "create", "--name", "Employee 01", "--class", "A1")
	require.Error(t, err)
	assert.Equal(t, "Name already exists", appErrors.UserMessage(err))
}

func TestCreateInvalidFormMakesNoCall(t *testing.T) {
	fake := newFakeGraphQL(t, 0)
	login(t)

	_, err := runCLI(t, "", "create", "--class", "A1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.NotContains(t, fake.operations(), "CreateEmployee")
}

func TestDeleteDeclinedMakesNoCall(t *testing.T) {
	fake := newFakeGraphQL(t, 2)
	login(t)

	out, err := runCLI(t, "n\n", "delete", "e-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete Employee 01? [y/N]")
	assert.Contains(t, out, "Delete cancelled")
	assert.NotContains(t, fake.operations(), "DeleteEmployee")
}

func TestDeleteConfirmed(t *testing.T) {
	fake := newFakeGraphQL(t, 2)
	login(t)

	out, err := runCLI(t, "y\n", "delete", "e-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee deleted!")
	assert.Contains(t, fake.operations(), "DeleteEmployee")

	_, err = runCLI(t, "", "get", "e-1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestThemeIsPersisted(t *testing.T) {
	newFakeGraphQL(t, 0)

	out, err := runCLI(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = runCLI(t, "", "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = runCLI(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = runCLI(t, "", "theme", "sepia")
	assert.Error(t, err)
}

func TestExportWritesFile(t *testing.T) {
	newFakeGraphQL(t, 3)
	login(t)

	out, err := runCLI(t, "", "export", "--format", "csv")
	require.NoError(t, err)
	require.Contains(t, out, "Exported 3 employees to ")

	path := strings.TrimSpace(strings.SplitN(out, " to ", 2)[1])
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Employee 02")
}

func TestUnprotectedCommandsSkipSessionCheck(t *testing.T) {
	fake := newFakeGraphQL(t, 0)
	login(t)
	fake.resetOperations()

	_, err := runCLI(t, "", "theme", "dark")
	require.NoError(t, err)
	_, err = runCLI(t, "", "logout")
	require.NoError(t, err)
	_, err = runCLI(t, "", "login", "--email", testEmail, "--password", testPassword)
	require.NoError(t, err)

	assert.Equal(t, []string{"Login", "Me"}, fake.operations())
}
