package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

type capturedRequest struct {
	Header http.Header
	Body   Request
}

func newFakeService(t *testing.T, status int, payload gin.H) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var captured []capturedRequest
	r := gin.New()
	r.POST("/graphql", func(c *gin.Context) {
		var body Request
		require.NoError(t, c.ShouldBindJSON(&body))
		captured = append(captured, capturedRequest{Header: c.Request.Header.Clone(), Body: body})
		c.JSON(status, payload)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &captured
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveOperation(operation, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, operation+":"+outcome)
}

func TestDoAttachesBearerTokenAndDecodesData(t *testing.T) {
	srv, captured := newFakeService(t, http.StatusOK, gin.H{"data": gin.H{"me": gin.H{"id": "u1", "email": "a@b.c", "role": "ADMIN"}}})
	obs := &recordingObserver{}
	client := New(srv.URL+"/graphql",
		WithTokenSource(func(context.Context) (string, error) { return "tok-123", nil }),
		WithObserver(obs),
	)

	var out struct {
		Me struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"me"`
	}
	err := client.Do(context.Background(), Request{OperationName: "Me", Query: "query Me { me { id email role } }"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "u1", out.Me.ID)
	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.NotEmpty(t, req.Header.Get(requestIDHeader))
	assert.Equal(t, "Me", req.Body.OperationName)
	assert.Equal(t, []string{"Me:ok"}, obs.outcomes)
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	srv, captured := newFakeService(t, http.StatusOK, gin.H{"data": gin.H{"employees": []gin.H{}}})
	client := New(srv.URL+"/graphql", WithTokenSource(func(context.Context) (string, error) { return "", nil }))

	require.NoError(t, client.Do(context.Background(), Request{Query: "{ employees { id } }"}, nil))

	require.Len(t, *captured, 1)
	_, present := (*captured)[0].Header["Authorization"]
	assert.False(t, present)
}

func TestDoReturnsRemoteMessageVerbatim(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusOK, gin.H{
		"data":   nil,
		"errors": []gin.H{{"message": "Name already exists", "path": []string{"createEmployee"}}},
	})
	obs := &recordingObserver{}
	client := New(srv.URL+"/graphql", WithObserver(obs))

	err := client.Do(context.Background(), Request{OperationName: "CreateEmployee", Query: "mutation {}"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrRemote))
	assert.Equal(t, "Name already exists", appErrors.UserMessage(err))

	var remote *RemoteErrors
	require.True(t, errors.As(err, &remote))
	assert.Len(t, remote.Errors, 1)
	assert.Equal(t, []string{"CreateEmployee:remote_error"}, obs.outcomes)
}

func TestDoUnexpectedStatusIsTransportError(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusBadGateway, gin.H{"message": "upstream down"})
	client := New(srv.URL + "/graphql")

	err := client.Do(context.Background(), Request{Query: "{ me { id } }"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTransport))
	assert.Equal(t, http.StatusBadGateway, appErrors.FromError(err).Status)
}

func TestDoNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url+"/graphql", WithTimeout(time.Second))
	err := client.Do(context.Background(), Request{Query: "{ me { id } }"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTransport))
}
