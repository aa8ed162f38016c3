package repository

import (
	"context"

	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
	"github.com/noah-isme/employee-admin-client/pkg/gateway"
)

// AuthRepository wraps the identity operations of the service.
type AuthRepository struct {
	gql GraphQLDoer
}

// NewAuthRepository creates a new AuthRepository.
func NewAuthRepository(gql GraphQLDoer) *AuthRepository {
	return &AuthRepository{gql: gql}
}

// Me resolves the identity behind the current bearer token.
func (r *AuthRepository) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		Me *models.User `json:"me"`
	}
	if err := r.gql.Do(ctx, gateway.Request{OperationName: "Me", Query: meQuery}, &out); err != nil {
		return nil, err
	}
	if out.Me == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "not authenticated")
	}
	return out.Me, nil
}

// Login exchanges credentials for a token.
func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.AuthPayload, error) {
	var out struct {
		Login *models.AuthPayload `json:"login"`
	}
	gqlReq := gateway.Request{
		OperationName: "Login",
		Query:         loginMutation,
		Variables:     map[string]any{"email": req.Email, "password": req.Password},
	}
	if err := r.gql.Do(ctx, gqlReq, &out); err != nil {
		return nil, err
	}
	if out.Login == nil || out.Login.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrRemote, "login returned no token")
	}
	return out.Login, nil
}

// Register creates an account and returns its token.
func (r *AuthRepository) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthPayload, error) {
	var out struct {
		Register *models.AuthPayload `json:"register"`
	}
	gqlReq := gateway.Request{
		OperationName: "Register",
		Query:         registerMutation,
		Variables:     map[string]any{"email": req.Email, "password": req.Password, "role": string(req.Role)},
	}
	if err := r.gql.Do(ctx, gqlReq, &out); err != nil {
		return nil, err
	}
	if out.Register == nil || out.Register.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrRemote, "register returned no token")
	}
	return out.Register, nil
}
