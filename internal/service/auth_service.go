package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/dto"
	"github.com/noah-isme/employee-admin-client/internal/models"
)

type authRemote interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthPayload, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthPayload, error)
}

type sessionWriter interface {
	Login(ctx context.Context, token string, user *models.User) error
}

// AuthService provides the login and register use cases.
type AuthService struct {
	remote    authRemote
	session   sessionWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(remote authRemote, session sessionWriter, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{remote: remote, session: session, validator: validate, logger: logger}
}

// Login authenticates against the service and starts a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if err := dto.Validate(s.validator, req, "invalid login payload"); err != nil {
		return nil, err
	}
	payload, err := s.remote.Login(ctx, req)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	return s.start(ctx, payload)
}

// Register creates an account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Role == "" {
		req.Role = models.RoleEmployee
	}
	if err := dto.Validate(s.validator, req, "invalid register payload"); err != nil {
		return nil, err
	}
	payload, err := s.remote.Register(ctx, req)
	if err != nil {
		s.logger.Info("register rejected", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	return s.start(ctx, payload)
}

func (s *AuthService) start(ctx context.Context, payload *models.AuthPayload) (*models.User, error) {
	user := payload.User
	if err := s.session.Login(ctx, payload.Token, &user); err != nil {
		return nil, err
	}
	s.logger.Info("signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}
