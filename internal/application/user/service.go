// Package user provides the application layer for account registration and
// credential checks.
package user

import (
	"context"

	"github.com/foodgram/v2/internal/domain/user"
	"github.com/foodgram/v2/internal/ports/inbound"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/foodgram/v2/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the account use cases
type Service struct {
	users    outbound.UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new user service
func NewService(users outbound.UserRepository, logger *zap.Logger) inbound.UserService {
	return &Service{
		users:    users,
		validate: validator.New(),
		logger:   logger.Named("user-service"),
	}
}

// Register creates a new account after uniqueness checks
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.UserDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	existing, err := s.users.FindByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, errors.NewDatabaseError("check username", err)
	}
	if existing != nil {
		return nil, errors.NewUsernameTakenError(cmd.Username)
	}

	existing, err = s.users.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, errors.NewDatabaseError("check email", err)
	}
	if existing != nil {
		return nil, errors.NewEmailTakenError(cmd.Email)
	}

	account, err := user.NewUser(cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.users.Create(ctx, account); err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", account.ID().String()),
		zap.String("username", account.Username()),
	)

	return entityToDTO(account), nil
}

// Authenticate verifies a username/password pair
func (s *Service) Authenticate(ctx context.Context, username, password string) (*inbound.UserDTO, error) {
	account, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	if account == nil || !account.CheckPassword(password) {
		return nil, errors.NewInvalidCredentialsError()
	}

	return entityToDTO(account), nil
}

// GetByID retrieves an account by its identifier
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*inbound.UserDTO, error) {
	account, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	if account == nil {
		return nil, errors.NewUserNotFoundError(id.String())
	}
	return entityToDTO(account), nil
}

func entityToDTO(u *user.User) *inbound.UserDTO {
	return &inbound.UserDTO{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		Superuser: u.IsSuperuser(),
	}
}
