package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/octopus-tms/auth-service/internal/auth"
	"github.com/octopus-tms/auth-service/internal/config"
	"github.com/octopus-tms/auth-service/internal/domain"
	"github.com/octopus-tms/auth-service/internal/repository"
	apperrors "github.com/octopus-tms/auth-service/pkg/util"
)

// UserService provisions accounts. Self-registration does not exist on this
// platform; an operator with the manage-users capability creates accounts.
type UserService struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, companies repository.CompanyRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		companies:  companies,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateUserInput carries the provisioning request.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
	CompanyID *string
}

// CreateUser provisions a new account with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(input.Role)})
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	if input.CompanyID != nil {
		if _, err := s.companies.GetByID(ctx, *input.CompanyID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("company", map[string]any{"company_id": *input.CompanyID})
			}
			return nil, apperrors.NewInternalError(err)
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         input.Role,
		CompanyID:    input.CompanyID,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("user provisioned", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}
